package controllers

import (
	"net/http"

	"go-ecommerce-api/apperrors"
	"go-ecommerce-api/schemas"
	"go-ecommerce-api/services"
)

// CartController handles cart-related requests
type CartController struct {
	carts *services.CartService
}

// NewCartController creates a new CartController
func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

// AddToCart adds a product to the user's cart
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	var req schemas.AddCartItemRequest
	if err := schemas.Decode(r, &req); err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	item, err := cc.carts.AddItem(ctx, caller, req.ProductID, req.Quantity)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}

// RemoveFromCart removes an item from the user's cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	id, err := pathID(r, apperrors.CartItemNotFound)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	if err := cc.carts.DeleteItem(ctx, caller, id); err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, message{"Item removed from cart"})
}

// ChangeQuantity overwrites the quantity of a cart item
func (cc *CartController) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	id, err := pathID(r, apperrors.CartItemNotFound)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	var req schemas.ChangeQuantityRequest
	if err := schemas.Decode(r, &req); err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	item, err := cc.carts.ChangeQuantity(ctx, caller, id, req.Quantity)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}

// GetCart retrieves the user's cart
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	items, err := cc.carts.GetCart(ctx, caller)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, items)
}

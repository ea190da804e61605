// controllers/order.go
package controllers

import (
	"net/http"

	"go-ecommerce-api/apperrors"
	"go-ecommerce-api/schemas"
	"go-ecommerce-api/services"
)

// OrderController handles order-related requests
type OrderController struct {
	orders *services.OrderService
}

// NewOrderController creates a new OrderController
func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// CreateOrder creates a new order from the user's cart
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	order, err := oc.orders.CreateOrder(ctx, caller)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	if order == nil {
		writeJSON(w, r, http.StatusOK, message{"Cart is empty"})
		return
	}
	writeJSON(w, r, http.StatusCreated, order)
}

// GetOrders returns the caller's orders
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	filter, err := schemas.OrderFilter(r.URL.Query())
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	orders, err := oc.orders.ListOrders(ctx, caller, filter)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, orders)
}

// GetOrderByID returns an order with its items and events
func (oc *OrderController) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	id, err := pathID(r, apperrors.OrderNotFound)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	order, err := oc.orders.GetOrder(ctx, caller, id)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, order)
}

// CancelOrder cancels one of the caller's orders
func (oc *OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	id, err := pathID(r, apperrors.OrderNotFound)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	order, err := oc.orders.CancelOrder(ctx, caller, id)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, order)
}

// GetAllOrders returns orders of every user (admin)
func (oc *OrderController) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := schemas.OrderFilter(r.URL.Query())
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	orders, err := oc.orders.ListAllOrders(ctx, filter)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, orders)
}

// GetUserOrders returns the orders of one user (admin)
func (oc *OrderController) GetUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, apperrors.UserNotFound)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	filter, err := schemas.OrderFilter(r.URL.Query())
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	orders, err := oc.orders.ListUserOrders(ctx, userID, filter)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, orders)
}

// UpdateOrderStatus moves an order to a new status (admin)
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	id, err := pathID(r, apperrors.OrderNotFound)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	var req schemas.UpdateOrderStatusRequest
	if err := schemas.Decode(r, &req); err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	order, err := oc.orders.UpdateOrderStatus(ctx, caller, id, req.Status)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, order)
}

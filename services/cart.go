package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"go-ecommerce-api/apperrors"
	"go-ecommerce-api/models"
	"go-ecommerce-api/store"
)

// CartService manages the caller's cart lines.
type CartService struct {
	repo store.Repository
}

// NewCartService creates a new CartService
func NewCartService(repo store.Repository) *CartService {
	return &CartService{repo: repo}
}

// AddItem puts quantity units of a product into the caller's cart, adding to
// the existing line for that product if there is one.
func (s *CartService) AddItem(ctx context.Context, caller Caller, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 || quantity > models.MaxQuantity {
		return nil, invalidQuantity()
	}

	var item *models.CartItem
	upsert := func(tx store.Repository) error {
		product, err := tx.FindProduct(ctx, productID)
		if err != nil {
			return notFound(err, "Product not found", apperrors.ProductNotFound)
		}

		existing, err := tx.FindCartItemByProduct(ctx, caller.UserID, productID)
		switch {
		case err == nil:
			if existing.Quantity > models.MaxQuantity-quantity {
				return invalidQuantity()
			}
			existing.Quantity += quantity
		case errors.Is(err, store.ErrNotFound):
			existing = &models.CartItem{UserID: caller.UserID, ProductID: productID, Quantity: quantity}
		default:
			return err
		}
		if err := tx.SaveCartItem(ctx, existing); err != nil {
			return err
		}
		existing.Product = product
		item = existing
		return nil
	}

	err := s.repo.Transact(ctx, upsert)
	if errors.Is(err, store.ErrDuplicate) {
		// A concurrent request inserted the line first; this time we update it.
		err = s.repo.Transact(ctx, upsert)
	}
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Uint("product_id", productID).Int("quantity", item.Quantity).Msg("cart item saved")
	return item, nil
}

// DeleteItem removes one of the caller's cart lines. Lines of other users are
// reported as missing.
func (s *CartService) DeleteItem(ctx context.Context, caller Caller, itemID uint) error {
	if _, err := s.ownedItem(ctx, s.repo, caller, itemID); err != nil {
		return err
	}
	if err := s.repo.DeleteCartItem(ctx, itemID); err != nil {
		return notFound(err, "Cart item not found", apperrors.CartItemNotFound)
	}
	return nil
}

// ChangeQuantity overwrites the quantity of one of the caller's cart lines.
func (s *CartService) ChangeQuantity(ctx context.Context, caller Caller, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 || quantity > models.MaxQuantity {
		return nil, invalidQuantity()
	}
	var item *models.CartItem
	err := s.repo.Transact(ctx, func(tx store.Repository) error {
		owned, err := s.ownedItem(ctx, tx, caller, itemID)
		if err != nil {
			return err
		}
		owned.Quantity = quantity
		if err := tx.SaveCartItem(ctx, owned); err != nil {
			return err
		}
		item = owned
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetCart returns the caller's cart lines with their products.
func (s *CartService) GetCart(ctx context.Context, caller Caller) ([]models.CartItem, error) {
	return s.repo.CartItems(ctx, caller.UserID, false)
}

func (s *CartService) ownedItem(ctx context.Context, repo store.Repository, caller Caller, itemID uint) (*models.CartItem, error) {
	item, err := repo.FindCartItem(ctx, itemID)
	if err != nil {
		return nil, notFound(err, "Cart item not found", apperrors.CartItemNotFound)
	}
	if item.UserID != caller.UserID {
		return nil, apperrors.NotFound("Cart item not found", apperrors.CartItemNotFound)
	}
	return item, nil
}

func invalidQuantity() error {
	return apperrors.Validation("Unprocessable entity", map[string]string{
		"quantity": fmt.Sprintf("must be between 1 and %d per cart line", models.MaxQuantity),
	})
}

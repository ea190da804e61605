package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"go-ecommerce-api/apperrors"
	"go-ecommerce-api/metrics"
	"go-ecommerce-api/models"
	"go-ecommerce-api/store"
)

// OrderNotifier tells customers about their orders.
type OrderNotifier interface {
	SendOrderConfirmationEmail(toEmail string, order models.Order) error
	SendOrderStatusEmail(toEmail string, order models.Order) error
}

// OrderService turns carts into orders and drives the order lifecycle.
type OrderService struct {
	repo              store.Repository
	notifier          OrderNotifier
	metrics           *metrics.Metrics
	strictTransitions bool
	now               func() time.Time
}

type OrderOption func(*OrderService)

// WithNotifier sends customer emails after each committed change.
func WithNotifier(n OrderNotifier) OrderOption {
	return func(s *OrderService) { s.notifier = n }
}

func WithMetrics(m *metrics.Metrics) OrderOption {
	return func(s *OrderService) { s.metrics = m }
}

// WithStrictTransitions makes UpdateOrderStatus reject moves that are not an
// edge of the lifecycle graph.
func WithStrictTransitions(strict bool) OrderOption {
	return func(s *OrderService) { s.strictTransitions = strict }
}

// NewOrderService creates a new OrderService
func NewOrderService(repo store.Repository, opts ...OrderOption) *OrderService {
	s := &OrderService{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder places an order for everything in the caller's cart and empties
// the cart. An empty cart is not an error: the result is nil, nil and nothing
// is written.
func (s *OrderService) CreateOrder(ctx context.Context, caller Caller) (*models.Order, error) {
	var (
		order *models.Order
		email string
	)
	err := s.repo.Transact(ctx, func(tx store.Repository) error {
		items, err := tx.CartItems(ctx, caller.UserID, true)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}

		user, err := tx.FindUser(ctx, caller.UserID, false)
		if err != nil {
			return notFound(err, "User not found", apperrors.UserNotFound)
		}

		netAmount := decimal.Zero
		lines := make([]models.OrderItem, 0, len(items))
		cartIDs := make([]uint, 0, len(items))
		for _, item := range items {
			if item.Product == nil {
				return apperrors.NotFound(fmt.Sprintf("Product %d no longer exists", item.ProductID), apperrors.ProductNotFound)
			}
			netAmount = netAmount.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			lines = append(lines, models.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
			cartIDs = append(cartIDs, item.ID)
		}

		address, err := shippingAddress(ctx, tx, user)
		if err != nil {
			return err
		}

		now := s.now()
		created := &models.Order{
			UserID:    caller.UserID,
			NetAmount: netAmount,
			Address:   address,
			Status:    models.StatusPending,
			Products:  lines,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.CreateOrder(ctx, created); err != nil {
			return err
		}
		event := models.OrderEvent{OrderID: created.ID, Status: models.StatusPending, CreatedAt: now, UpdatedAt: now}
		if err := tx.CreateOrderEvent(ctx, &event); err != nil {
			return err
		}
		created.Events = []models.OrderEvent{event}

		deleted, err := tx.DeleteCartItems(ctx, caller.UserID, cartIDs)
		if err != nil {
			return err
		}
		if deleted != int64(len(cartIDs)) {
			return apperrors.Conflict("Cart changed while the order was being placed", apperrors.CartChanged)
		}

		order, email = created, user.Email
		return nil
	})
	if err != nil {
		return nil, transactionError(err)
	}
	if order == nil {
		return nil, nil
	}

	s.metrics.OrderCreated()
	zerolog.Ctx(ctx).Info().
		Uint("order_id", order.ID).
		Uint("user_id", order.UserID).
		Str("net_amount", order.NetAmount.String()).
		Int("items", len(order.Products)).
		Msg("order created")
	s.notify(ctx, email, *order, true)
	return order, nil
}

// shippingAddress renders the user's default shipping address, or "" when
// none is set or it no longer exists.
func shippingAddress(ctx context.Context, tx store.Repository, user *models.User) (string, error) {
	if user.DefaultShippingAddress == nil {
		return "", nil
	}
	address, err := tx.FindAddress(ctx, *user.DefaultShippingAddress)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return address.FormattedAddress(), nil
}

// CancelOrder cancels one of the caller's own orders. Each call records a new
// CANCELLED event, whatever the current status.
func (s *OrderService) CancelOrder(ctx context.Context, caller Caller, orderID uint) (*models.Order, error) {
	return s.changeStatus(ctx, orderID, models.StatusCancelled, func(order *models.Order) error {
		if order.UserID != caller.UserID {
			return apperrors.Unauthorized("You cannot cancel this order", apperrors.UnauthorizedAccess)
		}
		return nil
	})
}

// UpdateOrderStatus moves an order to status. Only admins may call it.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, caller Caller, orderID uint, status models.OrderStatus) (*models.Order, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.Unauthorized("Unauthorized", apperrors.UnauthorizedAccess)
	}
	if !status.Valid() {
		return nil, apperrors.Validation("Unprocessable entity", map[string]string{
			"status": fmt.Sprintf("must be one of %v", models.OrderStatuses),
		})
	}
	return s.changeStatus(ctx, orderID, status, func(order *models.Order) error {
		if s.strictTransitions && !order.Status.CanTransitionTo(status) {
			return apperrors.Conflict(
				fmt.Sprintf("Order cannot move from %s to %s", order.Status, status),
				apperrors.InvalidStatusTransition,
			)
		}
		return nil
	})
}

// changeStatus sets the order status and appends the matching event in one
// transaction. check may veto the change after the order has been read.
func (s *OrderService) changeStatus(ctx context.Context, orderID uint, status models.OrderStatus, check func(*models.Order) error) (*models.Order, error) {
	var (
		order *models.Order
		email string
	)
	err := s.repo.Transact(ctx, func(tx store.Repository) error {
		current, err := tx.FindOrder(ctx, orderID, false)
		if err != nil {
			return notFound(err, "Order not found", apperrors.OrderNotFound)
		}
		if err := check(current); err != nil {
			return err
		}

		now := s.now()
		if err := tx.UpdateOrderStatus(ctx, orderID, status); err != nil {
			return err
		}
		if err := tx.CreateOrderEvent(ctx, &models.OrderEvent{OrderID: orderID, Status: status, CreatedAt: now, UpdatedAt: now}); err != nil {
			return err
		}

		if s.notifier != nil {
			owner, err := tx.FindUser(ctx, current.UserID, false)
			if err != nil {
				return err
			}
			email = owner.Email
		}

		order, err = tx.FindOrder(ctx, orderID, true)
		return err
	})
	if err != nil {
		return nil, transactionError(err)
	}

	s.metrics.OrderStatusChanged(status)
	zerolog.Ctx(ctx).Info().Uint("order_id", order.ID).Str("status", string(status)).Msg("order status changed")
	s.notify(ctx, email, *order, false)
	return order, nil
}

// GetOrder returns an order with its items and events. Orders of other users
// are reported as missing unless the caller is an admin.
func (s *OrderService) GetOrder(ctx context.Context, caller Caller, orderID uint) (*models.Order, error) {
	order, err := s.repo.FindOrder(ctx, orderID, true)
	if err != nil {
		return nil, notFound(err, "Order not found", apperrors.OrderNotFound)
	}
	if order.UserID != caller.UserID && !caller.IsAdmin() {
		return nil, apperrors.NotFound("Order not found", apperrors.OrderNotFound)
	}
	return order, nil
}

// ListOrders returns the caller's own orders.
func (s *OrderService) ListOrders(ctx context.Context, caller Caller, filter store.OrderFilter) ([]models.Order, error) {
	return s.ListUserOrders(ctx, caller.UserID, filter)
}

// ListAllOrders returns orders of every user.
func (s *OrderService) ListAllOrders(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	filter.UserID = 0
	return s.list(ctx, filter)
}

// ListUserOrders returns the orders of one user.
func (s *OrderService) ListUserOrders(ctx context.Context, userID uint, filter store.OrderFilter) ([]models.Order, error) {
	filter.UserID = userID
	return s.list(ctx, filter)
}

func (s *OrderService) list(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.Validation("Unprocessable entity", map[string]string{
			"status": fmt.Sprintf("must be one of %v", models.OrderStatuses),
		})
	}
	filter.Page = NormalizePage(filter.Page)
	return s.repo.ListOrders(ctx, filter)
}

// notify emails the customer in the background. Delivery failures are logged
// and never reach the caller.
func (s *OrderService) notify(ctx context.Context, email string, order models.Order, created bool) {
	if s.notifier == nil || email == "" {
		return
	}
	logger := zerolog.Ctx(ctx).With().Uint("order_id", order.ID).Str("to", email).Logger()
	go func() {
		var err error
		if created {
			err = s.notifier.SendOrderConfirmationEmail(email, order)
		} else {
			err = s.notifier.SendOrderStatusEmail(email, order)
		}
		if err != nil {
			logger.Error().Err(err).Msg("failed to send order email")
		}
	}()
}

// transactionError keeps client-facing errors raised inside a transaction and
// reports anything else as a failed order transaction.
func transactionError(err error) error {
	var httpErr *apperrors.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return apperrors.Internal(apperrors.OrderTransactionFailed, err)
}

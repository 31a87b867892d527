package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"green-kart/internal/auth"
	"green-kart/internal/delivery"
	"green-kart/internal/lifecycle"
	"green-kart/internal/model"
	"green-kart/internal/pricing"
	"green-kart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	pricer      *pricing.Engine
	estimator   *delivery.Estimator
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	pricer *pricing.Engine,
	estimator *delivery.Estimator,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		pricer:      pricer,
		estimator:   estimator,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// Checkout validates the request, prices the order from current product
// data, atomically decrements stock and persists the order with its
// items in one transaction.
func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID, req *model.OrderRequest) (*model.OrderCreatedResponse, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	estimate := s.estimator.Estimate(req.ShippingAddress.Pincode)
	if !estimate.Available {
		s.logger.Warn().
			Str("pincode", req.ShippingAddress.Pincode).
			Msg("delivery unavailable for pincode")
		return nil, model.NewDomainError(model.ErrCodeValidation, estimate.Message)
	}

	productIDs := make([]string, len(req.Items))
	for i, item := range req.Items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to retrieve products for checkout")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	byID := make(map[string]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]pricing.LineItem, len(req.Items))
	for i, item := range req.Items {
		product, ok := byID[item.ProductID]
		if !ok || !product.IsActive {
			s.logger.Warn().Str("product_id", item.ProductID).Msg("product unavailable")
			return nil, model.ErrProductNotFound
		}
		lines[i] = pricing.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		}
	}

	// Checkout does not apply a discount; the parameter exists for a
	// product-level rule that has never been defined.
	summary, err := s.pricer.ComputeSummary(lines, estimate.DeliveryFee, 0)
	if err != nil {
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	// Decrement stock inside the transaction so a conflicting concurrent
	// order aborts here instead of over-selling.
	for _, item := range req.Items {
		if err = s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			s.logger.Warn().
				Err(err).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("stock decrement failed")
			return nil, err
		}
	}

	now := time.Now()
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cod"
	}

	order := &model.Order{
		ID:                uuid.New(),
		OrderNumber:       generateOrderNumber(now),
		UserID:            userID,
		Summary:           *summary,
		Status:            model.OrderStatusPending,
		PaymentStatus:     model.PaymentStatusPending,
		PaymentMethod:     paymentMethod,
		ShippingAddress:   req.ShippingAddress,
		EstimatedDelivery: now.Add(time.Duration(estimate.MaxDays) * 24 * time.Hour),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	orderItems := make([]model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		orderItems[i] = model.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   item.ProductID,
			ProductName: byID[item.ProductID].Name,
			Quantity:    item.Quantity,
			UnitPrice:   byID[item.ProductID].Price,
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(orderItems)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Int("item_count", len(orderItems)).
		Float64("total", summary.Total).
		Msg("order created")

	return &model.OrderCreatedResponse{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
	}, nil
}

// GetByID retrieves an order, restricted to the owner or an order
// manager.
func (s *orderService) GetByID(ctx context.Context, claims *auth.Claims, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if err := authorizeOrderAccess(claims, order); err != nil {
		return nil, err
	}

	return order, nil
}

// ListForUser retrieves a user's orders, optionally filtered by status.
func (s *orderService) ListForUser(ctx context.Context, userID uuid.UUID, status *model.OrderStatus) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID, status)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Cancel cancels an order if its lifecycle allows, then restores stock.
func (s *orderService) Cancel(ctx context.Context, claims *auth.Claims, id uuid.UUID) error {
	return s.applyEvent(ctx, claims, id, lifecycle.EventCancel)
}

// Return returns a delivered order inside the return window, then
// restores stock.
func (s *orderService) Return(ctx context.Context, claims *auth.Claims, id uuid.UUID) error {
	return s.applyEvent(ctx, claims, id, lifecycle.EventReturn)
}

func (s *orderService) applyEvent(ctx context.Context, claims *auth.Claims, id uuid.UUID, event lifecycle.Event) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return model.ErrOrderNotFound
	}

	if err := authorizeOrderAccess(claims, order); err != nil {
		return err
	}

	next, err := lifecycle.Advance(order.Status, event, order.ActualDelivery, time.Now())
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("order_id", id.String()).
			Str("status", string(order.Status)).
			Str("event", string(event)).
			Msg("transition rejected")
		return err
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, next, nil, nil); err != nil {
		return err
	}

	s.restoreStock(ctx, order)

	s.logger.Info().
		Str("order_id", id.String()).
		Str("status", string(next)).
		Msg("order transitioned")

	return nil
}

// UpdateStatus applies an administrative fulfilment transition expressed
// as a target status.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, req *model.StatusUpdateRequest) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return model.ErrOrderNotFound
	}

	event, err := lifecycle.EventForTarget(req.Status)
	if err != nil {
		return err
	}

	now := time.Now()
	next, err := lifecycle.Advance(order.Status, event, order.ActualDelivery, now)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("order_id", id.String()).
			Str("from", string(order.Status)).
			Str("to", string(req.Status)).
			Msg("transition rejected")
		return err
	}

	var actualDelivery *time.Time
	if next == model.OrderStatusDelivered {
		actualDelivery = &now
	}
	var trackingNumber *string
	if req.TrackingNumber != "" {
		trackingNumber = &req.TrackingNumber
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, next, actualDelivery, trackingNumber); err != nil {
		return err
	}

	if next == model.OrderStatusCancelled || next == model.OrderStatusReturned {
		s.restoreStock(ctx, order)
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("status", string(next)).
		Msg("order status updated")

	return nil
}

// restoreStock puts an order's quantities back after a cancel or return.
// Failures are logged and skipped; the transition itself has already
// committed.
func (s *orderService) restoreStock(ctx context.Context, order *model.Order) {
	for _, item := range order.Items {
		if err := s.productRepo.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Error().
				Err(err).
				Str("order_id", order.ID.String()).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("failed to restore stock")
		}
	}
}

// validateOrderRequest validates the order request.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeValidation, "order request is nil")
	}

	if len(req.Items) == 0 {
		return model.NewDomainError(model.ErrCodeValidation, "order must contain at least one item")
	}

	for i, item := range req.Items {
		if item.ProductID == "" {
			return model.NewDomainError(model.ErrCodeValidation,
				fmt.Sprintf("item %d: product ID is required", i))
		}
		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	if violations := delivery.ValidateAddress(req.ShippingAddress); len(violations) > 0 {
		return model.NewDomainError(model.ErrCodeValidation, strings.Join(violations, ", "))
	}

	return nil
}

// authorizeOrderAccess allows the order's owner and holders of the
// manage-orders permission.
func authorizeOrderAccess(claims *auth.Claims, order *model.Order) error {
	if claims == nil {
		return model.ErrForbidden
	}
	if claims.UID == order.UserID.String() {
		return nil
	}
	if auth.HasPermission(claims.Permissions, auth.PermManageOrders) {
		return nil
	}
	return model.ErrForbidden
}

// generateOrderNumber builds a human-readable order number from the
// order timestamp and a short random suffix.
func generateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:4])
	return fmt.Sprintf("ORD-%08d-%s", now.UnixMilli()%100_000_000, suffix)
}

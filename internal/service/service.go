package service

import (
	"context"

	"green-kart/internal/auth"
	"green-kart/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for product management.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}

// OrderService defines operations for order placement and lifecycle
// management.
type OrderService interface {
	// Checkout validates the request, prices the order, atomically
	// decrements stock and persists the order.
	Checkout(ctx context.Context, userID uuid.UUID, req *model.OrderRequest) (*model.OrderCreatedResponse, error)

	// GetByID retrieves an order. Access is limited to the order's owner
	// and holders of the manage-orders permission.
	GetByID(ctx context.Context, claims *auth.Claims, id uuid.UUID) (*model.Order, error)

	// ListForUser retrieves a user's orders, optionally filtered by status.
	ListForUser(ctx context.Context, userID uuid.UUID, status *model.OrderStatus) ([]model.Order, error)

	// Cancel cancels an order if its status allows, restoring stock.
	Cancel(ctx context.Context, claims *auth.Claims, id uuid.UUID) error

	// Return returns a delivered order inside the return window,
	// restoring stock.
	Return(ctx context.Context, claims *auth.Claims, id uuid.UUID) error

	// UpdateStatus applies an administrative fulfilment transition.
	UpdateStatus(ctx context.Context, id uuid.UUID, req *model.StatusUpdateRequest) error
}

// AccountService defines registration and authentication operations.
type AccountService interface {
	// Register creates an account and issues a session token.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)

	// Login authenticates credentials and issues a session token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
}

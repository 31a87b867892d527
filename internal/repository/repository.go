package repository

import (
	"context"
	"time"

	"green-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves active products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// CreateProduct inserts a new product.
	CreateProduct(ctx context.Context, product *model.Product) error

	// DecrementStock atomically subtracts quantity from a product's stock
	// within the provided transaction. It fails with
	// model.ErrInsufficientStock when the decrement would underflow;
	// stock never goes negative.
	DecrementStock(ctx context.Context, tx pgx.Tx, id string, quantity int) error

	// RestoreStock adds quantity back to a product's stock, used when an
	// order is cancelled or returned.
	RestoreStock(ctx context.Context, id string, quantity int) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts the order's line items within the provided
	// transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByUser retrieves a user's orders, newest first, optionally
	// filtered by status.
	ListByUser(ctx context.Context, userID uuid.UUID, status *model.OrderStatus) ([]model.Order, error)

	// UpdateStatus records a status transition, with optional delivery
	// timestamp and tracking number.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus, actualDelivery *time.Time, trackingNumber *string) error
}

// UserRepository defines the interface for account data access operations.
type UserRepository interface {
	// Create inserts a new user account.
	Create(ctx context.Context, user *model.User) error

	// GetByEmail retrieves a user by email, or nil when absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID retrieves a user by ID, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

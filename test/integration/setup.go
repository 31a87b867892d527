package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	// Create schema
	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(64) PRIMARY KEY,
			sku VARCHAR(64) NOT NULL,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category VARCHAR(100) NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			currency VARCHAR(8) NOT NULL DEFAULT '₹',
			rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			image_path TEXT NOT NULL DEFAULT '',
			amazon_link TEXT NOT NULL DEFAULT '',
			discount INTEGER NOT NULL DEFAULT 0,
			benefits TEXT[] NOT NULL DEFAULT '{}',
			stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
			weight VARCHAR(32) NOT NULL DEFAULT '',
			tags TEXT[] NOT NULL DEFAULT '{}',
			gst_rate DOUBLE PRECISION NOT NULL DEFAULT 0.18,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			is_featured BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			password_hash TEXT NOT NULL,
			role VARCHAR(16) NOT NULL DEFAULT 'customer',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			order_number VARCHAR(32) NOT NULL,
			user_id UUID NOT NULL REFERENCES users(id),
			subtotal DOUBLE PRECISION NOT NULL,
			delivery_fee DOUBLE PRECISION NOT NULL,
			tax DOUBLE PRECISION NOT NULL,
			discount DOUBLE PRECISION NOT NULL DEFAULT 0,
			total DOUBLE PRECISION NOT NULL,
			status VARCHAR(20) NOT NULL,
			payment_status VARCHAR(20) NOT NULL,
			payment_method VARCHAR(20) NOT NULL,
			ship_name VARCHAR(255) NOT NULL,
			ship_phone VARCHAR(20) NOT NULL DEFAULT '',
			ship_line1 VARCHAR(255) NOT NULL,
			ship_line2 VARCHAR(255) NOT NULL DEFAULT '',
			ship_city VARCHAR(100) NOT NULL,
			ship_state VARCHAR(100) NOT NULL,
			ship_pincode VARCHAR(6) NOT NULL,
			ship_country VARCHAR(100) NOT NULL,
			estimated_delivery TIMESTAMPTZ NOT NULL,
			actual_delivery TIMESTAMPTZ,
			tracking_number VARCHAR(64),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id VARCHAR(64) NOT NULL REFERENCES products(id),
			product_name VARCHAR(255) NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price DOUBLE PRECISION NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);
		CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
		CREATE INDEX IF NOT EXISTS idx_order_items_product_id ON order_items(product_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedProducts inserts test product data into the database.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	products := []struct {
		id    string
		name  string
		price float64
		stock int
	}{
		{"P001", "Areca Palm", 499.00, 20},
		{"P002", "Snake Plant", 349.00, 15},
		{"P003", "Peace Lily", 599.00, 10},
		{"P004", "Money Plant", 199.00, 30},
		{"P005", "Jade Plant", 249.00, 1},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx,
			`INSERT INTO products (id, sku, name, category, price, description, image_path, stock)
			 VALUES ($1, $1, $2, 'plants', $3, 'Indoor plant', '/img/plant.jpg', $4)`,
			p.id, p.name, p.price, p.stock,
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}
}

// SeedUser inserts a user account and returns nothing; callers know the
// ID they passed in.
func SeedUser(t *testing.T, pool *pgxpool.Pool, id, email, passwordHash, role string) {
	t.Helper()

	ctx := context.Background()

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, role)
		 VALUES ($1, $2, 'Test User', $3, $4)`,
		id, email, passwordHash, role,
	)
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "users", "products"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

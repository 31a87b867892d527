package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"green-kart/internal/model"
	"green-kart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress() model.Address {
	return model.Address{
		Name:         "Asha Verma",
		Phone:        "9876543210",
		AddressLine1: "12 MG Road",
		City:         "New Delhi",
		State:        "Delhi",
		Pincode:      "110001",
		Country:      "India",
	}
}

func testOrder(userID uuid.UUID) *model.Order {
	now := time.Now()
	return &model.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD-00000001-TEST",
		UserID:      userID,
		Summary: model.OrderSummary{
			Subtotal:    848,
			DeliveryFee: 50,
			Tax:         152.64,
			Total:       1050.64,
		},
		Status:            model.OrderStatusPending,
		PaymentStatus:     model.PaymentStatusPending,
		PaymentMethod:     "cod",
		ShippingAddress:   testAddress(),
		EstimatedDelivery: now.Add(4 * 24 * time.Hour),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func seedTestUser(t *testing.T, db *TestDB) uuid.UUID {
	t.Helper()
	userID := uuid.New()
	SeedUser(t, db.Pool, userID.String(), "asha@example.com", "not-a-real-hash", "customer")
	return userID
}

func TestProductRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewProductRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("GetAll returns seeded products", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		products, err := repo.GetAll(ctx, 10, 0)
		require.NoError(t, err)
		assert.Len(t, products, 5)
	})

	t.Run("GetAll with pagination", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		products, err := repo.GetAll(ctx, 2, 0)
		require.NoError(t, err)
		assert.Len(t, products, 2)

		products, err = repo.GetAll(ctx, 2, 2)
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("GetAll excludes inactive products", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		_, err := testDB.Pool.Exec(ctx, `UPDATE products SET is_active = FALSE WHERE id = 'P001'`)
		require.NoError(t, err)

		products, err := repo.GetAll(ctx, 10, 0)
		require.NoError(t, err)
		assert.Len(t, products, 4)
	})

	t.Run("GetByID returns correct product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		product, err := repo.GetByID(ctx, "P001")
		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "P001", product.ID)
		assert.Equal(t, "Areca Palm", product.Name)
		assert.Equal(t, 499.00, product.Price)
		assert.Equal(t, 20, product.Stock)
	})

	t.Run("GetByID returns nil for non-existent product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		product, err := repo.GetByID(ctx, "P999")
		require.NoError(t, err)
		assert.Nil(t, product)
	})

	t.Run("GetByIDs returns multiple products", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		products, err := repo.GetByIDs(ctx, []string{"P001", "P003", "P005"})
		require.NoError(t, err)
		assert.Len(t, products, 3)
	})

	t.Run("CreateProduct round-trips arrays", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		now := time.Now()
		product := &model.Product{
			ID:          "PLA-ARE-00000100001",
			SKU:         "PLA-ARE-00000100001",
			Name:        "Areca Palm",
			Description: "Air purifying palm",
			Category:    "plants",
			Price:       499,
			Currency:    "₹",
			Rating:      4.5,
			ImagePath:   "/img/areca.jpg",
			Benefits:    []string{"Air purifying", "Pet friendly"},
			Stock:       12,
			Tags:        []string{"indoor", "palm"},
			GSTRate:     0.18,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		require.NoError(t, repo.CreateProduct(ctx, product))

		got, err := repo.GetByID(ctx, product.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, []string{"Air purifying", "Pet friendly"}, got.Benefits)
		assert.Equal(t, []string{"indoor", "palm"}, got.Tags)
	})

	t.Run("DecrementStock rejects underflow", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		tx, err := testDB.Pool.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		// P005 is seeded with a single unit
		err = repo.DecrementStock(ctx, tx, "P005", 2)
		assert.ErrorIs(t, err, model.ErrInsufficientStock)
	})

	t.Run("DecrementStock distinguishes missing product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		tx, err := testDB.Pool.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		err = repo.DecrementStock(ctx, tx, "P999", 1)
		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})

	t.Run("Concurrent decrements never oversell the last unit", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		// P005 has stock 1; two buyers race for it.
		results := make([]error, 2)
		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()

				tx, err := testDB.Pool.Begin(ctx)
				if err != nil {
					results[i] = err
					return
				}

				err = repo.DecrementStock(ctx, tx, "P005", 1)
				results[i] = err
				if err != nil {
					tx.Rollback(ctx)
					return
				}
				results[i] = tx.Commit(ctx)
			}(i)
		}
		wg.Wait()

		var successes, stockFailures int
		for _, err := range results {
			switch {
			case err == nil:
				successes++
			case err == model.ErrInsufficientStock:
				stockFailures++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, successes)
		assert.Equal(t, 1, stockFailures)

		product, err := repo.GetByID(ctx, "P005")
		require.NoError(t, err)
		assert.Equal(t, 0, product.Stock)
	})

	t.Run("RestoreStock adds quantity back", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		require.NoError(t, repo.RestoreStock(ctx, "P005", 3))

		product, err := repo.GetByID(ctx, "P005")
		require.NoError(t, err)
		assert.Equal(t, 4, product.Stock)
	})
}

func TestOrderRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewOrderRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("CreateOrder and CreateOrderItems round-trip", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		userID := seedTestUser(t, testDB)

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)

		order := testOrder(userID)
		require.NoError(t, repo.CreateOrder(ctx, tx, order))

		items := []model.OrderItem{
			{ID: uuid.New(), OrderID: order.ID, ProductID: "P001", ProductName: "Areca Palm", Quantity: 1, UnitPrice: 499},
			{ID: uuid.New(), OrderID: order.ID, ProductID: "P002", ProductName: "Snake Plant", Quantity: 1, UnitPrice: 349},
		}
		require.NoError(t, repo.CreateOrderItems(ctx, tx, items))
		require.NoError(t, tx.Commit(ctx))

		got, err := repo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, order.OrderNumber, got.OrderNumber)
		assert.Equal(t, userID, got.UserID)
		assert.Equal(t, model.OrderStatusPending, got.Status)
		assert.Equal(t, 848.0, got.Summary.Subtotal)
		assert.Equal(t, "110001", got.ShippingAddress.Pincode)
		assert.Len(t, got.Items, 2)
	})

	t.Run("GetByID returns nil for non-existent order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		order, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, order)
	})

	t.Run("Transaction rollback leaves nothing behind", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		userID := seedTestUser(t, testDB)

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)

		order := testOrder(userID)
		require.NoError(t, repo.CreateOrder(ctx, tx, order))
		require.NoError(t, tx.Rollback(ctx))

		got, err := repo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ListByUser returns newest first with optional filter", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		userID := seedTestUser(t, testDB)

		older := testOrder(userID)
		older.CreatedAt = time.Now().Add(-2 * time.Hour)
		newer := testOrder(userID)
		newer.Status = model.OrderStatusDelivered

		for _, order := range []*model.Order{older, newer} {
			tx, err := repo.BeginTx(ctx)
			require.NoError(t, err)
			require.NoError(t, repo.CreateOrder(ctx, tx, order))
			require.NoError(t, tx.Commit(ctx))
		}

		orders, err := repo.ListByUser(ctx, userID, nil)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, newer.ID, orders[0].ID)

		delivered := model.OrderStatusDelivered
		orders, err = repo.ListByUser(ctx, userID, &delivered)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, newer.ID, orders[0].ID)
	})

	t.Run("UpdateStatus records delivery timestamp and tracking", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		userID := seedTestUser(t, testDB)

		order := testOrder(userID)
		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.CreateOrder(ctx, tx, order))
		require.NoError(t, tx.Commit(ctx))

		deliveredAt := time.Now()
		tracking := "TRK-42"
		require.NoError(t, repo.UpdateStatus(ctx, order.ID, model.OrderStatusDelivered, &deliveredAt, &tracking))

		got, err := repo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusDelivered, got.Status)
		require.NotNil(t, got.ActualDelivery)
		assert.WithinDuration(t, deliveredAt, *got.ActualDelivery, time.Second)
		require.NotNil(t, got.TrackingNumber)
		assert.Equal(t, "TRK-42", *got.TrackingNumber)
	})

	t.Run("UpdateStatus on missing order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		err := repo.UpdateStatus(ctx, uuid.New(), model.OrderStatusConfirmed, nil, nil)
		assert.ErrorIs(t, err, model.ErrOrderNotFound)
	})
}

func TestUserRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	repo := repository.NewUserRepository(testDB.Pool, zerolog.Nop())

	ctx := context.Background()

	t.Run("Create and fetch by email and ID", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		now := time.Now()
		user := &model.User{
			ID:           uuid.New(),
			Email:        "asha@example.com",
			Name:         "Asha Verma",
			PasswordHash: "hash",
			Role:         model.RoleCustomer,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		require.NoError(t, repo.Create(ctx, user))

		byEmail, err := repo.GetByEmail(ctx, "asha@example.com")
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, user.ID, byEmail.ID)

		byID, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, "asha@example.com", byID.Email)
	})

	t.Run("GetByEmail returns nil when absent", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		user, err := repo.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

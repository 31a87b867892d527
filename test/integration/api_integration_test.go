package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"green-kart/internal/auth"
	"green-kart/internal/delivery"
	"green-kart/internal/handler"
	"green-kart/internal/ingest"
	"green-kart/internal/model"
	"green-kart/internal/pricing"
	"green-kart/internal/repository"
	"green-kart/internal/router"
	"green-kart/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startAPIServer wires the full HTTP stack over the test database.
func startAPIServer(t *testing.T, testDB *TestDB) (*httptest.Server, *auth.TokenService) {
	t.Helper()

	logger := zerolog.Nop()
	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)
	userRepo := repository.NewUserRepository(testDB.Pool, logger)

	tokens := auth.NewTokenService("integration-test-secret", 0)
	pricer := pricing.NewEngine(0)
	estimator := delivery.NewEstimator(nil)
	ingester := ingest.NewService(productRepo, logger)

	handlers := router.Handlers{
		Product:  handler.NewProductHandler(service.NewProductService(productRepo, logger), logger),
		Order:    handler.NewOrderHandler(service.NewOrderService(orderRepo, productRepo, pricer, estimator, logger), logger),
		Auth:     handler.NewAuthHandler(service.NewAccountService(userRepo, tokens, logger), logger),
		Admin:    handler.NewAdminHandler(ingester, ingest.NewFileSource(logger), logger),
		Delivery: handler.NewDeliveryHandler(estimator, logger),
	}

	server := httptest.NewServer(router.New(handlers, tokens, logger))
	t.Cleanup(server.Close)

	return server, tokens
}

func postJSON(t *testing.T, client *http.Client, url, token string, body interface{}) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, client *http.Client, url, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestAPI_CustomerJourney(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server, _ := startAPIServer(t, testDB)
	client := server.Client()

	CleanupDB(t, testDB.Pool)
	SeedProducts(t, testDB.Pool)

	// Register an account and capture the session token.
	resp := postJSON(t, client, server.URL+"/api/auth/register", "", model.RegisterRequest{
		Email:    "asha@example.com",
		Name:     "Asha Verma",
		Password: "s3cure-pass",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session model.AuthResponse
	decodeBody(t, resp, &session)
	require.NotEmpty(t, session.Token)
	assert.Contains(t, session.Permissions, auth.PermCreateOrder)

	// Browse the catalogue anonymously.
	resp = getJSON(t, client, server.URL+"/api/products", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var products []model.Product
	decodeBody(t, resp, &products)
	assert.Len(t, products, 5)

	// Check the delivery estimate for a metro pincode.
	resp = getJSON(t, client, server.URL+"/api/delivery/estimate?pincode=110001", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var estimate delivery.Estimate
	decodeBody(t, resp, &estimate)
	assert.True(t, estimate.Available)
	assert.Equal(t, 50.0, estimate.DeliveryFee)

	// Place an order.
	orderReq := model.OrderRequest{
		Items: []model.OrderItemRequest{
			{ProductID: "P001", Quantity: 1},
			{ProductID: "P002", Quantity: 2},
		},
		ShippingAddress: model.Address{
			Name:         "Asha Verma",
			Phone:        "9876543210",
			AddressLine1: "12 MG Road",
			City:         "New Delhi",
			State:        "Delhi",
			Pincode:      "110001",
			Country:      "India",
		},
	}
	resp = postJSON(t, client, server.URL+"/api/orders", session.Token, orderReq)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created model.OrderCreatedResponse
	decodeBody(t, resp, &created)
	assert.Contains(t, created.OrderNumber, "ORD-")

	// Fetch the order back and verify the pricing breakdown:
	// subtotal 499 + 2*349 = 1197, tax 215.46, metro fee 50.
	resp = getJSON(t, client, server.URL+"/api/orders/"+created.OrderID.String(), session.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var order model.Order
	decodeBody(t, resp, &order)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, 1197.0, order.Summary.Subtotal)
	assert.Equal(t, 215.46, order.Summary.Tax)
	assert.Equal(t, 50.0, order.Summary.DeliveryFee)
	assert.Equal(t, 1462.46, order.Summary.Total)
	assert.Len(t, order.Items, 2)

	// Stock was decremented at checkout.
	var stock int
	require.NoError(t, testDB.Pool.QueryRow(context.Background(), `SELECT stock FROM products WHERE id = 'P002'`).Scan(&stock))
	assert.Equal(t, 13, stock)

	// Cancel while still pending; stock comes back.
	resp = postJSON(t, client, server.URL+"/api/orders/"+created.OrderID.String()+"/cancel", session.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.NoError(t, testDB.Pool.QueryRow(context.Background(), `SELECT stock FROM products WHERE id = 'P002'`).Scan(&stock))
	assert.Equal(t, 15, stock)

	resp = getJSON(t, client, server.URL+"/api/orders/"+created.OrderID.String(), session.Token)
	decodeBody(t, resp, &order)
	assert.Equal(t, model.OrderStatusCancelled, order.Status)
}

func TestAPI_AuthBoundaries(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server, tokens := startAPIServer(t, testDB)
	client := server.Client()

	CleanupDB(t, testDB.Pool)
	SeedProducts(t, testDB.Pool)

	t.Run("Orders require a token", func(t *testing.T) {
		resp := getJSON(t, client, server.URL+"/api/orders", "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Customers cannot reach admin ingestion", func(t *testing.T) {
		resp := postJSON(t, client, server.URL+"/api/auth/register", "", model.RegisterRequest{
			Email:    "customer@example.com",
			Name:     "Customer",
			Password: "s3cure-pass",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var session model.AuthResponse
		decodeBody(t, resp, &session)

		resp = postJSON(t, client, server.URL+"/api/admin/products/bulk", session.Token, []ingest.Candidate{})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Admin token passes the permission gate", func(t *testing.T) {
		adminToken, err := tokens.Issue("10000000-0000-4000-8000-000000000001", "admin@example.com", model.RoleAdmin)
		require.NoError(t, err)

		payload := `[{"name":"Rubber Plant","category":"plants","price":299,"description":"Glossy leaves","imagepath":"/img/rubber.jpg","stock":9}]`
		req, err := http.NewRequest(http.MethodPost, server.URL+"/api/admin/products/bulk", bytes.NewBufferString(payload))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+adminToken)

		resp, err := client.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var result ingest.Result
		decodeBody(t, resp, &result)
		assert.True(t, result.Success)
		assert.Equal(t, 1, result.SuccessCount)

		var count int
		require.NoError(t, testDB.Pool.QueryRow(context.Background(), `SELECT count(*) FROM products WHERE name = 'Rubber Plant'`).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("One customer cannot read another's order", func(t *testing.T) {
		resp := postJSON(t, client, server.URL+"/api/auth/register", "", model.RegisterRequest{
			Email:    "first@example.com",
			Name:     "First",
			Password: "s3cure-pass",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var first model.AuthResponse
		decodeBody(t, resp, &first)

		orderReq := model.OrderRequest{
			Items: []model.OrderItemRequest{{ProductID: "P004", Quantity: 1}},
			ShippingAddress: model.Address{
				Name:         "First",
				AddressLine1: "1 Park Street",
				City:         "Kolkata",
				State:        "West Bengal",
				Pincode:      "700001",
				Country:      "India",
			},
		}
		resp = postJSON(t, client, server.URL+"/api/orders", first.Token, orderReq)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var created model.OrderCreatedResponse
		decodeBody(t, resp, &created)

		resp = postJSON(t, client, server.URL+"/api/auth/register", "", model.RegisterRequest{
			Email:    "second@example.com",
			Name:     "Second",
			Password: "s3cure-pass",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var second model.AuthResponse
		decodeBody(t, resp, &second)

		resp = getJSON(t, client, server.URL+"/api/orders/"+created.OrderID.String(), second.Token)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestAPI_Login(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server, _ := startAPIServer(t, testDB)
	client := server.Client()

	CleanupDB(t, testDB.Pool)

	resp := postJSON(t, client, server.URL+"/api/auth/register", "", model.RegisterRequest{
		Email:    "asha@example.com",
		Name:     "Asha Verma",
		Password: "s3cure-pass",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, client, server.URL+"/api/auth/login", "", model.LoginRequest{
		Email:    "asha@example.com",
		Password: "s3cure-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session model.AuthResponse
	decodeBody(t, resp, &session)
	require.NotEmpty(t, session.Token)

	// The issued token verifies against the API itself.
	verifyResp := getJSON(t, client, server.URL+"/api/auth/verify", session.Token)
	defer verifyResp.Body.Close()
	assert.Equal(t, http.StatusOK, verifyResp.StatusCode)

	badResp := postJSON(t, client, server.URL+"/api/auth/login", "", model.LoginRequest{
		Email:    "asha@example.com",
		Password: "wrong-pass",
	})
	defer badResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, badResp.StatusCode)
}

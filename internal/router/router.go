package router

import (
	"net/http"
	"strings"

	"green-kart/internal/auth"
	"green-kart/internal/handler"
	"green-kart/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers bundles the HTTP handlers wired into the router.
type Handlers struct {
	Product  *handler.ProductHandler
	Order    *handler.OrderHandler
	Auth     *handler.AuthHandler
	Admin    *handler.AdminHandler
	Delivery *handler.DeliveryHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, tokens *auth.TokenService, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	authed := middleware.BearerAuth(tokens, logger)
	require := func(permission string) func(http.Handler) http.Handler {
		return middleware.RequirePermission(permission, logger)
	}
	protect := func(permission string, hf http.HandlerFunc) http.Handler {
		return authed(require(permission)(hf))
	}

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Account routes. Register and login are anonymous by nature; verify
	// needs a token to inspect.
	mux.HandleFunc("/api/auth/register", h.Auth.Register)
	mux.HandleFunc("/api/auth/login", h.Auth.Login)
	mux.Handle("/api/auth/verify", authed(http.HandlerFunc(h.Auth.Verify)))

	// The catalogue and delivery estimates are public storefront surface.
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" && r.URL.Path != "/api/products/" {
			h.Product.GetByID(w, r)
			return
		}
		h.Product.GetAll(w, r)
	}
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	mux.HandleFunc("/api/delivery/estimate", h.Delivery.Estimate)

	// Order routes dispatch on method and path shape:
	//   POST  /api/orders               place an order
	//   GET   /api/orders               list own orders
	//   GET   /api/orders/{id}          fetch one order
	//   POST  /api/orders/{id}/cancel   cancel
	//   POST  /api/orders/{id}/return   return
	//   PATCH /api/orders/{id}/status   fulfilment transition (admin)
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/" {
			switch r.Method {
			case http.MethodPost:
				protect(auth.PermCreateOrder, h.Order.Checkout).ServeHTTP(w, r)
			case http.MethodGet:
				protect(auth.PermViewOwnOrders, h.Order.List).ServeHTTP(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		rest := strings.TrimPrefix(r.URL.Path, "/api/orders/")
		switch {
		case strings.HasSuffix(rest, "/cancel"):
			protect(auth.PermViewOwnOrders, h.Order.Cancel).ServeHTTP(w, r)
		case strings.HasSuffix(rest, "/return"):
			protect(auth.PermViewOwnOrders, h.Order.Return).ServeHTTP(w, r)
		case strings.HasSuffix(rest, "/status"):
			protect(auth.PermManageOrders, h.Order.UpdateStatus).ServeHTTP(w, r)
		case !strings.Contains(rest, "/"):
			protect(auth.PermViewOwnOrders, h.Order.GetByID).ServeHTTP(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	// Administrative catalogue maintenance.
	mux.Handle("/api/admin/products/bulk", protect(auth.PermManageProducts, h.Admin.BulkUpload))
	mux.Handle("/api/admin/products/import", protect(auth.PermManageInventory, h.Admin.Import))

	// Apply middleware in order: Recovery -> Logging -> CORS
	var root http.Handler = mux
	root = middleware.CORS(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)

	return root
}

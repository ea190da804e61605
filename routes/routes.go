// routes/routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"go-ecommerce-api/controllers"
	"go-ecommerce-api/metrics"
	"go-ecommerce-api/middleware"
)

// Controllers groups everything the route table dispatches to.
type Controllers struct {
	Users    *controllers.UserController
	Products *controllers.ProductController
	Carts    *controllers.CartController
	Orders   *controllers.OrderController
	Health   *controllers.HealthController
}

// id matches numeric path ids only, so /orders/index is not taken for an id.
const id = "{id:[0-9]+}"

// NewRouter builds the application router.
func NewRouter(c Controllers, auth middleware.Authenticator, m *metrics.Metrics, logger zerolog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = middleware.RequestLogger(logger)(http.HandlerFunc(controllers.NotFound))
	router.MethodNotAllowedHandler = middleware.RequestLogger(logger)(http.HandlerFunc(controllers.MethodNotAllowed))
	router.Use(middleware.RequestLogger(logger), middleware.Instrument(m))

	router.HandleFunc("/healthz", c.Health.Healthz).Methods(http.MethodGet)
	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	RegisterRoutes(router.PathPrefix("/api").Subrouter(), c, auth)
	return router
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers, auth middleware.Authenticator) {
	authenticated := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(auth)(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(auth)(middleware.AdminMiddleware(h))
	}

	// Auth routes
	router.HandleFunc("/auth/signup", c.Users.Signup).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", c.Users.Login).Methods(http.MethodPost)
	router.Handle("/auth/me", authenticated(c.Users.Me)).Methods(http.MethodGet)

	// User routes
	router.Handle("/users/address", authenticated(c.Users.AddAddress)).Methods(http.MethodPost)
	router.Handle("/users/address", authenticated(c.Users.ListAddresses)).Methods(http.MethodGet)
	router.Handle("/users/address/"+id, authenticated(c.Users.DeleteAddress)).Methods(http.MethodDelete)
	router.Handle("/users", authenticated(c.Users.UpdateUser)).Methods(http.MethodPut)
	router.Handle("/users", admin(c.Users.ListUsers)).Methods(http.MethodGet)
	router.Handle("/users/"+id, admin(c.Users.GetUser)).Methods(http.MethodGet)
	router.Handle("/users/"+id+"/role", admin(c.Users.ChangeUserRole)).Methods(http.MethodPut)

	// Product routes
	router.Handle("/products/search", authenticated(c.Products.SearchProducts)).Methods(http.MethodGet)
	router.Handle("/products", admin(c.Products.GetProducts)).Methods(http.MethodGet)
	router.Handle("/products", admin(c.Products.CreateProduct)).Methods(http.MethodPost)
	router.Handle("/products/"+id, admin(c.Products.GetProductByID)).Methods(http.MethodGet)
	router.Handle("/products/"+id, admin(c.Products.UpdateProduct)).Methods(http.MethodPut)
	router.Handle("/products/"+id, admin(c.Products.DeleteProduct)).Methods(http.MethodDelete)

	// Cart routes
	router.Handle("/cart", authenticated(c.Carts.AddToCart)).Methods(http.MethodPost)
	router.Handle("/cart", authenticated(c.Carts.GetCart)).Methods(http.MethodGet)
	router.Handle("/cart/"+id, authenticated(c.Carts.RemoveFromCart)).Methods(http.MethodDelete)
	router.Handle("/cart/"+id, authenticated(c.Carts.ChangeQuantity)).Methods(http.MethodPut)

	// Order routes
	router.Handle("/orders", authenticated(c.Orders.CreateOrder)).Methods(http.MethodPost)
	router.Handle("/orders", authenticated(c.Orders.GetOrders)).Methods(http.MethodGet)
	router.Handle("/orders/index", admin(c.Orders.GetAllOrders)).Methods(http.MethodGet)
	router.Handle("/orders/users/"+id, admin(c.Orders.GetUserOrders)).Methods(http.MethodGet)
	router.Handle("/orders/"+id, authenticated(c.Orders.GetOrderByID)).Methods(http.MethodGet)
	router.Handle("/orders/"+id+"/cancel", authenticated(c.Orders.CancelOrder)).Methods(http.MethodPut)
	router.Handle("/orders/"+id+"/status", admin(c.Orders.UpdateOrderStatus)).Methods(http.MethodPut)
}

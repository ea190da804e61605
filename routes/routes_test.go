package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"go-ecommerce-api/controllers"
	"go-ecommerce-api/metrics"
	"go-ecommerce-api/models"
	"go-ecommerce-api/services"
	"go-ecommerce-api/store"
	"go-ecommerce-api/store/storetest"
	"go-ecommerce-api/utils"
)

type APISuite struct {
	suite.Suite

	store  *store.Store
	server *httptest.Server

	adminToken string
	aliceToken string
	bobToken   string
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	s.store = storetest.New(s.T())
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	users := services.NewUserService(s.store, tokens)

	router := NewRouter(Controllers{
		Users:    controllers.NewUserController(users),
		Products: controllers.NewProductController(services.NewProductService(s.store, nil, 0)),
		Carts:    controllers.NewCartController(services.NewCartService(s.store)),
		Orders:   controllers.NewOrderController(services.NewOrderService(s.store)),
		Health:   controllers.NewHealthController(s.store),
	}, users, metrics.New(), zerolog.Nop())
	s.server = httptest.NewServer(router)
	s.T().Cleanup(s.server.Close)

	_, err := users.EnsureAdmin(context.Background(), "Admin", "admin@example.com", "adminpass")
	s.Require().NoError(err)
	s.adminToken = s.login("admin@example.com", "adminpass")

	s.signup("Alice", "alice@example.com", "alicepass")
	s.aliceToken = s.login("alice@example.com", "alicepass")
	s.signup("Bob", "bob@example.com", "bobpass")
	s.bobToken = s.login("bob@example.com", "bobpass")
}

func (s *APISuite) do(method, path, token string, body any) (int, []byte) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	s.Require().NoError(err)
	return res.StatusCode, data
}

func (s *APISuite) decode(data []byte, v any) {
	s.Require().NoError(json.Unmarshal(data, v), string(data))
}

func (s *APISuite) signup(name, email, password string) {
	status, data := s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{"name": name, "email": email, "password": password})
	s.Require().Equal(http.StatusCreated, status, string(data))
}

func (s *APISuite) login(email, password string) string {
	status, data := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	s.Require().Equal(http.StatusOK, status, string(data))
	var res struct {
		Token string `json:"token"`
	}
	s.decode(data, &res)
	return res.Token
}

func (s *APISuite) createProduct(name, price string) uint {
	status, data := s.do(http.MethodPost, "/api/products", s.adminToken, map[string]any{
		"name": name, "description": name + " description", "price": price, "tags": []string{"test"},
	})
	s.Require().Equal(http.StatusCreated, status, string(data))
	var product models.Product
	s.decode(data, &product)
	return product.ID
}

func (s *APISuite) errorCode(data []byte) float64 {
	var body map[string]any
	s.decode(data, &body)
	code, _ := body["errorCode"].(float64)
	return code
}

func (s *APISuite) TestAuth() {
	status, data := s.do(http.MethodGet, "/api/auth/me", s.aliceToken, nil)
	s.Equal(http.StatusOK, status)
	var me models.User
	s.decode(data, &me)
	s.Equal("alice@example.com", me.Email)
	s.NotContains(string(data), "password")

	status, data = s.do(http.MethodGet, "/api/orders", "", nil)
	s.Equal(http.StatusUnauthorized, status)
	s.EqualValues(4001, s.errorCode(data))

	status, data = s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{"name": "A", "email": "alice@example.com", "password": "again"})
	s.Equal(http.StatusConflict, status)
	s.EqualValues(1002, s.errorCode(data))

	status, data = s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{"email": "bad"})
	s.Equal(http.StatusUnprocessableEntity, status)
	s.EqualValues(2001, s.errorCode(data))
}

func (s *APISuite) TestAdminRoutesRejectUsers() {
	status, _ := s.do(http.MethodGet, "/api/orders/index", s.aliceToken, nil)
	s.Equal(http.StatusUnauthorized, status)
	status, _ = s.do(http.MethodPost, "/api/products", s.aliceToken, map[string]any{"name": "x"})
	s.Equal(http.StatusUnauthorized, status)
	status, _ = s.do(http.MethodGet, "/api/users", s.aliceToken, nil)
	s.Equal(http.StatusUnauthorized, status)

	status, data := s.do(http.MethodGet, "/api/users?take=10", s.adminToken, nil)
	s.Equal(http.StatusOK, status)
	var list struct {
		Count int64         `json:"count"`
		Users []models.User `json:"users"`
	}
	s.decode(data, &list)
	s.EqualValues(3, list.Count)
}

func (s *APISuite) TestOrderLifecycle() {
	pen := s.createProduct("Pen", "10")
	book := s.createProduct("Book", "5")

	status, data := s.do(http.MethodPost, "/api/orders", s.aliceToken, nil)
	s.Equal(http.StatusOK, status)
	s.JSONEq(`{"message":"Cart is empty"}`, string(data))

	status, _ = s.do(http.MethodPost, "/api/cart", s.aliceToken, map[string]any{"productId": pen, "quantity": 2})
	s.Require().Equal(http.StatusOK, status)
	status, _ = s.do(http.MethodPost, "/api/cart", s.aliceToken, map[string]any{"productId": book, "quantity": 1})
	s.Require().Equal(http.StatusOK, status)

	status, data = s.do(http.MethodPost, "/api/orders", s.aliceToken, nil)
	s.Require().Equal(http.StatusCreated, status, string(data))
	var order models.Order
	s.decode(data, &order)
	s.Equal("25", order.NetAmount.String())
	s.Equal(models.StatusPending, order.Status)

	status, data = s.do(http.MethodGet, "/api/cart", s.aliceToken, nil)
	s.Equal(http.StatusOK, status)
	s.JSONEq(`[]`, string(data))

	path := "/api/orders/" + jsonNumber(order.ID)
	status, _ = s.do(http.MethodPut, path+"/cancel", s.bobToken, nil)
	s.Equal(http.StatusUnauthorized, status)
	status, _ = s.do(http.MethodGet, path, s.bobToken, nil)
	s.Equal(http.StatusNotFound, status)

	status, _ = s.do(http.MethodPut, path+"/status", s.aliceToken, map[string]string{"status": "ACCEPTED"})
	s.Equal(http.StatusUnauthorized, status)
	status, data = s.do(http.MethodPut, path+"/status", s.adminToken, map[string]string{"status": "ACCEPTED"})
	s.Require().Equal(http.StatusOK, status, string(data))

	status, data = s.do(http.MethodPut, path+"/cancel", s.aliceToken, nil)
	s.Require().Equal(http.StatusOK, status, string(data))

	status, data = s.do(http.MethodGet, path, s.aliceToken, nil)
	s.Require().Equal(http.StatusOK, status)
	var detailed models.Order
	s.decode(data, &detailed)
	s.Equal(models.StatusCancelled, detailed.Status)
	s.Len(detailed.Products, 2)
	s.Require().Len(detailed.Events, 3)
	s.Equal(detailed.Status, detailed.Events[2].Status)

	status, data = s.do(http.MethodGet, "/api/orders/index?status=CANCELLED", s.adminToken, nil)
	s.Equal(http.StatusOK, status)
	var all []models.Order
	s.decode(data, &all)
	s.Len(all, 1)

	status, data = s.do(http.MethodGet, "/api/orders/users/"+jsonNumber(order.UserID)+"?status=PENDING", s.adminToken, nil)
	s.Equal(http.StatusOK, status)
	s.JSONEq(`[]`, string(data))

	status, data = s.do(http.MethodGet, "/api/orders?status=LOST", s.aliceToken, nil)
	s.Equal(http.StatusUnprocessableEntity, status)
	s.EqualValues(2001, s.errorCode(data))

	status, data = s.do(http.MethodGet, "/api/orders/999", s.aliceToken, nil)
	s.Equal(http.StatusNotFound, status)
	s.EqualValues(6001, s.errorCode(data))
}

func (s *APISuite) TestCartRoutes() {
	pen := s.createProduct("Pen", "10")

	status, data := s.do(http.MethodPost, "/api/cart", s.aliceToken, map[string]any{"productId": pen, "quantity": 1})
	s.Require().Equal(http.StatusOK, status)
	var item models.CartItem
	s.decode(data, &item)

	itemPath := "/api/cart/" + jsonNumber(item.ID)
	status, _ = s.do(http.MethodPut, itemPath, s.bobToken, map[string]int{"quantity": 3})
	s.Equal(http.StatusNotFound, status)
	status, data = s.do(http.MethodPut, itemPath, s.aliceToken, map[string]int{"quantity": 3})
	s.Require().Equal(http.StatusOK, status)
	s.decode(data, &item)
	s.Equal(3, item.Quantity)

	status, _ = s.do(http.MethodDelete, itemPath, s.bobToken, nil)
	s.Equal(http.StatusNotFound, status)
	status, _ = s.do(http.MethodDelete, itemPath, s.aliceToken, nil)
	s.Equal(http.StatusOK, status)

	status, data = s.do(http.MethodPost, "/api/cart", s.aliceToken, map[string]any{"productId": 999, "quantity": 1})
	s.Equal(http.StatusNotFound, status)
	s.EqualValues(5001, s.errorCode(data))
}

func (s *APISuite) TestProductRoutes() {
	pen := s.createProduct("Pen", "10")
	s.createProduct("Pencil", "2")
	path := "/api/products/" + jsonNumber(pen)

	status, data := s.do(http.MethodGet, "/api/products/search?q=penc", s.aliceToken, nil)
	s.Equal(http.StatusOK, status)
	var found struct {
		Count int64            `json:"count"`
		Data  []models.Product `json:"data"`
	}
	s.decode(data, &found)
	s.EqualValues(1, found.Count)

	status, data = s.do(http.MethodPut, path, s.adminToken, map[string]any{"price": "12.5"})
	s.Require().Equal(http.StatusOK, status, string(data))

	status, data = s.do(http.MethodGet, path, s.adminToken, nil)
	s.Require().Equal(http.StatusOK, status)
	var product models.Product
	s.decode(data, &product)
	s.Equal("12.5", product.Price.String())
	s.Equal(models.Tags{"test"}, product.Tags)

	status, _ = s.do(http.MethodDelete, path, s.adminToken, nil)
	s.Equal(http.StatusOK, status)
	status, data = s.do(http.MethodGet, path, s.adminToken, nil)
	s.Equal(http.StatusNotFound, status)
	s.EqualValues(5001, s.errorCode(data))
}

func (s *APISuite) TestAddressRoutes() {
	status, data := s.do(http.MethodPost, "/api/users/address", s.aliceToken, map[string]string{
		"lineOne": "1 Main St", "city": "Springfield", "country": "US", "pincode": "12345",
	})
	s.Require().Equal(http.StatusCreated, status, string(data))
	var address struct {
		ID               uint   `json:"id"`
		FormattedAddress string `json:"formattedAddress"`
	}
	s.decode(data, &address)
	s.Equal("1 Main St, Springfield, US-12345", address.FormattedAddress)

	status, data = s.do(http.MethodPut, "/api/users", s.bobToken, map[string]any{"defaultShippingAddress": address.ID})
	s.Equal(http.StatusBadRequest, status)
	s.EqualValues(1005, s.errorCode(data))

	status, _ = s.do(http.MethodPut, "/api/users", s.aliceToken, map[string]any{"defaultShippingAddress": address.ID})
	s.Equal(http.StatusOK, status)

	status, data = s.do(http.MethodGet, "/api/users/address", s.aliceToken, nil)
	s.Equal(http.StatusOK, status)
	s.Contains(string(data), "userAddresses")

	status, _ = s.do(http.MethodDelete, "/api/users/address/"+jsonNumber(address.ID), s.aliceToken, nil)
	s.Equal(http.StatusOK, status)
}

func (s *APISuite) TestOperationalEndpoints() {
	status, data := s.do(http.MethodGet, "/healthz", "", nil)
	s.Equal(http.StatusOK, status)
	s.JSONEq(`{"status":"ok"}`, string(data))

	s.do(http.MethodGet, "/api/auth/me", s.aliceToken, nil)
	status, data = s.do(http.MethodGet, "/metrics", "", nil)
	s.Equal(http.StatusOK, status)
	s.Contains(string(data), `http_requests_total{method="GET",route="/api/auth/me",status="200"}`)

	status, _ = s.do(http.MethodGet, "/nope", "", nil)
	s.Equal(http.StatusNotFound, status)
	status, _ = s.do(http.MethodGet, "/api/orders/abc", s.aliceToken, nil)
	s.Equal(http.StatusNotFound, status)
}

func jsonNumber(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}

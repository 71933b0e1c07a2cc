package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/adapter/memory"
	"github.com/YelzhanWeb/storefront/internal/app/account"
	"github.com/YelzhanWeb/storefront/internal/app/activity"
	"github.com/YelzhanWeb/storefront/internal/app/admin"
	"github.com/YelzhanWeb/storefront/internal/app/cart"
	"github.com/YelzhanWeb/storefront/internal/app/catalog"
	"github.com/YelzhanWeb/storefront/internal/app/order"
	"github.com/YelzhanWeb/storefront/internal/app/settings"
	"github.com/YelzhanWeb/storefront/internal/app/tracking"
	"github.com/YelzhanWeb/storefront/internal/config"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/persist"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRelay struct {
	err   error
	calls int
}

func (s *stubRelay) Relay(ctx context.Context, formID string, o *domain.Order) error {
	s.calls++
	return s.err
}

type testServer struct {
	handler http.Handler
	relay   *stubRelay
	burger  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	lgr := logger.Nop()

	store := persist.New(memory.NewKVStore(), "test", lgr)
	act := activity.NewService(ctx, store, nil, lgr)
	def, err := settings.Defaults(config.BusinessConfig{
		IsOpen:         true,
		AdminPIN:       "777",
		StoreName:      "MEME LANCHE",
		DeliveryFee:    7,
		WhatsAppNumber: "5522998641962",
		FormID:         "form-1",
	})
	require.NoError(t, err)
	st := settings.NewService(ctx, store, def, act, lgr)
	cat := catalog.NewService(ctx, store, act, lgr)
	burger, err := cat.Create(ctx, domain.Product{Name: "Burger", Price: decimal.RequireFromString("13.50"), Image: "img"})
	require.NoError(t, err)

	accounts := account.NewService(ctx, store, lgr)
	carts := cart.NewService(cat, st, lgr)
	relay := &stubRelay{}
	orders := order.NewService(ctx, store, carts, st, act, relay, nil, lgr)
	track := tracking.NewService(orders, lgr)
	adm := admin.NewService(st, orders, act, nil, 10, lgr)

	router := NewRouter(
		NewStorefrontHandler(cat, carts, orders, track, st, accounts, lgr),
		NewAuthHandler(accounts, st, lgr),
		NewAdminHandler(adm, orders, cat, st, act, lgr),
		lgr,
	)

	return &testServer{handler: router, relay: relay, burger: burger.ID}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

var device = map[string]string{DeviceIDHeader: "dev-1"}

func TestCheckoutFlow(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 2; i++ {
		rec := srv.do(t, http.MethodPost, "/api/cart/items", map[string]string{"product_id": srv.burger}, device)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	cartView := decode[CartResponse](t, srv.do(t, http.MethodGet, "/api/cart", nil, device))
	assert.True(t, decimal.RequireFromString("34.00").Equal(cartView.Total))

	rec := srv.do(t, http.MethodPost, "/api/checkout", checkoutRequest{
		Phone:         "22 99999-0000",
		Address:       "Rua A, 10",
		PaymentMethod: domain.PaymentCardMachine,
	}, device)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[CheckoutResponse](t, rec)
	assert.True(t, decimal.RequireFromString("34.00").Equal(resp.Order.Total))
	assert.Empty(t, resp.RelayError)
	assert.Equal(t, ToastSuccess, resp.Toast.Type)
	assert.Contains(t, resp.WhatsAppURL, "https://wa.me/5522998641962?text=")
	assert.Equal(t, 1, srv.relay.calls)

	cartView = decode[CartResponse](t, srv.do(t, http.MethodGet, "/api/cart", nil, device))
	assert.Empty(t, cartView.Items)

	active := srv.do(t, http.MethodGet, "/api/orders/active", nil, device)
	require.Equal(t, http.StatusOK, active.Code)
	assert.Contains(t, active.Body.String(), resp.Order.ID)
}

func TestCheckoutEmptyCartToast(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/checkout", checkoutRequest{Phone: "2299990000", Address: "x", PaymentMethod: domain.PaymentCash}, device)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	require.NotNil(t, resp.Toast)
	assert.Equal(t, ToastError, resp.Toast.Type)
	assert.Equal(t, domain.ErrEmptyCart.Error(), resp.Error)
}

func TestCheckoutRelayFailureStillCreatesOrder(t *testing.T) {
	srv := newTestServer(t)
	srv.relay.err = assert.AnError

	srv.do(t, http.MethodPost, "/api/cart/items", map[string]string{"product_id": srv.burger}, device)
	rec := srv.do(t, http.MethodPost, "/api/checkout", checkoutRequest{Phone: "2299990000", Address: "Rua A", PaymentMethod: domain.PaymentCash}, device)
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decode[CheckoutResponse](t, rec)
	assert.NotEmpty(t, resp.RelayError)
}

func TestMissingDeviceIsRejected(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/cart", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminGateAndStatusVisibleToCustomer(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/admin/orders", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/admin/unlock", unlockRequest{PIN: "000"}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "PIN inválido", decode[ErrorResponse](t, rec).Toast.Message)

	rec = srv.do(t, http.MethodPost, "/api/admin/unlock", unlockRequest{PIN: "777"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[map[string]interface{}](t, rec)["token"].(string)
	operator := map[string]string{AdminTokenHeader: token}

	srv.do(t, http.MethodPost, "/api/cart/items", map[string]string{"product_id": srv.burger}, device)
	placed := decode[CheckoutResponse](t, srv.do(t, http.MethodPost, "/api/checkout", checkoutRequest{
		Phone: "2299990000", Address: "Rua A", PaymentMethod: domain.PaymentCash,
	}, device))
	pathID := placed.Order.ID[1:]

	for i := 0; i < 2; i++ {
		rec = srv.do(t, http.MethodPatch, "/api/admin/orders/"+pathID+"/status", statusRequest{Status: domain.StatusReady}, operator)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = srv.do(t, http.MethodGet, "/api/orders/"+pathID+"/status", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"current_status":"ready"`)

	orders := decode[[]domain.Order](t, srv.do(t, http.MethodGet, "/api/admin/orders", nil, operator))
	require.Len(t, orders, 1)
	assert.Equal(t, domain.StatusReady, orders[0].Status)

	rec = srv.do(t, http.MethodPatch, "/api/admin/orders/"+pathID+"/status", statusRequest{Status: domain.StatusDispatched}, operator)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = srv.do(t, http.MethodGet, "/api/orders/active", nil, device)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	srv.do(t, http.MethodPost, "/api/admin/lock", nil, operator)
	rec = srv.do(t, http.MethodGet, "/api/admin/orders", nil, operator)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestClosedStoreRefusesCart(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/admin/unlock", unlockRequest{PIN: "777"}, nil)
	token := decode[map[string]interface{}](t, rec)["token"].(string)
	operator := map[string]string{AdminTokenHeader: token}

	closed := false
	rec = srv.do(t, http.MethodPut, "/api/admin/config", ConfigPatchRequest{IsOpen: &closed}, operator)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pin")

	rec = srv.do(t, http.MethodPost, "/api/cart/items", map[string]string{"product_id": srv.burger}, device)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Loja fechada no momento", decode[ErrorResponse](t, rec).Toast.Message)

	cfg := decode[domain.PublicConfig](t, srv.do(t, http.MethodGet, "/api/config", nil, nil))
	assert.False(t, cfg.IsOpen)
}

func TestAccountFlow(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/auth/register", registerRequest{Name: "Ana", Email: "ana@example.com", Password: "segredo1"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	session := decode[SessionResponse](t, rec)
	assert.Equal(t, "Bem-vindo ao MEME LANCHE", session.Toast.Message)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = srv.do(t, http.MethodPost, "/api/auth/register", registerRequest{Name: "Ana", Email: "ana@example.com", Password: "segredo1"}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/auth/login", registerRequest{Email: "ana@example.com", Password: "errado"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	auth := map[string]string{"Authorization": "Bearer " + session.Token}
	me := decode[UserView](t, srv.do(t, http.MethodGet, "/api/auth/me", nil, auth))
	assert.Equal(t, "ana@example.com", me.Email)

	// a logged-in customer's order is tracked by account, whatever the device
	srv.do(t, http.MethodPost, "/api/cart/items", map[string]string{"product_id": srv.burger}, auth)
	rec = srv.do(t, http.MethodPost, "/api/checkout", checkoutRequest{Phone: "2299990000", Address: "Rua A", PaymentMethod: domain.PaymentCash}, auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = srv.do(t, http.MethodGet, "/api/orders/active", nil, map[string]string{
		"Authorization": "Bearer " + session.Token,
		DeviceIDHeader:  "another-phone",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	srv.do(t, http.MethodPost, "/api/auth/logout", nil, auth)
	rec = srv.do(t, http.MethodGet, "/api/auth/me", nil, auth)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidationErrorsListFields(t *testing.T) {
	srv := newTestServer(t)

	srv.do(t, http.MethodPost, "/api/cart/items", map[string]string{"product_id": srv.burger}, device)
	rec := srv.do(t, http.MethodPost, "/api/checkout", checkoutRequest{Phone: "1", PaymentMethod: "gold"}, device)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.Len(t, resp.Errors, 3)
}

func TestRequestIDEchoed(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/healthz", nil, map[string]string{RequestIDHeader: "req-42"})
	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
}

func TestProductStockDefaultsOnlyWhenAbsent(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/admin/unlock", unlockRequest{PIN: "777"}, nil)
	token := decode[map[string]interface{}](t, rec)["token"].(string)
	operator := map[string]string{AdminTokenHeader: token}

	body := map[string]interface{}{"name": "Fritas", "price": "9.90", "image": "img", "category": "sides"}
	rec = srv.do(t, http.MethodPost, "/api/admin/products", body, operator)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	fries := decode[domain.Product](t, rec)
	assert.Equal(t, domain.DefaultStock, fries.Stock)

	body["stock"] = 0
	rec = srv.do(t, http.MethodPost, "/api/admin/products", body, operator)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Zero(t, decode[domain.Product](t, rec).Stock)

	delete(body, "stock")
	body["name"] = "Fritas G"
	rec = srv.do(t, http.MethodPut, "/api/admin/products/"+fries.ID, body, operator)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.DefaultStock, decode[domain.Product](t, rec).Stock)
}

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jelpapharm/server/internal/auth"
	"jelpapharm/server/internal/database"
	"jelpapharm/server/internal/loyalty"
	"jelpapharm/server/internal/migrations"
	"jelpapharm/server/internal/sales"
	"jelpapharm/server/internal/sequence"
	"jelpapharm/server/internal/stock"
)

const testSecret = "handler-test-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Apply(db))

	st := stock.NewLedger(db)
	lo := loyalty.NewLedger(db)
	policy := auth.DefaultPolicy()
	seq := sequence.New()
	engine := sales.NewEngine(db, st, lo, seq, policy,
		decimal.RequireFromString("0.125"), true, 3)

	srv := httptest.NewServer(New(db, testSecret, policy, engine, st, lo, seq).Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, payload any) (int, map[string]any) {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req, err := http.NewRequest(method, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func registerUser(t *testing.T, srv *httptest.Server, username, role string) string {
	t.Helper()
	status, body := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@jelpapharm.test",
		"password": "s3cret-pass",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterAndLogin(t *testing.T) {
	srv := newTestServer(t)

	registerUser(t, srv, "afia", "admin")

	status, body := doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", map[string]string{
		"email":    "afia@jelpapharm.test",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", map[string]string{
		"email":    "afia@jelpapharm.test",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	// Duplicate email is rejected.
	status, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{
		"username": "other",
		"email":    "afia@jelpapharm.test",
		"password": "another-pass",
		"role":     "cashier",
	})
	assert.Equal(t, http.StatusConflict, status)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	srv := newTestServer(t)
	status, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{
		"username": "kwame",
		"email":    "kwame@jelpapharm.test",
		"password": "s3cret-pass",
		"role":     "owner",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)
	status, _ := doJSON(t, http.MethodGet, srv.URL+"/inventory/search", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestSaleLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	admin := registerUser(t, srv, "adwoa", "admin")

	status, item := doJSON(t, http.MethodPost, srv.URL+"/inventory/", admin, map[string]any{
		"name":       "Paracetamol 500mg",
		"brand":      "Panadol",
		"category":   "Analgesic",
		"quantity":   50,
		"cost_price": "1.20",
		"sale_price": "20.00",
	})
	require.Equal(t, http.StatusCreated, status)
	itemID, _ := item["id"].(string)
	require.NotEmpty(t, itemID)

	status, sale := doJSON(t, http.MethodPost, srv.URL+"/sales/", admin, map[string]any{
		"customer_name":  "Walk-in",
		"payment_method": "cash",
		"items": []map[string]any{
			{"item_id": itemID, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "45", fmt.Sprint(sale["total_amount"]))
	receipt, _ := sale["receipt_number"].(string)
	require.NotEmpty(t, receipt)
	saleID, _ := sale["id"].(string)

	// Lookup works by id and by receipt number.
	status, fetched := doJSON(t, http.MethodGet, srv.URL+"/sales/"+receipt, admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, saleID, fetched["id"])

	status, voided := doJSON(t, http.MethodPost, srv.URL+"/sales/"+saleID+"/void", admin, map[string]string{
		"reason": "customer returned goods",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, voided["is_void"])

	status, _ = doJSON(t, http.MethodGet, srv.URL+"/inventory/search?query=Paracetamol", admin, nil)
	require.Equal(t, http.StatusOK, status)
}

func TestOversellRejectedOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	admin := registerUser(t, srv, "yaw", "admin")

	status, item := doJSON(t, http.MethodPost, srv.URL+"/inventory/", admin, map[string]any{
		"name":       "Ibuprofen 400mg",
		"quantity":   1,
		"cost_price": "2.00",
		"sale_price": "4.00",
	})
	require.Equal(t, http.StatusCreated, status)
	itemID, _ := item["id"].(string)

	status, body := doJSON(t, http.MethodPost, srv.URL+"/sales/", admin, map[string]any{
		"payment_method": "cash",
		"items": []map[string]any{
			{"item_id": itemID, "quantity": 5},
		},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "insufficient stock")
}

func TestCashierPermissionsOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	cashier := registerUser(t, srv, "ato", "cashier")

	status, _ := doJSON(t, http.MethodGet, srv.URL+"/reports/sales/daily", cashier, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/inventory/", cashier, map[string]any{
		"name": "Blocked", "sale_price": "1.00",
	})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestNumberMinting(t *testing.T) {
	srv := newTestServer(t)
	pharmacist := registerUser(t, srv, "akua", "pharmacist")
	cashier := registerUser(t, srv, "fiifi", "cashier")

	status, body := doJSON(t, http.MethodPost, srv.URL+"/numbers/prescription", pharmacist, nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Regexp(t, `^RXN-\d{4}-\d{3}$`, body["prescription_number"])

	status, body = doJSON(t, http.MethodPost, srv.URL+"/numbers/order", pharmacist, nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Regexp(t, `^ORD-\d{6}-\d{4}$`, body["order_number"])

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/numbers/prescription", cashier, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestCustomerRedeemOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	admin := registerUser(t, srv, "esi", "admin")

	status, customer := doJSON(t, http.MethodPost, srv.URL+"/customers/", admin, map[string]string{
		"first_name": "Ama",
		"last_name":  "Boateng",
		"phone":      "0244000000",
	})
	require.Equal(t, http.StatusCreated, status)
	customerID, _ := customer["id"].(string)
	require.NotEmpty(t, customerID)

	// No points yet, so redeeming must fail with a client error.
	status, body := doJSON(t, http.MethodPost, srv.URL+"/customers/"+customerID+"/redeem", admin, map[string]any{
		"points":      10,
		"description": "discount voucher",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "insufficient")

	status, _ = doJSON(t, http.MethodGet, srv.URL+"/customers/"+customerID+"/loyalty", admin, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestDailyReportExcludesVoids(t *testing.T) {
	srv := newTestServer(t)
	admin := registerUser(t, srv, "kofi", "admin")

	status, item := doJSON(t, http.MethodPost, srv.URL+"/inventory/", admin, map[string]any{
		"name": "ORS", "quantity": 100, "cost_price": "0.60", "sale_price": "10.00",
	})
	require.Equal(t, http.StatusCreated, status)
	itemID, _ := item["id"].(string)

	status, sale := doJSON(t, http.MethodPost, srv.URL+"/sales/", admin, map[string]any{
		"payment_method": "cash",
		"items":          []map[string]any{{"item_id": itemID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, status)

	status, report := doJSON(t, http.MethodGet, srv.URL+"/reports/sales/daily", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 11.25, report["revenue"], 0.001)
	assert.EqualValues(t, 1, report["sales_count"])

	saleID, _ := sale["id"].(string)
	status, _ = doJSON(t, http.MethodPost, srv.URL+"/sales/"+saleID+"/void", admin, map[string]string{"reason": "test"})
	require.Equal(t, http.StatusOK, status)

	status, report = doJSON(t, http.MethodGet, srv.URL+"/reports/sales/daily", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 0, report["revenue"], 0.001)
	assert.EqualValues(t, 0, report["sales_count"])
}

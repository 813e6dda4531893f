package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"eosoracle/internal/logger"
	"eosoracle/internal/middleware"
	"eosoracle/internal/models"
	"eosoracle/internal/services"
	"eosoracle/internal/testutil"
	"eosoracle/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
	logger.Init("test")
}

type testServer struct {
	router http.Handler
	ledger *testutil.FakeLedger
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ui := t.TempDir()
	if err := os.WriteFile(filepath.Join(ui, "index.html"), []byte("<html>oracle ui</html>"), 0o600); err != nil {
		t.Fatal(err)
	}

	fake := testutil.NewFakeLedger()
	return &testServer{
		router: New(services.NewSecurityService(fake), Options{
			Credentials: middleware.ParseCredentials("operator:s3cret"),
			UIPath:      ui,
		}),
		ledger: fake,
	}
}

func (s *testServer) do(method, path, body string, auth bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.SetBasicAuth("operator", "s3cret")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response: %v\nbody: %s", err, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("GET", "/api/health", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMutatingRoutesRequireAuth(t *testing.T) {
	routes := []struct {
		method string
		path   string
		body   string
	}{
		{"POST", "/createSecurity", `{"symbol":"EURUSD","quoteCurrency":"USD","securityType":"forex"}`},
		{"DELETE", "/security?securityId=0", ""},
		{"POST", "/setPrice", `{"securityId":0,"price":1}`},
	}

	for _, route := range routes {
		t.Run(route.method+route.path, func(t *testing.T) {
			s := newTestServer(t)

			rec := s.do(route.method, route.path, route.body, false)
			testutil.AssertErrorResponse(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")
			testutil.AssertNoLedgerCalls(t, s.ledger)
		})
	}
}

func TestReadRoutesArePublic(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/securities", "/prices?securityIds=1", "/securityTypes"} {
		rec := s.do("GET", path, "", false)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d: %s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestSecurityLifecycle(t *testing.T) {
	s := newTestServer(t)

	// create
	rec := s.do("POST", "/createSecurity", `{"symbol":"EURUSD","quoteCurrency":"USD","securityType":"forex"}`, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		SecurityID uint64 `json:"securityId"`
	}
	decode(t, rec, &created)

	rec = s.do("POST", "/createSecurity", `{"symbol":"BTC","exchangeName":"binance","quoteCurrency":"USDT","securityType":"spot_cryptos"}`, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// list by type
	rec = s.do("GET", "/securities?securityType=forex", "", false)
	var securities []models.Security
	decode(t, rec, &securities)
	if len(securities) != 1 || securities[0].Symbol != "EURUSD" || securities[0].SecurityID != created.SecurityID {
		t.Fatalf("expected only EURUSD, got %+v", securities)
	}

	// a zero price is accepted but reads back as absent
	rec = s.do("POST", "/setPrice", `{"securityId":0,"price":"0"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("setPrice: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = s.do("GET", "/prices?securityIds=0", "", false)
	var results []map[string]json.RawMessage
	decode(t, rec, &results)
	if len(results) != 1 || results[0]["error"] == nil {
		t.Fatalf("expected a no-price error, got %s", rec.Body.String())
	}
	if !strings.Contains(string(results[0]["error"]), "NO_PRICE_RECORDED") {
		t.Errorf("expected NO_PRICE_RECORDED, got %s", results[0]["error"])
	}

	// price one security, leave the other priceless
	rec = s.do("POST", "/setPrice", `{"securityId":1,"price":64000.5}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("setPrice: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = s.do("GET", "/prices?securityIds=1,0", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("prices: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var batch []struct {
		SecurityID      uint64 `json:"securityId"`
		LastTradedPrice string `json:"lastTradedPrice"`
		Error           *struct {
			Code       string `json:"code"`
			SecurityID uint64 `json:"securityId"`
		} `json:"error"`
	}
	decode(t, rec, &batch)
	if len(batch) != 2 {
		t.Fatalf("expected 2 results, got %d", len(batch))
	}
	if batch[0].Error != nil || batch[0].LastTradedPrice != "64000.50000000" || batch[0].SecurityID != 1 {
		t.Errorf("expected price for id 1, got %+v", batch[0])
	}
	if batch[1].Error == nil || batch[1].Error.Code != "NO_PRICE_RECORDED" || batch[1].Error.SecurityID != 0 {
		t.Errorf("expected tagged error for id 0, got %+v", batch[1])
	}

	row, _ := s.ledger.Row(1)
	if !row.Price.Equal(decimal.RequireFromString("64000.5")) {
		t.Errorf("expected ledger price 64000.5, got %s", row.Price)
	}

	// erase
	rec = s.do("DELETE", "/security?securityId=1", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("erase: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = s.do("GET", "/prices?securityIds=1", "", false)
	if !strings.Contains(rec.Body.String(), "SECURITY_NOT_FOUND") {
		t.Errorf("expected SECURITY_NOT_FOUND after erase, got %s", rec.Body.String())
	}

	rec = s.do("DELETE", "/security?securityId=1", "", true)
	testutil.AssertErrorResponse(t, rec, http.StatusBadGateway, "LEDGER_ERROR")

	testutil.AssertSubmitted(t, s.ledger, "newsec", "newsec", "newprice", "newprice", "erase", "erase")
}

func TestValidationSkipsLedger(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode string
	}{
		{"unknown_type", "GET", "/securities?securityType=bonds", "", "UNKNOWN_SECURITY_TYPE"},
		{"non_numeric_id_in_list", "GET", "/prices?securityIds=1,abc", "", "VALIDATION_ERROR"},
		{"equity_without_exchange", "POST", "/createSecurity", `{"symbol":"AAPL","quoteCurrency":"USD","securityType":"equity"}`, "VALIDATION_ERROR"},
		{"price_missing", "POST", "/setPrice", `{"securityId":1}`, "VALIDATION_ERROR"},
		{"negative_price", "POST", "/setPrice", `{"securityId":1,"price":"-2"}`, "VALIDATION_ERROR"},
		{"too_many_ids", "GET", "/prices?securityIds=" + strings.Repeat("1,", 200) + "1", "", "VALIDATION_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t)

			rec := s.do(tc.method, tc.path, tc.body, true)
			testutil.AssertErrorResponse(t, rec, http.StatusBadRequest, tc.wantCode)
			testutil.AssertNoLedgerCalls(t, s.ledger)
		})
	}
}

func TestSecurityTypesWithoutLedger(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("GET", "/securityTypes", "", false)
	var body struct {
		SecurityTypes []map[string]string `json:"securityTypes"`
	}
	decode(t, rec, &body)
	if len(body.SecurityTypes) != 4 {
		t.Fatalf("expected 4 security types, got %d", len(body.SecurityTypes))
	}
	if body.SecurityTypes[1]["forex"] != "Forex" {
		t.Errorf("expected forex second, got %v", body.SecurityTypes[1])
	}
	testutil.AssertNoLedgerCalls(t, s.ledger)
}

func TestFallback(t *testing.T) {
	s := newTestServer(t)

	t.Run("serves_ui_for_unknown_get", func(t *testing.T) {
		rec := s.do("GET", "/dashboard", "", false)
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "oracle ui") {
			t.Errorf("expected UI entry point, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns_json_404_for_unknown_post", func(t *testing.T) {
		rec := s.do("POST", "/nothing", "{}", false)
		testutil.AssertErrorResponse(t, rec, http.StatusNotFound, "NOT_FOUND")
	})
}

func TestSwagger(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("GET", "/swagger/doc.json", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	for _, path := range []string{"/createSecurity", "/security", "/setPrice", "/securities", "/prices", "/securityTypes"} {
		if !strings.Contains(rec.Body.String(), `"`+path+`"`) {
			t.Errorf("expected %s in swagger document", path)
		}
	}
}

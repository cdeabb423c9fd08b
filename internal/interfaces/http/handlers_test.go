package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smd-api/internal/application/closing"
	"github.com/jhoicas/smd-api/internal/application/payout"
	"github.com/jhoicas/smd-api/internal/application/reporting"
	"github.com/jhoicas/smd-api/internal/infrastructure/memory"
	"github.com/jhoicas/smd-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/smd-api/internal/interfaces/http"
	"github.com/jhoicas/smd-api/pkg/logger"
	"github.com/jhoicas/smd-api/pkg/metrics"
	pkgjwt "github.com/jhoicas/smd-api/pkg/jwt"
)

type apiFixture struct {
	app      *fiber.App
	store    *memory.Store
	token    string
	customer string
	other    string
	device   string
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	s := memory.NewStore()
	log := logger.Nop()
	m := metrics.NewNop()
	staffID := s.SeedUser("Staff Uno")

	app := fiber.New()
	app.Use(apphttp.Metrics(m), apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		CreateClosing: closing.NewCreateClosingUseCase(s, log, m),
		UpdateClosing: closing.NewUpdateClosingUseCase(s, log),
		RecordPayment: closing.NewRecordPaymentUseCase(s, log, m),
		RecordPayout:  payout.NewRecordPayoutUseCase(s, nil, log, m).WithSyncNotify(),
		Reports:       reporting.NewReportingUseCase(s.Reports(), s.Reports()),
		Statement:     reporting.NewStatementUseCase(s.Reports(), pdf.NewMarotoStatementGenerator()),
		Logger:        log,
		JWTSecret:     testJWTSecret,
	})

	tok, err := pkgjwt.Generate(testJWTSecret, staffID, "staff", testIssuer, testExpMin)
	require.NoError(t, err)
	return &apiFixture{
		app:      app,
		store:    s,
		token:    "Bearer " + tok,
		customer: s.SeedCustomer("Ayesha Khan", "ayesha@example.com"),
		other:    s.SeedCustomer("Bilal Ahmed", "bilal@example.com"),
		device:   s.SeedDevice("LHR-001"),
	}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", f.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func (f *apiFixture) closeDeal(t *testing.T, customerID, sharePct string) string {
	t.Helper()
	resp, body := f.do(t, http.MethodPost, "/api/smd-closings", map[string]any{
		"customer_id": customerID,
		"smds": []map[string]any{{
			"smd_id": f.device, "sell_price": "300000", "monthly_rent": "15000", "share_percentage": sharePct,
		}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	data := body["data"].(map[string]any)
	ids := data["smd_closing_ids"].([]any)
	require.Len(t, ids, 1)
	return ids[0].(string)
}

func TestCreateClosing_201(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodPost, "/api/smd-closings", map[string]any{
		"customer_id": f.customer, "smd_id": f.device,
		"sell_price": 250000, "monthly_rent": 12000, "share_percentage": 40,
	})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "SMD deals closed successfully", body["message"])
}

func TestCreateClosing_ShareExceeded_409(t *testing.T) {
	f := newAPI(t)
	f.closeDeal(t, f.customer, "60")

	resp, body := f.do(t, http.MethodPost, "/api/smd-closings", map[string]any{
		"customer_id": f.other,
		"smds":        []map[string]any{{"smd_id": f.device, "sell_price": "1", "monthly_rent": "1", "share_percentage": "50"}},
	})

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "SHARE_EXCEEDED", body["code"])
	assert.Equal(t, "40", body["remaining"])
	assert.Equal(t, f.device, body["smd_id"])
}

func TestCreateClosing_Validacion_400(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodPost, "/api/smd-closings", map[string]any{"customer_id": f.customer, "smds": []any{}})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.NotContains(t, body["message"], "invalid input:")
}

func TestRecordPayment_YDetalle(t *testing.T) {
	f := newAPI(t)
	id := f.closeDeal(t, f.customer, "50")

	resp, body := f.do(t, http.MethodPost, "/api/smd-closings/"+id+"/smd-payment", map[string]any{"amount": "1000", "payment_method": "cash"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "Payment recorded successfully", body["message"])

	resp, body = f.do(t, http.MethodGet, "/api/smd-closings/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "1000", data["amount_paid"])
	assert.Equal(t, "299000", data["remaining_balance"])
	assert.Len(t, data["payments"], 1)

	resp, body = f.do(t, http.MethodGet, "/api/smd-closings/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestUpdateClosing_CancelarYPagoRechazado(t *testing.T) {
	f := newAPI(t)
	id := f.closeDeal(t, f.customer, "50")

	resp, _ := f.do(t, http.MethodPatch, "/api/smd-closings/"+id, map[string]any{"status": "cancelled"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := f.do(t, http.MethodPost, "/api/smd-closings/"+id+"/smd-payment", map[string]any{"amount": "10"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CLOSING_NOT_ACTIVE", body["code"])
}

func TestMonthlyPayout_CreaListaYDuplicado(t *testing.T) {
	f := newAPI(t)
	id := f.closeDeal(t, f.customer, "50")
	payload := map[string]any{"smd_closing_id": id, "payout_month": "2025-03", "amount": "15000"}

	resp, body := f.do(t, http.MethodPost, "/api/monthly-payout", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, "Monthly payout recorded successfully", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, id, data["smd_closing_id"])
	assert.NotEmpty(t, data["payout_id"])

	resp, body = f.do(t, http.MethodPost, "/api/monthly-payout", payload)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_PAYOUT", body["code"])

	resp, body = f.do(t, http.MethodGet, "/api/monthly-payout?payout_month=2025-03&limit=500", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	meta := body["meta"].(map[string]any)
	assert.EqualValues(t, 1, meta["total"])
	assert.EqualValues(t, 100, meta["limit"])
	assert.EqualValues(t, 1, meta["totalPages"])
}

func TestListClosings_MetaVacia(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodGet, "/api/smd-closings?status=active&page=0", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{}, body["data"])
	meta := body["meta"].(map[string]any)
	assert.EqualValues(t, 0, meta["total"])
	assert.EqualValues(t, 1, meta["page"])
	assert.EqualValues(t, 10, meta["limit"])
	assert.EqualValues(t, 0, meta["totalPages"])
}

func TestListados_PaginaFueraDeRango(t *testing.T) {
	f := newAPI(t)
	f.closeDeal(t, f.customer, "25")

	for _, path := range []string{
		"/api/smd-closings?page=92233720368547760&limit=100",
		"/api/monthly-payout?page=92233720368547760",
		"/api/customers/" + f.customer + "/smds?page=92233720368547760",
	} {
		resp, body := f.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, []any{}, body["data"], path)
		meta := body["meta"].(map[string]any)
		assert.Greater(t, meta["page"].(float64), float64(1), path)
	}
}

func TestCreateClosing_EscalaDecimal_400(t *testing.T) {
	f := newAPI(t)
	cases := map[string]map[string]any{
		"share con 3 decimales": {"smd_id": f.device, "sell_price": "1000", "monthly_rent": "10", "share_percentage": "0.001"},
		"precio con 3 decimales": {"smd_id": f.device, "sell_price": "0.004", "monthly_rent": "10", "share_percentage": "10"},
		"precio fuera de rango":  {"smd_id": f.device, "sell_price": "1000000000000", "monthly_rent": "10", "share_percentage": "10"},
	}
	for name, item := range cases {
		resp, body := f.do(t, http.MethodPost, "/api/smd-closings", map[string]any{
			"customer_id": f.customer, "smds": []map[string]any{item},
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, name)
		assert.Equal(t, "VALIDATION", body["code"], name)
	}
	assert.Equal(t, 0, closingsCount(f.store))
}

func closingsCount(s *memory.Store) int {
	n, _, _ := s.Counts()
	return n
}

func TestCustomerSMDs(t *testing.T) {
	f := newAPI(t)
	f.closeDeal(t, f.customer, "25")

	resp, body := f.do(t, http.MethodGet, "/api/customers/"+f.customer+"/smds", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Customer SMDs fetched successfully", body["message"])
	assert.Len(t, body["data"], 1)
}

func TestStatement_PDF(t *testing.T) {
	f := newAPI(t)
	id := f.closeDeal(t, f.customer, "25")

	req := httptest.NewRequest(http.MethodGet, "/api/smd-closings/"+id+"/statement", nil)
	req.Header.Set("Authorization", f.token)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "statement-LHR-001-")
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestRolCliente_403(t *testing.T) {
	f := newAPI(t)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "customer", testIssuer, testExpMin)
	require.NoError(t, err)
	f.token = "Bearer " + tok

	resp, body := f.do(t, http.MethodGet, "/api/smd-closings", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body["code"])
}

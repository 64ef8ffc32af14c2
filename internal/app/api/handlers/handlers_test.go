package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/fatflowers/clubdesk/internal/app/service/enrollment"
	"github.com/fatflowers/clubdesk/internal/app/service/ledger"
	"github.com/fatflowers/clubdesk/internal/app/service/reminder"
	"github.com/fatflowers/clubdesk/internal/app/service/subscription"
	"github.com/fatflowers/clubdesk/internal/models"
	"github.com/fatflowers/clubdesk/pkg/apperr"
	"github.com/fatflowers/clubdesk/pkg/response"
)

type stubEnroller struct {
	created enrollment.Creation
	err     error
}

func (s *stubEnroller) Create(_ context.Context, c enrollment.Creation) (*enrollment.CreateResult, error) {
	s.created = c
	if s.err != nil {
		return nil, s.err
	}
	return &enrollment.CreateResult{SubscriptionIDs: []uint{11}, IsPack: true}, nil
}

func (s *stubEnroller) Renew(context.Context, *enrollment.RenewRequest) (*enrollment.RenewResult, error) {
	return nil, s.err
}

type stubStore struct {
	SubscriptionStore
	gotDays int
	err     error
}

func (s *stubStore) Get(_ context.Context, id uint) (*subscription.View, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &subscription.View{Subscription: &models.Subscription{ID: id}}, nil
}

func (s *stubStore) WindowDays() int { return 10 }

func (s *stubStore) ListNearExpiry(_ context.Context, days int) ([]*subscription.View, error) {
	s.gotDays = days
	return []*subscription.View{}, nil
}

type stubLedger struct {
	Ledger
	err error
}

func (s *stubLedger) Record(_ context.Context, req *ledger.RecordRequest) (*ledger.Receipt, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ledger.Receipt{Entry: &models.PaymentEntry{ID: 1, SubscriptionID: req.SubscriptionID}}, nil
}

type stubExporter struct {
	gotID uint
	err   error
}

func (s *stubExporter) PaymentsWorkbook(_ context.Context, id uint) ([]byte, error) {
	s.gotID = id
	return []byte("PK-xlsx"), s.err
}

func (s *stubExporter) NearExpiryWorkbook(context.Context, *int) ([]byte, error) {
	return []byte("PK-xlsx"), s.err
}

type stubReminders struct{ got *reminder.DispatchRequest }

func (s *stubReminders) Dispatch(_ context.Context, req *reminder.DispatchRequest) (*reminder.DispatchResult, error) {
	s.got = req
	return &reminder.DispatchResult{Days: 10, Found: 2, Published: 2}, nil
}

type envelope struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    json.RawMessage          `json:"data"`
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	if w.Header().Get("Content-Type") != xlsxContentType {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func newRouter(s Services) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterAdminRoutes(r.Group("/api/v1/admin"), s)
	return r
}

func TestRegisterAdminRoutes_RegistersEndpoints(t *testing.T) {
	r := newRouter(Services{})

	routes := map[string]bool{}
	for _, rt := range r.Routes() {
		routes[rt.Method+" "+rt.Path] = true
	}
	for _, want := range []string{
		"POST /api/v1/admin/subscription/create",
		"POST /api/v1/admin/subscription/get",
		"POST /api/v1/admin/subscription/list",
		"POST /api/v1/admin/subscription/near_expiry",
		"GET /api/v1/admin/subscription/near_expiry/export",
		"POST /api/v1/admin/subscription/update",
		"POST /api/v1/admin/subscription/update_payment_method",
		"POST /api/v1/admin/subscription/update_pack_category",
		"POST /api/v1/admin/subscription/delete",
		"POST /api/v1/admin/subscription/renew",
		"POST /api/v1/admin/payment/record",
		"POST /api/v1/admin/payment/edit",
		"POST /api/v1/admin/payment/delete",
		"POST /api/v1/admin/payment/list",
		"POST /api/v1/admin/payment/reconcile",
		"GET /api/v1/admin/payment/export",
		"POST /api/v1/admin/pack/attach",
		"POST /api/v1/admin/pack/detach",
		"POST /api/v1/admin/pack/replace",
		"POST /api/v1/admin/pack/members",
		"POST /api/v1/admin/reminder/dispatch",
	} {
		require.True(t, routes[want], want)
	}
}

func TestApiCreateSubscription(t *testing.T) {
	enroller := &stubEnroller{}
	r := newRouter(Services{Enrollment: enroller})

	valid := map[string]any{
		"pack_category_id": 5,
		"members":          []map[string]any{{"member_id": 1}, {"member_id": 2}},
		"period_start":     "2024-01-10",
		"period_end":       "2024-02-10",
		"duration_months":  1,
		"activity_count":   2,
		"headcount":        2,
		"price_gross":      "300",
		"payment_method":   "cash",
	}
	_, env := do(t, r, http.MethodPost, "/api/v1/admin/subscription/create", valid)
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	require.IsType(t, &enrollment.PackCreation{}, enroller.created)
	require.JSONEq(t, `{"subscription_ids":[11],"is_pack":true,"members":null}`, string(env.Data))

	enroller.created = nil
	invalid := map[string]any{"members": []map[string]any{}, "payment_method": "cash"}
	_, env = do(t, r, http.MethodPost, "/api/v1/admin/subscription/create", invalid)
	require.Equal(t, response.APIResponseCodeBadRequest, env.Code)
	require.Nil(t, enroller.created)
}

func TestWriteError_MapsBusinessCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code response.APIResponseCode
		msg  string
	}{
		{"not found", apperr.NewNotFoundError("subscription not found", "id=9"), response.APIResponseCodeNotFound, "subscription not found: id=9"},
		{"conflict", apperr.NewConflictError("member already attached"), response.APIResponseCodeConflict, "member already attached"},
		{"validation", apperr.NewValidationError("Validation failed", "amount exceeds price"), response.APIResponseCodeBadRequest, "Validation failed: amount exceeds price"},
		{"internal", apperr.NewTransactionFailure("get subscription failed", errors.New("pq: relation secret_table")), response.APIResponseCodeError, "internal error"},
		{"plain", errors.New("boom"), response.APIResponseCodeError, "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRouter(Services{Subscriptions: &stubStore{err: tc.err}})
			w, env := do(t, r, http.MethodPost, "/api/v1/admin/subscription/get", IDRequest{ID: 9})
			require.Equal(t, tc.code, env.Code)
			require.Equal(t, tc.msg, env.Message)
			require.NotContains(t, w.Body.String(), "secret_table")
		})
	}
}

func TestApiNearExpiry_DefaultsToWindow(t *testing.T) {
	store := &stubStore{}
	r := newRouter(Services{Subscriptions: store})

	_, env := do(t, r, http.MethodPost, "/api/v1/admin/subscription/near_expiry", nil)
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	require.Equal(t, 10, store.gotDays)

	_, env = do(t, r, http.MethodPost, "/api/v1/admin/subscription/near_expiry", map[string]any{"days": 3})
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	require.Equal(t, 3, store.gotDays)
}

func TestApiRecordPayment(t *testing.T) {
	r := newRouter(Services{Ledger: &stubLedger{}})
	_, env := do(t, r, http.MethodPost, "/api/v1/admin/payment/record", map[string]any{"subscription_id": 4, "amount": "50", "payment_method": "cash"})
	require.Equal(t, response.APIResponseCodeOK, env.Code)

	r = newRouter(Services{Ledger: &stubLedger{err: apperr.NewValidationError("Validation failed", "amount exceeds price")}})
	_, env = do(t, r, http.MethodPost, "/api/v1/admin/payment/record", map[string]any{"subscription_id": 4, "amount": "500", "payment_method": "cash"})
	require.Equal(t, response.APIResponseCodeBadRequest, env.Code)
}

func TestApiExportPayments(t *testing.T) {
	exp := &stubExporter{}
	r := newRouter(Services{Export: exp})

	w, _ := do(t, r, http.MethodGet, "/api/v1/admin/payment/export?subscription_id=7", nil)
	require.Equal(t, uint(7), exp.gotID)
	require.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename="payments-7.xlsx"`, w.Header().Get("Content-Disposition"))
	require.Equal(t, "PK-xlsx", w.Body.String())

	exp.err = apperr.NewNotFoundError("subscription not found")
	_, env := do(t, r, http.MethodGet, "/api/v1/admin/payment/export?subscription_id=8", nil)
	require.Equal(t, response.APIResponseCodeNotFound, env.Code)
}

func TestApiDispatchReminders_EmptyBody(t *testing.T) {
	rem := &stubReminders{}
	r := newRouter(Services{Reminders: rem})

	_, env := do(t, r, http.MethodPost, "/api/v1/admin/reminder/dispatch", nil)
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	require.NotNil(t, rem.got)
	require.Nil(t, rem.got.Days)
}

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterHealthRoutes(r, func(context.Context) error { return nil })
	_, env := do(t, r, http.MethodGet, "/healthz", nil)
	require.Equal(t, response.APIResponseCodeOK, env.Code)

	r = gin.New()
	RegisterHealthRoutes(r, func(context.Context) error { return errors.New("down") })
	_, env = do(t, r, http.MethodGet, "/healthz", nil)
	require.Equal(t, response.APIResponseCodeError, env.Code)
}

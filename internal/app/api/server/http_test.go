package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/clubdesk/internal/app/service/changelog"
	"github.com/fatflowers/clubdesk/internal/app/service/enrollment"
	"github.com/fatflowers/clubdesk/internal/app/service/export"
	"github.com/fatflowers/clubdesk/internal/app/service/ledger"
	"github.com/fatflowers/clubdesk/internal/app/service/pack"
	"github.com/fatflowers/clubdesk/internal/app/service/reminder"
	"github.com/fatflowers/clubdesk/internal/app/service/subscription"
	"github.com/fatflowers/clubdesk/internal/models"
	"github.com/fatflowers/clubdesk/internal/platform/db/dbtest"
	cfgpkg "github.com/fatflowers/clubdesk/pkg/config"
	"github.com/fatflowers/clubdesk/pkg/response"
	"github.com/fatflowers/clubdesk/pkg/types"
)

func newTestEngine(t *testing.T) (*gin.Engine, routeDeps) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb := dbtest.Open(t)
	log := zap.NewNop().Sugar()
	cfg := &cfgpkg.Config{Ledger: cfgpkg.LedgerConfig{LimitPolicy: types.LimitPolicyTotalPrice}}

	changes := changelog.New(gdb, log)
	packs := pack.NewService(gdb, log, changes)
	l := ledger.NewService(gdb, log, cfg, changes, nil)
	subs := subscription.NewService(gdb, log, cfg, changes, packs, nil)
	d := routeDeps{
		Log:           log,
		Cfg:           cfg,
		DB:            gdb,
		Subscriptions: subs,
		Enrollment:    enrollment.NewService(gdb, log, packs, l, changes, nil),
		Ledger:        l,
		Packs:         packs,
		Reminders:     reminder.NewService(subs, reminder.NewPublisher(cfg, nil, log), log, nil),
		Export:        export.NewService(l, subs, log),
	}
	r := newEngine(nil)
	registerRoutes(r, d)
	return r, d
}

func post(t *testing.T, r http.Handler, path, operator string, body any) response.APIResponse[json.RawMessage] {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if operator != "" {
		req.Header.Set("X-Operator-ID", operator)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env response.APIResponse[json.RawMessage]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestHealthz(t *testing.T) {
	r, _ := newTestEngine(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"code":0,"message":"ok","data":{"status":"ok"}}`, w.Body.String())
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAdminRoutes_RequireOperator(t *testing.T) {
	r, _ := newTestEngine(t)
	env := post(t, r, "/api/v1/admin/subscription/get", "", map[string]any{"id": 1})
	require.Equal(t, response.APIResponseCodeUnauthorized, env.Code)
}

func TestAdminRoutes_RecordPaymentAndListRoundTrip(t *testing.T) {
	r, d := newTestEngine(t)
	sub := &models.Subscription{
		MemberID:       1,
		PeriodStart:    time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		DurationMonths: 1,
		ActivityCount:  1,
		Headcount:      1,
		PriceGross:     decimal.NewFromInt(300),
		PaymentMethod:  types.PaymentMethodCash,
	}
	require.NoError(t, d.DB.Create(sub).Error)

	env := post(t, r, "/api/v1/admin/payment/record", "op-1", map[string]any{
		"subscription_id": sub.ID, "amount": "120", "payment_method": "cash", "recorded_at": "2024-01-12",
	})
	require.Equal(t, response.APIResponseCodeOK, env.Code, env.Message)

	env = post(t, r, "/api/v1/admin/payment/record", "op-1", map[string]any{
		"subscription_id": sub.ID, "amount": "500", "payment_method": "cash",
	})
	require.Equal(t, response.APIResponseCodeBadRequest, env.Code)

	env = post(t, r, "/api/v1/admin/payment/list", "op-1", map[string]any{"subscription_id": sub.ID})
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	var list ledger.PaymentList
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Equal(t, int64(1), list.Count)
	require.True(t, list.Total.Equal(decimal.NewFromInt(120)))

	env = post(t, r, "/api/v1/admin/subscription/get", "op-1", map[string]any{"id": sub.ID + 100})
	require.Equal(t, response.APIResponseCodeNotFound, env.Code)

	var logs []models.SubscriptionLog
	require.NoError(t, d.DB.Where("subscription_id = ?", sub.ID).Find(&logs).Error)
	require.NotEmpty(t, logs)
	require.Equal(t, "op-1", logs[0].OperatorID)
}

package changelog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/clubdesk/internal/models"
	"github.com/fatflowers/clubdesk/internal/platform/db/dbtest"
	"github.com/fatflowers/clubdesk/pkg/logctx"
	"github.com/fatflowers/clubdesk/pkg/types"
)

func TestRecordAndList(t *testing.T) {
	gdb := dbtest.Open(t)
	svc := New(gdb, zap.NewNop().Sugar())
	ctx := logctx.WithOperatorID(context.Background(), "op-9")

	before := &models.Subscription{ID: 4, PriceGross: decimal.NewFromInt(100)}
	after := &models.Subscription{ID: 4, PriceGross: decimal.NewFromInt(120)}

	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := svc.Record(ctx, tx, Entry{SubscriptionID: 4, Reason: types.SubscriptionChangeReasonCreated, After: before}); err != nil {
			return err
		}
		return svc.Record(ctx, tx, Entry{
			SubscriptionID: 4,
			Reason:         types.SubscriptionChangeReasonUpdated,
			Before:         before,
			After:          after,
			Extra:          map[string]interface{}{"field": "price_gross"},
		})
	})
	require.NoError(t, err)

	// mutating the caller's copy must not change what was logged
	after.PriceGross = decimal.NewFromInt(999)

	rows, err := svc.List(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byReason := map[types.SubscriptionChangeReason]*models.SubscriptionLog{}
	for _, r := range rows {
		require.Equal(t, "op-9", r.OperatorID)
		byReason[r.Reason] = r
	}
	created := byReason[types.SubscriptionChangeReasonCreated]
	require.Nil(t, created.Before.Data())
	updated := byReason[types.SubscriptionChangeReasonUpdated]
	require.True(t, decimal.NewFromInt(120).Equal(updated.After.Data().PriceGross))
	require.Equal(t, "price_gross", updated.Extra["field"])
}

func TestRecord_RollsBackWithCaller(t *testing.T) {
	gdb := dbtest.Open(t)
	svc := New(gdb, zap.NewNop().Sugar())

	err := gdb.Transaction(func(tx *gorm.DB) error {
		require.NoError(t, svc.Record(context.Background(), tx, Entry{SubscriptionID: 1, Reason: types.SubscriptionChangeReasonDeleted}))
		return gorm.ErrInvalidData
	})
	require.ErrorIs(t, err, gorm.ErrInvalidData)

	rows, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, rows)
}

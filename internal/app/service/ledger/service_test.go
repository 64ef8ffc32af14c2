package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/clubdesk/internal/app/service/changelog"
	"github.com/fatflowers/clubdesk/internal/models"
	"github.com/fatflowers/clubdesk/internal/platform/db/dbtest"
	"github.com/fatflowers/clubdesk/pkg/apperr"
	"github.com/fatflowers/clubdesk/pkg/config"
	"github.com/fatflowers/clubdesk/pkg/types"
)

func newTestService(t *testing.T, policy types.LimitPolicy) (*Service, *gorm.DB) {
	t.Helper()
	gdb := dbtest.Open(t)
	log := zap.NewNop().Sugar()
	cfg := &config.Config{Ledger: config.LedgerConfig{LimitPolicy: policy}}
	svc := NewService(gdb, log, cfg, changelog.New(gdb, log), nil)
	svc.now = func() time.Time { return time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC) }
	return svc, gdb
}

func seedSubscription(t *testing.T, gdb *gorm.DB, price int64) *models.Subscription {
	t.Helper()
	sub := &models.Subscription{
		MemberID:       1,
		PeriodStart:    time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		DurationMonths: 1,
		ActivityCount:  1,
		Headcount:      1,
		PriceGross:     decimal.NewFromInt(price),
		PaymentMethod:  types.PaymentMethodCash,
	}
	require.NoError(t, gdb.Create(sub).Error)
	return sub
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func requireLedgerInvariant(t *testing.T, gdb *gorm.DB, subID uint) decimal.Decimal {
	t.Helper()
	var sub models.Subscription
	require.NoError(t, gdb.First(&sub, subID).Error)
	var entries []models.PaymentEntry
	require.NoError(t, gdb.Where("subscription_id = ?", subID).Find(&entries).Error)
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	require.True(t, sum.Equal(sub.PaidAmount), "paid_amount %s != ledger sum %s", sub.PaidAmount, sum)
	return sum
}

func TestLedger_SumInvariantAcrossOperations(t *testing.T) {
	svc, gdb := newTestService(t, types.LimitPolicyTotalPrice)
	sub := seedSubscription(t, gdb, 300)
	ctx := context.Background()

	first, err := svc.Record(ctx, &RecordRequest{SubscriptionID: sub.ID, Amount: dec("100"), PaymentMethod: types.PaymentMethodCash})
	require.NoError(t, err)
	require.True(t, dec("100").Equal(first.PaidAmount))
	require.Equal(t, types.PaymentStatusPartial, first.PaymentStatus)
	require.NotEmpty(t, first.Entry.Reference)
	requireLedgerInvariant(t, gdb, sub.ID)

	second, err := svc.Record(ctx, &RecordRequest{
		SubscriptionID: sub.ID, Amount: dec("50.50"), PaymentMethod: types.PaymentMethodTransfer,
		BankName: "Club Bank", AccountNumber: "FR76-0001",
	})
	require.NoError(t, err)
	require.True(t, dec("150.50").Equal(second.PaidAmount))
	require.True(t, dec("149.50").Equal(second.Remaining))
	requireLedgerInvariant(t, gdb, sub.ID)

	edited, err := svc.Edit(ctx, &EditRequest{EntryID: first.Entry.ID, Amount: dec("249.50")})
	require.NoError(t, err)
	require.True(t, dec("300").Equal(edited.PaidAmount))
	require.Equal(t, types.PaymentStatusPaid, edited.PaymentStatus)
	require.Equal(t, types.PaymentMethodCash, edited.Entry.PaymentMethod)
	requireLedgerInvariant(t, gdb, sub.ID)

	bal, err := svc.Delete(ctx, second.Entry.ID)
	require.NoError(t, err)
	require.True(t, dec("249.50").Equal(bal.PaidAmount))
	requireLedgerInvariant(t, gdb, sub.ID)

	list, err := svc.List(ctx, sub.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, list.Count)
	require.True(t, dec("249.50").Equal(list.Total))

	var logs []models.SubscriptionLog
	require.NoError(t, gdb.Where("subscription_id = ?", sub.ID).Find(&logs).Error)
	require.Len(t, logs, 4)
}

func TestLedger_PaymentStatus(t *testing.T) {
	cases := []struct {
		paid string
		want types.PaymentStatus
	}{
		{"300", types.PaymentStatusPaid},
		{"150", types.PaymentStatusPartial},
	}
	for _, tc := range cases {
		t.Run(tc.paid, func(t *testing.T) {
			svc, gdb := newTestService(t, types.LimitPolicyTotalPrice)
			sub := seedSubscription(t, gdb, 300)
			r, err := svc.Record(context.Background(), &RecordRequest{SubscriptionID: sub.ID, Amount: dec(tc.paid), PaymentMethod: types.PaymentMethodCard})
			require.NoError(t, err)
			require.Equal(t, tc.want, r.PaymentStatus)
		})
	}

	svc, gdb := newTestService(t, types.LimitPolicyTotalPrice)
	sub := seedSubscription(t, gdb, 300)
	bal, err := svc.Reconcile(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Equal(t, types.PaymentStatusUnpaid, bal.PaymentStatus)
}

func TestLedger_OverLimitRejected(t *testing.T) {
	svc, gdb := newTestService(t, types.LimitPolicyTotalPrice)
	sub := seedSubscription(t, gdb, 300)
	ctx := context.Background()

	_, err := svc.Record(ctx, &RecordRequest{SubscriptionID: sub.ID, Amount: dec("300.01"), PaymentMethod: types.PaymentMethodCash})
	require.True(t, apperr.IsValidationError(err), "got %v", err)

	var count int64
	require.NoError(t, gdb.Model(&models.PaymentEntry{}).Where("subscription_id = ?", sub.ID).Count(&count).Error)
	require.Zero(t, count)
	requireLedgerInvariant(t, gdb, sub.ID)

	// total_price checks each amount alone, so two 200s on a 300 price are both accepted
	_, err = svc.Record(ctx, &RecordRequest{SubscriptionID: sub.ID, Amount: dec("200"), PaymentMethod: types.PaymentMethodCash})
	require.NoError(t, err)
	_, err = svc.Record(ctx, &RecordRequest{SubscriptionID: sub.ID, Amount: dec("200"), PaymentMethod: types.PaymentMethodCash})
	require.NoError(t, err)
	require.True(t, dec("400").Equal(requireLedgerInvariant(t, gdb, sub.ID)))
}

func TestLedger_RemainingBalancePolicy(t *testing.T) {
	svc, gdb := newTestService(t, types.LimitPolicyRemainingBalance)
	sub := seedSubscription(t, gdb, 300)
	ctx := context.Background()

	first, err := svc.Record(ctx, &RecordRequest{SubscriptionID: sub.ID, Amount: dec("200"), PaymentMethod: types.PaymentMethodCash})
	require.NoError(t, err)

	_, err = svc.Record(ctx, &RecordRequest{SubscriptionID: sub.ID, Amount: dec("100.01"), PaymentMethod: types.PaymentMethodCash})
	require.True(t, apperr.IsValidationError(err))

	// the edited row does not count against its own limit
	_, err = svc.Edit(ctx, &EditRequest{EntryID: first.Entry.ID, Amount: dec("300")})
	require.NoError(t, err)
	requireLedgerInvariant(t, gdb, sub.ID)
}

func TestLedger_Validation(t *testing.T) {
	svc, gdb := newTestService(t, types.LimitPolicyTotalPrice)
	sub := seedSubscription(t, gdb, 300)
	ctx := context.Background()

	cases := []struct {
		name string
		req  *RecordRequest
	}{
		{"zero amount", &RecordRequest{SubscriptionID: sub.ID, Amount: decimal.Zero, PaymentMethod: types.PaymentMethodCash}},
		{"negative amount", &RecordRequest{SubscriptionID: sub.ID, Amount: dec("-5"), PaymentMethod: types.PaymentMethodCash}},
		{"unknown method", &RecordRequest{SubscriptionID: sub.ID, Amount: dec("5"), PaymentMethod: "barter"}},
		{"transfer without bank", &RecordRequest{SubscriptionID: sub.ID, Amount: dec("5"), PaymentMethod: types.PaymentMethodTransfer}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(ctx, tc.req)
			require.True(t, apperr.IsValidationError(err), "got %v", err)
		})
	}

	_, err := svc.Record(ctx, &RecordRequest{SubscriptionID: 9999, Amount: dec("5"), PaymentMethod: types.PaymentMethodCash})
	require.True(t, apperr.IsNotFoundError(err))
	_, err = svc.Edit(ctx, &EditRequest{EntryID: 9999, Amount: dec("5")})
	require.True(t, apperr.IsNotFoundError(err))
	_, err = svc.Delete(ctx, 9999)
	require.True(t, apperr.IsNotFoundError(err))
	_, err = svc.List(ctx, 9999)
	require.True(t, apperr.IsNotFoundError(err))
}

func TestLedger_ReconcileRepairsDrift(t *testing.T) {
	svc, gdb := newTestService(t, types.LimitPolicyTotalPrice)
	sub := seedSubscription(t, gdb, 300)
	ctx := context.Background()

	_, err := svc.Record(ctx, &RecordRequest{SubscriptionID: sub.ID, Amount: dec("120"), PaymentMethod: types.PaymentMethodCheck})
	require.NoError(t, err)
	require.NoError(t, gdb.Model(&models.Subscription{}).Where("id = ?", sub.ID).Update("paid_amount", dec("999")).Error)

	bal, err := svc.Reconcile(ctx, sub.ID)
	require.NoError(t, err)
	require.True(t, dec("120").Equal(bal.PaidAmount))
	requireLedgerInvariant(t, gdb, sub.ID)

	var count int64
	require.NoError(t, gdb.Model(&models.SubscriptionLog{}).Where("reason = ?", types.SubscriptionChangeReasonPaymentReconciled).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestLedger_WriteFirstInstallment(t *testing.T) {
	svc, gdb := newTestService(t, types.LimitPolicyTotalPrice)
	sub := seedSubscription(t, gdb, 300)
	ctx := context.Background()

	require.True(t, apperr.IsValidationError(svc.CheckInstallment(dec("300"), &Installment{Amount: dec("301"), PaymentMethod: types.PaymentMethodCash})))
	require.NoError(t, svc.CheckInstallment(dec("300"), &Installment{Amount: dec("300"), PaymentMethod: types.PaymentMethodCash}))
	require.NoError(t, svc.CheckInstallment(dec("300"), nil))

	err := gdb.Transaction(func(tx *gorm.DB) error {
		entry, err := svc.WriteFirstInstallment(ctx, tx, sub, &Installment{Amount: dec("75"), PaymentMethod: types.PaymentMethodCash})
		require.NotNil(t, entry)
		return err
	})
	require.NoError(t, err)
	require.True(t, dec("75").Equal(sub.PaidAmount))
	requireLedgerInvariant(t, gdb, sub.ID)
}

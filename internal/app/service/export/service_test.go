package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/fatflowers/clubdesk/internal/app/service/ledger"
	"github.com/fatflowers/clubdesk/internal/app/service/subscription"
	"github.com/fatflowers/clubdesk/internal/models"
	"github.com/fatflowers/clubdesk/pkg/apperr"
	"github.com/fatflowers/clubdesk/pkg/types"
)

type stubPayments struct {
	list *ledger.PaymentList
	err  error
}

func (s *stubPayments) List(context.Context, uint) (*ledger.PaymentList, error) { return s.list, s.err }

type stubSubs struct {
	views   []*subscription.View
	gotDays int
}

func (s *stubSubs) ListNearExpiry(_ context.Context, days int) ([]*subscription.View, error) {
	s.gotDays = days
	return s.views, nil
}

func (s *stubSubs) WindowDays() int { return 10 }

func readRows(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	require.Equal(t, sheet, f.GetSheetName(f.GetActiveSheetIndex()))
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestPaymentsWorkbook(t *testing.T) {
	recorded := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)
	payments := &stubPayments{list: &ledger.PaymentList{
		Items: []*models.PaymentEntry{
			{ID: 2, Reference: "PAY-2", Amount: decimal.NewFromInt(100), PaymentMethod: types.PaymentMethodTransfer, BankName: "BNP", AccountNumber: "FR76", RecordedAt: recorded},
			{ID: 1, Reference: "PAY-1", Amount: decimal.NewFromInt(50), PaymentMethod: types.PaymentMethodCash, Details: "first", RecordedAt: recorded},
		},
		Count: 2,
		Total: decimal.NewFromInt(150),
	}}
	svc := &Service{payments: payments, log: zap.NewNop().Sugar()}

	data, err := svc.PaymentsWorkbook(context.Background(), 7)
	require.NoError(t, err)

	rows := readRows(t, data, paymentsSheet)
	require.Len(t, rows, 4)
	require.Equal(t, "Reference", rows[0][1])
	require.Equal(t, []string{"2", "PAY-2", "2024-01-12", "100.00", "transfer", "BNP", "FR76"}, rows[1])
	require.Equal(t, []string{"1", "PAY-1", "2024-01-12", "50.00", "cash", "", "", "first"}, rows[2])
	require.Equal(t, []string{"Total", "", "", "150.00"}, rows[3])
}

func TestPaymentsWorkbook_PropagatesNotFound(t *testing.T) {
	svc := &Service{payments: &stubPayments{err: apperr.NewNotFoundError("subscription not found")}, log: zap.NewNop().Sugar()}
	_, err := svc.PaymentsWorkbook(context.Background(), 9)
	require.True(t, apperr.IsNotFoundError(err))
}

func TestNearExpiryWorkbook(t *testing.T) {
	sub := &models.Subscription{
		ID:          4,
		MemberID:    1,
		PeriodStart: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		PriceGross:  decimal.NewFromInt(300),
		PaidAmount:  decimal.NewFromInt(100),
	}
	subs := &stubSubs{views: []*subscription.View{{
		Subscription:     sub,
		Kind:             sub.Kind(),
		MemberName:       "Ada Lovelace",
		MemberPhone:      "0600000001",
		CourseName:       "Judo",
		GroupName:        "Mon 18h",
		RemainingBalance: sub.RemainingBalance(),
		PaymentStatus:    sub.PaymentStatus(),
		DaysRemaining:    9,
	}}}
	svc := &Service{subs: subs, log: zap.NewNop().Sugar()}

	data, err := svc.NearExpiryWorkbook(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 10, subs.gotDays)

	rows := readRows(t, data, nearExpirySheet)
	require.Len(t, rows, 2)
	require.Len(t, rows[0], len(nearExpiryHeader))
	require.Equal(t, []string{
		"4", "individual", "Ada Lovelace", "0600000001", "Judo", "Mon 18h",
		"2024-01-10", "2024-02-10", "9", "300.00", "100.00", "200.00", "partial",
	}, rows[1])

	days := 3
	data, err = svc.NearExpiryWorkbook(context.Background(), &days)
	require.NoError(t, err)
	require.Equal(t, 3, subs.gotDays)
	require.NotEmpty(t, data)
}

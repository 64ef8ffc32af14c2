// Package export renders ledger and near-expiry reports as xlsx workbooks.
package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/fatflowers/clubdesk/internal/app/service/ledger"
	"github.com/fatflowers/clubdesk/internal/app/service/subscription"
	"github.com/fatflowers/clubdesk/pkg/apperr"
	"github.com/fatflowers/clubdesk/pkg/logctx"
	"github.com/fatflowers/clubdesk/pkg/types"
)

const (
	paymentsSheet   = "Payments"
	nearExpirySheet = "Near expiry"
)

var (
	paymentsHeader   = []interface{}{"ID", "Reference", "Recorded at", "Amount", "Payment method", "Bank", "Account", "Details"}
	nearExpiryHeader = []interface{}{"Subscription", "Kind", "Member", "Phone", "Course", "Group", "Period start", "Period end", "Days remaining", "Price", "Paid", "Remaining", "Status"}
)

type paymentLister interface {
	List(ctx context.Context, subscriptionID uint) (*ledger.PaymentList, error)
}

type nearExpiryLister interface {
	ListNearExpiry(ctx context.Context, days int) ([]*subscription.View, error)
	WindowDays() int
}

type Service struct {
	payments paymentLister
	subs     nearExpiryLister
	log      *zap.SugaredLogger
}

func NewService(l *ledger.Service, subs *subscription.Service, log *zap.SugaredLogger) *Service {
	return &Service{payments: l, subs: subs, log: log}
}

// PaymentsWorkbook lists the installments of a subscription, newest first, followed by a total row.
func (s *Service) PaymentsWorkbook(ctx context.Context, subscriptionID uint) ([]byte, error) {
	list, err := s.payments.List(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	rows := make([][]interface{}, 0, len(list.Items)+1)
	for _, e := range list.Items {
		rows = append(rows, []interface{}{
			e.ID, e.Reference, e.RecordedAt.UTC().Format(types.DateLayout), e.Amount.StringFixed(2),
			string(e.PaymentMethod), e.BankName, e.AccountNumber, e.Details,
		})
	}
	rows = append(rows, []interface{}{"Total", "", "", list.Total.StringFixed(2)})

	data, err := render(paymentsSheet, paymentsHeader, rows)
	if err != nil {
		return nil, apperr.Wrap(err, "export payments failed")
	}
	logctx.FromCtx(ctx, s.log).Infow("payments exported", "subscription_id", subscriptionID, "rows", len(list.Items))
	return data, nil
}

// NearExpiryWorkbook lists subscriptions ending within days. A nil days uses the configured window.
func (s *Service) NearExpiryWorkbook(ctx context.Context, days *int) ([]byte, error) {
	window := s.subs.WindowDays()
	if days != nil {
		window = *days
	}
	views, err := s.subs.ListNearExpiry(ctx, window)
	if err != nil {
		return nil, err
	}
	rows := make([][]interface{}, 0, len(views))
	for _, v := range views {
		rows = append(rows, []interface{}{
			v.ID, string(v.Kind), v.MemberName, v.MemberPhone, v.CourseName, v.GroupName,
			v.PeriodStart.Format(types.DateLayout), v.PeriodEnd.Format(types.DateLayout), v.DaysRemaining,
			v.PriceGross.StringFixed(2), v.PaidAmount.StringFixed(2), v.RemainingBalance.StringFixed(2), string(v.PaymentStatus),
		})
	}

	data, err := render(nearExpirySheet, nearExpiryHeader, rows)
	if err != nil {
		return nil, apperr.Wrap(err, "export near expiry failed")
	}
	logctx.FromCtx(ctx, s.log).Infow("near expiry exported", "days", window, "rows", len(views))
	return data, nil
}

func render(sheet string, header []interface{}, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

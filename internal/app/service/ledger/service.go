package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/clubdesk/internal/app/service/changelog"
	"github.com/fatflowers/clubdesk/internal/models"
	"github.com/fatflowers/clubdesk/pkg/apperr"
	"github.com/fatflowers/clubdesk/pkg/config"
	"github.com/fatflowers/clubdesk/pkg/logctx"
	"github.com/fatflowers/clubdesk/pkg/metrics"
	"github.com/fatflowers/clubdesk/pkg/tool"
	"github.com/fatflowers/clubdesk/pkg/types"
)

// Service owns the installment ledger and keeps subscriptions.paid_amount equal to the sum of its rows.
type Service struct {
	db      *gorm.DB
	log     *zap.SugaredLogger
	changes *changelog.Service
	metrics *metrics.Prometheus
	policy  types.LimitPolicy
	now     func() time.Time
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, cfg *config.Config, changes *changelog.Service, m *metrics.Prometheus) *Service {
	policy := types.LimitPolicyTotalPrice
	if cfg != nil && cfg.Ledger.LimitPolicy != "" {
		policy = cfg.Ledger.LimitPolicy
	}
	return &Service{db: db, log: log, changes: changes, metrics: m, policy: policy, now: time.Now}
}

// Record inserts one installment, re-sums the ledger and writes the total back to the subscription.
func (s *Service) Record(ctx context.Context, req *RecordRequest) (*Receipt, error) {
	start := s.now()
	if err := req.validate(); err != nil {
		return nil, err
	}

	var receipt *Receipt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub, err := lockSubscription(ctx, tx, req.SubscriptionID)
		if err != nil {
			return err
		}
		before := *sub

		paid, err := sumLedger(ctx, tx, sub.ID)
		if err != nil {
			return err
		}
		if err := s.checkLimit(sub, req.Amount, paid); err != nil {
			return err
		}

		entry := &models.PaymentEntry{
			SubscriptionID: sub.ID,
			Amount:         req.Amount,
			PaymentMethod:  req.PaymentMethod,
			BankName:       req.BankName,
			AccountNumber:  req.AccountNumber,
			Details:        req.Details,
			Reference:      tool.GenerateUUIDV7(),
			RecordedAt:     s.recordedAt(req.RecordedAt),
		}
		if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
			return fmt.Errorf("failed to insert ledger entry: %w", err)
		}

		if err := writeBack(ctx, tx, sub); err != nil {
			return err
		}
		if err := s.changes.Record(ctx, tx, changelog.Entry{
			SubscriptionID: sub.ID,
			Reason:         types.SubscriptionChangeReasonPaymentRecorded,
			Before:         &before,
			After:          sub,
			Extra:          entryExtra(entry),
		}); err != nil {
			return err
		}
		receipt = &Receipt{Entry: entry, Balance: balanceOf(sub)}
		return nil
	})
	s.metrics.LedgerOp("record", string(req.PaymentMethod), req.Amount.InexactFloat64(), err)
	s.metrics.ObserveProcess("ledger", "record", start)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("record payment failed", "subscription_id", req.SubscriptionID, "err", err)
		return nil, apperr.Wrap(err, "record payment failed")
	}
	logctx.FromCtx(ctx, s.log).Infow("payment recorded",
		"subscription_id", req.SubscriptionID, "entry_id", receipt.Entry.ID, "amount", req.Amount.String(), "paid_amount", receipt.PaidAmount.String())
	return receipt, nil
}

// Edit changes an existing installment and recomputes the subscription total by full re-sum.
func (s *Service) Edit(ctx context.Context, req *EditRequest) (*Receipt, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var receipt *Receipt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := findEntry(ctx, tx, req.EntryID)
		if err != nil {
			return err
		}
		sub, err := lockSubscription(ctx, tx, entry.SubscriptionID)
		if err != nil {
			return err
		}
		before := *sub

		paid, err := sumLedger(ctx, tx, sub.ID)
		if err != nil {
			return err
		}
		if err := s.checkLimit(sub, req.Amount, paid.Sub(entry.Amount)); err != nil {
			return err
		}

		method := entry.PaymentMethod
		if req.PaymentMethod != "" {
			method = req.PaymentMethod
		}
		bankName, account := firstNonEmpty(req.BankName, entry.BankName), firstNonEmpty(req.AccountNumber, entry.AccountNumber)
		if method.RequiresBankDetails() && (bankName == "" || account == "") {
			return apperr.NewValidationError("Validation failed", "bank_name and account_number are required for transfer payments")
		}
		updates := map[string]interface{}{
			"amount":         req.Amount,
			"payment_method": method,
			"bank_name":      bankName,
			"account_number": account,
		}
		if req.Details != nil {
			updates["details"] = *req.Details
		}
		if !req.RecordedAt.IsZero() {
			updates["recorded_at"] = req.RecordedAt.Time
		}
		previous := *entry
		if err := tx.WithContext(ctx).Model(entry).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update ledger entry: %w", err)
		}
		entry.Amount, entry.PaymentMethod, entry.BankName, entry.AccountNumber = req.Amount, method, bankName, account
		if req.Details != nil {
			entry.Details = *req.Details
		}
		if !req.RecordedAt.IsZero() {
			entry.RecordedAt = req.RecordedAt.Time
		}

		if err := writeBack(ctx, tx, sub); err != nil {
			return err
		}
		extra := entryExtra(entry)
		extra["previous_amount"] = previous.Amount.String()
		if err := s.changes.Record(ctx, tx, changelog.Entry{
			SubscriptionID: sub.ID,
			Reason:         types.SubscriptionChangeReasonPaymentEdited,
			Before:         &before,
			After:          sub,
			Extra:          extra,
		}); err != nil {
			return err
		}
		receipt = &Receipt{Entry: entry, Balance: balanceOf(sub)}
		return nil
	})
	s.metrics.LedgerOp("edit", string(req.PaymentMethod), req.Amount.InexactFloat64(), err)
	if err != nil {
		return nil, apperr.Wrap(err, "edit payment failed")
	}
	return receipt, nil
}

// Delete removes an installment and recomputes the subscription total.
func (s *Service) Delete(ctx context.Context, entryID uint) (*Balance, error) {
	if entryID == 0 {
		return nil, apperr.NewValidationError("Validation failed", "id is required")
	}

	var balance Balance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := findEntry(ctx, tx, entryID)
		if err != nil {
			return err
		}
		sub, err := lockSubscription(ctx, tx, entry.SubscriptionID)
		if err != nil {
			return err
		}
		before := *sub

		if err := tx.WithContext(ctx).Delete(entry).Error; err != nil {
			return fmt.Errorf("failed to delete ledger entry: %w", err)
		}
		if err := writeBack(ctx, tx, sub); err != nil {
			return err
		}
		if err := s.changes.Record(ctx, tx, changelog.Entry{
			SubscriptionID: sub.ID,
			Reason:         types.SubscriptionChangeReasonPaymentDeleted,
			Before:         &before,
			After:          sub,
			Extra:          entryExtra(entry),
		}); err != nil {
			return err
		}
		balance = balanceOf(sub)
		return nil
	})
	s.metrics.LedgerOp("delete", "", 0, err)
	if err != nil {
		return nil, apperr.Wrap(err, "delete payment failed")
	}
	logctx.FromCtx(ctx, s.log).Infow("payment deleted", "entry_id", entryID, "subscription_id", balance.SubscriptionID)
	return &balance, nil
}

// List returns the installments of a subscription newest first with their count and total.
func (s *Service) List(ctx context.Context, subscriptionID uint) (*PaymentList, error) {
	if subscriptionID == 0 {
		return nil, apperr.NewValidationError("Validation failed", "subscription_id is required")
	}
	db := s.db.WithContext(ctx)
	var sub models.Subscription
	if err := db.Select("id").First(&sub, subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFoundError("subscription not found", fmt.Sprintf("id=%d", subscriptionID))
		}
		return nil, apperr.Wrap(err, "list payments failed")
	}

	var items []*models.PaymentEntry
	if err := db.Where("subscription_id = ?", subscriptionID).
		Order("recorded_at desc, id desc").
		Find(&items).Error; err != nil {
		return nil, apperr.Wrap(fmt.Errorf("failed to list ledger entries: %w", err), "list payments failed")
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return &PaymentList{Items: items, Count: int64(len(items)), Total: total}, nil
}

// Reconcile re-sums the ledger and writes the total back without touching any entry.
func (s *Service) Reconcile(ctx context.Context, subscriptionID uint) (*Balance, error) {
	if subscriptionID == 0 {
		return nil, apperr.NewValidationError("Validation failed", "subscription_id is required")
	}

	var balance Balance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub, err := lockSubscription(ctx, tx, subscriptionID)
		if err != nil {
			return err
		}
		before := *sub
		if err := writeBack(ctx, tx, sub); err != nil {
			return err
		}
		if !before.PaidAmount.Equal(sub.PaidAmount) {
			logctx.FromCtx(ctx, s.log).Warnw("paid amount drifted from ledger",
				"subscription_id", sub.ID, "cached", before.PaidAmount.String(), "ledger", sub.PaidAmount.String())
			if err := s.changes.Record(ctx, tx, changelog.Entry{
				SubscriptionID: sub.ID,
				Reason:         types.SubscriptionChangeReasonPaymentReconciled,
				Before:         &before,
				After:          sub,
			}); err != nil {
				return err
			}
		}
		balance = balanceOf(sub)
		return nil
	})
	s.metrics.LedgerOp("reconcile", "", 0, err)
	if err != nil {
		return nil, apperr.Wrap(err, "reconcile failed")
	}
	return &balance, nil
}

// WriteFirstInstallment records the opening installment of a subscription created in tx
// and sets its paid_amount to that amount. Callers validate the installment first.
func (s *Service) WriteFirstInstallment(ctx context.Context, tx *gorm.DB, sub *models.Subscription, inst *Installment) (*models.PaymentEntry, error) {
	if inst == nil || !inst.Amount.IsPositive() {
		return nil, nil
	}
	entry := &models.PaymentEntry{
		SubscriptionID: sub.ID,
		Amount:         inst.Amount,
		PaymentMethod:  inst.PaymentMethod,
		BankName:       inst.BankName,
		AccountNumber:  inst.AccountNumber,
		Details:        inst.Details,
		Reference:      tool.GenerateUUIDV7(),
		RecordedAt:     s.recordedAt(inst.RecordedAt),
	}
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to insert first installment: %w", err)
	}
	if err := tx.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ?", sub.ID).
		Update("paid_amount", inst.Amount).Error; err != nil {
		return nil, fmt.Errorf("failed to set paid amount: %w", err)
	}
	sub.PaidAmount = inst.Amount
	s.metrics.LedgerOp("first_installment", string(inst.PaymentMethod), inst.Amount.InexactFloat64(), nil)
	return entry, nil
}

// CheckInstallment validates a first installment against the price it will be charged on.
func (s *Service) CheckInstallment(price decimal.Decimal, inst *Installment) error {
	if inst == nil || inst.Amount.IsZero() {
		return nil
	}
	if err := inst.validate(); err != nil {
		return err
	}
	return s.checkLimit(&models.Subscription{PriceGross: price}, inst.Amount, decimal.Zero)
}

func (s *Service) checkLimit(sub *models.Subscription, amount, alreadyPaid decimal.Decimal) error {
	limit := sub.PriceGross
	if s.policy == types.LimitPolicyRemainingBalance {
		limit = sub.PriceGross.Sub(alreadyPaid)
	}
	if amount.GreaterThan(limit) {
		return apperr.NewValidationError("installment exceeds the allowed amount",
			fmt.Sprintf("amount=%s limit=%s policy=%s", amount.StringFixed(2), limit.StringFixed(2), s.policy))
	}
	return nil
}

func (s *Service) recordedAt(d types.Date) time.Time {
	if d.IsZero() {
		return s.now()
	}
	return d.Time
}

// Policy reports the active limit policy.
func (s *Service) Policy() types.LimitPolicy {
	return s.policy
}

func lockSubscription(ctx context.Context, tx *gorm.DB, id uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sub, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NewNotFoundError("subscription not found", fmt.Sprintf("id=%d", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock subscription: %w", err)
	}
	return &sub, nil
}

func findEntry(ctx context.Context, tx *gorm.DB, id uint) (*models.PaymentEntry, error) {
	var entry models.PaymentEntry
	err := tx.WithContext(ctx).First(&entry, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NewNotFoundError("payment not found", fmt.Sprintf("id=%d", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger entry: %w", err)
	}
	return &entry, nil
}

type ledgerTotals struct {
	Total decimal.Decimal
	Count int64
}

func sumLedger(ctx context.Context, tx *gorm.DB, subscriptionID uint) (decimal.Decimal, error) {
	var t ledgerTotals
	if err := tx.WithContext(ctx).Model(&models.PaymentEntry{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("subscription_id = ?", subscriptionID).
		Scan(&t).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum ledger: %w", err)
	}
	return t.Total, nil
}

// writeBack sets sub.paid_amount to the full ledger sum, in the database and on sub.
func writeBack(ctx context.Context, tx *gorm.DB, sub *models.Subscription) error {
	total, err := sumLedger(ctx, tx, sub.ID)
	if err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ?", sub.ID).
		Update("paid_amount", total).Error; err != nil {
		return fmt.Errorf("failed to write back paid amount: %w", err)
	}
	sub.PaidAmount = total
	return nil
}

func entryExtra(e *models.PaymentEntry) map[string]interface{} {
	return map[string]interface{}{
		"entry_id":       e.ID,
		"amount":         e.Amount.String(),
		"payment_method": string(e.PaymentMethod),
		"reference":      e.Reference,
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

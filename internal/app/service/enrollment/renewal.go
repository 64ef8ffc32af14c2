package enrollment

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fatflowers/clubdesk/internal/app/service/changelog"
	"github.com/fatflowers/clubdesk/internal/models"
	"github.com/fatflowers/clubdesk/pkg/apperr"
	"github.com/fatflowers/clubdesk/pkg/logctx"
	"github.com/fatflowers/clubdesk/pkg/period"
	"github.com/fatflowers/clubdesk/pkg/types"
)

// Renew writes the successor of a subscription. Packs re-attach every distinct member triple of the
// old subscription; individual subscriptions carry their membership rows over to the new id.
func (s *Service) Renew(ctx context.Context, req *RenewRequest) (*RenewResult, error) {
	start := s.now()
	if err := req.validate(); err != nil {
		return nil, err
	}

	var result *RenewResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		old, err := lockSubscription(ctx, tx, req.SubscriptionID)
		if err != nil {
			return err
		}
		from, to, months, err := renewalPeriod(old, req)
		if err != nil {
			return err
		}

		next := successor(old, from, to, months)
		if req.PriceGross != nil {
			next.PriceGross = *req.PriceGross
		}
		inst := withPaymentDefaults(req.FirstInstallment, next.PaymentMethod, next.BankName, next.AccountNumber)
		if err := s.ledger.CheckInstallment(next.PriceGross, inst); err != nil {
			return err
		}

		var attached int
		if old.IsPack() {
			triples, err := s.packs.TriplesOf(ctx, tx, old.ID)
			if err != nil {
				return err
			}
			if len(triples) == 0 {
				return apperr.NewNotFoundError("pack subscription has no members to renew", fmt.Sprintf("id=%d", old.ID))
			}
			if err := tx.WithContext(ctx).Create(next).Error; err != nil {
				return fmt.Errorf("failed to create renewed subscription: %w", err)
			}
			rows, err := s.packs.AttachTx(ctx, tx, next, triples)
			if err != nil {
				return err
			}
			attached = len(rows)
		} else {
			if err := tx.WithContext(ctx).Create(next).Error; err != nil {
				return fmt.Errorf("failed to create renewed subscription: %w", err)
			}
			if attached, err = s.packs.CopyTx(ctx, tx, old.ID, next.ID); err != nil {
				return err
			}
		}

		if _, err := s.ledger.WriteFirstInstallment(ctx, tx, next, inst); err != nil {
			return err
		}
		if err := s.changes.Record(ctx, tx, changelog.Entry{
			SubscriptionID: next.ID,
			Reason:         types.SubscriptionChangeReasonRenewed,
			Before:         old,
			After:          next,
			Extra:          map[string]interface{}{"previous_subscription_id": old.ID, "members": attached},
		}); err != nil {
			return err
		}

		result = &RenewResult{
			SubscriptionID:         next.ID,
			PreviousSubscriptionID: old.ID,
			OldPeriodStart:         types.NewDate(old.PeriodStart),
			OldPeriodEnd:           types.NewDate(old.PeriodEnd),
			NewPeriodStart:         types.NewDate(next.PeriodStart),
			NewPeriodEnd:           types.NewDate(next.PeriodEnd),
			OldPrice:               old.PriceGross,
			NewPrice:               next.PriceGross,
			IsPack:                 next.IsPack(),
			PaidAmount:             next.PaidAmount,
		}
		return nil
	})
	s.metrics.ObserveProcess("enrollment", "renew", start)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("renew subscription failed", "subscription_id", req.SubscriptionID, "err", err)
		return nil, apperr.Wrap(err, "renew subscription failed")
	}
	kind := types.SubscriptionKindIndividual
	if result.IsPack {
		kind = types.SubscriptionKindPack
	}
	s.metrics.SubscriptionsWritten("renew", string(kind), 1)
	logctx.FromCtx(ctx, s.log).Infow("subscription renewed",
		"previous_id", result.PreviousSubscriptionID, "id", result.SubscriptionID, "period_end", result.NewPeriodEnd.String())
	return result, nil
}

// renewalPeriod returns the explicit period of req when given, otherwise the day after old ends
// plus the old duration.
func renewalPeriod(old *models.Subscription, req *RenewRequest) (time.Time, time.Time, int, error) {
	if !req.PeriodStart.IsZero() {
		months, err := period.Validate(req.PeriodStart.Time, req.PeriodEnd.Time)
		if err != nil {
			return time.Time{}, time.Time{}, 0, apperr.NewValidationError("Validation failed", err.Error())
		}
		return period.Day(req.PeriodStart.Time), period.Day(req.PeriodEnd.Time), months, nil
	}
	months := old.DurationMonths
	if months < 1 {
		months = 1
	}
	from := period.AddDays(old.PeriodEnd, 1)
	return from, period.AddMonths(from, months), months, nil
}

// successor copies the terms and payment metadata of old onto a fresh, unpaid row.
func successor(old *models.Subscription, from, to time.Time, months int) *models.Subscription {
	next := *old
	next.ID = 0
	next.PeriodStart = from
	next.PeriodEnd = to
	next.DurationMonths = months
	next.PaidAmount = decimal.Zero
	next.DueDate = nil
	next.CreatedAt = time.Time{}
	next.UpdatedAt = time.Time{}
	return &next
}

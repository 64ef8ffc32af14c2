package enrollment

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/fatflowers/clubdesk/internal/app/service/changelog"
	"github.com/fatflowers/clubdesk/internal/app/service/pack"
	"github.com/fatflowers/clubdesk/internal/models"
	"github.com/fatflowers/clubdesk/pkg/apperr"
	"github.com/fatflowers/clubdesk/pkg/logctx"
	"github.com/fatflowers/clubdesk/pkg/types"
)

// Create writes the subscriptions of c, their membership rows and the optional first installment
// in one transaction. Nothing is written when any step fails.
func (s *Service) Create(ctx context.Context, c Creation) (*CreateResult, error) {
	start := s.now()
	if c == nil || len(c.members()) == 0 {
		return nil, apperr.NewValidationError("Validation failed", "members must contain at least 1 item(s)")
	}
	if err := s.ledger.CheckInstallment(c.terms().PriceGross, c.installment()); err != nil {
		return nil, err
	}

	result := &CreateResult{}
	var kind types.SubscriptionKind
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		members, err := loadMembers(ctx, tx, lo.Map(c.members(), func(m pack.MemberSelections, _ int) uint { return m.MemberID }))
		if err != nil {
			return err
		}
		result.Members = lo.Map(members, func(m *models.Member, _ int) MemberName {
			return MemberName{MemberID: m.ID, Name: m.FullName()}
		})

		var rows []*models.Subscription
		switch c := c.(type) {
		case *PackCreation:
			kind = types.SubscriptionKindPack
			rows, err = s.createPack(ctx, tx, c)
		case *IndividualCreation:
			kind = types.SubscriptionKindIndividual
			rows, err = s.createIndividual(ctx, tx, c)
		default:
			return fmt.Errorf("unsupported creation %T", c)
		}
		if err != nil {
			return err
		}

		for _, row := range rows {
			entry, err := s.ledger.WriteFirstInstallment(ctx, tx, row, c.installment())
			if err != nil {
				return err
			}
			extra := map[string]interface{}{"kind": kind}
			if entry != nil {
				extra["first_installment"] = entry.Amount.String()
				extra["reference"] = entry.Reference
			}
			if err := s.changes.Record(ctx, tx, changelog.Entry{
				SubscriptionID: row.ID,
				Reason:         types.SubscriptionChangeReasonCreated,
				After:          row,
				Extra:          extra,
			}); err != nil {
				return err
			}
			result.SubscriptionIDs = append(result.SubscriptionIDs, row.ID)
		}
		result.IsPack = kind == types.SubscriptionKindPack
		return nil
	})
	s.metrics.ObserveProcess("enrollment", "create", start)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("create subscription failed", "err", err)
		return nil, apperr.Wrap(err, "create subscription failed")
	}
	s.metrics.SubscriptionsWritten("create", string(kind), len(result.SubscriptionIDs))
	logctx.FromCtx(ctx, s.log).Infow("subscriptions created", "ids", result.SubscriptionIDs, "is_pack", result.IsPack)
	return result, nil
}

// createPack writes one row anchored on the first member's first selection and attaches every selection.
func (s *Service) createPack(ctx context.Context, tx *gorm.DB, c *PackCreation) ([]*models.Subscription, error) {
	var category models.PackCategory
	err := tx.WithContext(ctx).First(&category, c.PackCategoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NewNotFoundError("pack category not found", fmt.Sprintf("id=%d", c.PackCategoryID))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pack category: %w", err)
	}

	first := c.Members[0]
	row := c.Terms.row(first.MemberID, firstSelection(first))
	row.PackCategoryID = &category.ID
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create pack subscription: %w", err)
	}
	if _, err := s.packs.AttachTx(ctx, tx, row, pack.Flatten(c.Members)); err != nil {
		return nil, err
	}
	return []*models.Subscription{row}, nil
}

// createIndividual writes one row per member. Selections past the first become membership rows
// of that member's own subscription.
func (s *Service) createIndividual(ctx context.Context, tx *gorm.DB, c *IndividualCreation) ([]*models.Subscription, error) {
	rows := make([]*models.Subscription, 0, len(c.Members))
	for _, m := range c.Members {
		row := c.Terms.row(m.MemberID, firstSelection(m))
		row.Headcount = 1
		if err := tx.WithContext(ctx).Create(row).Error; err != nil {
			return nil, fmt.Errorf("failed to create subscription for member %d: %w", m.MemberID, err)
		}
		if len(m.Selections) > 1 {
			extra := pack.Flatten([]pack.MemberSelections{{MemberID: m.MemberID, Selections: m.Selections[1:]}})
			if _, err := s.packs.AttachTx(ctx, tx, row, extra); err != nil {
				return nil, err
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func firstSelection(m pack.MemberSelections) pack.Selection {
	if len(m.Selections) == 0 {
		return pack.Selection{}
	}
	return m.Selections[0]
}

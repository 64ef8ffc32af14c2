package pack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/clubdesk/internal/app/service/changelog"
	"github.com/fatflowers/clubdesk/internal/models"
	"github.com/fatflowers/clubdesk/pkg/apperr"
	"github.com/fatflowers/clubdesk/pkg/logctx"
	"github.com/fatflowers/clubdesk/pkg/period"
	"github.com/fatflowers/clubdesk/pkg/types"
	"github.com/fatflowers/clubdesk/pkg/validate"
)

// Service manages which members, courses and groups a subscription covers,
// together with the group roster derived from it.
type Service struct {
	db      *gorm.DB
	log     *zap.SugaredLogger
	changes *changelog.Service
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, changes *changelog.Service) *Service {
	return &Service{db: db, log: log, changes: changes}
}

// Attach adds one member selection to an existing subscription.
// A member already attached to the subscription is rejected with a conflict.
func (s *Service) Attach(ctx context.Context, req *AttachRequest) (*models.PackMembership, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	var row *models.PackMembership
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub, err := lockSubscription(ctx, tx, req.SubscriptionID)
		if err != nil {
			return err
		}
		var existing int64
		if err := tx.WithContext(ctx).Model(&models.PackMembership{}).
			Where("subscription_id = ? AND member_id = ?", sub.ID, req.MemberID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if existing > 0 {
			return apperr.NewConflictError("member already attached to subscription",
				fmt.Sprintf("subscription_id=%d member_id=%d", sub.ID, req.MemberID))
		}

		rows, err := s.AttachTx(ctx, tx, sub, []Triple{{MemberID: req.MemberID, CourseID: req.CourseID, GroupID: req.GroupID}})
		if err != nil {
			return err
		}
		row = rows[0]
		return s.changes.Record(ctx, tx, changelog.Entry{
			SubscriptionID: sub.ID,
			Reason:         types.SubscriptionChangeReasonMemberAttached,
			Before:         sub,
			After:          sub,
			Extra:          map[string]interface{}{"members": []Triple{tripleOf(row)}},
		})
	})
	if err != nil {
		return nil, apperr.Wrap(err, "attach member failed")
	}
	logctx.FromCtx(ctx, s.log).Infow("member attached", "subscription_id", req.SubscriptionID, "member_id", req.MemberID)
	return row, nil
}

// Detach removes every membership and roster row of the member on that subscription.
func (s *Service) Detach(ctx context.Context, req *DetachRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub, err := lockSubscription(ctx, tx, req.SubscriptionID)
		if err != nil {
			return err
		}
		res := tx.WithContext(ctx).
			Where("subscription_id = ? AND member_id = ?", sub.ID, req.MemberID).
			Delete(&models.PackMembership{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete membership: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NewNotFoundError("member not attached to subscription",
				fmt.Sprintf("subscription_id=%d member_id=%d", sub.ID, req.MemberID))
		}
		if err := tx.WithContext(ctx).
			Where("subscription_id = ? AND member_id = ?", sub.ID, req.MemberID).
			Delete(&models.GroupRoster{}).Error; err != nil {
			return fmt.Errorf("failed to delete roster rows: %w", err)
		}
		return s.changes.Record(ctx, tx, changelog.Entry{
			SubscriptionID: sub.ID,
			Reason:         types.SubscriptionChangeReasonMemberDetached,
			Before:         sub,
			After:          sub,
			Extra:          map[string]interface{}{"member_id": req.MemberID, "removed_rows": res.RowsAffected},
		})
	})
	if err != nil {
		return apperr.Wrap(err, "detach member failed")
	}
	return nil
}

// ReplaceAll swaps the whole member set of a subscription in one transaction.
func (s *Service) ReplaceAll(ctx context.Context, req *ReplaceRequest) ([]*models.PackMembership, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	var rows []*models.PackMembership
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub, err := lockSubscription(ctx, tx, req.SubscriptionID)
		if err != nil {
			return err
		}
		previous, err := s.TriplesOf(ctx, tx, sub.ID)
		if err != nil {
			return err
		}
		if err := s.DeleteAllTx(ctx, tx, sub.ID); err != nil {
			return err
		}
		rows, err = s.AttachTx(ctx, tx, sub, Flatten(req.Members))
		if err != nil {
			return err
		}
		return s.changes.Record(ctx, tx, changelog.Entry{
			SubscriptionID: sub.ID,
			Reason:         types.SubscriptionChangeReasonMembersReplaced,
			Before:         sub,
			After:          sub,
			Extra: map[string]interface{}{
				"previous": previous,
				"members":  lo.Map(rows, func(r *models.PackMembership, _ int) Triple { return tripleOf(r) }),
			},
		})
	})
	if err != nil {
		return nil, apperr.Wrap(err, "replace members failed")
	}
	logctx.FromCtx(ctx, s.log).Infow("pack members replaced", "subscription_id", req.SubscriptionID, "rows", len(rows))
	return rows, nil
}

// ListMembers returns the membership rows of a subscription with display names.
func (s *Service) ListMembers(ctx context.Context, subscriptionID uint) ([]*MemberView, error) {
	if subscriptionID == 0 {
		return nil, apperr.NewValidationError("Validation failed", "subscription_id is required")
	}
	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Subscription{}).Where("id = ?", subscriptionID).Count(&count).Error; err != nil {
		return nil, apperr.Wrap(err, "list members failed")
	}
	if count == 0 {
		return nil, apperr.NewNotFoundError("subscription not found", fmt.Sprintf("id=%d", subscriptionID))
	}

	var views []*MemberView
	err := db.Table("pack_membership AS pm").
		Select(`pm.id AS membership_id, pm.member_id,
			COALESCE(m.first_name, '') AS first_name, COALESCE(m.last_name, '') AS last_name, COALESCE(m.phone, '') AS phone,
			pm.course_id, COALESCE(c.name, '') AS course_name,
			pm.group_id, COALESCE(g.name, '') AS group_name,
			pm.attachment_date, pm.membership_period`).
		Joins("LEFT JOIN members m ON m.id = pm.member_id").
		Joins("LEFT JOIN courses c ON c.id = pm.course_id").
		Joins("LEFT JOIN course_groups g ON g.id = pm.group_id").
		Where("pm.subscription_id = ?", subscriptionID).
		Order("pm.id").
		Scan(&views).Error
	if err != nil {
		return nil, apperr.Wrap(fmt.Errorf("failed to list members: %w", err), "list members failed")
	}
	return views, nil
}

// AttachTx inserts membership rows for triples inside tx, skipping duplicate (member, course, group)
// triples, and upserts the roster for every triple with a group. Dates are computed once from sub.
func (s *Service) AttachTx(ctx context.Context, tx *gorm.DB, sub *models.Subscription, triples []Triple) ([]*models.PackMembership, error) {
	attachAt, label := period.Shifted(sub.PeriodStart, sub.PeriodEnd)

	rows := make([]*models.PackMembership, 0, len(triples))
	for _, t := range lo.UniqBy(triples, Triple.key) {
		rows = append(rows, &models.PackMembership{
			SubscriptionID:   sub.ID,
			MemberID:         t.MemberID,
			CourseID:         t.CourseID,
			GroupID:          t.GroupID,
			AttachmentDate:   attachAt,
			MembershipPeriod: label,
		})
	}
	if len(rows) == 0 {
		return rows, nil
	}
	if err := tx.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to insert membership rows: %w", err)
	}
	for _, r := range rows {
		if r.GroupID == nil {
			continue
		}
		if err := upsertRoster(ctx, tx, *r.GroupID, r.MemberID, r.CourseID, sub.ID, attachAt); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// ResyncDatesTx rewrites the attachment date and period label of every membership row of sub,
// and the joined_at of the roster rows it owns, from sub's current period.
func (s *Service) ResyncDatesTx(ctx context.Context, tx *gorm.DB, sub *models.Subscription) error {
	attachAt, label := period.Shifted(sub.PeriodStart, sub.PeriodEnd)
	if err := tx.WithContext(ctx).Model(&models.PackMembership{}).
		Where("subscription_id = ?", sub.ID).
		Updates(map[string]interface{}{"attachment_date": attachAt, "membership_period": label}).Error; err != nil {
		return fmt.Errorf("failed to resync membership dates: %w", err)
	}
	if err := tx.WithContext(ctx).Model(&models.GroupRoster{}).
		Where("subscription_id = ?", sub.ID).
		Update("joined_at", attachAt).Error; err != nil {
		return fmt.Errorf("failed to resync roster dates: %w", err)
	}
	return nil
}

// TriplesOf returns the distinct (member, course, group) triples attached to a subscription, in insertion order.
func (s *Service) TriplesOf(ctx context.Context, tx *gorm.DB, subscriptionID uint) ([]Triple, error) {
	var rows []*models.PackMembership
	if err := tx.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load membership rows: %w", err)
	}
	triples := lo.Map(rows, func(r *models.PackMembership, _ int) Triple { return tripleOf(r) })
	return lo.UniqBy(triples, Triple.key), nil
}

// CopyTx copies the membership rows of from onto to, keeping every column but the key,
// and points roster rows of from at to.
func (s *Service) CopyTx(ctx context.Context, tx *gorm.DB, from, to uint) (int, error) {
	var rows []*models.PackMembership
	if err := tx.WithContext(ctx).Where("subscription_id = ?", from).Order("id").Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("failed to load membership rows: %w", err)
	}
	if len(rows) > 0 {
		copies := lo.Map(rows, func(r *models.PackMembership, _ int) *models.PackMembership {
			cp := *r
			cp.ID = 0
			cp.SubscriptionID = to
			cp.CreatedAt = time.Time{}
			return &cp
		})
		if err := tx.WithContext(ctx).Create(&copies).Error; err != nil {
			return 0, fmt.Errorf("failed to copy membership rows: %w", err)
		}
	}
	if err := tx.WithContext(ctx).Model(&models.GroupRoster{}).
		Where("subscription_id = ?", from).
		Update("subscription_id", to).Error; err != nil {
		return 0, fmt.Errorf("failed to re-point roster rows: %w", err)
	}
	return len(rows), nil
}

// DeleteAllTx removes every membership and roster row of a subscription.
func (s *Service) DeleteAllTx(ctx context.Context, tx *gorm.DB, subscriptionID uint) error {
	if err := tx.WithContext(ctx).Where("subscription_id = ?", subscriptionID).Delete(&models.PackMembership{}).Error; err != nil {
		return fmt.Errorf("failed to delete membership rows: %w", err)
	}
	if err := tx.WithContext(ctx).Where("subscription_id = ?", subscriptionID).Delete(&models.GroupRoster{}).Error; err != nil {
		return fmt.Errorf("failed to delete roster rows: %w", err)
	}
	return nil
}

func upsertRoster(ctx context.Context, tx *gorm.DB, groupID, memberID uint, courseID *uint, subscriptionID uint, joinedAt time.Time) error {
	key := map[string]interface{}{"group_id": groupID, "member_id": memberID, "course_id": courseID}
	var existing models.GroupRoster
	err := tx.WithContext(ctx).Where(key).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row := &models.GroupRoster{GroupID: groupID, MemberID: memberID, CourseID: courseID, SubscriptionID: subscriptionID, JoinedAt: joinedAt}
		if err := tx.WithContext(ctx).Create(row).Error; err != nil {
			return fmt.Errorf("failed to insert roster row: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("failed to load roster row: %w", err)
	}
	if err := tx.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
		"subscription_id": subscriptionID,
		"joined_at":       joinedAt,
	}).Error; err != nil {
		return fmt.Errorf("failed to update roster row: %w", err)
	}
	return nil
}

func lockSubscription(ctx context.Context, tx *gorm.DB, id uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&sub, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NewNotFoundError("subscription not found", fmt.Sprintf("id=%d", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock subscription: %w", err)
	}
	return &sub, nil
}

package subscription

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
	"github.com/fatflowers/clubdesk/internal/app/service/pack"
	"github.com/fatflowers/clubdesk/internal/models"
	"github.com/fatflowers/clubdesk/pkg/apperr"
	"github.com/fatflowers/clubdesk/pkg/config"
	"github.com/fatflowers/clubdesk/pkg/logctx"
	"github.com/fatflowers/clubdesk/pkg/metrics"
	"github.com/fatflowers/clubdesk/pkg/period"
	"github.com/fatflowers/clubdesk/pkg/types"
	"github.com/fatflowers/clubdesk/pkg/validate"
)

const defaultNearExpiryDays = 10

// Service is the record store of subscriptions: reads with derived fields, partial updates and deletion.
type Service struct {
	db         *gorm.DB
	log        *zap.SugaredLogger
	changes    *changelog.Service
	packs      *pack.Service
	metrics    *metrics.Prometheus
	windowDays int
	now        func() time.Time
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, cfg *config.Config, changes *changelog.Service, packs *pack.Service, m *metrics.Prometheus) *Service {
	window := defaultNearExpiryDays
	if cfg != nil && cfg.Reminder.DaysWindow > 0 {
		window = cfg.Reminder.DaysWindow
	}
	return &Service{db: db, log: log, changes: changes, packs: packs, metrics: m, windowDays: window, now: time.Now}
}

// WindowDays is the near-expiry window used when a caller does not pass one.
func (s *Service) WindowDays() int { return s.windowDays }

func (s *Service) Get(ctx context.Context, id uint) (*View, error) {
	if id == 0 {
		return nil, apperr.NewValidationError("Validation failed", "id is required")
	}
	var sub models.Subscription
	err := s.db.WithContext(ctx).First(&sub, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NewNotFoundError("subscription not found", fmt.Sprintf("id=%d", id))
	}
	if err != nil {
		return nil, apperr.Wrap(fmt.Errorf("failed to load subscription: %w", err), "get subscription failed")
	}
	views, err := s.views(ctx, []*models.Subscription{&sub})
	if err != nil {
		return nil, apperr.Wrap(err, "get subscription failed")
	}
	return views[0], nil
}

// List pages through subscriptions matching whitelisted filters.
func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	if req == nil {
		req = &ListRequest{}
	}
	filters, err := filterColumns.Resolve(req.Filters)
	if err != nil {
		return nil, apperr.NewValidationError("Validation failed", err.Error())
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.Subscription{})
	if len(filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{types.FiltersWhere{Filters: filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, apperr.Wrap(fmt.Errorf("failed to count subscriptions: %w", err), "list subscriptions failed")
	}

	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	sortBy := "subscriptions.id"
	if req.SortBy != "" {
		column, ok := sortColumns[req.SortBy]
		if !ok {
			return nil, apperr.NewValidationError("Validation failed", fmt.Sprintf("unsupported sort field %q", req.SortBy))
		}
		sortBy = column
	}
	q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: sortBy}, Desc: req.SortOrder != "asc"}}})

	var rows []*models.Subscription
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperr.Wrap(fmt.Errorf("failed to list subscriptions: %w", err), "list subscriptions failed")
	}
	items, err := s.views(ctx, rows)
	if err != nil {
		return nil, apperr.Wrap(err, "list subscriptions failed")
	}
	return &ListResponse{Items: items, Total: total}, nil
}

// ListNearExpiry returns subscriptions ending between today and today+days, soonest first.
func (s *Service) ListNearExpiry(ctx context.Context, days int) ([]*View, error) {
	if days < 0 {
		return nil, apperr.NewValidationError("Validation failed", "days must not be negative")
	}
	today := period.Day(s.now())
	var rows []*models.Subscription
	if err := s.db.WithContext(ctx).
		Where("period_end >= ? AND period_end <= ?", today, period.AddDays(today, days)).
		Order("period_end, id").
		Find(&rows).Error; err != nil {
		return nil, apperr.Wrap(fmt.Errorf("failed to list near expiry subscriptions: %w", err), "list near expiry failed")
	}
	views, err := s.views(ctx, rows)
	if err != nil {
		return nil, apperr.Wrap(err, "list near expiry failed")
	}
	return views, nil
}

// Update applies the non-nil fields of req and re-validates the period.
func (s *Service) Update(ctx context.Context, req *UpdateRequest) (*View, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if req.PriceGross != nil && req.PriceGross.IsNegative() {
		return nil, apperr.NewValidationError("Validation failed", "price_gross must not be negative")
	}

	var updated *models.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub, err := lockSubscription(ctx, tx, req.ID)
		if err != nil {
			return err
		}
		before := *sub

		if req.CourseID != nil {
			sub.CourseID = req.CourseID
		}
		if req.GroupID != nil {
			sub.GroupID = req.GroupID
		}
		if req.PeriodStart != nil && !req.PeriodStart.IsZero() {
			sub.PeriodStart = period.Day(req.PeriodStart.Time)
		}
		if req.PeriodEnd != nil && !req.PeriodEnd.IsZero() {
			sub.PeriodEnd = period.Day(req.PeriodEnd.Time)
		}
		if !period.Day(sub.PeriodEnd).After(period.Day(sub.PeriodStart)) {
			return apperr.NewValidationError("Validation failed", "period_end must be after period_start")
		}
		if req.DurationMonths != nil {
			sub.DurationMonths = *req.DurationMonths
		}
		if req.ActivityCount != nil {
			sub.ActivityCount = *req.ActivityCount
		}
		if req.Headcount != nil {
			sub.Headcount = *req.Headcount
		}
		if req.PriceGross != nil {
			sub.PriceGross = *req.PriceGross
		}
		if req.DiscountPercent != nil {
			sub.DiscountPercent = *req.DiscountPercent
		}
		if req.PayerName != nil {
			sub.PayerName = *req.PayerName
		}
		if req.DueDate != nil {
			sub.DueDate = req.DueDate.Ptr()
		}
		if req.Note != nil {
			sub.Note = *req.Note
		}

		if err := tx.WithContext(ctx).Model(sub).Select(
			"course_id", "group_id", "period_start", "period_end", "duration_months", "activity_count",
			"headcount", "price_gross", "discount_percent", "payer_name", "due_date", "note",
		).Updates(sub).Error; err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}
		if periodChanged(&before, sub) {
			if err := s.packs.ResyncDatesTx(ctx, tx, sub); err != nil {
				return err
			}
		}
		updated = sub
		return s.changes.Record(ctx, tx, changelog.Entry{
			SubscriptionID: sub.ID,
			Reason:         types.SubscriptionChangeReasonUpdated,
			Before:         &before,
			After:          sub,
		})
	})
	if err != nil {
		return nil, apperr.Wrap(err, "update subscription failed")
	}
	s.metrics.SubscriptionsWritten("update", string(updated.Kind()), 1)
	return s.viewOf(ctx, updated)
}

// UpdatePaymentMethod only touches the payment method and bank columns.
func (s *Service) UpdatePaymentMethod(ctx context.Context, req *UpdatePaymentMethodRequest) (*View, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	var updated *models.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub, err := lockSubscription(ctx, tx, req.ID)
		if err != nil {
			return err
		}
		before := *sub
		sub.PaymentMethod = req.PaymentMethod
		sub.BankName = req.BankName
		sub.AccountNumber = req.AccountNumber
		sub.PaymentDetails = req.PaymentDetails
		if err := tx.WithContext(ctx).Model(sub).
			Select("payment_method", "bank_name", "account_number", "payment_details").
			Updates(sub).Error; err != nil {
			return fmt.Errorf("failed to update payment method: %w", err)
		}
		updated = sub
		return s.changes.Record(ctx, tx, changelog.Entry{
			SubscriptionID: sub.ID,
			Reason:         types.SubscriptionChangeReasonPaymentMethodUpdated,
			Before:         &before,
			After:          sub,
		})
	})
	if err != nil {
		return nil, apperr.Wrap(err, "update payment method failed")
	}
	return s.viewOf(ctx, updated)
}

// UpdatePackCategory switches the pack category. A changed duration moves period_end to start + duration.
// An individual subscription becoming a pack gets its own member attached as the first pack member.
func (s *Service) UpdatePackCategory(ctx context.Context, req *UpdatePackCategoryRequest) (*View, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if req.PriceGross != nil && req.PriceGross.IsNegative() {
		return nil, apperr.NewValidationError("Validation failed", "price_gross must not be negative")
	}

	var updated *models.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub, err := lockSubscription(ctx, tx, req.ID)
		if err != nil {
			return err
		}
		var category models.PackCategory
		err = tx.WithContext(ctx).First(&category, req.PackCategoryID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NewNotFoundError("pack category not found", fmt.Sprintf("id=%d", req.PackCategoryID))
		}
		if err != nil {
			return fmt.Errorf("failed to load pack category: %w", err)
		}
		before := *sub

		sub.PackCategoryID = &category.ID
		sub.PriceGross = lo.FromPtrOr(req.PriceGross, sub.PriceGross)
		sub.ActivityCount = lo.FromPtrOr(req.ActivityCount, sub.ActivityCount)
		sub.Headcount = lo.FromPtrOr(req.Headcount, sub.Headcount)
		if duration := lo.FromPtrOr(req.DurationMonths, sub.DurationMonths); duration != sub.DurationMonths {
			sub.DurationMonths = duration
			sub.PeriodEnd = period.AddMonths(sub.PeriodStart, duration)
		}

		if err := tx.WithContext(ctx).Model(sub).
			Select("pack_category_id", "price_gross", "duration_months", "activity_count", "headcount", "period_end").
			Updates(sub).Error; err != nil {
			return fmt.Errorf("failed to update pack category: %w", err)
		}
		if periodChanged(&before, sub) {
			if err := s.packs.ResyncDatesTx(ctx, tx, sub); err != nil {
				return err
			}
		}
		if before.PackCategoryID == nil {
			if err := s.attachAnchor(ctx, tx, sub); err != nil {
				return err
			}
		}
		updated = sub
		return s.changes.Record(ctx, tx, changelog.Entry{
			SubscriptionID: sub.ID,
			Reason:         types.SubscriptionChangeReasonPackCategoryUpdated,
			Before:         &before,
			After:          sub,
			Extra:          map[string]interface{}{"pack_category_name": category.Name},
		})
	})
	if err != nil {
		return nil, apperr.Wrap(err, "update pack category failed")
	}
	return s.viewOf(ctx, updated)
}

// attachAnchor attaches the subscription's own member, course and group when the row has no members yet.
func (s *Service) attachAnchor(ctx context.Context, tx *gorm.DB, sub *models.Subscription) error {
	existing, err := s.packs.TriplesOf(ctx, tx, sub.ID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	_, err = s.packs.AttachTx(ctx, tx, sub, []pack.Triple{{MemberID: sub.MemberID, CourseID: sub.CourseID, GroupID: sub.GroupID}})
	return err
}

func periodChanged(before, after *models.Subscription) bool {
	return !before.PeriodStart.Equal(after.PeriodStart) || !before.PeriodEnd.Equal(after.PeriodEnd)
}

// Delete removes a subscription with its membership, roster and ledger rows.
// The deleted row and its installments are kept in the change log.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return apperr.NewValidationError("Validation failed", "id is required")
	}

	var kind types.SubscriptionKind
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub, err := lockSubscription(ctx, tx, id)
		if err != nil {
			return err
		}
		kind = sub.Kind()

		var entries []*models.PaymentEntry
		if err := tx.WithContext(ctx).Where("subscription_id = ?", id).Order("id").Find(&entries).Error; err != nil {
			return fmt.Errorf("failed to load ledger entries: %w", err)
		}
		triples, err := s.packs.TriplesOf(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.packs.DeleteAllTx(ctx, tx, id); err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Where("subscription_id = ?", id).Delete(&models.PaymentEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete ledger entries: %w", err)
		}
		if err := tx.WithContext(ctx).Delete(&models.Subscription{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete subscription: %w", err)
		}
		return s.changes.Record(ctx, tx, changelog.Entry{
			SubscriptionID: id,
			Reason:         types.SubscriptionChangeReasonDeleted,
			Before:         sub,
			Extra:          map[string]interface{}{"payments": entries, "members": triples},
		})
	})
	if err != nil {
		return apperr.Wrap(err, "delete subscription failed")
	}
	s.metrics.SubscriptionsWritten("delete", string(kind), 1)
	logctx.FromCtx(ctx, s.log).Infow("subscription deleted", "subscription_id", id)
	return nil
}

func (s *Service) viewOf(ctx context.Context, sub *models.Subscription) (*View, error) {
	views, err := s.views(ctx, []*models.Subscription{sub})
	if err != nil {
		return nil, apperr.Wrap(err, "load subscription failed")
	}
	return views[0], nil
}

// views attaches display names and derived values to rows, loading each lookup table once.
func (s *Service) views(ctx context.Context, rows []*models.Subscription) ([]*View, error) {
	db := s.db.WithContext(ctx)

	var members []*models.Member
	if ids := lo.Uniq(lo.Map(rows, func(r *models.Subscription, _ int) uint { return r.MemberID })); len(ids) > 0 {
		if err := db.Where("id IN ?", ids).Find(&members).Error; err != nil {
			return nil, fmt.Errorf("failed to load members: %w", err)
		}
	}
	var courses []*models.Course
	if ids := lo.Uniq(lo.FilterMap(rows, func(r *models.Subscription, _ int) (uint, bool) { return lo.FromPtr(r.CourseID), r.CourseID != nil })); len(ids) > 0 {
		if err := db.Where("id IN ?", ids).Find(&courses).Error; err != nil {
			return nil, fmt.Errorf("failed to load courses: %w", err)
		}
	}
	var groups []*models.CourseGroup
	if ids := lo.Uniq(lo.FilterMap(rows, func(r *models.Subscription, _ int) (uint, bool) { return lo.FromPtr(r.GroupID), r.GroupID != nil })); len(ids) > 0 {
		if err := db.Where("id IN ?", ids).Find(&groups).Error; err != nil {
			return nil, fmt.Errorf("failed to load groups: %w", err)
		}
	}
	var categories []*models.PackCategory
	if ids := lo.Uniq(lo.FilterMap(rows, func(r *models.Subscription, _ int) (uint, bool) { return lo.FromPtr(r.PackCategoryID), r.PackCategoryID != nil })); len(ids) > 0 {
		if err := db.Where("id IN ?", ids).Find(&categories).Error; err != nil {
			return nil, fmt.Errorf("failed to load pack categories: %w", err)
		}
	}

	memberByID := lo.KeyBy(members, func(m *models.Member) uint { return m.ID })
	courseByID := lo.KeyBy(courses, func(c *models.Course) uint { return c.ID })
	groupByID := lo.KeyBy(groups, func(g *models.CourseGroup) uint { return g.ID })
	categoryByID := lo.KeyBy(categories, func(c *models.PackCategory) uint { return c.ID })

	now := s.now()
	out := make([]*View, 0, len(rows))
	for _, r := range rows {
		v := &View{
			Subscription:     r,
			Kind:             r.Kind(),
			RemainingBalance: r.RemainingBalance(),
			PaymentStatus:    r.PaymentStatus(),
			DaysRemaining:    r.DaysRemaining(now),
		}
		if m, ok := memberByID[r.MemberID]; ok {
			v.MemberName, v.MemberPhone = m.FullName(), m.Phone
		}
		if r.CourseID != nil {
			if c, ok := courseByID[*r.CourseID]; ok {
				v.CourseName = c.Name
			}
		}
		if r.GroupID != nil {
			if g, ok := groupByID[*r.GroupID]; ok {
				v.GroupName = g.Name
			}
		}
		if r.PackCategoryID != nil {
			if c, ok := categoryByID[*r.PackCategoryID]; ok {
				v.PackCategoryName = c.Name
			}
		}
		out = append(out, v)
	}
	return out, nil
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

// Package enrollment creates and renews subscriptions together with their pack members and first installment.
package enrollment

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
	"github.com/fatflowers/clubdesk/internal/app/service/ledger"
	"github.com/fatflowers/clubdesk/internal/app/service/pack"
	"github.com/fatflowers/clubdesk/internal/models"
	"github.com/fatflowers/clubdesk/pkg/apperr"
	"github.com/fatflowers/clubdesk/pkg/metrics"
)

type Service struct {
	db      *gorm.DB
	log     *zap.SugaredLogger
	packs   *pack.Service
	ledger  *ledger.Service
	changes *changelog.Service
	metrics *metrics.Prometheus
	now     func() time.Time
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, packs *pack.Service, l *ledger.Service, changes *changelog.Service, m *metrics.Prometheus) *Service {
	return &Service{db: db, log: log, packs: packs, ledger: l, changes: changes, metrics: m, now: time.Now}
}

// loadMembers returns the members with ids in request order, or NotFound naming the unknown ids.
func loadMembers(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Member, error) {
	ids = lo.Uniq(ids)
	var rows []*models.Member
	if err := tx.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	byID := lo.KeyBy(rows, func(m *models.Member) uint { return m.ID })
	missing := lo.Reject(ids, func(id uint, _ int) bool { return byID[id] != nil })
	if len(missing) > 0 {
		return nil, apperr.NewNotFoundError("member not found", fmt.Sprintf("ids=%v", missing))
	}
	return lo.Map(ids, func(id uint, _ int) *models.Member { return byID[id] }), nil
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

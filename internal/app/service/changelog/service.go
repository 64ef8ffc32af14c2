package changelog

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fatflowers/clubdesk/internal/models"
	"github.com/fatflowers/clubdesk/pkg/logctx"
	"github.com/fatflowers/clubdesk/pkg/tool"
	"github.com/fatflowers/clubdesk/pkg/types"
)

// Entry describes one subscription change. Before is nil on creation, After is nil on deletion.
type Entry struct {
	SubscriptionID uint
	Reason         types.SubscriptionChangeReason
	Before         *models.Subscription
	After          *models.Subscription
	Extra          map[string]interface{}
}

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Record writes e inside tx so the log commits or rolls back with the change it describes.
// The operator is taken from ctx.
func (s *Service) Record(ctx context.Context, tx *gorm.DB, e Entry) error {
	extra := datatypes.JSONMap{}
	for k, v := range e.Extra {
		extra[k] = v
	}
	row := &models.SubscriptionLog{
		ID:             tool.GenerateUUIDV7(),
		SubscriptionID: e.SubscriptionID,
		OperatorID:     logctx.OperatorID(ctx),
		Reason:         e.Reason,
		Before:         datatypes.NewJSONType(snapshot(e.Before)),
		After:          datatypes.NewJSONType(snapshot(e.After)),
		Extra:          extra,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		logctx.FromCtx(ctx, s.log).Errorf("failed to save subscription log: %v", err)
		return fmt.Errorf("failed to save subscription log: %w", err)
	}
	return nil
}

// List returns the change history of a subscription, newest first.
func (s *Service) List(ctx context.Context, subscriptionID uint) ([]*models.SubscriptionLog, error) {
	var rows []*models.SubscriptionLog
	if err := s.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("created_at desc, id desc").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscription log: %w", err)
	}
	return rows, nil
}

// snapshot copies m so later mutations by the caller do not leak into the log.
func snapshot(m *models.Subscription) *models.Subscription {
	if m == nil {
		return nil
	}
	cp := *m
	return &cp
}

var Module = fx.Options(
	fx.Provide(New),
)

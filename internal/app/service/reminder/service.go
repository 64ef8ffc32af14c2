// Package reminder emits "reminder due" events for subscriptions about to expire.
package reminder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fatflowers/clubdesk/internal/app/service/subscription"
	"github.com/fatflowers/clubdesk/internal/platform/pubsub"
	"github.com/fatflowers/clubdesk/pkg/config"
	"github.com/fatflowers/clubdesk/pkg/logctx"
	"github.com/fatflowers/clubdesk/pkg/metrics"
	"github.com/fatflowers/clubdesk/pkg/types"
)

const (
	ResultPublished = "published"
	ResultDuplicate = "duplicate"
	ResultFailed    = "failed"
)

// ReminderDue is consumed by the notification sender.
type ReminderDue struct {
	SubscriptionID   uint                   `json:"subscription_id"`
	Kind             types.SubscriptionKind `json:"kind"`
	MemberID         uint                   `json:"member_id"`
	MemberName       string                 `json:"member_name"`
	MemberPhone      string                 `json:"member_phone"`
	PeriodEnd        string                 `json:"period_end"`
	DaysRemaining    int                    `json:"days_remaining"`
	RemainingBalance string                 `json:"remaining_balance"`
	PaymentStatus    types.PaymentStatus    `json:"payment_status"`
}

// Publisher delivers one event and reports whether it went out; false means it was already sent.
type Publisher interface {
	Publish(ctx context.Context, event ReminderDue) (bool, error)
}

type NearExpiryLister interface {
	ListNearExpiry(ctx context.Context, days int) ([]*subscription.View, error)
	WindowDays() int
}

type DispatchRequest struct {
	// Days defaults to the configured window.
	Days *int `json:"days"`
}

type DispatchResult struct {
	Days      int `json:"days"`
	Found     int `json:"found"`
	Published int `json:"published"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

type Service struct {
	subs    NearExpiryLister
	pub     Publisher
	log     *zap.SugaredLogger
	metrics *metrics.Prometheus
}

func NewService(subs *subscription.Service, pub Publisher, log *zap.SugaredLogger, m *metrics.Prometheus) *Service {
	return &Service{subs: subs, pub: pub, log: log, metrics: m}
}

// Dispatch publishes one event per subscription ending within the window. A failed publish
// is counted and does not stop the others.
func (s *Service) Dispatch(ctx context.Context, req *DispatchRequest) (*DispatchResult, error) {
	days := s.subs.WindowDays()
	if req != nil && req.Days != nil {
		days = *req.Days
	}
	views, err := s.subs.ListNearExpiry(ctx, days)
	if err != nil {
		return nil, err
	}

	res := &DispatchResult{Days: days, Found: len(views)}
	for _, v := range views {
		sent, err := s.pub.Publish(ctx, eventOf(v))
		switch {
		case err != nil:
			res.Failed++
			s.metrics.Reminder(ResultFailed)
			logctx.FromCtx(ctx, s.log).Warnw("failed to publish reminder", "subscription_id", v.ID, "err", err)
		case sent:
			res.Published++
			s.metrics.Reminder(ResultPublished)
		default:
			res.Skipped++
			s.metrics.Reminder(ResultDuplicate)
		}
	}
	logctx.FromCtx(ctx, s.log).Infow("reminders dispatched",
		"days", days, "found", res.Found, "published", res.Published, "skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}

// Run dispatches every interval until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := s.Dispatch(ctx, nil); err != nil {
				s.log.Warnw("scheduled reminder dispatch failed", "err", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func eventOf(v *subscription.View) ReminderDue {
	return ReminderDue{
		SubscriptionID:   v.ID,
		Kind:             v.Kind,
		MemberID:         v.MemberID,
		MemberName:       v.MemberName,
		MemberPhone:      v.MemberPhone,
		PeriodEnd:        v.PeriodEnd.Format(types.DateLayout),
		DaysRemaining:    v.DaysRemaining,
		RemainingBalance: v.RemainingBalance.StringFixed(2),
		PaymentStatus:    v.PaymentStatus,
	}
}

// RedisPublisher sends reminders on a Redis channel, once per subscription per day.
type RedisPublisher struct {
	bus     *pubsub.Bus
	channel string
	now     func() time.Time
}

func (p *RedisPublisher) Publish(ctx context.Context, event ReminderDue) (bool, error) {
	key := fmt.Sprintf("reminder:%d:%s", event.SubscriptionID, p.now().UTC().Format(types.DateLayout))
	return p.bus.PublishOnce(ctx, p.channel, key, 24*time.Hour, event)
}

// LogPublisher only logs reminders. Used when Redis is not configured.
type LogPublisher struct {
	log *zap.SugaredLogger
}

func (p *LogPublisher) Publish(ctx context.Context, event ReminderDue) (bool, error) {
	logctx.FromCtx(ctx, p.log).Infow("reminder due",
		"subscription_id", event.SubscriptionID, "member_id", event.MemberID, "period_end", event.PeriodEnd, "days_remaining", event.DaysRemaining)
	return true, nil
}

// NewPublisher picks Redis when a bus is available and the log publisher otherwise.
func NewPublisher(cfg *config.Config, bus *pubsub.Bus, log *zap.SugaredLogger) Publisher {
	if bus == nil {
		return &LogPublisher{log: log}
	}
	return &RedisPublisher{bus: bus, channel: cfg.Reminder.Channel, now: time.Now}
}

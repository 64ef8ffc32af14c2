package handlers

import (
	"context"

	"github.com/fatflowers/clubdesk/internal/app/service/enrollment"
	"github.com/fatflowers/clubdesk/internal/app/service/ledger"
	"github.com/fatflowers/clubdesk/internal/app/service/pack"
	"github.com/fatflowers/clubdesk/internal/app/service/reminder"
	"github.com/fatflowers/clubdesk/internal/app/service/subscription"
	"github.com/fatflowers/clubdesk/internal/models"
)

// The handlers depend on these narrow views of the services so tests can stub them.

type SubscriptionStore interface {
	Get(ctx context.Context, id uint) (*subscription.View, error)
	List(ctx context.Context, req *subscription.ListRequest) (*subscription.ListResponse, error)
	ListNearExpiry(ctx context.Context, days int) ([]*subscription.View, error)
	WindowDays() int
	Update(ctx context.Context, req *subscription.UpdateRequest) (*subscription.View, error)
	UpdatePaymentMethod(ctx context.Context, req *subscription.UpdatePaymentMethodRequest) (*subscription.View, error)
	UpdatePackCategory(ctx context.Context, req *subscription.UpdatePackCategoryRequest) (*subscription.View, error)
	Delete(ctx context.Context, id uint) error
}

type Enroller interface {
	Create(ctx context.Context, c enrollment.Creation) (*enrollment.CreateResult, error)
	Renew(ctx context.Context, req *enrollment.RenewRequest) (*enrollment.RenewResult, error)
}

type Ledger interface {
	Record(ctx context.Context, req *ledger.RecordRequest) (*ledger.Receipt, error)
	Edit(ctx context.Context, req *ledger.EditRequest) (*ledger.Receipt, error)
	Delete(ctx context.Context, entryID uint) (*ledger.Balance, error)
	List(ctx context.Context, subscriptionID uint) (*ledger.PaymentList, error)
	Reconcile(ctx context.Context, subscriptionID uint) (*ledger.Balance, error)
}

type PackMembers interface {
	Attach(ctx context.Context, req *pack.AttachRequest) (*models.PackMembership, error)
	Detach(ctx context.Context, req *pack.DetachRequest) error
	ReplaceAll(ctx context.Context, req *pack.ReplaceRequest) ([]*models.PackMembership, error)
	ListMembers(ctx context.Context, subscriptionID uint) ([]*pack.MemberView, error)
}

type Reminders interface {
	Dispatch(ctx context.Context, req *reminder.DispatchRequest) (*reminder.DispatchResult, error)
}

type Exporter interface {
	PaymentsWorkbook(ctx context.Context, subscriptionID uint) ([]byte, error)
	NearExpiryWorkbook(ctx context.Context, days *int) ([]byte, error)
}

// Services bundles every dependency of the admin routes.
type Services struct {
	Subscriptions SubscriptionStore
	Enrollment    Enroller
	Ledger        Ledger
	Packs         PackMembers
	Reminders     Reminders
	Export        Exporter
}

// IDRequest addresses a single record.
type IDRequest struct {
	ID uint `json:"id" example:"42"`
}

// SubscriptionIDRequest addresses the rows owned by one subscription.
type SubscriptionIDRequest struct {
	SubscriptionID uint `json:"subscription_id" example:"42"`
}

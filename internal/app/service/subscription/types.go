package subscription

import (
	"github.com/shopspring/decimal"

	"github.com/fatflowers/clubdesk/internal/models"
	"github.com/fatflowers/clubdesk/pkg/types"
)

// View is a subscription row with display names and the values derived at read time.
type View struct {
	*models.Subscription
	Kind             types.SubscriptionKind `json:"kind"`
	MemberName       string                 `json:"member_name"`
	MemberPhone      string                 `json:"member_phone"`
	CourseName       string                 `json:"course_name"`
	GroupName        string                 `json:"group_name"`
	PackCategoryName string                 `json:"pack_category_name"`
	RemainingBalance decimal.Decimal        `json:"remaining_balance" swaggertype:"string"`
	PaymentStatus    types.PaymentStatus    `json:"payment_status"`
	DaysRemaining    int                    `json:"days_remaining"`
}

// UpdateRequest carries the mutable columns of a subscription. Nil fields keep the stored value.
type UpdateRequest struct {
	ID              uint             `json:"id" validate:"required"`
	CourseID        *uint            `json:"course_id"`
	GroupID         *uint            `json:"group_id"`
	PeriodStart     *types.Date      `json:"period_start" swaggertype:"string" example:"2024-01-10"`
	PeriodEnd       *types.Date      `json:"period_end" swaggertype:"string" example:"2024-02-10"`
	DurationMonths  *int             `json:"duration_months" validate:"omitempty,min=1"`
	ActivityCount   *int             `json:"activity_count" validate:"omitempty,min=1"`
	Headcount       *int             `json:"headcount" validate:"omitempty,min=1"`
	PriceGross      *decimal.Decimal `json:"price_gross" swaggertype:"string" example:"300.00"`
	DiscountPercent *int             `json:"discount_percent" validate:"omitempty,min=0,max=100"`
	PayerName       *string          `json:"payer_name"`
	DueDate         *types.Date      `json:"due_date" swaggertype:"string" example:"2024-01-31"`
	Note            *string          `json:"note"`
}

type UpdatePaymentMethodRequest struct {
	ID             uint                `json:"id" validate:"required"`
	PaymentMethod  types.PaymentMethod `json:"payment_method" validate:"required,payment_method"`
	BankName       string              `json:"bank_name" validate:"required_if=PaymentMethod transfer"`
	AccountNumber  string              `json:"account_number" validate:"required_if=PaymentMethod transfer"`
	PaymentDetails string              `json:"payment_details"`
}

// UpdatePackCategoryRequest moves a subscription to another pack category.
// Omitted terms default to the values currently stored on the subscription.
type UpdatePackCategoryRequest struct {
	ID             uint             `json:"id" validate:"required"`
	PackCategoryID uint             `json:"pack_category_id" validate:"required"`
	PriceGross     *decimal.Decimal `json:"price_gross" swaggertype:"string" example:"450.00"`
	DurationMonths *int             `json:"duration_months" validate:"omitempty,min=1"`
	ActivityCount  *int             `json:"activity_count" validate:"omitempty,min=1"`
	Headcount      *int             `json:"headcount" validate:"omitempty,min=1"`
}

type ListRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ListResponse struct {
	Items []*View `json:"items"`
	Total int64   `json:"total"`
}

// filterColumns are the request fields List accepts as filters.
var filterColumns = types.Whitelist{
	"member_id":        "subscriptions.member_id",
	"course_id":        "subscriptions.course_id",
	"group_id":         "subscriptions.group_id",
	"pack_category_id": "subscriptions.pack_category_id",
	"payment_method":   "subscriptions.payment_method",
	"period_start":     "subscriptions.period_start",
	"period_end":       "subscriptions.period_end",
}

var sortColumns = map[string]string{
	"id":           "subscriptions.id",
	"period_start": "subscriptions.period_start",
	"period_end":   "subscriptions.period_end",
	"price_gross":  "subscriptions.price_gross",
	"created_at":   "subscriptions.created_at",
}

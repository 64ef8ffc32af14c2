package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fatflowers/clubdesk/pkg/period"
	"github.com/fatflowers/clubdesk/pkg/types"
)

// Subscription is one paid enrollment. A non-nil PackCategoryID marks a pack shared by several members,
// in which case MemberID/CourseID/GroupID only hold the first member's first selection.
type Subscription struct {
	ID       uint  `gorm:"column:id;primaryKey" json:"id"`
	MemberID uint  `gorm:"column:member_id;not null;index" json:"member_id"`
	CourseID *uint `gorm:"column:course_id;index" json:"course_id"`
	GroupID  *uint `gorm:"column:group_id;index" json:"group_id"`

	PeriodStart    time.Time `gorm:"column:period_start;type:date;not null" json:"period_start"`
	PeriodEnd      time.Time `gorm:"column:period_end;type:date;not null;index" json:"period_end"`
	DurationMonths int       `gorm:"column:duration_months;not null" json:"duration_months"`
	ActivityCount  int       `gorm:"column:activity_count;not null;default:1" json:"activity_count"`
	Headcount      int       `gorm:"column:headcount;not null;default:1" json:"headcount"`

	PriceGross      decimal.Decimal `gorm:"column:price_gross;type:decimal(12,2);not null;default:0" json:"price_gross"`
	DiscountPercent int             `gorm:"column:discount_percent;not null;default:0" json:"discount_percent"`
	PackCategoryID  *uint           `gorm:"column:pack_category_id;index" json:"pack_category_id"`

	PaymentMethod  types.PaymentMethod `gorm:"column:payment_method;type:varchar(16);not null" json:"payment_method"`
	BankName       string              `gorm:"column:bank_name;type:varchar(128)" json:"bank_name"`
	AccountNumber  string              `gorm:"column:account_number;type:varchar(64)" json:"account_number"`
	PaymentDetails string              `gorm:"column:payment_details;type:text" json:"payment_details"`
	// PaidAmount caches SUM(payment_ledger.amount) for this subscription; only the ledger writes it.
	PaidAmount decimal.Decimal `gorm:"column:paid_amount;type:decimal(12,2);not null;default:0" json:"paid_amount"`

	PayerName string     `gorm:"column:payer_name;type:varchar(128)" json:"payer_name"`
	DueDate   *time.Time `gorm:"column:due_date;type:date" json:"due_date"`
	Note      string     `gorm:"column:note;type:text" json:"note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) IsPack() bool {
	return s != nil && s.PackCategoryID != nil
}

func (s *Subscription) Kind() types.SubscriptionKind {
	if s.IsPack() {
		return types.SubscriptionKindPack
	}
	return types.SubscriptionKindIndividual
}

// RemainingBalance is price minus paid; negative when overpaid.
func (s *Subscription) RemainingBalance() decimal.Decimal {
	return s.PriceGross.Sub(s.PaidAmount)
}

func (s *Subscription) PaymentStatus() types.PaymentStatus {
	return types.DerivePaymentStatus(s.PriceGross, s.PaidAmount)
}

func (s *Subscription) DaysRemaining(now time.Time) int {
	return period.DaysUntil(s.PeriodEnd, now)
}

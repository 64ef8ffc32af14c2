package enrollment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fatflowers/clubdesk/internal/app/service/ledger"
	"github.com/fatflowers/clubdesk/internal/app/service/pack"
	"github.com/fatflowers/clubdesk/internal/models"
	"github.com/fatflowers/clubdesk/pkg/apperr"
	"github.com/fatflowers/clubdesk/pkg/period"
	"github.com/fatflowers/clubdesk/pkg/types"
	"github.com/fatflowers/clubdesk/pkg/validate"
)

// CreateRequest is the wire form of a creation. The presence of pack_category_id selects pack mode.
type CreateRequest struct {
	PackCategoryID   *uint                   `json:"pack_category_id"`
	Members          []pack.MemberSelections `json:"members" validate:"min=1,dive"`
	PeriodStart      types.Date              `json:"period_start" swaggertype:"string" example:"2024-01-10"`
	PeriodEnd        types.Date              `json:"period_end" swaggertype:"string" example:"2024-02-10"`
	DurationMonths   int                     `json:"duration_months" validate:"required,min=1"`
	ActivityCount    int                     `json:"activity_count" validate:"required,min=1"`
	Headcount        int                     `json:"headcount" validate:"required,min=1"`
	PriceGross       decimal.Decimal         `json:"price_gross" validate:"gte=0" swaggertype:"string" example:"300.00"`
	DiscountPercent  int                     `json:"discount_percent" validate:"min=0,max=100"`
	PaymentMethod    types.PaymentMethod     `json:"payment_method" validate:"required,payment_method"`
	BankName         string                  `json:"bank_name" validate:"required_if=PaymentMethod transfer"`
	AccountNumber    string                  `json:"account_number" validate:"required_if=PaymentMethod transfer"`
	PaymentDetails   string                  `json:"payment_details"`
	PayerName        string                  `json:"payer_name"`
	DueDate          types.Date              `json:"due_date" swaggertype:"string" example:"2024-01-31"`
	Note             string                  `json:"note"`
	FirstInstallment *ledger.Installment     `json:"first_installment" validate:"-"`
}

// Creation is either a PackCreation or an IndividualCreation.
type Creation interface {
	terms() *Terms
	members() []pack.MemberSelections
	installment() *ledger.Installment
}

// PackCreation creates one subscription shared by every member.
type PackCreation struct {
	PackCategoryID   uint
	Members          []pack.MemberSelections
	Terms            Terms
	FirstInstallment *ledger.Installment
}

// IndividualCreation creates one subscription per member.
type IndividualCreation struct {
	Members          []pack.MemberSelections
	Terms            Terms
	FirstInstallment *ledger.Installment
}

func (c *PackCreation) terms() *Terms { return &c.Terms }
func (c *PackCreation) members() []pack.MemberSelections { return c.Members }
func (c *PackCreation) installment() *ledger.Installment { return c.FirstInstallment }
func (c *IndividualCreation) terms() *Terms { return &c.Terms }
func (c *IndividualCreation) members() []pack.MemberSelections { return c.Members }
func (c *IndividualCreation) installment() *ledger.Installment { return c.FirstInstallment }

// Terms are the subscription columns shared by every row a creation writes.
type Terms struct {
	PeriodStart     time.Time
	PeriodEnd       time.Time
	DurationMonths  int
	ActivityCount   int
	Headcount       int
	PriceGross      decimal.Decimal
	DiscountPercent int
	PaymentMethod   types.PaymentMethod
	BankName        string
	AccountNumber   string
	PaymentDetails  string
	PayerName       string
	DueDate         *time.Time
	Note            string
}

// row builds the subscription of memberID anchored on sel.
func (t *Terms) row(memberID uint, sel pack.Selection) *models.Subscription {
	return &models.Subscription{
		MemberID:        memberID,
		CourseID:        sel.CourseID,
		GroupID:         sel.GroupID,
		PeriodStart:     t.PeriodStart,
		PeriodEnd:       t.PeriodEnd,
		DurationMonths:  t.DurationMonths,
		ActivityCount:   t.ActivityCount,
		Headcount:       t.Headcount,
		PriceGross:      t.PriceGross,
		DiscountPercent: t.DiscountPercent,
		PaymentMethod:   t.PaymentMethod,
		BankName:        t.BankName,
		AccountNumber:   t.AccountNumber,
		PaymentDetails:  t.PaymentDetails,
		PayerName:       t.PayerName,
		DueDate:         t.DueDate,
		Note:            t.Note,
	}
}

// Creation validates r and resolves it into its pack or individual form.
func (r *CreateRequest) Creation() (Creation, error) {
	if err := validate.Struct(r); err != nil {
		return nil, err
	}
	if r.PeriodStart.IsZero() || r.PeriodEnd.IsZero() {
		return nil, apperr.NewValidationError("Validation failed", "period_start and period_end are required")
	}
	if !period.Day(r.PeriodEnd.Time).After(period.Day(r.PeriodStart.Time)) {
		return nil, apperr.NewValidationError("Validation failed", "period_end must be after period_start")
	}

	inst := withPaymentDefaults(r.FirstInstallment, r.PaymentMethod, r.BankName, r.AccountNumber)
	terms := Terms{
		PeriodStart:     period.Day(r.PeriodStart.Time),
		PeriodEnd:       period.Day(r.PeriodEnd.Time),
		DurationMonths:  r.DurationMonths,
		ActivityCount:   r.ActivityCount,
		Headcount:       r.Headcount,
		PriceGross:      r.PriceGross,
		DiscountPercent: r.DiscountPercent,
		PaymentMethod:   r.PaymentMethod,
		BankName:        r.BankName,
		AccountNumber:   r.AccountNumber,
		PaymentDetails:  r.PaymentDetails,
		PayerName:       r.PayerName,
		DueDate:         r.DueDate.Ptr(),
		Note:            r.Note,
	}
	if r.PackCategoryID != nil {
		return &PackCreation{PackCategoryID: *r.PackCategoryID, Members: r.Members, Terms: terms, FirstInstallment: inst}, nil
	}
	terms.Headcount = 1
	return &IndividualCreation{Members: r.Members, Terms: terms, FirstInstallment: inst}, nil
}

// withPaymentDefaults fills an installment without a payment method from the subscription's payment fields.
func withPaymentDefaults(inst *ledger.Installment, method types.PaymentMethod, bankName, account string) *ledger.Installment {
	if inst == nil || inst.PaymentMethod != "" {
		return inst
	}
	cp := *inst
	cp.PaymentMethod, cp.BankName, cp.AccountNumber = method, bankName, account
	return &cp
}

type MemberName struct {
	MemberID uint   `json:"member_id"`
	Name     string `json:"name"`
}

type CreateResult struct {
	SubscriptionIDs []uint       `json:"subscription_ids"`
	IsPack          bool         `json:"is_pack"`
	Members         []MemberName `json:"members"`
}

// RenewRequest renews a subscription. Dates are either both given or both omitted.
type RenewRequest struct {
	SubscriptionID   uint                `json:"subscription_id" validate:"required"`
	PriceGross       *decimal.Decimal    `json:"price_gross" swaggertype:"string" example:"300.00"`
	PeriodStart      types.Date          `json:"period_start" swaggertype:"string" example:"2024-02-11"`
	PeriodEnd        types.Date          `json:"period_end" swaggertype:"string" example:"2024-03-11"`
	FirstInstallment *ledger.Installment `json:"first_installment" validate:"-"`
}

func (r *RenewRequest) validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.PriceGross != nil && r.PriceGross.IsNegative() {
		return apperr.NewValidationError("Validation failed", "price_gross must not be negative")
	}
	if r.PeriodStart.IsZero() != r.PeriodEnd.IsZero() {
		return apperr.NewValidationError("Validation failed", "period_start and period_end must be given together")
	}
	return nil
}

type RenewResult struct {
	SubscriptionID         uint            `json:"subscription_id"`
	PreviousSubscriptionID uint            `json:"previous_subscription_id"`
	OldPeriodStart         types.Date      `json:"old_period_start" swaggertype:"string"`
	OldPeriodEnd           types.Date      `json:"old_period_end" swaggertype:"string"`
	NewPeriodStart         types.Date      `json:"new_period_start" swaggertype:"string"`
	NewPeriodEnd           types.Date      `json:"new_period_end" swaggertype:"string"`
	OldPrice               decimal.Decimal `json:"old_price" swaggertype:"string"`
	NewPrice               decimal.Decimal `json:"new_price" swaggertype:"string"`
	IsPack                 bool            `json:"is_pack"`
	PaidAmount             decimal.Decimal `json:"paid_amount" swaggertype:"string"`
}

package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/fatflowers/clubdesk/internal/models"
	"github.com/fatflowers/clubdesk/pkg/apperr"
	"github.com/fatflowers/clubdesk/pkg/types"
	"github.com/fatflowers/clubdesk/pkg/validate"
)

// Installment is a payment taken together with a subscription write (creation or renewal).
type Installment struct {
	Amount        decimal.Decimal     `json:"amount"`
	PaymentMethod types.PaymentMethod `json:"payment_method" validate:"required,payment_method"`
	BankName      string              `json:"bank_name" validate:"required_if=PaymentMethod transfer"`
	AccountNumber string              `json:"account_number" validate:"required_if=PaymentMethod transfer"`
	Details       string              `json:"details"`
	RecordedAt    types.Date          `json:"recorded_at" swaggertype:"string" example:"2024-01-10"`
}

func (i *Installment) validate() error {
	if i.Amount.IsNegative() {
		return apperr.NewValidationError("Validation failed", "amount must not be negative")
	}
	return validate.Struct(i)
}

type RecordRequest struct {
	SubscriptionID uint                `json:"subscription_id" validate:"required"`
	Amount         decimal.Decimal     `json:"amount" swaggertype:"string" example:"150.00"`
	PaymentMethod  types.PaymentMethod `json:"payment_method" validate:"required,payment_method"`
	BankName       string              `json:"bank_name" validate:"required_if=PaymentMethod transfer"`
	AccountNumber  string              `json:"account_number" validate:"required_if=PaymentMethod transfer"`
	Details        string              `json:"details"`
	RecordedAt     types.Date          `json:"recorded_at" swaggertype:"string" example:"2024-01-10"`
}

func (r *RecordRequest) validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return apperr.NewValidationError("Validation failed", "amount must be greater than 0")
	}
	return nil
}

// EditRequest replaces the amount of an entry. Empty method and bank fields keep the stored values.
type EditRequest struct {
	EntryID       uint                `json:"id" validate:"required"`
	Amount        decimal.Decimal     `json:"amount" swaggertype:"string" example:"150.00"`
	PaymentMethod types.PaymentMethod `json:"payment_method" validate:"omitempty,payment_method"`
	BankName      string              `json:"bank_name"`
	AccountNumber string              `json:"account_number"`
	Details       *string             `json:"details"`
	RecordedAt    types.Date          `json:"recorded_at" swaggertype:"string" example:"2024-01-10"`
}

func (r *EditRequest) validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return apperr.NewValidationError("Validation failed", "amount must be greater than 0")
	}
	return nil
}

// Balance is the payment projection of a subscription after a ledger operation.
type Balance struct {
	SubscriptionID uint                `json:"subscription_id"`
	Price          decimal.Decimal     `json:"price" swaggertype:"string"`
	PaidAmount     decimal.Decimal     `json:"paid_amount" swaggertype:"string"`
	Remaining      decimal.Decimal     `json:"remaining" swaggertype:"string"`
	PaymentStatus  types.PaymentStatus `json:"payment_status"`
}

type Receipt struct {
	Entry *models.PaymentEntry `json:"entry"`
	Balance
}

type PaymentList struct {
	Items []*models.PaymentEntry `json:"items"`
	Count int64                  `json:"count"`
	Total decimal.Decimal        `json:"total" swaggertype:"string"`
}

func balanceOf(sub *models.Subscription) Balance {
	return Balance{
		SubscriptionID: sub.ID,
		Price:          sub.PriceGross,
		PaidAmount:     sub.PaidAmount,
		Remaining:      sub.RemainingBalance(),
		PaymentStatus:  sub.PaymentStatus(),
	}
}

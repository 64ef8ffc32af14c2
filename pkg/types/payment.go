package types

import "github.com/shopspring/decimal"

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCheck    PaymentMethod = "check"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCard     PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCheck, PaymentMethodTransfer, PaymentMethodCard:
		return true
	}
	return false
}

// RequiresBankDetails reports whether bank name and account number are mandatory.
func (m PaymentMethod) RequiresBankDetails() bool {
	return m == PaymentMethodTransfer
}

type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// DerivePaymentStatus classifies a subscription by comparing what was paid to its gross price.
func DerivePaymentStatus(price, paid decimal.Decimal) PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(price):
		return PaymentStatusPaid
	case paid.IsPositive():
		return PaymentStatusPartial
	default:
		return PaymentStatusUnpaid
	}
}

// LimitPolicy selects what a single installment amount is checked against.
type LimitPolicy string

const (
	// LimitPolicyTotalPrice checks each amount against the gross price only.
	LimitPolicyTotalPrice LimitPolicy = "total_price"
	// LimitPolicyRemainingBalance checks each amount against price minus what is already paid.
	LimitPolicyRemainingBalance LimitPolicy = "remaining_balance"
)

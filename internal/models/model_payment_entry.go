package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fatflowers/clubdesk/pkg/types"
)

// PaymentEntry is one installment in the append-only ledger of a subscription.
type PaymentEntry struct {
	ID             uint                `gorm:"column:id;primaryKey" json:"id"`
	SubscriptionID uint                `gorm:"column:subscription_id;not null;index" json:"subscription_id"`
	Amount         decimal.Decimal     `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	PaymentMethod  types.PaymentMethod `gorm:"column:payment_method;type:varchar(16);not null" json:"payment_method"`
	BankName       string              `gorm:"column:bank_name;type:varchar(128)" json:"bank_name"`
	AccountNumber  string              `gorm:"column:account_number;type:varchar(64)" json:"account_number"`
	Details        string              `gorm:"column:details;type:text" json:"details"`
	// Reference is the receipt number handed to invoicing.
	Reference  string    `gorm:"column:reference;type:varchar(64);not null;uniqueIndex" json:"reference"`
	RecordedAt time.Time `gorm:"column:recorded_at;not null" json:"recorded_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (PaymentEntry) TableName() string {
	return "payment_ledger"
}

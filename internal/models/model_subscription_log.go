package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fatflowers/clubdesk/pkg/types"
)

// SubscriptionLog records changes to subscriptions.
// Use case: troubleshooting and restoring deleted rows.
type SubscriptionLog struct {
	ID             string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SubscriptionID uint   `gorm:"column:subscription_id;not null;index" json:"subscription_id"`
	OperatorID     string `gorm:"column:operator_id;type:varchar(64)" json:"operator_id"`
	// Reason is the change reason.
	Reason types.SubscriptionChangeReason `gorm:"column:reason;type:varchar(64);not null" json:"reason"`
	// Before stores subscription data before the change in JSON format.
	Before datatypes.JSONType[*Subscription] `gorm:"column:before;type:jsonb" json:"before"`
	// After stores subscription data after the change in JSON format.
	After datatypes.JSONType[*Subscription] `gorm:"column:after;type:jsonb" json:"after"`
	// Extra stores additional context such as ledger entries or attached members.
	Extra     datatypes.JSONMap `gorm:"column:extra;type:jsonb" json:"extra"`
	CreatedAt time.Time         `json:"created_at"`
}

func (SubscriptionLog) TableName() string {
	return "subscription_log"
}

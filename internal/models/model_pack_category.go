package models

import "github.com/shopspring/decimal"

// PackCategory is a catalog entry for pack subscriptions with its default terms.
type PackCategory struct {
	ID             uint            `gorm:"column:id;primaryKey" json:"id"`
	Name           string          `gorm:"column:name;type:varchar(128)" json:"name"`
	Price          decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null;default:0" json:"price"`
	DurationMonths int             `gorm:"column:duration_months;not null;default:1" json:"duration_months"`
	ActivityCount  int             `gorm:"column:activity_count;not null;default:1" json:"activity_count"`
	Headcount      int             `gorm:"column:headcount;not null;default:1" json:"headcount"`
}

func (PackCategory) TableName() string {
	return "pack_categories"
}

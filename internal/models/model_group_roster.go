package models

import "time"

// GroupRoster is the denormalized roster of a course group, one row per (group, member, course).
type GroupRoster struct {
	ID             uint      `gorm:"column:id;primaryKey" json:"id"`
	GroupID        uint      `gorm:"column:group_id;not null;index:idx_group_roster_key,priority:1" json:"group_id"`
	MemberID       uint      `gorm:"column:member_id;not null;index:idx_group_roster_key,priority:2" json:"member_id"`
	CourseID       *uint     `gorm:"column:course_id;index:idx_group_roster_key,priority:3" json:"course_id"`
	SubscriptionID uint      `gorm:"column:subscription_id;not null;index" json:"subscription_id"`
	JoinedAt       time.Time `gorm:"column:joined_at;type:date;not null" json:"joined_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (GroupRoster) TableName() string {
	return "group_roster"
}

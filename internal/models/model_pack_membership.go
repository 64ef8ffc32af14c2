package models

import "time"

// PackMembership ties a member and one course/group selection to a subscription.
// For packs these rows, not the subscription's anchor columns, list every course.
type PackMembership struct {
	ID             uint      `gorm:"column:id;primaryKey" json:"id"`
	SubscriptionID uint      `gorm:"column:subscription_id;not null;index:idx_pack_membership_sub_member,priority:1" json:"subscription_id"`
	MemberID       uint      `gorm:"column:member_id;not null;index:idx_pack_membership_sub_member,priority:2" json:"member_id"`
	CourseID       *uint     `gorm:"column:course_id" json:"course_id"`
	GroupID        *uint     `gorm:"column:group_id" json:"group_id"`
	AttachmentDate time.Time `gorm:"column:attachment_date;type:date;not null" json:"attachment_date"`
	// MembershipPeriod reads "YYYY-MM-DD - YYYY-MM-DD".
	MembershipPeriod string    `gorm:"column:membership_period;type:varchar(32);not null" json:"membership_period"`
	CreatedAt        time.Time `json:"created_at"`
}

func (PackMembership) TableName() string {
	return "pack_membership"
}

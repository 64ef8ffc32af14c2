package pack

import (
	"fmt"
	"time"

	"github.com/fatflowers/clubdesk/internal/models"
)

// Selection is one course/group choice of a member. Both ends may be empty.
type Selection struct {
	CourseID *uint `json:"course_id"`
	GroupID  *uint `json:"group_id"`
}

type MemberSelections struct {
	MemberID   uint        `json:"member_id" validate:"required"`
	Selections []Selection `json:"selections"`
}

// Triple is the unit a membership row stores.
type Triple struct {
	MemberID uint  `json:"member_id"`
	CourseID *uint `json:"course_id"`
	GroupID  *uint `json:"group_id"`
}

func (t Triple) key() string {
	return fmt.Sprintf("%d/%s/%s", t.MemberID, idString(t.CourseID), idString(t.GroupID))
}

func idString(id *uint) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *id)
}

// Flatten expands members into triples; a member without selections yields one triple with no course or group.
func Flatten(members []MemberSelections) []Triple {
	var out []Triple
	for _, m := range members {
		if len(m.Selections) == 0 {
			out = append(out, Triple{MemberID: m.MemberID})
			continue
		}
		for _, sel := range m.Selections {
			out = append(out, Triple{MemberID: m.MemberID, CourseID: sel.CourseID, GroupID: sel.GroupID})
		}
	}
	return out
}

type AttachRequest struct {
	SubscriptionID uint  `json:"subscription_id" validate:"required"`
	MemberID       uint  `json:"member_id" validate:"required"`
	CourseID       *uint `json:"course_id"`
	GroupID        *uint `json:"group_id"`
}

type DetachRequest struct {
	SubscriptionID uint `json:"subscription_id" validate:"required"`
	MemberID       uint `json:"member_id" validate:"required"`
}

type ReplaceRequest struct {
	SubscriptionID uint               `json:"subscription_id" validate:"required"`
	Members        []MemberSelections `json:"members" validate:"dive"`
}

// MemberView is a membership row joined with member, course and group names.
type MemberView struct {
	MembershipID     uint      `json:"membership_id"`
	MemberID         uint      `json:"member_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Phone            string    `json:"phone"`
	CourseID         *uint     `json:"course_id"`
	CourseName       string    `json:"course_name"`
	GroupID          *uint     `json:"group_id"`
	GroupName        string    `json:"group_name"`
	AttachmentDate   time.Time `json:"attachment_date"`
	MembershipPeriod string    `json:"membership_period"`
}

func tripleOf(m *models.PackMembership) Triple {
	return Triple{MemberID: m.MemberID, CourseID: m.CourseID, GroupID: m.GroupID}
}

package models

// Member is an adherent of the club. Owned by the member registry; read here for display names.
type Member struct {
	ID        uint   `gorm:"column:id;primaryKey" json:"id"`
	FirstName string `gorm:"column:first_name;type:varchar(64)" json:"first_name"`
	LastName  string `gorm:"column:last_name;type:varchar(64)" json:"last_name"`
	Phone     string `gorm:"column:phone;type:varchar(32)" json:"phone"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) FullName() string {
	if m == nil {
		return ""
	}
	switch {
	case m.FirstName == "":
		return m.LastName
	case m.LastName == "":
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}

package models

type Course struct {
	ID   uint   `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name;type:varchar(128)" json:"name"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseGroup is a time slot of a course.
type CourseGroup struct {
	ID       uint   `gorm:"column:id;primaryKey" json:"id"`
	CourseID uint   `gorm:"column:course_id;index" json:"course_id"`
	Name     string `gorm:"column:name;type:varchar(128)" json:"name"`
}

func (CourseGroup) TableName() string {
	return "course_groups"
}

package model

// Course 课程表 — 对应 courses
type Course struct {
	CourseID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Code     string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"`
	Name     string `gorm:"type:varchar(200);not null"                     json:"name"`
	BaseModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// CourseSection 教学班表 — 对应 course_sections
// 同一课程一个学期可开多个教学班；InstructorID 为空表示尚未指派教师
type CourseSection struct {
	SectionID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"section_id"`
	CourseID     string  `gorm:"type:uuid;not null"                             json:"course_id"`
	Label        string  `gorm:"type:varchar(10);not null"                      json:"label"`
	Semester     string  `gorm:"type:varchar(20);not null"                      json:"semester"` // fall | spring | summer
	Year         int     `gorm:"not null"                                       json:"year"`
	Capacity     int     `gorm:"not null"                                       json:"capacity"`
	InstructorID *string `gorm:"type:uuid"                                      json:"instructor_id,omitempty"`
	IsActive     bool    `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (CourseSection) TableName() string { return "course_sections" }

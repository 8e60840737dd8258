package model

// Enrollment 选课记录表 — 对应 enrollments
// 由选课子系统写入；排课核心只读，用于学生个人课表冲突检查与日历导出
type Enrollment struct {
	EnrollmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"enrollment_id"`
	StudentID    string `gorm:"type:uuid;not null"                             json:"student_id"`
	SectionID    string `gorm:"type:uuid;not null"                             json:"section_id"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	Section *CourseSection `gorm:"foreignKey:SectionID;references:SectionID" json:"section,omitempty"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "enrollments" }

package model

import "time"

// SemesterTerm 学期表 — 对应 semester_terms
// (name, year) 唯一；起止日期供日历导出推导具体上课日期
type SemesterTerm struct {
	TermID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"term_id"`
	Name      string    `gorm:"type:varchar(20);not null"                      json:"name"` // fall | spring | summer
	Year      int       `gorm:"not null"                                       json:"year"`
	StartDate time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null"                             json:"end_date"`
	BaseModel
}

// TableName 指定表名
func (SemesterTerm) TableName() string { return "semester_terms" }

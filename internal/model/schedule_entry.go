package model

// ScheduleEntry 排课条目表 — 对应 schedule_entries
// 一条记录表示「教学班 S 每周 day_of_week 的 [start_time, end_time) 在教室 R 上课」。
// 同一教学班可以有多条条目（如理论课 + 实验课）。
// 条目只软停用（is_active=false），不物理删除，历史与审计查询依赖保留的行。
type ScheduleEntry struct {
	EntryID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	SectionID   string `gorm:"type:uuid;not null"                             json:"section_id"`
	ClassroomID string `gorm:"type:uuid;not null"                             json:"classroom_id"`
	DayOfWeek   int    `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1=周一 … 7=周日
	StartTime   string `gorm:"type:time;not null"                             json:"start_time"`  // "HH:MM"
	EndTime     string `gorm:"type:time;not null"                             json:"end_time"`    // "HH:MM"，半开区间
	IsActive    bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Section   *CourseSection `gorm:"foreignKey:SectionID;references:SectionID"       json:"section,omitempty"`
	Classroom *Classroom     `gorm:"foreignKey:ClassroomID;references:ClassroomID"   json:"classroom,omitempty"`
}

// TableName 指定表名
func (ScheduleEntry) TableName() string { return "schedule_entries" }

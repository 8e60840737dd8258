package model

// Classroom 教室表 — 对应 classrooms
// 教室数据由教室管理子系统维护，排课核心只读
type Classroom struct {
	ClassroomID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"classroom_id"`
	Building    string `gorm:"type:varchar(100);not null"                     json:"building"`
	RoomNumber  string `gorm:"type:varchar(20);not null"                      json:"room_number"`
	Capacity    int    `gorm:"not null"                                       json:"capacity"`
	IsActive    bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Classroom) TableName() string { return "classrooms" }

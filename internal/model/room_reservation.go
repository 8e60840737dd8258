package model

import "time"

// RoomReservation 临时教室预约表 — 对应 room_reservations
// 单次、指定日期的预约（讲座、社团活动等），与每周重复的排课条目共用同一重叠判定
type RoomReservation struct {
	ReservationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"reservation_id"`
	ClassroomID   string    `gorm:"type:uuid;not null"                             json:"classroom_id"`
	ReservedDate  time.Time `gorm:"type:date;not null"                             json:"reserved_date"`
	StartTime     string    `gorm:"type:time;not null"                             json:"start_time"`
	EndTime       string    `gorm:"type:time;not null"                             json:"end_time"`
	Purpose       string    `gorm:"type:varchar(200);not null"                     json:"purpose"`
	IsActive      bool      `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel

	// 关联
	Classroom *Classroom `gorm:"foreignKey:ClassroomID;references:ClassroomID" json:"classroom,omitempty"`
}

// TableName 指定表名
func (RoomReservation) TableName() string { return "room_reservations" }

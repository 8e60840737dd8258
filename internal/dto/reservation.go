package dto

// ── 临时教室预约 DTO ──

// CreateReservationRequest 创建单次教室预约请求
type CreateReservationRequest struct {
	ClassroomID  string `json:"classroom_id"  binding:"required,uuid"`
	ReservedDate string `json:"reserved_date" binding:"required"` // "2006-01-02"
	StartTime    string `json:"start_time"    binding:"required"`
	EndTime      string `json:"end_time"      binding:"required"`
	Purpose      string `json:"purpose"       binding:"required,min=2,max=200"`
}

// ReservationResponse 预约响应
type ReservationResponse struct {
	ID           string          `json:"id"`
	ClassroomID  string          `json:"classroom_id"`
	Classroom    *ClassroomBrief `json:"classroom,omitempty"`
	ReservedDate string          `json:"reserved_date"`
	StartTime    string          `json:"start_time"`
	EndTime      string          `json:"end_time"`
	Purpose      string          `json:"purpose"`
	CreatedAt    string          `json:"created_at"`
}

package dto

// ── 资源目录 DTO（只读视图）──

// ClassroomBrief 教室简要信息
type ClassroomBrief struct {
	ID         string `json:"id"`
	Building   string `json:"building"`
	RoomNumber string `json:"room_number"`
	Capacity   int    `json:"capacity"`
}

// SectionBrief 教学班简要信息
type SectionBrief struct {
	ID           string  `json:"id"`
	CourseCode   string  `json:"course_code,omitempty"`
	CourseName   string  `json:"course_name,omitempty"`
	Label        string  `json:"label"`
	Semester     string  `json:"semester"`
	Year         int     `json:"year"`
	Capacity     int     `json:"capacity"`
	InstructorID *string `json:"instructor_id,omitempty"`
}

// UnscheduledSectionListRequest 未排课教学班查询参数
type UnscheduledSectionListRequest struct {
	Semester string `form:"semester" binding:"required,oneof=fall spring summer"`
	Year     int    `form:"year"     binding:"required,min=2000,max=2100"`
}

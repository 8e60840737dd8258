package dto

// ── 排课模块 DTO ──

// AutoScheduleRequest 自动排课请求
type AutoScheduleRequest struct {
	Semester      string `json:"semester"       binding:"required,oneof=fall spring summer"`
	Year          int    `json:"year"           binding:"required,min=2000,max=2100"`
	MaxIterations int    `json:"max_iterations" binding:"omitempty,min=1"`
}

// CreateScheduleEntryRequest 手动创建排课条目请求
type CreateScheduleEntryRequest struct {
	SectionID   string `json:"section_id"   binding:"required,uuid"`
	ClassroomID string `json:"classroom_id" binding:"required,uuid"`
	DayOfWeek   int    `json:"day_of_week"  binding:"required,min=1,max=7"`
	StartTime   string `json:"start_time"   binding:"required"`
	EndTime     string `json:"end_time"     binding:"required"`
}

// UpdateScheduleEntryRequest 调整排课条目请求（部分字段）
type UpdateScheduleEntryRequest struct {
	ClassroomID *string `json:"classroom_id" binding:"omitempty,uuid"`
	DayOfWeek   *int    `json:"day_of_week"  binding:"omitempty,min=1,max=7"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Version     int     `json:"version"      binding:"required,min=1"`
}

// CheckConflictsRequest 冲突预检请求（提交前的 UI 预览）
type CheckConflictsRequest struct {
	SectionID      string  `json:"section_id"   binding:"required,uuid"`
	ClassroomID    string  `json:"classroom_id" binding:"required,uuid"`
	DayOfWeek      int     `json:"day_of_week"  binding:"required,min=1,max=7"`
	StartTime      string  `json:"start_time"   binding:"required"`
	EndTime        string  `json:"end_time"     binding:"required"`
	ExcludeEntryID *string `json:"exclude_entry_id" binding:"omitempty,uuid"`
	// StudentID 非空时额外检查该学生个人课表冲突（选课子系统调用）
	StudentID *string `json:"student_id" binding:"omitempty,uuid"`
}

// ScheduleEntryListRequest 排课条目列表查询参数（三选一）
type ScheduleEntryListRequest struct {
	SectionID    string `form:"section_id"    binding:"omitempty,uuid"`
	ClassroomID  string `form:"classroom_id"  binding:"omitempty,uuid"`
	InstructorID string `form:"instructor_id" binding:"omitempty,uuid"`
	DayOfWeek    *int   `form:"day_of_week"   binding:"omitempty,min=1,max=7"`
}

// ── 响应 ──

// ScheduleEntryResponse 排课条目响应
type ScheduleEntryResponse struct {
	ID          string          `json:"id"`
	SectionID   string          `json:"section_id"`
	Section     *SectionBrief   `json:"section,omitempty"`
	ClassroomID string          `json:"classroom_id"`
	Classroom   *ClassroomBrief `json:"classroom,omitempty"`
	DayOfWeek   int             `json:"day_of_week"`
	StartTime   string          `json:"start_time"`
	EndTime     string          `json:"end_time"`
	Version     int             `json:"version"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

// ConflictDescription 单条冲突描述
type ConflictDescription struct {
	// Kind 冲突维度: room | instructor | student | capacity
	Kind      string                 `json:"kind"`
	Message   string                 `json:"message"`
	Colliding *ScheduleEntryResponse `json:"colliding_entry,omitempty"`
}

// CheckConflictsResponse 冲突预检响应
type CheckConflictsResponse struct {
	HasConflict bool                  `json:"has_conflict"`
	Conflicts   []ConflictDescription `json:"conflicts"`
}

// UnscheduledSection 未能排课的教学班及原因
type UnscheduledSection struct {
	SectionID string `json:"section_id"`
	Reason    string `json:"reason"`
}

// AutoScheduleResult 自动排课运行结果
// 零教学班 / 零教室的运行返回 IsSuccess=false 的空结果，不是错误
type AutoScheduleResult struct {
	Semester            string                  `json:"semester"`
	Year                int                     `json:"year"`
	TotalSections       int                     `json:"total_sections"`
	ScheduledCount      int                     `json:"scheduled_count"`
	UnscheduledSections []UnscheduledSection    `json:"unscheduled_sections"`
	Entries             []ScheduleEntryResponse `json:"entries,omitempty"`
	IsSuccess           bool                    `json:"is_success"`
}

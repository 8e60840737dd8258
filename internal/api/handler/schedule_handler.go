package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campushub/backend/internal/dto"
	"campushub/backend/internal/service"
	apperrors "campushub/backend/pkg/errors"
	"campushub/backend/pkg/response"
)

// ScheduleHandler 排课模块 HTTP 处理器（自动排课 / 条目管理 / 冲突预检）
type ScheduleHandler struct {
	scheduleSvc  service.ScheduleService
	schedulerSvc service.SchedulerService
	conflictSvc  service.ConflictService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService, schedulerSvc service.SchedulerService, conflictSvc service.ConflictService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleSvc:  scheduleSvc,
		schedulerSvc: schedulerSvc,
		conflictSvc:  conflictSvc,
	}
}

// AutoSchedule 执行自动排课
// POST /api/v1/schedule/auto
func (h *ScheduleHandler) AutoSchedule(c *gin.Context) {
	var req dto.AutoScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 21001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.schedulerSvc.GenerateAutomaticSchedule(c.Request.Context(), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTermNotFound):
			response.NotFound(c, 21101, "学期不存在")
		case errors.Is(err, service.ErrSchedulerBusy):
			response.Conflict(c, 21201, "该学期的自动排课正在运行")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// CheckConflicts 冲突预检
// POST /api/v1/schedule/check-conflicts
func (h *ScheduleHandler) CheckConflicts(c *gin.Context) {
	var req dto.CheckConflictsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "参数校验失败")
		return
	}

	result, err := h.conflictSvc.CheckConflicts(c.Request.Context(), &req)
	if err != nil {
		h.handleScheduleError(c, err, nil)
		return
	}

	response.OK(c, result)
}

// CreateEntry 手动创建排课条目
// POST /api/v1/schedule/entries
func (h *ScheduleHandler) CreateEntry(c *gin.Context) {
	var req dto.CreateScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, conflicts, err := h.scheduleSvc.CreateEntry(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleScheduleError(c, err, conflicts)
		return
	}

	response.Created(c, entry)
}

// UpdateEntry 调整排课条目（换教室/换时间）
// PUT /api/v1/schedule/entries/:id
func (h *ScheduleHandler) UpdateEntry(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 20001, "条目ID不能为空")
		return
	}

	var req dto.UpdateScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, conflicts, err := h.scheduleSvc.UpdateEntry(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleScheduleError(c, err, conflicts)
		return
	}

	response.OK(c, entry)
}

// DeactivateEntry 停用排课条目
// DELETE /api/v1/schedule/entries/:id
func (h *ScheduleHandler) DeactivateEntry(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 20001, "条目ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.scheduleSvc.DeactivateEntry(c.Request.Context(), id, callerID); err != nil {
		h.handleScheduleError(c, err, nil)
		return
	}

	response.OK(c, nil)
}

// GetEntry 获取排课条目详情
// GET /api/v1/schedule/entries/:id
func (h *ScheduleHandler) GetEntry(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 20001, "条目ID不能为空")
		return
	}

	entry, err := h.scheduleSvc.GetEntry(c.Request.Context(), id)
	if err != nil {
		h.handleScheduleError(c, err, nil)
		return
	}

	response.OK(c, entry)
}

// ListEntries 按教学班/教室/教师查询排课条目
// GET /api/v1/schedule/entries?section_id= | classroom_id= | instructor_id= [&day_of_week=]
func (h *ScheduleHandler) ListEntries(c *gin.Context) {
	var req dto.ScheduleEntryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 20001, "参数校验失败")
		return
	}

	entries, err := h.scheduleSvc.ListEntries(c.Request.Context(), &req)
	if err != nil {
		h.handleScheduleError(c, err, nil)
		return
	}

	response.OK(c, gin.H{"list": entries})
}

func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error, conflicts []dto.ConflictDescription) {
	switch {
	case errors.Is(err, service.ErrInvalidInterval):
		response.BadRequest(c, 20002, "时间区间无效")
	case errors.Is(err, service.ErrBadListFilter):
		response.BadRequest(c, 20003, "必须且只能指定一个过滤维度")
	case errors.Is(err, service.ErrSectionNotFound):
		response.NotFound(c, 20101, "教学班不存在")
	case errors.Is(err, service.ErrClassroomNotFound):
		response.NotFound(c, 20102, "教室不存在")
	case errors.Is(err, service.ErrEntryNotFound):
		response.NotFound(c, 20103, "排课条目不存在")
	case errors.Is(err, service.ErrScheduleConflict):
		response.ErrorWithData(c, 409, 20201, "排课存在冲突", gin.H{"conflicts": conflicts})
	case errors.Is(err, apperrors.ErrOptimisticLock):
		response.Conflict(c, 20202, "条目已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

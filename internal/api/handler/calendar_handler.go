package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"campushub/backend/internal/service"
	"campushub/backend/pkg/response"
)

const (
	contentTypeICS  = "text/calendar; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// termQuery 学期查询参数
type termQuery struct {
	Semester string `form:"semester" binding:"required,oneof=fall spring summer"`
	Year     int    `form:"year"     binding:"required,min=2000,max=2100"`
}

// CalendarHandler 课表导出模块 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// ExportSectionCalendar 导出教学班 iCalendar
// GET /api/v1/calendar/sections/:id
func (h *CalendarHandler) ExportSectionCalendar(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 23001, "教学班ID不能为空")
		return
	}

	data, filename, err := h.calendarSvc.ExportSectionCalendar(c.Request.Context(), id)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	writeDownload(c, data, filename, contentTypeICS)
}

// ExportMyCalendar 导出当前登录学生的学期课表 iCalendar
// GET /api/v1/calendar/me?semester=fall&year=2024
func (h *CalendarHandler) ExportMyCalendar(c *gin.Context) {
	var q termQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 23001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	data, filename, err := h.calendarSvc.ExportStudentCalendar(c.Request.Context(), userID, q.Semester, q.Year)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	writeDownload(c, data, filename, contentTypeICS)
}

// ExportStudentCalendar 导出指定学生的学期课表 iCalendar（管理侧）
// GET /api/v1/calendar/students/:id?semester=fall&year=2024
func (h *CalendarHandler) ExportStudentCalendar(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 23001, "学生ID不能为空")
		return
	}
	var q termQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 23001, "参数校验失败")
		return
	}

	data, filename, err := h.calendarSvc.ExportStudentCalendar(c.Request.Context(), id, q.Semester, q.Year)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	writeDownload(c, data, filename, contentTypeICS)
}

// ExportTimetable 导出学期总课表 Excel
// GET /api/v1/export/timetable?semester=fall&year=2024
func (h *CalendarHandler) ExportTimetable(c *gin.Context) {
	var q termQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 23001, "参数校验失败")
		return
	}

	data, filename, err := h.calendarSvc.ExportTimetableWorkbook(c.Request.Context(), q.Semester, q.Year)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	writeDownload(c, data, filename, contentTypeXLSX)
}

func (h *CalendarHandler) handleCalendarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSectionNotFound):
		response.NotFound(c, 23101, "教学班不存在")
	case errors.Is(err, service.ErrTermNotFound):
		response.NotFound(c, 23102, "学期不存在")
	default:
		response.InternalError(c)
	}
}

// writeDownload 设置文件下载响应头并写出内容
func writeDownload(c *gin.Context, data []byte, filename, contentType string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}

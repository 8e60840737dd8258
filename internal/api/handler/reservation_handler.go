package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campushub/backend/internal/dto"
	"campushub/backend/internal/service"
	"campushub/backend/pkg/response"
)

// ReservationHandler 临时教室预约模块 HTTP 处理器
type ReservationHandler struct {
	reservationSvc service.ReservationService
}

// NewReservationHandler 创建 ReservationHandler
func NewReservationHandler(reservationSvc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationSvc: reservationSvc}
}

// CreateReservation 创建单次教室预约
// POST /api/v1/reservations
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 24001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	reservation, conflicts, err := h.reservationSvc.CreateReservation(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleReservationError(c, err, conflicts)
		return
	}

	response.Created(c, reservation)
}

// CancelReservation 取消预约
// DELETE /api/v1/reservations/:id
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 24001, "预约ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.reservationSvc.CancelReservation(c.Request.Context(), id, callerID); err != nil {
		h.handleReservationError(c, err, nil)
		return
	}

	response.OK(c, nil)
}

// ListReservations 查询教室某天的预约
// GET /api/v1/reservations?classroom_id=xxx&date=2024-09-02
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	classroomID := c.Query("classroom_id")
	date := c.Query("date")
	if classroomID == "" || date == "" {
		response.BadRequest(c, 24001, "classroom_id 与 date 不能为空")
		return
	}

	reservations, err := h.reservationSvc.ListReservations(c.Request.Context(), classroomID, date)
	if err != nil {
		h.handleReservationError(c, err, nil)
		return
	}

	response.OK(c, gin.H{"list": reservations})
}

func (h *ReservationHandler) handleReservationError(c *gin.Context, err error, conflicts []dto.ConflictDescription) {
	switch {
	case errors.Is(err, service.ErrInvalidInterval):
		response.BadRequest(c, 24002, "时间区间无效")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 24003, "日期格式无效")
	case errors.Is(err, service.ErrClassroomNotFound):
		response.NotFound(c, 24101, "教室不存在")
	case errors.Is(err, service.ErrReservationNotFound):
		response.NotFound(c, 24102, "预约不存在")
	case errors.Is(err, service.ErrScheduleConflict):
		response.ErrorWithData(c, 409, 24201, "预约存在冲突", gin.H{"conflicts": conflicts})
	default:
		response.InternalError(c)
	}
}

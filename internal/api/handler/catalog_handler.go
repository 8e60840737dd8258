package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campushub/backend/internal/dto"
	"campushub/backend/internal/service"
	"campushub/backend/pkg/response"
)

// CatalogHandler 资源目录模块 HTTP 处理器（只读）
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListClassrooms 获取可用教室目录
// GET /api/v1/classrooms
func (h *CatalogHandler) ListClassrooms(c *gin.Context) {
	rooms, err := h.catalogSvc.ListClassrooms(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": rooms})
}

// GetClassroom 获取教室详情
// GET /api/v1/classrooms/:id
func (h *CatalogHandler) GetClassroom(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 22001, "教室ID不能为空")
		return
	}

	room, err := h.catalogSvc.GetClassroom(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrClassroomNotFound) {
			response.NotFound(c, 22101, "教室不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, room)
}

// ListUnscheduledSections 获取指定学期尚未排课的教学班
// GET /api/v1/sections/unscheduled?semester=fall&year=2024
func (h *CatalogHandler) ListUnscheduledSections(c *gin.Context) {
	var req dto.UnscheduledSectionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 22001, "参数校验失败")
		return
	}

	sections, err := h.catalogSvc.ListUnscheduledSections(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": sections})
}

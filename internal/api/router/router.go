package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campushub/backend/config"
	"campushub/backend/internal/api/handler"
	"campushub/backend/internal/api/middleware"
	"campushub/backend/pkg/jwt"
	"campushub/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1（全部需要认证，Token 由平台身份服务签发）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
	{
		// 排课模块
		schedule := v1.Group("/schedule")
		{
			schedule.POST("/auto", middleware.RoleAuth("admin", "scheduler"), h.Schedule.AutoSchedule)
			schedule.POST("/check-conflicts", h.Schedule.CheckConflicts)
			schedule.GET("/entries", h.Schedule.ListEntries)
			schedule.GET("/entries/:id", h.Schedule.GetEntry)
			schedule.POST("/entries", middleware.RoleAuth("admin", "scheduler"), h.Schedule.CreateEntry)
			schedule.PUT("/entries/:id", middleware.RoleAuth("admin", "scheduler"), h.Schedule.UpdateEntry)
			schedule.DELETE("/entries/:id", middleware.RoleAuth("admin", "scheduler"), h.Schedule.DeactivateEntry)
		}

		// 资源目录模块（只读）
		v1.GET("/classrooms", h.Catalog.ListClassrooms)
		v1.GET("/classrooms/:id", h.Catalog.GetClassroom)
		v1.GET("/sections/unscheduled", middleware.RoleAuth("admin", "scheduler"), h.Catalog.ListUnscheduledSections)

		// 课表导出模块
		calendar := v1.Group("/calendar")
		{
			calendar.GET("/sections/:id", h.Calendar.ExportSectionCalendar)
			calendar.GET("/me", h.Calendar.ExportMyCalendar)
			calendar.GET("/students/:id", middleware.RoleAuth("admin", "scheduler"), h.Calendar.ExportStudentCalendar)
		}
		v1.GET("/export/timetable", middleware.RoleAuth("admin", "scheduler"), h.Calendar.ExportTimetable)

		// 临时教室预约模块
		reservations := v1.Group("/reservations")
		{
			reservations.GET("", h.Reservation.ListReservations)
			reservations.POST("", middleware.RoleAuth("admin", "scheduler", "instructor"), h.Reservation.CreateReservation)
			reservations.DELETE("/:id", middleware.RoleAuth("admin", "scheduler", "instructor"), h.Reservation.CancelReservation)
		}
	}

	return r
}

package handler

import "campushub/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Schedule    *ScheduleHandler
	Calendar    *CalendarHandler
	Catalog     *CatalogHandler
	Reservation *ReservationHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Schedule:    NewScheduleHandler(svc.Schedule, svc.Scheduler, svc.Conflict),
		Calendar:    NewCalendarHandler(svc.Calendar),
		Catalog:     NewCatalogHandler(svc.Catalog),
		Reservation: NewReservationHandler(svc.Reservation),
	}
}

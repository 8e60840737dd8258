package service

import (
	"go.uber.org/zap"

	"campushub/backend/config"
	"campushub/backend/internal/repository"
	"campushub/backend/pkg/redis"
)

// Service 所有业务服务的聚合入口
type Service struct {
	Conflict    ConflictService
	Scheduler   SchedulerService
	Schedule    ScheduleService
	Calendar    CalendarService
	Reservation ReservationService
	Catalog     CatalogService
}

// NewService 创建 Service 聚合
// rdb 可为 nil：排课引擎降级为无跨实例运行锁
func NewService(cfg *config.Config, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) *Service {
	return &Service{
		Conflict:    NewConflictService(repo, logger),
		Scheduler:   NewSchedulerService(&cfg.Scheduler, repo, rdb, logger),
		Schedule:    NewScheduleService(repo, logger),
		Calendar:    NewCalendarService(repo, logger),
		Reservation: NewReservationService(repo, logger),
		Catalog:     NewCatalogService(repo, logger),
	}
}

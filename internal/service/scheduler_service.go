package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campushub/backend/config"
	"campushub/backend/internal/dto"
	"campushub/backend/internal/model"
	"campushub/backend/internal/repository"
	"campushub/backend/pkg/redis"
)

// ── 自动排课模块业务错误 ──

var (
	// ErrTermNotFound 指定学期不存在
	ErrTermNotFound = errors.New("学期不存在")
	// ErrSchedulerBusy 同学期的自动排课正在运行
	ErrSchedulerBusy = errors.New("该学期的自动排课正在运行，请稍后重试")
)

// ── 未排课原因 ──

const (
	reasonNoFeasibleSlot  = "无满足容量与冲突约束的教室/时间组合"
	reasonBudgetExhausted = "迭代预算耗尽，未尝试排课"
)

// SchedulerService 自动排课引擎接口
//
// 首次适配的构造式算法：教学班按 ID 升序逐个处理，教室按容量升序
// （容量刚好够的优先，大教室留给大班），候选时间槽按固定目录顺序。
// 输入顺序固定，所以相同数据上的两次运行产出相同结果。
type SchedulerService interface {
	GenerateAutomaticSchedule(ctx context.Context, req *dto.AutoScheduleRequest, callerID string) (*dto.AutoScheduleResult, error)
}

type schedulerService struct {
	cfg    *config.SchedulerConfig
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewSchedulerService 创建 SchedulerService 实例
// rdb 可为 nil（降级运行，无跨实例运行锁）
func NewSchedulerService(cfg *config.SchedulerConfig, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) SchedulerService {
	return &schedulerService{cfg: cfg, repo: repo, rdb: rdb, logger: logger}
}

func (s *schedulerService) GenerateAutomaticSchedule(ctx context.Context, req *dto.AutoScheduleRequest, callerID string) (*dto.AutoScheduleResult, error) {
	if _, err := s.repo.Term.GetByTerm(ctx, req.Semester, req.Year); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTermNotFound
		}
		s.logger.Error("查询学期失败", zap.Error(err))
		return nil, err
	}

	// 运行锁只是并发运行的第一道闸门，条目写入时的事务内复核仍是最终防线，
	// 所以 Redis 故障时记录告警后继续运行而不是拒绝服务
	if s.rdb != nil {
		acquired, err := s.rdb.AcquireRunLock(ctx, req.Semester, req.Year, s.cfg.RunLockTTL)
		if err != nil {
			s.logger.Warn("获取排课运行锁失败，降级继续", zap.Error(err))
		} else if !acquired {
			return nil, ErrSchedulerBusy
		} else {
			defer func() {
				if err := s.rdb.ReleaseRunLock(context.Background(), req.Semester, req.Year); err != nil {
					s.logger.Warn("释放排课运行锁失败", zap.Error(err))
				}
			}()
		}
	}

	sections, err := s.repo.Section.ListUnscheduled(ctx, req.Semester, req.Year)
	if err != nil {
		s.logger.Error("查询未排课教学班失败", zap.Error(err))
		return nil, err
	}
	rooms, err := s.repo.Classroom.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询可用教室失败", zap.Error(err))
		return nil, err
	}

	// 无待排教学班或无可用教室是合法的空运行，不是错误：
	// 返回零值结果，不逐班生成落空原因
	if len(sections) == 0 || len(rooms) == 0 {
		return &dto.AutoScheduleResult{Semester: req.Semester, Year: req.Year}, nil
	}

	result := &dto.AutoScheduleResult{
		Semester:      req.Semester,
		Year:          req.Year,
		TotalSections: len(sections),
	}

	maxIterations := req.MaxIterations
	if maxIterations <= 0 {
		maxIterations = s.cfg.DefaultMaxIterations
	}

	var createdBy *string
	if callerID != "" {
		createdBy = &callerID
	}

	slots := candidateWeekSlots()
	iterations := 0
	budgetExhausted := false

	for i := range sections {
		section := &sections[i]
		if budgetExhausted {
			result.UnscheduledSections = append(result.UnscheduledSections, dto.UnscheduledSection{
				SectionID: section.SectionID,
				Reason:    reasonBudgetExhausted,
			})
			continue
		}

		placed := false
	roomLoop:
		for r := range rooms {
			room := &rooms[r]
			// 容量不足的教室直接跳过，不计入迭代预算
			if room.Capacity < section.Capacity {
				continue
			}
			for _, slot := range slots {
				if iterations >= maxIterations {
					budgetExhausted = true
					break roomLoop
				}
				iterations++

				conflict, err := s.repo.ScheduleEntry.FindRoomConflict(ctx, room.ClassroomID, slot.DayOfWeek, slot.Start, slot.End, "")
				if err != nil {
					return nil, err
				}
				if conflict != nil {
					continue
				}
				if section.InstructorID != nil {
					conflict, err = s.repo.ScheduleEntry.FindInstructorConflict(ctx, *section.InstructorID, slot.DayOfWeek, slot.Start, slot.End, "")
					if err != nil {
						return nil, err
					}
					if conflict != nil {
						continue
					}
				}

				entry := &model.ScheduleEntry{
					SectionID:   section.SectionID,
					ClassroomID: room.ClassroomID,
					DayOfWeek:   slot.DayOfWeek,
					StartTime:   slot.Start,
					EndTime:     slot.End,
					IsActive:    true,
				}
				entry.CreatedBy = createdBy
				entry.UpdatedBy = createdBy

				if err := s.repo.ScheduleEntry.Create(ctx, entry); err != nil {
					// 并发写入者刚占用了该组合，换下一个时间槽
					if errors.Is(err, repository.ErrRoomConflict) || errors.Is(err, repository.ErrInstructorConflict) {
						continue
					}
					s.logger.Error("写入排课条目失败", zap.Error(err))
					return nil, err
				}

				entry.Section = section
				entry.Classroom = room
				result.Entries = append(result.Entries, toScheduleEntryResponse(entry))
				result.ScheduledCount++
				placed = true
				break roomLoop
			}
		}

		if !placed {
			reason := reasonNoFeasibleSlot
			if budgetExhausted {
				reason = reasonBudgetExhausted
			}
			result.UnscheduledSections = append(result.UnscheduledSections, dto.UnscheduledSection{
				SectionID: section.SectionID,
				Reason:    reason,
			})
		}
	}

	result.IsSuccess = result.ScheduledCount == result.TotalSections

	s.logger.Info("自动排课运行完成",
		zap.String("semester", req.Semester),
		zap.Int("year", req.Year),
		zap.Int("total_sections", result.TotalSections),
		zap.Int("scheduled", result.ScheduledCount),
		zap.Int("iterations", iterations),
		zap.Bool("budget_exhausted", budgetExhausted),
	)

	return result, nil
}

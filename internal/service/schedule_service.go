package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campushub/backend/internal/dto"
	"campushub/backend/internal/model"
	"campushub/backend/internal/repository"
)

// ── 排课条目模块业务错误 ──

var (
	// ErrEntryNotFound 排课条目不存在或已停用
	ErrEntryNotFound = errors.New("排课条目不存在")
	// ErrScheduleConflict 放置存在冲突，详情见随错误返回的冲突描述列表
	ErrScheduleConflict = errors.New("排课存在冲突")
	// ErrBadListFilter 列表查询的过滤维度非法
	ErrBadListFilter = errors.New("必须且只能指定 section_id、classroom_id、instructor_id 之一")
)

// ScheduleService 排课条目管理接口（手动创建 / 调整 / 停用 / 查询）
//
// Create / Update 返回的冲突描述列表与 ErrScheduleConflict 成对出现：
// 先在事务外收集完整冲突详情给调用方展示，写入时事务内复核兜底竞态。
type ScheduleService interface {
	CreateEntry(ctx context.Context, req *dto.CreateScheduleEntryRequest, callerID string) (*dto.ScheduleEntryResponse, []dto.ConflictDescription, error)
	UpdateEntry(ctx context.Context, entryID string, req *dto.UpdateScheduleEntryRequest, callerID string) (*dto.ScheduleEntryResponse, []dto.ConflictDescription, error)
	DeactivateEntry(ctx context.Context, entryID string, callerID string) error
	GetEntry(ctx context.Context, entryID string) (*dto.ScheduleEntryResponse, error)
	ListEntries(ctx context.Context, req *dto.ScheduleEntryListRequest) ([]dto.ScheduleEntryResponse, error)
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger}
}

func (s *scheduleService) CreateEntry(ctx context.Context, req *dto.CreateScheduleEntryRequest, callerID string) (*dto.ScheduleEntryResponse, []dto.ConflictDescription, error) {
	interval, err := ParseTimeInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, nil, err
	}

	section, err := s.repo.Section.GetByID(ctx, req.SectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrSectionNotFound
		}
		return nil, nil, err
	}
	classroom, err := s.repo.Classroom.GetByID(ctx, req.ClassroomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrClassroomNotFound
		}
		return nil, nil, err
	}

	conflicts, err := collectPlacementConflicts(ctx, s.repo, section, classroom, req.DayOfWeek, interval, "")
	if err != nil {
		s.logger.Error("冲突检查失败", zap.Error(err))
		return nil, nil, err
	}
	if len(conflicts) > 0 {
		return nil, conflicts, ErrScheduleConflict
	}

	var caller *string
	if callerID != "" {
		caller = &callerID
	}
	entry := &model.ScheduleEntry{
		SectionID:   req.SectionID,
		ClassroomID: req.ClassroomID,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   interval.Start,
		EndTime:     interval.End,
		IsActive:    true,
	}
	entry.CreatedBy = caller
	entry.UpdatedBy = caller

	if err := s.repo.ScheduleEntry.Create(ctx, entry); err != nil {
		if conflicts, ok := raceConflicts(err); ok {
			return nil, conflicts, ErrScheduleConflict
		}
		s.logger.Error("创建排课条目失败", zap.Error(err))
		return nil, nil, err
	}

	entry.Section = section
	entry.Classroom = classroom
	resp := toScheduleEntryResponse(entry)
	return &resp, nil, nil
}

func (s *scheduleService) UpdateEntry(ctx context.Context, entryID string, req *dto.UpdateScheduleEntryRequest, callerID string) (*dto.ScheduleEntryResponse, []dto.ConflictDescription, error) {
	entry, err := s.repo.ScheduleEntry.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrEntryNotFound
		}
		return nil, nil, err
	}
	if !entry.IsActive {
		return nil, nil, ErrEntryNotFound
	}

	// 部分字段更新：未提供的维度沿用现值
	classroomID := entry.ClassroomID
	if req.ClassroomID != nil {
		classroomID = *req.ClassroomID
	}
	dayOfWeek := entry.DayOfWeek
	if req.DayOfWeek != nil {
		dayOfWeek = *req.DayOfWeek
	}
	startTime := normalizeClock(entry.StartTime)
	if req.StartTime != nil {
		startTime = *req.StartTime
	}
	endTime := normalizeClock(entry.EndTime)
	if req.EndTime != nil {
		endTime = *req.EndTime
	}

	interval, err := ParseTimeInterval(startTime, endTime)
	if err != nil {
		return nil, nil, err
	}

	section := entry.Section
	if section == nil {
		section, err = s.repo.Section.GetByID(ctx, entry.SectionID)
		if err != nil {
			return nil, nil, err
		}
	}
	classroom, err := s.repo.Classroom.GetByID(ctx, classroomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrClassroomNotFound
		}
		return nil, nil, err
	}

	// 冲突检查排除条目自身的旧状态：仅移动时间/教室不应与自己冲突
	conflicts, err := collectPlacementConflicts(ctx, s.repo, section, classroom, dayOfWeek, interval, entry.EntryID)
	if err != nil {
		s.logger.Error("冲突检查失败", zap.Error(err))
		return nil, nil, err
	}
	if len(conflicts) > 0 {
		return nil, conflicts, ErrScheduleConflict
	}

	var caller *string
	if callerID != "" {
		caller = &callerID
	}
	entry.ClassroomID = classroomID
	entry.DayOfWeek = dayOfWeek
	entry.StartTime = interval.Start
	entry.EndTime = interval.End
	entry.UpdatedBy = caller
	entry.Version = req.Version

	if err := s.repo.ScheduleEntry.Update(ctx, entry); err != nil {
		if conflicts, ok := raceConflicts(err); ok {
			return nil, conflicts, ErrScheduleConflict
		}
		// apperrors.ErrOptimisticLock 原样透传给处理器映射为 409
		return nil, nil, err
	}

	entry.Section = section
	entry.Classroom = classroom
	resp := toScheduleEntryResponse(entry)
	return &resp, nil, nil
}

func (s *scheduleService) DeactivateEntry(ctx context.Context, entryID string, callerID string) error {
	if err := s.repo.ScheduleEntry.Deactivate(ctx, entryID, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntryNotFound
		}
		s.logger.Error("停用排课条目失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *scheduleService) GetEntry(ctx context.Context, entryID string) (*dto.ScheduleEntryResponse, error) {
	entry, err := s.repo.ScheduleEntry.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	resp := toScheduleEntryResponse(entry)
	return &resp, nil
}

func (s *scheduleService) ListEntries(ctx context.Context, req *dto.ScheduleEntryListRequest) ([]dto.ScheduleEntryResponse, error) {
	filters := 0
	for _, f := range []string{req.SectionID, req.ClassroomID, req.InstructorID} {
		if f != "" {
			filters++
		}
	}
	if filters != 1 {
		return nil, ErrBadListFilter
	}

	var (
		entries []model.ScheduleEntry
		err     error
	)
	switch {
	case req.SectionID != "":
		entries, err = s.repo.ScheduleEntry.ListBySection(ctx, req.SectionID)
	case req.ClassroomID != "":
		entries, err = s.repo.ScheduleEntry.ListByClassroom(ctx, req.ClassroomID, req.DayOfWeek)
	default:
		entries, err = s.repo.ScheduleEntry.ListByInstructor(ctx, req.InstructorID, req.DayOfWeek)
	}
	if err != nil {
		s.logger.Error("查询排课条目失败", zap.Error(err))
		return nil, err
	}
	// ListBySection 不支持星期过滤，在内存中补齐
	if req.SectionID != "" && req.DayOfWeek != nil {
		filtered := entries[:0]
		for _, e := range entries {
			if e.DayOfWeek == *req.DayOfWeek {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	return toScheduleEntryResponses(entries), nil
}

// raceConflicts 将存储层守卫错误转为冲突描述（并发竞态下预检通过但写入被拒）
func raceConflicts(err error) ([]dto.ConflictDescription, bool) {
	switch {
	case errors.Is(err, repository.ErrRoomConflict):
		return []dto.ConflictDescription{{Kind: "room", Message: err.Error()}}, true
	case errors.Is(err, repository.ErrInstructorConflict):
		return []dto.ConflictDescription{{Kind: "instructor", Message: err.Error()}}, true
	}
	return nil, false
}

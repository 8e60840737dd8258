package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campushub/backend/internal/dto"
	"campushub/backend/internal/model"
	"campushub/backend/internal/repository"
)

// ── 冲突检查模块业务错误 ──

var (
	ErrSectionNotFound   = errors.New("教学班不存在")
	ErrClassroomNotFound = errors.New("教室不存在")
)

// ConflictService 时间冲突检查业务接口
//
// 所有预约类子系统共用的冲突判定入口：
//   - 排课预检（UI 提交前预览）
//   - 选课子系统的学生个人课表冲突检查（传 StudentID）
//
// 无冲突是正常结果而非错误；只有基础设施故障才返回 error。
type ConflictService interface {
	CheckConflicts(ctx context.Context, req *dto.CheckConflictsRequest) (*dto.CheckConflictsResponse, error)
}

type conflictService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewConflictService 创建 ConflictService 实例
func NewConflictService(repo *repository.Repository, logger *zap.Logger) ConflictService {
	return &conflictService{repo: repo, logger: logger}
}

func (s *conflictService) CheckConflicts(ctx context.Context, req *dto.CheckConflictsRequest) (*dto.CheckConflictsResponse, error) {
	interval, err := ParseTimeInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	section, err := s.repo.Section.GetByID(ctx, req.SectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		s.logger.Error("查询教学班失败", zap.Error(err))
		return nil, err
	}

	classroom, err := s.repo.Classroom.GetByID(ctx, req.ClassroomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassroomNotFound
		}
		s.logger.Error("查询教室失败", zap.Error(err))
		return nil, err
	}

	excludeID := ""
	if req.ExcludeEntryID != nil {
		excludeID = *req.ExcludeEntryID
	}

	conflicts, err := collectPlacementConflicts(ctx, s.repo, section, classroom, req.DayOfWeek, interval, excludeID)
	if err != nil {
		s.logger.Error("冲突检查失败", zap.Error(err))
		return nil, err
	}

	if req.StudentID != nil {
		studentConflicts, err := s.collectStudentConflicts(ctx, *req.StudentID, section, req.DayOfWeek, interval)
		if err != nil {
			s.logger.Error("学生课表冲突检查失败", zap.Error(err))
			return nil, err
		}
		conflicts = append(conflicts, studentConflicts...)
	}

	return &dto.CheckConflictsResponse{
		HasConflict: len(conflicts) > 0,
		Conflicts:   conflicts,
	}, nil
}

// collectStudentConflicts 检查候选时间槽与学生已选教学班课表的重叠
// 范围是该学生在同学期的全部有效选课（候选教学班自身除外）
func (s *conflictService) collectStudentConflicts(ctx context.Context, studentID string, section *model.CourseSection, dayOfWeek int, interval TimeInterval) ([]dto.ConflictDescription, error) {
	enrollments, err := s.repo.Enrollment.ListByStudentAndTerm(ctx, studentID, section.Semester, section.Year)
	if err != nil {
		return nil, err
	}

	var conflicts []dto.ConflictDescription
	for _, enrollment := range enrollments {
		if enrollment.SectionID == section.SectionID {
			continue
		}
		entries, err := s.repo.ScheduleEntry.ListBySection(ctx, enrollment.SectionID)
		if err != nil {
			return nil, err
		}
		for i := range entries {
			e := &entries[i]
			if e.DayOfWeek != dayOfWeek {
				continue
			}
			existing := TimeInterval{Start: normalizeClock(e.StartTime), End: normalizeClock(e.EndTime)}
			if interval.Overlaps(existing) {
				resp := toScheduleEntryResponse(e)
				conflicts = append(conflicts, dto.ConflictDescription{
					Kind:      "student",
					Message:   fmt.Sprintf("与已选课程冲突: %s %s-%s", weekdayName(e.DayOfWeek), e.StartTime, e.EndTime),
					Colliding: &resp,
				})
			}
		}
	}
	return conflicts, nil
}

// collectPlacementConflicts 汇总候选 (教学班, 教室, 星期, 区间) 的全部放置冲突
// 容量不足与时间重叠同样作为业务冲突描述返回，不是错误
func collectPlacementConflicts(ctx context.Context, repo *repository.Repository, section *model.CourseSection, classroom *model.Classroom, dayOfWeek int, interval TimeInterval, excludeEntryID string) ([]dto.ConflictDescription, error) {
	var conflicts []dto.ConflictDescription

	if classroom.Capacity < section.Capacity {
		conflicts = append(conflicts, dto.ConflictDescription{
			Kind: "capacity",
			Message: fmt.Sprintf("教室容量不足: %s-%s 容量 %d，教学班需要 %d",
				classroom.Building, classroom.RoomNumber, classroom.Capacity, section.Capacity),
		})
	}

	roomConflict, err := repo.ScheduleEntry.FindRoomConflict(ctx, classroom.ClassroomID, dayOfWeek, interval.Start, interval.End, excludeEntryID)
	if err != nil {
		return nil, err
	}
	if roomConflict != nil {
		resp := toScheduleEntryResponse(roomConflict)
		conflicts = append(conflicts, dto.ConflictDescription{
			Kind: "room",
			Message: fmt.Sprintf("教室已被占用: %s %s-%s",
				weekdayName(roomConflict.DayOfWeek), roomConflict.StartTime, roomConflict.EndTime),
			Colliding: &resp,
		})
	}

	if section.InstructorID != nil {
		instructorConflict, err := repo.ScheduleEntry.FindInstructorConflict(ctx, *section.InstructorID, dayOfWeek, interval.Start, interval.End, excludeEntryID)
		if err != nil {
			return nil, err
		}
		if instructorConflict != nil {
			resp := toScheduleEntryResponse(instructorConflict)
			conflicts = append(conflicts, dto.ConflictDescription{
				Kind: "instructor",
				Message: fmt.Sprintf("教师已有排课: %s %s-%s",
					weekdayName(instructorConflict.DayOfWeek), instructorConflict.StartTime, instructorConflict.EndTime),
				Colliding: &resp,
			})
		}
	}

	return conflicts, nil
}

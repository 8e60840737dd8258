package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campushub/backend/internal/dto"
	"campushub/backend/internal/model"
	"campushub/backend/internal/repository"
)

// ── 临时教室预约模块业务错误 ──

var (
	// ErrInvalidDate 预约日期格式非法
	ErrInvalidDate = errors.New("日期格式无效，需为 YYYY-MM-DD")
	// ErrReservationNotFound 预约不存在或已取消
	ErrReservationNotFound = errors.New("预约不存在")
)

// ReservationService 临时教室预约接口（讲座、社团活动等单次占用）
//
// 预约与每周排课条目共享教室：创建前同时检查当天星期的排课占用
// 与同日期的其他预约。
type ReservationService interface {
	CreateReservation(ctx context.Context, req *dto.CreateReservationRequest, callerID string) (*dto.ReservationResponse, []dto.ConflictDescription, error)
	CancelReservation(ctx context.Context, reservationID string, callerID string) error
	ListReservations(ctx context.Context, classroomID string, date string) ([]dto.ReservationResponse, error)
}

type reservationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReservationService 创建 ReservationService 实例
func NewReservationService(repo *repository.Repository, logger *zap.Logger) ReservationService {
	return &reservationService{repo: repo, logger: logger}
}

func (s *reservationService) CreateReservation(ctx context.Context, req *dto.CreateReservationRequest, callerID string) (*dto.ReservationResponse, []dto.ConflictDescription, error) {
	interval, err := ParseTimeInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, nil, err
	}
	date, err := time.Parse("2006-01-02", req.ReservedDate)
	if err != nil {
		return nil, nil, ErrInvalidDate
	}

	classroom, err := s.repo.Classroom.GetByID(ctx, req.ClassroomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrClassroomNotFound
		}
		return nil, nil, err
	}

	conflicts, err := s.collectReservationConflicts(ctx, classroom, date, interval)
	if err != nil {
		s.logger.Error("预约冲突检查失败", zap.Error(err))
		return nil, nil, err
	}
	if len(conflicts) > 0 {
		return nil, conflicts, ErrScheduleConflict
	}

	var caller *string
	if callerID != "" {
		caller = &callerID
	}
	reservation := &model.RoomReservation{
		ClassroomID:  req.ClassroomID,
		ReservedDate: date,
		StartTime:    interval.Start,
		EndTime:      interval.End,
		Purpose:      req.Purpose,
		IsActive:     true,
	}
	reservation.CreatedBy = caller
	reservation.UpdatedBy = caller

	if err := s.repo.Reservation.Create(ctx, reservation); err != nil {
		if errors.Is(err, repository.ErrReservationConflict) {
			return nil, []dto.ConflictDescription{{Kind: "room", Message: err.Error()}}, ErrScheduleConflict
		}
		s.logger.Error("创建预约失败", zap.Error(err))
		return nil, nil, err
	}

	reservation.Classroom = classroom
	resp := toReservationResponse(reservation)
	return &resp, nil, nil
}

// collectReservationConflicts 检查与当天星期的排课条目及同日期其他预约的重叠
func (s *reservationService) collectReservationConflicts(ctx context.Context, classroom *model.Classroom, date time.Time, interval TimeInterval) ([]dto.ConflictDescription, error) {
	var conflicts []dto.ConflictDescription

	entryConflict, err := s.repo.ScheduleEntry.FindRoomConflict(ctx, classroom.ClassroomID, isoWeekday(date), interval.Start, interval.End, "")
	if err != nil {
		return nil, err
	}
	if entryConflict != nil {
		resp := toScheduleEntryResponse(entryConflict)
		conflicts = append(conflicts, dto.ConflictDescription{
			Kind: "room",
			Message: fmt.Sprintf("与每周排课冲突: %s %s-%s",
				weekdayName(entryConflict.DayOfWeek), normalizeClock(entryConflict.StartTime), normalizeClock(entryConflict.EndTime)),
			Colliding: &resp,
		})
	}

	reservationConflict, err := s.repo.Reservation.FindConflict(ctx, classroom.ClassroomID, date, interval.Start, interval.End)
	if err != nil {
		return nil, err
	}
	if reservationConflict != nil {
		conflicts = append(conflicts, dto.ConflictDescription{
			Kind: "room",
			Message: fmt.Sprintf("教室当天已被预约: %s %s-%s (%s)",
				reservationConflict.ReservedDate.Format("2006-01-02"),
				normalizeClock(reservationConflict.StartTime), normalizeClock(reservationConflict.EndTime),
				reservationConflict.Purpose),
		})
	}

	return conflicts, nil
}

func (s *reservationService) CancelReservation(ctx context.Context, reservationID string, callerID string) error {
	if err := s.repo.Reservation.Deactivate(ctx, reservationID, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservationNotFound
		}
		s.logger.Error("取消预约失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *reservationService) ListReservations(ctx context.Context, classroomID string, dateStr string) ([]dto.ReservationResponse, error) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if _, err := s.repo.Classroom.GetByID(ctx, classroomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassroomNotFound
		}
		return nil, err
	}

	reservations, err := s.repo.Reservation.ListByClassroomAndDate(ctx, classroomID, date)
	if err != nil {
		s.logger.Error("查询预约失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.ReservationResponse, 0, len(reservations))
	for i := range reservations {
		out = append(out, toReservationResponse(&reservations[i]))
	}
	return out, nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"campushub/backend/internal/model"
)

// ErrReservationConflict 目标教室在该日期/时间段已被预约
var ErrReservationConflict = errors.New("教室在该日期时间段已被预约")

// ReservationRepository 临时教室预约存储接口
type ReservationRepository interface {
	GetByID(ctx context.Context, id string) (*model.RoomReservation, error)
	// Create 在事务内复核同日期预约不重叠后落盘
	Create(ctx context.Context, reservation *model.RoomReservation) error
	Deactivate(ctx context.Context, id string, callerID string) error
	ListByClassroomAndDate(ctx context.Context, classroomID string, date time.Time) ([]model.RoomReservation, error)
	// FindConflict 返回与候选 (教室, 日期, 半开时间区间) 重叠的第一条有效预约；无冲突返回 nil
	FindConflict(ctx context.Context, classroomID string, date time.Time, startTime, endTime string) (*model.RoomReservation, error)
}

type reservationRepo struct {
	db *gorm.DB
}

// NewReservationRepo 创建 ReservationRepository 实例
func NewReservationRepo(db *gorm.DB) ReservationRepository {
	return &reservationRepo{db: db}
}

func (r *reservationRepo) GetByID(ctx context.Context, id string) (*model.RoomReservation, error) {
	var reservation model.RoomReservation
	err := r.db.WithContext(ctx).
		Preload("Classroom").
		Where("reservation_id = ?", id).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepo) Create(ctx context.Context, reservation *model.RoomReservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conflict, err := findReservationConflict(tx, reservation.ClassroomID, reservation.ReservedDate, reservation.StartTime, reservation.EndTime)
		if err != nil {
			return err
		}
		if conflict != nil {
			return ErrReservationConflict
		}
		return tx.Create(reservation).Error
	})
}

func (r *reservationRepo) Deactivate(ctx context.Context, id string, callerID string) error {
	res := r.db.WithContext(ctx).Model(&model.RoomReservation{}).
		Where("reservation_id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_by": callerID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reservationRepo) ListByClassroomAndDate(ctx context.Context, classroomID string, date time.Time) ([]model.RoomReservation, error) {
	var reservations []model.RoomReservation
	err := r.db.WithContext(ctx).
		Where("classroom_id = ? AND reserved_date = ? AND is_active = ?", classroomID, date.Format("2006-01-02"), true).
		Order("start_time ASC").
		Find(&reservations).Error
	return reservations, err
}

func (r *reservationRepo) FindConflict(ctx context.Context, classroomID string, date time.Time, startTime, endTime string) (*model.RoomReservation, error) {
	return findReservationConflict(r.db.WithContext(ctx), classroomID, date, startTime, endTime)
}

func findReservationConflict(db *gorm.DB, classroomID string, date time.Time, startTime, endTime string) (*model.RoomReservation, error) {
	var reservation model.RoomReservation
	err := db.
		Where("classroom_id = ? AND reserved_date = ? AND is_active = ?", classroomID, date.Format("2006-01-02"), true).
		Where("start_time < ? AND end_time > ?", endTime, startTime).
		Order("start_time ASC").
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reservation, nil
}

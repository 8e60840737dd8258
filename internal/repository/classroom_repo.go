package repository

import (
	"context"

	"gorm.io/gorm"

	"campushub/backend/internal/model"
)

// ClassroomRepository 教室数据访问接口（排课核心只读）
type ClassroomRepository interface {
	GetByID(ctx context.Context, id string) (*model.Classroom, error)
	// ListActive 返回所有可用教室，按容量升序、同容量按楼宇/房号/ID 升序
	// 固定排序保证自动排课的结果可复现
	ListActive(ctx context.Context) ([]model.Classroom, error)
}

type classroomRepo struct {
	db *gorm.DB
}

// NewClassroomRepo 创建 ClassroomRepository 实例
func NewClassroomRepo(db *gorm.DB) ClassroomRepository {
	return &classroomRepo{db: db}
}

func (r *classroomRepo) GetByID(ctx context.Context, id string) (*model.Classroom, error) {
	var room model.Classroom
	err := r.db.WithContext(ctx).
		Where("classroom_id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *classroomRepo) ListActive(ctx context.Context) ([]model.Classroom, error) {
	var rooms []model.Classroom
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("capacity ASC, building ASC, room_number ASC, classroom_id ASC").
		Find(&rooms).Error
	return rooms, err
}

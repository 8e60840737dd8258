package repository

import (
	"context"

	"gorm.io/gorm"

	"campushub/backend/internal/model"
)

// SectionRepository 教学班数据访问接口（排课核心只读）
type SectionRepository interface {
	GetByID(ctx context.Context, id string) (*model.CourseSection, error)
	// ListUnscheduled 返回指定学期内没有任何有效排课条目的活动教学班
	// 按 section_id 升序，保证自动排课处理顺序确定
	ListUnscheduled(ctx context.Context, semester string, year int) ([]model.CourseSection, error)
}

type sectionRepo struct {
	db *gorm.DB
}

// NewSectionRepo 创建 SectionRepository 实例
func NewSectionRepo(db *gorm.DB) SectionRepository {
	return &sectionRepo{db: db}
}

func (r *sectionRepo) GetByID(ctx context.Context, id string) (*model.CourseSection, error) {
	var section model.CourseSection
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("section_id = ?", id).
		First(&section).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *sectionRepo) ListUnscheduled(ctx context.Context, semester string, year int) ([]model.CourseSection, error) {
	var sections []model.CourseSection
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("semester = ? AND year = ? AND is_active = ?", semester, year, true).
		Where("NOT EXISTS (SELECT 1 FROM schedule_entries se WHERE se.section_id = course_sections.section_id AND se.is_active = TRUE AND se.deleted_at IS NULL)").
		Order("section_id ASC").
		Find(&sections).Error
	return sections, err
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"campushub/backend/internal/model"
)

// TermRepository 学期数据访问接口
type TermRepository interface {
	GetByTerm(ctx context.Context, semester string, year int) (*model.SemesterTerm, error)
}

type termRepo struct {
	db *gorm.DB
}

// NewTermRepo 创建 TermRepository 实例
func NewTermRepo(db *gorm.DB) TermRepository {
	return &termRepo{db: db}
}

func (r *termRepo) GetByTerm(ctx context.Context, semester string, year int) (*model.SemesterTerm, error) {
	var term model.SemesterTerm
	err := r.db.WithContext(ctx).
		Where("name = ? AND year = ?", semester, year).
		First(&term).Error
	if err != nil {
		return nil, err
	}
	return &term, nil
}

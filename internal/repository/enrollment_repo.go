package repository

import (
	"context"

	"gorm.io/gorm"

	"campushub/backend/internal/model"
)

// EnrollmentRepository 选课数据访问接口（排课核心只读）
type EnrollmentRepository interface {
	// ListByStudentAndTerm 返回学生在指定学期的有效选课记录（含教学班关联）
	ListByStudentAndTerm(ctx context.Context, studentID, semester string, year int) ([]model.Enrollment, error)
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) ListByStudentAndTerm(ctx context.Context, studentID, semester string, year int) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Section").
		Preload("Section.Course").
		Joins("JOIN course_sections ON course_sections.section_id = enrollments.section_id").
		Where("enrollments.student_id = ? AND enrollments.is_active = ?", studentID, true).
		Where("course_sections.semester = ? AND course_sections.year = ? AND course_sections.is_active = ?", semester, year, true).
		Order("enrollments.section_id ASC").
		Find(&enrollments).Error
	return enrollments, err
}

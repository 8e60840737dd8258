package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campushub/backend/internal/dto"
	"campushub/backend/internal/repository"
)

// CatalogService 资源目录只读视图（教室目录、待排课教学班）
// 目录数据由教务与教室管理子系统维护，本服务不提供写入口
type CatalogService interface {
	ListClassrooms(ctx context.Context) ([]dto.ClassroomBrief, error)
	GetClassroom(ctx context.Context, classroomID string) (*dto.ClassroomBrief, error)
	ListUnscheduledSections(ctx context.Context, req *dto.UnscheduledSectionListRequest) ([]dto.SectionBrief, error)
}

type catalogService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(repo *repository.Repository, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, logger: logger}
}

func (s *catalogService) ListClassrooms(ctx context.Context) ([]dto.ClassroomBrief, error) {
	rooms, err := s.repo.Classroom.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询教室目录失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.ClassroomBrief, 0, len(rooms))
	for i := range rooms {
		out = append(out, *toClassroomBrief(&rooms[i]))
	}
	return out, nil
}

func (s *catalogService) GetClassroom(ctx context.Context, classroomID string) (*dto.ClassroomBrief, error) {
	room, err := s.repo.Classroom.GetByID(ctx, classroomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassroomNotFound
		}
		return nil, err
	}
	return toClassroomBrief(room), nil
}

func (s *catalogService) ListUnscheduledSections(ctx context.Context, req *dto.UnscheduledSectionListRequest) ([]dto.SectionBrief, error) {
	sections, err := s.repo.Section.ListUnscheduled(ctx, req.Semester, req.Year)
	if err != nil {
		s.logger.Error("查询未排课教学班失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.SectionBrief, 0, len(sections))
	for i := range sections {
		out = append(out, *toSectionBrief(&sections[i]))
	}
	return out, nil
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"campushub/backend/internal/model"
	apperrors "campushub/backend/pkg/errors"
)

// ── 排课存储层守卫错误 ──
//
// 写入前的事务内复核是并发竞态的最后防线：调用方（排课引擎 / 手动创建）
// 应当已经做过冲突检查，但两个并发写入者可能各自基于过期快照通过检查。

var (
	// ErrRoomConflict 目标教室在该星期/时间段已有有效条目
	ErrRoomConflict = errors.New("教室在该时间段已被占用")
	// ErrInstructorConflict 教学班的授课教师在该星期/时间段已有其他课
	ErrInstructorConflict = errors.New("教师在该时间段已有排课")
)

// ScheduleEntryRepository 排课条目存储接口
//
// Create / Update 在单个事务内重新校验教室与教师两条非重叠不变量后才落盘；
// 所有读取默认只返回有效（is_active）条目。
type ScheduleEntryRepository interface {
	GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error)
	Create(ctx context.Context, entry *model.ScheduleEntry) error
	Update(ctx context.Context, entry *model.ScheduleEntry) error
	Deactivate(ctx context.Context, id string, callerID string) error
	ListBySection(ctx context.Context, sectionID string) ([]model.ScheduleEntry, error)
	ListByClassroom(ctx context.Context, classroomID string, dayOfWeek *int) ([]model.ScheduleEntry, error)
	ListByInstructor(ctx context.Context, instructorID string, dayOfWeek *int) ([]model.ScheduleEntry, error)
	// FindRoomConflict 返回与候选 (教室, 星期, 半开时间区间) 重叠的第一条有效条目；无冲突返回 nil
	FindRoomConflict(ctx context.Context, classroomID string, dayOfWeek int, startTime, endTime, excludeEntryID string) (*model.ScheduleEntry, error)
	// FindInstructorConflict 同上，范围是该教师所授全部教学班的有效条目
	FindInstructorConflict(ctx context.Context, instructorID string, dayOfWeek int, startTime, endTime, excludeEntryID string) (*model.ScheduleEntry, error)
}

type scheduleEntryRepo struct {
	db *gorm.DB
}

// NewScheduleEntryRepo 创建 ScheduleEntryRepository 实例
func NewScheduleEntryRepo(db *gorm.DB) ScheduleEntryRepository {
	return &scheduleEntryRepo{db: db}
}

func (r *scheduleEntryRepo) GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error) {
	var entry model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Preload("Section").
		Preload("Section.Course").
		Preload("Classroom").
		Where("entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *scheduleEntryRepo) Create(ctx context.Context, entry *model.ScheduleEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := guardConflicts(tx, entry, ""); err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

func (r *scheduleEntryRepo) Update(ctx context.Context, entry *model.ScheduleEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 校验排除条目自身的旧状态
		if err := guardConflicts(tx, entry, entry.EntryID); err != nil {
			return err
		}

		// 乐观锁：版本不匹配说明条目已被其他操作修改
		res := tx.Model(&model.ScheduleEntry{}).
			Where("entry_id = ? AND version = ?", entry.EntryID, entry.Version).
			Updates(map[string]interface{}{
				"classroom_id": entry.ClassroomID,
				"day_of_week":  entry.DayOfWeek,
				"start_time":   entry.StartTime,
				"end_time":     entry.EndTime,
				"updated_by":   entry.UpdatedBy,
				"version":      entry.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrOptimisticLock
		}
		entry.Version++
		return nil
	})
}

func (r *scheduleEntryRepo) Deactivate(ctx context.Context, id string, callerID string) error {
	res := r.db.WithContext(ctx).Model(&model.ScheduleEntry{}).
		Where("entry_id = ? AND is_active = ?", id, true).
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

func (r *scheduleEntryRepo) ListBySection(ctx context.Context, sectionID string) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Preload("Section").
		Preload("Section.Course").
		Preload("Classroom").
		Where("section_id = ? AND is_active = ?", sectionID, true).
		Order("day_of_week ASC, start_time ASC").
		Find(&entries).Error
	return entries, err
}

func (r *scheduleEntryRepo) ListByClassroom(ctx context.Context, classroomID string, dayOfWeek *int) ([]model.ScheduleEntry, error) {
	q := r.db.WithContext(ctx).
		Preload("Section").
		Preload("Section.Course").
		Where("classroom_id = ? AND is_active = ?", classroomID, true)
	if dayOfWeek != nil {
		q = q.Where("day_of_week = ?", *dayOfWeek)
	}
	var entries []model.ScheduleEntry
	err := q.Order("day_of_week ASC, start_time ASC").Find(&entries).Error
	return entries, err
}

func (r *scheduleEntryRepo) ListByInstructor(ctx context.Context, instructorID string, dayOfWeek *int) ([]model.ScheduleEntry, error) {
	q := r.db.WithContext(ctx).
		Preload("Section").
		Preload("Section.Course").
		Preload("Classroom").
		Joins("JOIN course_sections ON course_sections.section_id = schedule_entries.section_id").
		Where("course_sections.instructor_id = ? AND schedule_entries.is_active = ?", instructorID, true)
	if dayOfWeek != nil {
		q = q.Where("schedule_entries.day_of_week = ?", *dayOfWeek)
	}
	var entries []model.ScheduleEntry
	err := q.Order("schedule_entries.day_of_week ASC, schedule_entries.start_time ASC").Find(&entries).Error
	return entries, err
}

func (r *scheduleEntryRepo) FindRoomConflict(ctx context.Context, classroomID string, dayOfWeek int, startTime, endTime, excludeEntryID string) (*model.ScheduleEntry, error) {
	return findRoomConflict(r.db.WithContext(ctx), classroomID, dayOfWeek, startTime, endTime, excludeEntryID)
}

func (r *scheduleEntryRepo) FindInstructorConflict(ctx context.Context, instructorID string, dayOfWeek int, startTime, endTime, excludeEntryID string) (*model.ScheduleEntry, error) {
	return findInstructorConflict(r.db.WithContext(ctx), instructorID, dayOfWeek, startTime, endTime, excludeEntryID)
}

// ── 内部查询（事务内外共用）──

// findRoomConflict 半开区间重叠判定：existing.start < cand.end AND existing.end > cand.start
func findRoomConflict(db *gorm.DB, classroomID string, dayOfWeek int, startTime, endTime, excludeEntryID string) (*model.ScheduleEntry, error) {
	q := db.
		Preload("Section").
		Preload("Section.Course").
		Where("classroom_id = ? AND day_of_week = ? AND is_active = ?", classroomID, dayOfWeek, true).
		Where("start_time < ? AND end_time > ?", endTime, startTime)
	if excludeEntryID != "" {
		q = q.Where("entry_id <> ?", excludeEntryID)
	}
	var entry model.ScheduleEntry
	err := q.Order("start_time ASC").First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func findInstructorConflict(db *gorm.DB, instructorID string, dayOfWeek int, startTime, endTime, excludeEntryID string) (*model.ScheduleEntry, error) {
	q := db.
		Preload("Section").
		Preload("Section.Course").
		Joins("JOIN course_sections ON course_sections.section_id = schedule_entries.section_id").
		Where("course_sections.instructor_id = ? AND schedule_entries.day_of_week = ? AND schedule_entries.is_active = ?", instructorID, dayOfWeek, true).
		Where("schedule_entries.start_time < ? AND schedule_entries.end_time > ?", endTime, startTime)
	if excludeEntryID != "" {
		q = q.Where("schedule_entries.entry_id <> ?", excludeEntryID)
	}
	var entry model.ScheduleEntry
	err := q.Order("schedule_entries.start_time ASC").First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// guardConflicts 在写入事务内复核两条非重叠不变量
func guardConflicts(tx *gorm.DB, entry *model.ScheduleEntry, excludeEntryID string) error {
	conflict, err := findRoomConflict(tx, entry.ClassroomID, entry.DayOfWeek, entry.StartTime, entry.EndTime, excludeEntryID)
	if err != nil {
		return err
	}
	if conflict != nil {
		return ErrRoomConflict
	}

	var section model.CourseSection
	if err := tx.Where("section_id = ?", entry.SectionID).First(&section).Error; err != nil {
		return err
	}
	if section.InstructorID != nil {
		conflict, err = findInstructorConflict(tx, *section.InstructorID, entry.DayOfWeek, entry.StartTime, entry.EndTime, excludeEntryID)
		if err != nil {
			return err
		}
		if conflict != nil {
			return ErrInstructorConflict
		}
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"campushub/backend/internal/model"
	"campushub/backend/internal/repository"
	apperrors "campushub/backend/pkg/errors"
)

// ── Mock ClassroomRepository ──

type mockClassroomRepo struct {
	rooms map[string]*model.Classroom
}

func newMockClassroomRepo() *mockClassroomRepo {
	return &mockClassroomRepo{rooms: make(map[string]*model.Classroom)}
}

func (m *mockClassroomRepo) GetByID(_ context.Context, id string) (*model.Classroom, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassroomRepo) ListActive(_ context.Context) ([]model.Classroom, error) {
	var result []model.Classroom
	for _, r := range m.rooms {
		if r.IsActive {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Capacity != b.Capacity {
			return a.Capacity < b.Capacity
		}
		if a.Building != b.Building {
			return a.Building < b.Building
		}
		if a.RoomNumber != b.RoomNumber {
			return a.RoomNumber < b.RoomNumber
		}
		return a.ClassroomID < b.ClassroomID
	})
	return result, nil
}

// ── Mock SectionRepository ──

type mockSectionRepo struct {
	sections map[string]*model.CourseSection
	entries  *mockScheduleEntryRepo
}

func newMockSectionRepo() *mockSectionRepo {
	return &mockSectionRepo{sections: make(map[string]*model.CourseSection)}
}

func (m *mockSectionRepo) GetByID(_ context.Context, id string) (*model.CourseSection, error) {
	if s, ok := m.sections[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSectionRepo) ListUnscheduled(_ context.Context, semester string, year int) ([]model.CourseSection, error) {
	var result []model.CourseSection
	for _, s := range m.sections {
		if !s.IsActive || s.Semester != semester || s.Year != year {
			continue
		}
		if m.entries != nil && m.entries.hasActiveEntry(s.SectionID) {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SectionID < result[j].SectionID
	})
	return result, nil
}

// ── Mock TermRepository ──

type mockTermRepo struct {
	terms map[string]*model.SemesterTerm
}

func newMockTermRepo() *mockTermRepo {
	return &mockTermRepo{terms: make(map[string]*model.SemesterTerm)}
}

func termKey(semester string, year int) string {
	return fmt.Sprintf("%s:%d", semester, year)
}

func (m *mockTermRepo) GetByTerm(_ context.Context, semester string, year int) (*model.SemesterTerm, error) {
	if t, ok := m.terms[termKey(semester, year)]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ScheduleEntryRepository ──
//
// 与真实实现一致：Create/Update 先复核教室与教师非重叠不变量，
// Update 带乐观锁版本检查。教师冲突需要教学班表，持有 sections 引用。

type mockScheduleEntryRepo struct {
	entries    map[string]*model.ScheduleEntry
	sections   *mockSectionRepo
	classrooms *mockClassroomRepo
	seq        int
}

// attachAssocs 模拟真实实现的 Preload
func (m *mockScheduleEntryRepo) attachAssocs(e *model.ScheduleEntry) {
	e.Section = m.sections.sections[e.SectionID]
	e.Classroom = m.classrooms.rooms[e.ClassroomID]
}

func newMockScheduleEntryRepo() *mockScheduleEntryRepo {
	return &mockScheduleEntryRepo{entries: make(map[string]*model.ScheduleEntry)}
}

func (m *mockScheduleEntryRepo) hasActiveEntry(sectionID string) bool {
	for _, e := range m.entries {
		if e.SectionID == sectionID && e.IsActive {
			return true
		}
	}
	return false
}

func (m *mockScheduleEntryRepo) GetByID(_ context.Context, id string) (*model.ScheduleEntry, error) {
	if e, ok := m.entries[id]; ok {
		// 与真实实现一致，返回独立副本而非内部指针
		cp := *e
		m.attachAssocs(&cp)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleEntryRepo) Create(ctx context.Context, entry *model.ScheduleEntry) error {
	if err := m.guard(ctx, entry, ""); err != nil {
		return err
	}
	if entry.EntryID == "" {
		m.seq++
		entry.EntryID = fmt.Sprintf("entry-%04d", m.seq)
	}
	if entry.Version == 0 {
		entry.Version = 1
	}
	m.entries[entry.EntryID] = entry
	return nil
}

func (m *mockScheduleEntryRepo) Update(ctx context.Context, entry *model.ScheduleEntry) error {
	if err := m.guard(ctx, entry, entry.EntryID); err != nil {
		return err
	}
	stored, ok := m.entries[entry.EntryID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != entry.Version {
		return apperrors.ErrOptimisticLock
	}
	stored.ClassroomID = entry.ClassroomID
	stored.DayOfWeek = entry.DayOfWeek
	stored.StartTime = entry.StartTime
	stored.EndTime = entry.EndTime
	stored.Version++
	entry.Version = stored.Version
	return nil
}

func (m *mockScheduleEntryRepo) Deactivate(_ context.Context, id string, _ string) error {
	e, ok := m.entries[id]
	if !ok || !e.IsActive {
		return gorm.ErrRecordNotFound
	}
	e.IsActive = false
	return nil
}

func (m *mockScheduleEntryRepo) ListBySection(_ context.Context, sectionID string) ([]model.ScheduleEntry, error) {
	var result []model.ScheduleEntry
	for _, e := range m.entries {
		if e.SectionID == sectionID && e.IsActive {
			cp := *e
			m.attachAssocs(&cp)
			result = append(result, cp)
		}
	}
	sortEntries(result)
	return result, nil
}

func (m *mockScheduleEntryRepo) ListByClassroom(_ context.Context, classroomID string, dayOfWeek *int) ([]model.ScheduleEntry, error) {
	var result []model.ScheduleEntry
	for _, e := range m.entries {
		if e.ClassroomID != classroomID || !e.IsActive {
			continue
		}
		if dayOfWeek != nil && e.DayOfWeek != *dayOfWeek {
			continue
		}
		cp := *e
		m.attachAssocs(&cp)
		result = append(result, cp)
	}
	sortEntries(result)
	return result, nil
}

func (m *mockScheduleEntryRepo) ListByInstructor(_ context.Context, instructorID string, dayOfWeek *int) ([]model.ScheduleEntry, error) {
	var result []model.ScheduleEntry
	for _, e := range m.entries {
		if !e.IsActive {
			continue
		}
		section := m.sections.sections[e.SectionID]
		if section == nil || section.InstructorID == nil || *section.InstructorID != instructorID {
			continue
		}
		if dayOfWeek != nil && e.DayOfWeek != *dayOfWeek {
			continue
		}
		cp := *e
		m.attachAssocs(&cp)
		result = append(result, cp)
	}
	sortEntries(result)
	return result, nil
}

func (m *mockScheduleEntryRepo) FindRoomConflict(_ context.Context, classroomID string, dayOfWeek int, startTime, endTime, excludeEntryID string) (*model.ScheduleEntry, error) {
	for _, e := range m.entries {
		if !e.IsActive || e.EntryID == excludeEntryID {
			continue
		}
		if e.ClassroomID == classroomID && e.DayOfWeek == dayOfWeek && e.StartTime < endTime && e.EndTime > startTime {
			return e, nil
		}
	}
	return nil, nil
}

func (m *mockScheduleEntryRepo) FindInstructorConflict(_ context.Context, instructorID string, dayOfWeek int, startTime, endTime, excludeEntryID string) (*model.ScheduleEntry, error) {
	for _, e := range m.entries {
		if !e.IsActive || e.EntryID == excludeEntryID {
			continue
		}
		section := m.sections.sections[e.SectionID]
		if section == nil || section.InstructorID == nil || *section.InstructorID != instructorID {
			continue
		}
		if e.DayOfWeek == dayOfWeek && e.StartTime < endTime && e.EndTime > startTime {
			return e, nil
		}
	}
	return nil, nil
}

func (m *mockScheduleEntryRepo) guard(ctx context.Context, entry *model.ScheduleEntry, excludeEntryID string) error {
	conflict, _ := m.FindRoomConflict(ctx, entry.ClassroomID, entry.DayOfWeek, entry.StartTime, entry.EndTime, excludeEntryID)
	if conflict != nil {
		return repository.ErrRoomConflict
	}
	section := m.sections.sections[entry.SectionID]
	if section != nil && section.InstructorID != nil {
		conflict, _ = m.FindInstructorConflict(ctx, *section.InstructorID, entry.DayOfWeek, entry.StartTime, entry.EndTime, excludeEntryID)
		if conflict != nil {
			return repository.ErrInstructorConflict
		}
	}
	return nil
}

func sortEntries(entries []model.ScheduleEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.EntryID < b.EntryID
	})
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	enrollments []model.Enrollment
	sections    *mockSectionRepo
}

func newMockEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{}
}

func (m *mockEnrollmentRepo) ListByStudentAndTerm(_ context.Context, studentID, semester string, year int) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, e := range m.enrollments {
		if e.StudentID != studentID || !e.IsActive {
			continue
		}
		section := m.sections.sections[e.SectionID]
		if section == nil || !section.IsActive || section.Semester != semester || section.Year != year {
			continue
		}
		e.Section = section
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SectionID < result[j].SectionID
	})
	return result, nil
}

// ── Mock ReservationRepository ──

type mockReservationRepo struct {
	reservations map[string]*model.RoomReservation
	seq          int
}

func newMockReservationRepo() *mockReservationRepo {
	return &mockReservationRepo{reservations: make(map[string]*model.RoomReservation)}
}

func (m *mockReservationRepo) GetByID(_ context.Context, id string) (*model.RoomReservation, error) {
	if r, ok := m.reservations[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReservationRepo) Create(ctx context.Context, reservation *model.RoomReservation) error {
	conflict, _ := m.FindConflict(ctx, reservation.ClassroomID, reservation.ReservedDate, reservation.StartTime, reservation.EndTime)
	if conflict != nil {
		return repository.ErrReservationConflict
	}
	if reservation.ReservationID == "" {
		m.seq++
		reservation.ReservationID = fmt.Sprintf("resv-%04d", m.seq)
	}
	m.reservations[reservation.ReservationID] = reservation
	return nil
}

func (m *mockReservationRepo) Deactivate(_ context.Context, id string, _ string) error {
	r, ok := m.reservations[id]
	if !ok || !r.IsActive {
		return gorm.ErrRecordNotFound
	}
	r.IsActive = false
	return nil
}

func (m *mockReservationRepo) ListByClassroomAndDate(_ context.Context, classroomID string, date time.Time) ([]model.RoomReservation, error) {
	var result []model.RoomReservation
	for _, r := range m.reservations {
		if r.ClassroomID == classroomID && r.IsActive && sameDate(r.ReservedDate, date) {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

func (m *mockReservationRepo) FindConflict(_ context.Context, classroomID string, date time.Time, startTime, endTime string) (*model.RoomReservation, error) {
	for _, r := range m.reservations {
		if !r.IsActive || r.ClassroomID != classroomID || !sameDate(r.ReservedDate, date) {
			continue
		}
		if r.StartTime < endTime && r.EndTime > startTime {
			return r, nil
		}
	}
	return nil, nil
}

func sameDate(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

// ── 聚合与种子数据 ──

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	classroom   *mockClassroomRepo
	section     *mockSectionRepo
	term        *mockTermRepo
	entry       *mockScheduleEntryRepo
	enrollment  *mockEnrollmentRepo
	reservation *mockReservationRepo
}

func newTestRepos() *testRepos {
	r := &testRepos{
		classroom:   newMockClassroomRepo(),
		section:     newMockSectionRepo(),
		term:        newMockTermRepo(),
		entry:       newMockScheduleEntryRepo(),
		enrollment:  newMockEnrollmentRepo(),
		reservation: newMockReservationRepo(),
	}
	r.section.entries = r.entry
	r.entry.sections = r.section
	r.entry.classrooms = r.classroom
	r.enrollment.sections = r.section
	return r
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		Classroom:     r.classroom,
		Section:       r.section,
		Term:          r.term,
		ScheduleEntry: r.entry,
		Enrollment:    r.enrollment,
		Reservation:   r.reservation,
	}
}

// seedFallTerm 2024 秋季学期：9月1日（周日）开学，12月20日结课
func seedFallTerm(repos *testRepos) {
	repos.term.terms[termKey("fall", 2024)] = &model.SemesterTerm{
		TermID:    "term-fall-2024",
		Name:      "fall",
		Year:      2024,
		StartDate: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC),
	}
}

func addRoom(repos *testRepos, id, building, number string, capacity int) *model.Classroom {
	room := &model.Classroom{
		ClassroomID: id,
		Building:    building,
		RoomNumber:  number,
		Capacity:    capacity,
		IsActive:    true,
	}
	repos.classroom.rooms[id] = room
	return room
}

func addSection(repos *testRepos, id, code, name, label string, capacity int, instructorID *string) *model.CourseSection {
	section := &model.CourseSection{
		SectionID:    id,
		CourseID:     "course-" + code,
		Label:        label,
		Semester:     "fall",
		Year:         2024,
		Capacity:     capacity,
		InstructorID: instructorID,
		IsActive:     true,
		Course: &model.Course{
			CourseID: "course-" + code,
			Code:     code,
			Name:     name,
		},
	}
	repos.section.sections[id] = section
	return section
}

func addEntry(repos *testRepos, id, sectionID, classroomID string, dayOfWeek int, start, end string) *model.ScheduleEntry {
	entry := &model.ScheduleEntry{
		EntryID:     id,
		SectionID:   sectionID,
		ClassroomID: classroomID,
		DayOfWeek:   dayOfWeek,
		StartTime:   start,
		EndTime:     end,
		IsActive:    true,
	}
	entry.Version = 1
	repos.entry.entries[id] = entry
	return entry
}

func strPtr(s string) *string { return &s }

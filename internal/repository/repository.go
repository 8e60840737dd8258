package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Classroom     ClassroomRepository
	Section       SectionRepository
	Term          TermRepository
	ScheduleEntry ScheduleEntryRepository
	Enrollment    EnrollmentRepository
	Reservation   ReservationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Classroom:     NewClassroomRepo(db),
		Section:       NewSectionRepo(db),
		Term:          NewTermRepo(db),
		ScheduleEntry: NewScheduleEntryRepo(db),
		Enrollment:    NewEnrollmentRepo(db),
		Reservation:   NewReservationRepo(db),
	}
}

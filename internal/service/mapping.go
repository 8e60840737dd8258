package service

import (
	"time"

	"campushub/backend/internal/dto"
	"campushub/backend/internal/model"
)

// ── 模型 → DTO 映射 ──

// normalizeClock 截取数据库 time 列回读值（"10:30:00"）为 "HH:MM"
func normalizeClock(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

func toClassroomBrief(room *model.Classroom) *dto.ClassroomBrief {
	if room == nil {
		return nil
	}
	return &dto.ClassroomBrief{
		ID:         room.ClassroomID,
		Building:   room.Building,
		RoomNumber: room.RoomNumber,
		Capacity:   room.Capacity,
	}
}

func toSectionBrief(section *model.CourseSection) *dto.SectionBrief {
	if section == nil {
		return nil
	}
	brief := &dto.SectionBrief{
		ID:           section.SectionID,
		Label:        section.Label,
		Semester:     section.Semester,
		Year:         section.Year,
		Capacity:     section.Capacity,
		InstructorID: section.InstructorID,
	}
	if section.Course != nil {
		brief.CourseCode = section.Course.Code
		brief.CourseName = section.Course.Name
	}
	return brief
}

func toScheduleEntryResponse(entry *model.ScheduleEntry) dto.ScheduleEntryResponse {
	return dto.ScheduleEntryResponse{
		ID:          entry.EntryID,
		SectionID:   entry.SectionID,
		Section:     toSectionBrief(entry.Section),
		ClassroomID: entry.ClassroomID,
		Classroom:   toClassroomBrief(entry.Classroom),
		DayOfWeek:   entry.DayOfWeek,
		StartTime:   normalizeClock(entry.StartTime),
		EndTime:     normalizeClock(entry.EndTime),
		Version:     entry.Version,
		CreatedAt:   entry.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   entry.UpdatedAt.Format(time.RFC3339),
	}
}

func toScheduleEntryResponses(entries []model.ScheduleEntry) []dto.ScheduleEntryResponse {
	out := make([]dto.ScheduleEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toScheduleEntryResponse(&entries[i]))
	}
	return out
}

func toReservationResponse(reservation *model.RoomReservation) dto.ReservationResponse {
	return dto.ReservationResponse{
		ID:           reservation.ReservationID,
		ClassroomID:  reservation.ClassroomID,
		Classroom:    toClassroomBrief(reservation.Classroom),
		ReservedDate: reservation.ReservedDate.Format("2006-01-02"),
		StartTime:    normalizeClock(reservation.StartTime),
		EndTime:      normalizeClock(reservation.EndTime),
		Purpose:      reservation.Purpose,
		CreatedAt:    reservation.CreatedAt.Format(time.RFC3339),
	}
}

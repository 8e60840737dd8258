package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campushub/backend/internal/model"
	"campushub/backend/internal/repository"
)

// ── 日历导出 ──
//
// iCalendar 导出把每周重复的排课条目展开为一个带 RRULE 的事件：
// DTSTART 取学期开始日当天或之后的第一个对应星期，
// UNTIL 取学期结束日，保证重复不会越过学期边界。

// CalendarService 课表导出接口（iCalendar 订阅 + Excel 总课表）
type CalendarService interface {
	// ExportSectionCalendar 导出单个教学班的 .ics，返回 (内容, 文件名)
	ExportSectionCalendar(ctx context.Context, sectionID string) ([]byte, string, error)
	// ExportStudentCalendar 导出学生个人学期课表的 .ics
	ExportStudentCalendar(ctx context.Context, studentID, semester string, year int) ([]byte, string, error)
	// ExportTimetableWorkbook 导出学期总课表 Excel（每教室一个工作表）
	ExportTimetableWorkbook(ctx context.Context, semester string, year int) ([]byte, string, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, logger: logger}
}

func (s *calendarService) ExportSectionCalendar(ctx context.Context, sectionID string) ([]byte, string, error) {
	section, err := s.repo.Section.GetByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrSectionNotFound
		}
		return nil, "", err
	}
	term, err := s.repo.Term.GetByTerm(ctx, section.Semester, section.Year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrTermNotFound
		}
		return nil, "", err
	}
	entries, err := s.repo.ScheduleEntry.ListBySection(ctx, sectionID)
	if err != nil {
		s.logger.Error("查询排课条目失败", zap.Error(err))
		return nil, "", err
	}

	cal := newCalendar()
	for i := range entries {
		addWeeklyEvent(cal, &entries[i], term)
	}

	filename := fmt.Sprintf("schedule_section_%s.ics", sectionID)
	return []byte(cal.Serialize()), filename, nil
}

func (s *calendarService) ExportStudentCalendar(ctx context.Context, studentID, semester string, year int) ([]byte, string, error) {
	term, err := s.repo.Term.GetByTerm(ctx, semester, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrTermNotFound
		}
		return nil, "", err
	}
	enrollments, err := s.repo.Enrollment.ListByStudentAndTerm(ctx, studentID, semester, year)
	if err != nil {
		s.logger.Error("查询选课记录失败", zap.Error(err))
		return nil, "", err
	}

	// 无选课时导出空日历，订阅端表现为空课表而非错误
	cal := newCalendar()
	for _, enrollment := range enrollments {
		entries, err := s.repo.ScheduleEntry.ListBySection(ctx, enrollment.SectionID)
		if err != nil {
			s.logger.Error("查询排课条目失败", zap.Error(err))
			return nil, "", err
		}
		for i := range entries {
			addWeeklyEvent(cal, &entries[i], term)
		}
	}

	filename := fmt.Sprintf("schedule_%s_%d_%s.ics", semester, year, studentID)
	return []byte(cal.Serialize()), filename, nil
}

func newCalendar() *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//CampusHub//Schedule//EN")
	return cal
}

// addWeeklyEvent 把一条排课条目转为学期内每周重复的日历事件
func addWeeklyEvent(cal *ics.Calendar, entry *model.ScheduleEntry, term *model.SemesterTerm) {
	firstDay := firstWeekdayOnOrAfter(term.StartDate, entry.DayOfWeek)

	event := cal.AddEvent(fmt.Sprintf("%s@campushub", entry.EntryID))
	event.SetDtStampTime(time.Now())
	event.SetStartAt(clockToTime(firstDay, normalizeClock(entry.StartTime)))
	event.SetEndAt(clockToTime(firstDay, normalizeClock(entry.EndTime)))
	event.SetSummary(entrySummary(entry))
	if entry.Classroom != nil {
		event.SetLocation(fmt.Sprintf("%s %s", entry.Classroom.Building, entry.Classroom.RoomNumber))
	}

	// UNTIL 必须是 UTC 时刻；取学期结束日末尾，包含结束日当天的课
	until := time.Date(term.EndDate.Year(), term.EndDate.Month(), term.EndDate.Day(), 23, 59, 59, 0, time.UTC)
	event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s;UNTIL=%s", icalByDay(entry.DayOfWeek), until.Format("20060102T150405Z")))
}

func entrySummary(entry *model.ScheduleEntry) string {
	if entry.Section != nil && entry.Section.Course != nil {
		return fmt.Sprintf("%s %s (%s)", entry.Section.Course.Code, entry.Section.Course.Name, entry.Section.Label)
	}
	if entry.Section != nil {
		return entry.Section.Label
	}
	return entry.SectionID
}

// icalByDay RRULE BYDAY 编码（1=周一 … 7=周日）
func icalByDay(dayOfWeek int) string {
	codes := []string{"", "MO", "TU", "WE", "TH", "FR", "SA", "SU"}
	if dayOfWeek >= 1 && dayOfWeek <= 7 {
		return codes[dayOfWeek]
	}
	return "MO"
}

// ── Excel 总课表 ──

func (s *calendarService) ExportTimetableWorkbook(ctx context.Context, semester string, year int) ([]byte, string, error) {
	if _, err := s.repo.Term.GetByTerm(ctx, semester, year); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrTermNotFound
		}
		return nil, "", err
	}
	rooms, err := s.repo.Classroom.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询可用教室失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	for i := range rooms {
		room := &rooms[i]
		entries, err := s.repo.ScheduleEntry.ListByClassroom(ctx, room.ClassroomID, nil)
		if err != nil {
			s.logger.Error("查询排课条目失败", zap.Error(err))
			return nil, "", err
		}
		if err := writeRoomSheet(f, room, filterByTerm(entries, semester, year)); err != nil {
			return nil, "", err
		}
	}

	// 删除默认工作表；全部教室为空时保留，避免产出非法的零表工作簿
	if len(rooms) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, "", err
		}
		f.SetActiveSheet(0)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成课表工作簿失败", zap.Error(err))
		return nil, "", err
	}
	filename := fmt.Sprintf("timetable_%s_%d.xlsx", semester, year)
	return buf.Bytes(), filename, nil
}

// filterByTerm 只保留指定学期教学班的条目
func filterByTerm(entries []model.ScheduleEntry, semester string, year int) []model.ScheduleEntry {
	out := entries[:0]
	for _, e := range entries {
		if e.Section != nil && e.Section.Semester == semester && e.Section.Year == year {
			out = append(out, e)
		}
	}
	return out
}

// writeRoomSheet 按固定课节 × 周一至周五的网格写入单个教室的周课表
func writeRoomSheet(f *excelize.File, room *model.Classroom, entries []model.ScheduleEntry) error {
	sheet := sheetName(room)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "F", 20); err != nil {
		return err
	}

	headers := []string{"时间", "周一", "周二", "周三", "周四", "周五"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for row, period := range classPeriods {
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, fmt.Sprintf("%s-%s", period.Start, period.End)); err != nil {
			return err
		}
		for day := 1; day <= 5; day++ {
			text := cellText(entries, day, period)
			if text == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(day+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, text); err != nil {
				return err
			}
		}
	}
	return nil
}

// cellText 该星期该课节的条目文本；课节外的手工条目不进入网格
func cellText(entries []model.ScheduleEntry, dayOfWeek int, period TimeInterval) string {
	for i := range entries {
		e := &entries[i]
		if e.DayOfWeek == dayOfWeek && normalizeClock(e.StartTime) == period.Start {
			return entrySummary(e)
		}
	}
	return ""
}

// sheetName Excel 工作表名限长 31 字符
func sheetName(room *model.Classroom) string {
	name := fmt.Sprintf("%s-%s", room.Building, room.RoomNumber)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

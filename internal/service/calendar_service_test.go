package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"campushub/backend/internal/model"
)

func setupCalendarService() (CalendarService, *testRepos) {
	repos := newTestRepos()
	svc := NewCalendarService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

// ════════════════════════════════════════════════════════════
// iCalendar 导出
// ════════════════════════════════════════════════════════════

func TestCalendarService_ExportSectionCalendar(t *testing.T) {
	svc, repos := setupCalendarService()
	seedFallTerm(repos)
	addRoom(repos, "room-1", "主楼", "101", 60)
	addSection(repos, "sec-1", "CS101", "程序设计", "A", 40, nil)
	addEntry(repos, "entry-1", "sec-1", "room-1", 1, "08:00", "09:30")

	data, filename, err := svc.ExportSectionCalendar(context.Background(), "sec-1")
	if err != nil {
		t.Fatalf("ExportSectionCalendar: %v", err)
	}
	if filename != "schedule_section_sec-1.ics" {
		t.Errorf("filename = %s", filename)
	}

	ical := string(data)
	checks := []string{
		"BEGIN:VCALENDAR",
		"METHOD:PUBLISH",
		"UID:entry-1@campushub",
		// 学期 9月1日（周日）开学，周一的课首次出现在 9月2日
		"DTSTART:20240902T080000Z",
		"DTEND:20240902T093000Z",
		"RRULE:FREQ=WEEKLY;BYDAY=MO;UNTIL=20241220T235959Z",
		"SUMMARY:CS101 程序设计 (A)",
		"LOCATION:主楼 101",
	}
	for _, want := range checks {
		if !strings.Contains(ical, want) {
			t.Errorf("导出缺少 %q\n%s", want, ical)
		}
	}
}

func TestCalendarService_ExportSectionCalendar_SectionNotFound(t *testing.T) {
	svc, repos := setupCalendarService()
	seedFallTerm(repos)

	_, _, err := svc.ExportSectionCalendar(context.Background(), "sec-missing")
	if !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("err = %v, want ErrSectionNotFound", err)
	}
}

func TestCalendarService_ExportStudentCalendar(t *testing.T) {
	svc, repos := setupCalendarService()
	seedFallTerm(repos)
	addRoom(repos, "room-1", "主楼", "101", 60)
	addSection(repos, "sec-1", "CS101", "程序设计", "A", 40, nil)
	addSection(repos, "sec-2", "MA201", "线性代数", "B", 40, nil)
	addEntry(repos, "entry-1", "sec-1", "room-1", 1, "08:00", "09:30")
	addEntry(repos, "entry-2", "sec-2", "room-1", 2, "09:40", "11:10")
	repos.enrollment.enrollments = []model.Enrollment{
		{EnrollmentID: "enr-1", StudentID: "stu-1", SectionID: "sec-1", IsActive: true},
	}

	data, _, err := svc.ExportStudentCalendar(context.Background(), "stu-1", "fall", 2024)
	if err != nil {
		t.Fatalf("ExportStudentCalendar: %v", err)
	}

	ical := string(data)
	if !strings.Contains(ical, "UID:entry-1@campushub") {
		t.Error("已选教学班的条目缺失")
	}
	if strings.Contains(ical, "UID:entry-2@campushub") {
		t.Error("未选教学班的条目不应出现")
	}
}

func TestCalendarService_ExportStudentCalendar_EmptySchedule(t *testing.T) {
	svc, repos := setupCalendarService()
	seedFallTerm(repos)

	data, _, err := svc.ExportStudentCalendar(context.Background(), "stu-none", "fall", 2024)
	if err != nil {
		t.Fatalf("无选课学生应导出空日历: %v", err)
	}
	ical := string(data)
	if !strings.Contains(ical, "BEGIN:VCALENDAR") || strings.Contains(ical, "BEGIN:VEVENT") {
		t.Errorf("应为不含事件的合法日历:\n%s", ical)
	}
}

// ════════════════════════════════════════════════════════════
// Excel 总课表
// ════════════════════════════════════════════════════════════

func TestCalendarService_ExportTimetableWorkbook(t *testing.T) {
	svc, repos := setupCalendarService()
	seedFallTerm(repos)
	addRoom(repos, "room-1", "主楼", "101", 60)
	addSection(repos, "sec-1", "CS101", "程序设计", "A", 40, nil)
	addEntry(repos, "entry-1", "sec-1", "room-1", 1, "08:00", "09:30")

	data, filename, err := svc.ExportTimetableWorkbook(context.Background(), "fall", 2024)
	if err != nil {
		t.Fatalf("ExportTimetableWorkbook: %v", err)
	}
	if filename != "timetable_fall_2024.xlsx" {
		t.Errorf("filename = %s", filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("产出的工作簿无法打开: %v", err)
	}
	defer f.Close()

	// 周一第一节（B2）应是该条目
	got, err := f.GetCellValue("主楼-101", "B2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "CS101 程序设计 (A)" {
		t.Errorf("B2 = %q", got)
	}

	// 行首是课节时间
	label, _ := f.GetCellValue("主楼-101", "A2")
	if label != "08:00-09:30" {
		t.Errorf("A2 = %q", label)
	}
}

func TestCalendarService_ExportTimetable_TermNotFound(t *testing.T) {
	svc, _ := setupCalendarService()

	_, _, err := svc.ExportTimetableWorkbook(context.Background(), "fall", 2024)
	if !errors.Is(err, ErrTermNotFound) {
		t.Errorf("err = %v, want ErrTermNotFound", err)
	}
}

package service

import (
	"errors"
	"fmt"
	"time"
)

// ── 时间模型 ──────────────────────────────────────────────
//
// 一天内的时间一律用定宽 "HH:MM" 字符串表示（数据库 time 列同构），
// 字典序比较即时间先后比较。区间为半开 [Start, End)：
// 前一节课 10:30 结束、后一节课 10:30 开始不算冲突。
// ─────────────────────────────────────────────────────────────

// ErrInvalidInterval 时间区间非法（格式错误或开始不早于结束）
var ErrInvalidInterval = errors.New("时间区间无效：需为 HH:MM 且开始时间早于结束时间")

// TimeInterval 一天内的半开时间区间
type TimeInterval struct {
	Start string // "HH:MM"
	End   string // "HH:MM"
}

// Overlaps 半开区间重叠判定
func (a TimeInterval) Overlaps(b TimeInterval) bool {
	return a.Start < b.End && b.Start < a.End
}

// ParseTimeInterval 校验并构造时间区间
func ParseTimeInterval(start, end string) (TimeInterval, error) {
	if !isValidClock(start) || !isValidClock(end) || start >= end {
		return TimeInterval{}, ErrInvalidInterval
	}
	return TimeInterval{Start: start, End: end}, nil
}

// isValidClock 校验 "HH:MM" 格式（00:00 – 23:59）
func isValidClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for i, c := range s {
		if i == 2 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return s[:2] < "24" && s[3:] < "60"
}

// clockToTime 将 "HH:MM" 叠加到日期上（保留日期的时区）
func clockToTime(date time.Time, clock string) time.Time {
	h := int(clock[0]-'0')*10 + int(clock[1]-'0')
	m := int(clock[3]-'0')*10 + int(clock[4]-'0')
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, date.Location())
}

// WeekSlot 每周重复的时间槽：(星期, 时间区间)
type WeekSlot struct {
	DayOfWeek int // 1=周一 … 7=周日
	TimeInterval
}

// ── 候选时间槽目录 ──
//
// 自动排课使用固定目录：周一至周五 × 五个标准课节。
// 目录对所有教学班一致，且生成顺序固定，保证运行结果可复现。

var classPeriods = []TimeInterval{
	{Start: "08:00", End: "09:30"},
	{Start: "09:40", End: "11:10"},
	{Start: "11:20", End: "12:50"},
	{Start: "14:00", End: "15:30"},
	{Start: "15:40", End: "17:10"},
}

// candidateWeekSlots 生成自动排课候选时间槽（仅教学日，不含周末）
func candidateWeekSlots() []WeekSlot {
	slots := make([]WeekSlot, 0, 5*len(classPeriods))
	for day := 1; day <= 5; day++ {
		for _, p := range classPeriods {
			slots = append(slots, WeekSlot{DayOfWeek: day, TimeInterval: p})
		}
	}
	return slots
}

// ── 星期与日期换算 ──

// isoWeekday 返回 ISO 星期（1=周一 … 7=周日）
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// firstWeekdayOnOrAfter 返回 start 当天或之后第一个指定星期的日期
func firstWeekdayOnOrAfter(start time.Time, dayOfWeek int) time.Time {
	offset := (dayOfWeek - isoWeekday(start) + 7) % 7
	return start.AddDate(0, 0, offset)
}

// weekdayName 星期中文名（1=周一 … 7=周日）
func weekdayName(dayOfWeek int) string {
	names := []string{"", "周一", "周二", "周三", "周四", "周五", "周六", "周日"}
	if dayOfWeek >= 1 && dayOfWeek <= 7 {
		return names[dayOfWeek]
	}
	return fmt.Sprintf("周%d", dayOfWeek)
}

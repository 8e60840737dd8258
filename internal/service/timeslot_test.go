package service

import (
	"errors"
	"testing"
	"time"
)

// ════════════════════════════════════════════════════════════
// 半开区间重叠判定
// ════════════════════════════════════════════════════════════

func TestTimeIntervalOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b TimeInterval
		want bool
	}{
		{"完全分离", TimeInterval{"08:00", "09:30"}, TimeInterval{"14:00", "15:30"}, false},
		{"首尾相接不算冲突", TimeInterval{"09:00", "10:30"}, TimeInterval{"10:30", "12:00"}, false},
		{"反向首尾相接", TimeInterval{"10:30", "12:00"}, TimeInterval{"09:00", "10:30"}, false},
		{"超出一分钟即冲突", TimeInterval{"09:00", "10:31"}, TimeInterval{"10:30", "12:00"}, true},
		{"部分重叠", TimeInterval{"09:00", "11:00"}, TimeInterval{"10:00", "12:00"}, true},
		{"完全包含", TimeInterval{"08:00", "12:00"}, TimeInterval{"09:00", "10:00"}, true},
		{"完全相同", TimeInterval{"09:00", "10:30"}, TimeInterval{"09:00", "10:30"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// 重叠判定必须对称
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestParseTimeInterval(t *testing.T) {
	if _, err := ParseTimeInterval("08:00", "09:30"); err != nil {
		t.Fatalf("合法区间不应报错: %v", err)
	}

	invalid := []struct {
		name       string
		start, end string
	}{
		{"开始等于结束", "09:00", "09:00"},
		{"开始晚于结束", "10:00", "09:00"},
		{"非定宽格式", "8:00", "09:30"},
		{"小时越界", "25:00", "26:00"},
		{"分钟越界", "10:70", "11:00"},
		{"缺少冒号", "0800", "09:30"},
		{"非数字", "ab:cd", "09:30"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTimeInterval(tt.start, tt.end)
			if !errors.Is(err, ErrInvalidInterval) {
				t.Errorf("ParseTimeInterval(%q, %q) err = %v, want ErrInvalidInterval", tt.start, tt.end, err)
			}
		})
	}
}

// ════════════════════════════════════════════════════════════
// 候选时间槽目录
// ════════════════════════════════════════════════════════════

func TestCandidateWeekSlots(t *testing.T) {
	slots := candidateWeekSlots()

	if len(slots) != 25 {
		t.Fatalf("候选槽数量 = %d, want 25", len(slots))
	}

	// 只含教学日
	for _, s := range slots {
		if s.DayOfWeek < 1 || s.DayOfWeek > 5 {
			t.Errorf("候选槽落在非教学日: %d", s.DayOfWeek)
		}
	}

	// 生成顺序固定：周一五节课在前，首槽为周一第一节
	if slots[0].DayOfWeek != 1 || slots[0].Start != "08:00" {
		t.Errorf("首槽 = %+v, want 周一 08:00", slots[0])
	}
	if slots[5].DayOfWeek != 2 {
		t.Errorf("第六槽应进入周二, got day %d", slots[5].DayOfWeek)
	}

	// 两次生成结果一致
	again := candidateWeekSlots()
	for i := range slots {
		if slots[i] != again[i] {
			t.Fatalf("候选槽目录不可复现: index %d", i)
		}
	}
}

// ════════════════════════════════════════════════════════════
// 星期与日期换算
// ════════════════════════════════════════════════════════════

func TestFirstWeekdayOnOrAfter(t *testing.T) {
	// 2024-09-01 是周日
	sunday := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		dayOfWeek int
		want      string
	}{
		{1, "2024-09-02"}, // 下一个周一
		{5, "2024-09-06"},
		{7, "2024-09-01"}, // 当天即周日
	}
	for _, tt := range tests {
		got := firstWeekdayOnOrAfter(sunday, tt.dayOfWeek).Format("2006-01-02")
		if got != tt.want {
			t.Errorf("firstWeekdayOnOrAfter(周日, %d) = %s, want %s", tt.dayOfWeek, got, tt.want)
		}
	}
}

func TestIsoWeekday(t *testing.T) {
	// 2024-09-02 周一 … 2024-09-08 周日
	for i := 0; i < 7; i++ {
		day := time.Date(2024, 9, 2+i, 0, 0, 0, 0, time.UTC)
		if got := isoWeekday(day); got != i+1 {
			t.Errorf("isoWeekday(%s) = %d, want %d", day.Format("2006-01-02"), got, i+1)
		}
	}
}

func TestClockToTime(t *testing.T) {
	date := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	got := clockToTime(date, "09:40")
	want := time.Date(2024, 9, 2, 9, 40, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("clockToTime = %v, want %v", got, want)
	}
}

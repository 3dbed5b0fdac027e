package dates

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want int
	}{
		{
			name: "same day different hours",
			a:    time.Date(2025, 3, 10, 0, 30, 0, 0, time.Local),
			b:    time.Date(2025, 3, 10, 23, 45, 0, 0, time.Local),
			want: 0,
		},
		{
			name: "consecutive days under 24h apart",
			a:    time.Date(2025, 3, 10, 23, 59, 0, 0, time.Local),
			b:    time.Date(2025, 3, 11, 0, 1, 0, 0, time.Local),
			want: 1,
		},
		{
			name: "month boundary",
			a:    time.Date(2025, 1, 31, 12, 0, 0, 0, time.Local),
			b:    time.Date(2025, 2, 1, 12, 0, 0, 0, time.Local),
			want: 1,
		},
		{
			name: "year boundary",
			a:    time.Date(2024, 12, 31, 8, 0, 0, 0, time.Local),
			b:    time.Date(2025, 1, 2, 8, 0, 0, 0, time.Local),
			want: 2,
		},
		{
			name: "leap day",
			a:    time.Date(2024, 2, 28, 10, 0, 0, 0, time.Local),
			b:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local),
			want: 2,
		},
		{
			name: "five day gap",
			a:    time.Date(2025, 6, 1, 14, 0, 0, 0, time.Local),
			b:    time.Date(2025, 6, 6, 2, 0, 0, 0, time.Local),
			want: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysBetween(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// Paris springs forward on 2025-03-30: that calendar day is 23 hours long.
	a := time.Date(2025, 3, 29, 22, 0, 0, 0, loc)
	b := time.Date(2025, 3, 30, 22, 0, 0, 0, loc)
	if got := DaysBetween(a, b); got != 1 {
		t.Errorf("DaysBetween across spring-forward = %d, want 1", got)
	}

	// Fall back on 2025-10-26: 25 hour day.
	a = time.Date(2025, 10, 25, 12, 0, 0, 0, loc)
	b = time.Date(2025, 10, 27, 12, 0, 0, 0, loc)
	if got := DaysBetween(a, b); got != 2 {
		t.Errorf("DaysBetween across fall-back = %d, want 2", got)
	}
}

func TestMidnight(t *testing.T) {
	in := time.Date(2025, 7, 4, 18, 33, 12, 999, time.Local)
	got := Midnight(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Errorf("Midnight left time components: %v", got)
	}
	if got.Year() != 2025 || got.Month() != time.July || got.Day() != 4 {
		t.Errorf("Midnight changed the date: %v", got)
	}
}

func TestParseClock(t *testing.T) {
	if m, err := ParseClock("09:30"); err != nil || m != 570 {
		t.Errorf("ParseClock(09:30) = %d, %v; want 570, nil", m, err)
	}
	if m, err := ParseClock("00:00"); err != nil || m != 0 {
		t.Errorf("ParseClock(00:00) = %d, %v; want 0, nil", m, err)
	}
	if _, err := ParseClock("25:00"); err == nil {
		t.Error("ParseClock(25:00) should fail")
	}
	if _, err := ParseClock("not-a-time"); err == nil {
		t.Error("ParseClock(not-a-time) should fail")
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(570); got != "09:30" {
		t.Errorf("FormatClock(570) = %s, want 09:30", got)
	}
	if got := FormatClock(0); got != "00:00" {
		t.Errorf("FormatClock(0) = %s, want 00:00", got)
	}
	if got := FormatClock(1140); got != "19:00" {
		t.Errorf("FormatClock(1140) = %s, want 19:00", got)
	}
}

func TestNextWeekday(t *testing.T) {
	// 2025-12-31 is a Wednesday (ISO weekday 3).
	now := time.Date(2025, 12, 31, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name       string
		isoWeekday int
		hour       int
		minute     int
		wantDay    int
		wantMonth  time.Month
	}{
		{"later today", 3, 15, 0, 31, time.December},
		{"today but time passed rolls a week", 3, 8, 0, 7, time.January},
		{"upcoming friday", 5, 9, 0, 2, time.January},
		{"sunday as iso 7", 7, 20, 0, 4, time.January},
		{"monday wraps around", 1, 7, 30, 5, time.January},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextWeekday(now, tt.isoWeekday, tt.hour, tt.minute)
			if got.Day() != tt.wantDay || got.Month() != tt.wantMonth {
				t.Errorf("NextWeekday = %v, want day %d month %v", got, tt.wantDay, tt.wantMonth)
			}
			if got.Hour() != tt.hour || got.Minute() != tt.minute {
				t.Errorf("NextWeekday time = %02d:%02d, want %02d:%02d", got.Hour(), got.Minute(), tt.hour, tt.minute)
			}
			if got.Before(now) {
				t.Errorf("NextWeekday produced a time in the past: %v", got)
			}
			if ISOWeekday(got) != tt.isoWeekday {
				t.Errorf("NextWeekday landed on ISO weekday %d, want %d", ISOWeekday(got), tt.isoWeekday)
			}
		})
	}
}

func TestISOWeekday(t *testing.T) {
	// 2025-12-28 is a Sunday.
	sunday := time.Date(2025, 12, 28, 0, 0, 0, 0, time.Local)
	if got := ISOWeekday(sunday); got != 7 {
		t.Errorf("ISOWeekday(sunday) = %d, want 7", got)
	}
	monday := sunday.AddDate(0, 0, 1)
	if got := ISOWeekday(monday); got != 1 {
		t.Errorf("ISOWeekday(monday) = %d, want 1", got)
	}
}

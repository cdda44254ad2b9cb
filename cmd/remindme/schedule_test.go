package main

import (
	"testing"
	"time"

	"github.com/amonks/remindme/task"
)

func TestParseSchedule(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 41, 27, 0, time.UTC)
	tests := []struct {
		name  string
		date  string
		clock string
		want  time.Time
	}{
		{name: "defaults to current minute", want: time.Date(2025, 6, 15, 9, 41, 0, 0, time.UTC)},
		{name: "date only", date: "01/02/2026", want: time.Date(2026, 2, 1, 9, 41, 0, 0, time.UTC)},
		{name: "twelve hour", date: "15/06/2025", clock: "03:00 PM", want: time.Date(2025, 6, 15, 15, 0, 0, 0, time.UTC)},
		{name: "lowercase short", clock: "7:05 am", want: time.Date(2025, 6, 15, 7, 5, 0, 0, time.UTC)},
		{name: "twenty four hour", clock: "19:30", want: time.Date(2025, 6, 15, 19, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSchedule(tt.date, tt.clock, now, time.UTC)
			if err != nil {
				t.Fatalf("parseSchedule: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("parseSchedule() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseScheduleRejectsBadInput(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 41, 0, 0, time.UTC)
	for _, input := range [][2]string{{"2025-06-15", ""}, {"31/02/2025", ""}, {"", "25:00"}, {"", "noon"}} {
		if _, err := parseSchedule(input[0], input[1], now, time.UTC); err == nil {
			t.Fatalf("expected error for %q %q", input[0], input[1])
		}
	}
}

func TestDescribeWhen(t *testing.T) {
	once := task.Task{Date: "15/06/2025", Time: "03:00 PM"}
	if got := describeWhen(once); got != "15/06/2025 03:00 PM" {
		t.Fatalf("describeWhen(once) = %q", got)
	}
	daily := task.Task{Date: "15/06/2025", Time: "07:05 AM", IsRepeated: true}
	if got := describeWhen(daily); got != "daily 07:05 AM" {
		t.Fatalf("describeWhen(daily) = %q", got)
	}
}

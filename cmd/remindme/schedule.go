package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/amonks/remindme/task"
)

var clockLayouts = []string{task.TimeLayout, "3:04 PM", "03:04PM", "3:04PM", "15:04"}

// parseSchedule combines a DD/MM/YYYY date and a clock time in loc.
// An empty date means today and an empty clock means the current minute.
func parseSchedule(date, clock string, now time.Time, loc *time.Location) (time.Time, error) {
	now = now.In(loc)
	year, month, day := now.Date()
	if date = strings.TrimSpace(date); date != "" {
		parsed, err := time.ParseInLocation(task.DateLayout, date, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: expected DD/MM/YYYY", date)
		}
		year, month, day = parsed.Date()
	}

	hour, minute := now.Hour(), now.Minute()
	if clock = strings.ToUpper(strings.TrimSpace(clock)); clock != "" {
		parsed, ok := parseClock(clock)
		if !ok {
			return time.Time{}, fmt.Errorf("invalid time %q: expected hh:mm AM/PM or HH:MM", clock)
		}
		hour, minute = parsed.Hour(), parsed.Minute()
	}

	return time.Date(year, month, day, hour, minute, 0, 0, loc), nil
}

func parseClock(value string) (time.Time, bool) {
	for _, layout := range clockLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// describeWhen renders when a task fires.
func describeWhen(t task.Task) string {
	if t.IsRepeated {
		return "daily " + t.Time
	}
	return t.Date + " " + t.Time
}

// Package task implements the reminder task store.
//
// The store owns the ordered list of tasks, writes the whole list through to
// a key-value store on every mutation, and keeps scheduled notifications in
// step with the tasks that own them:
//   - Create schedules a notification (when pinned or repeated) and adds the task
//   - Add stores an already-formed task
//   - Delete, ClearAll, ClearPast, ClearFuture cancel notifications of removed tasks
//   - TogglePin flips the pin flag without touching notifications
//   - Visible returns the filtered, searched, pinned-first view
package task

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the layout of Task.Date (DD/MM/YYYY).
	DateLayout = "02/01/2006"

	// TimeLayout is the layout of Task.Time (hh:mm AM/PM).
	TimeLayout = "03:04 PM"

	// FrequencyDaily is the only supported repeat frequency.
	FrequencyDaily = "daily"
)

// Task is a single reminder.
type Task struct {
	// ID is the creation time in Unix milliseconds.
	ID string `json:"id"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// IsPinned keeps the task visible regardless of its date.
	IsPinned bool `json:"isPinned"`

	// IsRepeated fires the reminder every day at Time.
	IsRepeated bool `json:"isRepeated"`

	// Date and Time together denote the scheduled instant.
	Date string `json:"date"`
	Time string `json:"time"`

	// RepeatedFrequency is "daily" when IsRepeated, nil otherwise.
	RepeatedFrequency *string `json:"repeatedFrequency"`

	// NotificationID is the handle of the live notification, if any.
	NotificationID *string `json:"notificationId"`
}

// Instant parses Date and Time together in loc.
func (t Task) Instant(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	instant, err := time.ParseInLocation(DateLayout+" "+TimeLayout, t.Date+" "+t.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q", ErrInvalidSchedule, t.Date, t.Time)
	}
	return instant, nil
}

// HasNotification reports whether the task holds a live notification handle.
func (t Task) HasNotification() bool {
	return t.NotificationID != nil && *t.NotificationID != ""
}

// Exempt reports whether the task is excluded from past/future filtering.
func (t Task) Exempt() bool {
	return t.IsPinned || t.IsRepeated
}

// FormatSchedule renders at into the Date and Time string forms.
func FormatSchedule(at time.Time) (date, clock string) {
	return at.Format(DateLayout), at.Format(TimeLayout)
}

// Frequency returns the repeat frequency value for isRepeated.
func Frequency(isRepeated bool) *string {
	if !isRepeated {
		return nil
	}
	frequency := FrequencyDaily
	return &frequency
}

package task

import (
	"context"
	"strings"
	"time"

	"github.com/amonks/remindme/internal/ids"
	"github.com/amonks/remindme/notify"
)

// ScheduleStatus describes what happened to a new task's notification.
type ScheduleStatus string

const (
	// ScheduleSkipped means the task is neither pinned nor repeated.
	ScheduleSkipped ScheduleStatus = "skipped"

	// ScheduleScheduled means a notification is live.
	ScheduleScheduled ScheduleStatus = "scheduled"

	// SchedulePermissionDenied means the user has not allowed notifications.
	SchedulePermissionDenied ScheduleStatus = "permission-denied"

	// ScheduleFailed means the scheduler rejected the request.
	ScheduleFailed ScheduleStatus = "failed"
)

// Draft is the user's input for a new task.
type Draft struct {
	Title       string
	Description string
	At          time.Time
	Pin         bool
	Repeat      bool
}

// CreateResult is the outcome of Create.
type CreateResult struct {
	Task     Task
	Schedule ScheduleStatus

	// ScheduleErr holds the scheduler error when Schedule is ScheduleFailed.
	ScheduleErr error
}

// Create schedules a notification for the draft when it is pinned or
// repeated, then adds the task. Scheduling problems never prevent the task
// from being created; they are reported through CreateResult.Schedule.
func (s *Store) Create(ctx context.Context, draft Draft) (*CreateResult, error) {
	title := strings.TrimSpace(draft.Title)
	description := strings.TrimSpace(draft.Description)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if description == "" {
		return nil, ErrEmptyDescription
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	at := draft.At
	if at.IsZero() {
		at = s.now()
	}
	at = at.In(s.loc)
	at = time.Date(at.Year(), at.Month(), at.Day(), at.Hour(), at.Minute(), 0, 0, s.loc)
	date, clock := FormatSchedule(at)

	result := &CreateResult{Schedule: ScheduleSkipped}
	var notificationID *string
	if draft.Pin || draft.Repeat {
		handle, status, err := s.scheduleReminder(ctx, title, description, at, draft.Pin, draft.Repeat)
		result.Schedule = status
		result.ScheduleErr = err
		if status == ScheduleScheduled {
			notificationID = &handle
		}
	}

	t := Task{
		ID:                ids.NextMillis(s.now(), func(id string) bool { return s.indexLocked(id) >= 0 }),
		Title:             title,
		Description:       description,
		IsPinned:          draft.Pin,
		IsRepeated:        draft.Repeat,
		Date:              date,
		Time:              clock,
		RepeatedFrequency: Frequency(draft.Repeat),
		NotificationID:    notificationID,
	}
	if err := s.addLocked(t); err != nil {
		s.cancelNotification(ctx, t)
		return nil, err
	}

	result.Task = t
	return result, nil
}

// scheduleReminder requests permission and schedules the notification.
// Repeating reminders use a daily trigger at the hour and minute of at;
// others fire once at at.
func (s *Store) scheduleReminder(ctx context.Context, title, body string, at time.Time, pin, repeat bool) (string, ScheduleStatus, error) {
	permission, err := s.scheduler.RequestPermission(ctx)
	if err != nil {
		s.logger.Printf("request notification permission: %v", err)
		return "", ScheduleFailed, err
	}
	if permission != notify.PermissionGranted {
		return "", SchedulePermissionDenied, nil
	}

	trigger := notify.Once(at)
	if repeat {
		trigger = notify.Daily(at.Hour(), at.Minute())
	}
	content := notify.Content{
		Title:   title,
		Body:    body,
		Sound:   notify.DefaultSound,
		Sticky:  pin,
		Channel: notify.ChannelID,
	}

	handle, err := s.scheduler.Schedule(ctx, content, trigger)
	if err != nil {
		s.logger.Printf("schedule notification for %q: %v", title, err)
		return "", ScheduleFailed, err
	}
	if handle == "" {
		return "", ScheduleFailed, nil
	}
	return handle, ScheduleScheduled, nil
}

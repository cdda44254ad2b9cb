// Package notify schedules local reminder notifications.
//
// A Scheduler accepts a notification (content plus trigger) and returns an
// opaque handle that can later be used to cancel it. Only two triggers
// exist: a one-shot trigger at an exact instant and a daily trigger at a
// fixed wall-clock hour and minute.
package notify

import (
	"errors"
	"fmt"
	"time"
)

// TriggerKind identifies how a notification fires.
type TriggerKind string

const (
	// TriggerOnce fires a single time at Trigger.At.
	TriggerOnce TriggerKind = "once"

	// TriggerDaily fires every day at Trigger.Hour:Trigger.Minute local time.
	TriggerDaily TriggerKind = "daily"
)

// ErrInvalidTrigger is returned when a trigger cannot be scheduled.
var ErrInvalidTrigger = errors.New("invalid trigger")

// Trigger describes when a notification fires.
type Trigger struct {
	Kind   TriggerKind `json:"kind"`
	Hour   int         `json:"hour,omitempty"`
	Minute int         `json:"minute,omitempty"`
	At     time.Time   `json:"at,omitempty"`
}

// Daily returns a trigger that repeats every day at hour:minute.
func Daily(hour, minute int) Trigger {
	return Trigger{Kind: TriggerDaily, Hour: hour, Minute: minute}
}

// Once returns a trigger that fires a single time at at.
func Once(at time.Time) Trigger {
	return Trigger{Kind: TriggerOnce, At: at}
}

// Validate checks that the trigger is well formed.
func (t Trigger) Validate() error {
	switch t.Kind {
	case TriggerDaily:
		if t.Hour < 0 || t.Hour > 23 {
			return fmt.Errorf("%w: hour %d out of range", ErrInvalidTrigger, t.Hour)
		}
		if t.Minute < 0 || t.Minute > 59 {
			return fmt.Errorf("%w: minute %d out of range", ErrInvalidTrigger, t.Minute)
		}
		return nil
	case TriggerOnce:
		if t.At.IsZero() {
			return fmt.Errorf("%w: once trigger requires a time", ErrInvalidTrigger)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTrigger, t.Kind)
	}
}

// Next returns the first fire time strictly after after. The boolean is
// false when the trigger never fires again.
func (t Trigger) Next(after time.Time) (time.Time, bool) {
	switch t.Kind {
	case TriggerDaily:
		loc := after.Location()
		candidate := time.Date(after.Year(), after.Month(), after.Day(), t.Hour, t.Minute, 0, 0, loc)
		if !candidate.After(after) {
			candidate = time.Date(after.Year(), after.Month(), after.Day()+1, t.Hour, t.Minute, 0, 0, loc)
		}
		return candidate, true
	case TriggerOnce:
		if t.At.After(after) {
			return t.At, true
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// String renders the trigger for display.
func (t Trigger) String() string {
	switch t.Kind {
	case TriggerDaily:
		return fmt.Sprintf("daily at %02d:%02d", t.Hour, t.Minute)
	case TriggerOnce:
		return "once at " + t.At.Format("2006-01-02 15:04")
	default:
		return string(t.Kind)
	}
}

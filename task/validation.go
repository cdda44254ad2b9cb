package task

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyTitle is returned when a task title is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyDescription is returned when a task description is empty.
	ErrEmptyDescription = errors.New("description cannot be empty")

	// ErrEmptyID is returned when adding a task without an ID.
	ErrEmptyID = errors.New("task id cannot be empty")

	// ErrDuplicateID is returned when adding a task whose ID already exists.
	ErrDuplicateID = errors.New("task id already exists")

	// ErrInvalidSchedule is returned when Date and Time don't parse.
	ErrInvalidSchedule = errors.New("invalid task date or time")

	// ErrInconsistentRepeat is returned when RepeatedFrequency disagrees with IsRepeated.
	ErrInconsistentRepeat = errors.New("repeated frequency must be set exactly when the task repeats")

	// ErrTaskNotFound is returned when looking up a task that doesn't exist.
	ErrTaskNotFound = errors.New("task not found")
)

// ValidateTask checks that a task is fully formed.
func ValidateTask(t Task) error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if _, err := t.Instant(nil); err != nil {
		return err
	}
	if t.IsRepeated {
		if t.RepeatedFrequency == nil || *t.RepeatedFrequency != FrequencyDaily {
			return ErrInconsistentRepeat
		}
	} else if t.RepeatedFrequency != nil {
		return fmt.Errorf("%w: %q on a non-repeating task", ErrInconsistentRepeat, *t.RepeatedFrequency)
	}
	return nil
}

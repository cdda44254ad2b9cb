package task

import (
	"context"
	"fmt"
	"time"
)

// Add appends a fully formed task and persists the list.
// The task's NotificationID must already reflect the scheduling outcome.
func (s *Store) Add(t Task) error {
	if err := ValidateTask(t); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(t)
}

func (s *Store) addLocked(t Task) error {
	if s.indexLocked(t.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
	}
	next := make([]Task, 0, len(s.tasks)+1)
	next = append(next, s.tasks...)
	next = append(next, t)
	return s.persistLocked(next)
}

// Delete cancels the task's notification, if any, and removes the task.
// Deleting an unknown ID is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil
	}
	s.cancelNotification(ctx, s.tasks[i])

	next := make([]Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	if err := s.persistLocked(next); err != nil {
		s.forgetHandlesLocked(s.tasks[i : i+1])
		return err
	}
	return nil
}

// TogglePin flips IsPinned. The task's notification is left untouched.
// Toggling an unknown ID is a no-op.
func (s *Store) TogglePin(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil
	}

	next := append([]Task(nil), s.tasks...)
	next[i].IsPinned = !next[i].IsPinned
	return s.persistLocked(next)
}

// ClearAll cancels every notification and removes every task.
func (s *Store) ClearAll(ctx context.Context) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := append([]Task(nil), s.tasks...)
	for _, t := range removed {
		s.cancelNotification(ctx, t)
	}
	if err := s.persistLocked([]Task{}); err != nil {
		s.forgetHandlesLocked(removed)
		return nil, err
	}
	return removed, nil
}

// ClearPast removes tasks that are neither pinned nor repeated and whose
// instant is strictly before now.
func (s *Store) ClearPast(ctx context.Context) ([]Task, error) {
	return s.clearWhere(ctx, func(instant, now time.Time) bool {
		return instant.Before(now)
	})
}

// ClearFuture removes tasks that are neither pinned nor repeated and whose
// instant is strictly after now.
func (s *Store) ClearFuture(ctx context.Context) ([]Task, error) {
	return s.clearWhere(ctx, func(instant, now time.Time) bool {
		return instant.After(now)
	})
}

func (s *Store) clearWhere(ctx context.Context, remove func(instant, now time.Time) bool) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	kept := make([]Task, 0, len(s.tasks))
	var removed []Task
	for _, t := range s.tasks {
		if t.Exempt() {
			kept = append(kept, t)
			continue
		}
		instant, err := t.Instant(s.loc)
		if err != nil || !remove(instant, now) {
			kept = append(kept, t)
			continue
		}
		removed = append(removed, t)
	}

	for _, t := range removed {
		s.cancelNotification(ctx, t)
	}
	if err := s.persistLocked(kept); err != nil {
		s.forgetHandlesLocked(removed)
		return nil, err
	}
	return removed, nil
}

// forgetHandlesLocked clears the notification ids of tasks whose removal
// failed to persist after their notifications were cancelled. The tasks
// stay in the list. If that write fails too, memory is updated anyway.
func (s *Store) forgetHandlesLocked(removed []Task) {
	cancelled := make(map[string]bool, len(removed))
	for _, t := range removed {
		if t.HasNotification() {
			cancelled[t.ID] = true
		}
	}
	if len(cancelled) == 0 {
		return
	}

	next := append([]Task(nil), s.tasks...)
	for i := range next {
		if cancelled[next[i].ID] {
			next[i].NotificationID = nil
		}
	}
	if err := s.persistLocked(next); err != nil {
		s.logger.Printf("forget cancelled notifications: %v", err)
		s.tasks = next
	}
}

// cancelNotification cancels t's notification on a best-effort basis.
// Failures are logged and never returned.
func (s *Store) cancelNotification(ctx context.Context, t Task) {
	if !t.HasNotification() {
		return
	}
	if err := s.scheduler.Cancel(ctx, *t.NotificationID); err != nil {
		s.logger.Printf("cancel notification %s for task %s: %v", *t.NotificationID, t.ID, err)
	}
}

package task

import (
	"sort"
	"time"

	internalstrings "github.com/amonks/remindme/internal/strings"
)

// ListOptions configures the derived task view.
type ListOptions struct {
	// Search keeps tasks whose title starts with the phrase, ignoring case.
	Search string

	// IncludePast keeps tasks whose instant has passed.
	IncludePast bool
}

// Visible returns the tasks to show, pinned first.
func (s *Store) Visible(opts ListOptions) []Task {
	s.mu.Lock()
	tasks := append([]Task(nil), s.tasks...)
	s.mu.Unlock()

	return FilterVisible(tasks, s.now(), s.loc, opts)
}

// FilterVisible drops tasks that are neither pinned nor repeated and whose
// instant is before now, applies the search phrase, and stably sorts pinned
// tasks first.
func FilterVisible(tasks []Task, now time.Time, loc *time.Location, opts ListOptions) []Task {
	phrase := internalstrings.NormalizeLowerTrimSpace(opts.Search)

	visible := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !opts.IncludePast && !t.Exempt() {
			instant, err := t.Instant(loc)
			if err == nil && instant.Before(now) {
				continue
			}
		}
		if phrase != "" && !internalstrings.HasFoldedPrefix(t.Title, phrase) {
			continue
		}
		visible = append(visible, t)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].IsPinned && !visible[j].IsPinned
	})
	return visible
}

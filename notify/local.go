package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/amonks/remindme/internal/ids"
	"github.com/amonks/remindme/internal/kv"
)

const (
	// EntriesKey is the store key holding scheduled notifications.
	EntriesKey = "scheduled-notifications"

	// PermissionKey is the store key holding the permission decision.
	PermissionKey = "notification-permission"

	permissionPrompt = "Allow remindme to schedule reminder notifications?"
)

// Entry is a notification held by the local scheduler.
type Entry struct {
	Handle    string    `json:"handle"`
	Content   Content   `json:"content"`
	Trigger   Trigger   `json:"trigger"`
	CreatedAt time.Time `json:"createdAt"`
}

// PendingEntry pairs an entry with its next fire time.
type PendingEntry struct {
	Entry
	NextFire time.Time
}

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(message string) (bool, error)
}

// LocalOptions configures a LocalScheduler.
type LocalOptions struct {
	// Prompter asks for permission when no decision is stored.
	// If nil, permission is denied unless AutoGrant is set.
	Prompter Prompter

	// AutoGrant grants permission without asking.
	AutoGrant bool

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// LocalScheduler keeps scheduled notifications in a key-value store.
type LocalScheduler struct {
	store     kv.Store
	prompter  Prompter
	autoGrant bool
	now       func() time.Time

	mu sync.Mutex
}

// NewLocalScheduler creates a scheduler persisting to store.
func NewLocalScheduler(store kv.Store, opts LocalOptions) *LocalScheduler {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &LocalScheduler{
		store:     store,
		prompter:  opts.Prompter,
		autoGrant: opts.AutoGrant,
		now:       now,
	}
}

// RequestPermission returns the stored decision or asks for one.
func (s *LocalScheduler) RequestPermission(ctx context.Context) (Permission, error) {
	if err := ctx.Err(); err != nil {
		return PermissionDenied, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok, err := s.permission()
	if err != nil {
		return PermissionDenied, err
	}
	if ok {
		return stored, nil
	}

	decision := PermissionDenied
	switch {
	case s.autoGrant:
		decision = PermissionGranted
	case s.prompter != nil:
		allowed, err := s.prompter.Confirm(permissionPrompt)
		if err != nil {
			return PermissionDenied, fmt.Errorf("prompt: %w", err)
		}
		if allowed {
			decision = PermissionGranted
		}
	default:
		return PermissionDenied, nil
	}

	if err := s.store.Set(PermissionKey, []byte(decision)); err != nil {
		return PermissionDenied, fmt.Errorf("save permission: %w", err)
	}
	return decision, nil
}

// SetPermission records a permission decision.
func (s *LocalScheduler) SetPermission(permission Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch permission {
	case PermissionGranted, PermissionDenied:
	default:
		return fmt.Errorf("invalid permission %q", permission)
	}
	return s.store.Set(PermissionKey, []byte(permission))
}

// ResetPermission forgets the stored decision so the next request asks again.
func (s *LocalScheduler) ResetPermission() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Remove(PermissionKey)
}

// Schedule stores a notification and returns its handle.
func (s *LocalScheduler) Schedule(ctx context.Context, content Content, trigger Trigger) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := trigger.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	permission, ok, err := s.permission()
	if err != nil {
		return "", err
	}
	if !ok || permission != PermissionGranted {
		return "", ErrPermissionDenied
	}

	now := s.now()
	// A once trigger that has already passed fires immediately.
	if _, fires := trigger.Next(now); !fires && trigger.Kind == TriggerOnce {
		trigger = Once(now)
	}

	entries, err := s.entries()
	if err != nil {
		return "", err
	}

	handle := uniqueHandle(ids.Handle(content.Title+"\n"+content.Body, now), entries)
	entries = append(entries, Entry{
		Handle:    handle,
		Content:   content,
		Trigger:   trigger,
		CreatedAt: now,
	})
	if err := s.writeEntries(entries); err != nil {
		return "", err
	}
	return handle, nil
}

// Cancel removes the notification with the given handle.
func (s *LocalScheduler) Cancel(ctx context.Context, handle string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.entries()
	if err != nil {
		return err
	}

	kept := entries[:0]
	found := false
	for _, entry := range entries {
		if entry.Handle == handle {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, handle)
	}
	return s.writeEntries(kept)
}

// Pending returns notifications that will still fire, soonest first.
func (s *LocalScheduler) Pending() ([]PendingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.entries()
	if err != nil {
		return nil, err
	}

	now := s.now()
	pending := make([]PendingEntry, 0, len(entries))
	for _, entry := range entries {
		next, ok := entry.Trigger.Next(now)
		if !ok {
			continue
		}
		pending = append(pending, PendingEntry{Entry: entry, NextFire: next})
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].NextFire.Before(pending[j].NextFire)
	})
	return pending, nil
}

// Due returns notifications that fired in the window (since, now].
func (s *LocalScheduler) Due(since time.Time) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.entries()
	if err != nil {
		return nil, err
	}

	now := s.now()
	var due []Entry
	for _, entry := range entries {
		next, ok := entry.Trigger.Next(since)
		if ok && !next.After(now) {
			due = append(due, entry)
		}
	}
	return due, nil
}

func (s *LocalScheduler) permission() (Permission, bool, error) {
	data, ok, err := s.store.Get(PermissionKey)
	if err != nil {
		return PermissionDenied, false, fmt.Errorf("read permission: %w", err)
	}
	if !ok {
		return PermissionDenied, false, nil
	}
	return Permission(data), true, nil
}

func (s *LocalScheduler) entries() ([]Entry, error) {
	data, ok, err := s.store.Get(EntriesKey)
	if err != nil {
		return nil, fmt.Errorf("read notifications: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse notifications: %w", err)
	}
	return entries, nil
}

func (s *LocalScheduler) writeEntries(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode notifications: %w", err)
	}
	if err := s.store.Set(EntriesKey, data); err != nil {
		return fmt.Errorf("write notifications: %w", err)
	}
	return nil
}

func uniqueHandle(base string, entries []Entry) string {
	taken := make(map[string]bool, len(entries))
	for _, entry := range entries {
		taken[entry.Handle] = true
	}
	handle := base
	for suffix := 2; taken[handle]; suffix++ {
		handle = base + "-" + strconv.Itoa(suffix)
	}
	return handle
}

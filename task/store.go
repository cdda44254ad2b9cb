package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/amonks/remindme/internal/kv"
	"github.com/amonks/remindme/notify"
)

// StorageKey is the key the task list is persisted under.
const StorageKey = "task-storage"

// OpenOptions configures how the store is opened.
type OpenOptions struct {
	// Scheduler schedules and cancels notifications. Required.
	Scheduler notify.Scheduler

	// Logger receives best-effort failures. Defaults to stderr.
	Logger *log.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Location is used to interpret task dates. Defaults to time.Local.
	Location *time.Location
}

// Store is the authoritative, persisted list of tasks.
// All operations are serialized; each one finishes its persistence write
// before returning.
type Store struct {
	kv        kv.Store
	scheduler notify.Scheduler
	logger    *log.Logger
	now       func() time.Time
	loc       *time.Location

	mu    sync.Mutex
	tasks []Task
}

// persistedEnvelope is the shape written by older clients, which wrapped the
// list as {"state":{"tasks":[...]},"version":0}.
type persistedEnvelope struct {
	State struct {
		Tasks []Task `json:"tasks"`
	} `json:"state"`
}

// Open hydrates a store from kv. A missing key yields an empty store.
func Open(store kv.Store, opts OpenOptions) (*Store, error) {
	if store == nil {
		return nil, fmt.Errorf("key-value store is required")
	}
	if opts.Scheduler == nil {
		return nil, fmt.Errorf("notification scheduler is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "task: ", log.LstdFlags)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	tasks, err := readTasks(store)
	if err != nil {
		return nil, err
	}

	return &Store{
		kv:        store,
		scheduler: opts.Scheduler,
		logger:    logger,
		now:       now,
		loc:       loc,
		tasks:     tasks,
	}, nil
}

func readTasks(store kv.Store) ([]Task, error) {
	data, ok, err := store.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	data = bytes.TrimSpace(data)
	if !ok || len(data) == 0 {
		return []Task{}, nil
	}

	if data[0] == '{' {
		var envelope persistedEnvelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, fmt.Errorf("parse tasks: %w", err)
		}
		if envelope.State.Tasks == nil {
			return []Task{}, nil
		}
		return envelope.State.Tasks, nil
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// persistLocked writes next to the key-value store and, only once that
// succeeds, makes it the in-memory state. Callers must hold s.mu.
func (s *Store) persistLocked(next []Task) error {
	if next == nil {
		next = []Task{}
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.kv.Set(StorageKey, data); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	s.tasks = next
	return nil
}

func (s *Store) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// All returns a copy of every task in insertion order.
func (s *Store) All() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Task(nil), s.tasks...)
}

// Find returns the task with the given ID.
func (s *Store) Find(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.tasks[i], nil
	}
	return Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

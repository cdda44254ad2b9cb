package task

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/amonks/remindme/internal/kv"
	"github.com/amonks/remindme/notify"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type scheduleCall struct {
	content notify.Content
	trigger notify.Trigger
}

// fakeScheduler records calls and can be told to fail.
type fakeScheduler struct {
	permission    notify.Permission
	permissionErr error
	scheduleErr   error
	cancelErr     error

	permissionRequests int
	scheduled          []scheduleCall
	cancelled          []string
	next               int
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{permission: notify.PermissionGranted}
}

func (f *fakeScheduler) RequestPermission(context.Context) (notify.Permission, error) {
	f.permissionRequests++
	return f.permission, f.permissionErr
}

func (f *fakeScheduler) Schedule(_ context.Context, content notify.Content, trigger notify.Trigger) (string, error) {
	if f.scheduleErr != nil {
		return "", f.scheduleErr
	}
	f.next++
	f.scheduled = append(f.scheduled, scheduleCall{content: content, trigger: trigger})
	return fmt.Sprintf("handle-%d", f.next), nil
}

func (f *fakeScheduler) Cancel(_ context.Context, handle string) error {
	f.cancelled = append(f.cancelled, handle)
	return f.cancelErr
}

// failingKV wraps a store and fails writes on demand.
type failingKV struct {
	kv.Store
	failSet bool
}

var errDiskFull = errors.New("disk full")

func (f *failingKV) Set(key string, value []byte) error {
	if f.failSet {
		return errDiskFull
	}
	return f.Store.Set(key, value)
}

type testEnv struct {
	store     *Store
	kv        *failingKV
	scheduler *fakeScheduler
	logs      *bytes.Buffer
	now       time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		kv:        &failingKV{Store: kv.NewMemoryStore()},
		scheduler: newFakeScheduler(),
		logs:      &bytes.Buffer{},
		now:       testNow,
	}
	env.store = env.open(t)
	return env
}

func (env *testEnv) open(t *testing.T) *Store {
	t.Helper()
	store, err := Open(env.kv, OpenOptions{
		Scheduler: env.scheduler,
		Logger:    log.New(env.logs, "", 0),
		Now:       func() time.Time { return env.now },
		Location:  time.UTC,
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return store
}

func handle(value string) *string {
	return &value
}

// makeTask builds a valid task scheduled at the given offset from testNow.
func makeTask(id string, offset time.Duration) Task {
	date, clock := FormatSchedule(testNow.Add(offset))
	return Task{
		ID:          id,
		Title:       "task " + id,
		Description: "description " + id,
		Date:        date,
		Time:        clock,
	}
}

func pinned(t Task) Task {
	t.IsPinned = true
	return t
}

func repeated(t Task) Task {
	t.IsRepeated = true
	t.RepeatedFrequency = Frequency(true)
	return t
}

func withNotification(t Task, id string) Task {
	t.NotificationID = handle(id)
	return t
}

func taskIDs(tasks []Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func mustAdd(t *testing.T, store *Store, tasks ...Task) {
	t.Helper()
	for _, task := range tasks {
		if err := store.Add(task); err != nil {
			t.Fatalf("add %s: %v", task.ID, err)
		}
	}
}

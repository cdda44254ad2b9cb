package task

import (
	"reflect"
	"testing"
	"time"
)

func TestVisibleHidesPastAndSortsPinnedFirst(t *testing.T) {
	env := newTestEnv(t)
	mustAdd(t, env.store,
		makeTask("future-a", time.Hour),
		makeTask("past", -time.Hour),
		pinned(makeTask("pinned-past", -time.Hour)),
		makeTask("future-b", 2*time.Hour),
		repeated(makeTask("repeat-past", -time.Hour)),
		pinned(makeTask("pinned-future", time.Hour)),
	)

	got := taskIDs(env.store.Visible(ListOptions{}))
	want := []string{"pinned-past", "pinned-future", "future-a", "future-b", "repeat-past"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("visible = %v, want %v", got, want)
	}
}

func TestVisibleIncludePast(t *testing.T) {
	env := newTestEnv(t)
	mustAdd(t, env.store, makeTask("past", -time.Hour), makeTask("future", time.Hour))

	got := taskIDs(env.store.Visible(ListOptions{IncludePast: true}))
	if !reflect.DeepEqual(got, []string{"past", "future"}) {
		t.Fatalf("visible = %v", got)
	}
}

func TestVisibleSearchIsCaseInsensitivePrefix(t *testing.T) {
	env := newTestEnv(t)
	groceries := makeTask("1", time.Hour)
	groceries.Title = "Groceries"
	gym := makeTask("2", time.Hour)
	gym.Title = "gym session"
	bigGym := makeTask("3", time.Hour)
	bigGym.Title = "Big gym day"
	mustAdd(t, env.store, groceries, gym, bigGym)

	tests := []struct {
		search string
		want   []string
	}{
		{search: "", want: []string{"1", "2", "3"}},
		{search: "G", want: []string{"1", "2"}},
		{search: "  GYM ", want: []string{"2"}},
		{search: "day", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			got := taskIDs(env.store.Visible(ListOptions{Search: tt.search}))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("search %q = %v, want %v", tt.search, got, tt.want)
			}
		})
	}
}

func TestFilterVisibleKeepsUnparsableTasks(t *testing.T) {
	odd := Task{ID: "odd", Title: "Odd", Description: "d", Date: "soon", Time: "later"}

	got := FilterVisible([]Task{odd}, testNow, time.UTC, ListOptions{})
	if len(got) != 1 {
		t.Fatalf("expected unparsable task to stay visible, got %v", taskIDs(got))
	}
}

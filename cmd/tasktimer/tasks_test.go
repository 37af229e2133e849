package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/tasktimer/internal/clierr"
	"github.com/sandeepkv93/tasktimer/internal/config"
	"github.com/sandeepkv93/tasktimer/internal/model"
	"github.com/sandeepkv93/tasktimer/internal/notify"
	"github.com/sandeepkv93/tasktimer/internal/tasks"
)

func newTestStore(t *testing.T, now time.Time, ids ...string) *tasks.Store {
	t.Helper()
	next := 0
	store, err := tasks.New(context.Background(), tasks.Options{
		Now: func() time.Time { return now },
		NewID: func() string {
			id := ids[next]
			next++
			return id
		},
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestResolveTask(t *testing.T) {
	store := newTestStore(t, time.Now(), "abc111", "abc222", "def333")
	ctx := context.Background()
	for _, text := range []string{"first", "second", "third"} {
		if _, err := store.Add(ctx, text, 0); err != nil {
			t.Fatalf("add %s: %v", text, err)
		}
	}

	cases := []struct {
		ref      string
		wantText string
		wantCode string
	}{
		{ref: "1", wantText: "third"},
		{ref: "#3", wantText: "first"},
		{ref: "def", wantText: "third"},
		{ref: "abc222", wantText: "second"},
		{ref: "abc", wantCode: clierr.AmbiguousID},
		{ref: "zzz", wantCode: clierr.TaskNotFound},
		{ref: "9", wantCode: clierr.TaskNotFound},
	}
	for _, tc := range cases {
		got, err := resolveTask(store, tc.ref)
		if tc.wantCode != "" {
			var cliErr *clierr.Error
			if !errors.As(err, &cliErr) || cliErr.Code != tc.wantCode {
				t.Fatalf("%q: expected %s, got %v", tc.ref, tc.wantCode, err)
			}
			continue
		}
		if err != nil || got.Text != tc.wantText {
			t.Fatalf("%q: got %q err=%v, want %q", tc.ref, got.Text, err, tc.wantText)
		}
	}
}

func TestAsCLIError(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{err: &model.ValidationError{Field: "text", Message: "task text is required"}, code: clierr.InvalidInput},
		{err: &model.NotFoundError{ID: "x"}, code: clierr.TaskNotFound},
		{err: &model.TimerPreconditionError{TaskID: "x", Err: model.ErrNoDuration}, code: clierr.TimerRefused},
		{err: &tasks.SaveError{Err: errors.New("disk full")}, code: clierr.StorageError},
	}
	for _, tc := range cases {
		var cliErr *clierr.Error
		if err := asCLIError(tc.err); !errors.As(err, &cliErr) || cliErr.Code != tc.code {
			t.Fatalf("%T: expected %s, got %v", tc.err, tc.code, err)
		}
	}
	if asCLIError(nil) != nil {
		t.Fatal("nil must stay nil")
	}
	plain := errors.New("plain")
	if asCLIError(plain) != plain {
		t.Fatal("unknown errors pass through")
	}
}

func TestConfirmSkippedWhenNotRequired(t *testing.T) {
	ok, err := confirm(false, "Delete?")
	if !ok || err != nil {
		t.Fatalf("expected confirmation to be skipped, got ok=%v err=%v", ok, err)
	}
}

func TestWatchLoopExpiresTimers(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newTestStore(t, t0, "task-1")
	ctx := context.Background()
	task, err := store.Add(ctx, "tea", time.Second)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.StartTimer(ctx, task.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	ticks := make(chan time.Time, 2)
	ticks <- t0.Add(500 * time.Millisecond)
	ticks <- t0.Add(2 * time.Second)
	close(ticks)
	if err := watchLoop(ctx, store, ticks); err != nil {
		t.Fatalf("watch loop: %v", err)
	}
	got, _ := store.Get(task.ID)
	if !got.Completed || got.Running {
		t.Fatalf("expected expired task, got %+v", got)
	}
}

func TestWatchLoopStopsOnCancel(t *testing.T) {
	store := newTestStore(t, time.Now())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := watchLoop(ctx, store, make(chan time.Time)); err != nil {
		t.Fatalf("expected clean exit, got %v", err)
	}
}

func TestScoreRows(t *testing.T) {
	date := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)
	rows := scoreRows([]model.Score{{ID: "score-1", StudentName: "Ana", Subject: "Math", Value: 18.5, Date: date}})
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	r := rows[0]
	if r.Score != "18.5" || r.Grade != "Excellent" || r.Color != "#059669" || r.Date != "2026-03-01" {
		t.Fatalf("unexpected row %+v", r)
	}
}

func TestBuildNotifierBackgroundsExternalTargets(t *testing.T) {
	primary := &notify.Recorder{}
	cfg := config.Default()
	cfg.DesktopNotifications = false

	n, external := buildNotifier(cfg, primary)
	if len(external) != 0 {
		t.Fatalf("no external targets configured, got %d", len(external))
	}
	if err := n.Notify(context.Background(), notify.Message{Body: "Time is up: tea"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(primary.Messages()) != 1 {
		t.Fatal("primary notifier must be called synchronously")
	}

	cfg.DiscordWebhookURL = "https://discord.com/api/webhooks/123/token"
	if _, external = buildNotifier(cfg, primary); len(external) != 1 {
		t.Fatalf("discord should be delivered in the background, got %d async targets", len(external))
	}
}

package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/tasktimer/internal/model"
)

func TestTaskSnapshotsRoundTrip(t *testing.T) {
	ctx := context.Background()
	snaps := NewTaskSnapshots(NewMemoryBlobStore())

	empty, err := snaps.Load(ctx)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty list, got %v, %v", empty, err)
	}

	created := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	due := created.Add(time.Minute)
	in := []model.Task{
		{ID: "b", Text: "running", CreatedAt: created, Duration: time.Minute, Remaining: time.Minute, Running: true, DueAt: &due},
		{ID: "a", Text: "plain", Completed: true, CreatedAt: created},
	}
	if err := snaps.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := snaps.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 || out[0].ID != "b" || out[1].ID != "a" {
		t.Fatalf("order not preserved: %+v", out)
	}
	if !out[0].Running || out[0].DueAt == nil || !out[0].DueAt.Equal(due) {
		t.Fatalf("timer fields lost: %+v", out[0])
	}
	if !out[1].Completed || !out[1].CreatedAt.Equal(created) {
		t.Fatalf("fields lost: %+v", out[1])
	}
}

func TestDecodeTasksLegacySnapshot(t *testing.T) {
	raw := []byte(`[{"id":"lx1","text":"legacy","completed":false,"created":1770638400000,"durationMs":60000,"remainingMs":60000,"running":false,"dueAt":null}]`)
	out, err := DecodeTasks(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].CreatedAt.UnixMilli() != 1770638400000 || out[0].Duration != time.Minute {
		t.Fatalf("unexpected legacy decode: %+v", out)
	}
}

func TestDecodeTasksCorrupt(t *testing.T) {
	out, err := DecodeTasks([]byte(`{not json`))
	if !errors.Is(err, ErrCorruptSnapshot) || len(out) != 0 {
		t.Fatalf("expected corrupt snapshot with empty list, got %v, %v", out, err)
	}

	raw := []byte(`[{"id":"a","text":"ok"},{"id":"","text":"no id"},{"id":"a","text":"dup"},{"id":"c","text":"run","running":true}]`)
	out, err = DecodeTasks(raw)
	if !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("expected partial corruption error, got %v", err)
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "c" {
		t.Fatalf("unexpected recovered tasks: %+v", out)
	}
	if out[1].Running {
		t.Fatal("running task without dueAt must be normalized to paused")
	}
}

func TestScoreSnapshotsRoundTrip(t *testing.T) {
	ctx := context.Background()
	snaps := NewScoreSnapshots(NewMemoryBlobStore())
	date := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	in := []model.Score{{ID: "s1", StudentName: "Ana", Subject: "Math", Value: 17.5, Date: date}}
	if err := snaps.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := snaps.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 1 || out[0].Value != 17.5 || !out[0].Date.Equal(date) {
		t.Fatalf("unexpected scores: %+v", out)
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	blobs := NewMemoryBlobStore()
	blobs.FailPut = errors.New("disk full")
	err := NewTaskSnapshots(blobs).Save(context.Background(), nil)
	if err == nil || !errors.Is(err, blobs.FailPut) {
		t.Fatalf("expected wrapped put error, got %v", err)
	}
}

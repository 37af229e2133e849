package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sandeepkv93/tasktimer/internal/model"
)

const (
	TasksKey  = "tm_tasks_v1"
	ScoresKey = "scores"
)

// ErrCorruptSnapshot is returned together with whatever could be recovered
// from a damaged snapshot.
var ErrCorruptSnapshot = errors.New("storage: corrupt snapshot")

// taskRecord is the persisted form of a task. Timestamps are epoch
// milliseconds so snapshots stay readable by the browser version.
type taskRecord struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Completed   bool   `json:"completed"`
	CreatedAt   int64  `json:"createdAt,omitempty"`
	Created     int64  `json:"created,omitempty"`
	DurationMs  int64  `json:"durationMs"`
	RemainingMs int64  `json:"remainingMs"`
	Running     bool   `json:"running"`
	DueAt       *int64 `json:"dueAt"`
}

type scoreRecord struct {
	ID          string  `json:"id"`
	StudentName string  `json:"studentName"`
	Subject     string  `json:"subject"`
	Score       float64 `json:"score"`
	Date        string  `json:"date"`
}

func EncodeTasks(tasks []model.Task) ([]byte, error) {
	records := make([]taskRecord, 0, len(tasks))
	for _, t := range tasks {
		rec := taskRecord{
			ID:          t.ID,
			Text:        t.Text,
			Completed:   t.Completed,
			CreatedAt:   t.CreatedAt.UnixMilli(),
			DurationMs:  t.Duration.Milliseconds(),
			RemainingMs: t.Remaining.Milliseconds(),
			Running:     t.Running,
		}
		if t.DueAt != nil {
			ms := t.DueAt.UnixMilli()
			rec.DueAt = &ms
		}
		records = append(records, rec)
	}
	return json.Marshal(records)
}

// DecodeTasks parses a snapshot. Records that cannot be addressed (missing id
// or text, duplicate id) are dropped and reported as ErrCorruptSnapshot.
func DecodeTasks(raw []byte) ([]model.Task, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []model.Task{}, nil
	}
	var records []taskRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return []model.Task{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	out := make([]model.Task, 0, len(records))
	seen := make(map[string]bool, len(records))
	dropped := 0
	for _, rec := range records {
		created := rec.CreatedAt
		if created == 0 {
			created = rec.Created
		}
		t := model.Task{
			ID:        rec.ID,
			Text:      rec.Text,
			Completed: rec.Completed,
			CreatedAt: time.UnixMilli(created).UTC(),
			Duration:  time.Duration(rec.DurationMs) * time.Millisecond,
			Remaining: time.Duration(rec.RemainingMs) * time.Millisecond,
			Running:   rec.Running,
		}
		if rec.DueAt != nil {
			due := time.UnixMilli(*rec.DueAt).UTC()
			t.DueAt = &due
		}
		t.Normalize()
		if t.ID == "" || t.Text == "" || seen[t.ID] {
			dropped++
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	if dropped > 0 {
		return out, fmt.Errorf("%w: dropped %d invalid records", ErrCorruptSnapshot, dropped)
	}
	return out, nil
}

func EncodeScores(scores []model.Score) ([]byte, error) {
	records := make([]scoreRecord, 0, len(scores))
	for _, s := range scores {
		records = append(records, scoreRecord{
			ID:          s.ID,
			StudentName: s.StudentName,
			Subject:     s.Subject,
			Score:       s.Value,
			Date:        s.Date.UTC().Format(time.RFC3339),
		})
	}
	return json.Marshal(records)
}

func DecodeScores(raw []byte) ([]model.Score, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []model.Score{}, nil
	}
	var records []scoreRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return []model.Score{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	out := make([]model.Score, 0, len(records))
	dropped := 0
	for _, rec := range records {
		date, _ := time.Parse(time.RFC3339, rec.Date)
		s := model.Score{
			ID:          rec.ID,
			StudentName: rec.StudentName,
			Subject:     rec.Subject,
			Value:       rec.Score,
			Date:        date,
		}
		if err := s.Validate(); err != nil {
			dropped++
			continue
		}
		out = append(out, s)
	}
	if dropped > 0 {
		return out, fmt.Errorf("%w: dropped %d invalid records", ErrCorruptSnapshot, dropped)
	}
	return out, nil
}

// TaskSnapshots persists the full task list as one blob under TasksKey.
type TaskSnapshots struct {
	blobs BlobStore
	key   string
}

func NewTaskSnapshots(blobs BlobStore) *TaskSnapshots {
	return &TaskSnapshots{blobs: blobs, key: TasksKey}
}

// Load returns an empty list when nothing was saved yet. A corrupt snapshot
// yields the recoverable tasks and an error wrapping ErrCorruptSnapshot.
func (s *TaskSnapshots) Load(ctx context.Context) ([]model.Task, error) {
	raw, err := s.blobs.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []model.Task{}, nil
		}
		return []model.Task{}, fmt.Errorf("load tasks: %w", err)
	}
	return DecodeTasks(raw)
}

func (s *TaskSnapshots) Save(ctx context.Context, tasks []model.Task) error {
	raw, err := EncodeTasks(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.blobs.Put(ctx, s.key, raw); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

type ScoreSnapshots struct {
	blobs BlobStore
	key   string
}

func NewScoreSnapshots(blobs BlobStore) *ScoreSnapshots {
	return &ScoreSnapshots{blobs: blobs, key: ScoresKey}
}

func (s *ScoreSnapshots) Load(ctx context.Context) ([]model.Score, error) {
	raw, err := s.blobs.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []model.Score{}, nil
		}
		return []model.Score{}, fmt.Errorf("load scores: %w", err)
	}
	return DecodeScores(raw)
}

func (s *ScoreSnapshots) Save(ctx context.Context, scores []model.Score) error {
	raw, err := EncodeScores(scores)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	if err := s.blobs.Put(ctx, s.key, raw); err != nil {
		return fmt.Errorf("save scores: %w", err)
	}
	return nil
}

package grades

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/tasktimer/internal/model"
	"github.com/sandeepkv93/tasktimer/internal/notify"
	"github.com/sandeepkv93/tasktimer/internal/storage"
)

func newTestBook(t *testing.T) (*Gradebook, *notify.Recorder, *storage.ScoreSnapshots) {
	t.Helper()
	snaps := storage.NewScoreSnapshots(storage.NewMemoryBlobStore())
	notes := &notify.Recorder{}
	seq := 0
	book, err := New(context.Background(), Options{
		Persistence: snaps,
		Notifier:    notes,
		Now:         func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) },
		NewID: func() string {
			seq++
			return fmt.Sprintf("score-%d", seq)
		},
	})
	if err != nil {
		t.Fatalf("new gradebook: %v", err)
	}
	return book, notes, snaps
}

func TestAddValidatesInput(t *testing.T) {
	book, notes, _ := newTestBook(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		student string
		subject string
		value   float64
	}{
		{"empty student", "  ", "Math", 12},
		{"empty subject", "Ana", "", 12},
		{"below range", "Ana", "Math", -0.5},
		{"above range", "Ana", "Math", 20.5},
		{"nan", "Ana", "Math", math.NaN()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := book.Add(ctx, tc.student, tc.subject, tc.value); !model.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if len(book.Entries()) != 0 {
		t.Fatalf("invalid input must not add entries")
	}
	if len(notes.Messages()) != len(cases) {
		t.Fatalf("expected one notification per rejection, got %d", len(notes.Messages()))
	}

	for _, v := range []float64{0, 20} {
		if _, err := book.Add(ctx, "Ana", "Math", v); err != nil {
			t.Fatalf("boundary %v rejected: %v", v, err)
		}
	}
}

func TestStats(t *testing.T) {
	book, _, _ := newTestBook(t)
	ctx := context.Background()

	if st := book.Stats(); !st.Empty || st.AverageText() != "-" {
		t.Fatalf("expected empty stats, got %+v", st)
	}

	for _, e := range []struct {
		student string
		value   float64
	}{{"Ana", 18}, {"Ben", 11}, {"Ana", 15.5}} {
		if _, err := book.Add(ctx, e.student, "Physics", e.value); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	st := book.Stats()
	if st.Empty || st.Count != 3 || st.Students != 2 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if st.Highest != 18 || st.Lowest != 11 {
		t.Fatalf("unexpected extremes %+v", st)
	}
	if st.AverageText() != "14.83" {
		t.Fatalf("unexpected average %s", st.AverageText())
	}
}

func TestGradeBands(t *testing.T) {
	cases := []struct {
		value float64
		label string
	}{
		{20, "Excellent"},
		{18, "Excellent"},
		{17.9, "Very Good"},
		{14, "Good"},
		{12, "Satisfactory"},
		{10, "Pass"},
		{9.99, "Fail"},
		{0, "Fail"},
	}
	for _, tc := range cases {
		if got := model.GradeFor(tc.value).Label; got != tc.label {
			t.Fatalf("GradeFor(%v) = %s, want %s", tc.value, got, tc.label)
		}
	}
}

func TestEditAndDelete(t *testing.T) {
	book, _, snaps := newTestBook(t)
	ctx := context.Background()
	s, err := book.Add(ctx, "Ana", "Math", 10)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := book.EditScore(ctx, s.ID, 25); !model.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := book.EditScore(ctx, "missing", 12); err != nil {
		t.Fatalf("unknown id should be ignored: %v", err)
	}
	if err := book.EditScore(ctx, s.ID, 16); err != nil {
		t.Fatalf("edit: %v", err)
	}
	stored, err := snaps.Load(ctx)
	if err != nil || len(stored) != 1 || stored[0].Value != 16 {
		t.Fatalf("edit not persisted: %+v err=%v", stored, err)
	}

	if err := book.Delete(ctx, s.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(book.Entries()) != 0 {
		t.Fatal("expected empty gradebook")
	}
}

func TestReopenKeepsInsertionOrder(t *testing.T) {
	book, _, snaps := newTestBook(t)
	ctx := context.Background()
	for _, name := range []string{"Ana", "Ben", "Cleo"} {
		if _, err := book.Add(ctx, name, "Art", 13); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	reopened, err := New(ctx, Options{Persistence: snaps})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	var names []string
	for _, s := range reopened.Entries() {
		names = append(names, s.StudentName)
	}
	if strings.Join(names, ",") != "Ana,Ben,Cleo" {
		t.Fatalf("unexpected order %v", names)
	}
}

func TestExport(t *testing.T) {
	book, _, _ := newTestBook(t)
	ctx := context.Background()
	if _, err := book.Add(ctx, "Ana", "Math", 18.5); err != nil {
		t.Fatalf("add: %v", err)
	}

	csvOut, err := book.Export("CSV")
	if err != nil {
		t.Fatalf("csv export: %v", err)
	}
	if !strings.Contains(string(csvOut), "score-1,Ana,Math,18.5,Excellent,2026-03-01") {
		t.Fatalf("unexpected csv:\n%s", csvOut)
	}

	pdfOut, err := book.Export("pdf")
	if err != nil {
		t.Fatalf("pdf export: %v", err)
	}
	if !bytes.HasPrefix(pdfOut, []byte("%PDF")) {
		t.Fatalf("expected pdf header, got %q", pdfOut[:min(8, len(pdfOut))])
	}

	if _, err := book.Export("xlsx"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestHexColor(t *testing.T) {
	r, g, b := hexColor("#0284c7")
	if r != 0x02 || g != 0x84 || b != 0xc7 {
		t.Fatalf("unexpected rgb %d %d %d", r, g, b)
	}
	if r, g, b := hexColor("nope"); r+g+b != 0 {
		t.Fatal("invalid colour should be black")
	}
}

func TestNewRecoversFromCorruptScores(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewMemoryBlobStore()
	raw := []byte(`[{"id":"s1","studentName":"Ana","subject":"Math","score":15,"date":"2026-03-01T09:00:00Z"},{"id":"","studentName":"","subject":"","score":99}]`)
	if err := blobs.Put(ctx, storage.ScoresKey, raw); err != nil {
		t.Fatalf("seed: %v", err)
	}
	notes := &notify.Recorder{}
	book, err := New(ctx, Options{Persistence: storage.NewScoreSnapshots(blobs), Notifier: notes})
	if err != nil {
		t.Fatalf("damaged scores must not fail startup: %v", err)
	}
	if got := book.Entries(); len(got) != 1 || got[0].StudentName != "Ana" {
		t.Fatalf("expected the intact entry to survive, got %+v", got)
	}
	if len(notes.Messages()) != 1 || notes.Messages()[0].Level != notify.LevelWarn {
		t.Fatalf("expected one warning, got %+v", notes.Messages())
	}

	if err := blobs.Put(ctx, storage.ScoresKey, []byte("{broken")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	book, err = New(ctx, Options{Persistence: storage.NewScoreSnapshots(blobs)})
	if err != nil || !book.Stats().Empty {
		t.Fatalf("unreadable scores should load empty, got err=%v", err)
	}
}

// Package grades keeps a list of student scores on a 0 to 20 scale and
// derives grade bands and class statistics from it.
package grades

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/tasktimer/internal/logging"
	"github.com/sandeepkv93/tasktimer/internal/model"
	"github.com/sandeepkv93/tasktimer/internal/notify"
	"github.com/sandeepkv93/tasktimer/internal/storage"
)

const subsystem = "grades"

type Persistence interface {
	Load(ctx context.Context) ([]model.Score, error)
	Save(ctx context.Context, scores []model.Score) error
}

type Options struct {
	Persistence Persistence
	Notifier    notify.Notifier
	Now         func() time.Time
	NewID       func() string
}

type Stats struct {
	Average  float64
	Highest  float64
	Lowest   float64
	Students int
	Count    int
	Empty    bool
}

// AverageText renders the average with two decimals, or "-" without entries.
func (s Stats) AverageText() string {
	if s.Empty {
		return "-"
	}
	return fmt.Sprintf("%.2f", s.Average)
}

type Gradebook struct {
	mu       sync.Mutex
	scores   []model.Score
	persist  Persistence
	notifier notify.Notifier
	now      func() time.Time
	newID    func() string
}

func New(ctx context.Context, opts Options) (*Gradebook, error) {
	g := &Gradebook{
		scores:   []model.Score{},
		persist:  opts.Persistence,
		notifier: opts.Notifier,
		now:      opts.Now,
		newID:    opts.NewID,
	}
	if g.notifier == nil {
		g.notifier = notify.Noop{}
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.newID == nil {
		g.newID = uuid.NewString
	}
	if g.persist == nil {
		return g, nil
	}
	loaded, err := g.persist.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrCorruptSnapshot) {
			return nil, fmt.Errorf("grades: load scores: %w", err)
		}
		logging.Warn(subsystem, "recovered %d scores from damaged snapshot: %v", len(loaded), err)
		if nerr := g.notifier.Notify(ctx, notify.Message{Title: "Storage", Body: "Saved scores were damaged; some could not be restored.", Level: notify.LevelWarn}); nerr != nil {
			logging.Warn(subsystem, "notify failed: %v", nerr)
		}
	}
	if loaded != nil {
		g.scores = loaded
	}
	return g, nil
}

// Add records a new score. Entries keep insertion order.
func (g *Gradebook) Add(ctx context.Context, student, subject string, value float64) (model.Score, error) {
	score := model.Score{
		ID:          g.newID(),
		StudentName: strings.TrimSpace(student),
		Subject:     strings.TrimSpace(subject),
		Value:       value,
		Date:        g.now().UTC(),
	}
	if err := score.Validate(); err != nil {
		g.reject(ctx, err)
		return model.Score{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scores = append(g.scores, score)
	logging.Debug(subsystem, "added score %s for %s", score.ID, score.StudentName)
	return score, g.saveLocked(ctx)
}

// EditScore replaces the value of an entry. Unknown ids are ignored.
func (g *Gradebook) EditScore(ctx context.Context, id string, value float64) error {
	if err := model.ValidateScoreValue(value); err != nil {
		g.reject(ctx, err)
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.indexLocked(id)
	if i < 0 || g.scores[i].Value == value {
		return nil
	}
	g.scores[i].Value = value
	return g.saveLocked(ctx)
}

func (g *Gradebook) Delete(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.indexLocked(id)
	if i < 0 {
		return nil
	}
	g.scores = append(g.scores[:i], g.scores[i+1:]...)
	return g.saveLocked(ctx)
}

func (g *Gradebook) Entries() []model.Score {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]model.Score, len(g.scores))
	copy(out, g.scores)
	return out
}

func (g *Gradebook) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.scores) == 0 {
		return Stats{Empty: true}
	}
	st := Stats{
		Highest: g.scores[0].Value,
		Lowest:  g.scores[0].Value,
		Count:   len(g.scores),
	}
	students := make(map[string]struct{}, len(g.scores))
	var sum float64
	for _, s := range g.scores {
		sum += s.Value
		if s.Value > st.Highest {
			st.Highest = s.Value
		}
		if s.Value < st.Lowest {
			st.Lowest = s.Value
		}
		students[s.StudentName] = struct{}{}
	}
	st.Average = sum / float64(len(g.scores))
	st.Students = len(students)
	return st
}

func (g *Gradebook) indexLocked(id string) int {
	for i := range g.scores {
		if g.scores[i].ID == id {
			return i
		}
	}
	return -1
}

func (g *Gradebook) saveLocked(ctx context.Context) error {
	if g.persist == nil {
		return nil
	}
	snapshot := make([]model.Score, len(g.scores))
	copy(snapshot, g.scores)
	if err := g.persist.Save(ctx, snapshot); err != nil {
		logging.Warn(subsystem, "save failed, keeping in-memory state: %v", err)
		return fmt.Errorf("grades: save scores: %w", err)
	}
	return nil
}

func (g *Gradebook) reject(ctx context.Context, err error) {
	msg := err.Error()
	var ve *model.ValidationError
	if errors.As(err, &ve) && ve.Message != "" {
		msg = strings.ToUpper(ve.Message[:1]) + ve.Message[1:]
	}
	if nerr := g.notifier.Notify(ctx, notify.Message{Title: "Not saved", Body: msg, Level: notify.LevelWarn}); nerr != nil {
		logging.Warn(subsystem, "notify failed: %v", nerr)
	}
}

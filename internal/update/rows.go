package update

import (
	"time"

	"github.com/sandeepkv93/tasktimer/internal/model"
	"github.com/sandeepkv93/tasktimer/internal/views"
)

const createdLayout = "Jan 2 15:04"

func taskRow(i int, t model.Task, now time.Time, selected bool) views.TaskRowData {
	row := views.TaskRowData{
		Number:    i + 1,
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		Created:   t.CreatedAt.Local().Format(createdLayout),
		Timer:     t.Display(now),
		Selected:  selected,
	}
	if t.HasTimer() {
		row.TimerState = string(t.TimerState())
	}
	return row
}

// TaskRows converts tasks into numbered rows for non-interactive output.
func TaskRows(list []model.Task, now time.Time) []views.TaskRowData {
	out := make([]views.TaskRowData, 0, len(list))
	for i, t := range list {
		out = append(out, taskRow(i, t, now, false))
	}
	return out
}

package views

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderTaskRowShowsNumberAndTimer(t *testing.T) {
	out := RenderTaskRow(TaskRowData{Number: 3, Text: "write report", Timer: "05:00", TimerState: "paused", Selected: true})
	for _, want := range []string{"> ", " 3.", "[ ]", "write report", "05:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("row %q missing %q", out, want)
		}
	}
	done := RenderTaskRow(TaskRowData{Number: 1, Text: "done", Completed: true})
	if !strings.Contains(done, "[x]") {
		t.Fatalf("completed row missing checkbox: %q", done)
	}
}

func TestRenderTaskListEmptyStates(t *testing.T) {
	empty := RenderTaskList(TaskListData{Filters: []string{"all"}, Filter: "all"})
	if !strings.Contains(empty, "No tasks yet") {
		t.Fatalf("unexpected empty list: %q", empty)
	}
	noMatch := RenderTaskList(TaskListData{Filters: []string{"all"}, Filter: "all", Query: "zzz", Counts: CountsData{Total: 2, Active: 2}})
	if !strings.Contains(noMatch, "No tasks match") || !strings.Contains(noMatch, "2 total") {
		t.Fatalf("unexpected filtered list: %q", noMatch)
	}
}

func TestRenderTaskTable(t *testing.T) {
	out := RenderTaskTable([]TaskRowData{{Number: 1, ID: "0123456789", Text: "stretch", Timer: "00:30", TimerState: "running"}})
	for _, want := range []string{"TASK", "stretch", "00:30 (running)", "01234567"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderMarkdownFallsBackOnEmpty(t *testing.T) {
	if RenderMarkdown("   ") != "" {
		t.Fatal("blank markdown should render empty")
	}
}

func TestDisableColorStripsEscapes(t *testing.T) {
	prev := lipgloss.ColorProfile()
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	DisableColor()
	out := RenderTaskRow(TaskRowData{Number: 1, Text: "plain", Timer: "01:00", TimerState: "running"})
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no escape sequences, got %q", out)
	}
}

package update

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/tasktimer/internal/views"
)

type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Add       key.Binding
	Edit      key.Binding
	Search    key.Binding
	All       key.Binding
	Active    key.Binding
	Completed key.Binding
	Toggle    key.Binding
	Delete    key.Binding
	Timer     key.Binding
	Clear     key.Binding
	MarkAll   key.Binding
	Palette   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		All:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		Active:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		Completed: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Timer:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start/pause")),
		Clear:     key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear completed")),
		MarkAll:   key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "mark all")),
		Palette:   key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Timer, k.Delete, k.Search, k.Palette, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Add, k.Edit, k.Search},
		{k.All, k.Active, k.Completed},
		{k.Toggle, k.Delete, k.Timer, k.Clear, k.MarkAll},
		{k.Palette, k.Help, k.Quit},
	}
}

const paletteHelp = `## Commands

Press **:** and type one of:

| command | effect |
|---|---|
| ` + "`add <text> [for <duration>]`" + ` | new task, optional timer |
| ` + "`edit <n> <text>`" + ` | change the text of row n |
| ` + "`toggle <n>`" + ` | complete or reopen row n |
| ` + "`delete <n>`" + ` | remove row n |
| ` + "`start <n>` / `pause <n>`" + ` | run or pause the timer |
| ` + "`filter all\\|active\\|completed`" + ` | change the view |
| ` + "`search <text>`" + ` | filter by text, empty clears |
| ` + "`clear`" + ` | remove completed tasks |
| ` + "`markall`" + ` | complete every task |

Durations: ` + "`25`" + ` (minutes), ` + "`90 sec`" + `, ` + "`1h30m`" + `.
`

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Markdown: paletteHelp,
		HelpView: m.helpModel.FullHelpView(m.Keys.FullHelp()),
	})
}

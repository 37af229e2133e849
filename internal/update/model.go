// Package update is the terminal front end: a bubbletea model that turns key
// presses into task store intents and renders the store after every change.
package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/tasktimer/internal/model"
	"github.com/sandeepkv93/tasktimer/internal/notify"
	"github.com/sandeepkv93/tasktimer/internal/scheduler"
	"github.com/sandeepkv93/tasktimer/internal/tasks"
)

type Mode string

const (
	ModeList    Mode = "list"
	ModeAdd     Mode = "add"
	ModeEdit    Mode = "edit"
	ModeSearch  Mode = "search"
	ModePalette Mode = "palette"
	ModeConfirm Mode = "confirm"
)

const maxNotifications = 5

var filterOrder = []model.Filter{model.FilterAll, model.FilterActive, model.FilterCompleted}

type StatusBar struct {
	Text    string
	IsError bool
}

type Notification struct {
	Title string
	Body  string
	Level notify.Level
	At    time.Time
}

type Options struct {
	Store  *tasks.Store
	Ticker *scheduler.Ticker
	// TickInterval drives tea.Tick when no Ticker is given.
	TickInterval       time.Duration
	ConfirmDestructive bool
	Feed               *Feed
	Now                func() time.Time
	// Context bounds store calls made from Update; Background when nil.
	Context            context.Context
}

type Model struct {
	Filter             model.Filter
	Query              string
	Cursor             int
	Mode               Mode
	Confirm            *Confirmation
	ConfirmDestructive bool
	HelpVisible        bool
	Status             StatusBar
	Notifications      []Notification
	Keys               KeyMap
	Quitting           bool
	LastError          error

	store       *tasks.Store
	ticker      *scheduler.Ticker
	interval    time.Duration
	feed        *Feed
	changes     chan tasks.Change
	unsubscribe func()
	now         func() time.Time
	ctx         context.Context
	editingID   string

	addInput     textinput.Model
	editInput    textinput.Model
	searchInput  textinput.Model
	commandInput textinput.Model
	helpModel    help.Model
}

func NewModel(opts Options) Model {
	m := Model{
		Filter:             model.FilterAll,
		Mode:               ModeList,
		ConfirmDestructive: opts.ConfirmDestructive,
		Keys:               DefaultKeyMap(),
		store:              opts.Store,
		ticker:             opts.Ticker,
		interval:           opts.TickInterval,
		feed:               opts.Feed,
		changes:            make(chan tasks.Change, 32),
		now:                opts.Now,
		ctx:                opts.Context,
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.interval <= 0 {
		m.interval = scheduler.DefaultInterval
	}
	if m.ticker != nil {
		m.interval = m.ticker.Interval()
	}
	if m.now == nil {
		m.now = time.Now
	}
	changes := m.changes
	m.unsubscribe = m.store.Subscribe(func(c tasks.Change) {
		select {
		case changes <- c:
		default:
		}
	})
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.addInput = textinput.New()
	m.addInput.Prompt = "add> "
	m.addInput.Placeholder = "task text [for 25m]"
	m.addInput.CharLimit = 256
	m.addInput.Width = 56

	m.editInput = textinput.New()
	m.editInput.Prompt = "edit> "
	m.editInput.CharLimit = 256
	m.editInput.Width = 56

	m.searchInput = textinput.New()
	m.searchInput.Prompt = "search> "
	m.searchInput.CharLimit = 128
	m.searchInput.Width = 48

	m.commandInput = textinput.New()
	m.commandInput.Prompt = ":"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 56

	m.helpModel = help.New()
}

// VisibleTasks is the list as currently filtered and searched; row numbers in
// the palette index into it.
func (m Model) VisibleTasks() []model.Task {
	return m.store.VisibleTasks(m.Filter, m.Query)
}

func (m Model) selectedTask() (model.Task, bool) {
	visible := m.VisibleTasks()
	if m.Cursor < 0 || m.Cursor >= len(visible) {
		return model.Task{}, false
	}
	return visible[m.Cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.VisibleTasks())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.Status = StatusBar{Text: text, IsError: isErr}
}

// report surfaces a store error on the status line. Rejections were already
// sent to the notifier by the store.
func (m *Model) report(err error, okText string) {
	if err == nil {
		if okText != "" {
			m.setStatus(okText, false)
		}
		return
	}
	m.LastError = err
	m.setStatus(tasks.UserMessage(err), true)
}

func (m *Model) pushNotification(msg notify.Message) {
	m.Notifications = append(m.Notifications, Notification{
		Title: msg.Title,
		Body:  msg.Body,
		Level: msg.Level,
		At:    m.now(),
	})
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
}

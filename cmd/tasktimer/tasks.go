package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sandeepkv93/tasktimer/internal/clierr"
	"github.com/sandeepkv93/tasktimer/internal/commands"
	"github.com/sandeepkv93/tasktimer/internal/model"
	"github.com/sandeepkv93/tasktimer/internal/storage"
	"github.com/sandeepkv93/tasktimer/internal/tasks"
	"github.com/sandeepkv93/tasktimer/internal/update"
	"github.com/sandeepkv93/tasktimer/internal/views"
)

var addCmd = &cobra.Command{
	Use:   "add TEXT...",
	Short: "Add a task",
	Long: `Adds a task to the top of the list. --for attaches a countdown; a bare
number is read as minutes, so "--for 25" and "--for 25m" are the same.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var editCmd = &cobra.Command{
	Use:   "edit ROW|ID TEXT...",
	Short: "Replace a task's text",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runEdit,
}

var toggleCmd = &cobra.Command{
	Use:     "toggle ROW|ID",
	Aliases: []string{"done"},
	Short:   "Flip a task between active and completed",
	Args:    cobra.ExactArgs(1),
	RunE: withTask(func(ctx context.Context, s *tasks.Store, t model.Task) error {
		return s.Toggle(ctx, t.ID)
	}),
}

var rmCmd = &cobra.Command{
	Use:     "rm ROW|ID",
	Aliases: []string{"delete", "del"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

var startCmd = &cobra.Command{
	Use:   "start ROW|ID",
	Short: "Start or resume a task's countdown",
	Args:  cobra.ExactArgs(1),
	RunE: withTask(func(ctx context.Context, s *tasks.Store, t model.Task) error {
		if err := s.StartTimer(ctx, t.ID); err != nil {
			return err
		}
		got, _ := s.Get(t.ID)
		if got.DueAt != nil {
			fmt.Printf("Timer running for %q, due %s\n", got.Text, got.DueAt.Local().Format(time.Kitchen))
		}
		return nil
	}),
}

var pauseCmd = &cobra.Command{
	Use:   "pause ROW|ID",
	Short: "Pause a running countdown",
	Args:  cobra.ExactArgs(1),
	RunE: withTask(func(ctx context.Context, s *tasks.Store, t model.Task) error {
		return s.PauseTimer(ctx, t.ID)
	}),
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every completed task",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

var markAllCmd = &cobra.Command{
	Use:   "mark-all",
	Short: "Mark every task completed",
	Args:  cobra.NoArgs,
	RunE:  runMarkAll,
}

func init() {
	addCmd.Flags().String("for", "", "countdown duration, e.g. 25, 90s, 1h30m")
	listCmd.Flags().String("filter", string(model.FilterAll), "all, active or completed")
	listCmd.Flags().StringP("search", "s", "", "only tasks whose text contains this")
	rootCmd.AddCommand(addCmd, listCmd, editCmd, toggleCmd, rmCmd, startCmd, pauseCmd, clearCmd, markAllCmd)
}

// openStore opens the configured store for a one-shot command.
func openStore(cmd *cobra.Command) (*app, *tasks.Store, error) {
	a, err := openApp(cmd, logQuiet, consoleNotifier(false))
	if err != nil {
		return nil, nil, err
	}
	store, err := a.openTasks(cmd.Context())
	if err != nil {
		_ = a.Close()
		return nil, nil, err
	}
	return a, store, nil
}

func withTask(fn func(context.Context, *tasks.Store, model.Task) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		t, err := resolveTask(store, args[0])
		if err != nil {
			return err
		}
		return asCLIError(fn(cmd.Context(), store, t))
	}
}

func runAdd(cmd *cobra.Command, args []string) error {
	var d time.Duration
	if raw, _ := cmd.Flags().GetString("for"); raw != "" {
		parsed, err := commands.ParseDuration(raw)
		if err != nil {
			return clierr.New(clierr.InvalidInput, err.Error())
		}
		d = parsed
	}
	a, store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := store.Add(cmd.Context(), strings.Join(args, " "), d)
	if err != nil {
		return asCLIError(err)
	}
	if flagJSON {
		return writeTasksJSON([]model.Task{t})
	}
	fmt.Printf("Added %s: %s\n", shortTaskID(t.ID), t.Text)
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	rawFilter, _ := cmd.Flags().GetString("filter")
	filter, err := model.ParseFilter(rawFilter)
	if err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}
	query, _ := cmd.Flags().GetString("search")

	a, store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	list := store.VisibleTasks(filter, query)
	if flagJSON {
		return writeTasksJSON(list)
	}
	if len(list) == 0 {
		fmt.Println("No tasks.")
		return nil
	}
	fmt.Println(views.RenderTaskTable(update.TaskRows(list, time.Now())))
	c := store.Counts()
	footer := views.RenderCounts(views.CountsData{Total: c.Total, Active: c.Active, Completed: c.Completed})
	if at, ok := storage.LastSaved(cmd.Context(), a.blobs, storage.TasksKey); ok {
		footer += " · saved " + at.Local().Format("Jan 2 15:04")
	}
	fmt.Println(footer)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	a, store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	t, err := resolveTask(store, args[0])
	if err != nil {
		return err
	}
	return asCLIError(store.Edit(cmd.Context(), t.ID, strings.Join(args[1:], " ")))
}

func runRemove(cmd *cobra.Command, args []string) error {
	a, store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	t, err := resolveTask(store, args[0])
	if err != nil {
		return err
	}
	ok, err := confirm(a.cfg.ConfirmDestructive, fmt.Sprintf("Delete %q?", t.Text))
	if err != nil || !ok {
		return err
	}
	if err := store.Delete(cmd.Context(), t.ID); err != nil {
		return asCLIError(err)
	}
	fmt.Printf("Deleted %s: %s\n", shortTaskID(t.ID), t.Text)
	return nil
}

func runClear(cmd *cobra.Command, _ []string) error {
	a, store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	n := store.Counts().Completed
	if n == 0 {
		fmt.Println("No completed tasks to clear.")
		return nil
	}
	ok, err := confirm(a.cfg.ConfirmDestructive, fmt.Sprintf("Delete %d completed task(s)?", n))
	if err != nil || !ok {
		return err
	}
	if err := store.ClearCompleted(cmd.Context()); err != nil {
		return asCLIError(err)
	}
	fmt.Printf("Cleared %d completed task(s).\n", n)
	return nil
}

func runMarkAll(cmd *cobra.Command, _ []string) error {
	a, store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	c := store.Counts()
	if c.Total == 0 || c.Active == 0 {
		fmt.Println("Nothing to mark.")
		return nil
	}
	ok, err := confirm(a.cfg.ConfirmDestructive, fmt.Sprintf("Mark %d task(s) completed?", c.Active))
	if err != nil || !ok {
		return err
	}
	return asCLIError(store.MarkAllCompleted(cmd.Context()))
}

// resolveTask accepts a 1-based row of the unfiltered list or an id prefix.
func resolveTask(store *tasks.Store, ref string) (model.Task, error) {
	list := store.Tasks()
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(list) {
		return list[n-1], nil
	}
	var match []model.Task
	for _, t := range list {
		if t.ID == ref {
			return t, nil
		}
		if ref != "" && strings.HasPrefix(t.ID, ref) {
			match = append(match, t)
		}
	}
	switch len(match) {
	case 0:
		return model.Task{}, clierr.Newf(clierr.TaskNotFound, "no task matches %q", ref)
	case 1:
		return match[0], nil
	default:
		return model.Task{}, clierr.Newf(clierr.AmbiguousID, "%q matches %d tasks; use more characters", ref, len(match))
	}
}

// confirm asks on the terminal unless confirmation is disabled.
func confirm(required bool, prompt string) (bool, error) {
	if !required {
		return true, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, clierr.New(clierr.ConfirmationReq,
			"cannot prompt for confirmation (not a terminal); use --yes")
	}
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(os.Stderr, "Canceled.")
		return false, nil
	}
	return true, nil
}

// asCLIError maps store errors onto exit codes.
func asCLIError(err error) error {
	var saveErr *tasks.SaveError
	switch {
	case err == nil:
		return nil
	case model.IsValidation(err):
		return clierr.New(clierr.InvalidInput, tasks.UserMessage(err))
	case model.IsNotFound(err):
		return clierr.New(clierr.TaskNotFound, err.Error())
	case model.IsTimerPrecondition(err):
		return clierr.New(clierr.TimerRefused, tasks.UserMessage(err))
	case errors.As(err, &saveErr):
		return clierr.New(clierr.StorageError, err.Error())
	default:
		return err
	}
}

func writeTasksJSON(list []model.Task) error {
	raw, err := storage.EncodeTasks(list)
	if err != nil {
		return clierr.New(clierr.InternalError, err.Error())
	}
	_, err = fmt.Fprintln(os.Stdout, string(raw))
	return err
}

func shortTaskID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasktimer/internal/clierr"
	"github.com/sandeepkv93/tasktimer/internal/config"
	"github.com/sandeepkv93/tasktimer/internal/views"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	flagJSON    bool
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "tasktimer",
	Short: "Task list with per-task countdown timers",
	Long: `tasktimer keeps a local task list where any task can carry a countdown.
Run it without arguments to open the terminal UI.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Args:          cobra.NoArgs,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			views.DisableColor()
		}
	},
}

func init() {
	config.BindFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
}

func main() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "tasktimer:", err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

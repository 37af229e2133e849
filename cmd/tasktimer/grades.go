package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasktimer/internal/clierr"
	"github.com/sandeepkv93/tasktimer/internal/grades"
	"github.com/sandeepkv93/tasktimer/internal/model"
	"github.com/sandeepkv93/tasktimer/internal/storage"
	"github.com/sandeepkv93/tasktimer/internal/views"
)

const scoreDateLayout = "2006-01-02"

var gradesCmd = &cobra.Command{
	Use:   "grades",
	Short: "Track student scores on a 0-20 scale",
}

var gradesAddCmd = &cobra.Command{
	Use:   "add STUDENT SUBJECT SCORE",
	Short: "Record a score",
	Args:  cobra.ExactArgs(3),
	RunE: withGradebook(func(cmd *cobra.Command, g *grades.Gradebook, args []string) error {
		value, err := parseScore(args[2])
		if err != nil {
			return err
		}
		s, err := g.Add(cmd.Context(), args[0], args[1], value)
		if err != nil {
			return gradeError(err)
		}
		fmt.Printf("Recorded %s %s %.1f (%s)\n", s.StudentName, s.Subject, s.Value, s.Grade().Label)
		return nil
	}),
}

var gradesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List scores",
	Args:    cobra.NoArgs,
	RunE: withGradebook(func(_ *cobra.Command, g *grades.Gradebook, _ []string) error {
		entries := g.Entries()
		if flagJSON {
			raw, err := storage.EncodeScores(entries)
			if err != nil {
				return clierr.New(clierr.InternalError, err.Error())
			}
			fmt.Println(string(raw))
			return nil
		}
		if len(entries) == 0 {
			fmt.Println("No scores recorded.")
			return nil
		}
		fmt.Println(views.RenderScoreTable(scoreRows(entries)))
		return nil
	}),
}

var gradesEditCmd = &cobra.Command{
	Use:   "edit ID SCORE",
	Short: "Change a recorded score",
	Args:  cobra.ExactArgs(2),
	RunE: withGradebook(func(cmd *cobra.Command, g *grades.Gradebook, args []string) error {
		s, err := resolveScore(g, args[0])
		if err != nil {
			return err
		}
		value, err := parseScore(args[1])
		if err != nil {
			return err
		}
		return gradeError(g.EditScore(cmd.Context(), s.ID, value))
	}),
}

var gradesRmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"delete"},
	Short:   "Delete a recorded score",
	Args:    cobra.ExactArgs(1),
	RunE: withGradebook(func(cmd *cobra.Command, g *grades.Gradebook, args []string) error {
		s, err := resolveScore(g, args[0])
		if err != nil {
			return err
		}
		return gradeError(g.Delete(cmd.Context(), s.ID))
	}),
}

var gradesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show class statistics",
	Args:  cobra.NoArgs,
	RunE: withGradebook(func(_ *cobra.Command, g *grades.Gradebook, _ []string) error {
		st := g.Stats()
		if st.Empty {
			fmt.Println("No scores recorded.")
			return nil
		}
		fmt.Printf("Average: %s\nHighest: %.1f\nLowest: %.1f\nStudents: %d\nEntries: %d\n",
			st.AverageText(), st.Highest, st.Lowest, st.Students, st.Count)
		return nil
	}),
}

var gradesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a csv or pdf report",
	Args:  cobra.NoArgs,
	RunE: withGradebook(func(cmd *cobra.Command, g *grades.Gradebook, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("output")
		raw, err := g.Export(format)
		if errors.Is(err, grades.ErrUnknownFormat) {
			return clierr.Newf(clierr.InvalidInput, "unknown format %q (want csv or pdf)", format)
		}
		if err != nil {
			return clierr.New(clierr.InternalError, err.Error())
		}
		if out == "" || out == "-" {
			_, err = os.Stdout.Write(raw)
			return err
		}
		if err := os.WriteFile(out, raw, 0o644); err != nil {
			return clierr.New(clierr.StorageError, err.Error())
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
		return nil
	}),
}

func init() {
	gradesExportCmd.Flags().StringP("format", "f", grades.FormatCSV, "csv or pdf")
	gradesExportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	gradesCmd.AddCommand(gradesAddCmd, gradesListCmd, gradesEditCmd, gradesRmCmd, gradesStatsCmd, gradesExportCmd)
	rootCmd.AddCommand(gradesCmd)
}

func withGradebook(fn func(*cobra.Command, *grades.Gradebook, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, logQuiet, consoleNotifier(false))
		if err != nil {
			return err
		}
		defer a.Close()
		g, err := grades.New(cmd.Context(), grades.Options{
			Persistence: storage.NewScoreSnapshots(a.blobs),
			Notifier:    a.notifier,
		})
		if err != nil {
			return clierr.New(clierr.StorageError, err.Error())
		}
		return fn(cmd, g, args)
	}
}

func parseScore(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, clierr.Newf(clierr.InvalidInput, "score %q is not a number", raw)
	}
	return v, nil
}

func resolveScore(g *grades.Gradebook, ref string) (model.Score, error) {
	var match []model.Score
	for _, s := range g.Entries() {
		if s.ID == ref {
			return s, nil
		}
		if ref != "" && strings.HasPrefix(s.ID, ref) {
			match = append(match, s)
		}
	}
	switch len(match) {
	case 0:
		return model.Score{}, clierr.Newf(clierr.ScoreNotFound, "no score matches %q", ref)
	case 1:
		return match[0], nil
	default:
		return model.Score{}, clierr.Newf(clierr.AmbiguousID, "%q matches %d scores; use more characters", ref, len(match))
	}
}

func gradeError(err error) error {
	if err == nil {
		return nil
	}
	if model.IsValidation(err) {
		return clierr.New(clierr.InvalidInput, err.Error())
	}
	return clierr.New(clierr.StorageError, err.Error())
}

func scoreRows(entries []model.Score) []views.ScoreRowData {
	rows := make([]views.ScoreRowData, 0, len(entries))
	for _, s := range entries {
		grade := s.Grade()
		rows = append(rows, views.ScoreRowData{
			Student: s.StudentName,
			Subject: s.Subject,
			Score:   strconv.FormatFloat(s.Value, 'f', -1, 64),
			Grade:   grade.Label,
			Color:   grade.Color,
			Date:    s.Date.Local().Format(scoreDateLayout),
			ID:      s.ID,
		})
	}
	return rows
}

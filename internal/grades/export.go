package grades

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/sandeepkv93/tasktimer/internal/model"
)

var ErrUnknownFormat = errors.New("grades: unknown export format")

const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// Export renders the gradebook as a csv or pdf report.
func (g *Gradebook) Export(format string) ([]byte, error) {
	entries := g.Entries()
	stats := g.Stats()
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV:
		return exportCSV(entries)
	case FormatPDF:
		return exportPDF(entries, stats)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func exportCSV(entries []model.Score) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	_ = w.Write([]string{"id", "student", "subject", "score", "grade", "date"})
	for _, s := range entries {
		_ = w.Write([]string{
			s.ID,
			s.StudentName,
			s.Subject,
			strconv.FormatFloat(s.Value, 'f', -1, 64),
			s.Grade().Label,
			s.Date.Format("2006-01-02"),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("grades: write csv: %w", err)
	}
	return b.Bytes(), nil
}

func exportPDF(entries []model.Score, stats Stats) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Grade Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	if stats.Empty {
		pdf.MultiCell(0, 6, "No scores recorded.", "0", "L", false)
	} else {
		summary := fmt.Sprintf("Average %s   Highest %g   Lowest %g   Students %d",
			stats.AverageText(), stats.Highest, stats.Lowest, stats.Students)
		pdf.MultiCell(0, 6, summary, "0", "L", false)
		pdf.Ln(4)
	}

	for _, s := range entries {
		grade := s.Grade()
		r, gr, b := hexColor(grade.Color)
		pdf.SetTextColor(r, gr, b)
		line := fmt.Sprintf("%s  %s  %s  %g/20  %s",
			s.Date.Format("2006-01-02"), s.StudentName, s.Subject, s.Value, grade.Label)
		pdf.MultiCell(0, 6, line, "0", "L", false)
	}
	pdf.SetTextColor(0, 0, 0)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("grades: write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func hexColor(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

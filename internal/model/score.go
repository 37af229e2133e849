package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	ScoreMin = 0.0
	ScoreMax = 20.0
)

type Score struct {
	ID          string
	StudentName string
	Subject     string
	Value       float64
	Date        time.Time
}

type Grade struct {
	Label string
	Color string
}

var gradeBands = []struct {
	min   float64
	grade Grade
}{
	{18, Grade{Label: "Excellent", Color: "#059669"}},
	{16, Grade{Label: "Very Good", Color: "#0284c7"}},
	{14, Grade{Label: "Good", Color: "#9333ea"}},
	{12, Grade{Label: "Satisfactory", Color: "#f97316"}},
	{10, Grade{Label: "Pass", Color: "#dc2626"}},
}

var gradeFail = Grade{Label: "Fail", Color: "#7f1d1d"}

func GradeFor(score float64) Grade {
	for _, band := range gradeBands {
		if score >= band.min {
			return band.grade
		}
	}
	return gradeFail
}

func ValidateScoreValue(v float64) error {
	if math.IsNaN(v) || v < ScoreMin || v > ScoreMax {
		return &ValidationError{Field: "score", Message: fmt.Sprintf("enter a valid score between %g and %g", ScoreMin, ScoreMax)}
	}
	return nil
}

func (s Score) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return &ValidationError{Field: "id", Message: "score id is required"}
	}
	if strings.TrimSpace(s.StudentName) == "" || strings.TrimSpace(s.Subject) == "" {
		return &ValidationError{Field: "score", Message: "please fill in all fields"}
	}
	return ValidateScoreValue(s.Value)
}

func (s Score) Grade() Grade {
	return GradeFor(s.Value)
}

package model

import (
	"math"
	"testing"
	"time"
)

func TestGradeFor(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{20, "Excellent"},
		{18, "Excellent"},
		{17.5, "Very Good"},
		{14, "Good"},
		{12.25, "Satisfactory"},
		{10, "Pass"},
		{9.99, "Fail"},
		{0, "Fail"},
	}
	for _, tc := range cases {
		if got := GradeFor(tc.score).Label; got != tc.want {
			t.Fatalf("GradeFor(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestScoreValidate(t *testing.T) {
	s := Score{ID: "s-1", StudentName: "Ana", Subject: "Math", Value: 15, Date: time.Now()}
	if err := s.Validate(); err != nil {
		t.Fatalf("expected valid score: %v", err)
	}
	for _, v := range []float64{-1, 20.5, math.NaN()} {
		s.Value = v
		if !IsValidation(s.Validate()) {
			t.Fatalf("expected validation error for %v", v)
		}
	}
	s.Value = 10
	s.Subject = " "
	if !IsValidation(s.Validate()) {
		t.Fatal("expected validation error for empty subject")
	}
}

package commands

import (
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/tasktimer/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent", TypeAdd},
		{":edit 2 pay rent today", TypeEdit},
		{"toggle 1", TypeToggle},
		{"done 1", TypeToggle},
		{"rm 3", TypeDelete},
		{"start #4", TypeStart},
		{"pause 4", TypePause},
		{"filter Active", TypeFilter},
		{"search rent", TypeSearch},
		{"search", TypeSearch},
		{"clear", TypeClear},
		{"MARKALL", TypeMarkAll},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddDuration(t *testing.T) {
	cases := []struct {
		in   string
		text string
		d    time.Duration
	}{
		{"add write report", "write report", 0},
		{"add write report for 25", "write report", 25 * time.Minute},
		{"add stretch for 30 sec", "stretch", 30 * time.Second},
		{"add deep work for 1h30m", "deep work", 90 * time.Minute},
		{"add wait for bus", "wait for bus", 0},
		{"add look for keys for 5min", "look for keys", 5 * time.Minute},
		{"add stretch for inf", "stretch for inf", 0},
	}
	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Add.Text != tc.text || cmd.Add.Duration != tc.d {
			t.Fatalf("parse %q = %+v, want text=%q d=%v", tc.in, *cmd.Add, tc.text, tc.d)
		}
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"25", 25 * time.Minute, true},
		{"1.5", 90 * time.Second, true},
		{"45 sec", 45 * time.Second, true},
		{"2 minutes", 2 * time.Minute, true},
		{"90s", 90 * time.Second, true},
		{"-5", 0, false},
		{"soon", 0, false},
		{"", 0, false},
		{"inf", 0, false},
		{"-inf", 0, false},
		{"nan", 0, false},
		{"1e300", 0, false},
		{"1e300 sec", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDuration(tc.in)
		if (err == nil) != tc.ok || got != tc.want {
			t.Fatalf("ParseDuration(%q) = %v, %v", tc.in, got, err)
		}
	}
}

func TestParseRejectsBadArguments(t *testing.T) {
	for _, in := range []string{"add   ", "edit 1", "edit x text", "toggle", "delete 0", "start two", "filter done", "clear now"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/snooze 1 2h")
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
	if _, err := Parse("  / "); err == nil {
		t.Fatal("expected empty input error")
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("filter completed")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Filter: func(a FilterArgs) (Result, error) {
			called = true
			if a.Filter != model.FilterCompleted {
				t.Fatalf("unexpected filter: %q", a.Filter)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("markall")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}

// Package commands parses the command palette grammar and dispatches parsed
// commands to handlers supplied by the presentation layer.
package commands

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/tasktimer/internal/model"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeEdit    Type = "edit"
	TypeToggle  Type = "toggle"
	TypeDelete  Type = "delete"
	TypeStart   Type = "start"
	TypePause   Type = "pause"
	TypeFilter  Type = "filter"
	TypeSearch  Type = "search"
	TypeClear   Type = "clear"
	TypeMarkAll Type = "markall"
)

var aliases = map[string]Type{
	"rm":       TypeDelete,
	"del":      TypeDelete,
	"done":     TypeToggle,
	"find":     TypeSearch,
	"mark-all": TypeMarkAll,
}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Text     string
	Duration time.Duration
}

type EditArgs struct {
	Row  int
	Text string
}

// RowArgs addresses a task by its 1-based row in the visible list.
type RowArgs struct {
	Row int
}

type FilterArgs struct {
	Filter model.Filter
}

type SearchArgs struct {
	Query string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Edit   *EditArgs
	Row    *RowArgs
	Filter *FilterArgs
	Search *SearchArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimLeft(raw, "/:"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]
	typ := Type(head)
	if alias, ok := aliases[head]; ok {
		typ = alias
	}

	switch typ {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeEdit:
		return parseEdit(input, args)
	case TypeToggle, TypeDelete, TypeStart, TypePause:
		return parseRow(input, typ, args)
	case TypeFilter:
		return parseFilter(input, args)
	case TypeSearch:
		return Command{Type: TypeSearch, Raw: input, Search: &SearchArgs{Query: strings.Join(args, " ")}}, nil
	case TypeClear, TypeMarkAll:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes no arguments", typ)}
		}
		return Command{Type: typ, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd splits "add <text> for <duration>". When the words after the last
// "for" are not a duration they stay part of the text.
func parseAdd(raw string, args []string) (Command, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task text"}
	}
	var d time.Duration
	for i := len(args) - 2; i >= 1; i-- {
		if !strings.EqualFold(args[i], "for") {
			continue
		}
		parsed, err := ParseDuration(strings.Join(args[i+1:], " "))
		if err != nil {
			break
		}
		d = parsed
		text = strings.Join(args[:i], " ")
		break
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: text, Duration: d}}, nil
}

func parseEdit(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "edit requires a row number and new text"}
	}
	row, err := parseRowNumber(args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeEdit, Raw: raw, Edit: &EditArgs{Row: row, Text: strings.Join(args[1:], " ")}}, nil
}

func parseRow(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a row number", typ)}
	}
	row, err := parseRowNumber(args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: typ, Raw: raw, Row: &RowArgs{Row: row}}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "filter requires all, active or completed"}
	}
	f, err := model.ParseFilter(strings.ToLower(args[0]))
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown filter: %s", args[0])}
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Filter: f}}, nil
}

func parseRowNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil || n < 1 {
		return 0, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid row number: %s", s)}
	}
	return n, nil
}

// ParseDuration accepts Go duration syntax ("1h30m", "90s"), a bare number of
// minutes ("25"), or a number followed by "sec"/"min" ("30 sec", "5min").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, &CommandError{Code: ErrCodeInvalidArgument, Message: "duration is empty"}
	}
	invalid := &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid duration: %s", s)}

	compact := strings.ReplaceAll(s, " ", "")
	unit := time.Minute
	for _, u := range []struct {
		suffix string
		d      time.Duration
	}{
		{"seconds", time.Second}, {"second", time.Second}, {"secs", time.Second}, {"sec", time.Second},
		{"minutes", time.Minute}, {"minute", time.Minute}, {"mins", time.Minute}, {"min", time.Minute},
	} {
		if strings.HasSuffix(compact, u.suffix) {
			compact = strings.TrimSuffix(compact, u.suffix)
			unit = u.d
			break
		}
	}
	if n, err := strconv.ParseFloat(compact, 64); err == nil {
		if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 || n > float64(math.MaxInt64)/float64(unit) {
			return 0, invalid
		}
		return time.Duration(n * float64(unit)), nil
	}
	d, err := time.ParseDuration(compact)
	if err != nil || d < 0 {
		return 0, invalid
	}
	return d, nil
}

package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add     func(AddArgs) (Result, error)
	Edit    func(EditArgs) (Result, error)
	Toggle  func(RowArgs) (Result, error)
	Delete  func(RowArgs) (Result, error)
	Start   func(RowArgs) (Result, error)
	Pause   func(RowArgs) (Result, error)
	Filter  func(FilterArgs) (Result, error)
	Search  func(SearchArgs) (Result, error)
	Clear   func() (Result, error)
	MarkAll func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeEdit:
		if handlers.Edit == nil {
			return missing(cmd.Type)
		}
		return handlers.Edit(*cmd.Edit)
	case TypeToggle:
		if handlers.Toggle == nil {
			return missing(cmd.Type)
		}
		return handlers.Toggle(*cmd.Row)
	case TypeDelete:
		if handlers.Delete == nil {
			return missing(cmd.Type)
		}
		return handlers.Delete(*cmd.Row)
	case TypeStart:
		if handlers.Start == nil {
			return missing(cmd.Type)
		}
		return handlers.Start(*cmd.Row)
	case TypePause:
		if handlers.Pause == nil {
			return missing(cmd.Type)
		}
		return handlers.Pause(*cmd.Row)
	case TypeFilter:
		if handlers.Filter == nil {
			return missing(cmd.Type)
		}
		return handlers.Filter(*cmd.Filter)
	case TypeSearch:
		if handlers.Search == nil {
			return missing(cmd.Type)
		}
		return handlers.Search(*cmd.Search)
	case TypeClear:
		if handlers.Clear == nil {
			return missing(cmd.Type)
		}
		return handlers.Clear()
	case TypeMarkAll:
		if handlers.MarkAll == nil {
			return missing(cmd.Type)
		}
		return handlers.MarkAll()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) (Result, error) {
	return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}

package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Desktop shows a native notification through notify-send or osascript. Other
// platforms are a silent no-op.
type Desktop struct{}

func (Desktop) Notify(ctx context.Context, msg Message) error {
	title := msg.Title
	if title == "" {
		title = "tasktimer"
	}
	switch runtime.GOOS {
	case "linux":
		return exec.CommandContext(ctx, "notify-send", title, msg.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(msg.Body), escapeAppleScript(title))
		return exec.CommandContext(ctx, "osascript", "-e", script).Run()
	default:
		return nil
	}
}

var appleScriptEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeAppleScript(s string) string {
	return appleScriptEscaper.Replace(s)
}

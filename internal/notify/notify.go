// Package notify defines the user-visible notification capability. The
// subsystems report non-fatal conditions (storage failures, empty-list
// exports, successful saves) through a Notifier injected by the host;
// they never render messages themselves.
package notify

import (
	"fmt"
	"io"
)

// Level classifies a notification.
type Level int

const (
	Info Level = iota
	Success
	Error
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Notifier receives user-visible messages.
type Notifier interface {
	Notify(level Level, message string)
}

// Func adapts a function to the Notifier interface.
type Func func(level Level, message string)

func (f Func) Notify(level Level, message string) { f(level, message) }

// Writer is a Notifier that prints one line per message, prefixed with the
// level. The CLI points it at stderr.
type Writer struct {
	Out io.Writer
}

func (w *Writer) Notify(level Level, message string) {
	fmt.Fprintf(w.Out, "%s: %s\n", level, message)
}

// Discard drops all notifications.
type Discard struct{}

func (Discard) Notify(Level, string) {}

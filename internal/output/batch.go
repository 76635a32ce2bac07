package output

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Aman-CERP/filetree/internal/watcher"
)

// eventMarks are the one-character prefixes of change lines.
var eventMarks = map[watcher.EventType]string{
	watcher.Created:  "+",
	watcher.Modified: "~",
	watcher.Deleted:  "-",
	watcher.Moved:    ">",
}

func (w *Writer) eventStyle(t watcher.EventType) lipgloss.Style {
	switch t {
	case watcher.Created:
		return w.styles.Created
	case watcher.Modified:
		return w.styles.Modified
	case watcher.Deleted:
		return w.styles.Deleted
	default:
		return w.styles.Moved
	}
}

// Batch prints one line per change, prefixed with the time the batch was
// received.
func (w *Writer) Batch(at time.Time, b watcher.Batch) {
	stamp := w.styles.Dim.Render(at.Format("15:04:05"))
	for _, ev := range b {
		mark := eventMarks[ev.Type]
		if mark == "" {
			mark = "?"
		}
		style := w.eventStyle(ev.Type)
		_, _ = fmt.Fprintf(w.out, "%s %s %-8s %s\n", stamp, style.Render(mark), style.Render(string(ev.Type)), ev.Path)
	}
}

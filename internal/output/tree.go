package output

import (
	"fmt"
	"strings"

	"github.com/Aman-CERP/filetree/internal/tree"
)

const (
	branchMid  = "├── "
	branchLast = "└── "
	pipeIndent = "│   "
	gapIndent  = "    "
)

// RenderTree draws entries with box-drawing branches, one line per entry.
// Folders get a trailing slash.
func RenderTree(entries []*tree.Entry, styles Styles) string {
	var sb strings.Builder
	renderLevel(&sb, entries, "", styles)
	return sb.String()
}

func renderLevel(sb *strings.Builder, entries []*tree.Entry, prefix string, styles Styles) {
	for i, e := range entries {
		last := i == len(entries)-1
		branch, indent := branchMid, pipeIndent
		if last {
			branch, indent = branchLast, gapIndent
		}

		sb.WriteString(styles.Branch.Render(prefix + branch))
		if e.IsFolder() {
			sb.WriteString(styles.Folder.Render(e.Name + "/"))
		} else {
			sb.WriteString(styles.File.Render(e.Name))
		}
		sb.WriteByte('\n')

		if e.IsFolder() {
			renderLevel(sb, e.Children, prefix+indent, styles)
		}
	}
}

// Tree prints entries under a root label followed by a count summary.
func (w *Writer) Tree(label string, entries []*tree.Entry) {
	_, _ = fmt.Fprintln(w.out, w.styles.Header.Render(label))
	_, _ = fmt.Fprint(w.out, RenderTree(entries, w.styles))
	files, folders := tree.Count(entries)
	_, _ = fmt.Fprintln(w.out)
	_, _ = fmt.Fprintln(w.out, w.styles.Dim.Render(Summary(files, folders)))
}

// Summary describes entry counts, e.g. "3 folders, 1 file".
func Summary(files, folders int) string {
	return fmt.Sprintf("%s, %s", plural(folders, "folder"), plural(files, "file"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/filetree/internal/tree"
	"github.com/Aman-CERP/filetree/internal/watcher"
)

func TestWriter_StatusLines(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer)
		want  string
	}{
		{"status with icon", func(w *Writer) { w.Status("*", "scanning") }, "* scanning\n"},
		{"status without icon", func(w *Writer) { w.Status("", "detail") }, "   detail\n"},
		{"success", func(w *Writer) { w.Successf("saved %d files", 2) }, "✓ saved 2 files\n"},
		{"warning", func(w *Writer) { w.Warningf("root %s skipped", "src") }, "! root src skipped\n"},
		{"error", func(w *Writer) { w.Error("failed") }, "✗ failed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a plain writer
			buf := &bytes.Buffer{}
			w := NewPlain(buf)

			// When: writing the line
			tt.write(w)

			// Then: the exact text is printed
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestNew_BufferIsNotInteractive(t *testing.T) {
	// Given/When: a writer over a buffer
	w := New(&bytes.Buffer{})

	// Then: color is off
	assert.False(t, w.Interactive())
	assert.False(t, IsTTY(&bytes.Buffer{}))
}

func TestDetectNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, DetectNoColor())
}

func sampleTree() []*tree.Entry {
	return []*tree.Entry{
		{Name: "src", Kind: tree.KindFolder, Path: "src", Children: []*tree.Entry{
			{Name: "main.go", Kind: tree.KindFile, Path: "src/main.go"},
			{Name: "lib", Kind: tree.KindFolder, Path: "src/lib", Children: []*tree.Entry{
				{Name: "util.go", Kind: tree.KindFile, Path: "src/lib/util.go"},
			}},
		}},
		{Name: "README.md", Kind: tree.KindFile, Path: "README.md"},
	}
}

func TestRenderTree(t *testing.T) {
	// Given: a nested tree
	entries := sampleTree()

	// When: rendering without color
	got := RenderTree(entries, NoColorStyles())

	// Then: branches reflect nesting and folders carry a slash
	want := strings.Join([]string{
		"├── src/",
		"│   ├── main.go",
		"│   └── lib/",
		"│       └── util.go",
		"└── README.md",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRenderTree_Empty(t *testing.T) {
	assert.Empty(t, RenderTree(nil, NoColorStyles()))
}

func TestWriter_Tree_PrintsSummary(t *testing.T) {
	// Given: a plain writer
	buf := &bytes.Buffer{}
	w := NewPlain(buf)

	// When: printing the tree
	w.Tree("project", sampleTree())

	// Then: label, entries and counts are printed
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "project\n"))
	assert.Contains(t, out, "└── README.md")
	assert.True(t, strings.HasSuffix(out, "2 folders, 3 files\n"))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "1 folder, 1 file", Summary(1, 1))
	assert.Equal(t, "0 folders, 2 files", Summary(2, 0))
}

func TestWriter_Batch(t *testing.T) {
	// Given: a batch with one of each event type
	buf := &bytes.Buffer{}
	w := NewPlain(buf)
	at := time.Date(2024, 5, 1, 9, 30, 15, 0, time.UTC)
	b := watcher.Batch{
		{Type: watcher.Created, Path: "a.txt"},
		{Type: watcher.Modified, Path: "b.txt"},
		{Type: watcher.Deleted, Path: "c.txt"},
		{Type: watcher.Moved, Path: "d.txt"},
	}

	// When: printing the batch
	w.Batch(at, b)

	// Then: one marked line per event in batch order
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "09:30:15 + created  a.txt", lines[0])
	assert.Equal(t, "09:30:15 ~ modified b.txt", lines[1])
	assert.Equal(t, "09:30:15 - deleted  c.txt", lines[2])
	assert.Equal(t, "09:30:15 > moved    d.txt", lines[3])
}

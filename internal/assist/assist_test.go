package assist

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/filetree/internal/config"
	fterrors "github.com/Aman-CERP/filetree/internal/errors"
	"github.com/Aman-CERP/filetree/internal/filestore"
	"github.com/Aman-CERP/filetree/internal/logging"
)

// recordingGenerator returns the prompt's last line and remembers prompts.
type recordingGenerator struct {
	mu      sync.Mutex
	prompts []string
	failOn  string
}

func (g *recordingGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	if g.failOn != "" && strings.Contains(prompt, g.failOn) {
		return "", errors.New("generator failed")
	}
	lines := strings.Split(strings.TrimSpace(prompt), "\n")
	return "out:" + lines[len(lines)-1], nil
}

func newAssistant(t *testing.T, gen Generator, files map[string]string) *Assistant {
	t.Helper()
	store := filestore.New(config.PathsConfig{SelfDir: t.TempDir(), GeneratedHome: t.TempDir()}, logging.Discard())
	for name, content := range files {
		_, err := store.Save("shop", name, []byte(content))
		require.NoError(t, err)
	}
	return New(store, gen, logging.Discard())
}

func TestAssistant_SingleFileOperations(t *testing.T) {
	tests := []struct {
		name     string
		run      func(a *Assistant) (Result, error)
		contains string
	}{
		{"analyze", func(a *Assistant) (Result, error) {
			return a.Analyze(context.Background(), "shop", "a.go", "deep")
		}, "deep depth"},
		{"reply", func(a *Assistant) (Result, error) {
			return a.Reply(context.Background(), "shop", "a.go", "add logging")
		}, "add logging"},
		{"rewrite", func(a *Assistant) (Result, error) {
			return a.Rewrite(context.Background(), "shop", "a.go", "functional")
		}, "functional style"},
		{"append", func(a *Assistant) (Result, error) {
			return a.Append(context.Background(), "shop", "a.go", "the end")
		}, "at the end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &recordingGenerator{}
			a := newAssistant(t, gen, map[string]string{"a.go": "package a"})

			r, err := tt.run(a)

			require.NoError(t, err)
			assert.Equal(t, "a.go", r.File)
			assert.NotEmpty(t, r.Text)
			require.Len(t, gen.prompts, 1)
			assert.Contains(t, gen.prompts[0], "package a")
			assert.Contains(t, gen.prompts[0], tt.contains)
		})
	}
}

func TestAssistant_MissingFile(t *testing.T) {
	a := newAssistant(t, &recordingGenerator{}, nil)

	_, err := a.Analyze(context.Background(), "shop", "ghost.go", "shallow")

	assert.ErrorIs(t, err, fterrors.ErrNotFound)
}

func TestAssistant_MultiKeepsInputOrder(t *testing.T) {
	files := map[string]string{"a": "alpha", "b": "beta", "c": "gamma", "d": "delta", "e": "epsilon"}
	order := []string{"e", "c", "a", "d", "b"}

	for _, mode := range []string{ModeParallel, ModeSequential} {
		t.Run(mode, func(t *testing.T) {
			a := newAssistant(t, &recordingGenerator{}, files)

			results, err := a.Multi(context.Background(), OpRewrite, "shop", order, "terse", mode)

			require.NoError(t, err)
			require.Len(t, results, len(order))
			for i, name := range order {
				assert.Equal(t, name, results[i].File)
				assert.Equal(t, "out:"+files[name], results[i].Text)
			}
		})
	}
}

func TestAssistant_MultiFailure(t *testing.T) {
	a := newAssistant(t, &recordingGenerator{failOn: "beta"}, map[string]string{"a": "alpha", "b": "beta"})

	_, err := a.Multi(context.Background(), OpAnalyze, "shop", []string{"a", "b"}, "deep", ModeParallel)
	assert.Error(t, err)

	_, err = a.Multi(context.Background(), OpAnalyze, "shop", []string{"a"}, "deep", "round-robin")
	assert.Equal(t, fterrors.ErrCodeInvalidInput, fterrors.GetCode(err))
}

func TestAssistant_AnalyzeDependencies(t *testing.T) {
	gen := &recordingGenerator{}
	a := newAssistant(t, gen, map[string]string{"a": "import b", "b": "package b"})

	_, err := a.AnalyzeDependencies(context.Background(), "shop", []string{"a", "b"}, "module")

	require.NoError(t, err)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "module scope")
	assert.Contains(t, gen.prompts[0], "import b\n\npackage b")
}

func TestParseOp(t *testing.T) {
	op, err := ParseOp("reply")
	require.NoError(t, err)
	assert.Equal(t, OpReply, op)

	_, err = ParseOp("process")
	assert.Error(t, err)
}

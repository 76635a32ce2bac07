package roots

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/filetree/internal/config"
	fterrors "github.com/Aman-CERP/filetree/internal/errors"
	"github.com/Aman-CERP/filetree/internal/logging"
	"github.com/Aman-CERP/filetree/internal/tree"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newResolver(t *testing.T, paths config.PathsConfig) *Resolver {
	t.Helper()
	r, err := New(paths, config.NewConfig().Scan, nil, logging.Discard())
	require.NoError(t, err)
	return r
}

func names(entries []*tree.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

// =============================================================================
// Resolve
// =============================================================================

func TestResolve_KnownPathTypes(t *testing.T) {
	paths := config.PathsConfig{
		UIDir:           "/ui",
		RequirementsDir: "/req",
		SelfRoots:       []string{"/self/src", "/self/README.md"},
		SelfIgnoreFile:  "/self/.gitignore",
		GeneratedHome:   "/gen",
	}
	r := newResolver(t, paths)

	tests := []struct {
		pathType string
		want     Plan
	}{
		{TypeFileExplorer, Plan{PathType: TypeFileExplorer, Roots: []string{"/ui"}, IgnoreFile: filepath.Join("/ui", ".gitignore")}},
		{TypeRequirements, Plan{PathType: TypeRequirements, Roots: []string{"/req"}, IgnoreFile: filepath.Join("/req", ".gitignore")}},
		{TypeSelf, Plan{PathType: TypeSelf, Roots: []string{"/self/src", "/self/README.md"}, IgnoreFile: "/self/.gitignore", Multi: true}},
		{"shop", Plan{PathType: "shop", Roots: []string{filepath.Join("/gen", "shop")}, IgnoreFile: filepath.Join("/gen", "shop", ".gitignore")}},
	}

	for _, tt := range tests {
		t.Run(tt.pathType, func(t *testing.T) {
			got, err := r.Resolve(tt.pathType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_RejectsEscapingProjectNames(t *testing.T) {
	r := newResolver(t, config.PathsConfig{GeneratedHome: "/gen"})

	for _, pt := range []string{"", ".", "..", "../etc", "a/b", `a\b`} {
		t.Run(pt, func(t *testing.T) {
			_, err := r.Resolve(pt)
			require.Error(t, err)
			assert.Equal(t, fterrors.ErrCodeInvalidPath, fterrors.GetCode(err))
		})
	}
}

// =============================================================================
// Structure
// =============================================================================

func TestStructure_SingleRootUsesItsIgnoreFile(t *testing.T) {
	// Given: a generated project with a .gitignore
	home := t.TempDir()
	project := filepath.Join(home, "shop")
	write(t, filepath.Join(project, ".gitignore"), "*.log\ndist/\n")
	write(t, filepath.Join(project, "app.js"), "x")
	write(t, filepath.Join(project, "debug.log"), "x")
	write(t, filepath.Join(project, "dist", "bundle.js"), "x")
	r := newResolver(t, config.PathsConfig{GeneratedHome: home})

	// When
	entries, err := r.Structure(context.Background(), "shop")

	// Then
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{".gitignore", "app.js"}, names(entries))
}

func TestStructure_SingleMissingRootFails(t *testing.T) {
	r := newResolver(t, config.PathsConfig{GeneratedHome: t.TempDir()})

	_, err := r.Structure(context.Background(), "nothing-here")

	require.Error(t, err)
	assert.ErrorIs(t, err, fterrors.ErrRootNotAccessible)
}

func TestStructure_MultiRootConcatenatesInPlanOrder(t *testing.T) {
	// Given: a self layout with a directory root, file roots and a missing root
	base := t.TempDir()
	write(t, filepath.Join(base, ".gitignore"), "secret.txt\nDockerfile\n")
	write(t, filepath.Join(base, "src", "main.go"), "package main")
	write(t, filepath.Join(base, "src", "secret.txt"), "x")
	write(t, filepath.Join(base, "Dockerfile"), "FROM scratch")
	write(t, filepath.Join(base, "README.md"), "# readme")

	readme := filepath.Join(base, "README.md")
	r := newResolver(t, config.PathsConfig{
		SelfRoots: []string{
			filepath.Join(base, "src"),
			filepath.Join(base, "Dockerfile"),
			filepath.Join(base, "missing.yml"),
			readme,
		},
		SelfIgnoreFile: filepath.Join(base, ".gitignore"),
	})

	// When
	entries, err := r.Structure(context.Background(), TypeSelf)

	// Then: directory children first, ignored and missing roots skipped
	require.NoError(t, err)
	require.Equal(t, []string{"main.go", "README.md"}, names(entries))
	assert.Equal(t, "main.go", entries[0].Path)
	assert.Equal(t, tree.KindFile, entries[1].Kind)
	assert.Equal(t, filepath.ToSlash(readme), entries[1].Path)
}

func TestStructure_MultiRootWithoutIgnoreFile(t *testing.T) {
	base := t.TempDir()
	write(t, filepath.Join(base, "a", "node_modules", "x.js"), "x")
	write(t, filepath.Join(base, "a", "index.js"), "x")
	r := newResolver(t, config.PathsConfig{
		SelfRoots:      []string{filepath.Join(base, "a")},
		SelfIgnoreFile: filepath.Join(base, "no-such-ignore"),
	})

	entries, err := r.Structure(context.Background(), TypeSelf)

	require.NoError(t, err)
	assert.Equal(t, []string{"index.js"}, names(entries))
}

func TestStructure_CancelledContext(t *testing.T) {
	base := t.TempDir()
	write(t, filepath.Join(base, "a", "b.txt"), "x")
	r := newResolver(t, config.PathsConfig{SelfRoots: []string{filepath.Join(base, "a")}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Structure(ctx, TypeSelf)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestStructure_StrictModeMatchesRelativePaths(t *testing.T) {
	home := t.TempDir()
	project := filepath.Join(home, "p")
	write(t, filepath.Join(project, ".gitignore"), "/build\n")
	write(t, filepath.Join(project, "build", "out.bin"), "x")
	write(t, filepath.Join(project, "src", "build", "keep.go"), "x")

	scan := config.NewConfig().Scan
	scan.MatchMode = config.MatchModeGitignore
	r, err := New(config.PathsConfig{GeneratedHome: home}, scan, nil, logging.Discard())
	require.NoError(t, err)

	entries, err := r.Structure(context.Background(), "p")

	require.NoError(t, err)
	files, _ := tree.Count(entries)
	assert.ElementsMatch(t, []string{".gitignore", "src"}, names(entries))
	assert.Equal(t, 2, files)
}

// =============================================================================
// GeneratedProjects
// =============================================================================

func TestGeneratedProjects_ListsFolders(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "shop"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(home, "blog"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(home, "tmp-cache"), 0o755))
	write(t, filepath.Join(home, "notes.txt"), "x")
	ignoreFile := filepath.Join(t.TempDir(), ".gitignore")
	write(t, ignoreFile, "tmp-*\n")

	r := newResolver(t, config.PathsConfig{GeneratedHome: home, SelfIgnoreFile: ignoreFile})

	projects, err := r.GeneratedProjects(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []Project{
		{Name: "blog", Path: "../generated/blog/frontend/App"},
		{Name: "shop", Path: "../generated/shop/frontend/App"},
	}, projects)
}

func TestGeneratedProjects_MissingHomeIsEmpty(t *testing.T) {
	r := newResolver(t, config.PathsConfig{GeneratedHome: filepath.Join(t.TempDir(), "absent")})

	projects, err := r.GeneratedProjects(context.Background())

	require.NoError(t, err)
	assert.Empty(t, projects)
	assert.NotNil(t, projects)
}

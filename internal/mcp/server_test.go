package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/filetree/internal/config"
	"github.com/Aman-CERP/filetree/internal/filestore"
	"github.com/Aman-CERP/filetree/internal/logging"
	"github.com/Aman-CERP/filetree/internal/roots"
	"github.com/Aman-CERP/filetree/pkg/version"
)

type fixture struct {
	server *Server
	ui     string
	home   string
	files  *filestore.Store
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ui := t.TempDir()
	home := t.TempDir()
	paths := config.PathsConfig{
		UIDir:          ui,
		GeneratedHome:  home,
		SelfDir:        t.TempDir(),
		IgnoreFileName: ".gitignore",
	}
	logger := logging.Discard()

	resolver, err := roots.New(paths, config.NewConfig().Scan, nil, logger)
	require.NoError(t, err)
	files := filestore.New(paths, logger)

	s, err := NewServer(resolver, files, logger)
	require.NoError(t, err)
	return &fixture{server: s, ui: ui, home: home, files: files}
}

func TestNewServer_RequiresResolver(t *testing.T) {
	// When: creating a server without a resolver
	s, err := NewServer(nil, nil, nil)

	// Then: construction fails
	require.Error(t, err)
	assert.Nil(t, s)
}

func TestServer_Info(t *testing.T) {
	f := newFixture(t)

	name, ver := f.server.Info()

	assert.Equal(t, "filetree", name)
	assert.Equal(t, version.Version, ver)
	assert.NotNil(t, f.server.MCPServer())
}

func TestServer_Serve_UnknownTransport(t *testing.T) {
	f := newFixture(t)

	err := f.server.Serve(context.Background(), "sse")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transport")
}

func TestReadStructure_RendersResource(t *testing.T) {
	// Given: a UI tree with an ignored build folder
	f := newFixture(t)
	write(t, filepath.Join(f.ui, ".gitignore"), "build/\n")
	write(t, filepath.Join(f.ui, "App.tsx"), "x")
	write(t, filepath.Join(f.ui, "build", "out.js"), "x")

	// When: reading the file_explorer resource
	res, err := f.server.readStructure(context.Background(), roots.TypeFileExplorer)

	// Then: the outline lists App.tsx but not the build folder
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "filetree://structure/file_explorer", res.Contents[0].URI)
	assert.Contains(t, res.Contents[0].Text, "App.tsx")
	assert.NotContains(t, res.Contents[0].Text, "build")
}

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/filetree/internal/tree"
)

func requireMCPCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	var mcpErr *MCPError
	require.True(t, errors.As(err, &mcpErr), "expected *MCPError, got %T", err)
	assert.Equal(t, code, mcpErr.Code)
}

// =============================================================================
// directory_structure
// =============================================================================

func TestStructureTool_TreeFormat(t *testing.T) {
	// Given: a UI tree with a nested folder
	f := newFixture(t)
	write(t, filepath.Join(f.ui, "src", "main.ts"), "x")
	write(t, filepath.Join(f.ui, "node_modules", "dep", "index.js"), "x")

	// When: calling the tool with the default format
	_, out, err := f.server.mcpStructureHandler(context.Background(), nil, StructureInput{PathType: "file_explorer"})

	// Then: the outline and counts exclude node_modules
	require.NoError(t, err)
	assert.Equal(t, FormatTree, out.Format)
	assert.Equal(t, 1, out.Files)
	assert.Equal(t, 1, out.Folders)
	assert.Contains(t, out.Structure, "└── src/")
	assert.NotContains(t, out.Structure, "node_modules")
}

func TestStructureTool_JSONFormat(t *testing.T) {
	// Given: a generated project with one file
	f := newFixture(t)
	write(t, filepath.Join(f.home, "shop", "index.html"), "<html>")

	// When: requesting JSON
	_, out, err := f.server.mcpStructureHandler(context.Background(), nil, StructureInput{PathType: "shop", Format: "json"})

	// Then: the structure decodes to the entry list
	require.NoError(t, err)
	var entries []*tree.Entry
	require.NoError(t, json.Unmarshal([]byte(out.Structure), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "index.html", entries[0].Name)
	assert.Equal(t, "index.html", entries[0].Path)
}

func TestStructureTool_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input StructureInput
		code  int
	}{
		{"missing path type", StructureInput{}, ErrCodeInvalidParams},
		{"unknown format", StructureInput{PathType: "file_explorer", Format: "xml"}, ErrCodeInvalidParams},
		{"escaping project", StructureInput{PathType: ".."}, ErrCodeInvalidParams},
		{"missing project", StructureInput{PathType: "nope"}, ErrCodeRootNotAccessible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, _, err := f.server.mcpStructureHandler(context.Background(), nil, tt.input)

			requireMCPCode(t, err, tt.code)
		})
	}
}

func TestStructureTool_EmptyTree(t *testing.T) {
	f := newFixture(t)

	_, out, err := f.server.mcpStructureHandler(context.Background(), nil, StructureInput{PathType: "file_explorer", Format: "json"})

	require.NoError(t, err)
	assert.Equal(t, "[]", out.Structure)
}

// =============================================================================
// read_file
// =============================================================================

func TestReadFileTool(t *testing.T) {
	// Given: a stored file
	f := newFixture(t)
	_, err := f.files.Save("shop", "src/app.py", []byte("print('hi')\n"))
	require.NoError(t, err)

	// When: reading it
	_, out, err := f.server.mcpReadFileHandler(context.Background(), nil, ReadFileInput{Project: "shop", Name: "src/app.py"})

	// Then: content and MIME type come back
	require.NoError(t, err)
	assert.Equal(t, "print('hi')\n", out.Content)
	assert.Equal(t, "text/x-python", out.MIMEType)
}

func TestReadFileTool_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input ReadFileInput
		code  int
	}{
		{"missing params", ReadFileInput{Project: "shop"}, ErrCodeInvalidParams},
		{"missing file", ReadFileInput{Project: "shop", Name: "nope.txt"}, ErrCodeFileNotFound},
		{"escaping name", ReadFileInput{Project: "shop", Name: "../../etc/passwd"}, ErrCodeInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, os.MkdirAll(filepath.Join(f.home, "shop"), 0o755))

			_, _, err := f.server.mcpReadFileHandler(context.Background(), nil, tt.input)

			requireMCPCode(t, err, tt.code)
		})
	}
}

func TestReadFileTool_TooLarge(t *testing.T) {
	f := newFixture(t)
	_, err := f.files.Save("shop", "big.txt", []byte(strings.Repeat("a", MaxFileSize+1)))
	require.NoError(t, err)

	_, _, err = f.server.mcpReadFileHandler(context.Background(), nil, ReadFileInput{Project: "shop", Name: "big.txt"})

	requireMCPCode(t, err, ErrCodeFileTooLarge)
}

func TestReadFileTool_NoStore(t *testing.T) {
	f := newFixture(t)
	f.server.files = nil

	_, _, err := f.server.mcpReadFileHandler(context.Background(), nil, ReadFileInput{Project: "shop", Name: "a.txt"})

	requireMCPCode(t, err, ErrCodeInvalidParams)
}

// =============================================================================
// generated_projects
// =============================================================================

func TestProjectsTool(t *testing.T) {
	// Given: two generated projects
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(filepath.Join(f.home, "alpha"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(f.home, "beta"), 0o755))

	// When: listing
	_, out, err := f.server.mcpProjectsHandler(context.Background(), nil, ProjectsInput{})

	// Then: both appear with their app path
	require.NoError(t, err)
	require.Len(t, out.Projects, 2)
	byName := map[string]string{}
	for _, p := range out.Projects {
		byName[p.Name] = p.Path
	}
	assert.Equal(t, "../generated/alpha/frontend/App", byName["alpha"])
	assert.Equal(t, "../generated/beta/frontend/App", byName["beta"])
}

package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/filetree/internal/roots"
)

func TestProjectsCmd(t *testing.T) {
	// Given: a generated home with one project
	isolate(t)
	home := t.TempDir()
	t.Setenv("FILETREE_GENERATED_HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, "shop"), 0o755))

	// When: listing as JSON
	out, err := execute(t, "projects", "--json")

	// Then: the project and its app path are reported
	require.NoError(t, err)
	var projects []roots.Project
	require.NoError(t, json.Unmarshal([]byte(out), &projects))
	require.Len(t, projects, 1)
	assert.Equal(t, roots.Project{Name: "shop", Path: "../generated/shop/frontend/App"}, projects[0])
}

func TestProjectsCmd_Empty(t *testing.T) {
	isolate(t)
	t.Setenv("FILETREE_GENERATED_HOME", filepath.Join(t.TempDir(), "missing"))

	out, err := execute(t, "projects")

	require.NoError(t, err)
	assert.Contains(t, out, "No generated projects")
}

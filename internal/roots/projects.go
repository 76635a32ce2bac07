package roots

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Aman-CERP/filetree/internal/config"
	fterrors "github.com/Aman-CERP/filetree/internal/errors"
	"github.com/Aman-CERP/filetree/internal/ignore"
)

// Project is a generated application under GeneratedHome.
type Project struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// GeneratedProjects lists the project folders directly under GeneratedHome,
// sorted by name. Folders matched by the self ignore file are left out. A
// missing GeneratedHome yields an empty list.
func (r *Resolver) GeneratedProjects(ctx context.Context) ([]Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	home := config.ExpandHome(r.paths.GeneratedHome)
	entries, err := os.ReadDir(home)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("generated home missing", slog.String("path", home))
			return []Project{}, nil
		}
		return nil, fterrors.RootError(home, err)
	}

	patterns := r.patterns(config.ExpandHome(r.paths.SelfIgnoreFile))
	projects := make([]Project, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || ignore.ShouldIgnore(e.Name(), patterns) {
			continue
		}
		projects = append(projects, Project{
			Name: e.Name(),
			Path: filepath.ToSlash(filepath.Join("..", "generated", e.Name(), "frontend", "App")),
		})
	}

	r.logger.Debug("generated projects listed",
		slog.String("home", home),
		slog.Int("count", len(projects)))
	return projects, nil
}

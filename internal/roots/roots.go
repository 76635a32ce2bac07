// Package roots maps a path type onto the directories and files it covers and
// builds their combined structure.
package roots

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Aman-CERP/filetree/internal/config"
	fterrors "github.com/Aman-CERP/filetree/internal/errors"
	"github.com/Aman-CERP/filetree/internal/ignore"
)

// Well-known path types. Any other value names a generated project.
const (
	TypeFileExplorer = "file_explorer"
	TypeRequirements = "requirements_definition"
	TypeSelf         = "babel"
)

// Plan is the resolved form of a path type.
type Plan struct {
	// PathType is the request that produced the plan.
	PathType string
	// Roots are scanned in order. Directories contribute their children,
	// files contribute a single entry.
	Roots []string
	// IgnoreFile supplies the patterns for every root.
	IgnoreFile string
	// Multi marks plans whose missing roots are skipped instead of failing.
	Multi bool
}

// Resolver turns path types into plans and plans into structures.
type Resolver struct {
	paths  config.PathsConfig
	scan   config.ScanConfig
	cache  *ignore.Cache
	logger *slog.Logger
}

// New creates a Resolver. A nil cache gets a fresh one sized from scan;
// a nil logger means slog.Default().
func New(paths config.PathsConfig, scan config.ScanConfig, cache *ignore.Cache, logger *slog.Logger) (*Resolver, error) {
	if cache == nil {
		c, err := ignore.NewCache(scan.IgnoreCacheSize)
		if err != nil {
			return nil, fterrors.InternalError("failed to create ignore cache", err)
		}
		cache = c
	}
	if logger == nil {
		logger = slog.Default()
	}
	if paths.IgnoreFileName == "" {
		paths.IgnoreFileName = ".gitignore"
	}
	return &Resolver{paths: paths, scan: scan, cache: cache, logger: logger}, nil
}

// Resolve maps pathType onto its roots and ignore file.
//
// Unknown path types resolve to GeneratedHome/<pathType> and must be a
// single path element; anything else fails with ERR_406_INVALID_PATH.
func (r *Resolver) Resolve(pathType string) (Plan, error) {
	switch pathType {
	case TypeFileExplorer:
		return r.singleRoot(pathType, r.paths.UIDir), nil
	case TypeRequirements:
		return r.singleRoot(pathType, r.paths.RequirementsDir), nil
	case TypeSelf:
		roots := make([]string, 0, len(r.paths.SelfRoots))
		for _, root := range r.paths.SelfRoots {
			roots = append(roots, config.ExpandHome(root))
		}
		return Plan{
			PathType:   pathType,
			Roots:      roots,
			IgnoreFile: config.ExpandHome(r.paths.SelfIgnoreFile),
			Multi:      true,
		}, nil
	}

	if err := validateProjectName(pathType); err != nil {
		return Plan{}, err
	}
	home := config.ExpandHome(r.paths.GeneratedHome)
	return r.singleRoot(pathType, filepath.Join(home, pathType)), nil
}

func (r *Resolver) singleRoot(pathType, root string) Plan {
	root = config.ExpandHome(root)
	return Plan{
		PathType:   pathType,
		Roots:      []string{root},
		IgnoreFile: filepath.Join(root, r.paths.IgnoreFileName),
	}
}

// validateProjectName rejects names that would leave GeneratedHome.
func validateProjectName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, filepath.Separator) {
		return fterrors.New(fterrors.ErrCodeInvalidPath,
			fmt.Sprintf("invalid path type: %q", name), nil).
			WithDetail("path_type", name).
			WithSuggestion("Use file_explorer, requirements_definition, babel or a generated project name")
	}
	return nil
}

// patterns loads the plan's ignore file. An unreadable file degrades to an
// empty set so the scan still runs.
func (r *Resolver) patterns(path string) ignore.Patterns {
	if path == "" {
		return nil
	}
	patterns, err := r.cache.Load(path)
	if err != nil {
		r.logger.Warn("ignore file unreadable, continuing without patterns",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil
	}
	r.logger.Debug("ignore patterns loaded",
		slog.String("path", path),
		slog.Int("count", len(patterns)))
	return patterns
}

// skippable reports whether a failure on one root of a multi-root plan may
// be skipped.
func skippable(err error) bool {
	return stderrors.Is(err, fterrors.ErrRootNotAccessible)
}

package tree

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	fterrors "github.com/Aman-CERP/filetree/internal/errors"
	"github.com/Aman-CERP/filetree/internal/ignore"
)

// Builder produces directory trees. It is safe for concurrent use; each
// Build call keeps its own state.
type Builder struct {
	matcher         ignore.Matcher
	logger          *slog.Logger
	previews        bool
	maxPreviewBytes int64
}

// NewBuilder creates a Builder from opts.
func NewBuilder(opts Options) *Builder {
	b := &Builder{
		matcher:         opts.Matcher,
		logger:          opts.Logger,
		previews:        opts.Previews,
		maxPreviewBytes: opts.MaxPreviewBytes,
	}
	if b.matcher == nil {
		b.matcher = ignore.Legacy(nil)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.maxPreviewBytes <= 0 {
		b.maxPreviewBytes = DefaultMaxPreviewBytes
	}
	return b
}

// frame is a directory waiting to be listed. Its entries are appended to
// *children, which belongs to the parent folder (or to the result).
type frame struct {
	dir       string
	children  *[]*Entry
	ancestors *ancestor
}

// ancestor is one resolved directory on the path from the root down to a
// frame.
type ancestor struct {
	real   string
	parent *ancestor
}

// contains reports whether real is a or one of its ancestors.
func (a *ancestor) contains(real string) bool {
	for ; a != nil; a = a.parent {
		if a.real == real {
			return true
		}
	}
	return false
}

// Build lists path and everything below it. Entry paths are relative to
// rootPath, which is normally path itself or one of its ancestors.
//
// If path cannot be listed the call fails with an error matching
// errors.ErrRootNotAccessible (or ERR_406 when path is not a directory) and
// no tree is returned. Failures below the root are absorbed: the affected
// folder is kept without children and its siblings are still listed.
func (b *Builder) Build(ctx context.Context, path, rootPath string) ([]*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fterrors.RootError(path, err)
	}
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fterrors.RootError(rootPath, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fterrors.RootError(path, err)
	}
	if !info.IsDir() {
		return nil, fterrors.New(fterrors.ErrCodeInvalidPath,
			fmt.Sprintf("not a directory: %s", path), nil).WithDetail("path", path)
	}

	rootEntries, err := listDir(absPath)
	if err != nil {
		return nil, fterrors.RootError(path, err)
	}

	var rootChain *ancestor
	if real, err := filepath.EvalSymlinks(absPath); err == nil {
		rootChain = &ancestor{real: real}
	}

	result := make([]*Entry, 0, len(rootEntries))
	var stack []frame
	stack = b.appendChildren(absPath, absRoot, rootEntries, &result, rootChain, stack)

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := listDir(top.dir)
		if err != nil {
			b.logger.Debug("skipping unreadable directory",
				slog.String("path", top.dir),
				slog.String("error", err.Error()))
			continue
		}
		stack = b.appendChildren(top.dir, absRoot, entries, top.children, top.ancestors, stack)
	}

	return result, nil
}

// Scan is Build with path as its own root.
func (b *Builder) Scan(ctx context.Context, path string) ([]*Entry, error) {
	return b.Build(ctx, path, path)
}

// appendChildren converts the listing of dir into entries, appends them to
// out in listing order and pushes every folder onto stack. A folder that
// resolves to one of its own ancestors is kept without children.
func (b *Builder) appendChildren(dir, absRoot string, listing []fs.DirEntry, out *[]*Entry, ancestors *ancestor, stack []frame) []frame {
	for _, de := range listing {
		name := de.Name()
		full := filepath.Join(dir, name)
		isDir := b.isDir(full, de)

		rel, err := filepath.Rel(absRoot, full)
		if err != nil {
			rel = full
		}
		rel = filepath.ToSlash(rel)

		if b.matcher.Ignore(name, rel, isDir) {
			continue
		}

		if !isDir {
			entry := &Entry{Name: name, Kind: KindFile, Path: rel}
			if b.previews {
				if content, ok := ReadContent(full, b.maxPreviewBytes); ok {
					entry.Content = &content
				}
			}
			*out = append(*out, entry)
			continue
		}

		entry := &Entry{Name: name, Kind: KindFolder, Path: rel, Children: []*Entry{}}
		*out = append(*out, entry)

		real, err := filepath.EvalSymlinks(full)
		if err != nil {
			b.logger.Debug("cannot resolve directory",
				slog.String("path", full),
				slog.String("error", err.Error()))
			continue
		}
		if ancestors.contains(real) {
			b.logger.Debug("symlink cycle, not descending",
				slog.String("path", full),
				slog.String("target", real))
			continue
		}

		stack = append(stack, frame{
			dir:       full,
			children:  &entry.Children,
			ancestors: &ancestor{real: real, parent: ancestors},
		})
	}
	return stack
}

// isDir reports whether the entry is a directory, resolving symlinks.
// Broken links count as files.
func (b *Builder) isDir(full string, de fs.DirEntry) bool {
	if de.Type()&fs.ModeSymlink == 0 {
		return de.IsDir()
	}
	info, err := os.Stat(full)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// listDir returns the entries of dir in the order the OS reports them.
// os.ReadDir is avoided because it sorts by name.
func listDir(dir string) ([]fs.DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return f.ReadDir(-1)
}

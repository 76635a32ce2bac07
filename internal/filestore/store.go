// Package filestore reads and edits the plain files of a project.
//
// Project "babel" maps onto the self directory, any other project onto
// GeneratedHome/<project>. Writes are atomic (temp file and rename) and
// serialised per directory with an advisory file lock.
package filestore

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Aman-CERP/filetree/internal/config"
	fterrors "github.com/Aman-CERP/filetree/internal/errors"
	"github.com/Aman-CERP/filetree/internal/ignore"
)

// SelfProject is the project whose files live in the self directory.
const SelfProject = "babel"

// FileInfo describes one stored file.
type FileInfo struct {
	Name string `json:"filename"`
	Size int64  `json:"size"`
}

// Store resolves project files and performs the file operations.
type Store struct {
	selfDir       string
	generatedHome string
	logger        *slog.Logger
}

// New creates a Store from the path configuration.
func New(paths config.PathsConfig, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	selfDir := paths.SelfDir
	if selfDir == "" {
		selfDir = ".."
	}
	return &Store{
		selfDir:       config.ExpandHome(selfDir),
		generatedHome: config.ExpandHome(paths.GeneratedHome),
		logger:        logger,
	}
}

// Dir returns the directory holding the files of project.
func (s *Store) Dir(project string) (string, error) {
	if project == SelfProject {
		return s.selfDir, nil
	}
	if project == "" || project == "." || project == ".." || strings.ContainsAny(project, `/\`) {
		return "", invalidPath("project", project)
	}
	return filepath.Join(s.generatedHome, project), nil
}

// Resolve returns the on-disk path of name inside project. Names must stay
// inside the project directory.
func (s *Store) Resolve(project, name string) (string, error) {
	dir, err := s.Dir(project)
	if err != nil {
		return "", err
	}
	clean := filepath.FromSlash(name)
	if name == "" || !filepath.IsLocal(clean) {
		return "", invalidPath("name", name)
	}
	return filepath.Join(dir, clean), nil
}

func invalidPath(field, value string) error {
	return fterrors.New(fterrors.ErrCodeInvalidPath,
		fmt.Sprintf("invalid %s: %q", field, value), nil).
		WithDetail(field, value)
}

// Save replaces the content of name, creating the file and its parent
// directories when missing.
func (s *Store) Save(project, name string, content []byte) (FileInfo, error) {
	path, err := s.Resolve(project, name)
	if err != nil {
		return FileInfo{}, err
	}

	err = withLock(filepath.Dir(path), func() error {
		return writeAtomic(path, content)
	})
	if err != nil {
		return FileInfo{}, fterrors.FileError(path, err)
	}

	s.logger.Info("file saved",
		slog.String("project", project),
		slog.String("name", name),
		slog.Int("bytes", len(content)))
	return FileInfo{Name: name, Size: int64(len(content))}, nil
}

// Load returns the content of name.
func (s *Store) Load(project, name string) (string, error) {
	path, err := s.Resolve(project, name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fterrors.FileError(path, err)
	}
	return string(data), nil
}

// Append adds content to the end of name, creating it when missing.
func (s *Store) Append(project, name, content string) error {
	path, err := s.Resolve(project, name)
	if err != nil {
		return err
	}

	err = withLock(filepath.Dir(path), func() error {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		if _, err := f.WriteString(content); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	})
	if err != nil {
		return fterrors.FileError(path, err)
	}

	s.logger.Debug("file appended",
		slog.String("project", project),
		slog.String("name", name),
		slog.Int("bytes", len(content)))
	return nil
}

// EditLine replaces line number line (1-based) of name with text.
// A trailing newline in the file is preserved.
func (s *Store) EditLine(project, name string, line int, text string) error {
	path, err := s.Resolve(project, name)
	if err != nil {
		return err
	}

	var rangeErr error
	err = withLock(filepath.Dir(path), func() error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		content := string(data)
		trailing := strings.HasSuffix(content, "\n")
		lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
		if content == "" {
			lines = nil
		}
		if line < 1 || line > len(lines) {
			rangeErr = fterrors.ValidationError(
				fmt.Sprintf("line %d out of range (file has %d lines)", line, len(lines)), nil).
				WithDetail("name", name)
			return nil
		}
		lines[line-1] = text
		updated := strings.Join(lines, "\n")
		if trailing {
			updated += "\n"
		}
		return writeAtomic(path, []byte(updated))
	})
	if err != nil {
		return fterrors.FileError(path, err)
	}
	if rangeErr != nil {
		return rangeErr
	}

	s.logger.Debug("line edited",
		slog.String("project", project),
		slog.String("name", name),
		slog.Int("line", line))
	return nil
}

// Delete removes name.
func (s *Store) Delete(project, name string) error {
	path, err := s.Resolve(project, name)
	if err != nil {
		return err
	}
	err = withLock(filepath.Dir(path), func() error {
		return os.Remove(path)
	})
	if err != nil {
		return fterrors.FileError(path, err)
	}
	s.logger.Info("file deleted", slog.String("project", project), slog.String("name", name))
	return nil
}

// List returns the regular files directly inside the project directory,
// sorted by name. A missing directory yields an empty list.
func (s *Store) List(project string) ([]FileInfo, error) {
	dir, err := s.Dir(project)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return []FileInfo{}, nil
		}
		return nil, fterrors.RootError(dir, err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || isInternal(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{Name: e.Name(), Size: info.Size()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// isInternal reports temp files left by an interrupted write.
func isInternal(name string) bool {
	return ignore.IsTempFile(name)
}

// writeAtomic writes data to a temp file next to path and renames it over
// path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, ignore.TempFilePattern)
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

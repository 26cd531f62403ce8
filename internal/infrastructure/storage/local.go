// Package storage lays out the local directory tree the agent reads from, so
// nothing has to be synced from a remote bucket.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

var ErrPathEscape = errors.New("path escapes the data lake")

const maxReadBytes = 64 * 1024

type Local struct {
	root string
}

func NewLocal(root string) *Local {
	return &Local{root: root}
}

func (l *Local) Root() string { return l.root }

func (l *Local) DataLakeDir() string {
	return filepath.Join(l.root, "biomni_data", "data_lake")
}

func (l *Local) BenchmarkDir() string {
	return filepath.Join(l.root, "biomni_data", "benchmark", "hle")
}

// Prepare creates the benchmark and data lake folders. It is safe to call on
// an existing tree.
func (l *Local) Prepare() error {
	for _, dir := range []string{l.BenchmarkDir(), l.DataLakeDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// MissingExpected returns the names in expected that are not present in the
// data lake.
func (l *Local) MissingExpected(expected []string) []string {
	var missing []string
	for _, name := range expected {
		if _, err := l.resolve(name); err != nil {
			missing = append(missing, name)
		}
	}
	return missing
}

// ListDataLake returns data lake file paths relative to the data lake root,
// sorted.
func (l *Local) ListDataLake() ([]string, error) {
	base := l.DataLakeDir()
	var files []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list data lake: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// ReadDataLakeFile reads at most maxReadBytes of name. The second result
// reports whether the content was cut. Symlinks that leave the data lake are
// rejected.
func (l *Local) ReadDataLakeFile(name string) (string, bool, error) {
	rel, err := l.resolve(name)
	if err != nil {
		return "", false, err
	}

	root, err := os.OpenRoot(l.DataLakeDir())
	if err != nil {
		return "", false, fmt.Errorf("open data lake: %w", err)
	}
	defer root.Close()

	f, err := root.Open(rel)
	if err != nil {
		return "", false, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	buf := make([]byte, maxReadBytes+1)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("read %s: %w", name, err)
	}
	if n > maxReadBytes {
		return string(buf[:runeBoundary(buf, maxReadBytes)]), true, nil
	}
	return string(buf[:n]), false, nil
}

// resolve returns name relative to the data lake after following symlinks.
func (l *Local) resolve(name string) (string, error) {
	base := l.DataLakeDir()
	path := filepath.Join(base, filepath.FromSlash(name))
	if !within(base, path) {
		return "", fmt.Errorf("%q: %w", name, ErrPathEscape)
	}

	realBase, err := filepath.EvalSymlinks(base)
	if err != nil {
		return "", fmt.Errorf("resolve data lake: %w", err)
	}
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", name, err)
	}
	if !within(realBase, realPath) {
		return "", fmt.Errorf("%q: %w", name, ErrPathEscape)
	}

	rel, err := filepath.Rel(realBase, realPath)
	if err != nil {
		return "", fmt.Errorf("%q: %w", name, ErrPathEscape)
	}
	return rel, nil
}

func within(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return true
}

// runeBoundary moves n back to the start of a UTF-8 sequence.
func runeBoundary(b []byte, n int) int {
	for n > 0 && !utf8.RuneStart(b[n]) {
		n--
	}
	return n
}

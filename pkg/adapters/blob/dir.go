// Package blob provides durable medium adapters for the store engine: a
// directory-backed implementation that persists each key as a JSON file, and
// a map-backed implementation for tests and session-only operation.
package blob

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/plumehq/plume/pkg/core"
)

const (
	blobExt = ".json"

	// tempFilePrefix marks in-flight atomic writes; the watcher skips them.
	tempFilePrefix = "plume-tmp-"
)

// Dir implements core.Storage on a directory, one file per key. Writes are
// atomic (temp file + rename) so a crash mid-write never leaves a torn blob
// for the next startup to choke on.
type Dir struct {
	path   string
	logger *slog.Logger

	// lastWrite tracks checksums of our own writes so the watcher can tell
	// external changes apart from echoes of local saves.
	mu        sync.Mutex
	lastWrite map[string]uint64
}

// NewDir creates the directory if needed and returns the adapter.
func NewDir(path string, logger *slog.Logger) (*Dir, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Dir{
		path:      path,
		logger:    logger,
		lastWrite: make(map[string]uint64),
	}, nil
}

// Path returns the backing directory.
func (d *Dir) Path() string {
	return d.path
}

// Get returns the blob stored under key, or core.ErrKeyNotFound.
func (d *Dir) Get(key string) (string, error) {
	file, err := d.fileFor(key)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(file)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%q: %w", key, core.ErrKeyNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read blob %q: %w", key, err)
	}
	return string(data), nil
}

// Set replaces the blob stored under key.
func (d *Dir) Set(key, value string) error {
	file, err := d.fileFor(key)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.lastWrite[key] = checksum([]byte(value))
	d.mu.Unlock()

	if err := writeFileAtomic(file, []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write blob %q: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (d *Dir) Delete(key string) error {
	file, err := d.fileFor(key)
	if err != nil {
		return err
	}

	d.mu.Lock()
	delete(d.lastWrite, key)
	d.mu.Unlock()

	if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob %q: %w", key, err)
	}
	return nil
}

// fileFor maps a key to its backing file. Keys are flat identifiers; path
// separators would escape the data directory and are rejected.
func (d *Dir) fileFor(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key != filepath.Base(key) {
		return "", &core.ValidationError{Field: "key", Reason: fmt.Sprintf("%q is not a valid storage key", key)}
	}
	return filepath.Join(d.path, key+blobExt), nil
}

// isSelfWrite reports whether data matches the last local write for key.
func (d *Dir) isSelfWrite(key string, data []byte) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	sum, ok := d.lastWrite[key]
	return ok && sum == checksum(data)
}

func checksum(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}

// writeFileAtomic writes data through a temp file in the same directory and
// renames it over the target, so a reader never observes a torn blob and a
// crash mid-write leaves the previous snapshot intact.
func writeFileAtomic(name string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(name), tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp blob: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp blob: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp blob: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), name); err != nil {
		return fmt.Errorf("promote temp blob %s: %w", name, err)
	}
	return nil
}

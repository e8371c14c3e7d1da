package persist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/l1jgo/ecsgraph/internal/snapshot"
)

// FileStore keeps a single snapshot document on disk, with its blake2b
// checksum in a sidecar file. It serves the same role as SnapshotRepo when
// no database is configured; the name argument is ignored.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) sumPath() string { return f.path + ".b2sum" }

func (f *FileStore) Save(_ context.Context, _ string, s *snapshot.Snapshot) error {
	if err := snapshot.WriteFile(f.path, s); err != nil {
		return err
	}
	doc, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("reread snapshot: %w", err)
	}
	if err := os.WriteFile(f.sumPath(), checksum(doc), 0o644); err != nil {
		return fmt.Errorf("write checksum: %w", err)
	}
	return nil
}

func (f *FileStore) Latest(_ context.Context, _ string) (*snapshot.Snapshot, error) {
	doc, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, f.path)
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	sum, err := os.ReadFile(f.sumPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: checksum file missing", ErrChecksum)
	}
	if err != nil {
		return nil, fmt.Errorf("read checksum: %w", err)
	}
	return verify(doc, sum)
}

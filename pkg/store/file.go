package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ritzau/workflow-canvas/pkg/codec"
	"github.com/ritzau/workflow-canvas/pkg/logging"
)

// FileExt is the extension of workflow files written by FileStore.
const FileExt = ".wf"

// FileStore keeps one encoded file per workflow in a directory.
type FileStore struct {
	dir   string
	codec *codec.Codec
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string, c *codec.Codec) (*FileStore, error) {
	if c == nil {
		c = codec.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{dir: dir, codec: c}, nil
}

// Dir returns the directory workflows are stored in.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, Slug(name)+FileExt)
}

// Save writes the workflow atomically (temp file + rename).
func (s *FileStore) Save(ctx context.Context, wf Workflow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := s.codec.Encode(wf)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write workflow: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write workflow: %w", err)
	}

	target := s.path(wf.Name)
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to store workflow: %w", err)
	}

	logging.Debug("workflow written", "path", target, "bytes", len(data))
	return nil
}

// Load reads a workflow by name.
func (s *FileStore) Load(ctx context.Context, name string) (Workflow, error) {
	if err := ctx.Err(); err != nil {
		return Workflow{}, err
	}
	return s.readFile(s.path(name))
}

func (s *FileStore) readFile(path string) (Workflow, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Workflow{}, fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(path))
	}
	if err != nil {
		return Workflow{}, fmt.Errorf("failed to read workflow: %w", err)
	}

	var wf Workflow
	if err := s.codec.Decode(data, &wf); err != nil {
		return Workflow{}, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return wf, nil
}

// List returns all stored workflows, most recently saved first.
// Unreadable files are skipped with a warning.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list store directory: %w", err)
	}

	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileExt) {
			continue
		}

		wf, err := s.readFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			logging.Warn("skipping unreadable workflow", "file", entry.Name(), "error", err)
			continue
		}
		summaries = append(summaries, summarize(wf))
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].SavedAt.After(summaries[j].SavedAt)
	})
	return summaries, nil
}

func (s *FileStore) Close() error {
	return nil
}

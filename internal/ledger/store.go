package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/scoreline/internal/models"
)

// Store persists the whole entry list under a single key. Reads and writes
// always operate on the full list.
type Store interface {
	Load(ctx context.Context) ([]models.HistoryEntry, error)
	Save(ctx context.Context, entries []models.HistoryEntry) error
}

// FileStore keeps the serialized entry list in one JSON file.
type FileStore struct {
	path   string
	logger *logrus.Logger
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string, logger *logrus.Logger) *FileStore {
	if logger == nil {
		logger = logrus.New()
	}
	return &FileStore{path: path, logger: logger}
}

// Load reads the entry list. A missing file is an empty ledger; corrupted
// content is treated as an empty list rather than raised.
func (s *FileStore) Load(_ context.Context) ([]models.HistoryEntry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrPersistenceUnavailable, err)
	}

	var entries []models.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.WithError(err).WithField("path", s.path).Warn("History file corrupted, starting empty")
		return nil, nil
	}
	return entries, nil
}

// Save writes the entry list atomically via a temp file rename.
func (s *FileStore) Save(_ context.Context, entries []models.HistoryEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrPersistenceUnavailable, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", models.ErrPersistenceUnavailable, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", models.ErrPersistenceUnavailable, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: %v", models.ErrPersistenceUnavailable, err)
	}
	return nil
}

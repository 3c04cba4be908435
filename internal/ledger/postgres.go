package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/scoreline/internal/models"
)

// historyKey is the single key the whole entry list is stored under.
const historyKey = "prediction_history"

// PostgresStore persists the entry list as one JSONB row keyed by
// historyKey.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *logrus.Logger
}

// NewPostgresStore wraps an existing connection pool. The kv_store table is
// created on demand.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, logger *logrus.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = logrus.New()
	}

	const ddl = `
		CREATE TABLE IF NOT EXISTS kv_store (
			key        TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrPersistenceUnavailable, err)
	}

	return &PostgresStore{pool: pool, logger: logger}, nil
}

// Load reads the serialized entry list. A missing row is an empty ledger;
// corrupted payloads are treated as empty rather than raised.
func (s *PostgresStore) Load(ctx context.Context) ([]models.HistoryEntry, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM kv_store WHERE key = $1`, historyKey,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrPersistenceUnavailable, err)
	}

	var entries []models.HistoryEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		s.logger.WithError(err).Warn("History payload corrupted, starting empty")
		return nil, nil
	}
	return entries, nil
}

// Save upserts the whole entry list.
func (s *PostgresStore) Save(ctx context.Context, entries []models.HistoryEntry) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrPersistenceUnavailable, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO kv_store (key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		historyKey, payload)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrPersistenceUnavailable, err)
	}
	return nil
}

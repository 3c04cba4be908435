// Package ledger keeps the bounded, append-only record of past predictions.
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/scoreline/internal/models"
)

// DefaultCapacity bounds the number of retained entries.
const DefaultCapacity = 50

// Ledger is the append-only prediction history. Entries are kept
// newest-first and the list never exceeds the configured capacity; the
// oldest entries drop first. All mutating operations are serialized behind
// one mutex so back-to-back saves cannot lose an update.
//
// Persistence failures never propagate: an unreadable or corrupted store is
// treated as an empty ledger and write failures are logged only, so the
// ledger stays readable even when it is not currently writable.
type Ledger struct {
	mu       sync.Mutex
	store    Store
	capacity int
	logger   *logrus.Logger
}

// New creates a ledger over the given store. A capacity of zero or less
// falls back to DefaultCapacity.
func New(store Store, capacity int, logger *logrus.Logger) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Ledger{store: store, capacity: capacity, logger: logger}
}

// AppendStandard records a standard prediction for match.
func (l *Ledger) AppendStandard(ctx context.Context, match models.Match, pred models.StandardPrediction) models.HistoryEntry {
	return l.append(ctx, match, models.KindStandard, &pred, nil)
}

// AppendDetailed records a detailed forecast for match.
func (l *Ledger) AppendDetailed(ctx context.Context, match models.Match, forecast models.DetailedForecast) models.HistoryEntry {
	return l.append(ctx, match, models.KindDetailed, nil, &forecast)
}

// append inserts a fresh entry at the head. If an existing entry for the
// same match already carries a result, that result is copied onto the new
// entry; the old entry is never mutated. The tail is truncated past
// capacity.
func (l *Ledger) append(ctx context.Context, match models.Match, kind models.PredictionKind, standard *models.StandardPrediction, detailed *models.DetailedForecast) models.HistoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.load(ctx)

	entry := models.HistoryEntry{
		ID:        uuid.New(),
		Match:     match,
		Kind:      kind,
		Standard:  standard,
		Detailed:  detailed,
		CreatedAt: time.Now().UTC(),
	}

	// Entries are newest-first, so the first hit is the most recent result
	// for this match.
	for _, existing := range entries {
		if existing.Match.ID == match.ID && existing.Result != nil {
			carried := *existing.Result
			entry.Result = &carried
			break
		}
	}

	entries = append([]models.HistoryEntry{entry}, entries...)
	if len(entries) > l.capacity {
		entries = entries[:l.capacity]
	}

	l.save(ctx, entries)
	return entry
}

// AttachResult sets result on every stored entry whose match id matches and
// reports whether at least one entry was updated.
func (l *Ledger) AttachResult(ctx context.Context, matchID string, result models.MatchResult) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.load(ctx)

	updated := false
	for i := range entries {
		if entries[i].Match.ID == matchID {
			attached := result
			entries[i].Result = &attached
			updated = true
		}
	}

	if updated {
		l.save(ctx, entries)
	}
	return updated
}

// Remove deletes entries by id, preserving the relative order of the
// remainder.
func (l *Ledger) Remove(ctx context.Context, ids []uuid.UUID) {
	if len(ids) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	drop := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	entries := l.load(ctx)
	kept := entries[:0]
	for _, entry := range entries {
		if _, gone := drop[entry.ID]; !gone {
			kept = append(kept, entry)
		}
	}

	if len(kept) != len(entries) {
		l.save(ctx, kept)
	}
}

// List returns all entries, most-recent-first.
func (l *Ledger) List(ctx context.Context) []models.HistoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

// PendingMatchIDs returns the distinct match ids of entries that do not yet
// carry a finished result, newest-first.
func (l *Ledger) PendingMatchIDs(ctx context.Context) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	seen := make(map[string]struct{})
	var ids []string
	for _, entry := range l.load(ctx) {
		if entry.Finished() {
			continue
		}
		if _, dup := seen[entry.Match.ID]; dup {
			continue
		}
		seen[entry.Match.ID] = struct{}{}
		ids = append(ids, entry.Match.ID)
	}
	return ids
}

func (l *Ledger) load(ctx context.Context) []models.HistoryEntry {
	entries, err := l.store.Load(ctx)
	if err != nil {
		l.logger.WithError(err).Warn("History store unreadable, treating ledger as empty")
		return nil
	}
	return entries
}

func (l *Ledger) save(ctx context.Context, entries []models.HistoryEntry) {
	if err := l.store.Save(ctx, entries); err != nil {
		l.logger.WithError(err).Warn("History store unwritable, update not persisted")
	}
}

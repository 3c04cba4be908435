package models

import (
	"time"

	"github.com/google/uuid"
)

// PredictionKind tags which of the two prediction payloads an entry carries.
type PredictionKind string

const (
	KindStandard PredictionKind = "Standard"
	KindDetailed PredictionKind = "Detailed"
)

// HistoryEntry is one row of the prediction ledger. Exactly one of Standard
// and Detailed is set, matching Kind. The id is never reused and Result is
// the only field mutated after creation.
type HistoryEntry struct {
	ID        uuid.UUID           `json:"id" validate:"required"`
	Match     Match               `json:"match"`
	Kind      PredictionKind      `json:"kind" validate:"required,oneof=Standard Detailed"`
	Standard  *StandardPrediction `json:"standard,omitempty"`
	Detailed  *DetailedForecast   `json:"detailed,omitempty"`
	Result    *MatchResult        `json:"result,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// Finished reports whether the entry's match has a concluded result.
func (e HistoryEntry) Finished() bool {
	return e.Result != nil && e.Result.Finished
}

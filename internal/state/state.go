// internal/state/state.go

// Package state holds transient per-listing enrichment results: analysis
// text, review reply drafts and aggregate sentiment, each with a loading flag
// and an optional failure classification. Entries are keyed by listing ID and
// kind and are never written back into the monitoring store.
package state

import (
	"context"
	"encoding/json"
	"time"

	"listing-monitor/internal/common/errors"
)

const (
	KindAnalysis  = "analysis"
	KindSentiment = "sentiment"
)

// KindReply returns the entry kind for a reply draft of a single review.
func KindReply(reviewID string) string {
	return "reply:" + reviewID
}

// Entry is one transient enrichment result.
type Entry struct {
	Loading   bool            `json:"loading"`
	Value     json.RawMessage `json:"value,omitempty"`
	Failure   string          `json:"failure,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Store is the transient enrichment state keyed by listing ID and kind.
type Store interface {
	// SetLoading marks an in-flight request for the given key.
	SetLoading(ctx context.Context, listingID, kind string) error
	// SetValue stores a completed result and clears the loading flag.
	SetValue(ctx context.Context, listingID, kind string, value interface{}) error
	// SetFailure records a classified failure and clears the loading flag.
	SetFailure(ctx context.Context, listingID, kind string, failure errors.FailureKind) error
	// Get returns the entry for the key, or nil if absent.
	Get(ctx context.Context, listingID, kind string) (*Entry, error)
	// Snapshot returns all entries for a listing keyed by kind.
	Snapshot(ctx context.Context, listingID string) (map[string]Entry, error)
	// Purge discards all entries for a listing, e.g. after removal.
	Purge(ctx context.Context, listingID string) error
}

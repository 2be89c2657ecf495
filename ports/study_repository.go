package ports

import (
	"context"
	"time"

	"brandintel/domain/market"
)

// StudyRepository defines the interface for market study persistence.
//
// SetSourceStatus and SaveSourceData are invoked from concurrent adapter
// completion handling; implementations must guarantee per-source-key
// atomicity so concurrent completions never clobber each other's entries.
type StudyRepository interface {
	// EnsureStudy creates the study for a strategy if it does not exist and
	// records the run parameters, returning the current aggregate.
	EnsureStudy(ctx context.Context, strategyID string, params market.CollectionParams) (*market.MarketStudy, error)

	// GetStudy returns the aggregate, or a NOT_FOUND error if none exists.
	GetStudy(ctx context.Context, strategyID string) (*market.MarketStudy, error)

	// SetStudyStatus updates the aggregate status.
	SetStudyStatus(ctx context.Context, strategyID string, status market.StudyStatus) error

	// SetSourceStatus updates one source's status without touching any other
	// source's entry.
	SetSourceStatus(ctx context.Context, strategyID string, source market.SourceID, status market.SourceStatus) error

	// SaveSourceData persists one source's raw payload without touching any
	// other source's entry.
	SaveSourceData(ctx context.Context, strategyID string, payload *market.SourcePayload) error

	// SetManualContext stores manually entered notes and internal strategic
	// context consumed by synthesis.
	SetManualContext(ctx context.Context, strategyID, notes, internalContext string) error

	// SaveSynthesis stores the consolidated document, fully replacing any
	// prior synthesis.
	SaveSynthesis(ctx context.Context, strategyID string, synthesis *market.Synthesis, at time.Time) error
}

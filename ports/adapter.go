package ports

import (
	"context"

	"brandintel/domain/market"
)

// SourceAdapter is the uniform contract every external data provider is
// wrapped behind. Adapters share no state with each other.
type SourceAdapter interface {
	// Name returns the human-readable provider name.
	Name() string

	// SourceID returns the stable enumerated key for this provider.
	SourceID() market.SourceID

	// IsConfigured reports whether the required credentials are present.
	// It is a pure capability check and performs no network calls.
	IsConfigured() bool

	// Collect gathers provider data for the given run parameters. It never
	// returns an error or panics: every internal failure (network, parse,
	// timeout, throttling) is folded into the CollectionResult. Adapters
	// issuing multiple sub-queries keep partial results rather than failing
	// the whole call.
	Collect(ctx context.Context, params market.CollectionParams) market.CollectionResult
}

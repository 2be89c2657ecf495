package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"brandintel/domain/market"
	"brandintel/internal"
	"brandintel/ports"
)

// CollectionRequest carries the caller-supplied parameters for one run.
type CollectionRequest struct {
	StrategyID  string   `json:"strategy_id"`
	BrandName   string   `json:"brand_name"`
	Sector      string   `json:"sector"`
	Competitors []string `json:"competitors"`
	Keywords    []string `json:"keywords,omitempty"`
	Country     string   `json:"country,omitempty"`
	Language    string   `json:"language,omitempty"`
}

// CollectionSummary reports the settled outcome of a run. Individual adapter
// failures are recorded here and in the persisted status map, never raised.
type CollectionSummary struct {
	Success          bool     `json:"success"`
	SourcesCompleted int      `json:"sources_completed"`
	SourcesTotal     int      `json:"sources_total"`
	Errors           []string `json:"errors"`
}

// SourceInfo describes one known adapter for capability discovery.
type SourceInfo struct {
	SourceID   market.SourceID `json:"source_id"`
	Name       string          `json:"name"`
	Configured bool            `json:"configured"`
}

// CollectionService fans collection out across all configured adapters with
// isolated failure handling and persisted per-source status.
type CollectionService struct {
	repo          ports.StudyRepository
	adapters      []ports.SourceAdapter
	sourceTimeout time.Duration
	logger        *internal.Logger
}

// NewCollectionService creates the orchestrator over the adapter roster
func NewCollectionService(repo ports.StudyRepository, adapters []ports.SourceAdapter, sourceTimeout time.Duration) *CollectionService {
	return &CollectionService{
		repo:          repo,
		adapters:      adapters,
		sourceTimeout: sourceTimeout,
		logger:        internal.NewDefaultLogger(),
	}
}

// ListAvailableSources returns capability discovery for every known adapter.
// Read-only, no side effects.
func (s *CollectionService) ListAvailableSources() []SourceInfo {
	infos := make([]SourceInfo, 0, len(s.adapters))
	for _, a := range s.adapters {
		infos = append(infos, SourceInfo{
			SourceID:   a.SourceID(),
			Name:       a.Name(),
			Configured: a.IsConfigured(),
		})
	}
	return infos
}

// sourceOutcome is one adapter's settled result, flowing from the fan-out
// goroutines to the single writer loop.
type sourceOutcome struct {
	adapter ports.SourceAdapter
	result  market.CollectionResult
}

// RunCollection executes one collection run: partition adapters by
// configuration, fan out the configured ones concurrently, settle all, and
// persist per-source status and payloads incrementally. It returns an error
// only for persistence failures before fan-out; adapter failures are
// reported through the summary.
func (s *CollectionService) RunCollection(ctx context.Context, req CollectionRequest) (*CollectionSummary, error) {
	runID := uuid.NewString()
	params := market.CollectionParams{
		BrandName:   req.BrandName,
		Sector:      req.Sector,
		Competitors: req.Competitors,
		Keywords:    req.Keywords,
		Country:     req.Country,
		Language:    req.Language,
	}

	var configured, unconfigured []ports.SourceAdapter
	for _, a := range s.adapters {
		if a.IsConfigured() {
			configured = append(configured, a)
		} else {
			unconfigured = append(unconfigured, a)
		}
	}

	s.logger.Info("Collection run %s for strategy %s: %d/%d sources configured",
		runID, req.StrategyID, len(configured), len(s.adapters))

	if _, err := s.repo.EnsureStudy(ctx, req.StrategyID, params); err != nil {
		return nil, err
	}
	if err := s.repo.SetStudyStatus(ctx, req.StrategyID, market.StudyCollecting); err != nil {
		return nil, err
	}
	for _, a := range unconfigured {
		if err := s.repo.SetSourceStatus(ctx, req.StrategyID, a.SourceID(), market.SourceNotConfigured); err != nil {
			return nil, err
		}
	}
	for _, a := range configured {
		if err := s.repo.SetSourceStatus(ctx, req.StrategyID, a.SourceID(), market.SourceCollecting); err != nil {
			return nil, err
		}
	}

	summary := &CollectionSummary{
		SourcesTotal: len(configured),
		Errors:       []string{},
	}

	if len(configured) == 0 {
		// Nothing runnable: completed stays 0, so the aggregate is an error.
		if err := s.repo.SetStudyStatus(ctx, req.StrategyID, market.StudyError); err != nil {
			return nil, err
		}
		return summary, nil
	}

	outcomes := make(chan sourceOutcome, len(configured))
	g := &errgroup.Group{}
	for _, adapter := range configured {
		a := adapter
		g.Go(func() error {
			outcomes <- sourceOutcome{adapter: a, result: s.collectOne(ctx, a, params)}
			return nil
		})
	}

	// Single writer: all status-map and payload persistence goes through this
	// loop, in completion order, so concurrent completions can never clobber
	// each other's entries.
	for i := 0; i < len(configured); i++ {
		outcome := <-outcomes
		s.persistOutcome(ctx, req.StrategyID, outcome, summary)
	}
	g.Wait()

	status := terminalStatus(summary.SourcesCompleted, summary.SourcesTotal)
	if err := s.repo.SetStudyStatus(ctx, req.StrategyID, status); err != nil {
		return nil, err
	}

	summary.Success = summary.SourcesCompleted > 0
	s.logger.Info("Collection run %s settled: %d/%d completed, status=%s",
		runID, summary.SourcesCompleted, summary.SourcesTotal, status)
	return summary, nil
}

// collectOne invokes one adapter under the per-source timeout, capturing
// panics and expiry as failed results so one source can never break the join.
func (s *CollectionService) collectOne(ctx context.Context, adapter ports.SourceAdapter, params market.CollectionParams) market.CollectionResult {
	callCtx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
	defer cancel()

	done := make(chan market.CollectionResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- market.CollectionResult{
					Success: false,
					Error:   fmt.Sprintf("adapter panic: %v", r),
				}
			}
		}()
		done <- adapter.Collect(callCtx, params)
	}()

	select {
	case result := <-done:
		return result
	case <-callCtx.Done():
		return market.CollectionResult{
			Success: false,
			Error:   fmt.Sprintf("source timed out after %s", s.sourceTimeout),
		}
	}
}

// persistOutcome maps one settled result onto the status map and stores the
// raw payload. Persistence errors here degrade the source to error status in
// the summary rather than failing the run.
func (s *CollectionService) persistOutcome(ctx context.Context, strategyID string, outcome sourceOutcome, summary *CollectionSummary) {
	sourceID := outcome.adapter.SourceID()
	result := outcome.result

	status := market.SourceComplete
	if !result.Success {
		if result.DataPointCount > 0 {
			status = market.SourcePartial
		} else {
			status = market.SourceError
		}
	}

	if result.Data != nil {
		if err := s.repo.SaveSourceData(ctx, strategyID, result.Data); err != nil {
			s.logger.Error("Failed to persist %s payload: %v", sourceID, err)
			status = market.SourceError
			result.Success = false
			result.Error = fmt.Sprintf("persist payload: %v", err)
		}
	}
	if err := s.repo.SetSourceStatus(ctx, strategyID, sourceID, status); err != nil {
		s.logger.Error("Failed to persist %s status: %v", sourceID, err)
	}

	if result.Success {
		summary.SourcesCompleted++
		s.logger.Debug("Source %s complete (%d data points)", sourceID, result.DataPointCount)
		return
	}
	summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %s", sourceID, result.Error))
	s.logger.Warn("Source %s settled as %s: %s", sourceID, status, result.Error)
}

func terminalStatus(completed, total int) market.StudyStatus {
	switch {
	case completed == 0:
		return market.StudyError
	case completed == total:
		return market.StudyComplete
	default:
		return market.StudyPartial
	}
}

// Package testkit provides in-memory fakes shared by service tests and the
// demo/dev entrypoints: a study repository and a scriptable source adapter.
package testkit

import (
	"context"
	"sync"
	"time"

	"brandintel/domain/market"
	"brandintel/internal/errors"
)

// InMemoryStudyRepository implements ports.StudyRepository over a mutex-held
// map. Writes are serialized, so it satisfies the per-key atomicity the
// orchestrator relies on.
type InMemoryStudyRepository struct {
	mu      sync.Mutex
	studies map[string]*market.MarketStudy

	// SaveDataCalls counts SaveSourceData invocations per source, for tests
	// asserting exactly-once persistence.
	SaveDataCalls map[market.SourceID]int
}

// NewInMemoryStudyRepository creates an empty in-memory repository
func NewInMemoryStudyRepository() *InMemoryStudyRepository {
	return &InMemoryStudyRepository{
		studies:       make(map[string]*market.MarketStudy),
		SaveDataCalls: make(map[market.SourceID]int),
	}
}

func (r *InMemoryStudyRepository) EnsureStudy(ctx context.Context, strategyID string, params market.CollectionParams) (*market.MarketStudy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	study, ok := r.studies[strategyID]
	if !ok {
		now := time.Now().UTC()
		study = &market.MarketStudy{
			StrategyID:     strategyID,
			Status:         market.StudyCollecting,
			SourceStatuses: make(map[market.SourceID]market.SourceStatus),
			RawData:        make(map[market.SourceID]*market.SourcePayload),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		r.studies[strategyID] = study
	}
	study.BrandName = params.BrandName
	study.Sector = params.Sector
	study.Competitors = params.Competitors
	return cloneStudy(study), nil
}

func (r *InMemoryStudyRepository) GetStudy(ctx context.Context, strategyID string) (*market.MarketStudy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	study, ok := r.studies[strategyID]
	if !ok {
		return nil, errors.NotFound("market study")
	}
	return cloneStudy(study), nil
}

func (r *InMemoryStudyRepository) SetStudyStatus(ctx context.Context, strategyID string, status market.StudyStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	study, ok := r.studies[strategyID]
	if !ok {
		return errors.NotFound("market study")
	}
	study.Status = status
	study.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryStudyRepository) SetSourceStatus(ctx context.Context, strategyID string, source market.SourceID, status market.SourceStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	study, ok := r.studies[strategyID]
	if !ok {
		return errors.NotFound("market study")
	}
	study.SourceStatuses[source] = status
	study.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryStudyRepository) SaveSourceData(ctx context.Context, strategyID string, payload *market.SourcePayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	study, ok := r.studies[strategyID]
	if !ok {
		return errors.NotFound("market study")
	}
	study.RawData[payload.Source] = payload
	r.SaveDataCalls[payload.Source]++
	study.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryStudyRepository) SetManualContext(ctx context.Context, strategyID, notes, internalContext string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	study, ok := r.studies[strategyID]
	if !ok {
		return errors.NotFound("market study")
	}
	study.ManualNotes = notes
	study.InternalContext = internalContext
	return nil
}

func (r *InMemoryStudyRepository) SaveSynthesis(ctx context.Context, strategyID string, synthesis *market.Synthesis, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	study, ok := r.studies[strategyID]
	if !ok {
		return errors.NotFound("market study")
	}
	study.Synthesis = synthesis
	study.SynthesizedAt = &at
	study.UpdatedAt = time.Now().UTC()
	return nil
}

func cloneStudy(study *market.MarketStudy) *market.MarketStudy {
	out := *study
	out.SourceStatuses = make(map[market.SourceID]market.SourceStatus, len(study.SourceStatuses))
	for k, v := range study.SourceStatuses {
		out.SourceStatuses[k] = v
	}
	out.RawData = make(map[market.SourceID]*market.SourcePayload, len(study.RawData))
	for k, v := range study.RawData {
		out.RawData[k] = v
	}
	return &out
}

// StubAdapter is a scriptable SourceAdapter for tests and demo wiring.
type StubAdapter struct {
	AdapterName string
	ID          market.SourceID
	Configured  bool
	Result      market.CollectionResult
	Delay       time.Duration
	PanicWith   any
}

func (a *StubAdapter) Name() string { return a.AdapterName }

func (a *StubAdapter) SourceID() market.SourceID { return a.ID }

func (a *StubAdapter) IsConfigured() bool { return a.Configured }

func (a *StubAdapter) Collect(ctx context.Context, params market.CollectionParams) market.CollectionResult {
	if a.PanicWith != nil {
		panic(a.PanicWith)
	}
	if a.Delay > 0 {
		select {
		case <-time.After(a.Delay):
		case <-ctx.Done():
			return market.CollectionResult{Success: false, Error: ctx.Err().Error()}
		}
	}
	return a.Result
}

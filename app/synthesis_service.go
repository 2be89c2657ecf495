package app

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/montanaflynn/stats"

	"brandintel/ai"
	"brandintel/domain/market"
	"brandintel/internal"
	"brandintel/ports"
)

// sentinel content used when a field cannot be derived from collected data.
const estimatedFieldContent = "Insufficient collected data; model estimate only."

// SynthesisService consolidates all persisted raw source payloads into one
// confidence-annotated synthesis document.
type SynthesisService struct {
	repo         ports.StudyRepository
	consolidator *ai.Consolidator
	logger       *internal.Logger
}

// NewSynthesisService creates the synthesis engine
func NewSynthesisService(repo ports.StudyRepository, consolidator *ai.Consolidator) *SynthesisService {
	return &SynthesisService{
		repo:         repo,
		consolidator: consolidator,
		logger:       internal.NewDefaultLogger(),
	}
}

// Synthesize builds the consolidation context for a strategy's study,
// delegates to the collaborator, applies strict defaulting to whatever comes
// back, and persists the result (fully replacing any prior synthesis).
//
// It fails with NOT_FOUND when no study exists and with CONSOLIDATION_ERROR
// when the collaborator call itself cannot be completed; malformed output is
// recovered locally and never surfaced.
func (s *SynthesisService) Synthesize(ctx context.Context, strategyID string) (*market.Synthesis, error) {
	study, err := s.repo.GetStudy(ctx, strategyID)
	if err != nil {
		return nil, err
	}

	contextText := buildContext(study)
	s.logger.Info("Synthesizing strategy %s: %d sources, context=%d chars",
		strategyID, len(study.RawData), len(contextText))

	draft, err := s.consolidator.Consolidate(ctx, study.BrandName, study.Sector, study.Competitors, contextText)
	if err != nil {
		if !errors.Is(err, ai.ErrMalformedOutput) {
			// Hard collaborator failure: propagate, caller may retry.
			return nil, err
		}
		s.logger.Warn("Collaborator output unparseable for strategy %s, defaulting all fields: %v", strategyID, err)
		draft = nil
	}

	synthesis := finalizeDraft(draft, study)

	at := time.Now().UTC()
	if err := s.repo.SaveSynthesis(ctx, strategyID, synthesis, at); err != nil {
		return nil, err
	}
	return synthesis, nil
}

// finalizeDraft turns the collaborator's raw response into an always
// fully-shaped Synthesis. Missing or invalid sub-fields are backfilled with
// sentinels and ai_estimated confidence; this never fails.
func finalizeDraft(draft *ai.SynthesisDraft, study *market.MarketStudy) *market.Synthesis {
	if draft == nil {
		draft = &ai.SynthesisDraft{}
	}
	hasData := len(study.RawData) > 0

	synthesis := &market.Synthesis{
		MarketSize:           finalizeField(draft.MarketSize, hasData),
		CompetitiveLandscape: finalizeField(draft.CompetitiveLandscape, hasData),
		MacroTrends:          finalizeField(draft.MacroTrends, hasData),
		WeakSignals:          finalizeField(draft.WeakSignals, hasData),
		CustomerInsights:     finalizeField(draft.CustomerInsights, hasData),
		SizingEstimate:       finalizeField(draft.SizingEstimate, hasData),
		Gaps:                 draft.Gaps,
		SourcesUsed:          len(study.RawData),
	}
	if synthesis.Gaps == nil {
		synthesis.Gaps = []string{}
	}
	if !hasData && len(synthesis.Gaps) == 0 {
		synthesis.Gaps = append(synthesis.Gaps, "no external source data collected")
	}

	scores := make([]float64, 0, 6)
	for _, field := range synthesis.Fields() {
		scores = append(scores, field.Confidence.Score())
	}
	if mean, err := stats.Mean(scores); err == nil {
		synthesis.OverallConfidence = int(math.Round(mean))
	}

	return synthesis
}

func finalizeField(draft *ai.FieldDraft, hasData bool) market.SynthesisField {
	field := market.SynthesisField{
		Content:    estimatedFieldContent,
		Sources:    []string{},
		Confidence: market.ConfidenceAIEstimated,
	}
	if draft == nil {
		return field
	}
	if draft.Content != "" {
		field.Content = draft.Content
	}
	if draft.Sources != nil {
		field.Sources = draft.Sources
	}
	if c := market.Confidence(draft.Confidence); market.ValidConfidence(c) {
		field.Confidence = c
	}
	// Without any collected data no fact can be better than a model estimate,
	// whatever the collaborator claimed.
	if !hasData {
		field.Confidence = market.ConfidenceAIEstimated
	}
	return field
}

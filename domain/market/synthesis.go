package market

// Confidence grades how well a synthesized fact is supported by collected
// source data. ai_estimated marks facts the model produced without any
// external evidence.
type Confidence string

const (
	ConfidenceHigh        Confidence = "high"
	ConfidenceMedium      Confidence = "medium"
	ConfidenceLow         Confidence = "low"
	ConfidenceAIEstimated Confidence = "ai_estimated"
)

// ValidConfidence reports whether c is one of the four enumerated levels.
func ValidConfidence(c Confidence) bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow, ConfidenceAIEstimated:
		return true
	}
	return false
}

// Score maps a confidence level onto the 0-100 scale used for the
// synthesis-wide aggregate.
func (c Confidence) Score() float64 {
	switch c {
	case ConfidenceHigh:
		return 90
	case ConfidenceMedium:
		return 65
	case ConfidenceLow:
		return 40
	default:
		return 15
	}
}

// SynthesisField is one consolidated finding annotated with the sources
// that support it and a confidence grade.
type SynthesisField struct {
	Content    string     `json:"content"`
	Sources    []string   `json:"sources"`
	Confidence Confidence `json:"confidence"`
}

// Synthesis is the consolidated market-analysis document. Every field is
// always present and well-typed; when no data exists the confidence degrades
// to ai_estimated rather than the field being absent.
type Synthesis struct {
	MarketSize           SynthesisField `json:"market_size"`
	CompetitiveLandscape SynthesisField `json:"competitive_landscape"`
	MacroTrends          SynthesisField `json:"macro_trends"`
	WeakSignals          SynthesisField `json:"weak_signals"`
	CustomerInsights     SynthesisField `json:"customer_insights"`
	SizingEstimate       SynthesisField `json:"sizing_estimate"`
	Gaps                 []string       `json:"gaps"`
	OverallConfidence    int            `json:"overall_confidence"`
	SourcesUsed          int            `json:"sources_used"`
}

// Fields returns the six annotated fields in document order, for callers
// that aggregate or validate them uniformly.
func (s *Synthesis) Fields() []*SynthesisField {
	return []*SynthesisField{
		&s.MarketSize,
		&s.CompetitiveLandscape,
		&s.MacroTrends,
		&s.WeakSignals,
		&s.CustomerInsights,
		&s.SizingEstimate,
	}
}

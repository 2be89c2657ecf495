package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	apperrors "brandintel/internal/errors"
	"brandintel/ports"
)

// ErrMalformedOutput marks a response that was received from the collaborator
// but could not be parsed into the expected structure. Callers recover from
// it locally via field-by-field defaulting; it is never a hard failure.
var ErrMalformedOutput = errors.New("malformed consolidation output")

// FieldDraft is one field of the collaborator's raw response. Pointer usage
// in SynthesisDraft lets callers distinguish a missing field from an empty one.
type FieldDraft struct {
	Content    string   `json:"content"`
	Sources    []string `json:"sources"`
	Confidence string   `json:"confidence"`
}

// SynthesisDraft is the collaborator's structured response before validation
// and defaulting.
type SynthesisDraft struct {
	MarketSize           *FieldDraft `json:"market_size"`
	CompetitiveLandscape *FieldDraft `json:"competitive_landscape"`
	MacroTrends          *FieldDraft `json:"macro_trends"`
	WeakSignals          *FieldDraft `json:"weak_signals"`
	CustomerInsights     *FieldDraft `json:"customer_insights"`
	SizingEstimate       *FieldDraft `json:"sizing_estimate"`
	Gaps                 []string    `json:"gaps"`
}

// Consolidator delegates assembled context to the generative-text
// collaborator under the strict output contract.
type Consolidator struct {
	client    ports.LLMClient
	model     string
	maxTokens int
}

// NewConsolidator creates a consolidator bound to an LLM client
func NewConsolidator(client ports.LLMClient, model string, maxTokens int) *Consolidator {
	return &Consolidator{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Consolidate sends the assembled context to the collaborator and parses the
// structured response. A transport-level failure is returned as a
// CONSOLIDATION_ERROR and must propagate to the caller; a received but
// unparseable response is returned as ErrMalformedOutput for local defaulting.
func (c *Consolidator) Consolidate(ctx context.Context, brand, sector string, competitors []string, contextText string) (*SynthesisDraft, error) {
	prompt := strings.NewReplacer(
		"{{brand}}", brand,
		"{{sector}}", sector,
		"{{competitors}}", strings.Join(competitors, ", "),
		"{{context}}", contextText,
	).Replace(consolidationPrompt)

	log.Printf("[Consolidator] Sending consolidation request - model=%s, promptLength=%d", c.model, len(prompt))

	content, err := c.client.ChatCompletion(ctx, c.model, prompt, c.maxTokens)
	if err != nil {
		log.Printf("[Consolidator] ERROR: Collaborator call failed: %v", err)
		return nil, apperrors.ConsolidationError(err)
	}

	cleaned := cleanJSONContent(content)
	log.Printf("[Consolidator] Response received - raw=%d bytes, cleaned=%d bytes", len(content), len(cleaned))

	var draft SynthesisDraft
	if err := json.Unmarshal([]byte(cleaned), &draft); err != nil {
		log.Printf("[Consolidator] ERROR: Failed to parse response: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	return &draft, nil
}

// cleanJSONContent removes markdown code blocks and leading chatter so the
// JSON body can be parsed even when the model wraps it.
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	// Trim prose before the first JSON object, e.g. "Here is the analysis:"
	if !strings.HasPrefix(content, "{") {
		if idx := strings.Index(content, "{"); idx > 0 {
			head := content[:idx]
			if !strings.Contains(head, "}") {
				content = content[idx:]
			}
		}
	}

	return strings.TrimSpace(content)
}

package app

import (
	"strings"
	"testing"

	"brandintel/domain/market"
)

func TestBuildContextNoData(t *testing.T) {
	study := &market.MarketStudy{
		StrategyID: "s1",
		RawData:    map[market.SourceID]*market.SourcePayload{},
	}

	out := buildContext(study)
	if !strings.Contains(out, noExternalDataMarker) {
		t.Errorf("expected explicit no-data marker, got %q", out)
	}
}

func TestBuildContextTruncatesOversizedSource(t *testing.T) {
	long := strings.Repeat("x", maxSourceChars+500)
	study := &market.MarketStudy{
		StrategyID: "s1",
		RawData: map[market.SourceID]*market.SourcePayload{
			market.SourceNews: {
				Source: market.SourceNews,
				News:   &market.NewsPayload{Articles: []market.Article{{Title: "t", Snippet: long}}},
			},
			market.SourceSerp: {
				Source: market.SourceSerp,
				Search: &market.SearchPayload{Hits: []market.SearchHit{{Title: "hit", Snippet: "short"}}},
			},
		},
	}

	out := buildContext(study)
	if !strings.Contains(out, "[truncated]") {
		t.Error("expected oversized source to carry a truncation marker")
	}
	if !strings.Contains(out, "### serp") {
		t.Error("expected the small source to survive untouched")
	}
	if strings.Contains(out, noExternalDataMarker) {
		t.Error("no-data marker must not appear when sources produced data")
	}
}

func TestBuildContextIncludesManualAndInternal(t *testing.T) {
	study := &market.MarketStudy{
		StrategyID:      "s1",
		RawData:         map[market.SourceID]*market.SourcePayload{},
		ManualNotes:     "# Retail audit\n\nShelf share is **falling** in region A.",
		InternalContext: "Board wants premium positioning.",
	}

	out := buildContext(study)
	if !strings.Contains(out, "Shelf share is falling in region A.") {
		t.Errorf("expected markdown-stripped manual notes, got %q", out)
	}
	if strings.Contains(out, "**") || strings.Contains(out, "# Retail") {
		t.Errorf("markdown syntax leaked into context: %q", out)
	}
	if !strings.Contains(out, "Board wants premium positioning.") {
		t.Error("expected internal strategy context to be appended")
	}
}

func TestMarkdownToText(t *testing.T) {
	got := markdownToText("## Heading\n\n- item one\n- item *two*\n")
	for _, want := range []string{"Heading", "item one", "item two"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
	if strings.Contains(got, "#") || strings.Contains(got, "*") {
		t.Errorf("markdown syntax left in %q", got)
	}
}

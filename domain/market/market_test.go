package market

import (
	"strings"
	"testing"
)

func TestDataPointsPerVariant(t *testing.T) {
	cases := []struct {
		name    string
		payload *SourcePayload
		want    int
	}{
		{"nil payload", nil, 0},
		{"empty union", &SourcePayload{Source: SourceNews}, 0},
		{
			"news counts articles",
			&SourcePayload{Source: SourceNews, News: &NewsPayload{Articles: make([]Article, 3)}},
			3,
		},
		{
			"search counts hits",
			&SourcePayload{Source: SourceSerp, Search: &SearchPayload{Hits: make([]SearchHit, 5)}},
			5,
		},
		{
			"social counts posts",
			&SourcePayload{Source: SourceReddit, Social: &SocialPayload{Posts: make([]SocialPost, 2)}},
			2,
		},
		{
			"trends counts series points plus related",
			&SourcePayload{Source: SourceTrends, Trends: &TrendsPayload{
				Series:  []TrendSeries{{Term: "acme", Points: make([]TrendPoint, 4)}},
				Related: []RelatedQuery{{Query: "acme pricing"}},
			}},
			5,
		},
		{
			"jobs sums open roles",
			&SourcePayload{Source: SourceJobs, Jobs: &JobsPayload{Companies: []CompanyHiring{
				{Company: "Acme", OpenRoles: 12},
				{Company: "Globex", OpenRoles: 7},
			}}},
			19,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.payload.DataPoints(); got != tc.want {
				t.Errorf("DataPoints() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestFormatContext(t *testing.T) {
	news := &SourcePayload{Source: SourceNews, News: &NewsPayload{Articles: []Article{
		{Query: "Acme", Title: "Acme raises series B", Outlet: "Wire", PublishedAt: "2026-08-01", Snippet: "funding"},
	}}}
	got := news.FormatContext()
	for _, want := range []string{"[Acme]", "Acme raises series B", "Wire", "funding"} {
		if !strings.Contains(got, want) {
			t.Errorf("news context missing %q in %q", want, got)
		}
	}

	trends := &SourcePayload{Source: SourceTrends, Trends: &TrendsPayload{
		Series: []TrendSeries{{Term: "acme", Points: []TrendPoint{
			{Date: "2026-01", Value: 40},
			{Date: "2026-08", Value: 75},
		}}},
		Related: []RelatedQuery{{Query: "acme alternative", Value: "+300%"}},
	}}
	got = trends.FormatContext()
	if !strings.Contains(got, "40 (2026-01) -> 75 (2026-08)") {
		t.Errorf("trends context missing series summary: %q", got)
	}
	if !strings.Contains(got, `rising query "acme alternative" (+300%)`) {
		t.Errorf("trends context missing related query: %q", got)
	}

	jobs := &SourcePayload{Source: SourceJobs, Jobs: &JobsPayload{Companies: []CompanyHiring{
		{Company: "Globex", OpenRoles: 9, SampleRoles: []JobPosting{{Title: "SRE"}, {Title: "PM"}}},
	}}}
	got = jobs.FormatContext()
	if !strings.Contains(got, "Globex: 9 open roles (e.g. SRE; PM)") {
		t.Errorf("jobs context missing hiring summary: %q", got)
	}

	var none *SourcePayload
	if none.FormatContext() != "" {
		t.Error("nil payload must format to empty string")
	}
}

func TestConfidenceScore(t *testing.T) {
	cases := []struct {
		c    Confidence
		want float64
	}{
		{ConfidenceHigh, 90},
		{ConfidenceMedium, 65},
		{ConfidenceLow, 40},
		{ConfidenceAIEstimated, 15},
		{Confidence("bogus"), 15},
	}
	for _, tc := range cases {
		if got := tc.c.Score(); got != tc.want {
			t.Errorf("Score(%q) = %v, want %v", tc.c, got, tc.want)
		}
	}
}

func TestValidConfidence(t *testing.T) {
	for _, c := range []Confidence{ConfidenceHigh, ConfidenceMedium, ConfidenceLow, ConfidenceAIEstimated} {
		if !ValidConfidence(c) {
			t.Errorf("expected %q valid", c)
		}
	}
	for _, c := range []Confidence{"", "certain", "HIGH"} {
		if ValidConfidence(c) {
			t.Errorf("expected %q invalid", c)
		}
	}
}

func TestSynthesisFields(t *testing.T) {
	s := &Synthesis{}
	fields := s.Fields()
	if len(fields) != 6 {
		t.Fatalf("expected 6 analysis fields, got %d", len(fields))
	}
	seen := map[*SynthesisField]bool{}
	for _, f := range fields {
		if f == nil {
			t.Fatal("Fields() must return addressable field pointers")
		}
		if seen[f] {
			t.Error("Fields() returned the same field twice")
		}
		seen[f] = true
	}
	fields[0].Content = "sized"
	if s.MarketSize.Content != "sized" {
		t.Error("Fields() pointers must write through to the struct")
	}
}

func TestKnownSourcesStable(t *testing.T) {
	a, b := KnownSources(), KnownSources()
	if len(a) != 5 {
		t.Fatalf("expected 5 sources, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("KnownSources must return a deterministic order")
		}
	}
	a[0] = SourceID("mutated")
	if KnownSources()[0] == SourceID("mutated") {
		t.Error("KnownSources must not expose shared backing storage")
	}
}

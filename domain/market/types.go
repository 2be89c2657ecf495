package market

import "time"

// SourceID is the stable key for an external data provider.
type SourceID string

const (
	SourceNews   SourceID = "news"
	SourceSerp   SourceID = "serp"
	SourceReddit SourceID = "reddit"
	SourceTrends SourceID = "trends"
	SourceJobs   SourceID = "jobs"
)

// KnownSources returns every provider key the system understands, in the
// order they are reported and formatted.
func KnownSources() []SourceID {
	return []SourceID{SourceNews, SourceSerp, SourceReddit, SourceTrends, SourceJobs}
}

// SourceStatus tracks the lifecycle of one provider within a collection run.
type SourceStatus string

const (
	SourceNotConfigured SourceStatus = "not_configured"
	SourceCollecting    SourceStatus = "collecting"
	SourceComplete      SourceStatus = "complete"
	SourcePartial       SourceStatus = "partial"
	SourceError         SourceStatus = "error"
)

// StudyStatus is the aggregate state of a market study.
type StudyStatus string

const (
	StudyCollecting StudyStatus = "collecting"
	StudyPartial    StudyStatus = "partial"
	StudyComplete   StudyStatus = "complete"
	StudyError      StudyStatus = "error"
)

// CollectionParams describes one collection run. Immutable once the run starts.
type CollectionParams struct {
	BrandName   string   `json:"brand_name"`
	Sector      string   `json:"sector"`
	Competitors []string `json:"competitors"`
	Keywords    []string `json:"keywords"`
	Country     string   `json:"country,omitempty"`
	Language    string   `json:"language,omitempty"`
}

// CollectionResult is the uniform outcome of one adapter's Collect call.
// Adapters never surface errors any other way: a failed call is
// {Success: false, Data: nil, Error: "..."}.
type CollectionResult struct {
	Success        bool           `json:"success"`
	Data           *SourcePayload `json:"data"`
	DataPointCount int            `json:"data_point_count"`
	Error          string         `json:"error,omitempty"`
}

// SourcePayload is a tagged union over provider-specific payload shapes.
// Exactly one of the variant pointers is set, matching Source.
type SourcePayload struct {
	Source SourceID       `json:"source"`
	News   *NewsPayload   `json:"news,omitempty"`
	Search *SearchPayload `json:"search,omitempty"`
	Social *SocialPayload `json:"social,omitempty"`
	Trends *TrendsPayload `json:"trends,omitempty"`
	Jobs   *JobsPayload   `json:"jobs,omitempty"`
}

// NewsPayload holds press coverage for the brand and its competitors.
type NewsPayload struct {
	Articles []Article `json:"articles"`
}

// Article is one news item returned by the news provider.
type Article struct {
	Query       string `json:"query"`
	Title       string `json:"title"`
	Outlet      string `json:"outlet"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
	Snippet     string `json:"snippet"`
}

// SearchPayload holds organic search results per query.
type SearchPayload struct {
	Hits []SearchHit `json:"hits"`
}

// SearchHit is one organic result from the SERP provider.
type SearchHit struct {
	Query    string `json:"query"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}

// SocialPayload holds social-listening posts.
type SocialPayload struct {
	Posts []SocialPost `json:"posts"`
}

// SocialPost is one community post matching a listening keyword.
type SocialPost struct {
	Query     string  `json:"query"`
	Title     string  `json:"title"`
	Community string  `json:"community"`
	Score     int     `json:"score"`
	Comments  int     `json:"comments"`
	Permalink string  `json:"permalink"`
	CreatedAt float64 `json:"created_at"`
}

// TrendsPayload holds search-interest series comparing the brand against
// competitors, plus rising related queries.
type TrendsPayload struct {
	Series  []TrendSeries  `json:"series"`
	Related []RelatedQuery `json:"related,omitempty"`
}

// TrendSeries is the interest-over-time curve for one term.
type TrendSeries struct {
	Term   string       `json:"term"`
	Points []TrendPoint `json:"points"`
}

// TrendPoint is one dated interest value (0-100 scale).
type TrendPoint struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
}

// RelatedQuery is a rising query associated with a tracked term.
type RelatedQuery struct {
	Query string `json:"query"`
	Value string `json:"value"`
}

// JobsPayload holds hiring-signal data per company.
type JobsPayload struct {
	Companies []CompanyHiring `json:"companies"`
}

// CompanyHiring summarizes open positions for one company.
type CompanyHiring struct {
	Company     string       `json:"company"`
	OpenRoles   int          `json:"open_roles"`
	SampleRoles []JobPosting `json:"sample_roles,omitempty"`
}

// JobPosting is one open position returned by the jobs provider.
type JobPosting struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	Category string `json:"category"`
}

// DataPoints returns the number of atomic observations in the payload,
// regardless of variant.
func (p *SourcePayload) DataPoints() int {
	if p == nil {
		return 0
	}
	switch {
	case p.News != nil:
		return len(p.News.Articles)
	case p.Search != nil:
		return len(p.Search.Hits)
	case p.Social != nil:
		return len(p.Social.Posts)
	case p.Trends != nil:
		n := len(p.Trends.Related)
		for _, s := range p.Trends.Series {
			n += len(s.Points)
		}
		return n
	case p.Jobs != nil:
		n := 0
		for _, c := range p.Jobs.Companies {
			n += c.OpenRoles
		}
		return n
	}
	return 0
}

// MarketStudy is the persisted aggregate for one strategy's market
// intelligence, mutated incrementally as each source settles.
type MarketStudy struct {
	StrategyID      string                     `json:"strategy_id"`
	BrandName       string                     `json:"brand_name"`
	Sector          string                     `json:"sector"`
	Competitors     []string                   `json:"competitors"`
	Status          StudyStatus                `json:"status"`
	SourceStatuses  map[SourceID]SourceStatus  `json:"source_statuses"`
	RawData         map[SourceID]*SourcePayload `json:"raw_data"`
	ManualNotes     string                     `json:"manual_notes,omitempty"`
	InternalContext string                     `json:"internal_context,omitempty"`
	Synthesis       *Synthesis                 `json:"synthesis,omitempty"`
	SynthesizedAt   *time.Time                 `json:"synthesized_at,omitempty"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

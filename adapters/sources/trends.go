package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"brandintel/domain/market"
)

const trendsBaseURL = "https://serpapi.com/search.json"

// TrendsAdapter collects Google Trends interest-over-time via SerpAPI,
// comparing the brand against its competitors, plus rising related queries
// for the brand. Two paced sub-queries total.
type TrendsAdapter struct {
	apiKey  string
	baseURL string
	client  *providerClient
}

// NewTrendsAdapter creates the search-interest adapter
func NewTrendsAdapter(apiKey string, client *providerClient) *TrendsAdapter {
	return &TrendsAdapter{apiKey: apiKey, baseURL: trendsBaseURL, client: client}
}

func (a *TrendsAdapter) Name() string { return "Search interest (Google Trends)" }

func (a *TrendsAdapter) SourceID() market.SourceID { return market.SourceTrends }

func (a *TrendsAdapter) IsConfigured() bool { return a.apiKey != "" }

func (a *TrendsAdapter) Collect(ctx context.Context, params market.CollectionParams) (res market.CollectionResult) {
	defer recoverResult(&res)

	// Google Trends compares at most 5 terms per request.
	terms := append([]string{params.BrandName}, params.Competitors...)
	if len(terms) > 5 {
		terms = terms[:5]
	}

	payload := &market.TrendsPayload{}
	var errs []string

	series, err := a.interestOverTime(ctx, terms, params.Country)
	if err != nil {
		errs = append(errs, fmt.Sprintf("interest: %v", err))
	} else {
		payload.Series = series
	}

	if err := a.client.wait(ctx); err != nil {
		errs = append(errs, fmt.Sprintf("related: %v", err))
		return buildResult(&market.SourcePayload{Source: market.SourceTrends, Trends: payload}, errs)
	}

	related, err := a.relatedQueries(ctx, params.BrandName, params.Country)
	if err != nil {
		errs = append(errs, fmt.Sprintf("related: %v", err))
	} else {
		payload.Related = related
	}

	return buildResult(&market.SourcePayload{Source: market.SourceTrends, Trends: payload}, errs)
}

func (a *TrendsAdapter) interestOverTime(ctx context.Context, terms []string, country string) ([]market.TrendSeries, error) {
	q := a.baseQuery(strings.Join(terms, ","), country)
	q.Set("data_type", "TIMESERIES")

	var decoded struct {
		InterestOverTime struct {
			TimelineData []struct {
				Date   string `json:"date"`
				Values []struct {
					Query          string `json:"query"`
					ExtractedValue int    `json:"extracted_value"`
				} `json:"values"`
			} `json:"timeline_data"`
		} `json:"interest_over_time"`
	}
	if err := a.client.getJSON(ctx, a.baseURL+"?"+q.Encode(), nil, &decoded); err != nil {
		return nil, err
	}

	byTerm := make(map[string]*market.TrendSeries, len(terms))
	var order []string
	for _, point := range decoded.InterestOverTime.TimelineData {
		for _, v := range point.Values {
			s, ok := byTerm[v.Query]
			if !ok {
				s = &market.TrendSeries{Term: v.Query}
				byTerm[v.Query] = s
				order = append(order, v.Query)
			}
			s.Points = append(s.Points, market.TrendPoint{Date: point.Date, Value: v.ExtractedValue})
		}
	}

	out := make([]market.TrendSeries, 0, len(order))
	for _, term := range order {
		out = append(out, *byTerm[term])
	}
	return out, nil
}

func (a *TrendsAdapter) relatedQueries(ctx context.Context, term, country string) ([]market.RelatedQuery, error) {
	q := a.baseQuery(term, country)
	q.Set("data_type", "RELATED_QUERIES")

	var decoded struct {
		RelatedQueries struct {
			Rising []struct {
				Query string `json:"query"`
				Value string `json:"value"`
			} `json:"rising"`
		} `json:"related_queries"`
	}
	if err := a.client.getJSON(ctx, a.baseURL+"?"+q.Encode(), nil, &decoded); err != nil {
		return nil, err
	}

	related := make([]market.RelatedQuery, 0, len(decoded.RelatedQueries.Rising))
	for _, item := range decoded.RelatedQueries.Rising {
		related = append(related, market.RelatedQuery{Query: item.Query, Value: item.Value})
	}
	return related, nil
}

func (a *TrendsAdapter) baseQuery(q, country string) url.Values {
	v := url.Values{}
	v.Set("engine", "google_trends")
	v.Set("q", q)
	v.Set("api_key", a.apiKey)
	if country != "" {
		v.Set("geo", strings.ToUpper(country))
	}
	return v
}

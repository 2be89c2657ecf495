package sources

import (
	"context"
	"fmt"

	"brandintel/domain/market"
)

const serpBaseURL = "https://google.serper.dev/search"

// SerpAdapter collects organic search results from Serper.dev. It runs one
// paced sub-query per brand/competitor plus a sector market query.
type SerpAdapter struct {
	apiKey  string
	baseURL string
	client  *providerClient
}

// NewSerpAdapter creates the SERP adapter
func NewSerpAdapter(apiKey string, client *providerClient) *SerpAdapter {
	return &SerpAdapter{apiKey: apiKey, baseURL: serpBaseURL, client: client}
}

func (a *SerpAdapter) Name() string { return "Organic search (Serper)" }

func (a *SerpAdapter) SourceID() market.SourceID { return market.SourceSerp }

func (a *SerpAdapter) IsConfigured() bool { return a.apiKey != "" }

func (a *SerpAdapter) Collect(ctx context.Context, params market.CollectionParams) (res market.CollectionResult) {
	defer recoverResult(&res)

	queries := append([]string{params.BrandName}, params.Competitors...)
	if params.Sector != "" {
		queries = append(queries, params.Sector+" market")
	}

	payload := &market.SearchPayload{}
	var errs []string

	for i, q := range queries {
		if q == "" {
			continue
		}
		if i > 0 {
			if err := a.client.wait(ctx); err != nil {
				errs = append(errs, fmt.Sprintf("%q: %v", q, err))
				break
			}
		}

		hits, err := a.search(ctx, q, params.Country, params.Language)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%q: %v", q, err))
			continue
		}
		payload.Hits = append(payload.Hits, hits...)
	}

	return buildResult(&market.SourcePayload{Source: market.SourceSerp, Search: payload}, errs)
}

func (a *SerpAdapter) search(ctx context.Context, query, country, language string) ([]market.SearchHit, error) {
	body := map[string]any{"q": query, "num": 10}
	if country != "" {
		body["gl"] = country
	}
	if language != "" {
		body["hl"] = language
	}

	var decoded struct {
		Organic []struct {
			Title    string `json:"title"`
			Link     string `json:"link"`
			Snippet  string `json:"snippet"`
			Position int    `json:"position"`
		} `json:"organic"`
	}
	headers := map[string]string{"X-API-KEY": a.apiKey}
	if err := a.client.postJSON(ctx, a.baseURL, headers, body, &decoded); err != nil {
		return nil, err
	}

	hits := make([]market.SearchHit, 0, len(decoded.Organic))
	for _, item := range decoded.Organic {
		hits = append(hits, market.SearchHit{
			Query:    query,
			Title:    item.Title,
			Link:     item.Link,
			Snippet:  item.Snippet,
			Position: item.Position,
		})
	}
	return hits, nil
}

package sources

import (
	"context"
	"fmt"
	"net/url"

	"brandintel/domain/market"
)

const newsBaseURL = "https://newsapi.org/v2/everything"

// NewsAdapter collects press coverage from NewsAPI.org for the brand and
// each competitor, one sub-query per name.
type NewsAdapter struct {
	apiKey  string
	baseURL string
	client  *providerClient
}

// NewNewsAdapter creates the news adapter
func NewNewsAdapter(apiKey string, client *providerClient) *NewsAdapter {
	return &NewsAdapter{apiKey: apiKey, baseURL: newsBaseURL, client: client}
}

func (a *NewsAdapter) Name() string { return "Press coverage (NewsAPI)" }

func (a *NewsAdapter) SourceID() market.SourceID { return market.SourceNews }

func (a *NewsAdapter) IsConfigured() bool { return a.apiKey != "" }

func (a *NewsAdapter) Collect(ctx context.Context, params market.CollectionParams) (res market.CollectionResult) {
	defer recoverResult(&res)

	queries := append([]string{params.BrandName}, params.Competitors...)
	payload := &market.NewsPayload{}
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

		articles, err := a.search(ctx, q, params.Language)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%q: %v", q, err))
			continue
		}
		payload.Articles = append(payload.Articles, articles...)
	}

	return buildResult(&market.SourcePayload{Source: market.SourceNews, News: payload}, errs)
}

func (a *NewsAdapter) search(ctx context.Context, query, language string) ([]market.Article, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("sortBy", "relevancy")
	q.Set("pageSize", "20")
	if language != "" {
		q.Set("language", language)
	}

	var decoded struct {
		Status   string `json:"status"`
		Message  string `json:"message"`
		Articles []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			PublishedAt string `json:"publishedAt"`
			Description string `json:"description"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	headers := map[string]string{"X-Api-Key": a.apiKey}
	if err := a.client.getJSON(ctx, a.baseURL+"?"+q.Encode(), headers, &decoded); err != nil {
		return nil, err
	}
	if decoded.Status != "ok" {
		return nil, fmt.Errorf("newsapi status %q: %s", decoded.Status, decoded.Message)
	}

	articles := make([]market.Article, 0, len(decoded.Articles))
	for _, item := range decoded.Articles {
		articles = append(articles, market.Article{
			Query:       query,
			Title:       item.Title,
			Outlet:      item.Source.Name,
			URL:         item.URL,
			PublishedAt: item.PublishedAt,
			Snippet:     item.Description,
		})
	}
	return articles, nil
}

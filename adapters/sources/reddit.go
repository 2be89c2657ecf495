package sources

import (
	"context"
	"fmt"
	"net/url"

	"brandintel/domain/market"
)

const redditBaseURL = "https://oauth.reddit.com/search"

// RedditAdapter performs social listening via the Reddit search API, one
// sub-query per brand name and tracked keyword.
type RedditAdapter struct {
	token   string
	baseURL string
	client  *providerClient
}

// NewRedditAdapter creates the social-listening adapter
func NewRedditAdapter(token string, client *providerClient) *RedditAdapter {
	return &RedditAdapter{token: token, baseURL: redditBaseURL, client: client}
}

func (a *RedditAdapter) Name() string { return "Social listening (Reddit)" }

func (a *RedditAdapter) SourceID() market.SourceID { return market.SourceReddit }

func (a *RedditAdapter) IsConfigured() bool { return a.token != "" }

func (a *RedditAdapter) Collect(ctx context.Context, params market.CollectionParams) (res market.CollectionResult) {
	defer recoverResult(&res)

	queries := append([]string{params.BrandName}, params.Keywords...)
	payload := &market.SocialPayload{}
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

		posts, err := a.search(ctx, q)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%q: %v", q, err))
			continue
		}
		payload.Posts = append(payload.Posts, posts...)
	}

	return buildResult(&market.SourcePayload{Source: market.SourceReddit, Social: payload}, errs)
}

func (a *RedditAdapter) search(ctx context.Context, query string) ([]market.SocialPost, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("sort", "relevance")
	q.Set("limit", "25")

	var decoded struct {
		Data struct {
			Children []struct {
				Data struct {
					Title       string  `json:"title"`
					Subreddit   string  `json:"subreddit"`
					Score       int     `json:"score"`
					NumComments int     `json:"num_comments"`
					Permalink   string  `json:"permalink"`
					CreatedUTC  float64 `json:"created_utc"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	headers := map[string]string{
		"Authorization": "Bearer " + a.token,
		"User-Agent":    "brandintel/1.0",
	}
	if err := a.client.getJSON(ctx, a.baseURL+"?"+q.Encode(), headers, &decoded); err != nil {
		return nil, err
	}

	posts := make([]market.SocialPost, 0, len(decoded.Data.Children))
	for _, child := range decoded.Data.Children {
		posts = append(posts, market.SocialPost{
			Query:     query,
			Title:     child.Data.Title,
			Community: child.Data.Subreddit,
			Score:     child.Data.Score,
			Comments:  child.Data.NumComments,
			Permalink: child.Data.Permalink,
			CreatedAt: child.Data.CreatedUTC,
		})
	}
	return posts, nil
}

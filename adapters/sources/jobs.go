package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"brandintel/domain/market"
)

const jobsBaseURL = "https://api.adzuna.com/v1/api/jobs"

// JobsAdapter collects hiring signals from Adzuna job postings, one paced
// sub-query per company. Head-count growth in postings is a leading
// expansion indicator for competitors.
type JobsAdapter struct {
	appID   string
	appKey  string
	baseURL string
	client  *providerClient
}

// NewJobsAdapter creates the hiring-signal adapter
func NewJobsAdapter(appID, appKey string, client *providerClient) *JobsAdapter {
	return &JobsAdapter{appID: appID, appKey: appKey, baseURL: jobsBaseURL, client: client}
}

func (a *JobsAdapter) Name() string { return "Hiring signals (Adzuna)" }

func (a *JobsAdapter) SourceID() market.SourceID { return market.SourceJobs }

func (a *JobsAdapter) IsConfigured() bool { return a.appID != "" && a.appKey != "" }

func (a *JobsAdapter) Collect(ctx context.Context, params market.CollectionParams) (res market.CollectionResult) {
	defer recoverResult(&res)

	companies := append([]string{params.BrandName}, params.Competitors...)
	country := strings.ToLower(params.Country)
	if country == "" {
		country = "gb"
	}

	payload := &market.JobsPayload{}
	var errs []string

	for i, company := range companies {
		if company == "" {
			continue
		}
		if i > 0 {
			if err := a.client.wait(ctx); err != nil {
				errs = append(errs, fmt.Sprintf("%q: %v", company, err))
				break
			}
		}

		hiring, err := a.search(ctx, country, company)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%q: %v", company, err))
			continue
		}
		payload.Companies = append(payload.Companies, hiring)
	}

	return buildResult(&market.SourcePayload{Source: market.SourceJobs, Jobs: payload}, errs)
}

func (a *JobsAdapter) search(ctx context.Context, country, company string) (market.CompanyHiring, error) {
	q := url.Values{}
	q.Set("app_id", a.appID)
	q.Set("app_key", a.appKey)
	q.Set("what", company)
	q.Set("results_per_page", "10")

	var decoded struct {
		Count   int `json:"count"`
		Results []struct {
			Title    string `json:"title"`
			Location struct {
				DisplayName string `json:"display_name"`
			} `json:"location"`
			Category struct {
				Label string `json:"label"`
			} `json:"category"`
		} `json:"results"`
	}
	endpoint := fmt.Sprintf("%s/%s/search/1?%s", a.baseURL, country, q.Encode())
	if err := a.client.getJSON(ctx, endpoint, nil, &decoded); err != nil {
		return market.CompanyHiring{}, err
	}

	hiring := market.CompanyHiring{Company: company, OpenRoles: decoded.Count}
	for _, item := range decoded.Results {
		hiring.SampleRoles = append(hiring.SampleRoles, market.JobPosting{
			Title:    item.Title,
			Location: item.Location.DisplayName,
			Category: item.Category.Label,
		})
	}
	return hiring, nil
}

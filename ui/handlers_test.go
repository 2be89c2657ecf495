package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandintel/adapters/llm"
	"brandintel/ai"
	"brandintel/app"
	"brandintel/domain/market"
	"brandintel/internal/testkit"
	"brandintel/ports"
)

const synthesisJSON = `{
	"market_size": {"content": "roughly 2B EUR", "sources": ["news"], "confidence": "medium"},
	"competitive_landscape": {"content": "fragmented", "sources": ["serp"], "confidence": "high"},
	"macro_trends": {"content": "consolidation", "sources": ["trends"], "confidence": "medium"},
	"weak_signals": {"content": "none notable", "sources": [], "confidence": "low"},
	"customer_insights": {"content": "price sensitive", "sources": ["reddit"], "confidence": "medium"},
	"sizing_estimate": {"content": "SAM around 400M EUR", "sources": [], "confidence": "low"},
	"gaps": ["no pricing data"]
}`

func setupApp(t *testing.T, repo *testkit.InMemoryStudyRepository, mock *llm.MockLLMClient) *App {
	t.Helper()
	adapters := []ports.SourceAdapter{
		&testkit.StubAdapter{
			AdapterName: "Press coverage",
			ID:          market.SourceNews,
			Configured:  true,
			Result: market.CollectionResult{
				Success:        true,
				DataPointCount: 3,
				Data: &market.SourcePayload{
					Source: market.SourceNews,
					News:   &market.NewsPayload{Articles: make([]market.Article, 3)},
				},
			},
		},
		&testkit.StubAdapter{AdapterName: "Hiring signals", ID: market.SourceJobs, Configured: false},
	}
	collection := app.NewCollectionService(repo, adapters, time.Second)
	synthesis := app.NewSynthesisService(repo, ai.NewConsolidator(mock, "gpt-4o", 2000))
	return NewApp(collection, synthesis, repo)
}

func TestListSources(t *testing.T) {
	a := setupApp(t, testkit.NewInMemoryStudyRepository(), &llm.MockLLMClient{})

	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sources", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var infos []app.SourceInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&infos))
	require.Len(t, infos, 2)
	assert.Equal(t, market.SourceNews, infos[0].SourceID)
	assert.True(t, infos[0].Configured)
	assert.False(t, infos[1].Configured)
}

func TestCollectEndpoint(t *testing.T) {
	repo := testkit.NewInMemoryStudyRepository()
	a := setupApp(t, repo, &llm.MockLLMClient{})

	body := `{"brand_name": "Acme", "sector": "widgets", "competitors": ["Globex"]}`
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/studies/strat-1/collect", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var summary app.CollectionSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	assert.True(t, summary.Success)
	assert.Equal(t, 1, summary.SourcesCompleted)
	assert.Equal(t, 1, summary.SourcesTotal)
	assert.Empty(t, summary.Errors)

	study, err := repo.GetStudy(context.Background(), "strat-1")
	require.NoError(t, err)
	assert.Equal(t, market.SourceComplete, study.SourceStatuses[market.SourceNews])
	assert.Equal(t, market.SourceNotConfigured, study.SourceStatuses[market.SourceJobs])
}

func TestCollectRequiresBrandName(t *testing.T) {
	a := setupApp(t, testkit.NewInMemoryStudyRepository(), &llm.MockLLMClient{})

	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/studies/strat-1/collect", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errBody map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errBody))
	assert.Equal(t, "INVALID_INPUT", errBody["code"])
}

func TestGetStudy(t *testing.T) {
	repo := testkit.NewInMemoryStudyRepository()
	a := setupApp(t, repo, &llm.MockLLMClient{})

	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/studies/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	body := `{"brand_name": "Acme"}`
	a.Router().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/studies/strat-2/collect", strings.NewReader(body)))

	rec = httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/studies/strat-2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var study market.MarketStudy
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&study))
	assert.Equal(t, "Acme", study.BrandName)
	assert.Equal(t, market.StudyComplete, study.Status)
}

func TestSetContextAndSynthesize(t *testing.T) {
	repo := testkit.NewInMemoryStudyRepository()
	mock := &llm.MockLLMClient{Response: synthesisJSON}
	a := setupApp(t, repo, mock)

	collect := `{"brand_name": "Acme", "sector": "widgets"}`
	a.Router().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/studies/strat-3/collect", strings.NewReader(collect)))

	ctxBody := `{"manual_notes": "founder interview notes", "internal_context": "2026 expansion plan"}`
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/studies/strat-3/context", strings.NewReader(ctxBody)))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/studies/strat-3/synthesize", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var synthesis market.Synthesis
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&synthesis))
	assert.Equal(t, "roughly 2B EUR", synthesis.MarketSize.Content)
	assert.Equal(t, market.ConfidenceMedium, synthesis.MarketSize.Confidence)
	assert.NotZero(t, synthesis.OverallConfidence)

	require.Len(t, mock.Prompts, 1)
	assert.Contains(t, mock.Prompts[0], "founder interview notes")
	assert.Contains(t, mock.Prompts[0], "2026 expansion plan")
}

func TestSynthesizeMissingStudy(t *testing.T) {
	a := setupApp(t, testkit.NewInMemoryStudyRepository(), &llm.MockLLMClient{})

	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/studies/nope/synthesize", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

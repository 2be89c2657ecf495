package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"brandintel/domain/market"
	"brandintel/internal/testkit"
	"brandintel/ports"
)

func newService(repo ports.StudyRepository, adapters ...ports.SourceAdapter) *CollectionService {
	return NewCollectionService(repo, adapters, 2*time.Second)
}

func successResult(id market.SourceID, points int) market.CollectionResult {
	articles := make([]market.Article, points)
	for i := range articles {
		articles[i] = market.Article{Title: "article", Outlet: "outlet"}
	}
	return market.CollectionResult{
		Success:        true,
		Data:           &market.SourcePayload{Source: id, News: &market.NewsPayload{Articles: articles}},
		DataPointCount: points,
	}
}

func TestRunCollectionPartial(t *testing.T) {
	repo := testkit.NewInMemoryStudyRepository()
	ids := market.KnownSources()

	adapters := []ports.SourceAdapter{
		&testkit.StubAdapter{AdapterName: "a", ID: ids[0], Configured: true, Result: successResult(ids[0], 3)},
		&testkit.StubAdapter{AdapterName: "b", ID: ids[1], Configured: true, Result: successResult(ids[1], 5)},
		&testkit.StubAdapter{AdapterName: "c", ID: ids[2], Configured: true, Result: successResult(ids[2], 1)},
		&testkit.StubAdapter{AdapterName: "d", ID: ids[3], Configured: true, Result: market.CollectionResult{Success: false, Error: "boom"}},
		&testkit.StubAdapter{AdapterName: "e", ID: ids[4], Configured: true, Result: market.CollectionResult{Success: false, Error: "unreachable"}},
	}

	summary, err := newService(repo, adapters...).RunCollection(context.Background(), CollectionRequest{
		StrategyID: "s1", BrandName: "Acme", Sector: "widgets",
	})
	if err != nil {
		t.Fatalf("RunCollection returned error: %v", err)
	}

	if summary.SourcesCompleted != 3 {
		t.Errorf("expected 3 completed, got %d", summary.SourcesCompleted)
	}
	if summary.SourcesTotal != 5 {
		t.Errorf("expected 5 total, got %d", summary.SourcesTotal)
	}
	if len(summary.Errors) != 2 {
		t.Errorf("expected 2 errors, got %d: %v", len(summary.Errors), summary.Errors)
	}
	if !summary.Success {
		t.Error("expected success with partial completion")
	}

	study, err := repo.GetStudy(context.Background(), "s1")
	if err != nil {
		t.Fatalf("GetStudy failed: %v", err)
	}
	if study.Status != market.StudyPartial {
		t.Errorf("expected study status partial, got %s", study.Status)
	}
	if study.SourceStatuses[ids[3]] != market.SourceError {
		t.Errorf("expected source %s in error, got %s", ids[3], study.SourceStatuses[ids[3]])
	}
}

func TestRunCollectionNoConfiguredSources(t *testing.T) {
	repo := testkit.NewInMemoryStudyRepository()
	adapters := []ports.SourceAdapter{
		&testkit.StubAdapter{AdapterName: "a", ID: market.SourceNews, Configured: false},
		&testkit.StubAdapter{AdapterName: "b", ID: market.SourceSerp, Configured: false},
	}

	summary, err := newService(repo, adapters...).RunCollection(context.Background(), CollectionRequest{
		StrategyID: "s1", BrandName: "Acme",
	})
	if err != nil {
		t.Fatalf("RunCollection returned error: %v", err)
	}

	if summary.SourcesTotal != 0 || summary.SourcesCompleted != 0 {
		t.Errorf("expected 0/0, got %d/%d", summary.SourcesCompleted, summary.SourcesTotal)
	}
	if summary.Success {
		t.Error("expected success=false with no configured sources")
	}

	study, _ := repo.GetStudy(context.Background(), "s1")
	if study.Status != market.StudyError {
		t.Errorf("expected study status error, got %s", study.Status)
	}
	if study.SourceStatuses[market.SourceNews] != market.SourceNotConfigured {
		t.Errorf("expected not_configured, got %s", study.SourceStatuses[market.SourceNews])
	}
}

func TestRunCollectionSingleSourcePersistedOnce(t *testing.T) {
	repo := testkit.NewInMemoryStudyRepository()
	adapter := &testkit.StubAdapter{
		AdapterName: "news", ID: market.SourceNews, Configured: true,
		Result: successResult(market.SourceNews, 12),
	}

	summary, err := newService(repo, adapter).RunCollection(context.Background(), CollectionRequest{
		StrategyID: "s1", BrandName: "Acme",
	})
	if err != nil {
		t.Fatalf("RunCollection returned error: %v", err)
	}

	if summary.SourcesCompleted != 1 || summary.SourcesTotal != 1 {
		t.Errorf("expected 1/1, got %d/%d", summary.SourcesCompleted, summary.SourcesTotal)
	}

	study, _ := repo.GetStudy(context.Background(), "s1")
	if study.Status != market.StudyComplete {
		t.Errorf("expected study complete, got %s", study.Status)
	}
	if study.SourceStatuses[market.SourceNews] != market.SourceComplete {
		t.Errorf("expected source complete, got %s", study.SourceStatuses[market.SourceNews])
	}
	if repo.SaveDataCalls[market.SourceNews] != 1 {
		t.Errorf("expected payload persisted exactly once, got %d", repo.SaveDataCalls[market.SourceNews])
	}
	if study.RawData[market.SourceNews] == nil {
		t.Error("expected raw payload persisted")
	}
}

func TestRunCollectionIsolatesPanics(t *testing.T) {
	repo := testkit.NewInMemoryStudyRepository()
	adapters := []ports.SourceAdapter{
		&testkit.StubAdapter{AdapterName: "bad", ID: market.SourceSerp, Configured: true, PanicWith: "nil map write"},
		&testkit.StubAdapter{AdapterName: "good", ID: market.SourceNews, Configured: true, Result: successResult(market.SourceNews, 2)},
	}

	summary, err := newService(repo, adapters...).RunCollection(context.Background(), CollectionRequest{
		StrategyID: "s1", BrandName: "Acme",
	})
	if err != nil {
		t.Fatalf("RunCollection returned error: %v", err)
	}

	if summary.SourcesCompleted != 1 {
		t.Errorf("expected the healthy source to complete, got %d", summary.SourcesCompleted)
	}
	if len(summary.Errors) != 1 || !strings.Contains(summary.Errors[0], "panic") {
		t.Errorf("expected one panic error, got %v", summary.Errors)
	}

	study, _ := repo.GetStudy(context.Background(), "s1")
	if study.SourceStatuses[market.SourceSerp] != market.SourceError {
		t.Errorf("expected panicking source in error, got %s", study.SourceStatuses[market.SourceSerp])
	}
	if study.SourceStatuses[market.SourceNews] != market.SourceComplete {
		t.Errorf("expected healthy source complete, got %s", study.SourceStatuses[market.SourceNews])
	}
}

func TestRunCollectionSourceTimeout(t *testing.T) {
	repo := testkit.NewInMemoryStudyRepository()
	slow := &testkit.StubAdapter{
		AdapterName: "slow", ID: market.SourceTrends, Configured: true,
		Delay:  500 * time.Millisecond,
		Result: successResult(market.SourceTrends, 4),
	}
	fast := &testkit.StubAdapter{
		AdapterName: "fast", ID: market.SourceNews, Configured: true,
		Result: successResult(market.SourceNews, 1),
	}

	svc := NewCollectionService(repo, []ports.SourceAdapter{slow, fast}, 30*time.Millisecond)
	summary, err := svc.RunCollection(context.Background(), CollectionRequest{
		StrategyID: "s1", BrandName: "Acme",
	})
	if err != nil {
		t.Fatalf("RunCollection returned error: %v", err)
	}

	if summary.SourcesCompleted != 1 {
		t.Errorf("expected only the fast source to complete, got %d", summary.SourcesCompleted)
	}
	if len(summary.Errors) != 1 || !strings.Contains(summary.Errors[0], "timed out") {
		t.Errorf("expected a timeout error, got %v", summary.Errors)
	}

	study, _ := repo.GetStudy(context.Background(), "s1")
	if study.SourceStatuses[market.SourceTrends] != market.SourceError {
		t.Errorf("expected timed-out source in error, got %s", study.SourceStatuses[market.SourceTrends])
	}
}

func TestRunCollectionPartialSourceData(t *testing.T) {
	repo := testkit.NewInMemoryStudyRepository()
	// Failed call that still carried data points settles as partial.
	partial := successResult(market.SourceNews, 4)
	partial.Success = false
	partial.Error = "2 of 5 sub-queries failed"

	summary, err := newService(repo, &testkit.StubAdapter{
		AdapterName: "news", ID: market.SourceNews, Configured: true, Result: partial,
	}).RunCollection(context.Background(), CollectionRequest{StrategyID: "s1", BrandName: "Acme"})
	if err != nil {
		t.Fatalf("RunCollection returned error: %v", err)
	}

	if summary.SourcesCompleted != 0 {
		t.Errorf("partial source must not count as completed, got %d", summary.SourcesCompleted)
	}

	study, _ := repo.GetStudy(context.Background(), "s1")
	if study.SourceStatuses[market.SourceNews] != market.SourcePartial {
		t.Errorf("expected partial status, got %s", study.SourceStatuses[market.SourceNews])
	}
	if study.RawData[market.SourceNews] == nil {
		t.Error("expected partial payload persisted")
	}
}

func TestRunCollectionAllFailed(t *testing.T) {
	repo := testkit.NewInMemoryStudyRepository()
	adapters := []ports.SourceAdapter{
		&testkit.StubAdapter{AdapterName: "a", ID: market.SourceNews, Configured: true, Result: market.CollectionResult{Success: false, Error: "down"}},
		&testkit.StubAdapter{AdapterName: "b", ID: market.SourceSerp, Configured: true, Result: market.CollectionResult{Success: false, Error: "down"}},
	}

	summary, err := newService(repo, adapters...).RunCollection(context.Background(), CollectionRequest{
		StrategyID: "s1", BrandName: "Acme",
	})
	if err != nil {
		t.Fatalf("isolation law violated, RunCollection returned error: %v", err)
	}
	if summary.Success {
		t.Error("expected success=false when zero sources produced data")
	}

	study, _ := repo.GetStudy(context.Background(), "s1")
	if study.Status != market.StudyError {
		t.Errorf("expected study error, got %s", study.Status)
	}
}

func TestListAvailableSourcesIdempotent(t *testing.T) {
	svc := newService(testkit.NewInMemoryStudyRepository(),
		&testkit.StubAdapter{AdapterName: "news", ID: market.SourceNews, Configured: true},
		&testkit.StubAdapter{AdapterName: "serp", ID: market.SourceSerp, Configured: false},
	)

	first := svc.ListAvailableSources()
	second := svc.ListAvailableSources()

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected both calls to list 2 sources, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("expected idempotent listing, entry %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
	if first[1].Configured {
		t.Error("expected unconfigured source to be reported as such")
	}
}

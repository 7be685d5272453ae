package feature_test

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ViFerX/research-assistant/internal/domain"
	"github.com/ViFerX/research-assistant/internal/domain/research"
	"github.com/ViFerX/research-assistant/internal/feature"
)

// fakeBackend lets tests control when and how each call resolves. Calls is
// incremented for every method invocation so tests can assert nothing hit
// the "network".
type fakeBackend struct {
	calls     atomic.Int32
	benchmark func(research.BenchmarkRequest) (*research.BenchmarkResponse, error)
	citation  func(research.CitationRequest) (*research.CitationResponse, error)
}

func (f *fakeBackend) RecommendBenchmark(_ context.Context, req research.BenchmarkRequest) (*research.BenchmarkResponse, error) {
	f.calls.Add(1)
	if f.benchmark != nil {
		return f.benchmark(req)
	}
	return &research.BenchmarkResponse{Guidance: "ok"}, nil
}

func (f *fakeBackend) ValidateCitations(_ context.Context, req research.CitationRequest) (*research.CitationResponse, error) {
	f.calls.Add(1)
	if f.citation != nil {
		return f.citation(req)
	}
	return &research.CitationResponse{AnnotatedMarkdown: req.DraftMarkdown}, nil
}

func (f *fakeBackend) GenerateSurvey(context.Context, research.SurveyRequest) (*research.SurveyResponse, error) {
	f.calls.Add(1)
	return &research.SurveyResponse{}, nil
}

func (f *fakeBackend) FindGaps(context.Context, research.GapsRequest) (*research.GapsResponse, error) {
	f.calls.Add(1)
	return &research.GapsResponse{}, nil
}

func (f *fakeBackend) Translate(context.Context, research.TranslateRequest) (*research.TranslateResponse, error) {
	f.calls.Add(1)
	return &research.TranslateResponse{}, nil
}

func (f *fakeBackend) SummarizePersona(context.Context, research.SummaryRequest) (*research.SummaryResponse, error) {
	f.calls.Add(1)
	return &research.SummaryResponse{}, nil
}

func (f *fakeBackend) BuildMethodology(context.Context, research.MethodologyBuildRequest) (*research.MethodologyBuildResponse, error) {
	f.calls.Add(1)
	return &research.MethodologyBuildResponse{}, nil
}

func (f *fakeBackend) ReplicateMethodology(context.Context, research.ReplicateRequest) (*research.ReplicateResponse, error) {
	f.calls.Add(1)
	return &research.ReplicateResponse{}, nil
}

func (f *fakeBackend) SuggestCrossDomain(context.Context, research.CrossDomainRequest) (*research.CrossDomainResponse, error) {
	f.calls.Add(1)
	return &research.CrossDomainResponse{}, nil
}

func (f *fakeBackend) ScanContradictions(context.Context, research.ContradictionRequest) (*research.ContradictionResponse, error) {
	f.calls.Add(1)
	return &research.ContradictionResponse{}, nil
}

func (f *fakeBackend) GenerateLatex(context.Context, research.LatexRequest) (*research.LatexResponse, error) {
	f.calls.Add(1)
	return &research.LatexResponse{}, nil
}

func (f *fakeBackend) TranscribeVoice(context.Context, string, io.Reader) (*research.TranscriptResponse, error) {
	f.calls.Add(1)
	return &research.TranscriptResponse{}, nil
}

// waitStatus polls until the feature's slot reaches the wanted status.
func waitStatus(t *testing.T, table *feature.Table, id feature.ID, want feature.Status) feature.Invocation {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if inv := table.State(id); inv.Status == want {
			return inv
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("feature %s never reached %s (last: %+v)", id, want, table.State(id))
	return feature.Invocation{}
}

func benchmarkForm() feature.Form {
	return feature.Form{"task_type": "classification", "datasets": "ImageNet, COCO", "constraints": "{}"}
}

func TestValidationErrorSkipsBackend(t *testing.T) {
	backend := &fakeBackend{}
	table := feature.NewTable(backend, nil)

	err := table.Invoke(context.Background(), feature.Benchmark, feature.Form{"datasets": "ImageNet"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if n := backend.calls.Load(); n != 0 {
		t.Fatalf("expected zero backend calls, got %d", n)
	}
	if inv := table.State(feature.Benchmark); inv.Status != feature.StatusIdle {
		t.Fatalf("slot should stay idle, got %s", inv.Status)
	}
}

func TestPendingVisibleImmediately(t *testing.T) {
	release := make(chan struct{})
	backend := &fakeBackend{
		benchmark: func(research.BenchmarkRequest) (*research.BenchmarkResponse, error) {
			<-release
			return &research.BenchmarkResponse{Guidance: "done"}, nil
		},
	}
	table := feature.NewTable(backend, nil)

	if err := table.Invoke(context.Background(), feature.Benchmark, benchmarkForm()); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	// The transition happens before the request is issued, so the very
	// next read must observe pending.
	if inv := table.State(feature.Benchmark); inv.Status != feature.StatusPending {
		t.Fatalf("expected pending, got %s", inv.Status)
	}

	close(release)
	inv := waitStatus(t, table, feature.Benchmark, feature.StatusSucceeded)
	if inv.Result.(*research.BenchmarkResponse).Guidance != "done" {
		t.Fatalf("unexpected result: %+v", inv.Result)
	}
}

func TestHighestCounterWins(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	var nth atomic.Int32
	backend := &fakeBackend{
		benchmark: func(research.BenchmarkRequest) (*research.BenchmarkResponse, error) {
			if nth.Add(1) == 1 {
				close(firstStarted)
				<-releaseFirst
				return &research.BenchmarkResponse{Guidance: "first"}, nil
			}
			return &research.BenchmarkResponse{Guidance: "second"}, nil
		},
	}
	table := feature.NewTable(backend, nil)
	ctx := context.Background()

	if err := table.Invoke(ctx, feature.Benchmark, benchmarkForm()); err != nil {
		t.Fatalf("invoke #1: %v", err)
	}
	<-firstStarted

	// #2 is submitted while #1 is still pending and resolves first.
	if err := table.Invoke(ctx, feature.Benchmark, benchmarkForm()); err != nil {
		t.Fatalf("invoke #2: %v", err)
	}
	inv := waitStatus(t, table, feature.Benchmark, feature.StatusSucceeded)
	if inv.Result.(*research.BenchmarkResponse).Guidance != "second" {
		t.Fatalf("expected second result, got %+v", inv.Result)
	}

	// #1 resolving late must not overwrite #2's result.
	close(releaseFirst)
	time.Sleep(50 * time.Millisecond)
	inv = table.State(feature.Benchmark)
	if inv.Status != feature.StatusSucceeded {
		t.Fatalf("expected succeeded, got %s", inv.Status)
	}
	if got := inv.Result.(*research.BenchmarkResponse).Guidance; got != "second" {
		t.Fatalf("stale response overwrote newer result: %q", got)
	}
}

func TestFailureIsTerminalAndRetryable(t *testing.T) {
	fail := atomic.Bool{}
	fail.Store(true)
	backend := &fakeBackend{
		citation: func(req research.CitationRequest) (*research.CitationResponse, error) {
			if fail.Load() {
				return nil, &domain.RequestError{Status: 500, Message: "model overloaded"}
			}
			return &research.CitationResponse{AnnotatedMarkdown: req.DraftMarkdown}, nil
		},
	}
	table := feature.NewTable(backend, nil)
	ctx := context.Background()
	form := feature.Form{"draft_markdown": "# Draft"}

	if err := table.Invoke(ctx, feature.Citation, form); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	inv := waitStatus(t, table, feature.Citation, feature.StatusFailed)
	var re *domain.RequestError
	if !errors.As(inv.Err, &re) {
		t.Fatalf("expected RequestError, got %v", inv.Err)
	}

	// Re-invocation overwrites the failed terminal state; no history kept.
	fail.Store(false)
	if err := table.Invoke(ctx, feature.Citation, form); err != nil {
		t.Fatalf("re-invoke: %v", err)
	}
	inv = waitStatus(t, table, feature.Citation, feature.StatusSucceeded)
	if inv.Err != nil {
		t.Fatalf("error not cleared: %v", inv.Err)
	}
}

func TestSlotsAreIndependent(t *testing.T) {
	release := make(chan struct{})
	backend := &fakeBackend{
		benchmark: func(research.BenchmarkRequest) (*research.BenchmarkResponse, error) {
			<-release
			return &research.BenchmarkResponse{}, nil
		},
	}
	table := feature.NewTable(backend, nil)
	ctx := context.Background()

	if err := table.Invoke(ctx, feature.Benchmark, benchmarkForm()); err != nil {
		t.Fatalf("invoke benchmark: %v", err)
	}
	if err := table.Invoke(ctx, feature.Citation, feature.Form{"draft_markdown": "# D"}); err != nil {
		t.Fatalf("invoke citation: %v", err)
	}

	waitStatus(t, table, feature.Citation, feature.StatusSucceeded)
	if inv := table.State(feature.Benchmark); inv.Status != feature.StatusPending {
		t.Fatalf("benchmark slot disturbed: %s", inv.Status)
	}
	close(release)
	waitStatus(t, table, feature.Benchmark, feature.StatusSucceeded)
}

func TestUnknownFeature(t *testing.T) {
	table := feature.NewTable(&fakeBackend{}, nil)
	if err := table.Invoke(context.Background(), "mystery", feature.Form{}); err == nil {
		t.Fatal("expected error for unknown feature")
	}
}

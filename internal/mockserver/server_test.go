package mockserver_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ViFerX/research-assistant/internal/api"
	"github.com/ViFerX/research-assistant/internal/domain"
	"github.com/ViFerX/research-assistant/internal/domain/project"
	"github.com/ViFerX/research-assistant/internal/domain/research"
	"github.com/ViFerX/research-assistant/internal/domain/user"
	"github.com/ViFerX/research-assistant/internal/jobs"
	"github.com/ViFerX/research-assistant/internal/mockserver"
	"github.com/ViFerX/research-assistant/internal/session"
	"github.com/ViFerX/research-assistant/internal/transport"
)

func newStack(t *testing.T) (*mockserver.Server, *api.Client, *session.Store) {
	t.Helper()
	srv := mockserver.New(nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	sessions := session.NewStore()
	client := api.NewClient(transport.New(ts.URL, sessions))
	return srv, client, sessions
}

func register(t *testing.T, client *api.Client, sessions *session.Store) *user.User {
	t.Helper()
	ctx := context.Background()

	u, err := client.Register(ctx, user.RegisterRequest{
		Name: "Ada", Email: "ada@example.org", Password: "hunter22", Role: user.RoleResearcher,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	resp, err := client.Login(ctx, user.LoginRequest{Email: "ada@example.org", Password: "hunter22"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	sessions.Login(resp.AccessToken, resp.User)
	return u
}

func TestAuthFlow(t *testing.T) {
	_, client, sessions := newStack(t)
	u := register(t, client, sessions)
	ctx := context.Background()

	me, err := client.Me(ctx)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.ID != u.ID || me.Role != user.RoleResearcher {
		t.Fatalf("unexpected profile: %+v", me)
	}
}

func TestWrongPasswordRejected(t *testing.T) {
	_, client, sessions := newStack(t)
	register(t, client, sessions)

	_, err := client.Login(context.Background(), user.LoginRequest{Email: "ada@example.org", Password: "wrong"})
	var re *domain.RequestError
	if !errors.As(err, &re) || re.Status != 401 {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestRevokedTokenExpiresSession(t *testing.T) {
	srv, client, sessions := newStack(t)
	register(t, client, sessions)

	expired := 0
	sessions.OnExpired(func() { expired++ })

	token, _ := sessions.Stamp()
	srv.RevokeToken(token)

	_, err := client.ListProjects(context.Background())
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected session expiry, got %v", err)
	}
	if sessions.Authenticated() {
		t.Fatal("session should have been evicted")
	}
	if expired != 1 {
		t.Fatalf("expected one expiry callback, got %d", expired)
	}
}

func TestProjectAndUploadFlow(t *testing.T) {
	_, client, sessions := newStack(t)
	register(t, client, sessions)
	ctx := context.Background()

	p, err := client.CreateProject(ctx, project.CreateRequest{
		Title: "Attention Variants", Domain: "NLP", Aim: "improve low-resource MT",
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	doc, err := client.UploadDocument(ctx, p.ID, "paper.pdf", strings.NewReader("%PDF-1.4 mock"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if doc.DocumentID == 0 || doc.Filename != "paper.pdf" {
		t.Fatalf("unexpected document: %+v", doc)
	}

	summary, err := client.SummarizePersona(ctx, research.SummaryRequest{
		DocumentID: doc.DocumentID, Persona: "reviewer", Focus: "method", Length: "short",
	})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Summary == "" {
		t.Fatal("expected non-empty summary")
	}

	if err := client.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("delete project: %v", err)
	}
	list, err := client.ListProjects(ctx)
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty project list, got %d", len(list))
	}
}

func TestSurveyAndGaps(t *testing.T) {
	_, client, sessions := newStack(t)
	register(t, client, sessions)
	ctx := context.Background()

	survey, err := client.GenerateSurvey(ctx, research.SurveyRequest{
		Topic: "sparse attention", NResults: 3, YearFrom: 2020, YearTo: 2026,
	})
	if err != nil {
		t.Fatalf("survey: %v", err)
	}
	if len(survey.Papers) != 3 || survey.Draft == "" {
		t.Fatalf("unexpected survey response: %+v", survey)
	}

	gaps, err := client.FindGaps(ctx, research.GapsRequest{
		Aim: "scale to long contexts", SelectedPapers: survey.Papers[:1],
	})
	if err != nil {
		t.Fatalf("gaps: %v", err)
	}
	if len(gaps.Limitations) == 0 || len(gaps.Opportunities) == 0 {
		t.Fatalf("unexpected gaps response: %+v", gaps)
	}
}

func TestValidationErrorsCarryDetail(t *testing.T) {
	_, client, sessions := newStack(t)
	register(t, client, sessions)

	_, err := client.RecommendBenchmark(context.Background(), research.BenchmarkRequest{})
	var re *domain.RequestError
	if !errors.As(err, &re) || re.Status != 422 {
		t.Fatalf("expected 422, got %v", err)
	}
	if !strings.Contains(re.Message, "task_type") {
		t.Fatalf("expected detail to name the field, got %q", re.Message)
	}
}

func TestJobProgression(t *testing.T) {
	srv, client, sessions := newStack(t)
	register(t, client, sessions)

	jobID := srv.SeedJob(research.JobQueued)
	poller := jobs.NewPoller(client, nil, time.Minute)

	job, err := poller.Wait(context.Background(), jobID, time.Millisecond)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if job.Status != research.JobSucceeded {
		t.Fatalf("expected succeeded, got %s", job.Status)
	}
	if len(job.Result) == 0 {
		t.Fatal("expected a result payload")
	}
}

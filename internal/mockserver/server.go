// Package mockserver is an in-memory stand-in for the Research Assistant
// backend. It serves the full HTTP surface the client talks to, with canned
// analysis output, so the CLI and integration tests can run without the real
// platform.
package mockserver

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/ViFerX/research-assistant/internal/domain/document"
	"github.com/ViFerX/research-assistant/internal/domain/project"
	"github.com/ViFerX/research-assistant/internal/domain/research"
	"github.com/ViFerX/research-assistant/internal/domain/user"
)

const bodyLimit = 1 << 20 // 1 MiB per JSON body

type account struct {
	user user.User
	hash []byte
}

type jobState struct {
	job   research.Job
	polls int
}

// Server holds all in-memory backend state.
type Server struct {
	mu        sync.Mutex
	accounts  map[string]*account // keyed by email
	tokens    map[string]int      // bearer token -> user ID
	projects  map[int]project.Project
	owners    map[int]int // project ID -> user ID
	documents map[int]document.Document
	jobs      map[string]*jobState
	nextUser  int
	nextProj  int
	nextDoc   int

	log *slog.Logger
}

// New creates an empty mock backend.
func New(log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		accounts:  make(map[string]*account),
		tokens:    make(map[string]int),
		projects:  make(map[int]project.Project),
		owners:    make(map[int]int),
		documents: make(map[int]document.Document),
		jobs:      make(map[string]*jobState),
		log:       log,
	}
}

// Handler builds the chi router for the full backend surface.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/auth/me", s.handleMe)

		r.Get("/projects", s.handleListProjects)
		r.Post("/projects", s.handleCreateProject)
		r.Get("/projects/{id}", s.handleGetProject)
		r.Delete("/projects/{id}", s.handleDeleteProject)

		r.Post("/upload", s.handleUpload)

		r.Post("/survey/generate", s.handleSurvey)
		r.Post("/survey/gaps", s.handleGaps)
		r.Post("/translate", s.handleTranslate)
		r.Post("/summary/persona", s.handleSummary)
		r.Post("/methodology/build", s.handleMethodologyBuild)
		r.Post("/methodology/replicate", s.handleReplicate)
		r.Post("/cross-domain/suggest", s.handleCrossDomain)
		r.Post("/benchmark/recommend", s.handleBenchmark)
		r.Post("/contradiction/scan", s.handleContradiction)
		r.Post("/citation/validate", s.handleCitation)
		r.Post("/latex/generate", s.handleLatex)
		r.Post("/voice/transcribe", s.handleTranscribe)

		r.Get("/jobs/{id}", s.handleJobStatus)
	})

	return r
}

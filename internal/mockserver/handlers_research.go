package mockserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ViFerX/research-assistant/internal/domain/research"
)

func (s *Server) handleSurvey(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[research.SurveyRequest](s, w, r)
	if !ok {
		return
	}
	if req.Topic == "" {
		writeError(s, w, http.StatusUnprocessableEntity, "topic is required")
		return
	}

	n := req.NResults
	if n <= 0 || n > 5 {
		n = 3
	}
	papers := make([]research.Paper, 0, n)
	for i := range n {
		papers = append(papers, research.Paper{
			Title:       fmt.Sprintf("%s: A Study (%d)", req.Topic, i+1),
			FirstAuthor: "Doe",
			Year:        fmt.Sprintf("%d", req.YearFrom+i),
			Venue:       "Mock Conference",
			DOI:         fmt.Sprintf("10.0000/mock.%d", i+1),
			URL:         fmt.Sprintf("https://example.org/papers/%d", i+1),
			Provider:    "mock",
		})
	}
	writeJSON(s, w, http.StatusOK, research.SurveyResponse{
		Papers: papers,
		Draft:  "## Survey of " + req.Topic + "\n\nThe field has seen steady progress.",
	})
}

func (s *Server) handleGaps(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[research.GapsRequest](s, w, r)
	if !ok {
		return
	}
	if req.Aim == "" || len(req.SelectedPapers) == 0 {
		writeError(s, w, http.StatusUnprocessableEntity, "aim and selected_papers are required")
		return
	}
	writeJSON(s, w, http.StatusOK, research.GapsResponse{
		Limitations:   []string{"small evaluation corpora", "no cross-lingual coverage"},
		Opportunities: []string{"extend " + req.SelectedPapers[0].Title + " toward: " + req.Aim},
	})
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[research.TranslateRequest](s, w, r)
	if !ok {
		return
	}
	if req.DocumentID == 0 || req.TargetLang == "" {
		writeError(s, w, http.StatusUnprocessableEntity, "document_id and target_lang are required")
		return
	}

	s.mu.Lock()
	_, exists := s.documents[req.DocumentID]
	s.mu.Unlock()
	if !exists {
		writeError(s, w, http.StatusNotFound, "document not found")
		return
	}

	resp := research.TranslateResponse{
		TranslatedText: fmt.Sprintf("[%s] translated abstract of document %d", req.TargetLang, req.DocumentID),
	}
	if req.Full {
		resp.DownloadURL = fmt.Sprintf("/downloads/translated-%d-%s.pdf", req.DocumentID, req.TargetLang)
	}
	writeJSON(s, w, http.StatusOK, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[research.SummaryRequest](s, w, r)
	if !ok {
		return
	}
	if req.DocumentID == 0 && req.RawText == "" {
		writeError(s, w, http.StatusUnprocessableEntity, "document_id or raw_text is required")
		return
	}

	source := req.RawText
	if req.DocumentID != 0 {
		source = fmt.Sprintf("document %d", req.DocumentID)
	}
	writeJSON(s, w, http.StatusOK, research.SummaryResponse{
		Summary: fmt.Sprintf("%s summary (%s) of %s, focused on %s.", req.Persona, req.Length, source, req.Focus),
	})
}

func (s *Server) handleMethodologyBuild(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[research.MethodologyBuildRequest](s, w, r)
	if !ok {
		return
	}
	if req.Concept == "" {
		writeError(s, w, http.StatusUnprocessableEntity, "concept is required")
		return
	}
	flowchart, _ := json.Marshal(map[string]any{
		"nodes": []string{"collect data", "train", "evaluate"},
		"edges": [][2]int{{0, 1}, {1, 2}},
	})
	writeJSON(s, w, http.StatusOK, research.MethodologyBuildResponse{
		FlowchartJSON: flowchart,
		Rationale:     "Three stage pipeline derived from: " + req.Concept,
	})
}

func (s *Server) handleReplicate(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[research.ReplicateRequest](s, w, r)
	if !ok {
		return
	}
	if len(req.MethodologyJSON) == 0 {
		writeError(s, w, http.StatusUnprocessableEntity, "methodology_json is required")
		return
	}
	overlay, _ := json.Marshal(map[string]any{"matched": len(req.CandidatePapers)})
	writeJSON(s, w, http.StatusOK, research.ReplicateResponse{
		OverlayJSON: overlay,
		Notes:       fmt.Sprintf("%d candidate papers mapped onto the methodology", len(req.CandidatePapers)),
	})
}

func (s *Server) handleCrossDomain(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[research.CrossDomainRequest](s, w, r)
	if !ok {
		return
	}
	if req.DraftText == "" {
		writeError(s, w, http.StatusUnprocessableEntity, "draft_text is required")
		return
	}

	mappings := make([]research.DomainMapping, 0, len(req.TargetDomains))
	for _, d := range req.TargetDomains {
		mappings = append(mappings, research.DomainMapping{
			SourceConcept: "core hypothesis",
			TargetDomain:  d,
			Analogue:      "analogous mechanism in " + d,
		})
	}
	writeJSON(s, w, http.StatusOK, research.CrossDomainResponse{
		Mappings:  mappings,
		Narrative: "The draft's core ideas transfer to " + strings.Join(req.TargetDomains, ", ") + ".",
	})
}

func (s *Server) handleBenchmark(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[research.BenchmarkRequest](s, w, r)
	if !ok {
		return
	}
	if req.TaskType == "" {
		writeError(s, w, http.StatusUnprocessableEntity, "task_type is required")
		return
	}
	writeJSON(s, w, http.StatusOK, research.BenchmarkResponse{
		Metrics: []research.Metric{
			{Name: "accuracy", Direction: "higher", Equation: "correct / total"},
			{Name: "latency", Direction: "lower"},
		},
		Guidance: "Report both metrics on " + strings.Join(req.Datasets, " and ") + " for " + req.TaskType + " tasks.",
	})
}

func (s *Server) handleContradiction(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[research.ContradictionRequest](s, w, r)
	if !ok {
		return
	}
	if req.MethodologyText == "" || req.ResultsText == "" {
		writeError(s, w, http.StatusUnprocessableEntity, "methodology_text and results_text are required")
		return
	}
	writeJSON(s, w, http.StatusOK, research.ContradictionResponse{
		Conflicts: []research.Conflict{
			{Claim: "results exceed stated sample size", Evidence: "n differs between sections", Severity: "medium"},
		},
	})
}

func (s *Server) handleCitation(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[research.CitationRequest](s, w, r)
	if !ok {
		return
	}
	if req.DraftMarkdown == "" {
		writeError(s, w, http.StatusUnprocessableEntity, "draft_markdown is required")
		return
	}
	writeJSON(s, w, http.StatusOK, research.CitationResponse{
		AnnotatedMarkdown: req.DraftMarkdown + " [1]",
		References:        []string{"[1] J. Doe, \"A mock reference,\" Mock Conference, 2024."},
	})
}

func (s *Server) handleLatex(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[research.LatexRequest](s, w, r)
	if !ok {
		return
	}
	if req.DraftMarkdown == "" {
		writeError(s, w, http.StatusUnprocessableEntity, "draft_markdown is required")
		return
	}

	// LaTeX generation runs as a background task server-side. Expose it
	// through the jobs endpoint and hand back the archive URL immediately.
	jobID := uuid.NewString()
	s.mu.Lock()
	s.jobs[jobID] = &jobState{job: research.Job{ID: jobID, Status: research.JobQueued}}
	s.mu.Unlock()

	writeJSON(s, w, http.StatusOK, research.LatexResponse{
		ZipURL: "/downloads/" + jobID + ".zip",
	})
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(s, w, http.StatusUnprocessableEntity, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(s, w, http.StatusUnprocessableEntity, "file field is required")
		return
	}
	defer file.Close()

	writeJSON(s, w, http.StatusOK, research.TranscriptResponse{
		Transcript: "Transcript of " + header.Filename + ": investigate attention variants on low-resource corpora.",
	})
}

// handleJobStatus advances the job one step per poll so Wait sees the
// queued, running, succeeded progression.
func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	st, exists := s.jobs[id]
	if exists {
		st.polls++
		switch {
		case st.polls == 1:
			st.job.Status = research.JobQueued
		case st.polls == 2:
			st.job.Status = research.JobRunning
		default:
			st.job.Status = research.JobSucceeded
			st.job.Result = json.RawMessage(`{"ok":true}`)
		}
	}
	var job research.Job
	if exists {
		job = st.job
	}
	s.mu.Unlock()

	if !exists {
		writeError(s, w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(s, w, http.StatusOK, &job)
}

// SeedJob registers a job in the given state and returns its ID. Tests and
// the CLI's mock mode use it to exercise polling without a LaTeX request.
func (s *Server) SeedJob(status string) string {
	id := uuid.NewString()
	s.mu.Lock()
	st := &jobState{job: research.Job{ID: id, Status: status}}
	if status == research.JobSucceeded {
		st.polls = 3
		st.job.Result = json.RawMessage(`{"ok":true}`)
	}
	s.jobs[id] = st
	s.mu.Unlock()
	return id
}

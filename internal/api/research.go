package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/ViFerX/research-assistant/internal/domain/research"
)

// GenerateSurvey retrieves literature and drafts a survey for a topic.
func (c *Client) GenerateSurvey(ctx context.Context, req research.SurveyRequest) (*research.SurveyResponse, error) {
	var resp research.SurveyResponse
	if err := c.t.DoJSON(ctx, http.MethodPost, "/survey/generate", req, &resp); err != nil {
		return nil, fmt.Errorf("generate survey: %w", err)
	}
	return &resp, nil
}

// FindGaps analyzes selected papers against the project aim.
func (c *Client) FindGaps(ctx context.Context, req research.GapsRequest) (*research.GapsResponse, error) {
	var resp research.GapsResponse
	if err := c.t.DoJSON(ctx, http.MethodPost, "/survey/gaps", req, &resp); err != nil {
		return nil, fmt.Errorf("find gaps: %w", err)
	}
	return &resp, nil
}

// Translate translates an uploaded document into the target language.
func (c *Client) Translate(ctx context.Context, req research.TranslateRequest) (*research.TranslateResponse, error) {
	var resp research.TranslateResponse
	if err := c.t.DoJSON(ctx, http.MethodPost, "/translate", req, &resp); err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}
	return &resp, nil
}

// SummarizePersona generates a persona-targeted summary of a document or
// raw text.
func (c *Client) SummarizePersona(ctx context.Context, req research.SummaryRequest) (*research.SummaryResponse, error) {
	var resp research.SummaryResponse
	if err := c.t.DoJSON(ctx, http.MethodPost, "/summary/persona", req, &resp); err != nil {
		return nil, fmt.Errorf("persona summary: %w", err)
	}
	return &resp, nil
}

// BuildMethodology designs a research methodology flowchart.
func (c *Client) BuildMethodology(ctx context.Context, req research.MethodologyBuildRequest) (*research.MethodologyBuildResponse, error) {
	var resp research.MethodologyBuildResponse
	if err := c.t.DoJSON(ctx, http.MethodPost, "/methodology/build", req, &resp); err != nil {
		return nil, fmt.Errorf("build methodology: %w", err)
	}
	return &resp, nil
}

// ReplicateMethodology overlays candidate papers onto a methodology.
func (c *Client) ReplicateMethodology(ctx context.Context, req research.ReplicateRequest) (*research.ReplicateResponse, error) {
	var resp research.ReplicateResponse
	if err := c.t.DoJSON(ctx, http.MethodPost, "/methodology/replicate", req, &resp); err != nil {
		return nil, fmt.Errorf("replicate methodology: %w", err)
	}
	return &resp, nil
}

// SuggestCrossDomain maps draft concepts into other research domains.
func (c *Client) SuggestCrossDomain(ctx context.Context, req research.CrossDomainRequest) (*research.CrossDomainResponse, error) {
	var resp research.CrossDomainResponse
	if err := c.t.DoJSON(ctx, http.MethodPost, "/cross-domain/suggest", req, &resp); err != nil {
		return nil, fmt.Errorf("cross-domain suggest: %w", err)
	}
	return &resp, nil
}

// RecommendBenchmark suggests evaluation metrics for a task.
func (c *Client) RecommendBenchmark(ctx context.Context, req research.BenchmarkRequest) (*research.BenchmarkResponse, error) {
	var resp research.BenchmarkResponse
	if err := c.t.DoJSON(ctx, http.MethodPost, "/benchmark/recommend", req, &resp); err != nil {
		return nil, fmt.Errorf("recommend benchmark: %w", err)
	}
	return &resp, nil
}

// ScanContradictions checks methodology and results text for conflicts.
func (c *Client) ScanContradictions(ctx context.Context, req research.ContradictionRequest) (*research.ContradictionResponse, error) {
	var resp research.ContradictionResponse
	if err := c.t.DoJSON(ctx, http.MethodPost, "/contradiction/scan", req, &resp); err != nil {
		return nil, fmt.Errorf("contradiction scan: %w", err)
	}
	return &resp, nil
}

// ValidateCitations annotates a draft's citations in the given style.
func (c *Client) ValidateCitations(ctx context.Context, req research.CitationRequest) (*research.CitationResponse, error) {
	var resp research.CitationResponse
	if err := c.t.DoJSON(ctx, http.MethodPost, "/citation/validate", req, &resp); err != nil {
		return nil, fmt.Errorf("validate citations: %w", err)
	}
	return &resp, nil
}

// GenerateLatex renders a draft into a LaTeX project archive.
func (c *Client) GenerateLatex(ctx context.Context, req research.LatexRequest) (*research.LatexResponse, error) {
	var resp research.LatexResponse
	if err := c.t.DoJSON(ctx, http.MethodPost, "/latex/generate", req, &resp); err != nil {
		return nil, fmt.Errorf("generate latex: %w", err)
	}
	return &resp, nil
}

// TranscribeVoice uploads an audio file and returns its transcript.
func (c *Client) TranscribeVoice(ctx context.Context, filename string, audio io.Reader) (*research.TranscriptResponse, error) {
	var resp research.TranscriptResponse
	if err := c.t.DoMultipart(ctx, "/voice/transcribe", filename, audio, &resp); err != nil {
		return nil, fmt.Errorf("transcribe voice: %w", err)
	}
	return &resp, nil
}

// JobStatus fetches the status object of a long-running backend task.
func (c *Client) JobStatus(ctx context.Context, jobID string) (*research.Job, error) {
	var job research.Job
	if err := c.t.DoJSON(ctx, http.MethodGet, "/jobs/"+jobID, nil, &job); err != nil {
		return nil, fmt.Errorf("job status %s: %w", jobID, err)
	}
	return &job, nil
}

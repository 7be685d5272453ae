// Package feature defines the fixed set of analysis tools the workspace
// exposes and the dispatch table that tracks one asynchronous invocation
// slot per tool.
package feature

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/ViFerX/research-assistant/internal/domain/research"
)

// ID identifies one analysis tool.
type ID string

const (
	Survey        ID = "survey"
	Gaps          ID = "gaps"
	Translate     ID = "translate"
	Summary       ID = "summary"
	Methodology   ID = "methodology"
	Replicate     ID = "replicate"
	CrossDomain   ID = "cross-domain"
	Benchmark     ID = "benchmark"
	Contradiction ID = "contradiction"
	Citation      ID = "citation"
	Latex         ID = "latex"
	Voice         ID = "voice"
)

// Form is the raw user input for one submission, keyed by field name.
// Values are untyped strings exactly as entered; Normalize shapes them.
type Form map[string]string

// Backend is the slice of the API surface the dispatch table needs.
// *api.Client satisfies it; tests substitute fakes.
type Backend interface {
	GenerateSurvey(ctx context.Context, req research.SurveyRequest) (*research.SurveyResponse, error)
	FindGaps(ctx context.Context, req research.GapsRequest) (*research.GapsResponse, error)
	Translate(ctx context.Context, req research.TranslateRequest) (*research.TranslateResponse, error)
	SummarizePersona(ctx context.Context, req research.SummaryRequest) (*research.SummaryResponse, error)
	BuildMethodology(ctx context.Context, req research.MethodologyBuildRequest) (*research.MethodologyBuildResponse, error)
	ReplicateMethodology(ctx context.Context, req research.ReplicateRequest) (*research.ReplicateResponse, error)
	SuggestCrossDomain(ctx context.Context, req research.CrossDomainRequest) (*research.CrossDomainResponse, error)
	RecommendBenchmark(ctx context.Context, req research.BenchmarkRequest) (*research.BenchmarkResponse, error)
	ScanContradictions(ctx context.Context, req research.ContradictionRequest) (*research.ContradictionResponse, error)
	ValidateCitations(ctx context.Context, req research.CitationRequest) (*research.CitationResponse, error)
	GenerateLatex(ctx context.Context, req research.LatexRequest) (*research.LatexResponse, error)
	TranscribeVoice(ctx context.Context, filename string, audio io.Reader) (*research.TranscriptResponse, error)
}

// Descriptor statically binds a feature to its backend operation and input
// shape. The set is compiled in and immutable for the process lifetime.
type Descriptor struct {
	ID        ID
	Title     string
	Operation string // method and path of the backend endpoint

	// Normalize validates and shapes raw form input into the typed request
	// payload. It never touches the network.
	Normalize func(form Form) (any, error)

	// Call dispatches the normalized payload to the backend.
	Call func(ctx context.Context, b Backend, payload any) (any, error)
}

// VoicePayload is the normalized input of the voice feature: a local audio
// file to upload.
type VoicePayload struct {
	Path string
}

var descriptors = map[ID]Descriptor{
	Survey: {
		ID:        Survey,
		Title:     "Literature Survey",
		Operation: "POST /survey/generate",
		Normalize: normalizeSurvey,
		Call: func(ctx context.Context, b Backend, payload any) (any, error) {
			return b.GenerateSurvey(ctx, payload.(research.SurveyRequest))
		},
	},
	Gaps: {
		ID:        Gaps,
		Title:     "Research Gaps",
		Operation: "POST /survey/gaps",
		Normalize: normalizeGaps,
		Call: func(ctx context.Context, b Backend, payload any) (any, error) {
			return b.FindGaps(ctx, payload.(research.GapsRequest))
		},
	},
	Translate: {
		ID:        Translate,
		Title:     "Translator",
		Operation: "POST /translate",
		Normalize: normalizeTranslate,
		Call: func(ctx context.Context, b Backend, payload any) (any, error) {
			return b.Translate(ctx, payload.(research.TranslateRequest))
		},
	},
	Summary: {
		ID:        Summary,
		Title:     "Persona Summary",
		Operation: "POST /summary/persona",
		Normalize: normalizeSummary,
		Call: func(ctx context.Context, b Backend, payload any) (any, error) {
			return b.SummarizePersona(ctx, payload.(research.SummaryRequest))
		},
	},
	Methodology: {
		ID:        Methodology,
		Title:     "Methodology Builder",
		Operation: "POST /methodology/build",
		Normalize: normalizeMethodology,
		Call: func(ctx context.Context, b Backend, payload any) (any, error) {
			return b.BuildMethodology(ctx, payload.(research.MethodologyBuildRequest))
		},
	},
	Replicate: {
		ID:        Replicate,
		Title:     "Experiment Replicator",
		Operation: "POST /methodology/replicate",
		Normalize: normalizeReplicate,
		Call: func(ctx context.Context, b Backend, payload any) (any, error) {
			return b.ReplicateMethodology(ctx, payload.(research.ReplicateRequest))
		},
	},
	CrossDomain: {
		ID:        CrossDomain,
		Title:     "Cross-Domain Synthesis",
		Operation: "POST /cross-domain/suggest",
		Normalize: normalizeCrossDomain,
		Call: func(ctx context.Context, b Backend, payload any) (any, error) {
			return b.SuggestCrossDomain(ctx, payload.(research.CrossDomainRequest))
		},
	},
	Benchmark: {
		ID:        Benchmark,
		Title:     "Benchmark Explorer",
		Operation: "POST /benchmark/recommend",
		Normalize: normalizeBenchmark,
		Call: func(ctx context.Context, b Backend, payload any) (any, error) {
			return b.RecommendBenchmark(ctx, payload.(research.BenchmarkRequest))
		},
	},
	Contradiction: {
		ID:        Contradiction,
		Title:     "Contradiction Analyzer",
		Operation: "POST /contradiction/scan",
		Normalize: normalizeContradiction,
		Call: func(ctx context.Context, b Backend, payload any) (any, error) {
			return b.ScanContradictions(ctx, payload.(research.ContradictionRequest))
		},
	},
	Citation: {
		ID:        Citation,
		Title:     "Citation Validator",
		Operation: "POST /citation/validate",
		Normalize: normalizeCitation,
		Call: func(ctx context.Context, b Backend, payload any) (any, error) {
			return b.ValidateCitations(ctx, payload.(research.CitationRequest))
		},
	},
	Latex: {
		ID:        Latex,
		Title:     "LaTeX Generator",
		Operation: "POST /latex/generate",
		Normalize: normalizeLatex,
		Call: func(ctx context.Context, b Backend, payload any) (any, error) {
			return b.GenerateLatex(ctx, payload.(research.LatexRequest))
		},
	},
	Voice: {
		ID:        Voice,
		Title:     "Voice Transcriber",
		Operation: "POST /voice/transcribe",
		Normalize: normalizeVoice,
		Call: func(ctx context.Context, b Backend, payload any) (any, error) {
			vp := payload.(VoicePayload)
			f, err := os.Open(vp.Path)
			if err != nil {
				return nil, fmt.Errorf("open audio file: %w", err)
			}
			defer func() { _ = f.Close() }()
			return b.TranscribeVoice(ctx, filepath.Base(vp.Path), f)
		},
	},
}

// Lookup returns the descriptor for id.
func Lookup(id ID) (Descriptor, bool) {
	d, ok := descriptors[id]
	return d, ok
}

// All returns every descriptor, sorted by ID for stable listings.
func All() []Descriptor {
	out := make([]Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Package research defines the request and response shapes of the analysis
// endpoints. Field names mirror the backend's JSON surface exactly; they are
// compatibility-significant and must not drift.
package research

import "encoding/json"

// Paper is a literature reference, either returned by the survey endpoint or
// entered manually for gap analysis and replication.
type Paper struct {
	Title       string `json:"title"`
	FirstAuthor string `json:"first_author"`
	Year        string `json:"year"`
	Venue       string `json:"venue"`
	DOI         string `json:"doi"`
	URL         string `json:"url"`
	Provider    string `json:"provider"`
}

// SurveyRequest is the body for POST /survey/generate.
type SurveyRequest struct {
	Topic     string   `json:"topic"`
	Keywords  []string `json:"keywords"`
	NResults  int      `json:"n_results"`
	YearFrom  int      `json:"year_from"`
	YearTo    int      `json:"year_to"`
	ProjectID int      `json:"project_id"`
}

// SurveyResponse carries retrieved papers and a generated survey draft.
type SurveyResponse struct {
	Papers []Paper `json:"papers"`
	Draft  string  `json:"draft"`
}

// GapsRequest is the body for POST /survey/gaps.
type GapsRequest struct {
	Aim            string  `json:"aim"`
	SelectedPapers []Paper `json:"selected_papers"`
}

// GapsResponse lists limitations and research opportunities.
type GapsResponse struct {
	Limitations   []string `json:"limitations"`
	Opportunities []string `json:"opportunities"`
}

// TranslateRequest is the body for POST /translate.
type TranslateRequest struct {
	DocumentID int    `json:"document_id"`
	TargetLang string `json:"target_lang"`
	Full       bool   `json:"full"`
}

// TranslateResponse carries the translated text and, for full-document
// translations, a download link.
type TranslateResponse struct {
	TranslatedText string `json:"translated_text"`
	DownloadURL    string `json:"download_url,omitempty"`
}

// SummaryRequest is the body for POST /summary/persona. Exactly one of
// DocumentID and RawText is set.
type SummaryRequest struct {
	DocumentID int    `json:"document_id,omitempty"`
	RawText    string `json:"raw_text,omitempty"`
	Persona    string `json:"persona"`
	Focus      string `json:"focus"`
	Length     string `json:"length"`
}

// SummaryResponse carries the persona-targeted summary.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// MethodologyBuildRequest is the body for POST /methodology/build.
type MethodologyBuildRequest struct {
	Concept     string          `json:"concept"`
	Datasets    []string        `json:"datasets"`
	Baselines   []string        `json:"baselines"`
	Constraints json.RawMessage `json:"constraints"`
}

// MethodologyBuildResponse carries the generated flowchart and rationale.
type MethodologyBuildResponse struct {
	FlowchartJSON json.RawMessage `json:"flowchart_json"`
	Rationale     string          `json:"rationale"`
}

// ReplicateRequest is the body for POST /methodology/replicate.
type ReplicateRequest struct {
	MethodologyJSON json.RawMessage `json:"methodology_json"`
	CandidatePapers []Paper         `json:"candidate_papers"`
}

// ReplicateResponse overlays candidate papers onto the methodology.
type ReplicateResponse struct {
	OverlayJSON json.RawMessage `json:"overlay_json"`
	Notes       string          `json:"notes"`
}

// CrossDomainRequest is the body for POST /cross-domain/suggest.
type CrossDomainRequest struct {
	DraftText     string   `json:"draft_text"`
	TargetDomains []string `json:"target_domains"`
}

// DomainMapping links a concept in the draft to an analogue in another field.
type DomainMapping struct {
	SourceConcept string `json:"source_concept"`
	TargetDomain  string `json:"target_domain"`
	Analogue      string `json:"analogue"`
}

// CrossDomainResponse carries mappings and a connecting narrative.
type CrossDomainResponse struct {
	Mappings  []DomainMapping `json:"mappings"`
	Narrative string          `json:"narrative"`
}

// BenchmarkRequest is the body for POST /benchmark/recommend.
type BenchmarkRequest struct {
	TaskType    string          `json:"task_type"`
	Datasets    []string        `json:"datasets"`
	Constraints json.RawMessage `json:"constraints"`
}

// Metric is a recommended evaluation metric.
type Metric struct {
	Name      string `json:"name"`
	Direction string `json:"direction"`
	Equation  string `json:"equation,omitempty"`
}

// BenchmarkResponse carries recommended metrics and usage guidance.
type BenchmarkResponse struct {
	Metrics  []Metric `json:"metrics"`
	Guidance string   `json:"guidance"`
}

// ContradictionRequest is the body for POST /contradiction/scan.
type ContradictionRequest struct {
	MethodologyText string `json:"methodology_text"`
	ResultsText     string `json:"results_text"`
	Domain          string `json:"domain"`
}

// Conflict is a detected inconsistency between methodology and results.
type Conflict struct {
	Claim    string `json:"claim"`
	Evidence string `json:"evidence"`
	Severity string `json:"severity"`
}

// ContradictionResponse lists detected conflicts.
type ContradictionResponse struct {
	Conflicts []Conflict `json:"conflicts"`
}

// CitationRequest is the body for POST /citation/validate.
type CitationRequest struct {
	DraftMarkdown string `json:"draft_markdown"`
	Style         string `json:"style"`
}

// CitationResponse carries the annotated draft and extracted references.
type CitationResponse struct {
	AnnotatedMarkdown string   `json:"annotated_markdown"`
	References        []string `json:"references"`
}

// LatexRequest is the body for POST /latex/generate.
type LatexRequest struct {
	DraftMarkdown string `json:"draft_markdown"`
	Template      string `json:"template"`
}

// LatexResponse points at the generated archive.
type LatexResponse struct {
	ZipURL string `json:"zip_url"`
}

// TranscriptResponse is the answer to POST /voice/transcribe.
type TranscriptResponse struct {
	Transcript string `json:"transcript"`
}

// JobStatus values reported by GET /jobs/{id}.
const (
	JobQueued    = "queued"
	JobRunning   = "running"
	JobSucceeded = "succeeded"
	JobFailed    = "failed"
)

// Job is the status object for a long-running backend task.
type Job struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Terminal reports whether the job has finished, in either direction.
func (j *Job) Terminal() bool {
	return j.Status == JobSucceeded || j.Status == JobFailed
}

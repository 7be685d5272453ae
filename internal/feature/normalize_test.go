package feature

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ViFerX/research-assistant/internal/domain"
	"github.com/ViFerX/research-assistant/internal/domain/research"
)

func TestNormalizeBenchmarkRoundTrip(t *testing.T) {
	got, err := normalizeBenchmark(Form{
		"task_type":   "classification",
		"datasets":    "ImageNet, COCO",
		"constraints": "{}",
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	req := got.(research.BenchmarkRequest)
	if req.TaskType != "classification" {
		t.Errorf("task_type = %q", req.TaskType)
	}
	if len(req.Datasets) != 2 || req.Datasets[0] != "ImageNet" || req.Datasets[1] != "COCO" {
		t.Errorf("datasets = %v", req.Datasets)
	}
	if string(req.Constraints) != "{}" {
		t.Errorf("constraints = %s", req.Constraints)
	}
}

func TestNormalizeBenchmarkBadConstraints(t *testing.T) {
	_, err := normalizeBenchmark(Form{
		"task_type":   "classification",
		"constraints": "{not json",
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	// A JSON array is not an object either.
	_, err = normalizeBenchmark(Form{
		"task_type":   "classification",
		"constraints": "[1,2]",
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError for array, got %v", err)
	}
}

func TestNormalizeSurveyDefaults(t *testing.T) {
	got, err := normalizeSurvey(Form{
		"topic":      "federated learning",
		"keywords":   "privacy, healthcare, ",
		"project_id": "4",
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	req := got.(research.SurveyRequest)
	if req.NResults != 10 || req.YearFrom != 2018 {
		t.Errorf("defaults not applied: %+v", req)
	}
	if req.YearTo != time.Now().Year() {
		t.Errorf("year_to = %d", req.YearTo)
	}
	if len(req.Keywords) != 2 || req.Keywords[1] != "healthcare" {
		t.Errorf("keywords = %v", req.Keywords)
	}
}

func TestNormalizeSurveyMissingTopic(t *testing.T) {
	_, err := normalizeSurvey(Form{"project_id": "1"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestNormalizeGapsPaperLines(t *testing.T) {
	got, err := normalizeGaps(Form{
		"aim": "reduce annotation cost",
		"papers": "Attention Is All You Need|Vaswani|2017|NeurIPS\n" +
			"Sparse Models\n" +
			"   \n",
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	req := got.(research.GapsRequest)
	if len(req.SelectedPapers) != 2 {
		t.Fatalf("expected 2 papers, got %d", len(req.SelectedPapers))
	}
	first := req.SelectedPapers[0]
	if first.Title != "Attention Is All You Need" || first.FirstAuthor != "Vaswani" || first.Year != "2017" || first.Venue != "NeurIPS" {
		t.Errorf("unexpected paper: %+v", first)
	}
	second := req.SelectedPapers[1]
	if second.FirstAuthor != "Unknown" || second.Year != "2024" || second.Venue != "Unknown" {
		t.Errorf("defaults not applied: %+v", second)
	}
	if second.Provider != "manual" {
		t.Errorf("provider = %q", second.Provider)
	}
}

func TestNormalizeSummaryPrefersDocument(t *testing.T) {
	got, err := normalizeSummary(Form{"document_id": "9", "raw_text": "ignored"})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	req := got.(research.SummaryRequest)
	if req.DocumentID != 9 || req.RawText != "" {
		t.Errorf("expected document reference to win: %+v", req)
	}
	if req.Persona != "researcher" || req.Focus != "overview" || req.Length != "medium" {
		t.Errorf("defaults not applied: %+v", req)
	}

	if _, err := normalizeSummary(Form{}); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError with no input, got %v", err)
	}
}

func TestNormalizeTranslate(t *testing.T) {
	got, err := normalizeTranslate(Form{"document_id": "3", "target_lang": "de", "full": "true"})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	req := got.(research.TranslateRequest)
	if req.DocumentID != 3 || req.TargetLang != "de" || !req.Full {
		t.Errorf("unexpected request: %+v", req)
	}

	if _, err := normalizeTranslate(Form{"document_id": "abc", "target_lang": "de"}); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError for non-integer id, got %v", err)
	}
}

func TestNormalizeReplicateRequiresJSON(t *testing.T) {
	if _, err := normalizeReplicate(Form{"methodology_json": "{oops"}); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	got, err := normalizeReplicate(Form{
		"methodology_json": `{"steps":[]}`,
		"papers":           "Deep Ensembles|Lakshminarayanan",
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	req := got.(research.ReplicateRequest)
	if !json.Valid(req.MethodologyJSON) {
		t.Error("methodology_json not preserved")
	}
	if len(req.CandidatePapers) != 1 || req.CandidatePapers[0].Venue != "" {
		t.Errorf("unexpected papers: %+v", req.CandidatePapers)
	}
}

func TestNormalizeCitationDefaults(t *testing.T) {
	got, err := normalizeCitation(Form{"draft_markdown": "# Intro"})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if req := got.(research.CitationRequest); req.Style != "IEEE" {
		t.Errorf("style = %q", req.Style)
	}
}

func TestDescriptorSetIsComplete(t *testing.T) {
	all := All()
	if len(all) != 12 {
		t.Fatalf("expected 12 features, got %d", len(all))
	}
	for _, d := range all {
		if d.Normalize == nil || d.Call == nil || d.Operation == "" {
			t.Errorf("incomplete descriptor %q", d.ID)
		}
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup accepted an unknown feature")
	}
}

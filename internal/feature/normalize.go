package feature

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/ViFerX/research-assistant/internal/domain"
	"github.com/ViFerX/research-assistant/internal/domain/research"
)

// Normalization shapes raw form strings into the backend's wire types:
// comma-separated fields become lists, embedded JSON is parsed and
// validated, absent optional fields get their defaults. Anything malformed
// is a ValidationError and never reaches the network.

func normalizeSurvey(form Form) (any, error) {
	topic := strings.TrimSpace(form["topic"])
	if topic == "" {
		return nil, domain.Invalid("topic", "required")
	}
	nResults, err := intField(form, "n_results", 10)
	if err != nil {
		return nil, err
	}
	yearFrom, err := intField(form, "year_from", 2018)
	if err != nil {
		return nil, err
	}
	yearTo, err := intField(form, "year_to", time.Now().Year())
	if err != nil {
		return nil, err
	}
	projectID, err := requireInt(form, "project_id")
	if err != nil {
		return nil, err
	}
	return research.SurveyRequest{
		Topic:     topic,
		Keywords:  splitList(form["keywords"]),
		NResults:  nResults,
		YearFrom:  yearFrom,
		YearTo:    yearTo,
		ProjectID: projectID,
	}, nil
}

func normalizeGaps(form Form) (any, error) {
	aim := strings.TrimSpace(form["aim"])
	if aim == "" {
		return nil, domain.Invalid("aim", "required")
	}
	papers := parsePapers(form["papers"], "Unknown", "Unknown")
	if len(papers) == 0 {
		return nil, domain.Invalid("papers", "at least one paper is required")
	}
	return research.GapsRequest{Aim: aim, SelectedPapers: papers}, nil
}

func normalizeTranslate(form Form) (any, error) {
	docID, err := requireInt(form, "document_id")
	if err != nil {
		return nil, err
	}
	lang := strings.TrimSpace(form["target_lang"])
	if lang == "" {
		return nil, domain.Invalid("target_lang", "required")
	}
	return research.TranslateRequest{
		DocumentID: docID,
		TargetLang: lang,
		Full:       boolField(form, "full"),
	}, nil
}

func normalizeSummary(form Form) (any, error) {
	req := research.SummaryRequest{
		Persona: defaulted(form["persona"], "researcher"),
		Focus:   defaulted(form["focus"], "overview"),
		Length:  defaulted(form["length"], "medium"),
	}
	// A document reference wins over pasted text when both are present.
	if strings.TrimSpace(form["document_id"]) != "" {
		docID, err := requireInt(form, "document_id")
		if err != nil {
			return nil, err
		}
		req.DocumentID = docID
		return req, nil
	}
	raw := strings.TrimSpace(form["raw_text"])
	if raw == "" {
		return nil, domain.Invalid("document_id", "either document_id or raw_text is required")
	}
	req.RawText = raw
	return req, nil
}

func normalizeMethodology(form Form) (any, error) {
	concept := strings.TrimSpace(form["concept"])
	if concept == "" {
		return nil, domain.Invalid("concept", "required")
	}
	constraints, err := jsonObject(form, "constraints")
	if err != nil {
		return nil, err
	}
	return research.MethodologyBuildRequest{
		Concept:     concept,
		Datasets:    splitList(form["datasets"]),
		Baselines:   splitList(form["baselines"]),
		Constraints: constraints,
	}, nil
}

func normalizeReplicate(form Form) (any, error) {
	raw := strings.TrimSpace(form["methodology_json"])
	if raw == "" {
		return nil, domain.Invalid("methodology_json", "required")
	}
	if !json.Valid([]byte(raw)) {
		return nil, domain.Invalid("methodology_json", "not valid JSON")
	}
	return research.ReplicateRequest{
		MethodologyJSON: json.RawMessage(raw),
		CandidatePapers: parsePapers(form["papers"], "", ""),
	}, nil
}

func normalizeCrossDomain(form Form) (any, error) {
	draft := strings.TrimSpace(form["draft_text"])
	if draft == "" {
		return nil, domain.Invalid("draft_text", "required")
	}
	domains := splitList(form["target_domains"])
	if len(domains) == 0 {
		return nil, domain.Invalid("target_domains", "at least one domain is required")
	}
	return research.CrossDomainRequest{DraftText: draft, TargetDomains: domains}, nil
}

func normalizeBenchmark(form Form) (any, error) {
	taskType := strings.TrimSpace(form["task_type"])
	if taskType == "" {
		return nil, domain.Invalid("task_type", "required")
	}
	constraints, err := jsonObject(form, "constraints")
	if err != nil {
		return nil, err
	}
	return research.BenchmarkRequest{
		TaskType:    taskType,
		Datasets:    splitList(form["datasets"]),
		Constraints: constraints,
	}, nil
}

func normalizeContradiction(form Form) (any, error) {
	methodology := strings.TrimSpace(form["methodology_text"])
	if methodology == "" {
		return nil, domain.Invalid("methodology_text", "required")
	}
	results := strings.TrimSpace(form["results_text"])
	if results == "" {
		return nil, domain.Invalid("results_text", "required")
	}
	return research.ContradictionRequest{
		MethodologyText: methodology,
		ResultsText:     results,
		Domain:          strings.TrimSpace(form["domain"]),
	}, nil
}

func normalizeCitation(form Form) (any, error) {
	draft := strings.TrimSpace(form["draft_markdown"])
	if draft == "" {
		return nil, domain.Invalid("draft_markdown", "required")
	}
	return research.CitationRequest{
		DraftMarkdown: draft,
		Style:         defaulted(form["style"], "IEEE"),
	}, nil
}

func normalizeLatex(form Form) (any, error) {
	draft := strings.TrimSpace(form["draft_markdown"])
	if draft == "" {
		return nil, domain.Invalid("draft_markdown", "required")
	}
	return research.LatexRequest{
		DraftMarkdown: draft,
		Template:      defaulted(form["template"], "ieee"),
	}, nil
}

func normalizeVoice(form Form) (any, error) {
	path := strings.TrimSpace(form["file"])
	if path == "" {
		return nil, domain.Invalid("file", "required")
	}
	return VoicePayload{Path: path}, nil
}

// splitList turns a comma-separated string into a list, trimming whitespace
// and dropping empty entries.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parsePapers reads one paper per line, pipe-separated:
// title|first_author|year|venue|doi|url. Missing trailing fields fall back
// to the given defaults; year defaults to "2024"; provider is always
// "manual".
func parsePapers(s, defaultAuthor, defaultVenue string) []research.Paper {
	var papers []research.Paper
	for line := range strings.Lines(s) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field := func(i int, def string) string {
			if i < len(parts) && parts[i] != "" {
				return parts[i]
			}
			return def
		}
		papers = append(papers, research.Paper{
			Title:       field(0, ""),
			FirstAuthor: field(1, defaultAuthor),
			Year:        field(2, "2024"),
			Venue:       field(3, defaultVenue),
			DOI:         field(4, ""),
			URL:         field(5, ""),
			Provider:    "manual",
		})
	}
	return papers
}

// jsonObject parses an embedded JSON object field. Empty input means "{}";
// anything that is not a JSON object is a ValidationError.
func jsonObject(form Form, key string) (json.RawMessage, error) {
	raw := strings.TrimSpace(form[key])
	if raw == "" {
		raw = "{}"
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, domain.Invalid(key, "not a valid JSON object")
	}
	return json.RawMessage(raw), nil
}

func intField(form Form, key string, def int) (int, error) {
	raw := strings.TrimSpace(form[key])
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Invalid(key, "not an integer")
	}
	return n, nil
}

func requireInt(form Form, key string) (int, error) {
	raw := strings.TrimSpace(form[key])
	if raw == "" {
		return 0, domain.Invalid(key, "required")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Invalid(key, "not an integer")
	}
	return n, nil
}

func boolField(form Form, key string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(form[key]))
	return b
}

func defaulted(s, def string) string {
	if v := strings.TrimSpace(s); v != "" {
		return v
	}
	return def
}

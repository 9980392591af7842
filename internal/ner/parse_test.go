package ner

import (
	"testing"

	"github.com/project-lux/ner-engine/pkg/types"
)

// --- JSON format ---

func TestParseResponseJSON(t *testing.T) {
	raw := `{
		"annotated_text": "[Tom](PERSON) went to [Rome](LOCATION).",
		"entities": [
			{"text": "Tom", "label": "PERSON", "start_pos": 0, "end_pos": 3, "wikidata_id": null, "confidence": 0.95},
			{"text": "Rome", "label": "LOCATION", "start_pos": 12, "end_pos": 16, "wikidata_id": "Q220", "description": "capital of Italy", "confidence": 0.99}
		]
	}`

	result := parseResponse(raw)
	if result.AnnotatedText != "[Tom](PERSON) went to [Rome](LOCATION)." {
		t.Errorf("AnnotatedText = %q", result.AnnotatedText)
	}
	if len(result.Entities) != 2 {
		t.Fatalf("len(Entities) = %d, want 2", len(result.Entities))
	}

	tom := result.Entities[0]
	if tom.Text != "Tom" || tom.Label != "PERSON" {
		t.Errorf("entity[0] = %+v", tom)
	}
	if tom.WikidataID != "" {
		t.Errorf("null wikidata_id should map to empty, got %q", tom.WikidataID)
	}
	if tom.Confidence != 0.95 {
		t.Errorf("Confidence = %f, want 0.95", tom.Confidence)
	}

	rome := result.Entities[1]
	if rome.WikidataID != "Q220" {
		t.Errorf("WikidataID = %q, want Q220", rome.WikidataID)
	}
	if rome.StartPos != 12 || rome.EndPos != 16 {
		t.Errorf("position = %d-%d, want 12-16", rome.StartPos, rome.EndPos)
	}
	if rome.Description != "capital of Italy" {
		t.Errorf("Description = %q", rome.Description)
	}
}

func TestParseResponseJSONAliases(t *testing.T) {
	// entities_found key, "entity" field alias, position as a string.
	raw := `{
		"annotated_text": "x",
		"entities_found": [
			{"entity": "Microsoft", "label": "ORGANIZATION", "position": "23-32", "wikidata_id": "Q2283"}
		]
	}`

	result := parseResponse(raw)
	if len(result.Entities) != 1 {
		t.Fatalf("len(Entities) = %d, want 1", len(result.Entities))
	}
	e := result.Entities[0]
	if e.Text != "Microsoft" {
		t.Errorf("Text = %q, want Microsoft (entity alias)", e.Text)
	}
	if e.StartPos != 23 || e.EndPos != 32 {
		t.Errorf("position = %d-%d, want 23-32", e.StartPos, e.EndPos)
	}
	if e.Confidence != defaultConfidence {
		t.Errorf("Confidence = %f, want default %f", e.Confidence, defaultConfidence)
	}
}

func TestParseResponseJSONDropsIncomplete(t *testing.T) {
	raw := `{
		"annotated_text": "x",
		"entities": [
			{"text": "", "label": "PERSON"},
			{"text": "Tom", "label": ""},
			{"text": "Tom", "label": "PERSON"}
		]
	}`

	result := parseResponse(raw)
	if len(result.Entities) != 1 {
		t.Fatalf("len(Entities) = %d, want 1 (missing text/label dropped)", len(result.Entities))
	}
	if result.Entities[0].Text != "Tom" {
		t.Errorf("surviving entity = %+v", result.Entities[0])
	}
}

func TestParseResponseJSONStringNull(t *testing.T) {
	raw := `{"annotated_text": "x", "entities": [{"text": "Tom", "label": "PERSON", "wikidata_id": "null"}]}`
	result := parseResponse(raw)
	if result.Entities[0].WikidataID != "" {
		t.Errorf(`wikidata_id "null" should map to empty, got %q`, result.Entities[0].WikidataID)
	}
}

// --- structured text format ---

const sampleTextResponse = `ANNOTATED TEXT:
[Tom](PERSON) went to [Rome](LOCATION) yesterday. He works for [Microsoft](ORGANIZATION).

ENTITIES FOUND:
- Entity: Tom
  Label: PERSON
  Position: 0-3
  Wikidata ID: NONE
  Description: person mentioned in text
  Confidence: 0.9
- Entity: Rome
  Label: LOCATION
  Position: 12-16
  Wikidata ID: Q220
  Description: capital city of Italy
  Confidence: 0.98
- Entity: Microsoft
  Label: ORGANIZATION
  Position: 45-54
  Wikidata ID: Q2283
  Description: American technology company
  Confidence: 0.97
`

func TestParseResponseText(t *testing.T) {
	result := parseResponse(sampleTextResponse)

	want := "[Tom](PERSON) went to [Rome](LOCATION) yesterday. He works for [Microsoft](ORGANIZATION)."
	if result.AnnotatedText != want {
		t.Errorf("AnnotatedText = %q, want %q", result.AnnotatedText, want)
	}
	if len(result.Entities) != 3 {
		t.Fatalf("len(Entities) = %d, want 3", len(result.Entities))
	}

	tom := result.Entities[0]
	if tom.WikidataID != "" {
		t.Errorf("NONE should map to empty, got %q", tom.WikidataID)
	}
	if tom.StartPos != 0 || tom.EndPos != 3 {
		t.Errorf("position = %d-%d", tom.StartPos, tom.EndPos)
	}

	rome := result.Entities[1]
	if rome.WikidataID != "Q220" || rome.Label != "LOCATION" {
		t.Errorf("entity[1] = %+v", rome)
	}
	if rome.Confidence != 0.98 {
		t.Errorf("Confidence = %f, want 0.98", rome.Confidence)
	}
	if rome.Description != "capital city of Italy" {
		t.Errorf("Description = %q", rome.Description)
	}
}

func TestParseResponseTextInvalidID(t *testing.T) {
	raw := `ANNOTATED TEXT:
[Atlantis](LOCATION)

ENTITIES FOUND:
- Entity: Atlantis
  Label: LOCATION
  Wikidata ID: ATL-1
`
	result := parseResponse(raw)
	if len(result.Entities) != 1 {
		t.Fatalf("len(Entities) = %d, want 1", len(result.Entities))
	}
	if result.Entities[0].WikidataID != "" {
		t.Errorf("malformed ID should be discarded, got %q", result.Entities[0].WikidataID)
	}
	if result.Entities[0].Confidence != defaultConfidence {
		t.Errorf("missing confidence should default, got %f", result.Entities[0].Confidence)
	}
}

func TestParseResponseTextMissingAnnotated(t *testing.T) {
	raw := `ENTITIES FOUND:
- Entity: Rome
  Label: LOCATION
  Wikidata ID: Q220
`
	result := parseResponse(raw)
	if result.AnnotatedText != "" {
		t.Errorf("AnnotatedText = %q, want empty", result.AnnotatedText)
	}
	if len(result.Entities) != 1 {
		t.Fatalf("len(Entities) = %d, want 1", len(result.Entities))
	}
}

func TestParseResponseGarbage(t *testing.T) {
	result := parseResponse("I could not process this request.")
	if result.AnnotatedText != "" || len(result.Entities) != 0 {
		t.Errorf("garbage input should yield empty result, got %+v", result)
	}
}

func TestParseResponseEntityBlockMissingLabel(t *testing.T) {
	raw := `ANNOTATED TEXT:
text

ENTITIES FOUND:
- Entity: Orphan
  Position: 0-6
`
	result := parseResponse(raw)
	if len(result.Entities) != 0 {
		t.Errorf("block without Label should be skipped, got %+v", result.Entities)
	}
}

// --- cleanWikidataID ---

func TestCleanWikidataID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Q42", "Q42"},
		{"NONE", ""},
		{"None", ""},
		{"N/A", ""},
		{"null", ""},
		{"", ""},
		{"Q42abc", ""},
		{"wd:Q42", ""},
	}
	for _, tt := range tests {
		if got := cleanWikidataID(tt.in); got != tt.want {
			t.Errorf("cleanWikidataID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// --- parseEntityResolution ---

func TestParseEntityResolution(t *testing.T) {
	raw := `ENTITY RESOLUTION:
- Entity: Rome
- Label: LOCATION
- Wikidata ID: Q220
- Description: capital of Italy
- Confidence: 0.95
`
	e, ok := parseEntityResolution(raw)
	if !ok {
		t.Fatal("expected a parsed entity")
	}
	want := types.Entity{Text: "Rome", Label: "LOCATION", WikidataID: "Q220", Description: "capital of Italy", Confidence: 0.95}
	if e != want {
		t.Errorf("entity = %+v, want %+v", e, want)
	}
}

func TestParseEntityResolutionDefaults(t *testing.T) {
	raw := "- Entity: Rome\n- Label: LOCATION\n- Wikidata ID: NONE\n"
	e, ok := parseEntityResolution(raw)
	if !ok {
		t.Fatal("expected a parsed entity")
	}
	if e.WikidataID != "" {
		t.Errorf("WikidataID = %q, want empty", e.WikidataID)
	}
	if e.Confidence != 0.5 {
		t.Errorf("Confidence = %f, want 0.5 default", e.Confidence)
	}
}

func TestParseEntityResolutionUnparseable(t *testing.T) {
	if _, ok := parseEntityResolution("nothing useful here"); ok {
		t.Error("expected parse failure")
	}
}

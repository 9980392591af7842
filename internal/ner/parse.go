// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ner

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/project-lux/ner-engine/pkg/types"
)

// defaultConfidence is assigned when the model omits a confidence value.
const defaultConfidence = 0.8

// Field-line patterns for the structured text format. The model emits one
// "- Entity:" block per entity with indented field lines.
var (
	reEntityField      = regexp.MustCompile(`(?m)- Entity:[ \t]*(.+)$`)
	reLabelField       = regexp.MustCompile(`(?m)Label:[ \t]*(.+)$`)
	rePositionField    = regexp.MustCompile(`Position:\s*(\d+)-(\d+)`)
	reWikidataField    = regexp.MustCompile(`(?m)Wikidata ID:[ \t]*(.+)$`)
	reDescriptionField = regexp.MustCompile(`(?m)Description:[ \t]*(.+)$`)
	reConfidenceField  = regexp.MustCompile(`Confidence:\s*([0-9.]+)`)

	reWikidataID = regexp.MustCompile(`^Q[0-9]+$`)
	reQNumber    = regexp.MustCompile(`Q[0-9]+`)
)

// parseResponse turns a raw model reply into a Result. The reply is either
// a JSON object or the structured text format with ANNOTATED TEXT: and
// ENTITIES FOUND: sections; JSON is tried first. Parsing is best effort:
// input that matches neither grammar yields an empty Result.
func parseResponse(text string) types.Result {
	if result, ok := parseJSONResponse(text); ok {
		return result
	}
	return parseTextResponse(text)
}

// jsonResult mirrors the ad hoc JSON the model produces. Different runs
// use different field names, so aliases are accepted for the entity list
// and several entity fields.
type jsonResult struct {
	AnnotatedText string       `json:"annotated_text"`
	Entities      []jsonEntity `json:"entities"`
	EntitiesFound []jsonEntity `json:"entities_found"`
}

type jsonEntity struct {
	Text       string          `json:"text"`
	Entity     string          `json:"entity"` // alias for Text
	Label      string          `json:"label"`
	StartPos   *int            `json:"start_pos"`
	EndPos     *int            `json:"end_pos"`
	Position   string          `json:"position"` // alias: "start-end"
	WikidataID json.RawMessage `json:"wikidata_id"`
	Descr      string          `json:"description"`
	Confidence *float64        `json:"confidence"`
}

func parseJSONResponse(text string) (types.Result, bool) {
	var jr jsonResult
	if err := json.Unmarshal([]byte(text), &jr); err != nil {
		return types.Result{}, false
	}

	result := types.Result{AnnotatedText: jr.AnnotatedText}

	items := jr.Entities
	if len(items) == 0 {
		items = jr.EntitiesFound
	}

	for _, item := range items {
		e := types.Entity{
			Label:       strings.TrimSpace(item.Label),
			Description: item.Descr,
			Confidence:  defaultConfidence,
		}

		e.Text = strings.TrimSpace(item.Text)
		if e.Text == "" {
			e.Text = strings.TrimSpace(item.Entity)
		}

		switch {
		case item.StartPos != nil && item.EndPos != nil:
			e.StartPos = *item.StartPos
			e.EndPos = *item.EndPos
		case strings.Contains(item.Position, "-"):
			if start, end, err := parsePosition(item.Position); err == nil {
				e.StartPos = start
				e.EndPos = end
			}
		}

		e.WikidataID = decodeWikidataID(item.WikidataID)

		if item.Confidence != nil {
			e.Confidence = *item.Confidence
		}

		if e.Text == "" || e.Label == "" {
			continue
		}
		result.Entities = append(result.Entities, e)
	}

	return result, true
}

// decodeWikidataID normalizes the wikidata_id JSON value, which may be a
// string, a bare null, or the literal string "null".
func decodeWikidataID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// Non-string value (e.g. a bare number). Keep its text form;
		// validation downstream clears anything that is not Q[0-9]+.
		s = strings.Trim(string(raw), `"`)
	}
	if s == "null" {
		return ""
	}
	return strings.TrimSpace(s)
}

func parsePosition(s string) (int, int, error) {
	parts := strings.SplitN(s, "-", 2)
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("parsing position start: %w", err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("parsing position end: %w", err)
	}
	return start, end, nil
}

// parseTextResponse handles the structured text format:
//
//	ANNOTATED TEXT:
//	<text with [entity](LABEL) markup>
//
//	ENTITIES FOUND:
//	- Entity: <text>
//	  Label: <label>
//	  Position: <start>-<end>
//	  Wikidata ID: <Q-number or NONE>
//	  Description: <text>
//	  Confidence: <0.0-1.0>
func parseTextResponse(text string) types.Result {
	var result types.Result

	annotated, entities := splitSections(text)
	result.AnnotatedText = strings.TrimSpace(annotated)

	for _, block := range splitEntityBlocks(entities) {
		entityMatch := reEntityField.FindStringSubmatch(block)
		labelMatch := reLabelField.FindStringSubmatch(block)
		if entityMatch == nil || labelMatch == nil {
			continue
		}

		e := types.Entity{
			Text:       strings.TrimSpace(entityMatch[1]),
			Label:      strings.TrimSpace(labelMatch[1]),
			Confidence: defaultConfidence,
		}

		if m := rePositionField.FindStringSubmatch(block); m != nil {
			e.StartPos, _ = strconv.Atoi(m[1])
			e.EndPos, _ = strconv.Atoi(m[2])
		}

		if m := reWikidataField.FindStringSubmatch(block); m != nil {
			e.WikidataID = cleanWikidataID(strings.TrimSpace(m[1]))
		}

		if m := reDescriptionField.FindStringSubmatch(block); m != nil {
			e.Description = strings.TrimSpace(m[1])
		}

		if m := reConfidenceField.FindStringSubmatch(block); m != nil {
			if conf, err := strconv.ParseFloat(m[1], 64); err == nil {
				e.Confidence = conf
			}
		}

		result.Entities = append(result.Entities, e)
	}

	return result
}

// splitSections separates the annotated text from the entity listing.
func splitSections(text string) (annotated, entities string) {
	const (
		annotatedMarker = "ANNOTATED TEXT:"
		entitiesMarker  = "ENTITIES FOUND:"
	)

	rest := text
	if i := strings.Index(rest, annotatedMarker); i >= 0 {
		rest = rest[i+len(annotatedMarker):]
	} else {
		rest = ""
	}

	if i := strings.Index(rest, entitiesMarker); i >= 0 {
		return rest[:i], rest[i+len(entitiesMarker):]
	}

	// No entity section: everything after the marker is annotated text,
	// and the entity listing may still appear without its header.
	if rest == "" {
		if i := strings.Index(text, entitiesMarker); i >= 0 {
			return "", text[i+len(entitiesMarker):]
		}
	}
	return rest, ""
}

// splitEntityBlocks groups the entity listing into one block per
// "- Entity:" record.
func splitEntityBlocks(text string) []string {
	var blocks []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "- Entity:") {
			flush()
		}
		current = append(current, line)
	}
	flush()

	return blocks
}

// cleanWikidataID normalizes the model's Wikidata ID value. Sentinels the
// model uses for "not found" map to empty; anything that is not a bare
// Q-number is discarded.
func cleanWikidataID(id string) string {
	switch id {
	case "", "N/A", "None", "NONE", "null":
		return ""
	}
	if !reWikidataID.MatchString(id) {
		return ""
	}
	return id
}

// parseEntityResolution parses the reply to a single-entity resolution
// prompt, which uses the same field lines as the batch text format. The
// second return value reports whether an entity record was found.
func parseEntityResolution(text string) (types.Entity, bool) {
	entityMatch := reEntityField.FindStringSubmatch(text)
	labelMatch := reLabelField.FindStringSubmatch(text)
	if entityMatch == nil || labelMatch == nil {
		return types.Entity{}, false
	}

	e := types.Entity{
		Text:       strings.TrimSpace(entityMatch[1]),
		Label:      strings.TrimSpace(labelMatch[1]),
		Confidence: 0.5,
	}

	if m := reWikidataField.FindStringSubmatch(text); m != nil {
		e.WikidataID = cleanWikidataID(strings.TrimSpace(m[1]))
	}
	if m := reDescriptionField.FindStringSubmatch(text); m != nil {
		e.Description = strings.TrimSpace(m[1])
	}
	if m := reConfidenceField.FindStringSubmatch(text); m != nil {
		if conf, err := strconv.ParseFloat(m[1], 64); err == nil {
			e.Confidence = conf
		}
	}

	return e, true
}

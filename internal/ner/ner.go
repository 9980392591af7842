// Package ner annotates text with named entities via a generative AI
// backend and resolves entities to Wikidata identifiers. The model reply
// is parsed from either JSON or a structured text grammar; a grounded
// call that fails is retried once without grounding, and when both fail
// the original text is returned unchanged with no entities.
package ner

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/project-lux/ner-engine/pkg/types"
)

// maxPlausibleQNumber bounds Wikidata ID validation. IDs above this are
// almost always hallucinated.
const maxPlausibleQNumber = 100_000_000

// Annotator runs NER requests against a Backend.
type Annotator struct {
	backend Backend
	w       io.Writer // progress and warnings
}

// New returns an Annotator writing progress output to w.
func New(backend Backend, w io.Writer) *Annotator {
	if w == nil {
		w = io.Discard
	}
	return &Annotator{backend: backend, w: w}
}

// Annotate performs NER on text using the given entity labels. When
// grounded is true the first attempt uses the Google Search grounding
// tool and a failure triggers one ungrounded retry. Annotate never
// returns an error: every failure path degrades to the original text
// with an empty entity list.
func (a *Annotator) Annotate(ctx context.Context, text string, labels []string, grounded bool) *types.Result {
	fallback := &types.Result{AnnotatedText: text, Entities: []types.Entity{}}

	prompt, err := renderNERPrompt(labels, text)
	if err != nil {
		fmt.Fprintf(a.w, "warning: %v\n", err)
		return fallback
	}

	resp, err := a.backend.Generate(ctx, Request{Prompt: prompt, Grounded: grounded})
	if err != nil || resp.Text == "" {
		if err != nil {
			fmt.Fprintf(a.w, "warning: generation failed: %v\n", err)
		} else {
			fmt.Fprintf(a.w, "warning: empty response (finish reason %q)\n", resp.FinishReason)
		}
		if grounded {
			fmt.Fprintln(a.w, "retrying without grounding")
			return a.Annotate(ctx, text, labels, false)
		}
		return fallback
	}

	result := parseResponse(resp.Text)

	// A grounded call sometimes returns content that matches neither
	// grammar. Treat that like a grounding failure.
	if result.AnnotatedText == "" && len(result.Entities) == 0 {
		fmt.Fprintln(a.w, "warning: response matched neither JSON nor text format")
		if grounded {
			fmt.Fprintln(a.w, "retrying without grounding")
			return a.Annotate(ctx, text, labels, false)
		}
		return fallback
	}

	for i := range result.Entities {
		e := &result.Entities[i]
		if e.WikidataID != "" && !ValidWikidataID(e.WikidataID) {
			fmt.Fprintf(a.w, "warning: dropping implausible Wikidata ID %s for %q\n", e.WikidataID, e.Text)
			e.WikidataID = ""
		}
	}

	result.Grounding = resp.Grounding
	if result.Entities == nil {
		result.Entities = []types.Entity{}
	}
	return &result
}

// ResolveEntity re-runs resolution for a single entity with optional
// surrounding context, always grounded.
func (a *Annotator) ResolveEntity(ctx context.Context, text, label, contextText string) (types.Entity, error) {
	prompt, err := renderResolvePrompt(text, label, contextText)
	if err != nil {
		return types.Entity{}, err
	}

	resp, err := a.backend.Generate(ctx, Request{Prompt: prompt, Grounded: true})
	if err != nil {
		return types.Entity{}, fmt.Errorf("resolving entity %q: %w", text, err)
	}
	if resp.Text == "" {
		return types.Entity{}, fmt.Errorf("resolving entity %q: empty response", text)
	}

	entity, ok := parseEntityResolution(resp.Text)
	if !ok {
		return types.Entity{}, fmt.Errorf("resolving entity %q: unparseable response", text)
	}

	if entity.WikidataID != "" && !ValidWikidataID(entity.WikidataID) {
		entity.WikidataID = ""
	}
	return entity, nil
}

// LookupID asks the model for a bare Wikidata Q-number for one entity.
// The first plausible Q-number in the reply wins.
func (a *Annotator) LookupID(ctx context.Context, text, label string) (string, error) {
	prompt, err := renderLookupPrompt(text, label)
	if err != nil {
		return "", err
	}

	resp, err := a.backend.Generate(ctx, Request{Prompt: prompt, Grounded: true})
	if err != nil {
		return "", fmt.Errorf("looking up %q: %w", text, err)
	}

	if id := reQNumber.FindString(resp.Text); id != "" && ValidWikidataID(id) {
		return id, nil
	}
	return "", fmt.Errorf("no valid Wikidata ID found for %q", text)
}

// ValidWikidataID reports whether id is a plausible Wikidata identifier:
// Q followed by digits, with a numeric part at or below 100 million.
func ValidWikidataID(id string) bool {
	if !reWikidataID.MatchString(id) {
		return false
	}
	qnum, err := strconv.Atoi(id[1:])
	if err != nil {
		return false
	}
	return qnum <= maxPlausibleQNumber
}

// ParseLabels splits comma-separated label input into cleaned,
// upper-cased labels, dropping empties.
func ParseLabels(input string) []string {
	var labels []string
	for _, part := range strings.Split(input, ",") {
		label := strings.ToUpper(strings.TrimSpace(part))
		if label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ner

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// nerPromptTmpl instructs the model to annotate the text with the
// requested labels and to resolve each entity to a Wikidata ID found
// through grounded search, never a guessed one.
var nerPromptTmpl = template.Must(template.New("ner").Parse(`You are an expert Named Entity Recognition (NER) system with access to grounding tools. Your task is to identify entities in the given text and use grounding to find accurate Wikidata IDs.

CRITICAL INSTRUCTIONS:
1. ONLY use Wikidata IDs that you find through grounding searches - DO NOT make up or guess Wikidata IDs
2. If grounding does not return a clear Wikidata ID for an entity, set it to "NONE"
3. Search for each entity using the grounding tools before providing any Wikidata ID
4. Double-check that the Wikidata ID matches the entity context

Instructions:
1. Identify entities in the text that match the provided entity labels
2. For each entity, FIRST use grounding tools to search for "[entity name] wikidata"
3. Extract the actual Wikidata ID (Q-number) from the grounding search results
4. Present your results in this structured format:

ANNOTATED TEXT:
[Return the complete original text with entities in markdown format: [entity](LABEL)]

ENTITIES FOUND:
For each entity, provide:
- Entity: [entity text]
- Label: [entity type]
- Position: [start]-[end]
- Wikidata ID: [ONLY use Q-numbers found in grounding results, otherwise use "NONE"]
- Description: [description from grounding search results]
- Confidence: [0.0-1.0 based on grounding search quality]

5. Only use the labels provided by the user: {{.Labels}}
6. Be precise and only annotate clear, unambiguous entities
7. MANDATORY: Use grounding tools to verify each entity before assigning any Wikidata ID
8. If no clear Wikidata ID is found in grounding results, use "NONE"

Text to analyze:
{{.Text}}

REMEMBER: Only use Wikidata IDs that you actually find through grounding searches. Do not invent or guess IDs.
`))

// resolvePromptTmpl asks the model to re-resolve one entity with full
// attention on that entity alone.
var resolvePromptTmpl = template.Must(template.New("resolve").Parse(`You are an expert entity resolution system with access to grounding tools. Your task is to find the most accurate Wikidata ID for a specific entity.

CRITICAL INSTRUCTIONS:
1. ONLY use Wikidata IDs that you find through grounding searches
2. Use grounding tools to search for "{{.Text}} {{.LowerLabel}} wikidata"
3. If multiple candidates exist, choose the most relevant one based on context
4. Return NONE if no clear match is found

Entity to resolve: "{{.Text}}"
Entity type: {{.Label}}
Context: {{.Context}}

Search using grounding tools and return the result in this format:

ENTITY RESOLUTION:
- Entity: {{.Text}}
- Label: {{.Label}}
- Wikidata ID: [Q-number from grounding or NONE]
- Description: [description from grounding]
- Confidence: [0.0-1.0]

Use grounding tools to search for accurate information about this specific entity.
`))

// lookupPromptTmpl asks for a bare Q-number and nothing else.
var lookupPromptTmpl = template.Must(template.New("lookup").Parse(`You are a Wikidata expert. Your task is to find the most accurate Wikidata ID for an entity.

Entity: "{{.Text}}"
Type: {{.Label}}

Instructions:
1. Use grounding tools to search for "{{.Text}} {{.LowerLabel}} wikidata"
2. Find the most relevant Wikidata ID (Q-number)
3. Respond with ONLY the Wikidata ID (e.g. Q12345) or "NONE" if not found

Search for the entity and return the Wikidata ID:
`))

// renderNERPrompt executes the annotation prompt with the labels and text.
func renderNERPrompt(labels []string, text string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Labels string
		Text   string
	}{
		Labels: strings.Join(labels, ", "),
		Text:   text,
	}
	if err := nerPromptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering NER prompt: %w", err)
	}
	return buf.String(), nil
}

// entityPromptData carries a single entity into the resolve/lookup prompts.
type entityPromptData struct {
	Text       string
	Label      string
	LowerLabel string
	Context    string
}

func renderResolvePrompt(text, label, context string) (string, error) {
	if context == "" {
		context = "No additional context"
	}
	var buf bytes.Buffer
	data := entityPromptData{
		Text:       text,
		Label:      label,
		LowerLabel: strings.ToLower(label),
		Context:    context,
	}
	if err := resolvePromptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering resolve prompt: %w", err)
	}
	return buf.String(), nil
}

func renderLookupPrompt(text, label string) (string, error) {
	var buf bytes.Buffer
	data := entityPromptData{
		Text:       text,
		Label:      label,
		LowerLabel: strings.ToLower(label),
	}
	if err := lookupPromptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering lookup prompt: %w", err)
	}
	return buf.String(), nil
}

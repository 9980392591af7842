// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ner

import "regexp"

// reAnnotation matches one [entity](LABEL) annotation.
var reAnnotation = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// Annotation is one [entity](LABEL) pair extracted from annotated text.
type Annotation struct {
	Text  string
	Label string
}

// ExtractAnnotations returns the [entity](LABEL) pairs in annotated text,
// in order of appearance.
func ExtractAnnotations(annotated string) []Annotation {
	var out []Annotation
	for _, m := range reAnnotation.FindAllStringSubmatch(annotated, -1) {
		out = append(out, Annotation{Text: m[1], Label: m[2]})
	}
	return out
}

// StripAnnotations removes [entity](LABEL) markup, keeping the entity text.
func StripAnnotations(annotated string) string {
	return reAnnotation.ReplaceAllString(annotated, "$1")
}

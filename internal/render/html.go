// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns annotation results into display forms: color-coded
// HTML, human-readable tables, JSON, and a diff against the original text.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/project-lux/ner-engine/internal/ner"
)

// palette is the fixed set of highlight colors. Labels are assigned a
// color in first-appearance order, wrapping around when there are more
// labels than colors.
var palette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7",
	"#DDA0DD", "#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9",
}

const spanFormat = `<span style="background-color: %s; padding: 2px 4px; border-radius: 3px; font-weight: bold;">%s <sub style="font-size: 0.8em;">(%s)</sub></span>`

// Visualization renders annotated text as HTML with each entity wrapped
// in a colored span carrying its label as a subscript. Non-annotation
// text and entity content are HTML-escaped.
func Visualization(annotatedText string) string {
	annotations := ner.ExtractAnnotations(annotatedText)

	colorFor := make(map[string]string)
	for _, a := range annotations {
		if _, ok := colorFor[a.Label]; !ok {
			colorFor[a.Label] = palette[len(colorFor)%len(palette)]
		}
	}

	var b strings.Builder
	rest := annotatedText
	for _, a := range annotations {
		marker := fmt.Sprintf("[%s](%s)", a.Text, a.Label)
		idx := strings.Index(rest, marker)
		if idx < 0 {
			continue
		}
		b.WriteString(html.EscapeString(rest[:idx]))
		b.WriteString(fmt.Sprintf(spanFormat,
			colorFor[a.Label], html.EscapeString(a.Text), html.EscapeString(a.Label)))
		rest = rest[idx+len(marker):]
	}
	b.WriteString(html.EscapeString(rest))
	return b.String()
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/project-lux/ner-engine/internal/ner"
)

// Diff compares the original text against the annotated text with its
// annotations stripped, as a line-level diff in fenced markdown. A model
// that annotated faithfully produces no differences.
func Diff(original, annotated string) string {
	processed := ner.StripAnnotations(annotated)

	dmp := diffmatchpatch.New()
	chars1, chars2, lines := dmp.DiffLinesToChars(original, processed)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lines)

	var b strings.Builder
	changed := false
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
			changed = true
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
			changed = true
		}
		for _, line := range splitLines(d.Text) {
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if !changed {
		return "No differences found between original and processed text (annotations removed)."
	}
	return "```diff\n" + b.String() + "```"
}

// splitLines splits on newlines, dropping a trailing empty element so a
// terminal newline does not produce a phantom line.
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/project-lux/ner-engine/pkg/types"
)

// FormatTable writes the annotation result as a human-readable table to w.
func FormatTable(result *types.Result, w io.Writer) {
	if result == nil || len(result.Entities) == 0 {
		fmt.Fprintln(w, "No entities found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-30s  %-12s  %-12s  %-10s  %s\n",
		"#", "Entity", "Label", "Wikidata", "Confidence", "Description")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, e := range result.Entities {
		fmt.Fprintf(w, "%-4d  %-30s  %-12s  %-12s  %-10.2f  %s\n",
			i+1, truncate(e.Text, 30), truncate(e.Label, 12),
			e.WikidataID, e.Confidence, truncate(e.Description, 40))
	}

	fmt.Fprintf(w, "\n%d entities\n", len(result.Entities))
}

// FormatJSON writes the annotation result as indented JSON to w.
func FormatJSON(result *types.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikidata

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/project-lux/ner-engine/pkg/types"
)

// nameSimilarity returns a ratio in [0,1] based on the Levenshtein
// distance between the two strings.
func nameSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	lev := dmp.DiffLevenshtein(diffs)
	return 1.0 - float64(lev)/float64(maxLen)
}

// CompareNames classifies how well an extracted entity name matches its
// Wikidata label. Names are lowercased and trimmed before comparison;
// containment (one name inside the other, e.g. an abbreviation against
// the full name) counts as a very similar match.
func CompareNames(extracted, wikidata string) types.NameComparison {
	if extracted == "" || wikidata == "" {
		return types.NameComparison{
			Status:  types.MatchUnknown,
			Message: "Missing name data for comparison",
		}
	}

	extractedNorm := strings.ToLower(strings.TrimSpace(extracted))
	wikidataNorm := strings.ToLower(strings.TrimSpace(wikidata))

	if extractedNorm == wikidataNorm {
		return types.NameComparison{
			Status:     types.MatchExact,
			Similarity: 1.0,
			Message:    "Exact match",
		}
	}

	similarity := nameSimilarity(extractedNorm, wikidataNorm)
	contains := strings.Contains(wikidataNorm, extractedNorm) ||
		strings.Contains(extractedNorm, wikidataNorm)

	switch {
	case similarity >= 0.9 || contains:
		return types.NameComparison{
			Status:     types.MatchVerySimilar,
			Similarity: similarity,
			Message:    "Very similar or partial match",
		}
	case similarity >= 0.7:
		return types.NameComparison{
			Status:     types.MatchSimilar,
			Similarity: similarity,
			Message:    "Similar names",
		}
	case similarity >= 0.4:
		return types.NameComparison{
			Status:     types.MatchSomewhat,
			Similarity: similarity,
			Message:    "Somewhat similar",
		}
	default:
		return types.NameComparison{
			Status:     types.MatchDifferent,
			Similarity: similarity,
			Message:    "Different names",
		}
	}
}

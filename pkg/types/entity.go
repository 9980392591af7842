// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the ner-engine pipeline:
// entity records, annotation results, Wikidata lookups, and stage
// configuration.
package types

import "time"

// Entity is a single named entity recognized in the input text.
type Entity struct {
	// Text is the entity surface form as it appears in the input.
	Text string `json:"text" yaml:"text"`

	// Label is the entity type (e.g. "PERSON", "LOCATION").
	Label string `json:"label" yaml:"label"`

	// StartPos and EndPos are character offsets into the original text.
	StartPos int `json:"start_pos" yaml:"start_pos"`
	EndPos   int `json:"end_pos" yaml:"end_pos"`

	// WikidataID is a Q-prefixed Wikidata identifier, or empty when the
	// entity could not be resolved. When present it matches Q[0-9]+.
	WikidataID string `json:"wikidata_id" yaml:"wikidata_id"`

	// Description is a short gloss of the resolved entity.
	Description string `json:"description" yaml:"description"`

	// Confidence is a value between 0.0 and 1.0.
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// GroundingSource is one web source consulted by the model during a
// grounded generation.
type GroundingSource struct {
	Title string `json:"title" yaml:"title"`
	URI   string `json:"uri" yaml:"uri"`
}

// GroundingMetadata records the search activity behind a grounded response.
type GroundingMetadata struct {
	SearchQueries []string          `json:"search_queries,omitempty" yaml:"search_queries,omitempty"`
	Sources       []GroundingSource `json:"grounding_sources,omitempty" yaml:"grounding_sources,omitempty"`
}

// Result is the outcome of one annotation request: the input text with
// entities marked up as [entity](LABEL), plus the entity records.
type Result struct {
	// AnnotatedText carries inline [entity](LABEL) markup.
	AnnotatedText string `json:"annotated_text" yaml:"annotated_text"`

	// Entities lists the recognized entities in document order.
	Entities []Entity `json:"entities" yaml:"entities"`

	// Grounding is present when the model used grounded search.
	Grounding *GroundingMetadata `json:"grounding_metadata,omitempty" yaml:"grounding_metadata,omitempty"`
}

// SearchResult is one hit from the Wikidata entity search API.
type SearchResult struct {
	// ID is the Q-prefixed Wikidata identifier.
	ID string `json:"id" yaml:"id"`

	// Label is the entity's English label.
	Label string `json:"label" yaml:"label"`

	// Description is the entity's short English description.
	Description string `json:"description" yaml:"description"`

	// URL points at the entity page on wikidata.org.
	URL string `json:"url" yaml:"url"`
}

// EntityInfo holds label, description, and optional coordinates for one
// Wikidata entity, as returned by the SPARQL endpoint.
type EntityInfo struct {
	WikidataID  string `json:"wikidata_id" yaml:"wikidata_id"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`

	// HasCoordinates reports whether the entity carries a P625 coordinate.
	HasCoordinates bool `json:"-" yaml:"-"`

	// Latitude and Longitude are only meaningful when HasCoordinates is true.
	Latitude  float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`

	// CoordinateString is the raw WKT literal, e.g. "Point(12.48 41.89)".
	CoordinateString string `json:"coordinate_string,omitempty" yaml:"coordinate_string,omitempty"`
}

// NameMatchStatus classifies how well an extracted entity name matches
// the Wikidata label of its resolved entity.
type NameMatchStatus string

const (
	MatchExact        NameMatchStatus = "exact_match"
	MatchVerySimilar  NameMatchStatus = "very_similar"
	MatchSimilar      NameMatchStatus = "similar"
	MatchSomewhat     NameMatchStatus = "somewhat_similar"
	MatchDifferent    NameMatchStatus = "different"
	MatchNoWikidata   NameMatchStatus = "no_wikidata"
	MatchNoWikidataID NameMatchStatus = "no_wikidata_id"
	MatchUnknown      NameMatchStatus = "unknown"
)

// NameComparison is the outcome of comparing an extracted entity name
// against its Wikidata label.
type NameComparison struct {
	Status     NameMatchStatus `json:"status" yaml:"status"`
	Similarity float64         `json:"similarity" yaml:"similarity"`
	Message    string          `json:"message" yaml:"message"`
}

// EnrichedEntity is an Entity augmented with Wikidata label, description,
// optional coordinates, and a name comparison.
type EnrichedEntity struct {
	Entity `yaml:",inline"`

	WikidataLabel       string `json:"wikidata_label" yaml:"wikidata_label"`
	WikidataDescription string `json:"wikidata_description" yaml:"wikidata_description"`

	Latitude         float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude        float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	CoordinateString string  `json:"coordinate_string,omitempty" yaml:"coordinate_string,omitempty"`

	NameComparison *NameComparison `json:"name_comparison,omitempty" yaml:"name_comparison,omitempty"`
}

// GeoEntity is an Entity with resolved geographic coordinates.
type GeoEntity struct {
	Entity `yaml:",inline"`

	Latitude         float64 `json:"latitude" yaml:"latitude"`
	Longitude        float64 `json:"longitude" yaml:"longitude"`
	CoordinateString string  `json:"coordinate_string" yaml:"coordinate_string"`
}

// Session is a persisted annotation run: the input, the result, and the
// entity records (which may have been edited after the fact).
type Session struct {
	// ID is a UUID assigned when the session is saved.
	ID string `json:"id" yaml:"id"`

	// Text is the original input text.
	Text string `json:"text" yaml:"text"`

	// AnnotatedText carries the [entity](LABEL) markup from the model.
	AnnotatedText string `json:"annotated_text" yaml:"annotated_text"`

	// Labels are the entity types requested for this run.
	Labels []string `json:"labels" yaml:"labels"`

	// CreatedAt is the save time in UTC.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Entities are the entity records, in document order.
	Entities []Entity `json:"entities" yaml:"entities"`
}

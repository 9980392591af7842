// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikidata

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/project-lux/ner-engine/pkg/types"
)

// Enrich augments each entity carrying a Wikidata ID with the entity's
// label, description, coordinates when present, and a name comparison
// against the Wikidata label. Entities without an ID are passed through
// with status no_wikidata_id; entities whose lookup fails or returns
// nothing get status no_wikidata. Progress is written to w.
func (c *Client) Enrich(ctx context.Context, entities []types.Entity, w io.Writer) []types.EnrichedEntity {
	if w == nil {
		w = io.Discard
	}

	enriched := make([]types.EnrichedEntity, 0, len(entities))
	for _, entity := range entities {
		e := types.EnrichedEntity{Entity: entity}

		id := strings.TrimSpace(entity.WikidataID)
		if id == "" || !strings.HasPrefix(id, "Q") {
			e.NameComparison = &types.NameComparison{
				Status:  types.MatchNoWikidataID,
				Message: "No Wikidata ID available",
			}
			enriched = append(enriched, e)
			continue
		}

		info, err := c.EntityInfo(ctx, id)
		if err != nil || info.WikidataID == "" {
			if err != nil {
				fmt.Fprintf(w, "warning: Wikidata lookup for %s failed: %v\n", id, err)
			}
			e.NameComparison = &types.NameComparison{
				Status:  types.MatchNoWikidata,
				Message: "No Wikidata information found",
			}
			enriched = append(enriched, e)
			continue
		}

		e.WikidataLabel = info.Label
		e.WikidataDescription = info.Description
		if info.HasCoordinates {
			e.Latitude = info.Latitude
			e.Longitude = info.Longitude
			e.CoordinateString = info.CoordinateString
		}
		cmp := CompareNames(entity.Text, info.Label)
		e.NameComparison = &cmp

		fmt.Fprintf(w, "enriched %q as %s (%s)\n", entity.Text, id, cmp.Status)
		enriched = append(enriched, e)
	}
	return enriched
}

// Geolocate returns the subset of entities that resolve to a P625
// coordinate, with latitude, longitude, and the raw coordinate literal
// attached.
func (c *Client) Geolocate(ctx context.Context, entities []types.Entity, w io.Writer) []types.GeoEntity {
	if w == nil {
		w = io.Discard
	}

	located := make([]types.GeoEntity, 0, len(entities))
	for _, entity := range entities {
		id := strings.TrimSpace(entity.WikidataID)
		if id == "" || !strings.HasPrefix(id, "Q") {
			continue
		}

		info, err := c.Coordinates(ctx, id)
		if err != nil {
			fmt.Fprintf(w, "warning: coordinate lookup for %s failed: %v\n", id, err)
			continue
		}
		if !info.HasCoordinates {
			continue
		}

		located = append(located, types.GeoEntity{
			Entity:           entity,
			Latitude:         info.Latitude,
			Longitude:        info.Longitude,
			CoordinateString: info.CoordinateString,
		})
	}
	return located
}

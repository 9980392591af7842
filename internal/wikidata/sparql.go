// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/project-lux/ner-engine/internal/httputil"
	"github.com/project-lux/ner-engine/pkg/types"
)

// sparqlBase is the Wikidata Query Service endpoint. Declared as a var so
// tests can substitute an httptest server.
var sparqlBase = "https://query.wikidata.org/sparql"

// rePoint extracts longitude and latitude from a WKT literal such as
// "Point(12.4828 41.8931)". P625 stores longitude first.
var rePoint = regexp.MustCompile(`Point\(([+-]?\d+\.?\d*)\s+([+-]?\d+\.?\d*)\)`)

const entityInfoQuery = `
SELECT ?item ?itemLabel ?itemDescription ?coord WHERE {
  VALUES ?item { wd:%s }
  OPTIONAL { ?item wdt:P625 ?coord. }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
}
`

// sparqlResponse mirrors the application/sparql-results+json envelope.
type sparqlResponse struct {
	Results struct {
		Bindings []map[string]struct {
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// EntityInfo fetches the English label, description, and optional P625
// coordinate for one entity. An entity unknown to the query service
// yields a zero-value EntityInfo and no error.
func (c *Client) EntityInfo(ctx context.Context, id string) (types.EntityInfo, error) {
	var info types.EntityInfo
	if !reEntityID.MatchString(id) {
		return info, fmt.Errorf("invalid Wikidata ID %q", id)
	}

	params := url.Values{"query": {fmt.Sprintf(entityInfoQuery, id)}}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sparqlBase+"?"+params.Encode(), nil)
	if err != nil {
		return info, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent())
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.Config.MaxRetries)
	if err != nil {
		return info, fmt.Errorf("SPARQL request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return info, fmt.Errorf("SPARQL endpoint returned HTTP %d", resp.StatusCode)
	}

	var sr sparqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return info, fmt.Errorf("parsing SPARQL response: %w", err)
	}

	if len(sr.Results.Bindings) == 0 {
		return info, nil
	}
	binding := sr.Results.Bindings[0]

	info.WikidataID = id
	info.Label = binding["itemLabel"].Value
	info.Description = binding["itemDescription"].Value

	if coord := binding["coord"].Value; coord != "" {
		if m := rePoint.FindStringSubmatch(coord); m != nil {
			lon, lonErr := strconv.ParseFloat(m[1], 64)
			lat, latErr := strconv.ParseFloat(m[2], 64)
			if lonErr == nil && latErr == nil {
				info.HasCoordinates = true
				info.Longitude = lon
				info.Latitude = lat
				info.CoordinateString = coord
			}
		}
	}
	return info, nil
}

// Coordinates returns the entity's coordinate fields, or a zero-value
// EntityInfo when the entity carries no P625 statement.
func (c *Client) Coordinates(ctx context.Context, id string) (types.EntityInfo, error) {
	info, err := c.EntityInfo(ctx, id)
	if err != nil {
		return types.EntityInfo{}, err
	}
	if !info.HasCoordinates {
		return types.EntityInfo{}, nil
	}
	info.Description = ""
	return info, nil
}

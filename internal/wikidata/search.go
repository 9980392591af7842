// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wikidata resolves entity names against the Wikidata knowledge
// base: full-text entity search via the wbsearchentities action API, and
// label/description/coordinate lookup via the SPARQL query service.
package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/project-lux/ner-engine/internal/httputil"
	"github.com/project-lux/ner-engine/pkg/types"
)

// searchBase is the Wikimedia action API endpoint. Declared as a var so
// tests can substitute an httptest server.
var searchBase = "https://www.wikidata.org/w/api.php"

// reEntityID matches a well-formed Wikidata item identifier.
var reEntityID = regexp.MustCompile(`^Q[0-9]+$`)

const (
	defaultUserAgent  = "ner-engine/1.0 (https://github.com/project-lux/ner-engine)"
	defaultTimeout    = 10 * time.Second
	defaultMaxResults = 10
)

// Client talks to the Wikidata HTTP APIs.
type Client struct {
	HTTP   *http.Client
	Config types.WikidataConfig
}

// New returns a Client with defaults applied for any unset fields.
func New(cfg types.WikidataConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return &Client{
		HTTP:   &http.Client{Timeout: cfg.Timeout},
		Config: cfg,
	}
}

// userAgent builds the User-Agent header. Wikimedia asks API consumers to
// include contact information in the agent string.
func (c *Client) userAgent() string {
	if c.Config.ContactEmail != "" {
		return fmt.Sprintf("%s (%s)", c.Config.UserAgent, c.Config.ContactEmail)
	}
	return c.Config.UserAgent
}

// searchResponse mirrors the wbsearchentities JSON envelope.
type searchResponse struct {
	Search []struct {
		ID          string `json:"id"`
		Label       string `json:"label"`
		Description string `json:"description"`
	} `json:"search"`
}

// SearchEntities queries wbsearchentities for English-language matches.
// limit caps the result count; zero or negative means the configured
// maximum.
func (c *Client) SearchEntities(ctx context.Context, query string, limit int) ([]types.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("empty Wikidata search query")
	}
	if limit <= 0 {
		limit = c.Config.MaxResults
	}

	params := url.Values{
		"action":   {"wbsearchentities"},
		"search":   {query},
		"language": {"en"},
		"format":   {"json"},
		"limit":    {strconv.Itoa(limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.Config.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("Wikidata search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Wikidata search returned HTTP %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Wikidata search response: %w", err)
	}

	results := make([]types.SearchResult, 0, len(sr.Search))
	for _, item := range sr.Search {
		results = append(results, types.SearchResult{
			ID:          item.ID,
			Label:       item.Label,
			Description: item.Description,
			URL:         "https://www.wikidata.org/wiki/" + item.ID,
		})
	}
	return results, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/project-lux/ner-engine/internal/session"
	"github.com/project-lux/ner-engine/pkg/types"
)

// --- stubs ---

type stubAnnotator struct {
	result       *types.Result
	resolved     types.Entity
	resolveErr   error
	gotText      string
	gotLabels    []string
	gotGrounded  bool
	resolveCalls int
}

func (a *stubAnnotator) Annotate(_ context.Context, text string, labels []string, grounded bool) *types.Result {
	a.gotText = text
	a.gotLabels = labels
	a.gotGrounded = grounded
	return a.result
}

func (a *stubAnnotator) ResolveEntity(_ context.Context, text, label, _ string) (types.Entity, error) {
	a.resolveCalls++
	if a.resolveErr != nil {
		return types.Entity{}, a.resolveErr
	}
	return a.resolved, nil
}

type stubWikidata struct {
	results   []types.SearchResult
	searchErr error
	enriched  []types.EnrichedEntity
	located   []types.GeoEntity
}

func (w *stubWikidata) SearchEntities(_ context.Context, query string, limit int) ([]types.SearchResult, error) {
	if w.searchErr != nil {
		return nil, w.searchErr
	}
	return w.results, nil
}

func (w *stubWikidata) Enrich(_ context.Context, entities []types.Entity, _ io.Writer) []types.EnrichedEntity {
	return w.enriched
}

func (w *stubWikidata) Geolocate(_ context.Context, entities []types.Entity, _ io.Writer) []types.GeoEntity {
	return w.located
}

type stubStore struct {
	savedID   string
	saveErr   error
	updateErr error
	updates   []session.EntityUpdate
}

func (s *stubStore) Save(_ context.Context, text string, labels []string, result *types.Result) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	return s.savedID, nil
}

func (s *stubStore) UpdateEntity(_ context.Context, sessionID string, position int, update session.EntityUpdate) error {
	s.updates = append(s.updates, update)
	return s.updateErr
}

// --- helpers ---

func testResult() *types.Result {
	return &types.Result{
		AnnotatedText: "[Rome](LOCATION)",
		Entities:      []types.Entity{{Text: "Rome", Label: "LOCATION", WikidataID: "Q220", Confidence: 0.9}},
	}
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rr.Body.String())
	}
	return resp
}

// --- /api/process ---

func TestHandleProcess(t *testing.T) {
	annotator := &stubAnnotator{result: testResult()}
	store := &stubStore{savedID: "abc-123"}
	srv := New(annotator, &stubWikidata{}, store, types.NERConfig{Grounding: true})

	rr := postJSON(t, srv.Handler(), "/api/process", map[string]string{
		"text":   "Rome is a city.",
		"labels": "location, person",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["success"] != true {
		t.Errorf("success = %v", resp["success"])
	}
	if resp["original_text"] != "Rome is a city." {
		t.Errorf("original_text = %v", resp["original_text"])
	}
	if resp["session_id"] != "abc-123" {
		t.Errorf("session_id = %v", resp["session_id"])
	}

	// Labels are normalized to upper case before annotation.
	if len(annotator.gotLabels) != 2 || annotator.gotLabels[0] != "LOCATION" {
		t.Errorf("labels passed to annotator = %v", annotator.gotLabels)
	}
	if !annotator.gotGrounded {
		t.Error("grounding flag not passed through")
	}
}

func TestHandleProcessValidation(t *testing.T) {
	srv := New(&stubAnnotator{result: testResult()}, &stubWikidata{}, nil, types.NERConfig{})
	handler := srv.Handler()

	tests := []struct {
		name string
		body map[string]string
	}{
		{"empty text", map[string]string{"text": "", "labels": "PERSON"}},
		{"empty labels", map[string]string{"text": "hello", "labels": ""}},
		{"labels parse to nothing", map[string]string{"text": "hello", "labels": " , , "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postJSON(t, handler, "/api/process", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
			resp := decodeResponse(t, rr)
			if resp["error"] == "" {
				t.Error("missing error message")
			}
		})
	}
}

func TestHandleProcessWithoutStore(t *testing.T) {
	srv := New(&stubAnnotator{result: testResult()}, &stubWikidata{}, nil, types.NERConfig{})

	rr := postJSON(t, srv.Handler(), "/api/process", map[string]string{
		"text": "Rome", "labels": "LOCATION",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decodeResponse(t, rr)
	if _, ok := resp["session_id"]; ok {
		t.Error("session_id present without a store")
	}
}

func TestHandleProcessMethodNotAllowed(t *testing.T) {
	srv := New(&stubAnnotator{result: testResult()}, &stubWikidata{}, nil, types.NERConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/process", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
}

// --- /api/wikidata/search ---

func TestHandleWikidataSearch(t *testing.T) {
	wd := &stubWikidata{results: []types.SearchResult{
		{ID: "Q220", Label: "Rome", Description: "capital city of Italy", URL: "https://www.wikidata.org/wiki/Q220"},
	}}
	srv := New(&stubAnnotator{}, wd, nil, types.NERConfig{})

	rr := postJSON(t, srv.Handler(), "/api/wikidata/search", map[string]string{"query": "Rome"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decodeResponse(t, rr)
	results, ok := resp["results"].([]any)
	if !ok || len(results) != 1 {
		t.Errorf("results = %v", resp["results"])
	}
}

func TestHandleWikidataSearchShortQuery(t *testing.T) {
	srv := New(&stubAnnotator{}, &stubWikidata{searchErr: fmt.Errorf("should not be called")}, nil, types.NERConfig{})

	rr := postJSON(t, srv.Handler(), "/api/wikidata/search", map[string]string{"query": "R"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decodeResponse(t, rr)
	results, ok := resp["results"].([]any)
	if !ok || len(results) != 0 {
		t.Errorf("results = %v, want empty list", resp["results"])
	}
}

func TestHandleWikidataSearchMissingQuery(t *testing.T) {
	srv := New(&stubAnnotator{}, &stubWikidata{}, nil, types.NERConfig{})

	rr := postJSON(t, srv.Handler(), "/api/wikidata/search", map[string]string{})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestHandleWikidataSearchBackendError(t *testing.T) {
	srv := New(&stubAnnotator{}, &stubWikidata{searchErr: fmt.Errorf("boom")}, nil, types.NERConfig{})

	rr := postJSON(t, srv.Handler(), "/api/wikidata/search", map[string]string{"query": "Rome"})
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
}

// --- /api/entity/update ---

func TestHandleEntityUpdate(t *testing.T) {
	store := &stubStore{}
	srv := New(&stubAnnotator{}, &stubWikidata{}, store, types.NERConfig{})

	rr := postJSON(t, srv.Handler(), "/api/entity/update", map[string]any{
		"session_id": "abc-123",
		"position":   1,
		"updates":    map[string]any{"wikidata_id": "Q42", "confidence": 0.5},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["success"] != true || resp["message"] != "Entity updated successfully" {
		t.Errorf("resp = %v", resp)
	}

	if len(store.updates) != 1 {
		t.Fatalf("updates recorded = %d", len(store.updates))
	}
	u := store.updates[0]
	if u.WikidataID == nil || *u.WikidataID != "Q42" {
		t.Errorf("WikidataID = %v", u.WikidataID)
	}
	if u.Confidence == nil || *u.Confidence != 0.5 {
		t.Errorf("Confidence = %v", u.Confidence)
	}
	if u.Label != nil || u.Description != nil {
		t.Errorf("unset fields should stay nil: %+v", u)
	}
}

func TestHandleEntityUpdateNoStore(t *testing.T) {
	srv := New(&stubAnnotator{}, &stubWikidata{}, nil, types.NERConfig{})

	rr := postJSON(t, srv.Handler(), "/api/entity/update", map[string]any{
		"session_id": "abc-123",
		"updates":    map[string]any{"wikidata_id": "Q42"},
	})
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rr.Code)
	}
}

// --- /api/entity/resolve ---

func TestHandleEntityResolve(t *testing.T) {
	annotator := &stubAnnotator{resolved: types.Entity{Text: "Rome", Label: "LOCATION", WikidataID: "Q220", Confidence: 0.8}}
	srv := New(annotator, &stubWikidata{}, nil, types.NERConfig{})

	rr := postJSON(t, srv.Handler(), "/api/entity/resolve", map[string]string{
		"text": "Rome", "label": "LOCATION", "context": "Rome is a city in Italy.",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decodeResponse(t, rr)
	entity, ok := resp["entity"].(map[string]any)
	if !ok || entity["wikidata_id"] != "Q220" {
		t.Errorf("entity = %v", resp["entity"])
	}
	if annotator.resolveCalls != 1 {
		t.Errorf("resolveCalls = %d", annotator.resolveCalls)
	}
}

func TestHandleEntityResolveMissingFields(t *testing.T) {
	srv := New(&stubAnnotator{}, &stubWikidata{}, nil, types.NERConfig{})

	rr := postJSON(t, srv.Handler(), "/api/entity/resolve", map[string]string{"text": "Rome"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

// --- /api/entities/* ---

func TestHandleEntitiesCoordinates(t *testing.T) {
	wd := &stubWikidata{located: []types.GeoEntity{
		{Entity: types.Entity{Text: "Rome", WikidataID: "Q220"}, Latitude: 41.89, Longitude: 12.48, CoordinateString: "Point(12.48 41.89)"},
	}}
	srv := New(&stubAnnotator{}, wd, nil, types.NERConfig{})

	rr := postJSON(t, srv.Handler(), "/api/entities/coordinates", map[string]any{
		"entities": []types.Entity{{Text: "Rome", WikidataID: "Q220"}, {Text: "Bob"}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decodeResponse(t, rr)
	if resp["total_entities"] != float64(2) || resp["geolocated_count"] != float64(1) {
		t.Errorf("counts = %v / %v", resp["total_entities"], resp["geolocated_count"])
	}
}

func TestHandleEntitiesEnrich(t *testing.T) {
	wd := &stubWikidata{enriched: []types.EnrichedEntity{
		{Entity: types.Entity{Text: "Rome", WikidataID: "Q220"}, WikidataLabel: "Rome"},
	}}
	srv := New(&stubAnnotator{}, wd, nil, types.NERConfig{})

	rr := postJSON(t, srv.Handler(), "/api/entities/enrich", map[string]any{
		"entities": []types.Entity{{Text: "Rome", WikidataID: "Q220"}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decodeResponse(t, rr)
	if resp["success"] != true || resp["total_entities"] != float64(1) {
		t.Errorf("resp = %v", resp)
	}
	enriched, ok := resp["enriched_entities"].([]any)
	if !ok || len(enriched) != 1 {
		t.Errorf("enriched_entities = %v", resp["enriched_entities"])
	}
}

// --- index, health, CORS ---

func TestHandleIndex(t *testing.T) {
	srv := New(&stubAnnotator{}, &stubWikidata{}, nil, types.NERConfig{DefaultLabels: []string{"PERSON", "LOCATION"}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "NER Engine") || !strings.Contains(body, "PERSON, LOCATION") {
		t.Errorf("unexpected index body:\n%s", body)
	}
}

func TestHandleIndexNotFound(t *testing.T) {
	srv := New(&stubAnnotator{}, &stubWikidata{}, nil, types.NERConfig{})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := New(&stubAnnotator{}, &stubWikidata{}, nil, types.NERConfig{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decodeResponse(t, rr)
	if resp["status"] != "ok" {
		t.Errorf("status = %v", resp["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := New(&stubAnnotator{}, &stubWikidata{}, nil, types.NERConfig{})

	req := httptest.NewRequest(http.MethodOptions, "/api/process", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("preflight status = %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("missing CORS origin header")
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), "POST") {
		t.Errorf("missing CORS methods header")
	}
}

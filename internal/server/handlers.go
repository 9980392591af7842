// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"log"
	"net/http"
	"unicode/utf8"

	"github.com/project-lux/ner-engine/internal/ner"
	"github.com/project-lux/ner-engine/internal/session"
	"github.com/project-lux/ner-engine/pkg/types"
)

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, statusCode int, msg string) {
	writeJSON(w, statusCode, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type processRequest struct {
	Text   string `json:"text"`
	Labels string `json:"labels"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Please enter some text to process.")
		return
	}
	if req.Labels == "" {
		writeError(w, http.StatusBadRequest, "Please enter at least one entity label.")
		return
	}
	labels := ner.ParseLabels(req.Labels)
	if len(labels) == 0 {
		writeError(w, http.StatusBadRequest, "Please enter valid entity labels separated by commas.")
		return
	}

	log.Printf("processing text with labels %v", labels)
	result := s.annotator.Annotate(r.Context(), req.Text, labels, s.cfg.Grounding)

	resp := map[string]any{
		"success":       true,
		"result":        result,
		"original_text": req.Text,
	}

	if s.store != nil {
		id, err := s.store.Save(r.Context(), req.Text, labels, result)
		if err != nil {
			log.Printf("saving session: %v", err)
		} else {
			resp["session_id"] = id
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

type searchRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleWikidataSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}
	// Single characters produce noise from the search API.
	if utf8.RuneCountInString(req.Query) < 2 {
		writeJSON(w, http.StatusOK, map[string]any{"results": []types.SearchResult{}})
		return
	}

	results, err := s.wikidata.SearchEntities(r.Context(), req.Query, 0)
	if err != nil {
		log.Printf("Wikidata search for %q: %v", req.Query, err)
		writeError(w, http.StatusInternalServerError, "Failed to search Wikidata: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

type updateRequest struct {
	SessionID string `json:"session_id"`
	Position  int    `json:"position"`
	Updates   struct {
		WikidataID  *string  `json:"wikidata_id"`
		Description *string  `json:"description"`
		Label       *string  `json:"label"`
		Confidence  *float64 `json:"confidence"`
	} `json:"updates"`
}

func (s *Server) handleEntityUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "session store not configured")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	update := session.EntityUpdate{
		WikidataID:  req.Updates.WikidataID,
		Description: req.Updates.Description,
		Label:       req.Updates.Label,
		Confidence:  req.Updates.Confidence,
	}
	if err := s.store.UpdateEntity(r.Context(), req.SessionID, req.Position, update); err != nil {
		log.Printf("updating entity: %v", err)
		writeError(w, http.StatusBadRequest, "Failed to update entity")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Entity updated successfully",
	})
}

type resolveRequest struct {
	Text    string `json:"text"`
	Label   string `json:"label"`
	Context string `json:"context"`
}

func (s *Server) handleEntityResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Text == "" || req.Label == "" {
		writeError(w, http.StatusBadRequest, "text and label are required")
		return
	}

	entity, err := s.annotator.ResolveEntity(r.Context(), req.Text, req.Label, req.Context)
	if err != nil {
		log.Printf("resolving entity %q: %v", req.Text, err)
		writeError(w, http.StatusInternalServerError, "Failed to resolve entity")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"entity":  entity,
	})
}

type entitiesRequest struct {
	Entities []types.Entity `json:"entities"`
}

func (s *Server) handleEntitiesCoordinates(w http.ResponseWriter, r *http.Request) {
	var req entitiesRequest
	if !decodeBody(w, r, &req) {
		return
	}

	located := s.wikidata.Geolocate(r.Context(), req.Entities, log.Writer())

	writeJSON(w, http.StatusOK, map[string]any{
		"success":             true,
		"geolocated_entities": located,
		"total_entities":      len(req.Entities),
		"geolocated_count":    len(located),
	})
}

func (s *Server) handleEntitiesEnrich(w http.ResponseWriter, r *http.Request) {
	var req entitiesRequest
	if !decodeBody(w, r, &req) {
		return
	}

	enriched := s.wikidata.Enrich(r.Context(), req.Entities, log.Writer())

	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"enriched_entities": enriched,
		"total_entities":    len(req.Entities),
	})
}

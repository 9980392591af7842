// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the annotation pipeline over HTTP: a JSON API
// for processing text, Wikidata lookups, and entity edits, plus a small
// HTML index page.
package server

import (
	"context"
	"io"
	"log"
	"net/http"

	"github.com/project-lux/ner-engine/internal/session"
	"github.com/project-lux/ner-engine/pkg/types"
)

// Annotator is the annotation surface the server needs.
type Annotator interface {
	Annotate(ctx context.Context, text string, labels []string, grounded bool) *types.Result
	ResolveEntity(ctx context.Context, text, label, contextText string) (types.Entity, error)
}

// Wikidata is the knowledge-base surface the server needs.
type Wikidata interface {
	SearchEntities(ctx context.Context, query string, limit int) ([]types.SearchResult, error)
	Enrich(ctx context.Context, entities []types.Entity, w io.Writer) []types.EnrichedEntity
	Geolocate(ctx context.Context, entities []types.Entity, w io.Writer) []types.GeoEntity
}

// Store persists annotation sessions. May be nil, in which case results
// are not saved and entity updates are rejected.
type Store interface {
	Save(ctx context.Context, text string, labels []string, result *types.Result) (string, error)
	UpdateEntity(ctx context.Context, sessionID string, position int, update session.EntityUpdate) error
}

// Server wires the pipeline stages behind an HTTP mux.
type Server struct {
	annotator Annotator
	wikidata  Wikidata
	store     Store
	cfg       types.NERConfig
}

// New builds a Server. store may be nil.
func New(annotator Annotator, wd Wikidata, store Store, cfg types.NERConfig) *Server {
	return &Server{annotator: annotator, wikidata: wd, store: store, cfg: cfg}
}

// Handler returns the full route table wrapped in CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/process", s.handleProcess)
	mux.HandleFunc("/api/wikidata/search", s.handleWikidataSearch)
	mux.HandleFunc("/api/entity/update", s.handleEntityUpdate)
	mux.HandleFunc("/api/entity/resolve", s.handleEntityResolve)
	mux.HandleFunc("/api/entities/coordinates", s.handleEntitiesCoordinates)
	mux.HandleFunc("/api/entities/enrich", s.handleEntitiesEnrich)
	return corsMiddleware(mux)
}

// ListenAndServe starts the server on addr and blocks.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("server listening on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"html/template"
	"net/http"
	"strings"
)

var indexTemplate = template.Must(template.New("index").Parse(`<html>
<head><title>NER Engine</title></head>
  <body>
    <h1>NER Engine</h1>
    <p>Named entity recognition with Wikidata linking.</p>
    <p>Endpoints take JSON via POST and produce JSON:
      <ul>
        <li><code>/api/process</code>: annotate text ({"text": ..., "labels": "PERSON, LOCATION"})</li>
        <li><code>/api/wikidata/search</code>: search Wikidata ({"query": ...})</li>
        <li><code>/api/entity/resolve</code>: resolve one entity ({"text": ..., "label": ..., "context": ...})</li>
        <li><code>/api/entity/update</code>: edit a saved entity record</li>
        <li><code>/api/entities/coordinates</code>: geolocate entities</li>
        <li><code>/api/entities/enrich</code>: enrich entities with Wikidata data</li>
      </ul>
    </p>
    <p>Default labels: {{.Labels}}</p>
  </body>
</html>`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	labels := strings.Join(s.cfg.DefaultLabels, ", ")
	if labels == "" {
		labels = "PERSON, LOCATION, ORGANIZATION"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	indexTemplate.Execute(w, struct{ Labels string }{labels})
}

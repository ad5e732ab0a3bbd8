package handler

import (
	"net/http"

	"github.com/nribeiro/voyago/spec"
)

// scalarPage renders the embedded OpenAPI document with the Scalar API
// reference UI.
const scalarPage = `<!doctype html>
<html>
<head>
  <title>Voyago API Reference</title>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
</head>
<body>
  <script id="api-reference" data-url="/openapi.yaml"></script>
  <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`

// handleOpenAPI handles GET /openapi.yaml: serve the embedded spec.
func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	if _, err := w.Write(spec.OpenAPI); err != nil {
		s.log.Error("write openapi spec", "error", err)
	}
}

// handleDocs handles GET /docs: interactive API reference.
func (s *Server) handleDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(scalarPage)); err != nil {
		s.log.Error("write docs page", "error", err)
	}
}

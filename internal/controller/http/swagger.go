package http

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"
)

// OpenAPISpec is the embedded API description
//
//go:embed openapi.yaml
var OpenAPISpec []byte

const (
	docsPath     = "/docs"
	specYAMLPath = "/docs/openapi.yaml"
	specJSONPath = "/docs/openapi.json"
)

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
window.onload = () => SwaggerUIBundle({
  url: "{{.SpecURL}}",
  dom_id: "#swagger-ui",
  deepLinking: true,
  docExpansion: "list",
  filter: true
});
</script>
</body>
</html>`))

// SwaggerHandler serves the API documentation
type SwaggerHandler struct {
	page     []byte
	specYAML []byte
	specJSON []byte
}

// NewSwaggerHandler converts the YAML document once and renders the page.
// A malformed document fails here instead of on the first request.
func NewSwaggerHandler(title string, spec []byte) (*SwaggerHandler, error) {
	var doc any
	if err := yaml.Unmarshal(spec, &doc); err != nil {
		return nil, fmt.Errorf("parsing openapi document: %w", err)
	}
	specJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting openapi document: %w", err)
	}

	var page bytes.Buffer
	if err := docsPage.Execute(&page, map[string]string{"Title": title, "SpecURL": specYAMLPath}); err != nil {
		return nil, fmt.Errorf("rendering docs page: %w", err)
	}

	return &SwaggerHandler{
		page:     page.Bytes(),
		specYAML: spec,
		specJSON: specJSON,
	}, nil
}

// RegisterRoutes registers documentation routes
func (h *SwaggerHandler) RegisterRoutes(r chi.Router) {
	r.Get(docsPath, serveBytes("text/html; charset=utf-8", h.page))
	r.Get(docsPath+"/", http.RedirectHandler(docsPath, http.StatusMovedPermanently).ServeHTTP)
	r.Get(specYAMLPath, serveBytes("application/x-yaml", h.specYAML))
	r.Get(specJSONPath, serveBytes("application/json", h.specJSON))
}

func serveBytes(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Write(body)
	}
}

package server

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"
	"time"
)

//go:embed openapi.yaml
var openAPIDoc []byte

// openAPIModTime is the process start, the document is embedded at build time
var openAPIModTime = time.Now()

var redocTemplate = template.Must(template.New("redoc").Parse(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>{{ .Title }}</title>
  </head>
  <body>
    <redoc spec-url="{{ .SpecURL }}"></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
  </body>
</html>`))

// OpenAPI serves the embedded API description, honoring conditional requests
func (s *Server) OpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")

	http.ServeContent(w, r, "openapi.yaml", openAPIModTime, bytes.NewReader(openAPIDoc))
}

// Redoc serves the rendered API documentation
func (s *Server) Redoc(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer

	err := redocTemplate.Execute(&buf, map[string]string{
		"Title":   "ptax API",
		"SpecURL": "/openapi.yaml",
	})
	if err != nil {
		http.Error(w, "unable to render docs", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	_, _ = w.Write(buf.Bytes()) //nolint:errcheck // Fine to ignore
}

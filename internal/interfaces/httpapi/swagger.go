package httpapi

import (
	"bytes"
	_ "embed"
	"net/http"
	"strings"
	"time"
)

const openAPIPath = "/openapi.yaml"

//go:embed openapi.yaml
var openAPIDocument []byte

// Served with ServeContent so HEAD and conditional requests work.
var openAPIModTime = time.Now().UTC()

func (h *Handler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	_, span := handlerSpan(r, "OpenAPI")
	defer span.End()

	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	http.ServeContent(w, r, "openapi.yaml", openAPIModTime, bytes.NewReader(openAPIDocument))
}

func (h *Handler) SwaggerUI(w http.ResponseWriter, r *http.Request) {
	_, span := handlerSpan(r, "SwaggerUI")
	defer span.End()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(docsPage)
}

var docsPage = []byte(strings.NewReplacer(
	"{{title}}", "Matchcast API Docs",
	"{{openapi}}", openAPIPath,
).Replace(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>{{title}}</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '{{openapi}}',
        dom_id: '#swagger-ui',
        tryItOutEnabled: true,
        supportedSubmitMethods: ['get'],
      });
    </script>
  </body>
</html>`))

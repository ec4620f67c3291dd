package server

import (
	"html/template"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"
)

type pageData struct {
	Title string
	ID    string
	Nodes int
	SVG   template.HTML
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { margin: 0; font-family: sans-serif; background: #fff; }
  header { padding: 8px 16px; color: #666; font-size: 13px; border-bottom: 1px solid #eee; }
  .node { cursor: pointer; }
</style>
</head>
<body>
<header>{{.Title}} &middot; {{.Nodes}} nodes &middot; <a href="/maps/{{.ID}}/json">json</a> <a href="/maps/{{.ID}}/png">png</a></header>
<main>{{.SVG}}</main>
</body>
</html>
`))

func pageTitle(name string) string {
	if name == "" {
		return "Untitled map"
	}
	return name
}

// requestLogger logs one line per request at debug level, or info for errors.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).Round(time.Microsecond),
			}
			if id := middleware.GetReqID(r.Context()); id != "" {
				fields = append(fields, "request_id", id)
			}
			if ww.Status() >= http.StatusBadRequest {
				logger.Info("request", fields...)
				return
			}
			logger.Debug("request", fields...)
		})
	}
}

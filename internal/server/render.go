package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"farmledger.dev/farmledger/internal/auth"
	"farmledger.dev/farmledger/internal/views"
	"farmledger.dev/farmledger/pkg/metrics"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// pageData is the payload every page template renders from.
type pageData struct {
	Title     string
	Identity  *auth.Identity
	Flashes   []auth.Flash
	Nav       []views.Descriptor
	AuthError string

	// Entity list pages
	Desc    views.Descriptor
	Records []map[string]any
	Query   string

	// Dashboard
	Stats         []statCard
	UpcomingTasks []map[string]any
}

// statCard is one dashboard count tile.
type statCard struct {
	Title string
	Count int64
	Path  string
	Icon  string
}

// renderer holds the parsed page templates. Each page is parsed
// together with the shared layout so a page can only ever render
// inside the shell.
type renderer struct {
	pages   map[string]*template.Template
	metrics *metrics.HTTPMetrics
}

var templateFuncs = template.FuncMap{
	"cell": formatCell,
}

func newRenderer() (*renderer, error) {
	names := []string{"login", "dashboard", "entity", "notfound"}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t, err := template.New("layout.tmpl").Funcs(templateFuncs).ParseFS(
			templatesFS,
			"templates/layout.tmpl",
			"templates/"+name+".tmpl",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = t
	}

	return &renderer{pages: pages}, nil
}

// render executes a page into a buffer first so a template error can
// still produce a clean 500 instead of a half-written page.
func (rd *renderer) render(w http.ResponseWriter, name string, status int, data *pageData) error {
	t, ok := rd.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	var timer *prometheus.Timer
	if rd.metrics != nil {
		timer = prometheus.NewTimer(rd.metrics.TemplateRenderTime.WithLabelValues(name))
	}

	var buf bytes.Buffer
	err := t.ExecuteTemplate(&buf, "layout", data)

	if timer != nil {
		timer.ObserveDuration()
	}
	if err != nil {
		if rd.metrics != nil {
			rd.metrics.TemplateRenderErrors.WithLabelValues(name).Inc()
		}
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// formatCell renders one table cell value from a JSON-shaped record.
func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return "—"
	case string:
		// Timestamps arrive as RFC 3339 strings; show the date part.
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			return ts.Format("2006-01-02")
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

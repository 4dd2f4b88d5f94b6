package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Smithk0/job-fr/internal/admin"
	"github.com/Smithk0/job-fr/internal/markdown"
	"github.com/Smithk0/job-fr/internal/types"
	"github.com/dustin/go-humanize"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages lists the templates rendered inside layout.html.
var pages = []string{"home", "job", "apply", "admin", "post", "error"}

// renderMarkdown converts a job description to HTML safe for embedding.
func renderMarkdown(src string) template.HTML {
	out, err := markdown.HTML(src)
	if err != nil {
		log.Printf("[render] %v", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(out) //nolint:gosec // raw HTML is omitted by the converter
}

var templateFuncs = template.FuncMap{
	"markdown": renderMarkdown,
	"join":     strings.Join,
	"jobTypes": types.JobTypes,
	"maxResume": func() string {
		return humanize.IBytes(uint64(types.MaxResumeSize))
	},
	"fieldError": func(fe types.FieldErrors, field string) string {
		return fe[field]
	},
	"year": func() int { return time.Now().Year() },
	"jobFields": func(form admin.JobForm, errs types.FieldErrors) jobFormView {
		return jobFormView{Form: form, Errors: errs}
	},
}

// jobFormView feeds the shared job fields partial.
type jobFormView struct {
	Form   admin.JobForm
	Errors types.FieldErrors
}

// renderer holds one parsed template set per page.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	r := &renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html", "templates/jobform.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// page holds the fields every page template reads.
type page struct {
	Title     string
	Flash     string
	RequestID string
}

// render executes a page into a buffer first so a template error produces a
// clean 500 instead of a half-written page.
func (r *renderer) render(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.pages[name]
	if !ok {
		log.Printf("[render] unknown template %q", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("[render] failed to execute %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[render] failed to write %s: %v", name, err)
	}
}

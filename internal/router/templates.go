package router

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/GustavoCaso/bookcatalog/internal/profile"
	"github.com/GustavoCaso/bookcatalog/internal/util"
)

//go:embed templates
var templatesFS embed.FS

const layoutTemplate = "layout.html"

var pageTemplates = []string{
	"pages/products/index.html",
	"pages/products/detail.html",
	"pages/auth/signin.html",
	"pages/auth/signup.html",
	"pages/profile/index.html",
	"pages/errors/not_found.html",
}

var templateFuncs = template.FuncMap{
	"formatPrice":  util.FormatPrice,
	"formatRating": util.FormatRating,
	"countryName":  profile.CountryName,
}

type templates struct {
	pages map[string]*template.Template
}

func localFSDirectory() (fs.FS, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return nil, fmt.Errorf("unable to get current directory %s", filename)
	}

	return os.DirFS(filepath.Join(filepath.Dir(filename), "templates")), nil
}

func embeddedFS() fs.FS {
	subTemplateFS, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}

	return subTemplateFS
}

func parseTemplates(fsys fs.FS) (*templates, error) {
	base, err := template.New(layoutTemplate).Funcs(templateFuncs).ParseFS(fsys, layoutTemplate, "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageTemplates))
	for _, page := range pageTemplates {
		clone, cloneErr := base.Clone()
		if cloneErr != nil {
			return nil, cloneErr
		}

		t, parseErr := clone.ParseFS(fsys, page)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page, parseErr)
		}

		pages[page] = t
	}

	return &templates{pages: pages}, nil
}

func (router *router) parseTemplates() error {
	fsys := embeddedFS()

	if router.reload {
		local, err := localFSDirectory()
		if err != nil {
			router.logger.Warn("Defaulting to embedded templates", "error", err.Error())
		} else {
			fsys = local
		}
	}

	parsed, err := parseTemplates(fsys)
	if err != nil {
		return err
	}

	router.templatesMu.Lock()
	router.templates = parsed
	router.templatesMu.Unlock()

	return nil
}

func (router *router) render(w http.ResponseWriter, name string, data any) {
	router.renderStatus(w, http.StatusOK, name, data)
}

// renderStatus executes the page into a buffer first so a template error
// still produces a clean 500 response.
func (router *router) renderStatus(w http.ResponseWriter, status int, name string, data any) {
	router.templatesMu.RLock()
	t, ok := router.templates.pages[name]
	router.templatesMu.RUnlock()

	if !ok {
		router.logger.Error("Unknown template", "template", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layoutTemplate, data); err != nil {
		router.logger.Error("Failed to render template", "template", name, "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		router.logger.Error("Failed to write response", "template", name, "error", err.Error())
	}
}

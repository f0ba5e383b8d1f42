// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/tomtom215/atelier/internal/logging"
	"github.com/tomtom215/atelier/internal/models"
	"github.com/tomtom215/atelier/internal/pages"
	"github.com/tomtom215/atelier/internal/session"
	"github.com/tomtom215/atelier/internal/storefront"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names.
const (
	tmplIndex     = "index.html"
	tmplAnalytics = "analytics.html"
	tmplError     = "error.html"
)

var templateFuncs = template.FuncMap{
	"percent": func(v float64) string { return fmt.Sprintf("%.1f", v) },
}

// Templates holds one parsed set per page, each with the shared layout and
// header/footer partials.
type Templates struct {
	pages map[string]*template.Template
}

// ParseTemplates parses the embedded templates.
func ParseTemplates() (*Templates, error) {
	t := &Templates{pages: make(map[string]*template.Template)}
	for _, name := range []string{tmplIndex, tmplAnalytics, tmplError} {
		pt, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html", "templates/partials.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		t.pages[name] = pt
	}
	return t, nil
}

// Render executes page into a buffer first so a template error never
// leaves a half-written response.
func (t *Templates) Render(w http.ResponseWriter, r *http.Request, status int, page string, data interface{}) {
	pt, ok := t.pages[page]
	if !ok {
		logging.Ctx(r.Context()).Error().Str("template", page).Msg("Unknown template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := pt.ExecuteTemplate(&buf, "layout", data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("template", page).Msg("Template execution failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write page")
	}
}

// Navigation targets highlighted in the header.
const (
	navAtelier   = "atelier"
	navAnalytics = "analytics"
)

// layoutData is what the layout and partials read.
type layoutData struct {
	Title        string
	Active       string
	ScrollLocked bool
}

type indexView struct {
	layoutData
	Prompt  string
	Loading bool
	Error   string
	Cards   []cardView
}

type imageView struct {
	Index  int
	URL    string
	Active bool
}

// cardView flattens a storefront.Card, including its modal, for the grid.
type cardView struct {
	Index       int
	Title       string
	Brand       string
	Description string
	Image       string
	PriceLabel  string
	PriceText   string
	Open        bool
	Current     string
	Carousel    bool
	Counter     string
	Images      []imageView
	Attributes  []models.Attribute
	Color       string
}

type analyticsView struct {
	layoutData
	pages.AnalyticsPage
}

type errorView struct {
	layoutData
	Status  int
	Message string
}

func newIndexView(st *session.State) indexView {
	page := st.Recommendation
	v := indexView{
		layoutData: layoutData{
			Title:        "My Atelier",
			Active:       navAtelier,
			ScrollLocked: st.ScrollLock.Locked(),
		},
		Prompt:  page.Prompt,
		Loading: page.Loading,
		Error:   page.Error,
		Cards:   make([]cardView, len(page.Cards)),
	}
	for i := range page.Cards {
		v.Cards[i] = newCardView(i, &page.Cards[i])
	}
	return v
}

func newCardView(i int, c *storefront.Card) cardView {
	m := &c.Modal
	v := cardView{
		Index:       i,
		Title:       c.Title(),
		Brand:       c.Product.Brand,
		Description: c.Product.GeneratedDescription,
		Image:       c.Image,
		PriceLabel:  c.PriceLabel,
		PriceText:   c.PriceText(),
		Open:        c.DetailsOpen,
		Current:     m.CurrentImage(),
		Carousel:    m.Carousel.Enabled(),
		Attributes:  c.Product.Attributes(),
	}
	if v.Carousel {
		v.Counter = m.Carousel.Position()
		v.Images = make([]imageView, len(m.Images))
		for j, url := range m.Images {
			v.Images[j] = imageView{Index: j, URL: url, Active: j == m.Carousel.Index}
		}
	}
	if c.Product.HasColor() {
		v.Color = c.Product.Color
	}
	return v
}

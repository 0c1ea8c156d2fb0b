package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Kind selects which view a page renders.
type Kind string

const (
	KindAllocation Kind = "alloc"
	KindLanding    Kind = "landing"
)

// Page is the template model shared by both views.
type Page struct {
	Kind        Kind
	Title       string
	GoalText    string
	ForceMobile bool
	Rows        []Row
	Error       string
	Empty       bool
}

// AllocLink is the landing page's link to the allocation view.
func (p Page) AllocLink() string {
	if p.ForceMobile {
		return "?view=alloc&viewport=mobile"
	}
	return "?view=alloc"
}

// EmptyMessage exposes the empty-state text to templates.
func (p Page) EmptyMessage() string {
	return EmptyMessage
}

// LandingPage builds the model for the default view.
func LandingPage(opts Options, forceMobile bool) Page {
	return Page{
		Kind:        KindLanding,
		Title:       opts.Title,
		GoalText:    opts.GoalText(),
		ForceMobile: forceMobile,
	}
}

// Render writes the full HTML document for p.
func Render(w io.Writer, p Page) error {
	if err := templates.ExecuteTemplate(w, "layout.html", p); err != nil {
		return fmt.Errorf("failed to render %s view: %w", p.Kind, err)
	}
	return nil
}

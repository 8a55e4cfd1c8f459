package rendering

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/jonathan/portfolio/internal/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed shell.html
var defaultShell string

// DefaultShell returns the built-in page shell carrying every mount point
func DefaultShell() string {
	return defaultShell
}

// funcMap is shared by the built-in and user-supplied fragment templates
var funcMap = template.FuncMap{
	"text":     Text,
	"join":     Join,
	"markdown": markdownFunc,
}

// Fragments holds the template functions, one per page section. Each maps a
// content slice to a markup fragment and has no other effect. Interpolation
// is text/template's: Markup values go in verbatim, plain strings go
// through the text function.
type Fragments struct {
	tmpl *template.Template
}

var defaultFragments = &Fragments{
	tmpl: template.Must(template.New("fragments").Funcs(funcMap).ParseFS(templateFS, "templates/*.tmpl")),
}

// DefaultFragments returns the built-in fragment templates
func DefaultFragments() *Fragments {
	return defaultFragments
}

// LoadFragments parses *.tmpl files from dir on top of the built-in set, so a
// directory only has to redefine the fragments it wants to change.
func LoadFragments(dir string) (*Fragments, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{
				Message: fmt.Sprintf("template directory not found: %s", dir),
				Cause:   err,
			}
		}
		return nil, &TemplateError{Message: "failed to stat template directory", Cause: err}
	}
	if !info.IsDir() {
		return nil, &TemplateError{Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	base, err := defaultFragments.tmpl.Clone()
	if err != nil {
		return nil, &TemplateError{Message: "failed to clone built-in templates", Cause: err}
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmpl"))
	if err != nil {
		return nil, &TemplateError{Message: "failed to list templates", Cause: err}
	}
	if len(matches) == 0 {
		return &Fragments{tmpl: base}, nil
	}

	tmpl, err := base.ParseFiles(matches...)
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse templates", Cause: err}
	}
	return &Fragments{tmpl: tmpl}, nil
}

func (f *Fragments) execute(name string, data any) (types.Markup, error) {
	var sb strings.Builder
	if err := f.tmpl.ExecuteTemplate(&sb, name, data); err != nil {
		return "", &TemplateError{
			Message: fmt.Sprintf("failed to execute %q", name),
			Cause:   err,
		}
	}
	return types.Markup(sb.String()), nil
}

// Logo renders the navigation logo image
func (f *Fragments) Logo(s *types.Site) (types.Markup, error) {
	return f.execute("logo", s)
}

// Hero renders the hero section body
func (f *Fragments) Hero(h *types.Hero) (types.Markup, error) {
	return f.execute("hero", h)
}

// CTA renders a single hero call-to-action link
func (f *Fragments) CTA(b types.CTAButton) (types.Markup, error) {
	return f.execute("cta", b)
}

// About renders the about section body
func (f *Fragments) About(a *types.About) (types.Markup, error) {
	return f.execute("about", a)
}

// Skills renders the skills section body
func (f *Fragments) Skills(s *types.Skills) (types.Markup, error) {
	return f.execute("skills", s)
}

// Employment renders one card per company
func (f *Fragments) Employment(e *types.Employment) (types.Markup, error) {
	return f.execute("employment", e)
}

// Education renders one card per entry
func (f *Fragments) Education(entries []types.Education) (types.Markup, error) {
	return f.execute("education", entries)
}

// Projects renders one carousel card per project
func (f *Fragments) Projects(projects []types.Project) (types.Markup, error) {
	return f.execute("projects", projects)
}

// ContactLinks renders the outbound contact links
func (f *Fragments) ContactLinks(links []types.ContactLink) (types.Markup, error) {
	return f.execute("contact-links", links)
}

package rendering

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/portfolio/internal/dom"
	"github.com/jonathan/portfolio/internal/types"
)

// Section renders one part of the page into its mount point. Applying a
// section replaces the mount's contents, so applying it twice yields the
// same document as applying it once.
type Section struct {
	Name string
	// Mount is the selector the section writes into. Sections that touch
	// several optional nodes leave it empty and report a missing mount only
	// when none of them exist.
	Mount string
	// probe is inspected instead of Mount when Mount is empty.
	probe  string
	render func(doc *dom.Document, mount *goquery.Selection, p *types.Portfolio) error
}

// Apply renders the section. It returns an error wrapping ErrMountMissing
// when the mount point is absent.
func (s Section) Apply(doc *dom.Document, p *types.Portfolio) error {
	var mount *goquery.Selection
	if s.Mount != "" {
		var ok bool
		mount, ok = doc.Query(s.Mount)
		if !ok {
			return mountMissing(s.Name, s.Mount)
		}
	}
	if err := s.render(doc, mount, p); err != nil {
		var re *RenderError
		if errors.As(err, &re) {
			return err
		}
		return &RenderError{Section: s.Name, Message: "failed to render", Cause: err}
	}
	return nil
}

// Renderer binds the section list to a set of fragment templates
type Renderer struct {
	fragments *Fragments
}

// NewRenderer returns a Renderer; nil fragments selects the built-in templates
func NewRenderer(f *Fragments) *Renderer {
	if f == nil {
		f = DefaultFragments()
	}
	return &Renderer{fragments: f}
}

// Sections returns the page sections in render order
func (r *Renderer) Sections() []Section {
	return []Section{
		{Name: "meta", probe: "head title", render: r.renderMeta},
		{Name: "nav", probe: ".logo", render: r.renderNav},
		{Name: "hero", Mount: "#hero", render: r.renderHero},
		{Name: "about", Mount: "#about .container", render: r.renderAbout},
		{Name: "skills", Mount: "#skills .container", render: r.renderSkills},
		{Name: "employment", Mount: "#employment .emp-list", render: r.renderEmployment},
		{Name: "education", Mount: "#educationGrid", render: r.renderEducation},
		{Name: "projects", Mount: "#projectGrid", render: r.renderProjects},
		{Name: "contact", probe: ".contact-links", render: r.renderContact},
	}
}

// Section looks up a section by name
func (r *Renderer) Section(name string) (Section, bool) {
	for _, s := range r.Sections() {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// MountStatus describes a section's mount point in a rendered page
type MountStatus struct {
	Section   string
	Selector  string
	Present   bool
	Populated bool
}

// Inspect reports, per section, whether its mount point exists and has content
func (r *Renderer) Inspect(doc *dom.Document) []MountStatus {
	sections := r.Sections()
	out := make([]MountStatus, 0, len(sections))
	for _, s := range sections {
		selector := s.Mount
		if selector == "" {
			selector = s.probe
		}
		st := MountStatus{Section: s.Name, Selector: selector}
		if sel, ok := doc.Query(selector); ok {
			st.Present = true
			st.Populated = sel.Children().Length() > 0 || strings.TrimSpace(sel.Text()) != ""
		}
		out = append(out, st)
	}
	return out
}

func (r *Renderer) renderMeta(doc *dom.Document, _ *goquery.Selection, p *types.Portfolio) error {
	if _, ok := doc.Query("head"); !ok {
		return mountMissing("meta", "head")
	}
	doc.SetTitle(p.Site.Title)
	return nil
}

func (r *Renderer) renderNav(doc *dom.Document, _ *goquery.Selection, p *types.Portfolio) error {
	logo, hasLogo := doc.Query(".logo")
	footer, hasFooter := doc.Query(".footer-text")
	if !hasLogo && !hasFooter {
		return mountMissing("nav", ".logo, .footer-text")
	}

	if hasLogo {
		markup, err := r.fragments.Logo(p.Site)
		if err != nil {
			return err
		}
		doc.SetInnerHTML(logo, string(markup))
	}
	if hasFooter {
		doc.SetText(footer, p.Site.FooterText)
	}
	return nil
}

func (r *Renderer) renderHero(doc *dom.Document, mount *goquery.Selection, p *types.Portfolio) error {
	markup, err := r.fragments.Hero(p.Hero)
	if err != nil {
		return err
	}
	doc.SetInnerHTML(mount, string(markup))
	return nil
}

func (r *Renderer) renderAbout(doc *dom.Document, mount *goquery.Selection, p *types.Portfolio) error {
	markup, err := r.fragments.About(p.About)
	if err != nil {
		return err
	}
	doc.SetInnerHTML(mount, string(markup))
	return nil
}

func (r *Renderer) renderSkills(doc *dom.Document, mount *goquery.Selection, p *types.Portfolio) error {
	markup, err := r.fragments.Skills(p.Skills)
	if err != nil {
		return err
	}
	doc.SetInnerHTML(mount, string(markup))
	return nil
}

func (r *Renderer) renderEmployment(doc *dom.Document, mount *goquery.Selection, p *types.Portfolio) error {
	if subtitle, ok := doc.Query("#employment .emp-header p"); ok {
		doc.SetText(subtitle, p.Employment.SectionSubtitle)
	}
	markup, err := r.fragments.Employment(p.Employment)
	if err != nil {
		return err
	}
	doc.SetInnerHTML(mount, string(markup))
	return nil
}

func (r *Renderer) renderEducation(doc *dom.Document, mount *goquery.Selection, p *types.Portfolio) error {
	markup, err := r.fragments.Education(p.Education)
	if err != nil {
		return err
	}
	doc.SetInnerHTML(mount, string(markup))
	return nil
}

func (r *Renderer) renderProjects(doc *dom.Document, mount *goquery.Selection, p *types.Portfolio) error {
	markup, err := r.fragments.Projects(p.Projects)
	if err != nil {
		return err
	}
	doc.SetInnerHTML(mount, string(markup))
	return nil
}

func (r *Renderer) renderContact(doc *dom.Document, _ *goquery.Selection, p *types.Portfolio) error {
	content, hasContent := doc.Query(".contact-content")
	key, hasKey := doc.Query(`input[name="access_key"]`)
	if !hasContent && !hasKey {
		return mountMissing("contact", `.contact-content, input[name="access_key"]`)
	}

	if hasContent {
		doc.SetText(content.Find("p").First(), p.Contact.Intro)
		markup, err := r.fragments.ContactLinks(p.Contact.Links)
		if err != nil {
			return err
		}
		doc.SetInnerHTML(content.Find(".contact-links").First(), string(markup))
	}
	if hasKey {
		dom.SetValue(key, p.Contact.Form.Web3FormsKey)
	}
	return nil
}

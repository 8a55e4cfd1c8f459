package rendering

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio/internal/dom"
	"github.com/jonathan/portfolio/internal/types"
)

func samplePortfolio() *types.Portfolio {
	return &types.Portfolio{
		Site: &types.Site{
			Title:      "Ada Lovelace",
			LogoImage:  "images/logo.png",
			LogoWidth:  200,
			LogoHeight: 30,
			FooterText: "© 2026 Ada Lovelace & co",
		},
		Hero: &types.Hero{
			Name:     "Ada Lovelace",
			Role:     "Lead Engineer",
			Photo:    "images/ada.jpg",
			PhotoAlt: "Ada",
			Subtitle: []types.Markup{"Builds engines.", "Writes <em>notes</em>."},
			CTAButtons: []types.CTAButton{
				{Label: "View My Work", Href: "#projects", Icon: "fa fa-arrow-right", Style: "primary"},
				{Label: "View Resume", Href: "assets/resume.pdf", Icon: "fa fa-file", Style: "secondary", Target: "_blank"},
			},
			SkillBadges: []types.Markup{"Go", "Analytical Engines"},
		},
		About: &types.About{
			Photo:      "images/about.jpg",
			PhotoAlt:   "About Ada",
			Paragraphs: []types.Markup{"First.", "Second."},
		},
		Skills: &types.Skills{
			SectionSubtitle: "Broad experience",
			Cards: []types.SkillCard{
				{FaIcon: "fa-solid fa-rocket", Title: "Product", Items: []types.Markup{"Plan", "Ship"}},
			},
			TechCategories: []types.TechCategory{
				{Title: "Languages", Tags: []types.Markup{"Go", "SQL"}},
			},
			Methodologies: []types.IconLabel{{FaIcon: "fa-solid fa-rotate", Label: "Agile"}},
			SoftSkills:    []types.IconLabel{{FaIcon: "fa-solid fa-users", Label: "Leadership"}},
		},
		Employment: &types.Employment{
			SectionSubtitle: "Where I worked",
			Companies: []types.Company{
				{
					Name: "Engines Ltd", Logo: "images/engines.png", LogoAlt: "Engines", Duration: "2025 - Present", IsCurrent: true,
					Roles: []types.Role{{Title: "Lead", Description: "Leads."}},
				},
				{
					Name: "Looms Inc", Logo: "images/looms.png", LogoAlt: "Looms", Duration: "2020 - 2024",
					Roles: []types.Role{{Title: "Senior", Description: "Wove."}, {Title: "Junior", Description: "Learned."}},
				},
			},
		},
		Education: []types.Education{
			{Image: "images/uni.jpg", ImageAlt: "Uni", Degree: "MEng", Institution: "University", Description: "Systems."},
		},
		Projects: []types.Project{
			{Image: "images/a.png", Title: "Alpha", Description: "First project.", Tags: []types.Markup{"Go"}, GithubURL: "https://github.com/ada/alpha"},
			{Image: "images/b.png", Title: "Beta", Description: "Second project.", Tags: []types.Markup{"Python", "ML"}},
			{Image: "images/c.png", Title: "Gamma", Description: "Third project."},
		},
		Contact: &types.Contact{
			Intro: `Say "hello" <anytime>.`,
			Links: []types.ContactLink{
				{Href: "mailto:ada@example.com", Icon: "fa-solid fa-envelope", Label: "Email Me"},
				{Href: "https://github.com/ada", Icon: "fa-brands fa-github", Label: "GitHub", Target: "_blank"},
			},
			Form: types.ContactForm{Web3FormsKey: "key-123"},
		},
	}
}

func newShell(t *testing.T) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(DefaultShell())
	require.NoError(t, err)
	return doc
}

func applyAll(t *testing.T, doc *dom.Document, p *types.Portfolio) {
	t.Helper()
	for _, s := range NewRenderer(nil).Sections() {
		require.NoError(t, s.Apply(doc, p), "section %s", s.Name)
	}
}

func TestSections_Order(t *testing.T) {
	var names []string
	for _, s := range NewRenderer(nil).Sections() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"meta", "nav", "hero", "about", "skills", "employment", "education", "projects", "contact"}, names)
}

func TestSections_RenderFullPage(t *testing.T) {
	doc := newShell(t)
	applyAll(t, doc, samplePortfolio())

	assert.Equal(t, "Ada Lovelace", doc.Title())
	assert.Equal(t, "images/logo.png", doc.Find(".logo img").AttrOr("src", ""))
	assert.Equal(t, "200", doc.Find(".logo img").AttrOr("width", ""))
	assert.Equal(t, "© 2026 Ada Lovelace & co", doc.Find(".footer-text").Text())
	assert.Equal(t, "Ada Lovelace", doc.Find("#hero .hero-title").Text())
	assert.Equal(t, 2, doc.Find("#about .about-text p").Length())
	assert.Equal(t, "Where I worked", doc.Find("#employment .emp-header p").Text())
	assert.Equal(t, 1, doc.Find("#educationGrid .education-card").Length())
	assert.Equal(t, `Say "hello" <anytime>.`, doc.Find(".contact-content > p").Text())
	assert.Equal(t, "key-123", doc.Find(`input[name="access_key"]`).AttrOr("value", ""))
}

func TestSections_SequencesKeepCountAndOrder(t *testing.T) {
	p := samplePortfolio()
	for i := 0; i < 4; i++ {
		p.Projects = append(p.Projects, types.Project{Title: types.Markup(fmt.Sprintf("Extra %d", i))})
	}
	doc := newShell(t)
	applyAll(t, doc, p)

	var titles []string
	doc.Find("#projectGrid .project-card h3").Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, s.Text())
	})
	require.Len(t, titles, len(p.Projects))
	for i, project := range p.Projects {
		assert.Equal(t, string(project.Title), titles[i])
	}

	var roles []string
	doc.Find(".emp-company-card").Eq(1).Find(".emp-role-title").Each(func(_ int, s *goquery.Selection) {
		roles = append(roles, s.Text())
	})
	assert.Equal(t, []string{"Senior", "Junior"}, roles)
}

func TestSections_EmptySequenceRendersEmptyFragment(t *testing.T) {
	p := samplePortfolio()
	p.Projects = []types.Project{}
	doc := newShell(t)
	applyAll(t, doc, p)

	assert.Equal(t, 0, doc.Find("#projectGrid").Children().Length())
}

func TestSections_Idempotent(t *testing.T) {
	p := samplePortfolio()
	once := newShell(t)
	applyAll(t, once, p)
	want, err := once.HTML()
	require.NoError(t, err)

	twice := newShell(t)
	applyAll(t, twice, p)
	applyAll(t, twice, p)
	got, err := twice.HTML()
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestSections_MissingMountIsSkipError(t *testing.T) {
	doc, err := dom.ParseString(`<html><head></head><body><section id="hero"></section></body></html>`)
	require.NoError(t, err)
	r := NewRenderer(nil)

	about, ok := r.Section("about")
	require.True(t, ok)
	err = about.Apply(doc, samplePortfolio())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMountMissing))

	hero, _ := r.Section("hero")
	assert.NoError(t, hero.Apply(doc, samplePortfolio()))

	nav, _ := r.Section("nav")
	assert.True(t, errors.Is(nav.Apply(doc, samplePortfolio()), ErrMountMissing))

	contact, _ := r.Section("contact")
	assert.True(t, errors.Is(contact.Apply(doc, samplePortfolio()), ErrMountMissing))
}

func TestSections_MissingSectionFailsThatSectionOnly(t *testing.T) {
	p := samplePortfolio()
	p.Hero = nil
	doc := newShell(t)
	r := NewRenderer(nil)

	hero, _ := r.Section("hero")
	err := hero.Apply(doc, p)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMountMissing))
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "hero", renderErr.Section)

	about, _ := r.Section("about")
	assert.NoError(t, about.Apply(doc, p))
}

func TestFragments_ProjectLinkOnlyWhenPresent(t *testing.T) {
	out, err := DefaultFragments().Projects(samplePortfolio().Projects)
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(string(out), `class="project-card"`))
	assert.Equal(t, 1, strings.Count(string(out), `class="github-link"`))
	assert.Contains(t, string(out), `href="https://github.com/ada/alpha"`)
}

func TestFragments_CTAConditionalAttributes(t *testing.T) {
	hero := samplePortfolio().Hero
	primary, err := DefaultFragments().CTA(hero.CTAButtons[0])
	require.NoError(t, err)
	assert.Contains(t, string(primary), `class="cta-btn"`)
	assert.NotContains(t, string(primary), "target=")

	secondary, err := DefaultFragments().CTA(hero.CTAButtons[1])
	require.NoError(t, err)
	assert.Contains(t, string(secondary), `class="cta-btn secondary"`)
	assert.Contains(t, string(secondary), `target="_blank"`)
}

func TestFragments_HeroSubtitleAndMarkup(t *testing.T) {
	out, err := DefaultFragments().Hero(samplePortfolio().Hero)
	require.NoError(t, err)

	assert.Contains(t, string(out), "Builds engines.<br>Writes <em>notes</em>.")
	assert.Equal(t, 2, strings.Count(string(out), `class="skill-badge"`))
	assert.Less(t, strings.Index(string(out), "View My Work"), strings.Index(string(out), "View Resume"))
}

func TestFragments_EmploymentCurrentBadge(t *testing.T) {
	out, err := DefaultFragments().Employment(samplePortfolio().Employment)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(string(out), `class="emp-company-card"`))
	assert.Equal(t, 1, strings.Count(string(out), `emp-current-badge`))
	assert.Equal(t, 3, strings.Count(string(out), `class="emp-role-item"`))
}

func TestFragments_PlainStringsAreEscaped(t *testing.T) {
	hero := samplePortfolio().Hero
	hero.Name = `Ada "<b>" Lovelace`
	out, err := DefaultFragments().Hero(hero)
	require.NoError(t, err)

	assert.Contains(t, string(out), "Ada &#34;&lt;b&gt;&#34; Lovelace")
}

func TestFragments_ContactLinksTarget(t *testing.T) {
	out, err := DefaultFragments().ContactLinks(samplePortfolio().Contact.Links)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(string(out), `class="contact-link"`))
	assert.Equal(t, 1, strings.Count(string(out), `target="_blank"`))
}

func TestLoadFragments_OverridesNamedTemplate(t *testing.T) {
	dir := t.TempDir()
	custom := `{{define "about"}}<p class="custom">{{range .Paragraphs}}{{.}}{{end}}</p>{{end}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "about.tmpl"), []byte(custom), 0o644))

	f, err := LoadFragments(dir)
	require.NoError(t, err)

	about, err := f.About(samplePortfolio().About)
	require.NoError(t, err)
	assert.Equal(t, `<p class="custom">First.Second.</p>`, string(about))

	hero, err := f.Hero(samplePortfolio().Hero)
	require.NoError(t, err)
	assert.Contains(t, string(hero), "hero-container")
}

func TestLoadFragments_MissingDirectory(t *testing.T) {
	_, err := LoadFragments("/nonexistent/templates")
	require.Error(t, err)
	var templateErr *TemplateError
	assert.ErrorAs(t, err, &templateErr)
	assert.Contains(t, err.Error(), "template directory not found")
}

func TestLoadFragments_InvalidTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.tmpl"), []byte(`{{define "x"}}{{.Oops{{}}{{end}}`), 0o644))

	_, err := LoadFragments(dir)
	var templateErr *TemplateError
	assert.ErrorAs(t, err, &templateErr)
}

func TestInspect_ReportsPopulatedMounts(t *testing.T) {
	doc := newShell(t)
	r := NewRenderer(nil)

	before := r.Inspect(doc)
	require.Len(t, before, len(r.Sections()))
	for _, st := range before {
		assert.True(t, st.Present, st.Section)
	}
	hero := before[2]
	assert.Equal(t, "hero", hero.Section)
	assert.False(t, hero.Populated)

	applyAll(t, doc, samplePortfolio())
	for _, st := range r.Inspect(doc) {
		assert.True(t, st.Populated, st.Section)
	}
}

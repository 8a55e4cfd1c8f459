// Package pipeline boots a portfolio page session: it renders the content into
// the page shell, binds the interactions and fires the visit beacon, running
// each step in isolation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/portfolio/internal/carousel"
	"github.com/jonathan/portfolio/internal/dom"
	"github.com/jonathan/portfolio/internal/navigation"
	"github.com/jonathan/portfolio/internal/notify"
	"github.com/jonathan/portfolio/internal/pipeline/steps"
	"github.com/jonathan/portfolio/internal/rendering"
	"github.com/jonathan/portfolio/internal/theme"
	"github.com/jonathan/portfolio/internal/types"
)

// ProgressEvent represents a progress update during boot
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
}

// ProgressCallback is called after every step
type ProgressCallback func(event ProgressEvent)

// Options holds everything a page session needs
type Options struct {
	// Shell is the page markup; empty selects the built-in shell.
	Shell     string
	Content   *types.Portfolio
	Fragments *rendering.Fragments
	Window    *dom.Window

	// LocalStore persists the theme preference; nil keeps it in memory.
	LocalStore theme.Store
	// Session holds the beacon marker; nil sends the beacon on every boot.
	Session notify.SessionStore

	Relay      notify.Submitter
	WebhookURL string
	HTTPClient *http.Client

	PageURL   string
	UserAgent string
	KeyScope  navigation.KeyScope

	Logger     *slog.Logger
	OnProgress ProgressCallback
	Now        func() time.Time
}

// Report lists the outcome of every boot step in order
type Report struct {
	Steps []steps.StepResult
}

// Step returns the result for name
func (r *Report) Step(name string) (steps.StepResult, bool) {
	for _, s := range r.Steps {
		if s.Step == name {
			return s, true
		}
	}
	return steps.StepResult{}, false
}

// Count returns how many steps ended with status
func (r *Report) Count(status string) int {
	n := 0
	for _, s := range r.Steps {
		if s.Status == status {
			n++
		}
	}
	return n
}

// Failed reports whether any step failed
func (r *Report) Failed() bool {
	return r.Count(steps.StatusFailed) > 0
}

// Page is a booted page session
type Page struct {
	Doc      *dom.Document
	Window   *dom.Window
	Theme    *theme.Controller
	Nav      *navigation.Controller
	Carousel *carousel.Controller
	Contact  *notify.ContactForm
	Beacon   *notify.Beacon
	Report   Report

	group        *errgroup.Group
	mu           sync.Mutex
	beaconResult notify.Result
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *Options, r steps.StepResult) {
	if opts.OnProgress == nil {
		return
	}
	ev := ProgressEvent{Step: r.Step, Category: r.Category, Status: r.Status}
	if r.Error != nil {
		ev.Message = r.Error.Error()
	}
	opts.OnProgress(ev)
}

// Boot parses the shell and runs every step in steps.BootOrder. A step that
// fails or panics is recorded in the report and later steps still run. Only
// an unparseable shell or missing content aborts the boot.
func Boot(ctx context.Context, opts Options) (*Page, error) {
	if opts.Content == nil {
		return nil, errors.New("no content to render")
	}
	if err := steps.ValidateOrder(steps.BootOrder); err != nil {
		return nil, fmt.Errorf("invalid boot order: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Window == nil {
		opts.Window = dom.NewWindow(1280, "light")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Shell == "" {
		opts.Shell = rendering.DefaultShell()
	}

	doc, err := dom.ParseString(opts.Shell)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page shell: %w", err)
	}

	page := &Page{
		Doc:    doc,
		Window: opts.Window,
		Theme:  theme.NewController(opts.LocalStore, opts.Window, opts.Logger),
		Beacon: notify.NewBeacon(opts.WebhookURL, opts.HTTPClient, notify.NewSessionMarker(opts.Session), opts.Logger),
	}
	page.Carousel = carousel.New(doc, opts.Window)
	page.Nav = navigation.New(doc, opts.Window, page.Carousel, opts.KeyScope)
	relay := opts.Relay
	if relay == nil {
		relay = notify.NewRelay("", opts.HTTPClient)
	}
	page.Contact = notify.NewContactForm(doc, relay, opts.Logger)
	page.group = new(errgroup.Group)

	stepFuncs := page.stepFuncs(&opts)
	for _, name := range steps.BootOrder {
		fn, ok := stepFuncs[name]
		if !ok {
			return nil, fmt.Errorf("no implementation for step %s", name)
		}
		result := steps.Execute(ctx, name, fn)
		switch result.Status {
		case steps.StatusFailed:
			opts.Logger.Warn("boot step failed", "step", name, "error", result.Error)
		case steps.StatusSkipped:
			opts.Logger.Debug("boot step skipped", "step", name, "reason", result.Error)
		}
		page.Report.Steps = append(page.Report.Steps, result)
		emitProgress(&opts, result)
	}
	return page, nil
}

func (p *Page) stepFuncs(opts *Options) map[string]steps.Func {
	funcs := map[string]steps.Func{
		"init_theme": func(context.Context) error {
			p.Theme.Init(p.Doc)
			return nil
		},
		"bind_navigation": func(context.Context) error {
			p.Nav.Bind()
			return nil
		},
		"bind_carousel": func(context.Context) error {
			if !p.Carousel.Bind() {
				return steps.Skip(fmt.Errorf("%s not found", carousel.StripSelector))
			}
			return nil
		},
		"bind_contact_form": func(ctx context.Context) error {
			if !p.Contact.Bind(ctx) {
				return steps.Skip(errors.New("#contactForm not found"))
			}
			return nil
		},
		"send_visit_beacon": func(ctx context.Context) error {
			return p.startBeacon(ctx, opts)
		},
	}

	renderer := rendering.NewRenderer(opts.Fragments)
	for _, section := range renderer.Sections() {
		section := section
		funcs[steps.RenderStep(section.Name)] = func(context.Context) error {
			err := section.Apply(p.Doc, opts.Content)
			if errors.Is(err, rendering.ErrMountMissing) {
				return steps.Skip(err)
			}
			return err
		}
	}
	return funcs
}

// startBeacon captures the visit on the calling goroutine and posts it in the
// background, so the DOM is never read concurrently.
func (p *Page) startBeacon(ctx context.Context, opts *Options) error {
	if !p.Beacon.Enabled() {
		return steps.Skip(errors.New("no webhook configured"))
	}
	visit := notify.Visit{
		Title:     p.Doc.Title(),
		URL:       opts.PageURL,
		UserAgent: opts.UserAgent,
		Time:      opts.Now(),
	}
	p.group.Go(func() error {
		res, err := p.Beacon.Send(ctx, visit)
		p.mu.Lock()
		p.beaconResult = res
		p.mu.Unlock()
		return err
	})
	return nil
}

// Wait blocks until background work started by the boot finishes and
// returns the beacon's transport error, if any.
func (p *Page) Wait() error {
	return p.group.Wait()
}

// BeaconResult reports what the beacon did; valid after Wait
func (p *Page) BeaconResult() notify.Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.beaconResult
}

// HTML serializes the current document
func (p *Page) HTML() (string, error) {
	return p.Doc.HTML()
}

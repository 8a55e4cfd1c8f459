// Package theme manages the light/dark preference of the page.
package theme

import (
	"fmt"
	"log/slog"

	"github.com/jonathan/portfolio/internal/dom"
)

// Theme is the page's visual mode
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// StorageKey is the persistent storage key holding the preference
const StorageKey = "portfolio-theme"

// Attribute is the <html> attribute the stylesheet keys off
const Attribute = "data-theme"

const (
	iconSun  = "fa-solid fa-sun"
	iconMoon = "fa-solid fa-moon"
)

// Parse converts a stored value to a Theme
func Parse(s string) (Theme, error) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

// Next returns the other theme
func Next(t Theme) Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// IconClass returns the indicator icon for t: the sun while dark, the moon while light
func IconClass(t Theme) string {
	if t == Dark {
		return iconSun
	}
	return iconMoon
}

// Store is the persistent key-value storage the preference lives in
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// ColorScheme is the platform's ambient color-scheme signal
type ColorScheme interface {
	PrefersDark() bool
}

// Controller owns the current theme. Storage failures are logged and
// otherwise ignored; the controller keeps working from memory.
type Controller struct {
	store   Store
	scheme  ColorScheme
	logger  *slog.Logger
	current Theme
}

// NewController creates a controller. store may be nil for memory-only use.
func NewController(store Store, scheme ColorScheme, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{store: store, scheme: scheme, logger: logger}
}

// Current returns the theme last applied
func (c *Controller) Current() Theme { return c.current }

// Resolve picks the initial theme: the stored preference when it can be read,
// otherwise the platform signal.
func (c *Controller) Resolve() Theme {
	if stored, ok := c.stored(); ok {
		return stored
	}
	if c.scheme != nil && c.scheme.PrefersDark() {
		return Dark
	}
	return Light
}

func (c *Controller) stored() (Theme, bool) {
	if c.store == nil {
		return "", false
	}
	v, ok, err := c.store.Get(StorageKey)
	if err != nil {
		c.logger.Debug("theme: stored preference unreadable", "error", err)
		return "", false
	}
	if !ok {
		return "", false
	}
	t, err := Parse(v)
	if err != nil {
		c.logger.Debug("theme: ignoring stored preference", "value", v, "error", err)
		return "", false
	}
	return t, true
}

// Apply enters t: sets the document attribute, swaps the indicator icon and
// persists the choice.
func (c *Controller) Apply(doc *dom.Document, t Theme) {
	c.current = t
	if doc != nil {
		doc.Root().SetAttr(Attribute, string(t))
		if icon, ok := doc.Query("#themeIcon"); ok {
			icon.SetAttr("class", IconClass(t))
		}
	}
	if c.store != nil {
		if err := c.store.Set(StorageKey, string(t)); err != nil {
			c.logger.Debug("theme: could not persist preference", "theme", t, "error", err)
		}
	}
}

// Toggle applies the other theme and returns it
func (c *Controller) Toggle(doc *dom.Document) Theme {
	next := Next(c.current)
	c.Apply(doc, next)
	return next
}

// Bind attaches Toggle to clicks on #themeToggle. It reports whether the
// control exists.
func (c *Controller) Bind(doc *dom.Document) bool {
	toggle, ok := doc.Query("#themeToggle")
	if !ok {
		return false
	}
	doc.On(toggle, dom.EventClick, func(*dom.Event) {
		c.Toggle(doc)
	})
	return true
}

// Init resolves and applies the initial theme, then binds the toggle control
func (c *Controller) Init(doc *dom.Document) Theme {
	t := c.Resolve()
	c.Apply(doc, t)
	c.Bind(doc)
	return t
}

// Package navigation wires in-page anchors, the collapsible menu and arrow-key
// carousel control.
package navigation

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/jonathan/portfolio/internal/carousel"
	"github.com/jonathan/portfolio/internal/dom"
)

// KeyScope decides when arrow keys drive the carousel
type KeyScope string

const (
	// KeyScopeGlobal captures arrow keys everywhere on the page
	KeyScopeGlobal KeyScope = "global"
	// KeyScopeOutsideTextInput ignores arrow keys while a text control has focus
	KeyScopeOutsideTextInput KeyScope = "outside-text-input"
)

// ParseKeyScope accepts the KeyScope names; empty selects the default
func ParseKeyScope(s string) (KeyScope, error) {
	switch KeyScope(s) {
	case "":
		return KeyScopeOutsideTextInput, nil
	case KeyScopeGlobal, KeyScopeOutsideTextInput:
		return KeyScope(s), nil
	default:
		return "", fmt.Errorf("unknown key scope %q", s)
	}
}

// MenuState is the state of the collapsible menu
type MenuState string

const (
	Collapsed MenuState = "collapsed"
	Expanded  MenuState = "expanded"
)

const activeClass = "active"

// Scroller moves the carousel
type Scroller interface {
	Scroll(dir carousel.Direction)
}

// Controller handles navigation for one document
type Controller struct {
	doc      *dom.Document
	window   *dom.Window
	carousel Scroller
	scope    KeyScope
	menu     MenuState
}

// New returns a controller. carousel may be nil, in which case arrow keys are
// not captured.
func New(doc *dom.Document, window *dom.Window, carousel Scroller, scope KeyScope) *Controller {
	if scope == "" {
		scope = KeyScopeOutsideTextInput
	}
	return &Controller{
		doc:      doc,
		window:   window,
		carousel: carousel,
		scope:    scope,
		menu:     Collapsed,
	}
}

// Menu returns the current menu state
func (c *Controller) Menu() MenuState { return c.menu }

// ToggleMenu flips the menu between collapsed and expanded
func (c *Controller) ToggleMenu() MenuState {
	if c.menu == Expanded {
		c.setMenu(Collapsed)
	} else {
		c.setMenu(Expanded)
	}
	return c.menu
}

// CollapseMenu collapses the menu
func (c *Controller) CollapseMenu() {
	c.setMenu(Collapsed)
}

func (c *Controller) setMenu(state MenuState) {
	c.menu = state
	for _, sel := range []string{"#hamburger", "#navMenu"} {
		s, ok := c.doc.Query(sel)
		if !ok {
			continue
		}
		if state == Expanded {
			s.AddClass(activeClass)
		} else {
			s.RemoveClass(activeClass)
		}
	}
}

// ScrollTo smooth-scrolls the element matched by an in-page href into view.
// It reports whether a target was found.
func (c *Controller) ScrollTo(href string) bool {
	if !strings.HasPrefix(href, "#") || len(href) < 2 {
		return false
	}
	target, ok := c.doc.Query(href)
	if !ok {
		return false
	}
	c.window.ScrollIntoView(target.Nodes[0], dom.ScrollSmooth, "start")
	return true
}

// HandleKey maps ArrowLeft and ArrowRight to carousel steps under the
// configured scope. It reports whether the key was consumed.
func (c *Controller) HandleKey(key string) bool {
	if c.carousel == nil {
		return false
	}
	if c.scope == KeyScopeOutsideTextInput && c.doc.TextInputFocused() {
		return false
	}
	switch key {
	case "ArrowLeft":
		c.carousel.Scroll(carousel.Left)
	case "ArrowRight":
		c.carousel.Scroll(carousel.Right)
	default:
		return false
	}
	return true
}

// Bind attaches every navigation listener to the document
func (c *Controller) Bind() {
	for _, n := range c.doc.Find(`a[href^="#"]`).Nodes {
		a := c.doc.Wrap(n)
		href := a.AttrOr("href", "")
		c.doc.On(a, dom.EventClick, func(ev *dom.Event) {
			ev.PreventDefault()
			c.ScrollTo(href)
		})
	}

	if hamburger, ok := c.doc.Query("#hamburger"); ok {
		c.doc.On(hamburger, dom.EventClick, func(*dom.Event) {
			c.ToggleMenu()
		})
	}

	c.doc.On(c.doc.Find("nav ul li a"), dom.EventClick, func(*dom.Event) {
		c.CollapseMenu()
	})

	c.doc.OnDocument(dom.EventClick, func(ev *dom.Event) {
		if !insideNav(ev.Target) {
			c.CollapseMenu()
		}
	})

	c.doc.OnDocument(dom.EventKeyDown, func(ev *dom.Event) {
		c.HandleKey(ev.Key)
	})
}

func insideNav(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && n.Data == "nav" {
			return true
		}
	}
	return false
}

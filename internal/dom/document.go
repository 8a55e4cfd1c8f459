// Package dom provides the headless page document the portfolio renders into.
//
// A Document wraps a goquery tree and adds what a browser page has beyond
// markup: event listeners bound to concrete nodes, a focused element, and
// innerHTML-style subtree replacement that drops listeners with the nodes
// they were bound to.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Event types dispatched by the page
const (
	EventClick      = "click"
	EventKeyDown    = "keydown"
	EventTouchStart = "touchstart"
	EventTouchEnd   = "touchend"
	EventSubmit     = "submit"
)

// Event is a DOM event travelling from its target up to the document
type Event struct {
	Type    string
	Target  *html.Node
	Key     string  // keydown only
	ScreenX float64 // touch events only

	defaultPrevented bool
	stopped          bool
}

// PreventDefault suppresses the browser default action for the event
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a handler called PreventDefault
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation keeps the event from reaching ancestors and the document
func (e *Event) StopPropagation() { e.stopped = true }

// Handler handles a dispatched event
type Handler func(ev *Event)

// Document is a parsed page with listeners and focus state.
// It is not safe for concurrent use; the page runs on a single goroutine.
type Document struct {
	doc       *goquery.Document
	listeners map[*html.Node]map[string][]Handler
	global    map[string][]Handler
	active    *html.Node
}

// Parse reads an HTML document
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{
		doc:       doc,
		listeners: make(map[*html.Node]map[string][]Handler),
		global:    make(map[string][]Handler),
	}, nil
}

// ParseString reads an HTML document from a string
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Find returns every element matching the CSS selector
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Query returns the first element matching the selector and whether one exists
func (d *Document) Query(selector string) (*goquery.Selection, bool) {
	sel := d.doc.Find(selector).First()
	return sel, sel.Length() > 0
}

// Root returns the <html> element
func (d *Document) Root() *goquery.Selection {
	return d.doc.Find("html").First()
}

// Wrap returns a selection for n when n is attached to the document
func (d *Document) Wrap(n *html.Node) *goquery.Selection {
	if n == nil {
		return d.doc.FindNodes()
	}
	return d.doc.FindNodes(n)
}

// Title returns the document title
func (d *Document) Title() string {
	return d.doc.Find("head title").First().Text()
}

// SetTitle sets the document title, creating <title> if the head has none
func (d *Document) SetTitle(title string) {
	t := d.doc.Find("head title").First()
	if t.Length() == 0 {
		head := d.doc.Find("head").First()
		if head.Length() == 0 {
			return
		}
		head.AppendHtml("<title></title>")
		t = head.Find("title").First()
	}
	t.SetText(title)
}

// SetInnerHTML replaces the children of every element in sel with markup.
// Listeners bound to the replaced nodes are discarded along with them.
func (d *Document) SetInnerHTML(sel *goquery.Selection, markup string) {
	sel.Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			d.forgetSubtree(n, false)
		}
		s.SetHtml(markup)
	})
}

// SetText replaces the children of every element in sel with a text node
func (d *Document) SetText(sel *goquery.Selection, text string) {
	sel.Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			d.forgetSubtree(n, false)
		}
		s.SetText(text)
	})
}

// forgetSubtree drops listeners on the descendants of n, and on n itself when self is set
func (d *Document) forgetSubtree(n *html.Node, self bool) {
	if self {
		delete(d.listeners, n)
		if d.active == n {
			d.active = nil
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.forgetSubtree(c, true)
	}
}

// On binds h to every element currently in sel, like addEventListener on a
// querySelectorAll result. Elements added later are not covered.
func (d *Document) On(sel *goquery.Selection, eventType string, h Handler) {
	for _, n := range sel.Nodes {
		byType, ok := d.listeners[n]
		if !ok {
			byType = make(map[string][]Handler)
			d.listeners[n] = byType
		}
		byType[eventType] = append(byType[eventType], h)
	}
}

// OnDocument binds h at document level; it sees every event that bubbles up
func (d *Document) OnDocument(eventType string, h Handler) {
	d.global[eventType] = append(d.global[eventType], h)
}

// Dispatch delivers ev to its target, its ancestors, then the document.
// It returns false when a handler prevented the default action.
func (d *Document) Dispatch(ev *Event) bool {
	for n := ev.Target; n != nil && !ev.stopped; n = n.Parent {
		byType, ok := d.listeners[n]
		if !ok {
			continue
		}
		handlers := append([]Handler(nil), byType[ev.Type]...)
		for _, h := range handlers {
			h(ev)
		}
	}
	if !ev.stopped {
		for _, h := range append([]Handler(nil), d.global[ev.Type]...) {
			h(ev)
		}
	}
	return !ev.defaultPrevented
}

// Listeners reports how many handlers are bound to n for eventType
func (d *Document) Listeners(n *html.Node, eventType string) int {
	return len(d.listeners[n][eventType])
}

// Focus moves focus to the first element in sel
func (d *Document) Focus(sel *goquery.Selection) {
	if sel.Length() == 0 {
		d.active = nil
		return
	}
	d.active = sel.Nodes[0]
}

// Blur clears focus
func (d *Document) Blur() { d.active = nil }

// ActiveElement returns the focused element, or nil
func (d *Document) ActiveElement() *html.Node { return d.active }

// TextInputFocused reports whether focus is inside an editable text control
func (d *Document) TextInputFocused() bool {
	n := d.active
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "textarea", "select":
		return true
	case "input":
		switch strings.ToLower(attr(n, "type")) {
		case "button", "submit", "reset", "checkbox", "radio", "hidden", "image", "file", "range", "color":
			return false
		}
		return true
	}
	v, ok := attrLookup(n, "contenteditable")
	return ok && v != "false"
}

// HTML serializes the whole document including the doctype
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	for _, n := range d.doc.Nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("failed to render document: %w", err)
		}
	}
	return buf.String(), nil
}

func attr(n *html.Node, key string) string {
	v, _ := attrLookup(n, key)
	return v
}

func attrLookup(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

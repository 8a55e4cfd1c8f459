package dom

import (
	"strconv"
	"sync"

	"golang.org/x/net/html"
)

// ScrollBehavior mirrors the behavior option of scrollBy and scrollIntoView
type ScrollBehavior string

const (
	ScrollSmooth ScrollBehavior = "smooth"
	ScrollAuto   ScrollBehavior = "auto"
)

// ScrollKind distinguishes relative scrolls from scroll-into-view requests
type ScrollKind string

const (
	ScrollBy       ScrollKind = "scrollBy"
	ScrollIntoView ScrollKind = "scrollIntoView"
)

// ScrollCall records one scroll request issued by the page
type ScrollCall struct {
	Kind     ScrollKind
	Node     *html.Node
	Left     float64 // ScrollBy only
	Block    string  // ScrollIntoView only
	Behavior ScrollBehavior
}

// Window is the viewport the page runs in. There is no layout engine:
// element widths come from Layout, falling back to a data-width attribute
// and then to the viewport width.
type Window struct {
	Width       float64
	ColorScheme string // "dark" or "light"
	Layout      func(n *html.Node) float64

	mu      sync.Mutex
	scrolls []ScrollCall
}

// NewWindow returns a window with the given viewport width and color scheme
func NewWindow(width float64, colorScheme string) *Window {
	return &Window{Width: width, ColorScheme: colorScheme}
}

// InnerWidth returns the viewport width
func (w *Window) InnerWidth() float64 { return w.Width }

// PrefersDark reports whether the platform asks for a dark color scheme
func (w *Window) PrefersDark() bool { return w.ColorScheme == "dark" }

// OffsetWidth returns the rendered width of n
func (w *Window) OffsetWidth(n *html.Node) float64 {
	if w.Layout != nil {
		return w.Layout(n)
	}
	if v, ok := attrLookup(n, "data-width"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return w.Width
}

// ScrollBy scrolls n horizontally by left units
func (w *Window) ScrollBy(n *html.Node, left float64, behavior ScrollBehavior) {
	w.record(ScrollCall{Kind: ScrollBy, Node: n, Left: left, Behavior: behavior})
}

// ScrollIntoView scrolls the viewport so n's block edge is visible
func (w *Window) ScrollIntoView(n *html.Node, behavior ScrollBehavior, block string) {
	w.record(ScrollCall{Kind: ScrollIntoView, Node: n, Block: block, Behavior: behavior})
}

func (w *Window) record(c ScrollCall) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scrolls = append(w.scrolls, c)
}

// Scrolls returns the scroll requests issued so far
func (w *Window) Scrolls() []ScrollCall {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]ScrollCall(nil), w.scrolls...)
}

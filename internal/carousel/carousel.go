// Package carousel scrolls the project strip by one viewport-dependent step.
package carousel

import (
	"fmt"

	"github.com/jonathan/portfolio/internal/dom"
)

// Direction is the scroll direction
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
)

// ParseDirection accepts "left" or "right"
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Left, Right:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("unknown carousel direction %q", s)
	}
}

// StripSelector locates the scrollable project strip
const StripSelector = "#projectGrid"

// SwipeThreshold is the minimum horizontal travel, in pixels, of a swipe
const SwipeThreshold = 50

// Breakpoints for the per-step offset
const (
	mobileMaxWidth = 640
	tabletMaxWidth = 1024
)

// Offset returns how far one step scrolls for the given viewport and strip
// widths: a full strip on phones, half on tablets, a third on desktops, plus
// the inter-card gap.
func Offset(viewport, strip float64) float64 {
	switch {
	case viewport < mobileMaxWidth:
		return strip + 15
	case viewport < tabletMaxWidth:
		return strip/2 + 8
	default:
		return strip/3 + 8
	}
}

// Swipe maps a completed touch gesture to a direction. ok is false when the
// travel does not exceed SwipeThreshold.
func Swipe(startX, endX float64) (dir Direction, ok bool) {
	diff := startX - endX
	if diff > SwipeThreshold {
		return Right, true
	}
	if diff < -SwipeThreshold {
		return Left, true
	}
	return "", false
}

// Controller drives the strip of one document
type Controller struct {
	doc    *dom.Document
	window *dom.Window

	touchStartX float64
	touching    bool
}

// New returns a controller for doc's strip inside window
func New(doc *dom.Document, window *dom.Window) *Controller {
	return &Controller{doc: doc, window: window}
}

// Scroll moves the strip one step in dir. It is a no-op when the page has no
// strip. There is no wraparound.
func (c *Controller) Scroll(dir Direction) {
	strip, ok := c.doc.Query(StripSelector)
	if !ok {
		return
	}
	node := strip.Nodes[0]
	offset := Offset(c.window.InnerWidth(), c.window.OffsetWidth(node))
	if dir == Left {
		offset = -offset
	}
	c.window.ScrollBy(node, offset, dom.ScrollSmooth)
}

// TouchStart records where a gesture began
func (c *Controller) TouchStart(screenX float64) {
	c.touchStartX = screenX
	c.touching = true
}

// TouchEnd completes a gesture and scrolls if it was a swipe
func (c *Controller) TouchEnd(screenX float64) {
	if !c.touching {
		return
	}
	c.touching = false
	if dir, ok := Swipe(c.touchStartX, screenX); ok {
		c.Scroll(dir)
	}
}

// Bind attaches touch gestures to the strip and clicks to the
// .carousel-btn[data-direction] buttons. It reports whether the strip exists.
func (c *Controller) Bind() bool {
	strip, ok := c.doc.Query(StripSelector)
	if !ok {
		return false
	}
	c.doc.On(strip, dom.EventTouchStart, func(ev *dom.Event) {
		c.TouchStart(ev.ScreenX)
	})
	c.doc.On(strip, dom.EventTouchEnd, func(ev *dom.Event) {
		c.TouchEnd(ev.ScreenX)
	})

	for _, n := range c.doc.Find(".carousel-btn[data-direction]").Nodes {
		btn := c.doc.Wrap(n)
		dir, err := ParseDirection(btn.AttrOr("data-direction", ""))
		if err != nil {
			continue
		}
		c.doc.On(btn, dom.EventClick, func(*dom.Event) {
			c.Scroll(dir)
		})
	}
	return true
}

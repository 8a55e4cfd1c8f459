// Package rendering maps portfolio content to page markup and writes it into the document.
package rendering

import (
	"errors"
	"fmt"
)

// ErrMountMissing reports that a section's mount point is absent from the document.
// Sections returning it are skipped, not failed.
var ErrMountMissing = errors.New("mount point not found")

// TemplateError represents an error parsing or executing a fragment template
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a section that could not be rendered
type RenderError struct {
	Section string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %s: %v", e.Section, e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s: %s", e.Section, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// mountMissing builds the skip error for a section whose selector matched nothing
func mountMissing(section, selector string) error {
	return &RenderError{
		Section: section,
		Message: fmt.Sprintf("selector %q matched nothing", selector),
		Cause:   ErrMountMissing,
	}
}

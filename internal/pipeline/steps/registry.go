// Package steps defines the page boot steps, their ordering constraints and
// isolated execution.
package steps

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"
)

// Step categories
const (
	CategoryTheme       = "theme"
	CategoryRender      = "render"
	CategoryInteraction = "interaction"
	CategoryNotify      = "notify"
)

// Step statuses
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// ErrSkipped marks a step whose target is absent from the page. Steps wrap it
// to be reported as skipped instead of failed.
var ErrSkipped = errors.New("skipped")

// Skip wraps err so the step is reported as skipped
func Skip(err error) error {
	if err == nil {
		return ErrSkipped
	}
	return fmt.Errorf("%w: %w", ErrSkipped, err)
}

// StepDefinition defines metadata for a boot step
type StepDefinition struct {
	Name     string
	Category string
	// Dependencies must run earlier in the boot order. Listeners are bound to
	// concrete nodes, so binding before a section renders would bind nodes the
	// render then replaces.
	Dependencies []string
}

// StepResult represents the result of executing a step
type StepResult struct {
	Step     string
	Category string
	Status   string
	Duration int64 // milliseconds
	Error    error
}

// Func runs one step
type Func func(ctx context.Context) error

var renderSteps = []string{
	"render_meta", "render_nav", "render_hero", "render_about", "render_skills",
	"render_employment", "render_education", "render_projects", "render_contact",
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	"init_theme":        {Name: "init_theme", Category: CategoryTheme},
	"render_meta":       {Name: "render_meta", Category: CategoryRender},
	"render_nav":        {Name: "render_nav", Category: CategoryRender},
	"render_hero":       {Name: "render_hero", Category: CategoryRender},
	"render_about":      {Name: "render_about", Category: CategoryRender},
	"render_skills":     {Name: "render_skills", Category: CategoryRender},
	"render_employment": {Name: "render_employment", Category: CategoryRender},
	"render_education":  {Name: "render_education", Category: CategoryRender},
	"render_projects":   {Name: "render_projects", Category: CategoryRender},
	"render_contact":    {Name: "render_contact", Category: CategoryRender},
	"bind_navigation": {
		Name:         "bind_navigation",
		Category:     CategoryInteraction,
		Dependencies: renderSteps,
	},
	"bind_carousel": {
		Name:         "bind_carousel",
		Category:     CategoryInteraction,
		Dependencies: []string{"render_projects"},
	},
	"bind_contact_form": {
		Name:         "bind_contact_form",
		Category:     CategoryInteraction,
		Dependencies: []string{"render_contact"},
	},
	"send_visit_beacon": {
		Name:         "send_visit_beacon",
		Category:     CategoryNotify,
		Dependencies: []string{"render_meta"},
	},
}

// BootOrder is the order steps run in when a page boots
var BootOrder = []string{
	"init_theme",
	"render_meta",
	"render_nav",
	"render_hero",
	"render_about",
	"render_skills",
	"render_employment",
	"render_education",
	"render_projects",
	"render_contact",
	"bind_navigation",
	"bind_carousel",
	"bind_contact_form",
	"send_visit_beacon",
}

// RenderStep returns the step name for a section renderer
func RenderStep(section string) string {
	return "render_" + section
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s: missing dependencies: %v", e.Step, e.MissingDependencies)
}

// ValidateDependencies checks that every dependency of stepName appears in ran
func ValidateDependencies(stepName string, ran map[string]bool) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}
	var missing []string
	for _, dep := range def.Dependencies {
		if !ran[dep] {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return &DependencyError{Step: stepName, MissingDependencies: missing}
	}
	return nil
}

// ValidateOrder checks that each step in order comes after its dependencies
func ValidateOrder(order []string) error {
	ran := make(map[string]bool, len(order))
	for _, name := range order {
		if err := ValidateDependencies(name, ran); err != nil {
			return err
		}
		ran[name] = true
	}
	return nil
}

// PanicError is the failure recorded for a step that panicked
type PanicError struct {
	Step  string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("step %s panicked: %v", e.Step, e.Value)
}

// Execute runs fn in isolation: an error or panic is captured in the result
// and never escapes.
func Execute(ctx context.Context, name string, fn Func) (result StepResult) {
	result = StepResult{Step: name, Category: StepRegistry[name].Category}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result.Status = StatusFailed
			result.Error = &PanicError{Step: name, Value: r, Stack: debug.Stack()}
		}
		result.Duration = time.Since(start).Milliseconds()
	}()

	err := fn(ctx)
	switch {
	case err == nil:
		result.Status = StatusOK
	case errors.Is(err, ErrSkipped):
		result.Status = StatusSkipped
		result.Error = err
	default:
		result.Status = StatusFailed
		result.Error = err
	}
	return result
}

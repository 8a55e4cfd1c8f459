package rendering

import (
	"html"
	"strings"

	"github.com/jonathan/portfolio/internal/types"
)

// Text escapes a plain string so it can be placed into markup. This is the
// only way a string that did not come from the content document should
// become Markup.
func Text(s string) types.Markup {
	if s == "" {
		return ""
	}
	return types.Markup(html.EscapeString(s))
}

// Join concatenates trusted fragments with a trusted separator
func Join(items []types.Markup, sep types.Markup) types.Markup {
	if len(items) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteString(string(sep))
		}
		sb.WriteString(string(item))
	}
	return types.Markup(sb.String())
}

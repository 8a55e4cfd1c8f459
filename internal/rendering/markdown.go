package rendering

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/jonathan/portfolio/internal/types"
)

// Content is first-party, so raw HTML inside Markdown is kept.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

// Markdown converts Markdown source to markup. Custom fragment templates
// reach it as the markdown function.
func Markdown(src string) (types.Markup, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return types.Markup(buf.String()), nil
}

func markdownFunc(v any) (types.Markup, error) {
	switch s := v.(type) {
	case string:
		return Markdown(s)
	case types.Markup:
		return Markdown(string(s))
	default:
		return "", fmt.Errorf("markdown: unsupported value of type %T", v)
	}
}

package rendering

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio/internal/types"
)

func TestMarkdown(t *testing.T) {
	out, err := Markdown("Built with **Go** and <em>care</em>.")
	require.NoError(t, err)
	assert.Equal(t, types.Markup("<p>Built with <strong>Go</strong> and <em>care</em>.</p>\n"), out)
}

func TestLoadFragments_MarkdownFunction(t *testing.T) {
	dir := t.TempDir()
	custom := `{{define "about"}}{{range .Paragraphs}}{{markdown .}}{{end}}{{end}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "about.tmpl"), []byte(custom), 0o644))

	f, err := LoadFragments(dir)
	require.NoError(t, err)

	about, err := f.About(&types.About{Paragraphs: []types.Markup{"I *design* engines."}})
	require.NoError(t, err)
	assert.Equal(t, "<p>I <em>design</em> engines.</p>\n", string(about))
}

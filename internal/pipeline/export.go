package pipeline

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ExportOptions configures writing a booted page to disk
type ExportOptions struct {
	OutDir string
	// AssetsRoot is the directory asset patterns are matched against.
	AssetsRoot string
	// Assets are doublestar patterns such as "images/**" or "css/*.css".
	Assets []string
}

// ExportResult lists what Export wrote
type ExportResult struct {
	IndexPath string
	Assets    []string
}

// Export writes the page as index.html and copies the matched assets,
// keeping their paths relative to AssetsRoot.
func Export(p *Page, opts ExportOptions) (*ExportResult, error) {
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	markup, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize page: %w", err)
	}
	res := &ExportResult{IndexPath: filepath.Join(opts.OutDir, "index.html")}
	if err := os.WriteFile(res.IndexPath, []byte(markup), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write index.html: %w", err)
	}

	if len(opts.Assets) == 0 {
		return res, nil
	}
	root := opts.AssetsRoot
	if root == "" {
		root = "."
	}
	assets, err := MatchAssets(os.DirFS(root), opts.Assets)
	if err != nil {
		return nil, err
	}
	for _, rel := range assets {
		if err := copyFile(filepath.Join(root, rel), filepath.Join(opts.OutDir, rel)); err != nil {
			return nil, err
		}
		res.Assets = append(res.Assets, rel)
	}
	return res, nil
}

// MatchAssets returns the regular files in fsys matching any pattern, in
// lexical order and without duplicates.
func MatchAssets(fsys fs.FS, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid asset pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("matching %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open asset: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create asset directory: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}

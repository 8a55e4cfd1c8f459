// Package content loads and validates portfolio content documents.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/portfolio/internal/fetch"
	internalschemas "github.com/jonathan/portfolio/internal/schemas"
	"github.com/jonathan/portfolio/internal/types"
	"github.com/jonathan/portfolio/schemas"
)

// Format is the encoding of a content document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// LoadError reports a content document that could not be read or is invalid
type LoadError struct {
	Source  string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("content error for %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("content error for %s: %s", e.Source, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

var (
	schemaOnce sync.Once
	schema     *internalschemas.Schema
	schemaErr  error
)

func portfolioSchema() (*internalschemas.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = internalschemas.Compile("portfolio.schema.json", schemas.Portfolio)
	})
	return schema, schemaErr
}

// FormatFor picks the format from a file name or URL path. Unknown
// extensions are treated as JSON.
func FormatFor(name string) Format {
	if fetch.IsURL(name) {
		name = strings.SplitN(name, "?", 2)[0]
		name = path.Base(name)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes and validates a content document. YAML is converted to JSON
// first so both formats go through the same schema.
func Parse(data []byte, format Format) (*types.Portfolio, error) {
	doc := data
	if format == FormatYAML {
		var err error
		doc, err = yamlToJSON(data)
		if err != nil {
			return nil, err
		}
	}

	s, err := portfolioSchema()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(doc); err != nil {
		return nil, err
	}

	var p types.Portfolio
	dec := json.NewDecoder(bytes.NewReader(doc))
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid content: %w", err)
	}
	return &p, nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML to JSON: %w", err)
	}
	return out, nil
}

// Load reads and validates a content file
func Load(filePath string) (*types.Portfolio, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, &LoadError{Source: filePath, Message: "failed to read file", Cause: err}
	}
	p, err := Parse(data, FormatFor(filePath))
	if err != nil {
		return nil, &LoadError{Source: filePath, Message: "invalid document", Cause: err}
	}
	return p, nil
}

// Fetcher retrieves remote documents
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.CachedResult, error)
}

// Fetch downloads and validates a remote content document. The format comes
// from the Content-Type header, falling back to the URL extension.
func Fetch(ctx context.Context, f Fetcher, url string) (*types.Portfolio, error) {
	res, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, &LoadError{Source: url, Message: "failed to fetch", Cause: err}
	}
	format := FormatFor(url)
	if ct := strings.ToLower(res.ContentType); strings.Contains(ct, "yaml") {
		format = FormatYAML
	} else if strings.Contains(ct, "json") {
		format = FormatJSON
	}
	p, err := Parse([]byte(res.Body), format)
	if err != nil {
		return nil, &LoadError{Source: url, Message: "invalid document", Cause: err}
	}
	return p, nil
}

// Open loads src as a URL when it is one and as a file otherwise
func Open(ctx context.Context, f Fetcher, src string) (*types.Portfolio, error) {
	if fetch.IsURL(src) {
		return Fetch(ctx, f, src)
	}
	return Load(src)
}

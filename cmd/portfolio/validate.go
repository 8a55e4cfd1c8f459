package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio/internal/content"
	"github.com/jonathan/portfolio/internal/fetch"
	"github.com/jonathan/portfolio/internal/observability"
	"github.com/jonathan/portfolio/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate <content>",
	Short: "Validate a content document",
	Long: `Checks a JSON or YAML content file (or URL) against the portfolio schema and field rules.

With --schema, a local JSON content file is checked against that JSON Schema
file instead, for sites that extend the content document.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

var validateSchema string

func init() {
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "JSON Schema file to validate against instead of the built-in schema")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if validateSchema != "" {
		return validateAgainst(os.Stdout, validateSchema, args[0])
	}
	return validateContent(cmd.Context(), os.Stdout, fetch.NewCachedFetcher(nil, nil), args[0])
}

// validateAgainst checks a local JSON content file against a custom schema.
// The schema path is also looked up relative to the parent directories.
func validateAgainst(out io.Writer, schemaPath, src string) error {
	if fetch.IsURL(src) || content.FormatFor(src) != content.FormatJSON {
		return fmt.Errorf("--schema needs a local JSON content file, got %s", src)
	}
	if resolved := schemas.ResolveSchemaPath(schemaPath); resolved != "" {
		schemaPath = resolved
	}

	p := observability.NewPrinter(out)
	err := schemas.ValidateJSON(schemaPath, src)
	var verr *schemas.ValidationError
	if errors.As(err, &verr) {
		p.PrintValidationErrors(verr)
		return fmt.Errorf("%s: %d problem(s)", src, len(verr.Errors))
	}
	if err != nil {
		return err
	}
	p.PrintValidationErrors(nil)
	return nil
}

// validateContent prints the problems found in src and returns an error
// when there are any
func validateContent(ctx context.Context, out io.Writer, f content.Fetcher, src string) error {
	p := observability.NewPrinter(out)

	portfolio, err := content.Open(ctx, f, src)
	if err != nil {
		var verr *schemas.ValidationError
		if errors.As(err, &verr) {
			p.PrintValidationErrors(verr)
			return fmt.Errorf("%s: %d problem(s)", src, len(verr.Errors))
		}
		return err
	}

	p.PrintValidationErrors(nil)
	if verbose {
		p.PrintContentSummary(portfolio)
	}
	return nil
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio/internal/observability"
	"github.com/jonathan/portfolio/internal/pipeline/steps"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the content into a static site",
	Long: `Loads the content document, renders every section into the page shell,
binds the page interactions and writes index.html plus the matched assets
to the output directory.

A section whose mount point is missing is skipped; a section that fails is
reported and the rest of the page still renders. Use --strict to exit with
an error when any step failed.`,
	RunE: runRender,
}

var renderStrict bool

func init() {
	addPageFlags(renderCmd.Flags())
	addDataFlag(renderCmd.Flags())
	renderCmd.Flags().BoolVar(&renderStrict, "strict", false, "Fail when any boot step failed")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, err := openSite(cfg, slog.Default())
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := s.build(cmd.Context())
	if err != nil {
		return err
	}

	report := res.Page.Report
	if cfg.Verbose {
		p := observability.NewPrinter(os.Stdout)
		p.PrintContentSummary(res.Content)
		p.PrintBootReport(report.Steps)
		p.PrintExport(res.Export.IndexPath, res.Export.Assets)
	} else {
		_, _ = fmt.Fprintf(os.Stdout, "Rendered %s (%d ok, %d skipped, %d failed)\n",
			res.Export.IndexPath,
			report.Count(steps.StatusOK), report.Count(steps.StatusSkipped), report.Count(steps.StatusFailed))
	}

	if renderStrict && report.Failed() {
		return fmt.Errorf("%d boot step(s) failed", report.Count(steps.StatusFailed))
	}
	return nil
}

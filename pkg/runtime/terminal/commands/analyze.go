package commands

import (
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/ingest"
	"github.com/spf13/cobra"
)

type AnalyzeCmd struct {
	env      env
	format   string
	formats  ingest.Registry
	reporter Reporter
}

func NewAnalyzeCmd(formats ingest.Registry, reporter Reporter) *cobra.Command {
	ac := &AnalyzeCmd{formats: formats, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "analyze [statement]",
		Short: "Run the full analysis and render the report",
		Long: "Analyze runs the forecasting and risk pipeline over the stored ledger " +
			"and renders every report section. Pass a statement file to analyze it " +
			"directly without importing it first.",
		Args: cobra.MaximumNArgs(1),
		RunE: ac.run,
	}

	ac.env.bindFlags(cmd)
	cmd.Flags().StringVar(&ac.format, "format", "", "Vendor format of the statement; defaults to the profile's format")

	return cmd
}

func (ac *AnalyzeCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var (
		view *analysisView
		err  error
	)
	if len(args) == 1 {
		view, err = ac.env.analyzeStatement(ctx, ac.formats, ac.format, args[0])
	} else {
		view, err = ac.env.analyzeStore(ctx)
	}
	if err != nil {
		return err
	}

	return ac.reporter.Handle(fullReport(view))
}

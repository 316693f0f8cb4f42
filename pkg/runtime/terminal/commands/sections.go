package commands

import (
	"github.com/VasiliyTop/AI-finanalitik/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type ForecastCmd struct {
	env      env
	csvOut   bool
	reporter Reporter
}

func NewForecastCmd(reporter Reporter) *cobra.Command {
	fc := &ForecastCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project the balance series over the configured horizon",
		RunE:  fc.run,
	}

	fc.env.bindFlags(cmd)
	cmd.Flags().BoolVar(&fc.csvOut, "csv", false, "Write the forecast table as CSV instead of a report")

	return cmd
}

func (fc *ForecastCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	view, err := fc.env.analyzeStore(ctx)
	if err != nil {
		return err
	}

	if fc.csvOut {
		return export.ForecastCSV(cmd.OutOrStdout(), view.result.Forecast)
	}

	return fc.reporter.Handle(sectionReport(view, forecastSection(view.result.Forecast, view.profile.Currency)))
}

type RisksCmd struct {
	env      env
	reporter Reporter
}

func NewRisksCmd(reporter Reporter) *cobra.Command {
	rc := &RisksCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "risks",
		Short: "Score liquidity and counterparty risk",
		RunE:  rc.run,
	}

	rc.env.bindFlags(cmd)

	return cmd
}

func (rc *RisksCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	view, err := rc.env.analyzeStore(ctx)
	if err != nil {
		return err
	}

	return rc.reporter.Handle(sectionReport(view, riskSection(view.result.Risks)))
}

type RecommendationsCmd struct {
	env      env
	reporter Reporter
}

func NewRecommendationsCmd(reporter Reporter) *cobra.Command {
	rc := &RecommendationsCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "recommendations",
		Short: "Evaluate the advice rule table against the analysis",
		RunE:  rc.run,
	}

	rc.env.bindFlags(cmd)

	return cmd
}

func (rc *RecommendationsCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	view, err := rc.env.analyzeStore(ctx)
	if err != nil {
		return err
	}

	return rc.reporter.Handle(sectionReport(view, recommendationSection(view.result.Recommendations)))
}

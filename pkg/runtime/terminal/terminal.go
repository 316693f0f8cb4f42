package terminal

import (
	"io"
	"os"

	"github.com/VasiliyTop/AI-finanalitik/pkg/runtime/terminal/commands"
	"github.com/VasiliyTop/AI-finanalitik/pkg/runtime/terminal/export"

	"github.com/VasiliyTop/AI-finanalitik/pkg/services/ingest"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	formats ingest.Registry
	tables  *export.Reporter
	plain   *Reporter
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Formats ingest.Registry
	Output  io.Writer
}

// NewCLI creates a new CLI instance. The full report renders as tables,
// single-section views render as plain lists.
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Formats == nil {
		opts.Formats = ingest.DefaultRegistry()
	}

	cli := &CLI{
		formats: opts.Formats,
		tables:  export.NewReporter(opts.Output),
		plain:   NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finanalitik",
		Short: "Cash flow analysis tool",
	}

	cmd.AddCommand(commands.NewImportCmd(cli.formats))
	cmd.AddCommand(commands.NewAnalyzeCmd(cli.formats, cli.tables))
	cmd.AddCommand(commands.NewForecastCmd(cli.plain))
	cmd.AddCommand(commands.NewRisksCmd(cli.plain))
	cmd.AddCommand(commands.NewRecommendationsCmd(cli.plain))
	cmd.AddCommand(commands.NewFormatsCmd(cli.formats))

	return cmd
}

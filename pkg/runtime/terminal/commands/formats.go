package commands

import (
	"fmt"
	"strings"

	"github.com/VasiliyTop/AI-finanalitik/pkg/services/ingest"
	"github.com/spf13/cobra"
)

type FormatsCmd struct {
	formats ingest.Registry
}

func NewFormatsCmd(formats ingest.Registry) *cobra.Command {
	fc := &FormatsCmd{formats: formats}
	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List supported statement formats",
		RunE:  fc.run,
	}

	return cmd
}

func (fc *FormatsCmd) run(cmd *cobra.Command, args []string) error {
	supported := fc.formats.SupportedFormats()
	if len(supported) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No statement formats registered")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Supported statement formats:\n%s\n",
		strings.Join(supported, "\n"))

	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/VasiliyTop/AI-finanalitik/pkg/runtime/terminal"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/ingest"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Formats: ingest.DefaultRegistry(),
		Output:  os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

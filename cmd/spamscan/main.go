package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "spamscan",
		Short:         "Scan posts for spam from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newScanCommand())
	root.AddCommand(newVersionCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

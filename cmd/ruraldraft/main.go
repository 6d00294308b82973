// Command ruraldraft runs the offline parts of the petition pipeline: payment
// tables, amounts in words, location normalization and document previews.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ruraldraft",
		Short:         "Offline tools for rural benefit petitions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newTableCmd(),
		newWordsCmd(),
		newCityCmd(),
		newRenderCmd(),
	)
	return root
}

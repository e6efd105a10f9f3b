package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "clausecheck",
		Short: "Rule-based analysis of Indian commercial contracts",
	}

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newAskCmd())
	root.AddCommand(newLawsCmd())
	root.AddCommand(newLogCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

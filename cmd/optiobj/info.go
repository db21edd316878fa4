package main

import (
	"fmt"

	"github.com/ksoft/optiobj/internal/optimizer"
	"github.com/ksoft/optiobj/pkg/analysis"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [file]",
		Short: "Display deduplication statistics without writing a file",
		Long:  "Parse an OBJ file and show attribute counts before and after deduplication, along with face and material statistics.",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	report, err := optimizer.Inspect(filename)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "OBJ File Information")
	fmt.Fprintln(out, "====================")
	fmt.Fprintf(out, "File: %s\n\n", filename)

	analysis.WriteDetails(out, report)
	fmt.Fprintln(out)
	analysis.WriteSummary(out, report)
	fmt.Fprintf(out, "  Total    : -%d\n", report.TotalRemoved())
	fmt.Fprintf(out, "\nOutput would be: %s\n", optimizer.OutputPath(filename))

	return nil
}

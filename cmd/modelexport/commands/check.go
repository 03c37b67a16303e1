package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/modelexport/errors"
)

// CheckCmd checks if the generated output is up to date
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check if the generated output is up to date",
	Long: `Check if the output file matches what the current Go source would generate.

The output is generated in memory and compared byte for byte with the file
on disk. Nothing is written.

Exit codes:
  0 - Output is up to date
  1 - Output is out of date or missing
  2 - Error during check`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	errorExitCode = exitCheckErr

	if err := cfg.Validate(); err != nil {
		return err
	}
	exporter, err := newExporter(cfg)
	if err != nil {
		return err
	}

	result, check, err := exporter.Check(cmd.Context(), exportOptions(cfg))
	if err != nil {
		return err
	}

	if check.UpToDate {
		pterm.Success.Printfln("%s is up to date (%d types)", check.Path, len(result.Declarations))
		return nil
	}

	if check.Missing {
		pterm.Error.Printfln("%s does not exist", check.Path)
	} else {
		pterm.Error.Printfln("%s is out of date, first difference at line %d", check.Path, check.FirstDiffLine)
		pterm.Printfln("  want: %s", check.Expected)
		pterm.Printfln("  have: %s", check.Actual)
	}
	return errors.WithHint(errors.ErrOutOfDate, "run 'modelexport' to regenerate")
}

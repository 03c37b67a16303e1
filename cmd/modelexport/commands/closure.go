package commands

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/modelexport/errors"
)

// closureReport is the YAML shape printed by the closure command
type closureReport struct {
	Models   []string            `yaml:"models"`
	Passes   int                 `yaml:"passes"`
	Wanted   []string            `yaml:"wanted"`
	Retained []string            `yaml:"retained"`
	ByDir    map[string][]string `yaml:"by_dir,omitempty"`
}

var closureByDir bool

// ClosureCmd prints the type closure without compiling or writing anything
var ClosureCmd = &cobra.Command{
	Use:   "closure",
	Short: "Show the type closure of the requested models",
	Long: `Compute which type names and source files an export would use.

Only the syntax pass runs; nothing is compiled or written. The report is
printed as YAML.

Examples:
  modelexport closure -m Order -i ./models
  modelexport closure -m Order -i ./models --by-dir`,
	RunE: runClosure,
}

func init() {
	ClosureCmd.Flags().BoolVar(&closureByDir, "by-dir", false, "Group retained files by directory")
}

func runClosure(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateSources(); err != nil {
		return err
	}
	exporter, err := newExporter(cfg)
	if err != nil {
		return err
	}

	state, err := exporter.Closure(cmd.Context(), exportOptions(cfg))
	if err != nil {
		return err
	}

	report := closureReport{
		Models:   cfg.Models,
		Passes:   state.Passes,
		Wanted:   state.Wanted.Strings(),
		Retained: state.Paths(),
	}
	if closureByDir {
		report.ByDir = state.RetainedByDir()
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return errors.Wrap(err, "failed to encode closure report")
	}
	return enc.Close()
}

package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/modelexport/config"
)

var initPath string

// InitCmd writes a starter configuration file
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter modelexport.toml",
	Long: `Write a modelexport.toml with every setting at its default.

Values passed with -m, -i and -o are written into the file. An existing
file is never overwritten.

Examples:
  modelexport init
  modelexport init -m Order -i ./models -o ./web/src/types`,
	RunE: runInit,
}

func init() {
	InitCmd.Flags().StringVar(&initPath, "path", config.ConfigFileName, "Where to write the config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	c := config.Default()
	flags := cmd.Flags()
	if models, err := flags.GetStringSlice("model"); err == nil && len(models) > 0 {
		c.Models = models
	}
	if dir, err := flags.GetString("input-dir"); err == nil {
		c.InputDir = dir
	}
	if dir, err := flags.GetString("output-dir"); err == nil {
		c.OutputDir = dir
	}

	if err := config.WriteFile(initPath, c); err != nil {
		return err
	}
	pterm.Success.Printfln("Wrote %s", initPath)
	return nil
}

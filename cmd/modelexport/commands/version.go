package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/modelexport/errors"
	"github.com/teranos/modelexport/version"
)

var versionFormat string

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show modelexport version information",
	Long:  `Display version, build time, commit hash, and platform information for the modelexport binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		out := cmd.OutOrStdout()

		switch versionFormat {
		case "json":
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return errors.Wrap(err, "failed to format version as JSON")
			}
			fmt.Fprintln(out, string(data))
		case "yaml":
			data, err := yaml.Marshal(info)
			if err != nil {
				return errors.Wrap(err, "failed to format version as YAML")
			}
			fmt.Fprint(out, string(data))
		case "", "text":
			fmt.Fprintln(out, info.String())
			fmt.Fprintf(out, "Platform: %s\n", info.Platform)
			fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
		default:
			return errors.NewInvalidConfigError("unknown format %q (supported: text, json, yaml)", versionFormat)
		}
		return nil
	},
}

func init() {
	VersionCmd.Flags().StringVar(&versionFormat, "format", "text", "Output format: text, json, yaml")
}

package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/teranos/modelexport/config"
	"github.com/teranos/modelexport/errors"
	"github.com/teranos/modelexport/logger"
	"github.com/teranos/modelexport/typegen"
	"github.com/teranos/modelexport/typegen/typescript"
)

// Exit codes
const (
	exitOK        = 0
	exitFailure   = 1
	exitOutOfDate = 1
	exitCheckErr  = 2
)

var (
	cfgFile string
	cfg     *config.Config

	// errorExitCode is returned for errors other than drift; check raises it
	errorExitCode = exitFailure
)

// flagKeys maps CLI flags to the config keys they override
var flagKeys = map[string]string{
	"model":       "models",
	"input-dir":   "input_dir",
	"output-dir":  "output_dir",
	"output-name": "output_name",
	"module-dir":  "module_dir",
	"prefix":      "projection.interface_prefix",
	"json-tags":   "projection.json_tags",
	"header":      "projection.header",
	"comments":    "projection.comments",
}

// RootCmd generates the output file
var RootCmd = &cobra.Command{
	Use:   "modelexport",
	Short: "Export Go model types as TypeScript declarations",
	Long: `modelexport projects a named subset of Go model types into one
TypeScript file.

Starting from the requested models it follows every type their fields
reference, compiles the Go files that declare them, and writes an
interface per struct and an enum per constant set.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (MODELEXPORT_* prefix, .env honored)
3. Project config (modelexport.toml, searched upward from the working directory)
4. Default values

Examples:
  modelexport -m Order -i ./models -o ./web/src/types
  modelexport -m Order,Customer -i ./models -o ./out --json-tags
  modelexport check -m Order -i ./models -o ./out     # CI drift check
  modelexport closure -m Order -i ./models            # show what would be exported
  modelexport watch                                   # regenerate on change`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runExport,
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: modelexport.toml found upward)")
	flags.StringSliceP("model", "m", nil, "Model type to export (repeatable or comma-separated)")
	flags.StringP("input-dir", "i", "", "Root directory of the Go source corpus")
	flags.StringP("output-dir", "o", "", "Directory the output file is written to")
	flags.String("output-name", config.DefaultOutputName, "Output file base name")
	flags.String("module-dir", "", "Directory of the go.mod used to resolve imports (default: found upward from input)")
	flags.String("prefix", config.DefaultInterfacePrefix, "Prefix for projected interface names")
	flags.Bool("json-tags", false, "Name members after their json tag and skip json:\"-\" fields")
	flags.Bool("header", true, "Write the generated-file header")
	flags.Bool("comments", false, "Emit Go field comments as JSDoc")
	flags.CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	flags.Bool("json-log", false, "Emit logs as JSON")

	RootCmd.AddCommand(CheckCmd)
	RootCmd.AddCommand(ClosureCmd)
	RootCmd.AddCommand(WatchCmd)
	RootCmd.AddCommand(InitCmd)
	RootCmd.AddCommand(VersionCmd)
}

// Execute runs the CLI and returns the process exit code
func Execute() int {
	defer logger.Cleanup()

	err := RootCmd.Execute()
	if err == nil {
		return exitOK
	}

	reportError(err)
	if errors.Is(err, errors.ErrOutOfDate) {
		return exitOutOfDate
	}
	return errorExitCode
}

// setup initializes logging and loads configuration before any command runs
func setup(cmd *cobra.Command, args []string) error {
	verbosity, _ := cmd.Flags().GetCount("verbose")
	jsonLog, _ := cmd.Flags().GetBool("json-log")
	if err := logger.Initialize(jsonLog, verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	// version and init need no project config
	if cmd == VersionCmd || cmd == InitCmd {
		return nil
	}

	v, err := config.NewViper(cfgFile)
	if err != nil {
		return err
	}
	if err := bindFlags(cmd, v); err != nil {
		return err
	}
	cfg, err = config.Load(v)
	if err != nil {
		return err
	}

	logger.Debugw("Configuration loaded",
		"config_file", v.ConfigFileUsed(),
		logger.FieldModels, cfg.Models,
		"verbosity", logger.LevelName(verbosity))
	return nil
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "failed to bind --%s", flag)
		}
	}
	return nil
}

// newExporter builds the TypeScript exporter from the loaded configuration
func newExporter(c *config.Config) (*typegen.Exporter, error) {
	gen := typescript.NewGenerator(
		typescript.WithInterfacePrefix(c.Projection.InterfacePrefix),
		typescript.WithJSONTags(c.Projection.JSONTags),
		typescript.WithComments(c.Projection.Comments),
		typescript.WithHeader(c.Projection.Header),
	)
	return typegen.NewExporter(gen, c.Cache.ParsedUnits)
}

func exportOptions(c *config.Config) typegen.Options {
	return typegen.Options{
		Models:     c.Models,
		InputDir:   c.InputDir,
		OutputDir:  c.OutputDir,
		OutputName: c.OutputName,
		ModuleDir:  c.ModuleDir,
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	exporter, err := newExporter(cfg)
	if err != nil {
		return err
	}

	result, path, err := exporter.Export(cmd.Context(), exportOptions(cfg))
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Generated %s (%d types)", path, len(result.Declarations))
	return nil
}

// reportError prints err, every compile diagnostic and any hints
func reportError(err error) {
	var compileErr *typegen.CompileError
	if errors.As(err, &compileErr) {
		pterm.Error.Printfln("Compilation failed with %d error(s)", len(compileErr.Diagnostics))
		for _, d := range compileErr.Diagnostics {
			pterm.Println("  " + d.String())
		}
		pterm.Info.Println("No output was written")
		return
	}

	pterm.Error.Println(err.Error())
	for _, hint := range errors.GetAllHints(err) {
		pterm.Info.Println(hint)
	}
}

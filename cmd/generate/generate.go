package generate

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/stokaro/qmeta/config"
	"github.com/stokaro/qmeta/generator"
)

const (
	sourceFlag        = "source"
	outputDirFlag     = "output-dir"
	generatorFlag     = "generator"
	defaultSchemaFlag = "default-schema"
	workersFlag       = "workers"
	requireTableFlag  = "require-table"
	skipUnchangedFlag = "skip-unchanged"
	dryRunFlag        = "dry-run"
	configFlag        = "config"
)

var (
	workersOpt = &cobraflags.IntFlag{
		Name:  workersFlag,
		Value: 0,
		Usage: "Number of entities generated in parallel (default one per CPU)",
	}
	requireTableOpt = &cobraflags.BoolFlag{
		Name:  requireTableFlag,
		Value: true,
		Usage: "Only generate entities carrying a table annotation",
	}
	skipUnchangedOpt = &cobraflags.BoolFlag{
		Name:  skipUnchangedFlag,
		Value: true,
		Usage: "Leave files untouched when only the timestamp would change",
	}
	dryRunOpt = &cobraflags.BoolFlag{
		Name:  dryRunFlag,
		Value: false,
		Usage: "Print generated sources instead of writing them",
	}
)

var generateFlags = map[string]cobraflags.Flag{
	sourceFlag: &cobraflags.StringFlag{
		Name:  sourceFlag,
		Value: "",
		Usage: "Comma-separated manifest files or directories (default from config, else \".\")",
	},
	outputDirFlag: &cobraflags.StringFlag{
		Name:  outputDirFlag,
		Value: "",
		Usage: "Source root the Q-classes are written below",
	},
	generatorFlag: &cobraflags.StringFlag{
		Name:  generatorFlag,
		Value: "",
		Usage: "Generator name written into the @Generated annotation",
	},
	defaultSchemaFlag: &cobraflags.StringFlag{
		Name:  defaultSchemaFlag,
		Value: "",
		Usage: "Schema used for tables that do not name one",
	},
	workersFlag:       workersOpt,
	requireTableFlag:  requireTableOpt,
	skipUnchangedFlag: skipUnchangedOpt,
	dryRunFlag:        dryRunOpt,
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate querydsl-sql Q-classes from entity manifests",
		Long: `Generate querydsl-sql query types from entity declaration manifests.

Every entity carrying a table annotation gets a Q<Name>.java companion class written
to <output-dir>/<package path>/. Settings are read from qmeta.yaml and QMETA_* environment
variables; flags take precedence.

Examples:
  qmeta generate --source src/main/qmeta --output-dir target/generated-sources/qmeta
  qmeta generate --source entities.yaml --dry-run`,
		RunE: generateCommand,
	}

	cobraflags.RegisterMap(cmd, generateFlags)
	return cmd
}

func generateCommand(cmd *cobra.Command, _ []string) error {
	fsys := afero.NewOsFs()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("error resolving working directory: %w", err)
	}
	configPath, _ := cmd.Flags().GetString(configFlag)

	opts, loaded, err := config.Load(fsys, configPath, cwd)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	if loaded != "" {
		slog.Debug("Using config file", "path", loaded)
	}
	applyFlags(cmd, opts)

	summary, err := generator.Execute(cmd.Context(), fsys, cmd.OutOrStdout(), opts, slog.Default())
	if summary != nil && !opts.DryRun {
		printSummary(cmd, summary)
	}
	if err != nil {
		return fmt.Errorf("error generating query types: %w", err)
	}
	return nil
}

// applyFlags overrides configured values with the flags given on the command line.
func applyFlags(cmd *cobra.Command, opts *config.GenerateOptions) {
	flags := cmd.Flags()
	if flags.Changed(sourceFlag) {
		opts.Sources = splitList(generateFlags[sourceFlag].GetString())
	}
	if flags.Changed(outputDirFlag) {
		opts.OutputDir = generateFlags[outputDirFlag].GetString()
	}
	if flags.Changed(generatorFlag) {
		opts.Generator = generateFlags[generatorFlag].GetString()
	}
	if flags.Changed(defaultSchemaFlag) {
		opts.DefaultSchema = generateFlags[defaultSchemaFlag].GetString()
	}
	if flags.Changed(workersFlag) {
		opts.Workers = workersOpt.GetInt()
	}
	if flags.Changed(requireTableFlag) {
		opts.RequireTable = requireTableOpt.GetBool()
	}
	if flags.Changed(skipUnchangedFlag) {
		opts.SkipUnchanged = skipUnchangedOpt.GetBool()
	}
	if flags.Changed(dryRunFlag) {
		opts.DryRun = dryRunOpt.GetBool()
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printSummary(cmd *cobra.Command, s *generator.Summary) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Generated %d, unchanged %d, skipped %d, failed %d",
		len(s.Generated), len(s.Unchanged), len(s.Skipped), len(s.Failed))
	if s.Collisions > 0 {
		fmt.Fprintf(w, " (%d column collisions)", s.Collisions)
	}
	fmt.Fprintln(w)
	for _, f := range s.Failed {
		fmt.Fprintf(w, "  FAILED %s [%s]: %v\n", f.Entity, f.Stage, f.Err)
	}
}

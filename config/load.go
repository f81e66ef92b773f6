package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load, e.g. QMETA_OUTPUT_DIR.
const EnvPrefix = "QMETA"

// FileNames are the configuration file names looked for during discovery, in order.
var FileNames = []string{"qmeta.yaml", "qmeta.yml"}

const maxWalkDepth = 25

// Load reads options with the precedence env > config file > defaults. Command line flags are
// applied on top by the caller.
//
// When explicitPath is empty the configuration file is discovered by walking up from startDir
// until a qmeta.yaml or qmeta.yml is found, stopping at the repository root (a directory
// containing .git). Load returns the path of the file it read, empty when none was found.
func Load(fsys afero.Fs, explicitPath, startDir string) (*GenerateOptions, string, error) {
	v := viper.New()
	v.SetFs(fsys)

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := findConfigFile(fsys, explicitPath, startDir)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, path, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	var opts GenerateOptions
	if err := v.Unmarshal(&opts); err != nil {
		return nil, path, fmt.Errorf("error decoding config: %w", err)
	}
	if opts.Markers == nil {
		opts.Markers = map[string][]string{}
	}
	return &opts, path, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultGenerateOptions()
	v.SetDefault("sources", d.Sources)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("generator", d.Generator)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("default_schema", d.DefaultSchema)
	v.SetDefault("require_table", d.RequireTable)
	v.SetDefault("skip_unchanged", d.SkipUnchanged)
	v.SetDefault("dry_run", d.DryRun)
	v.SetDefault("max_depth", d.MaxDepth)
	v.SetDefault("markers", d.Markers)
}

func findConfigFile(fsys afero.Fs, explicitPath, startDir string) (string, error) {
	if explicitPath != "" {
		if _, err := fsys.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}
	if startDir == "" {
		return "", nil
	}

	dir := filepath.Clean(startDir)
	for range maxWalkDepth {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := fsys.Stat(path); err == nil {
				return path, nil
			}
		}

		if _, err := fsys.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}

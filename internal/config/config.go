// SPDX-License-Identifier: MPL-2.0

// Package config loads the meteor configuration: defaults, then an
// optional CUE config file, then environment overrides, highest last.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/webermax/meteor/internal/issue"
	"github.com/webermax/meteor/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "meteor"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"

	// EnvPackageDirs is the colon-separated list of extra package
	// directories, prepended to the configured ones.
	EnvPackageDirs = "METEOR_PACKAGE_DIRS"
)

//go:embed config_schema.cue
var configSchema string

// Config is the resolved tool configuration.
type Config struct {
	// AppDir is the application directory builds operate on.
	AppDir string `mapstructure:"app_dir"`
	// PackageDirs are extra local package directories, highest priority
	// first.
	PackageDirs []string `mapstructure:"package_dirs"`
	// StoreDir is the root of the versioned package store.
	StoreDir string `mapstructure:"store_dir"`
	// ReleaseFile is the release manifest addressing the store.
	ReleaseFile string `mapstructure:"release_file"`
}

// LoadOptions overrides where the config file is looked for.
type LoadOptions struct {
	// ConfigFilePath forces one exact file; it must exist.
	ConfigFilePath string
	// ConfigDirPath replaces the platform config directory.
	ConfigDirPath string
}

// DefaultConfig returns the built-in defaults: the current directory as
// the app, the store under ~/.meteor/store, and the release manifest at
// the store root.
func DefaultConfig() *Config {
	storeDir := ""
	if home, err := os.UserHomeDir(); err == nil {
		storeDir = filepath.Join(home, "."+AppName, "store")
	}
	return &Config{
		AppDir:      ".",
		StoreDir:    storeDir,
		ReleaseFile: filepath.Join(storeDir, "release.cue"),
	}
}

// ConfigDir returns the meteor configuration directory under the
// platform's user config root.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// Load resolves the configuration from defaults, the optional config
// file, and the environment.
func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadWithOptions is Load with explicit file/directory overrides, used by
// the --config flag and by tests.
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("app_dir", defaults.AppDir)
	v.SetDefault("package_dirs", defaults.PackageDirs)
	v.SetDefault("store_dir", defaults.StoreDir)
	v.SetDefault("release_file", defaults.ReleaseFile)

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Remove the --config flag to use defaults").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, wrapParseError(err, opts.ConfigFilePath)
		}
	} else {
		cfgDir := opts.ConfigDirPath
		if cfgDir == "" {
			dir, err := ConfigDir()
			if err != nil {
				return nil, err
			}
			cfgDir = dir
		}

		cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		if fileExists(cuePath) {
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, wrapParseError(err, cuePath)
			}
		}
		// No config file is fine; defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment wins over file and defaults; the env list is prepended
	// so ad-hoc directories shadow configured ones.
	if env := os.Getenv(EnvPackageDirs); env != "" {
		cfg.PackageDirs = append(splitDirList(env), cfg.PackageDirs...)
	}

	return &cfg, nil
}

func wrapParseError(err error, path string) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the values match the expected schema").
		Wrap(err).
		BuildError()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config
// schema, and merges its contents into Viper.
//
// This uses manual CUE parsing instead of cueutil.ParseAndDecode because
// the config decodes to map[string]any for Viper integration and all
// fields are optional (Concrete(false)).
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// splitDirList splits a PATH-style list, dropping empty entries.
func splitDirList(s string) []string {
	var dirs []string
	for _, d := range strings.Split(s, string(os.PathListSeparator)) {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/codesubmit/codesubmit/internal/issue"
	"github.com/codesubmit/codesubmit/pkg/platform"
)

const (
	// AppName is the application name.
	AppName = "codesubmit"
	// ConfigFileName is the name of the config file in the config directory (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFileName is the project-local config file looked up in the working directory.
	LocalConfigFileName = AppName + "." + ConfigFileExt
	// EnvPrefix prefixes environment overrides, e.g. CODESUBMIT_EXECUTION_TIMEOUT.
	EnvPrefix = "CODESUBMIT"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the codesubmit configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var base string
	switch runtime.GOOS {
	case platform.Windows:
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, AppName), nil
}

// DefaultConfigPath returns the path of the per-user config file.
func DefaultConfigPath(opts LoadOptions) (string, error) {
	dir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// FindConfigFile returns the config file that Load would read, or "" when
// none exists and defaults apply. Search order: opts.ConfigFilePath, the
// per-user config file, then ./codesubmit.cue.
func FindConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'codesubmit config dump' to print a starting configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	userPath, err := DefaultConfigPath(opts)
	if err != nil {
		return "", err
	}
	if fileExists(userPath) {
		return userPath, nil
	}

	local := LocalConfigFileName
	if opts.BaseDir != "" {
		local = filepath.Join(opts.BaseDir, LocalConfigFileName)
	}
	if fileExists(local) {
		return local, nil
	}

	return "", nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state. Precedence, lowest first: defaults, config file,
// CODESUBMIT_* environment variables.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := FindConfigFile(opts)
	if err != nil {
		return nil, "", err
	}

	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("parse configuration").
			WithResource(path).
			WithSuggestion("Durations are strings such as \"10s\"; booleans are true or false").
			WithSuggestion("Check " + EnvPrefix + "_* environment variables").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Timeouts must be zero or positive").
			WithSuggestion("Scan patterns must be valid doublestar globs").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, path, nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("execution.enabled", defaults.Execution.Enabled)
	v.SetDefault("execution.timeout", defaults.Execution.Timeout)
	v.SetDefault("execution.stdin", defaults.Execution.Stdin)
	v.SetDefault("execution.input_file", defaults.Execution.InputFile)
	v.SetDefault("execution.interactive", defaults.Execution.Interactive)
	v.SetDefault("execution.drain_grace", defaults.Execution.DrainGrace)
	v.SetDefault("scan.include", defaults.Scan.Include)
	v.SetDefault("scan.exclude", defaults.Scan.Exclude)
	v.SetDefault("report.format", defaults.Report.Format)
	v.SetDefault("report.output", defaults.Report.Output)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper. Fields are optional, so validation is
// not concrete.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := checkFileSize(data, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteDefaultConfig writes the default configuration to path unless a file
// already exists there (or force is set). It returns whether a file was written.
func WriteDefaultConfig(path string, force bool) (bool, error) {
	if !force && fileExists(path) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// GenerateCUE generates a CUE representation of the configuration that
// loads back to the same values.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// codesubmit configuration\n")
	sb.WriteString("// Environment variables (CODESUBMIT_EXECUTION_TIMEOUT, ...) override these values.\n\n")

	sb.WriteString("execution: {\n")
	fmt.Fprintf(&sb, "\tenabled:     %v\n", cfg.Execution.Enabled)
	fmt.Fprintf(&sb, "\ttimeout:     %q\n", cfg.Execution.Timeout.String())
	fmt.Fprintf(&sb, "\tstdin:       %q\n", cfg.Execution.Stdin)
	if cfg.Execution.InputFile != "" {
		fmt.Fprintf(&sb, "\tinput_file:  %q\n", cfg.Execution.InputFile)
	}
	fmt.Fprintf(&sb, "\tinteractive: %v\n", cfg.Execution.Interactive)
	fmt.Fprintf(&sb, "\tdrain_grace: %q\n", cfg.Execution.DrainGrace.String())
	sb.WriteString("}\n")

	sb.WriteString("\nscan: {\n")
	writeCUEList(&sb, "include", cfg.Scan.Include)
	writeCUEList(&sb, "exclude", cfg.Scan.Exclude)
	sb.WriteString("}\n")

	sb.WriteString("\nreport: {\n")
	fmt.Fprintf(&sb, "\tformat: %q\n", cfg.Report.Format)
	if cfg.Report.Output != "" {
		fmt.Fprintf(&sb, "\toutput: %q\n", cfg.Report.Output)
	}
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}

func writeCUEList(sb *strings.Builder, key string, items []string) {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	fmt.Fprintf(sb, "\t%s: [%s]\n", key, strings.Join(quoted, ", "))
}

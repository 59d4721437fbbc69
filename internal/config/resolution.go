package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CliFlags holds the values of command-line flags.
type CliFlags struct {
	ConfigPath     string
	Root           string
	Configuration  string
	SkipValidation bool
	NoColor        bool
	Verbose        bool

	// Flags to track if they were explicitly set by the user
	ConfigurationSet  bool
	SkipValidationSet bool
	NoColorSet        bool
}

// Settings is the fully resolved, read-only configuration of one run.
type Settings struct {
	Modules          []string
	Configuration    string
	SkipValidation   bool
	ToolchainCommand string
	Layout           Layout

	NoColor bool
	Verbose bool

	// Resolution metadata (for debugging)
	ConfigFile          string // "" when running on defaults
	ConfigurationSource string // "cli", "env", "file", "default"
	SkipSource          string // "cli", "env", "file", "default"
}

// Resolve builds the run settings from all sources with explicit priority
// order: CLI flags, then environment, then the config file, then defaults.
func Resolve(flags CliFlags) (*Settings, error) {
	file, err := LoadFile(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	s := &Settings{
		Modules:             append([]string(nil), file.Modules...),
		Configuration:       file.Configuration,
		ToolchainCommand:    file.Toolchain.Command,
		Verbose:             flags.Verbose,
		ConfigFile:          file.Path(),
		ConfigurationSource: "default",
		SkipSource:          "default",
	}
	if file.Path() != "" {
		s.ConfigurationSource = "file"
	}
	if file.SkipJSONValidation != nil {
		s.SkipValidation = *file.SkipJSONValidation
		s.SkipSource = "file"
	}

	// Configuration: CLI > ENV > file > default
	if flags.ConfigurationSet {
		s.Configuration = flags.Configuration
		s.ConfigurationSource = "cli"
	} else if env := os.Getenv("MODRELEASE_CONFIGURATION"); env != "" {
		s.Configuration = env
		s.ConfigurationSource = "env"
	}

	// SkipValidation: CLI > ENV > file > default
	if flags.SkipValidationSet {
		s.SkipValidation = flags.SkipValidation
		s.SkipSource = "cli"
	} else if env := getEnvBool("MODRELEASE_SKIP_JSON_VALIDATION"); env != nil {
		s.SkipValidation = *env
		s.SkipSource = "env"
	}

	// NoColor: CLI > ENV > default. NO_COLOR disables colour whatever its value.
	switch {
	case flags.NoColorSet:
		s.NoColor = flags.NoColor
	case getEnvBool("MODRELEASE_NO_COLOR") != nil:
		s.NoColor = *getEnvBool("MODRELEASE_NO_COLOR")
	default:
		s.NoColor = os.Getenv("NO_COLOR") != ""
	}

	root, err := resolveRoot(flags.Root, file)
	if err != nil {
		return nil, err
	}
	s.Layout = Layout{
		Root:        root,
		BinDir:      file.Layout.BinDir,
		StagingDir:  file.Layout.StagingDir,
		ReleasesDir: file.Layout.ReleasesDir,
		ArchiveExt:  file.ArchiveExt,
	}

	if err := validateSettings(s); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return s, nil
}

// resolveRoot picks the workspace root: the --root flag, else the file's
// root relative to the file, else the file's directory, else the working
// directory.
func resolveRoot(flagRoot string, file *File) (string, error) {
	var root string
	switch {
	case flagRoot != "":
		root = flagRoot
	case file.Path() != "" && file.Root != "" && !filepath.IsAbs(file.Root):
		root = filepath.Join(filepath.Dir(file.Path()), file.Root)
	case file.Root != "":
		root = file.Root
	case file.Path() != "":
		root = filepath.Dir(file.Path())
	default:
		root = "."
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve workspace root %q: %w", root, err)
	}
	return abs, nil
}

// getEnvBool reads a boolean from environment variables, trying multiple keys.
// Returns nil if none are set, or a pointer to the boolean value.
func getEnvBool(keys ...string) *bool {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				return &b
			}
		}
	}
	return nil
}

// validateSettings validates the resolved configuration and returns errors for invalid states.
func validateSettings(s *Settings) error {
	if len(s.Modules) == 0 {
		return fmt.Errorf("%w: no modules configured", ErrInvalidConfig)
	}
	if s.Configuration == "" || s.Configuration == "." || s.Configuration == ".." ||
		filepath.Base(s.Configuration) != s.Configuration {
		return fmt.Errorf("%w: bad build configuration %q", ErrInvalidConfig, s.Configuration)
	}
	// Cleanup deletes the configuration output directory; it must not be
	// one of the pipeline's own directories.
	if strings.EqualFold(s.Configuration, s.Layout.StagingDir) || strings.EqualFold(s.Configuration, s.Layout.ReleasesDir) {
		return fmt.Errorf("%w: build configuration %q collides with a pipeline directory", ErrInvalidConfig, s.Configuration)
	}
	if s.ToolchainCommand == "" {
		return fmt.Errorf("%w: toolchain command must not be empty", ErrInvalidConfig)
	}
	if s.Layout.ArchiveExt == "" {
		return fmt.Errorf("%w: archive_ext must not be empty", ErrInvalidConfig)
	}
	return nil
}

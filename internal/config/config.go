package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the project configuration file.
const FileName = ".modrelease.yaml"

// Constants for default values.
const (
	DefaultConfiguration    = "Release"
	DefaultArchiveExt       = "zip"
	DefaultToolchainCommand = "dotnet"
	DefaultBinDir           = "bin"
	DefaultStagingDir       = "ZipStaging"
	DefaultReleasesDir      = "Releases"
)

// DefaultModules are the module source keys released when no config file
// names its own.
var DefaultModules = []string{"sanctuaries", "shackles", "snitches"}

// ErrInvalidConfig is returned for configuration files that parse but
// describe an unusable pipeline.
var ErrInvalidConfig = errors.New("invalid configuration")

// File represents the project's configuration as written in .modrelease.yaml.
type File struct {
	// Root is the workspace root, relative to the directory holding the file.
	Root          string   `yaml:"root"`
	Modules       []string `yaml:"modules"`
	Configuration string   `yaml:"configuration"`
	// SkipJSONValidation is a pointer so an explicit false is distinguishable
	// from an absent key.
	SkipJSONValidation *bool  `yaml:"skip_json_validation"`
	ArchiveExt         string `yaml:"archive_ext"`

	Toolchain struct {
		Command string `yaml:"command"`
	} `yaml:"toolchain"`

	Layout struct {
		BinDir      string `yaml:"bin_dir"`
		StagingDir  string `yaml:"staging_dir"`
		ReleasesDir string `yaml:"releases_dir"`
	} `yaml:"layout"`

	// path is where the file was read from; empty for built-in defaults.
	path string
}

// Path returns the file the configuration was read from, or "" when no
// configuration file was found.
func (f *File) Path() string { return f.path }

// DefaultFile returns the built-in configuration.
func DefaultFile() *File {
	f := &File{
		Modules:       append([]string(nil), DefaultModules...),
		Configuration: DefaultConfiguration,
		ArchiveExt:    DefaultArchiveExt,
	}
	f.Toolchain.Command = DefaultToolchainCommand
	f.Layout.BinDir = DefaultBinDir
	f.Layout.StagingDir = DefaultStagingDir
	f.Layout.ReleasesDir = DefaultReleasesDir
	return f
}

// LoadFile loads configuration from path. An empty path searches the
// working directory and its parents for .modrelease.yaml and falls back to
// the built-in defaults when none exists. An explicit path must exist.
func LoadFile(path string) (*File, error) {
	cfg := DefaultFile()

	if path == "" {
		path = findConfigFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path) // #nosec G304 - config file path is controlled by the user
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var fromFile File
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	merge(cfg, &fromFile)
	cfg.path = path

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// merge copies every value set in src onto dst.
func merge(dst, src *File) {
	if src.Root != "" {
		dst.Root = src.Root
	}
	if len(src.Modules) > 0 {
		dst.Modules = src.Modules
	}
	if src.Configuration != "" {
		dst.Configuration = src.Configuration
	}
	if src.SkipJSONValidation != nil {
		v := *src.SkipJSONValidation
		dst.SkipJSONValidation = &v
	}
	if src.ArchiveExt != "" {
		dst.ArchiveExt = strings.TrimPrefix(src.ArchiveExt, ".")
	}
	if src.Toolchain.Command != "" {
		dst.Toolchain.Command = src.Toolchain.Command
	}
	if src.Layout.BinDir != "" {
		dst.Layout.BinDir = src.Layout.BinDir
	}
	if src.Layout.StagingDir != "" {
		dst.Layout.StagingDir = src.Layout.StagingDir
	}
	if src.Layout.ReleasesDir != "" {
		dst.Layout.ReleasesDir = src.Layout.ReleasesDir
	}
}

func (f *File) validate() error {
	seen := make(map[string]bool, len(f.Modules))
	for _, key := range f.Modules {
		if err := validateKey(key); err != nil {
			return err
		}
		if seen[key] {
			return fmt.Errorf("%w: module %q listed twice", ErrInvalidConfig, key)
		}
		seen[key] = true
	}
	// The pipeline empties and removes these directories, so each must be a
	// single path element below its parent.
	for _, dir := range []struct{ field, value string }{
		{"layout.bin_dir", f.Layout.BinDir},
		{"layout.staging_dir", f.Layout.StagingDir},
		{"layout.releases_dir", f.Layout.ReleasesDir},
	} {
		if !isPathElement(dir.value) {
			return fmt.Errorf("%w: %s %q must name a single directory", ErrInvalidConfig, dir.field, dir.value)
		}
	}
	if strings.EqualFold(f.Layout.StagingDir, f.Layout.ReleasesDir) {
		return fmt.Errorf("%w: staging_dir and releases_dir must differ", ErrInvalidConfig)
	}
	return nil
}

// validateKey rejects module keys that cannot name a single directory.
func validateKey(key string) error {
	if !isPathElement(key) {
		return fmt.Errorf("%w: bad module key %q", ErrInvalidConfig, key)
	}
	return nil
}

// isPathElement reports whether name is one directory name, not empty, not
// "." or "..", and without separators.
func isPathElement(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// findConfigFile looks for .modrelease.yaml in current and parent directories.
func findConfigFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

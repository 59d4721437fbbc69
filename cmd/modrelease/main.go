// modrelease validates, builds, and packages mod projects into versioned
// release archives.
//
// Usage:
//
//	modrelease [flags] [target]
//
// Targets are ValidateJson, Build, Package, and Default (the default). Each
// target runs the targets it depends on first.
//
// Exit codes: 0 success, 1 run failure, 2 usage error.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dkoosis/modrelease/internal/config"
	"github.com/dkoosis/modrelease/internal/console"
	"github.com/dkoosis/modrelease/internal/release"
	"github.com/dkoosis/modrelease/internal/toolchain"
	"github.com/dkoosis/modrelease/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	flags   config.CliFlags
	target  string
	list    bool
	dryRun  bool
	version bool
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	var opts options
	fs := flag.NewFlagSet("modrelease", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: modrelease [flags] [target]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.target, "target", "", "Target to run (default "+release.DefaultTarget+")")
	fs.StringVar(&opts.flags.Configuration, "configuration", config.DefaultConfiguration, "Build configuration passed to the toolchain")
	fs.BoolVar(&opts.flags.SkipValidation, "skipJsonValidation", false, "Skip validating asset JSON documents")
	fs.StringVar(&opts.flags.Root, "root", "", "Workspace root (default: from config file, else current directory)")
	fs.StringVar(&opts.flags.ConfigPath, "config", "", "Path to "+config.FileName)
	fs.BoolVar(&opts.flags.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&opts.flags.Verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&opts.list, "list", false, "List targets and their dependencies")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "Print the execution order without running it")
	fs.BoolVar(&opts.version, "version", false, "Print version information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "configuration":
			opts.flags.ConfigurationSet = true
		case "skipJsonValidation":
			opts.flags.SkipValidationSet = true
		case "no-color":
			opts.flags.NoColorSet = true
		}
	})

	switch rest := fs.Args(); {
	case len(rest) > 1:
		return nil, &usageError{fmt.Sprintf("expected at most one target, got %d", len(rest))}
	case len(rest) == 1 && opts.target != "" && rest[0] != opts.target:
		return nil, &usageError{fmt.Sprintf("conflicting targets %q and %q", rest[0], opts.target)}
	case len(rest) == 1:
		opts.target = rest[0]
	}
	if opts.target == "" {
		opts.target = release.DefaultTarget
	}
	return &opts, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		// The flag package has already printed its own errors with usage.
		var usage *usageError
		if errors.As(err, &usage) {
			fmt.Fprintf(stderr, "modrelease: %v\n", err)
		}
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "modrelease %s\n", version.String())
		return 0
	}

	settings, err := config.Resolve(opts.flags)
	if err != nil {
		fmt.Fprintf(stderr, "modrelease: %v\n", err)
		return 1
	}

	log := newLogger(stderr, settings.Verbose)
	log.Debug("resolved settings",
		"config_file", settings.ConfigFile,
		"root", settings.Layout.Root,
		"configuration", settings.Configuration,
		"configuration_source", settings.ConfigurationSource,
		"skip_validation", settings.SkipValidation,
		"skip_source", settings.SkipSource,
	)

	out := console.New(stdout, settings.NoColor)
	pipeline, err := release.NewPipeline(toolchain.New(settings.ToolchainCommand, stdout, stderr), out)
	if err != nil {
		fmt.Fprintf(stderr, "modrelease: %v\n", err)
		return 1
	}

	if opts.list {
		console.TaskList(out, pipeline.Tasks(), release.DefaultTarget)
		return 0
	}

	order, err := pipeline.Plan(opts.target)
	if err != nil {
		out.Error(err.Error())
		return 1
	}
	if opts.dryRun {
		out.Plan(opts.target, order)
		return 0
	}

	bc, err := release.NewBuildContext(settings, log)
	if err != nil {
		out.Error(err.Error())
		return 1
	}

	out.Header(fmt.Sprintf("modrelease %s (%s)", opts.target, settings.Configuration))
	report, err := pipeline.Run(opts.target, bc)
	out.Summary(report)
	if err != nil {
		reportFailure(out, err)
		return 1
	}
	out.Success(fmt.Sprintf("%s completed", opts.target))
	return 0
}

// reportFailure prints the error chain and, where the cause is recognisable,
// a hint at the fix.
func reportFailure(out *console.Printer, err error) {
	out.Error(err.Error())

	switch {
	case errors.Is(err, release.ErrBuild) && toolchain.IsCommandNotFound(err):
		out.Info("the toolchain command was not found; set toolchain.command in " + config.FileName)
	case errors.Is(err, release.ErrValidation):
		out.Info("fix the document or rerun with --skipJsonValidation")
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// usageError is a command-line mistake the flag package does not detect.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

package magetasks

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/magefile/mage/mg"

	"github.com/dkoosis/modrelease/internal/config"
	"github.com/dkoosis/modrelease/internal/release"
	"github.com/dkoosis/modrelease/internal/toolchain"
)

// Release runs a pipeline target in-process against the mod workspace found
// from the current directory, resolved the same way the binary resolves it.
func Release(target string) error {
	return ReleaseWith(config.CliFlags{}, target)
}

// ReleaseWith runs target with explicit flag values.
func ReleaseWith(flags config.CliFlags, target string) error {
	if target == "" {
		target = release.DefaultTarget
	}

	settings, err := config.Resolve(flags)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if mg.Verbose() || settings.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	p, err := release.NewPipeline(toolchain.New(settings.ToolchainCommand, nil, nil), out)
	if err != nil {
		return err
	}
	bc, err := release.NewBuildContext(settings, log)
	if err != nil {
		return err
	}

	PrintH1Header(fmt.Sprintf("Release %s (%s)", target, settings.Configuration))
	report, err := p.Run(target, bc)
	out.Summary(report)
	return err
}

package release

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/dkoosis/modrelease/internal/archive"
	"github.com/dkoosis/modrelease/internal/fsutil"
)

// Packaging operations, as reported in PackageError.Op.
const (
	OpPrepare = "prepare"
	OpStage   = "stage"
	OpArchive = "archive"
	OpCleanup = "cleanup"
)

// pack stages every module, archives each staged tree, and only then removes
// the staging area and the configuration's build output.
func (p *Pipeline) pack(bc *BuildContext) error {
	staging := bc.Layout.StagingPath()
	releases := bc.Layout.ReleasesPath()

	for _, dir := range []string{staging, releases} {
		if err := fsutil.EnsureEmptyDir(dir); err != nil {
			return &PackageError{Op: OpPrepare, Path: dir, Err: err}
		}
	}

	for _, m := range bc.Modules {
		if err := stageModule(bc, m); err != nil {
			return err
		}
		p.out.Module(m.SourceKey, "staged as "+m.PackageID)
	}

	for _, m := range bc.Modules {
		dest := filepath.Join(releases, m.ArchiveName(bc.Layout.ArchiveExt))
		if err := archive.ZipDir(filepath.Join(staging, m.PackageID), dest); err != nil {
			return &PackageError{Module: m.SourceKey, Op: OpArchive, Path: dest, Err: err}
		}
		bc.Log.Debug("wrote release archive", "module", m.SourceKey, "path", dest)
		p.out.Success(filepath.Base(dest))
	}

	return cleanup(bc)
}

// stageModule assembles one module's package under the staging directory:
// the published build output at the root, the asset tree under assets/, and
// the descriptor copied verbatim.
func stageModule(bc *BuildContext, m Module) error {
	dir := filepath.Join(bc.Layout.StagingPath(), m.PackageID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &PackageError{Module: m.SourceKey, Op: OpStage, Path: dir, Err: err}
	}

	publish := bc.Layout.PublishDir(bc.Configuration, m.SourceKey)
	if err := fsutil.CopyDir(publish, dir); err != nil {
		return &PackageError{Module: m.SourceKey, Op: OpStage, Path: publish, Err: err}
	}

	assetDir := bc.Layout.AssetDir(m.SourceKey)
	if err := fsutil.CopyDir(assetDir, filepath.Join(dir, "assets")); err != nil {
		return &PackageError{Module: m.SourceKey, Op: OpStage, Path: assetDir, Err: err}
	}

	descriptor := bc.Layout.DescriptorPath(m.SourceKey)
	if err := fsutil.CopyFile(descriptor, filepath.Join(dir, filepath.Base(descriptor))); err != nil {
		return &PackageError{Module: m.SourceKey, Op: OpStage, Path: descriptor, Err: err}
	}
	return nil
}

// cleanup removes the staging directory and the configuration's output
// directory. Both removals are attempted; failures are joined.
func cleanup(bc *BuildContext) error {
	var errs []error
	for _, dir := range []string{bc.Layout.StagingPath(), bc.Layout.OutputDir(bc.Configuration)} {
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, &PackageError{Op: OpCleanup, Path: dir, Err: err})
			continue
		}
		bc.Log.Debug("removed build directory", "path", dir)
	}
	return errors.Join(errs...)
}

package config

import "path/filepath"

// Layout derives every filesystem path the pipeline reads or writes from
// the workspace root. Paths that depend on the build configuration take it
// as an argument so producers and cleanup always agree.
type Layout struct {
	Root        string
	BinDir      string
	StagingDir  string
	ReleasesDir string
	ArchiveExt  string
}

// ModuleDir is the project directory of the module with the given key.
func (l Layout) ModuleDir(key string) string {
	return filepath.Join(l.Root, key, key)
}

// DescriptorPath is the module's modinfo.json.
func (l Layout) DescriptorPath(key string) string {
	return filepath.Join(l.ModuleDir(key), "modinfo.json")
}

// AssetDir is the root of the module's asset tree.
func (l Layout) AssetDir(key string) string {
	return filepath.Join(l.ModuleDir(key), "assets")
}

// ProjectFile is the project file handed to the external toolchain.
func (l Layout) ProjectFile(key string) string {
	return filepath.Join(l.ModuleDir(key), key+".csproj")
}

// BinPath is the shared output root.
func (l Layout) BinPath() string {
	return filepath.Join(l.Root, l.BinDir)
}

// OutputDir is the toolchain's output directory for a configuration.
func (l Layout) OutputDir(configuration string) string {
	return filepath.Join(l.BinPath(), configuration)
}

// PublishDir is where the toolchain publishes a module for a configuration.
func (l Layout) PublishDir(configuration, key string) string {
	return filepath.Join(l.OutputDir(configuration), "Mods", key, "publish")
}

// StagingPath is the transient directory packages are assembled in.
func (l Layout) StagingPath() string {
	return filepath.Join(l.BinPath(), l.StagingDir)
}

// ReleasesPath is the directory release archives are written to.
func (l Layout) ReleasesPath() string {
	return filepath.Join(l.BinPath(), l.ReleasesDir)
}

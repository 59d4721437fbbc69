// Package config handles configuration loading and merging for modrelease.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--configuration, --skipJsonValidation, --root, --no-color)
//  2. Environment variables (MODRELEASE_CONFIGURATION, MODRELEASE_SKIP_JSON_VALIDATION, NO_COLOR)
//  3. YAML config file (.modrelease.yaml in the working directory or a parent)
//  4. Hardcoded defaults
//
// Resolution happens exactly once per process, before any module metadata is
// read, and produces an immutable Settings value.
//
// # Workspace Layout
//
// All paths the pipeline touches derive from the workspace root and the
// selected build configuration:
//
//	{root}/{key}/{key}/modinfo.json               descriptor
//	{root}/{key}/{key}/assets/                    asset tree
//	{root}/{key}/{key}/{key}.csproj               project file
//	{root}/bin/{configuration}/Mods/{key}/publish published output
//	{root}/bin/ZipStaging/                        staging (transient)
//	{root}/bin/Releases/                          release archives
package config

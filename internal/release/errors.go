package release

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("asset validation failed")
	// ErrBuild is matched by every BuildError.
	ErrBuild = errors.New("build failed")
	// ErrPackage is matched by every PackageError.
	ErrPackage = errors.New("packaging failed")
)

// ValidationError reports the first malformed asset document.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for JSON file %s: %s", e.Path, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Build phases.
const (
	PhaseClean   = "clean"
	PhasePublish = "publish"
)

// BuildError reports a failed external toolchain invocation.
type BuildError struct {
	Module string
	Phase  string
	Err    error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("module %s: %s: %v", e.Module, e.Phase, e.Err)
}

func (e *BuildError) Unwrap() []error { return []error{ErrBuild, e.Err} }

// PackageError reports a filesystem or archive failure while packaging.
// Module is empty for steps that are not specific to one module.
type PackageError struct {
	Module string
	Op     string
	Path   string
	Err    error
}

func (e *PackageError) Error() string {
	if e.Module == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("module %s: %s %s: %v", e.Module, e.Op, e.Path, e.Err)
}

func (e *PackageError) Unwrap() []error { return []error{ErrPackage, e.Err} }

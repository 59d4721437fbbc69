// Package modinfo reads module descriptor files (modinfo.json).
package modinfo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrMissingField indicates a required descriptor field is absent or empty.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidField indicates a field that cannot be used in a file name.
	ErrInvalidField = errors.New("invalid field value")
	// ErrDuplicateID indicates two modules declare the same modid.
	ErrDuplicateID = errors.New("duplicate modid")
	// ErrMetadata is matched by every MetadataError.
	ErrMetadata = errors.New("module metadata")
)

// Info holds the descriptor fields the release pipeline needs. Keys are
// matched case-insensitively, so "modid", "modID" and "ModID" all populate
// ModID.
type Info struct {
	ModID   string `json:"modid"`
	Version string `json:"version"`
}

// MetadataError reports a descriptor that could not be loaded.
type MetadataError struct {
	Module string
	Path   string
	Err    error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("module %s: descriptor %s: %v", e.Module, e.Path, e.Err)
}

func (e *MetadataError) Unwrap() []error { return []error{ErrMetadata, e.Err} }

// Load reads and validates the descriptor at path for the named module.
// Every failure is returned as a *MetadataError.
func Load(module, path string) (Info, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path derived from configured module keys
	if err != nil {
		return Info{}, &MetadataError{Module: module, Path: path, Err: err}
	}

	info, err := Parse(data)
	if err != nil {
		return Info{}, &MetadataError{Module: module, Path: path, Err: err}
	}
	return info, nil
}

// Parse decodes descriptor bytes and checks that both required fields hold
// non-empty strings.
func Parse(data []byte) (Info, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return Info{}, fmt.Errorf("parse: %w", err)
	}

	info.ModID = strings.TrimSpace(info.ModID)
	info.Version = strings.TrimSpace(info.Version)

	var missing []string
	if info.ModID == "" {
		missing = append(missing, "modid")
	}
	if info.Version == "" {
		missing = append(missing, "version")
	}
	if len(missing) > 0 {
		return Info{}, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	// Both fields end up in staging directory and archive names.
	for _, f := range [...]struct{ name, value string }{{"modid", info.ModID}, {"version", info.Version}} {
		if f.value == "." || f.value == ".." || strings.ContainsAny(f.value, `/\:`) {
			return Info{}, fmt.Errorf("%w: %s %q", ErrInvalidField, f.name, f.value)
		}
	}
	return info, nil
}

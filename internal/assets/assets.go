// Package assets finds and parses the JSON documents in a module's asset tree.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	hcljson "github.com/hashicorp/hcl/v2/json"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// Extension is the file extension of structured asset documents.
const Extension = ".json"

var utf8BOM = []byte("\xef\xbb\xbf")

// IsDocument reports whether name has the asset document extension.
func IsDocument(name string) bool {
	return strings.EqualFold(filepath.Ext(name), Extension)
}

// Documents returns every asset document under dir, recursively, in lexical
// walk order. A missing dir holds no documents.
func Documents(dir string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if !d.IsDir() && IsDocument(d.Name()) {
			docs = append(docs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return docs, nil
}

// Parse checks that src is a well-formed asset document. Acceptance is
// lenient the way game asset loaders are: comments, unquoted property names
// and trailing commas are allowed. When the document is
// rejected, the error also carries the strict JSON parser's first position
// diagnostic, if it has one, to help locate the problem.
func Parse(src []byte, filename string) error {
	src = bytes.TrimPrefix(src, utf8BOM)

	var doc any
	err := json5.Unmarshal(src, &doc)
	if err == nil {
		return nil
	}

	if _, diags := hcljson.Parse(src, filename); diags.HasErrors() {
		return fmt.Errorf("%w (strict JSON: %s)", err, diagnosticsError(diags))
	}
	return err
}

// ParseFile reads and parses the document at path.
func ParseFile(path string) error {
	src, err := os.ReadFile(path) // #nosec G304 - path comes from WalkDir
	if err != nil {
		return err
	}
	return Parse(src, path)
}

// diagnosticsError describes the first error diagnostic.
func diagnosticsError(diags hcl.Diagnostics) error {
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		msg := d.Summary
		if d.Detail != "" {
			msg += ": " + d.Detail
		}
		if d.Subject != nil {
			msg = fmt.Sprintf("line %d, column %d: %s", d.Subject.Start.Line, d.Subject.Start.Column, msg)
		}
		return errors.New(msg)
	}
	return errors.New("invalid document")
}

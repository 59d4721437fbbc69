// Package archive writes release archives.
//
// Archives are reproducible: entries are written in lexical order with a
// fixed modification time and normalised permissions, so zipping the same
// directory twice yields byte-identical files.
package archive

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// epoch is the modification time stamped on every entry (the earliest time
// the zip format can represent).
var epoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// ZipDir writes the contents of dir into a new zip archive at dest. Entry
// names are relative to dir and use forward slashes; dir itself is not an
// entry. An existing dest is replaced.
func ZipDir(dir, dest string) (err error) {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("zip %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("zip %s: not a directory", dir)
	}

	out, err := os.Create(dest) // #nosec G304 - destination is derived from configuration
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close archive: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(dest)
		}
	}()

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		return addEntry(zw, path, filepath.ToSlash(rel), d)
	})
	if walkErr != nil {
		_ = zw.Close()
		return fmt.Errorf("zip %s: %w", dir, walkErr)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}

func addEntry(zw *zip.Writer, path, name string, d fs.DirEntry) error {
	if d.IsDir() {
		hdr := &zip.FileHeader{Name: name + "/", Method: zip.Store, Modified: epoch}
		hdr.SetMode(fs.ModeDir | 0o755)
		_, err := zw.CreateHeader(hdr)
		return err
	}
	if !d.Type().IsRegular() {
		return fmt.Errorf("%s: unsupported file type %s", path, d.Type())
	}

	hdr := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: epoch}
	hdr.SetMode(0o644)
	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}

	f, err := os.Open(path) // #nosec G304 - path comes from WalkDir
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	_, err = io.Copy(w, f)
	return err
}

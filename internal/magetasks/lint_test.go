package magetasks

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinter_MissingOptionalWarns(t *testing.T) {
	buf := captureOutput(t)
	l := linter{
		name:     "Shadowlint",
		cmd:      filepath.Join(t.TempDir(), "shadowlint"),
		optional: true,
		install:  "example.com/shadowlint@latest",
	}

	err := l.run()
	require.Error(t, err)
	assert.True(t, IsCommandNotFound(err))
	assert.Contains(t, buf.String(), "[warn] Shadowlint not found (install: go install example.com/shadowlint@latest)")
}

func TestLinter_MissingRequiredFails(t *testing.T) {
	buf := captureOutput(t)
	l := linter{name: "Vet", cmd: filepath.Join(t.TempDir(), "vet")}

	err := l.run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Vet failed")
	assert.NotContains(t, buf.String(), "[warn]")
}

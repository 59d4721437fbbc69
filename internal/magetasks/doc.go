// Package magetasks provides the developer tasks behind the Magefile:
// building the modrelease binary, tests, linters, and an in-process release
// of a mod workspace.
package magetasks

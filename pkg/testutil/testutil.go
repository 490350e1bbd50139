// Package testutil contains common test utilities.
package testutil

import (
	"os"
	"path/filepath"

	"src.tarn.sh/pkg/must"
)

// Cleanuper wraps the Cleanup method. It is a subset of [testing.TB], thus
// satisfied by [*testing.T] and [*testing.B].
type Cleanuper interface {
	Cleanup(func())
}

// TempDir creates a temporary directory for testing that will be removed
// after the test finishes. It is different from testing.TB.TempDir in that it
// resolves symlinks in the path of the directory.
func TempDir(c Cleanuper) string {
	dir := must.OK1(os.MkdirTemp("", "tarntest."))
	dir = must.OK1(filepath.EvalSymlinks(dir))
	c.Cleanup(func() {
		err := os.RemoveAll(dir)
		if err != nil {
			println("failed to remove temp dir:", err.Error())
		}
	})
	return dir
}

// InTempDir is like TempDir, but also changes into the directory, and
// changes back to the working directory when the test finishes. It returns
// the path of the temporary directory.
func InTempDir(c Cleanuper) string {
	oldWd := must.OK1(os.Getwd())
	dir := TempDir(c)
	must.OK(os.Chdir(dir))
	c.Cleanup(func() { must.OK(os.Chdir(oldWd)) })
	return dir
}

// Dir describes the layout of a directory. The keys are file names and the
// values are file contents.
type Dir map[string]string

// ApplyDir creates the files described by dir under the working directory.
func ApplyDir(dir Dir) {
	for name, content := range dir {
		must.WriteFile(name, content)
	}
}

package backend

import (
	"os"
	"path/filepath"
	"strings"
)

// Engine probes test whether the engine's shared runtime library is
// present on the host, without loading it or allocating engine state.
// Search order follows the dynamic linker: LD_LIBRARY_PATH first, then
// the usual system library directories.

var systemLibDirs = []string{
	"/usr/local/lib",
	"/usr/lib",
	"/usr/lib64",
	"/usr/lib/x86_64-linux-gnu",
	"/usr/lib/aarch64-linux-gnu",
	"/opt/onnxruntime/lib",
}

// LibraryAvailable reports whether any of the named shared libraries can
// be found in the linker search path. Versioned names (libfoo.so.1) match
// their unversioned stem too.
func LibraryAvailable(names ...string) bool {
	dirs := libraryDirs()
	for _, name := range names {
		for _, dir := range dirs {
			if matchInDir(dir, name) {
				return true
			}
		}
	}
	return false
}

func libraryDirs() []string {
	var dirs []string
	if p := os.Getenv("LD_LIBRARY_PATH"); p != "" {
		for _, d := range filepath.SplitList(p) {
			if d != "" {
				dirs = append(dirs, d)
			}
		}
	}
	return append(dirs, systemLibDirs...)
}

func matchInDir(dir, name string) bool {
	if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
		return true
	}
	// Accept versioned installs: libonnxruntime.so.1.21.0 etc.
	matches, err := filepath.Glob(filepath.Join(dir, name+".*"))
	if err != nil {
		return false
	}
	for _, m := range matches {
		if strings.HasPrefix(filepath.Base(m), name+".") {
			return true
		}
	}
	return false
}

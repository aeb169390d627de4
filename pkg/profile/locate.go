// Package profile finds stored ICC profiles and applies them to the display.
package profile

import (
	"os"
	"path/filepath"

	"github.com/autocal/autocal/pkg/ambient"
	"github.com/autocal/autocal/pkg/settings"
)

// profileStores returns the ColorSync profile stores searched after the
// working (or override) directory: user-level first, then system-wide.
// Function var for test seams.
var profileStores = func() []string {
	var stores []string
	if home, err := os.UserHomeDir(); err == nil {
		stores = append(stores, filepath.Join(home, "Library", "ColorSync", "Profiles"))
	}
	stores = append(stores, "/Library/ColorSync/Profiles")
	return stores
}

// FilenameForCondition maps an ambient condition to its stored profile
// filename.
func FilenameForCondition(cond ambient.Condition) string {
	return settings.BaseName(cond) + ".icc"
}

// Locate searches for filename in order: extraDir (or the current working
// directory when empty), the user profile store, the system profile store.
// It returns the first existing regular file. Absence is an expected outcome,
// not an error: ok is false and no path is returned. Locate never creates
// files.
func Locate(filename, extraDir string) (string, bool) {
	first := extraDir
	if first == "" {
		if cwd, err := os.Getwd(); err == nil {
			first = cwd
		}
	}

	candidates := []string{filepath.Join(first, filename)}
	for _, store := range profileStores() {
		candidates = append(candidates, filepath.Join(store, filename))
	}

	for _, p := range candidates {
		st, err := os.Stat(p)
		if err != nil {
			continue
		}
		if !st.Mode().IsRegular() {
			continue
		}
		return p, true
	}

	return "", false
}

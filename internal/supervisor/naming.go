package supervisor

import (
	"path/filepath"
	"strings"
)

// DisplayName derives a human-readable name for the supervised binary
// from its path: the directory is stripped, as is a single trailing
// extension. Inputs without a usable base name fall back to "child".
func DisplayName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	if name == "" || name == "." || name == string(filepath.Separator) {
		return "child"
	}

	return name
}

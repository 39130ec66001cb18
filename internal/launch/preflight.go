package launch

import (
	"fmt"
)

// Tool is an external build dependency verified before a release build.
type Tool struct {
	// Name is the executable looked up on the path
	Name string

	// Purpose is the human-readable role of the tool
	Purpose string

	// Install is the command suggested when the tool is missing
	Install string
}

// RequiredTools lists the build toolchain in check order. The checks
// are fail-fast: the first missing tool aborts the preflight and the
// remaining tools are not checked.
var RequiredTools = []Tool{
	{Name: "goreleaser", Purpose: "release packager", Install: "brew install goreleaser"},
	{Name: "cosign", Purpose: "artifact signing", Install: "brew install cosign"},
	{Name: "zig", Purpose: "cross compiler", Install: "brew install zig"},
	{Name: "syft", Purpose: "sbom generator", Install: "brew install syft"},
}

// MissingToolError reports the first build tool not found on the path.
type MissingToolError struct {
	Tool Tool
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("missing required tool: %s", e.Tool.Name)
}

// Preflight verifies that every required build tool is available,
// printing one progress line per check. On the first missing tool it
// prints an install hint and returns a MissingToolError.
func (l *Launcher) Preflight() error {
	for _, tool := range RequiredTools {
		fmt.Fprintf(l.out, "checking for %s (%s)... ", tool.Name, tool.Purpose)

		if _, err := l.lookPath(tool.Name); err != nil {
			fmt.Fprintln(l.out, "✗")
			fmt.Fprintf(l.out, "%s not found, run `%s` and try again\n", tool.Name, tool.Install)

			return &MissingToolError{Tool: tool}
		}

		fmt.Fprintln(l.out, "✓")
	}

	return nil
}

package launch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreflight_AllToolsPresent(t *testing.T) {
	l, _, out := createLauncher(Config{})

	var looked []string
	l.lookPath = func(file string) (string, error) {
		looked = append(looked, file)
		return "/usr/local/bin/" + file, nil
	}

	err := l.Preflight()
	assert.NoError(t, err)

	assert.Equal(t, []string{"goreleaser", "cosign", "zig", "syft"}, looked)
	assert.Contains(t, out.String(), "✓")
	assert.NotContains(t, out.String(), "✗")
}

func TestPreflight_FailFast_StopsAtFirstMissing(t *testing.T) {
	l, _, out := createLauncher(Config{})

	var looked []string
	l.lookPath = func(file string) (string, error) {
		looked = append(looked, file)
		if file == "zig" {
			return "", errors.New("not found")
		}
		return "/usr/local/bin/" + file, nil
	}

	err := l.Preflight()

	var missingErr *MissingToolError
	assert.ErrorAs(t, err, &missingErr)
	assert.Equal(t, "zig", missingErr.Tool.Name)

	// syft is never checked once zig has failed
	assert.Equal(t, []string{"goreleaser", "cosign", "zig"}, looked)

	// the install hint names the failing tool
	assert.Contains(t, out.String(), "brew install zig")
}

func TestPreflight_ReportsFirstMissingInOrder(t *testing.T) {
	l, _, out := createLauncher(Config{})

	l.lookPath = func(file string) (string, error) {
		return "", errors.New("not found")
	}

	err := l.Preflight()

	var missingErr *MissingToolError
	assert.ErrorAs(t, err, &missingErr)
	assert.Equal(t, "goreleaser", missingErr.Tool.Name)
	assert.Contains(t, out.String(), "brew install goreleaser")
	assert.NotContains(t, out.String(), "cosign")
}

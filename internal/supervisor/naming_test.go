package supervisor_test

import (
	"testing"

	"github.com/gohome-dev/warden/internal/supervisor"
	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{path: "/usr/local/bin/gohome", expected: "gohome"},
		{path: "gohome", expected: "gohome"},
		{path: "./gohome", expected: "gohome"},
		{path: "gohome.exe", expected: "gohome"},
		{path: "/usr/local/bin/", expected: "bin"},
		{path: "", expected: "child"},
		{path: "/", expected: "child"},
		{path: ".", expected: "child"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, supervisor.DisplayName(tt.path))
		})
	}
}

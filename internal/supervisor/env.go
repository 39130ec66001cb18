package supervisor

import "strings"

const childLogVar = "RUST_LOG"

// childEnv builds the environment of the child process. The parent
// environment is passed through unmodified; the child log level is
// appended only if the parent does not already provide one.
func childEnv(base []string, childLog string) []string {
	if childLog == "" {
		return base
	}

	for _, kv := range base {
		if strings.HasPrefix(kv, childLogVar+"=") {
			return base
		}
	}

	env := make([]string, len(base), len(base)+1)
	copy(env, base)

	return append(env, childLogVar+"="+childLog)
}

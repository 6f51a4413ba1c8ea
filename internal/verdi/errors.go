package verdi

import "strings"

// benignStderr lists stderr fragments that indicate expected first-run
// conditions rather than failures. Output containing one of these is
// suppressed from the results feed instead of being reported as an error.
var benignStderr = []string{
	"configuration file",
	"does not exist",
}

// IsBenignStderr reports whether stderr only carries an expected
// first-run warning (missing configuration file on a fresh install).
func IsBenignStderr(stderr string) bool {
	s := strings.ToLower(stderr)
	if s == "" {
		return false
	}
	for _, frag := range benignStderr {
		if !strings.Contains(s, frag) {
			return false
		}
	}
	return true
}

// FriendlyError maps a failed command's stderr to guidance a user can act
// on. Unknown failures pass through unchanged.
func FriendlyError(cmdName, stderr string) string {
	name := strings.ToLower(cmdName)
	errLower := strings.ToLower(stderr)

	if strings.Contains(name, "profile") || strings.Contains(errLower, "profile") {
		return "No profile configured.\n\n" +
			"Please run:\n" +
			"  verdi quicksetup  (for quick setup)\n" +
			"  verdi setup       (for detailed setup)"
	}
	if strings.Contains(name, "computer") && strings.Contains(stderr, "No") {
		return "No computers configured.\n\nUse 'verdi computer setup' to add computers."
	}
	if strings.Contains(name, "process") && strings.Contains(stderr, "No") {
		return "No processes found.\n\nSubmit calculations to see them here."
	}
	if stderr == "" {
		return "Command failed"
	}
	return stderr
}

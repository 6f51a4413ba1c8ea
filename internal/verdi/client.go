// Package verdi is the boundary to the record-keeping backend's CLI. It
// knows how to invoke read-only verdi commands locally or on a remote
// host, and defines the static registry of panels and tabs built on them.
package verdi

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"

	"github.com/lazyverdi/lazyverdi/internal/runner"
)

// DefaultBinary is the backend CLI executable name.
const DefaultBinary = "verdi"

// Client invokes verdi commands, optionally on a remote host over ssh.
type Client struct {
	Binary string
	Remote string // "user@host" or empty for local

	mu       sync.Mutex
	execPath string // resolved binary path, cleared by Reset
}

// NewClient creates a client for the given remote ("" for local).
func NewClient(remote string) *Client {
	return &Client{Binary: DefaultBinary, Remote: remote}
}

// Run executes a verdi command and captures its streams. A non-zero exit
// is not an error here: it comes back in Output.ExitCode with stderr
// attached, so the engine can classify it. The returned error is reserved
// for invocation faults (binary missing, ssh unreachable) and cancellation.
func (c *Client) Run(ctx context.Context, args ...string) (runner.Output, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.Remote != "" {
		remoteCmd := buildRemoteShellCommand(c.Binary, args...)
		// "--" prevents Remote from being parsed as an ssh option.
		return c.capture(ctx, "ssh", "--", c.Remote, remoteCmd)
	}
	bin, err := c.resolve()
	if err != nil {
		return runner.Output{}, err
	}
	return c.capture(ctx, bin, args...)
}

func (c *Client) capture(ctx context.Context, bin string, args ...string) (runner.Output, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := runner.Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			return out, nil
		}
		return out, err
	}
	return out, nil
}

// resolve looks up the binary once and caches the result until Reset.
func (c *Client) resolve() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.execPath != "" {
		return c.execPath, nil
	}
	path, err := exec.LookPath(c.Binary)
	if err != nil {
		return "", err
	}
	c.execPath = path
	return path, nil
}

// Reset clears per-invocation cached state. The engine calls it before and
// after every invocation so one command's leftovers (a stale resolved
// path after an upgrade, for instance) never leak into the next.
func (c *Client) Reset() {
	c.mu.Lock()
	c.execPath = ""
	c.mu.Unlock()
}

// IsInstalled checks whether the backend CLI is available on the target.
func (c *Client) IsInstalled() bool {
	if c.Remote == "" {
		_, err := exec.LookPath(c.Binary)
		return err == nil
	}
	_, err := c.Run(context.Background(), "--version")
	return err == nil
}

// ShellQuote returns a POSIX-shell-safe single-quoted string.
//
// Required for ssh remote commands because OpenSSH transmits a single
// command string to the remote shell, not an argv vector.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	// Close-quote, escape single quote, reopen: ' -> '\''.
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func buildRemoteShellCommand(command string, args ...string) string {
	parts := make([]string, 0, 1+len(args))
	parts = append(parts, command)
	for _, arg := range args {
		parts = append(parts, ShellQuote(arg))
	}
	return strings.Join(parts, " ")
}

package verdi

import (
	"context"
	"strings"

	"github.com/lazyverdi/lazyverdi/internal/runner"
)

// Command is a read-only verdi CLI invocation bound to a client. It is
// the exec-backed flavour of the engine's Invoker; in-process probes use
// runner.QueryFunc instead.
type Command struct {
	name   string
	args   []string
	client *Client
}

// Command builds an invoker for "verdi args...". The name is a short
// identifier used in results and error mapping, e.g. "computer list".
func (c *Client) Command(name string, args ...string) Command {
	return Command{name: name, args: args, client: c}
}

// Name returns the command's display identifier.
func (cmd Command) Name() string { return cmd.name }

// Args returns the CLI arguments after the binary.
func (cmd Command) Args() []string { return cmd.args }

// String renders the full command line for display.
func (cmd Command) String() string {
	parts := append([]string{cmd.client.Binary}, cmd.args...)
	return strings.Join(parts, " ")
}

// Invoke runs the command through the bound client.
func (cmd Command) Invoke(ctx context.Context) (runner.Output, error) {
	return cmd.client.Run(ctx, cmd.args...)
}

var _ runner.Invoker = Command{}

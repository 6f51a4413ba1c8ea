package verdi

import (
	"context"
	"fmt"
	"strings"

	"github.com/lazyverdi/lazyverdi/internal/format"
	"github.com/lazyverdi/lazyverdi/internal/panel"
	"github.com/lazyverdi/lazyverdi/internal/parse"
	"github.com/lazyverdi/lazyverdi/internal/runner"
)

// Panel is one dashboard panel definition: a stable id and its tabs.
// Panel-1 through panel-3 are tabular, panel-4 and panel-5 free text.
// Panel-0, the results feed, has no backing commands and is not listed.
type Panel struct {
	ID   string
	Tabs []panel.Tab
}

// Title renders the panel header: "[N] tab1 | tab2" with the active tab
// marked.
func (p Panel) Title(active int) string {
	names := make([]string, len(p.Tabs))
	for i, t := range p.Tabs {
		if i == active {
			names[i] = "*" + t.Name
		} else {
			names[i] = t.Name
		}
	}
	n := strings.TrimPrefix(p.ID, "panel-")
	return fmt.Sprintf("[%s] %s", n, strings.Join(names, " | "))
}

// Registry returns the five dashboard panels bound to the given client.
// The set is static; tabs load lazily on first visit.
func Registry(c *Client) []Panel {
	return []Panel{
		{ID: "panel-1", Tabs: []panel.Tab{
			// -a keeps hidden computers visible so the listing is stable
			// across sessions.
			{Name: "computer", Spec: c.Command("computer list", "computer", "list", "-r", "-a"), Format: format.TableOutput, Parse: parse.LabelList},
			{Name: "code", Spec: c.Command("code list", "code", "list"), Format: format.TableOutput, Parse: parse.Output},
			{Name: "plugin", Spec: c.Command("plugin list", "plugin", "list"), Format: format.TableOutput, Parse: parse.EntryPointList},
		}},
		{ID: "panel-2", Tabs: []panel.Tab{
			{Name: "process", Spec: c.Command("process list", "process", "list"), Format: format.TableOutput, Parse: parse.Output},
			{Name: "calcjob", Spec: c.Command("calcjob", "calcjob", "--help"), Format: format.None, Parse: parse.CommandHelp},
		}},
		{ID: "panel-3", Tabs: []panel.Tab{
			{Name: "group", Spec: c.Command("group list", "group", "list"), Format: format.TableOutput, Parse: parse.Output},
			{Name: "node", Spec: c.Command("node list", "node", "list"), Format: format.TableOutput, Parse: parse.Output},
		}},
		{ID: "panel-4", Tabs: []panel.Tab{
			{Name: "config", Spec: c.Command("config list", "config", "list", "--"), Format: format.StatusText},
			{Name: "profile", Spec: c.Command("profile list", "profile", "list"), Format: format.StatusText},
		}},
		{ID: "panel-5", Tabs: []panel.Tab{
			{Name: "status", Spec: StatusSummary(c), Format: format.None},
			{Name: "daemon", Spec: c.Command("daemon status", "daemon", "status"), Format: format.StatusText},
			{Name: "storage", Spec: c.Command("storage info", "storage", "info"), Format: format.StatusText},
		}},
	}
}

// noProfileGuidance is shown when the backend has no profile yet.
const noProfileGuidance = "⚠ profile:     No profile configured\n\n" +
	"To set up, run:\n" +
	"  verdi quicksetup"

// StatusSummary probes overall backend health. Unlike the tab commands
// it is a plain query: "verdi status" exits non-zero when any service is
// down but still prints the per-service report, so the probe keeps that
// report and only substitutes guidance when no profile exists at all.
func StatusSummary(c *Client) runner.Invoker {
	return runner.QueryFunc("status", func(ctx context.Context) (string, error) {
		out, err := c.Run(ctx, "status")
		if err != nil {
			return "", err
		}
		text := strings.TrimSpace(out.Stdout)
		if out.ExitCode != 0 && text == "" {
			combined := strings.ToLower(out.Stderr)
			if strings.Contains(combined, "profile") || strings.Contains(combined, "configuration") {
				return noProfileGuidance, nil
			}
			return strings.TrimSpace(out.Stderr), nil
		}
		if text == "" {
			return noProfileGuidance, nil
		}
		return text, nil
	})
}

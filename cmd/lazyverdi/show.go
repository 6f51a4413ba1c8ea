package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lazyverdi/lazyverdi/internal/output"
	"github.com/lazyverdi/lazyverdi/internal/panel"
	"github.com/lazyverdi/lazyverdi/internal/runner"
	"github.com/lazyverdi/lazyverdi/internal/verdi"
)

var (
	jsonFlag bool
	yamlFlag bool
)

var showCmd = &cobra.Command{
	Use:   "show TAB",
	Short: "Run one dashboard tab and print its contents",
	Long: `Run a single dashboard tab's command and print the parsed result.

Tab names match the dashboard: computer, code, plugin, process, calcjob,
group, node, config, profile, status, daemon, storage.

Examples:
  # Aligned text table
  lazyverdi show process

  # Machine-readable, for scripting
  lazyverdi show computer --json
  lazyverdi show status --yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&jsonFlag, "json", false, "output JSON")
	showCmd.Flags().BoolVar(&yamlFlag, "yaml", false, "output YAML")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	client := verdi.NewClient(cfg.Remote)
	if cfg.VerdiBinary != "" {
		client.Binary = cfg.VerdiBinary
	}

	tab, ok := findTab(client, args[0])
	if !ok {
		return fmt.Errorf("unknown tab %q (available: %s)", args[0], strings.Join(tabNames(client), ", "))
	}

	run := runner.New(runner.WithScope(client))
	defer run.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	res, err := run.Execute(ctx, tab.Spec)
	if err != nil {
		return err
	}
	if !res.Success() {
		return fmt.Errorf("%s failed: %s", res.Command, verdi.FriendlyError(res.Command, strings.TrimSpace(res.Stderr)))
	}

	content := tab.Process(res.Stdout)
	formatter := output.New(output.WithFormat(output.DetectFormat(jsonFlag, yamlFlag)))

	switch formatter.Format() {
	case output.FormatJSON:
		return formatter.JSON(showDoc(tab, content))
	case output.FormatYAML:
		return formatter.YAML(showDoc(tab, content))
	default:
		if content.IsTable() {
			output.RenderTable(formatter.Writer(), *content.Table, terminalBudget())
			return nil
		}
		_, err := fmt.Fprintln(formatter.Writer(), content.Text)
		return err
	}
}

// showDoc shapes tab content for JSON/YAML output.
func showDoc(tab panel.Tab, c panel.Content) interface{} {
	if c.IsTable() {
		return struct {
			Tab string `json:"tab" yaml:"tab"`
			output.TableDoc
		}{tab.Name, output.NewTableDoc(*c.Table)}
	}
	return struct {
		Tab  string `json:"tab" yaml:"tab"`
		Text string `json:"text" yaml:"text"`
	}{tab.Name, c.Text}
}

func terminalBudget() int {
	if !output.IsTerminal() {
		return 0 // no truncation when piped
	}
	return output.TerminalWidth(80)
}

func findTab(client *verdi.Client, name string) (panel.Tab, bool) {
	for _, p := range verdi.Registry(client) {
		for _, tab := range p.Tabs {
			if tab.Name == name {
				return tab, true
			}
		}
	}
	return panel.Tab{}, false
}

func tabNames(client *verdi.Client) []string {
	var names []string
	for _, p := range verdi.Registry(client) {
		for _, tab := range p.Tabs {
			names = append(names, tab.Name)
		}
	}
	sort.Strings(names)
	return names
}

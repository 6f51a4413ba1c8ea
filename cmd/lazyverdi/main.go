package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lazyverdi/lazyverdi/internal/config"
	"github.com/lazyverdi/lazyverdi/internal/tui/dashboard"
	"github.com/lazyverdi/lazyverdi/internal/util"
)

var (
	configPath  string
	remoteFlag  string
	refreshFlag string
)

var rootCmd = &cobra.Command{
	Use:   "lazyverdi",
	Short: "Terminal dashboard for the verdi CLI",
	Long: `LazyVerdi is a read-only terminal dashboard over the verdi CLI.

It shows computers, codes, plugins, processes, groups, nodes, profiles
and service status in tabbed panels that load lazily and refresh
automatically, with every backend command serialized through a single
execution queue.`,
	RunE: runDashboard,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/lazyverdi/config.toml)")
	rootCmd.PersistentFlags().StringVar(&remoteFlag, "remote", "", "run verdi on a remote host over ssh (user@host)")
	rootCmd.Flags().StringVar(&refreshFlag, "refresh", "", "auto-refresh interval (e.g. 5s, 1m; 0 disables)")
}

func loadConfig() *config.Config {
	cfg := config.LoadOrDefault(configPath)
	if remoteFlag != "" {
		cfg.Remote = remoteFlag
	}
	return cfg
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if refreshFlag != "" {
		d, err := util.ParseDuration(refreshFlag)
		if err != nil && refreshFlag != "0" {
			return fmt.Errorf("invalid --refresh: %w", err)
		}
		if refreshFlag == "0" {
			d = 0
		}
		cfg.Refresh.IntervalSeconds = d.Seconds()
	}
	return dashboard.Run(cfg)
}

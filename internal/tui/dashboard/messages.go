package dashboard

import (
	"github.com/lazyverdi/lazyverdi/internal/config"
	"github.com/lazyverdi/lazyverdi/internal/runner"
)

// PanelLoadedMsg is sent when a tab's command has finished.
type PanelLoadedMsg struct {
	Panel   int // 1-5
	TabIdx  int
	TabName string
	CmdName string
	Auto    bool // produced by the auto-refresh loop
	Result  *runner.Result
	Err     error // cancellation or engine shutdown
}

// ConfigReloadedMsg is sent when the config file changes on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

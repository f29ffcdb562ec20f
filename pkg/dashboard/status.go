package dashboard

import "github.com/harveywai/leadflow/pkg/leadapi"

// Accent colors of the system status indicator.
const (
	AccentLive  = "#10b981"
	AccentLocal = "#3b82f6"
)

// SystemStatus is the two-state indicator derived from the backend's
// config_status flags.
type SystemStatus struct {
	Live   bool   `json:"live"`
	Label  string `json:"label"`
	Accent string `json:"accent"`
}

// StatusFor derives the indicator from cs. A missing cs is local-only.
func StatusFor(cs *leadapi.ConfigStatus) SystemStatus {
	if cs.Live() {
		return SystemStatus{
			Live:   true,
			Label:  "System Online (ClickUp LIVE)",
			Accent: AccentLive,
		}
	}
	return SystemStatus{
		Label:  "System Online (Local Dashboard Only)",
		Accent: AccentLocal,
	}
}

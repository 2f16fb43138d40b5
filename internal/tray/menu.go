package tray

import (
	"netswitch/internal/controller"
)

// ActionKind says what a menu selection does.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSwitch
	ActionSettings
	ActionQuit
)

// Action is a menu selection.  Mode is set for ActionSwitch only.
type Action struct {
	Kind ActionKind
	Mode controller.Mode
}

// Item is one menu entry.
type Item struct {
	Title   string
	Tooltip string
	Enabled bool
	Action  Action
}

// Menu is the full tray view for one status snapshot.  Its layout is
// fixed: a disabled header, one entry per mode, then Settings and Quit.
type Menu struct {
	Header   Item
	Modes    []Item
	Settings Item
	Quit     Item
	// Tooltip is shown on hover and carries the last error, if any.
	Tooltip string
}

// AppName is the tray title.
const AppName = "Network Switcher"

// ModeIcon returns the glyph shown next to m.
func ModeIcon(m controller.Mode) string {
	switch m {
	case controller.WifiOnly:
		return "📶"
	case controller.WiredOnly:
		return "🌐"
	case controller.Both:
		return "🔄"
	case controller.Hotspot:
		return "📡"
	case controller.Disconnected:
		return "❌"
	}
	return ""
}

func actionTitle(m controller.Mode) string {
	var text string
	switch m {
	case controller.WifiOnly:
		text = "Switch to Wi-Fi"
	case controller.WiredOnly:
		text = "Switch to Wired"
	case controller.Both:
		text = "Enable Both Wi-Fi and Wired"
	case controller.Hotspot:
		text = "Turn On Hotspot"
	case controller.Disconnected:
		text = "Stop All Connections"
	}
	return ModeIcon(m) + " " + text
}

// HeaderTitle renders the current-connection line.
func HeaderTitle(st controller.ConnectionStatus) string {
	m := st.CurrentMode()
	if m == controller.Disconnected {
		return "Current Connection: " + st.Label()
	}
	return ModeIcon(m) + " Current Connection: " + st.Label()
}

// BuildMenu renders st into a Menu.  notice, when non-empty, is appended
// to the tooltip.
func BuildMenu(st controller.ConnectionStatus, notice string) Menu {
	current := st.CurrentMode()

	menu := Menu{
		Header: Item{Title: HeaderTitle(st)},
		Settings: Item{
			Title:   "Network Settings…",
			Tooltip: "Open the desktop network settings",
			Enabled: true,
			Action:  Action{Kind: ActionSettings},
		},
		Quit: Item{
			Title:   "Quit",
			Enabled: true,
			Action:  Action{Kind: ActionQuit},
		},
		Tooltip: AppName + ": " + st.Label(),
	}
	if len(st.Degraded) > 0 {
		menu.Header.Tooltip = "Some network state could not be read"
	}

	for _, m := range controller.AllModes() {
		item := Item{
			Title:   actionTitle(m),
			Enabled: true,
			Action:  Action{Kind: ActionSwitch, Mode: m},
		}
		if m == current {
			item.Tooltip = "Current mode"
		}
		menu.Modes = append(menu.Modes, item)
	}

	if notice != "" {
		menu.Tooltip += "\n" + notice
	}
	return menu
}

package tray

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netswitch/internal/controller"
	"netswitch/internal/nmcli"
)

func TestHeaderTitle(t *testing.T) {
	tests := []struct {
		name string
		st   controller.ConnectionStatus
		want string
	}{
		{"disconnected", controller.ConnectionStatus{}, "Current Connection: Not Connected"},
		{"wifi", controller.ConnectionStatus{WifiConnected: true, WifiNetworkName: "HomeNet"}, "📶 Current Connection: Wi-Fi (HomeNet)"},
		{"wired", controller.ConnectionStatus{EthernetConnected: true}, "🌐 Current Connection: Wired"},
		{"both", controller.ConnectionStatus{WifiConnected: true, EthernetConnected: true}, "🔄 Current Connection: Both Wi-Fi and Wired"},
		{"hotspot", controller.ConnectionStatus{HotspotActive: true, EthernetConnected: true}, "📡 Current Connection: Hotspot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HeaderTitle(tt.st))
		})
	}
}

func TestBuildMenu_Layout(t *testing.T) {
	st := controller.ConnectionStatus{WifiRadio: nmcli.RadioEnabled, EthernetConnected: true}
	menu := BuildMenu(st, "")

	assert.False(t, menu.Header.Enabled)
	assert.Equal(t, ActionNone, menu.Header.Action.Kind)

	require.Len(t, menu.Modes, 5)
	titles := make([]string, len(menu.Modes))
	for i, it := range menu.Modes {
		titles[i] = it.Title
		assert.True(t, it.Enabled)
		assert.Equal(t, ActionSwitch, it.Action.Kind)
	}
	assert.Equal(t, []string{
		"📶 Switch to Wi-Fi",
		"🌐 Switch to Wired",
		"🔄 Enable Both Wi-Fi and Wired",
		"📡 Turn On Hotspot",
		"❌ Stop All Connections",
	}, titles)
	assert.Equal(t, controller.Hotspot, menu.Modes[3].Action.Mode)
	assert.Equal(t, "Current mode", menu.Modes[1].Tooltip)

	assert.Equal(t, ActionSettings, menu.Settings.Action.Kind)
	assert.Equal(t, "Network Settings…", menu.Settings.Title)
	assert.Equal(t, ActionQuit, menu.Quit.Action.Kind)
	assert.Equal(t, "Network Switcher: Wired", menu.Tooltip)
}

func TestBuildMenu_NoticeAndDegraded(t *testing.T) {
	st := controller.ConnectionStatus{Degraded: []string{controller.FieldRadio}}
	menu := BuildMenu(st, "Switch to Wired failed at ethernet-up")

	assert.True(t, strings.HasSuffix(menu.Tooltip, "\nSwitch to Wired failed at ethernet-up"))
	assert.NotEmpty(t, menu.Header.Tooltip)
}

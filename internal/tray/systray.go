package tray

import (
	"sync"

	"fyne.io/systray"

	"netswitch/internal/controller"
)

// Systray is the Backend backed by fyne.io/systray (StatusNotifierItem
// over D-Bus on Linux).
type Systray struct {
	mu       sync.Mutex
	header   *systray.MenuItem
	modes    []*systray.MenuItem
	settings *systray.MenuItem
	quit     *systray.MenuItem

	selections chan Action
}

// NewSystray returns an idle backend; Run creates the tray.
func NewSystray() *Systray {
	return &Systray{selections: make(chan Action)}
}

// Run implements Backend.  It must be called from the main goroutine.
func (s *Systray) Run(onReady, onExit func()) {
	systray.Run(func() {
		systray.SetTitle(AppName)
		systray.SetTooltip(AppName)
		s.build(BuildMenu(controller.ConnectionStatus{}, ""))
		onReady()
	}, onExit)
}

// Quit implements Backend.
func (s *Systray) Quit() { systray.Quit() }

// SetIcon implements Backend.
func (s *Systray) SetIcon(icon []byte) { systray.SetIcon(icon) }

// Selections implements Backend.
func (s *Systray) Selections() <-chan Action { return s.selections }

// Render implements Backend.  The item set never changes, so rendering
// only retitles existing items.
func (s *Systray) Render(menu Menu) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.header == nil {
		return
	}

	update(s.header, menu.Header)
	for i, it := range menu.Modes {
		if i < len(s.modes) {
			update(s.modes[i], it)
		}
	}
	update(s.settings, menu.Settings)
	update(s.quit, menu.Quit)
	systray.SetTooltip(menu.Tooltip)
}

func (s *Systray) build(menu Menu) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.header = s.add(menu.Header)
	systray.AddSeparator()
	for _, it := range menu.Modes {
		s.modes = append(s.modes, s.add(it))
	}
	systray.AddSeparator()
	s.settings = s.add(menu.Settings)
	s.quit = s.add(menu.Quit)
}

// add creates an item and forwards its clicks as the item's action.
// The action is fixed per slot because the layout is fixed.
func (s *Systray) add(it Item) *systray.MenuItem {
	mi := systray.AddMenuItem(it.Title, it.Tooltip)
	if !it.Enabled {
		mi.Disable()
	}
	if it.Action.Kind != ActionNone {
		action := it.Action
		go func() {
			for range mi.ClickedCh {
				s.selections <- action
			}
		}()
	}
	return mi
}

func update(mi *systray.MenuItem, it Item) {
	mi.SetTitle(it.Title)
	mi.SetTooltip(it.Tooltip)
	if it.Enabled {
		mi.Enable()
	} else {
		mi.Disable()
	}
}

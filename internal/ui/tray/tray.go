package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

const menuTitle = "Pomodoro"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnToggleStart func()
	OnCancel      func()
	OnWork        func()
	OnBreak       func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	callbacks   Callbacks
	statusItem  *fyne.MenuItem
	toggleItem  *fyne.MenuItem
	workItem    *fyne.MenuItem
	breakItem   *fyne.MenuItem
	prefsItem   *fyne.MenuItem
	statusLabel string
	running     bool
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", safe(manager.callbacks.OnShow))
	manager.toggleItem = fyne.NewMenuItem("Start", safe(manager.callbacks.OnToggleStart))
	manager.workItem = fyne.NewMenuItem("Work", safe(manager.callbacks.OnWork))
	manager.breakItem = fyne.NewMenuItem("Break", safe(manager.callbacks.OnBreak))
	manager.prefsItem = fyne.NewMenuItem("Preferences", safe(manager.callbacks.OnPreferences))

	manager.refreshMenu()
	return manager
}

// SetStatus updates the status label, typically with the window title.
func (manager *Manager) SetStatus(status string) {
	if status == manager.statusLabel {
		return
	}
	manager.statusLabel = status
	manager.statusItem.Label = "Status: " + status
	manager.refreshMenu()
}

// SetRunning switches the menu between Start and Pause and locks phase and
// settings items while the countdown runs.
func (manager *Manager) SetRunning(running bool) {
	if running == manager.running {
		return
	}
	manager.running = running
	if running {
		manager.toggleItem.Label = "Pause"
	} else {
		manager.toggleItem.Label = "Start"
	}
	manager.workItem.Disabled = running
	manager.breakItem.Disabled = running
	manager.prefsItem.Disabled = running
	manager.refreshMenu()
}

// Menu returns the current tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	return fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		fyne.NewMenuItem("Reset", safe(manager.callbacks.OnCancel)),
		manager.workItem,
		manager.breakItem,
		fyne.NewMenuItemSeparator(),
		manager.prefsItem,
		fyne.NewMenuItem("Quit", safe(manager.callbacks.OnQuit)),
	)
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.Menu())
	}
}

func safe(handler func()) func() {
	return func() {
		if handler != nil {
			handler()
		}
	}
}

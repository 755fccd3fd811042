package tray

import (
	"fmt"

	"tomato/internal/core/timekeeper"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnTogglePlay  func()
	OnReset       func()
	OnSelectPhase func(timekeeper.Phase)
	OnTasks       func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	callbacks  Callbacks
	statusItem *fyne.MenuItem
	playItem   *fyne.MenuItem
	phaseItems map[timekeeper.Phase]*fyne.MenuItem
	current    timekeeper.Snapshot
	taskStatus string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:        app,
		callbacks:  callbacks,
		phaseItems: make(map[timekeeper.Phase]*fyne.MenuItem, len(timekeeper.Phases)),
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.playItem = fyne.NewMenuItem("Start", func() {
		invoke(manager.callbacks.OnTogglePlay)
	})

	for _, phase := range timekeeper.Phases {
		phase := phase
		manager.phaseItems[phase] = fyne.NewMenuItem(phase.Label(), func() {
			if phase == manager.current.Phase {
				return
			}
			if manager.callbacks.OnSelectPhase != nil {
				manager.callbacks.OnSelectPhase(phase)
			}
		})
	}

	manager.refreshMenu()
	return manager
}

// SetSnapshot updates the status line, the play label and the phase checkmark.
func (manager *Manager) SetSnapshot(snapshot timekeeper.Snapshot) {
	manager.current = snapshot
	if snapshot.Running {
		manager.playItem.Label = "Pause"
	} else {
		manager.playItem.Label = "Start"
	}
	for phase, item := range manager.phaseItems {
		item.Checked = phase == snapshot.Phase
	}
	manager.refreshStatus()
}

// SetTaskProgress shows completed tasks next to the timer status.
func (manager *Manager) SetTaskProgress(done, total int) {
	if total == 0 {
		manager.taskStatus = ""
	} else {
		manager.taskStatus = fmt.Sprintf("tasks %d/%d", done, total)
	}
	manager.refreshStatus()
}

// Status returns the current status line.
func (manager *Manager) Status() string {
	return manager.statusItem.Label
}

func (manager *Manager) refreshStatus() {
	status := fmt.Sprintf("Status: %s %s", manager.current.Phase.Label(), manager.current.Display())
	if !manager.current.Running {
		status += " (paused)"
	}
	if manager.taskStatus != "" {
		status += ", " + manager.taskStatus
	}
	manager.statusItem.Label = status
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	items := []*fyne.MenuItem{
		manager.statusItem,
		fyne.NewMenuItem("Show timer", func() {
			invoke(manager.callbacks.OnShow)
		}),
		fyne.NewMenuItemSeparator(),
		manager.playItem,
		fyne.NewMenuItem("Reset", func() {
			invoke(manager.callbacks.OnReset)
		}),
		fyne.NewMenuItemSeparator(),
	}
	for _, phase := range timekeeper.Phases {
		items = append(items, manager.phaseItems[phase])
	}
	items = append(items,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Tasks", func() {
			invoke(manager.callbacks.OnTasks)
		}),
		fyne.NewMenuItem("Preferences", func() {
			invoke(manager.callbacks.OnPreferences)
		}),
		fyne.NewMenuItem("Quit", func() {
			invoke(manager.callbacks.OnQuit)
		}),
	)
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Tomato", items...))
}

func invoke(callback func()) {
	if callback != nil {
		callback()
	}
}

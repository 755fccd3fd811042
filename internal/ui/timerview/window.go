package timerview

import (
	"fmt"
	"image/color"

	"tomato/internal/core/timekeeper"
	"tomato/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
)

// Callbacks defines the user actions the main window forwards.
type Callbacks struct {
	OnTogglePlay  func()
	OnReset       func()
	OnSelectPhase func(timekeeper.Phase)
	OnToggleMusic func()
	OnShowTasks   func()
	OnPreferences func()
}

// Window is the main timer window.
type Window struct {
	window    fyne.Window
	logger    zerolog.Logger
	callbacks Callbacks
	current   timekeeper.Snapshot

	timeLabel    *canvas.Text
	cycleLabel   *widget.Label
	phaseButtons map[timekeeper.Phase]*widget.Button
	playButton   *widget.Button
	resetButton  *widget.Button
	slots        [timekeeper.IndicatorSlots]*canvas.Image

	fullscreenButton *widget.Button
	musicButton      *widget.Button
	tasksButton      *widget.Button
	settingsButton   *widget.Button
}

const slotSize = 28

// New builds the main window. Call Render before showing it.
func New(app fyne.App, callbacks Callbacks, logger zerolog.Logger) *Window {
	view := &Window{
		window:       app.NewWindow("Tomato"),
		logger:       logger.With().Str("component", "timerview").Logger(),
		callbacks:    callbacks,
		phaseButtons: make(map[timekeeper.Phase]*widget.Button, len(timekeeper.Phases)),
	}
	if app.Icon() != nil {
		view.window.SetIcon(app.Icon())
	}

	phaseRow := container.NewHBox(layout.NewSpacer())
	for _, phase := range timekeeper.Phases {
		phase := phase
		button := widget.NewButton(phase.Label(), func() {
			view.selectPhase(phase)
		})
		view.phaseButtons[phase] = button
		phaseRow.Add(button)
	}
	phaseRow.Add(layout.NewSpacer())

	view.timeLabel = canvas.NewText("--:--", phaseColor(timekeeper.PhaseWork))
	view.timeLabel.Alignment = fyne.TextAlignCenter
	view.timeLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	view.timeLabel.TextSize = 72

	view.playButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), func() {
		invoke(view.callbacks.OnTogglePlay)
	})
	view.playButton.Importance = widget.HighImportance
	view.resetButton = widget.NewButtonWithIcon("", theme.MediaReplayIcon(), func() {
		invoke(view.callbacks.OnReset)
	})

	slotRow := container.NewHBox(layout.NewSpacer())
	for index := range view.slots {
		slot := canvas.NewImageFromResource(resources.TomatoInactive())
		slot.FillMode = canvas.ImageFillContain
		slot.SetMinSize(fyne.NewSize(slotSize, slotSize))
		view.slots[index] = slot
		slotRow.Add(slot)
	}
	view.cycleLabel = widget.NewLabel("#1")
	slotRow.Add(view.cycleLabel)
	slotRow.Add(layout.NewSpacer())

	view.fullscreenButton = widget.NewButtonWithIcon("", theme.ViewFullScreenIcon(), view.ToggleFullscreen)
	view.musicButton = widget.NewButtonWithIcon("", theme.VolumeMuteIcon(), func() {
		invoke(view.callbacks.OnToggleMusic)
	})
	view.tasksButton = widget.NewButtonWithIcon("Tasks", theme.ListIcon(), func() {
		invoke(view.callbacks.OnShowTasks)
	})
	view.settingsButton = widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		invoke(view.callbacks.OnPreferences)
	})

	controls := container.NewHBox(layout.NewSpacer(), view.resetButton, view.playButton, layout.NewSpacer())
	toolbar := container.NewHBox(view.tasksButton, layout.NewSpacer(), view.musicButton, view.fullscreenButton, view.settingsButton)

	content := container.NewBorder(toolbar, nil, nil, nil, container.NewVBox(
		layout.NewSpacer(),
		phaseRow,
		view.timeLabel,
		controls,
		slotRow,
		layout.NewSpacer(),
	))
	view.window.SetContent(content)
	view.window.Resize(fyne.NewSize(460, 380))

	return view
}

// Window exposes the underlying fyne window.
func (view *Window) Window() fyne.Window {
	return view.window
}

// Show displays the window.
func (view *Window) Show() {
	view.window.Show()
	view.window.RequestFocus()
}

// Render draws a timer snapshot. It must run on the fyne thread.
func (view *Window) Render(snapshot timekeeper.Snapshot) {
	view.current = snapshot

	view.timeLabel.Text = snapshot.Display()
	view.timeLabel.Color = phaseColor(snapshot.Phase)
	view.timeLabel.Refresh()

	for phase, button := range view.phaseButtons {
		importance := widget.MediumImportance
		if phase == snapshot.Phase {
			importance = widget.HighImportance
		}
		if button.Importance != importance {
			button.Importance = importance
			button.Refresh()
		}
	}

	if snapshot.Running {
		view.playButton.SetIcon(theme.MediaPauseIcon())
	} else {
		view.playButton.SetIcon(theme.MediaPlayIcon())
	}

	for index, slot := range view.slots {
		resource := resources.TomatoInactive()
		if snapshot.Indicator[index] {
			resource = resources.TomatoActive()
		}
		if slot.Resource != resource {
			slot.Resource = resource
			slot.Refresh()
		}
	}

	view.cycleLabel.SetText(fmt.Sprintf("#%d", snapshot.CycleNumber()))
	view.window.SetTitle(fmt.Sprintf("%s - %s", snapshot.Display(), snapshot.Phase.Label()))
}

// SetMusicActive switches the music button between its on and off look.
func (view *Window) SetMusicActive(active bool) {
	if active {
		view.musicButton.SetIcon(theme.VolumeUpIcon())
		view.musicButton.Importance = widget.HighImportance
	} else {
		view.musicButton.SetIcon(theme.VolumeMuteIcon())
		view.musicButton.Importance = widget.MediumImportance
	}
	view.musicButton.Refresh()
}

// ToggleFullscreen flips the window between fullscreen and windowed mode.
func (view *Window) ToggleFullscreen() {
	view.SetFullscreen(!view.window.FullScreen())
}

// SetFullscreen enters or leaves fullscreen when the device supports it.
func (view *Window) SetFullscreen(enabled bool) {
	if device := fyne.CurrentDevice(); device != nil && device.IsMobile() {
		view.logger.Warn().Bool("fullscreen", enabled).Msg("fullscreen unsupported on this device")
		return
	}
	view.window.SetFullScreen(enabled)
	if view.window.FullScreen() != enabled {
		view.logger.Warn().Bool("fullscreen", enabled).Msg("fullscreen request was not applied")
		return
	}
	if enabled {
		view.fullscreenButton.SetIcon(theme.ViewRestoreIcon())
	} else {
		view.fullscreenButton.SetIcon(theme.ViewFullScreenIcon())
	}
}

// selectPhase forwards a phase choice unless it is already active,
// so a repeated click never resets the remaining time.
func (view *Window) selectPhase(phase timekeeper.Phase) {
	if phase == view.current.Phase {
		return
	}
	if view.callbacks.OnSelectPhase != nil {
		view.callbacks.OnSelectPhase(phase)
	}
}

func phaseColor(phase timekeeper.Phase) color.Color {
	switch phase {
	case timekeeper.PhaseShortBreak:
		return color.NRGBA{R: 70, G: 167, B: 88, A: 255}
	case timekeeper.PhaseLongBreak:
		return color.NRGBA{R: 62, G: 99, B: 221, A: 255}
	default:
		return color.NRGBA{R: 229, G: 72, B: 77, A: 255}
	}
}

func invoke(callback func()) {
	if callback != nil {
		callback()
	}
}

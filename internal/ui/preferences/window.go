package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"tomato/internal/audio"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window     fyne.Window
	settings   Settings
	onSave     func(Settings)
	workMin    *widget.Entry
	shortMin   *widget.Entry
	longMin    *widget.Entry
	musicFile  *widget.Entry
	musicRate  *widget.Slider
	volume     *widget.Slider
	fullscreen *widget.Check
	saveButton *widget.Button
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Tomato Settings")

	prefs := &Window{
		window:     window,
		onSave:     onSave,
		workMin:    widget.NewEntry(),
		shortMin:   widget.NewEntry(),
		longMin:    widget.NewEntry(),
		musicFile:  widget.NewEntry(),
		musicRate:  widget.NewSlider(audio.MinRate, audio.MaxRate),
		volume:     widget.NewSlider(audio.MinVolume, audio.MaxVolume),
		fullscreen: widget.NewCheck("Start in fullscreen", nil),
	}
	prefs.musicFile.SetPlaceHolder("/path/to/track.mp3")
	prefs.musicRate.Step = 0.05
	prefs.volume.Step = 0.5
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Pomodoro"), prefs.workMin, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Short break"), prefs.shortMin, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break"), prefs.longMin, widget.NewLabel("min")),
		widget.NewLabel("Timer changes apply on next launch."),
		widget.NewLabelWithStyle("Music", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.musicFile,
		widget.NewLabel("Playback speed"),
		prefs.musicRate,
		widget.NewLabel("Volume"),
		prefs.volume,
		prefs.fullscreen,
	)

	prefs.saveButton = widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	})
	buttons := container.NewHBox(prefs.saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 460))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.workMin.SetText(formatMinutes(settings.WorkDuration))
	prefs.shortMin.SetText(formatMinutes(settings.ShortBreakDuration))
	prefs.longMin.SetText(formatMinutes(settings.LongBreakDuration))
	prefs.musicFile.SetText(settings.MusicFile)
	prefs.musicRate.SetValue(audio.ClampRate(settings.MusicRate))
	prefs.volume.SetValue(audio.ClampVolume(settings.MusicVolume))
	prefs.fullscreen.SetChecked(settings.StartFullscreen)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if minutes, ok := parsePositiveInt(prefs.workMin.Text); ok {
		settings.WorkDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.shortMin.Text); ok {
		settings.ShortBreakDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.longMin.Text); ok {
		settings.LongBreakDuration = time.Duration(minutes) * time.Minute
	}

	settings.MusicFile = strings.TrimSpace(prefs.musicFile.Text)
	settings.MusicRate = prefs.musicRate.Value
	settings.MusicVolume = prefs.volume.Value
	settings.StartFullscreen = prefs.fullscreen.Checked

	prefs.UpdateSettings(settings)
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func formatMinutes(duration time.Duration) string {
	return fmt.Sprintf("%d", int(duration.Minutes()))
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

package preferences

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomodoro/internal/core/model"
)

// SaveFunc applies settings. A returned error keeps the window open and is shown to the user.
type SaveFunc func(Settings) error

// Window handles the preferences UI.
type Window struct {
	window     fyne.Window
	settings   Settings
	onSave     SaveFunc
	workMin    *widget.Entry
	breakMin   *widget.Entry
	cueEnabled *widget.Check
	cueVolume  *widget.Slider
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave SaveFunc) *Window {
	window := app.NewWindow("Pomodoro Settings")

	workMin := widget.NewEntry()
	breakMin := widget.NewEntry()

	cueEnabled := widget.NewCheck("Play a sound when a phase ends", nil)

	cueVolume := widget.NewSlider(0, 1)
	cueVolume.Step = 0.05

	form := container.NewVBox(
		widget.NewLabelWithStyle("Durations", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Work time"), workMin, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Break time"), breakMin, widget.NewLabel("min")),
		widget.NewLabelWithStyle("Sound", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		cueEnabled,
		widget.NewLabel("Volume"),
		cueVolume,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(360, 280))
	window.SetCloseIntercept(window.Hide)

	prefs := &Window{
		window:     window,
		onSave:     onSave,
		workMin:    workMin,
		breakMin:   breakMin,
		cueEnabled: cueEnabled,
		cueVolume:  cueVolume,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}

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
	prefs.workMin.SetText(strconv.FormatUint(uint64(settings.WorkMinutes), 10))
	prefs.breakMin.SetText(strconv.FormatUint(uint64(settings.BreakMinutes), 10))
	prefs.cueEnabled.SetChecked(settings.CueEnabled)
	prefs.cueVolume.SetValue(settings.CueVolume)
}

// Settings returns the last saved settings.
func (prefs *Window) Settings() Settings {
	return prefs.settings
}

func (prefs *Window) handleSave() {
	settings, err := prefs.collect()
	if err == nil && prefs.onSave != nil {
		err = prefs.onSave(settings)
	}
	if err != nil {
		dialog.ShowError(err, prefs.window)
		return
	}
	prefs.settings = settings
	prefs.window.Hide()
}

func (prefs *Window) collect() (Settings, error) {
	settings := prefs.settings

	workMinutes, err := parseMinutes(prefs.workMin.Text)
	if err != nil {
		return settings, fmt.Errorf("work time: %w", err)
	}
	breakMinutes, err := parseMinutes(prefs.breakMin.Text)
	if err != nil {
		return settings, fmt.Errorf("break time: %w", err)
	}

	settings.WorkMinutes = workMinutes
	settings.BreakMinutes = breakMinutes
	settings.CueEnabled = prefs.cueEnabled.Checked
	settings.CueVolume = prefs.cueVolume.Value
	return settings, nil
}

func parseMinutes(value string) (uint32, error) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil || parsed == 0 {
		return 0, fmt.Errorf("%q is not a positive number of minutes", value)
	}
	if err := model.CheckMinutes(parsed); err != nil {
		return 0, err
	}
	return uint32(parsed), nil
}

package window

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"pomodoro/internal/core/engine"
	"pomodoro/internal/core/timer"
)

const countdownSize = 64

// Callbacks defines button handlers.
type Callbacks struct {
	OnStart    func()
	OnPause    func()
	OnCancel   func()
	OnWork     func()
	OnBreak    func()
	OnSettings func()
}

// Window is the main countdown window.
type Window struct {
	window    fyne.Window
	callbacks Callbacks
	countdown *canvas.Text
	message   *widget.Label
	work      *widget.Button
	brk       *widget.Button
	toggle    *widget.Button
	reset     *widget.Button
	settings  *widget.Button
	display   engine.Display
}

// New creates the countdown window.
func New(app fyne.App, callbacks Callbacks) *Window {
	win := &Window{
		window:    app.NewWindow(engine.IdleTitle),
		callbacks: callbacks,
		countdown: canvas.NewText("--:--", theme.Color(theme.ColorNameForeground)),
		message:   widget.NewLabel(""),
	}
	win.countdown.TextSize = countdownSize
	win.countdown.TextStyle = fyne.TextStyle{Monospace: true, Bold: true}
	win.countdown.Alignment = fyne.TextAlignCenter

	win.work = widget.NewButton("Work", safe(callbacks.OnWork))
	win.brk = widget.NewButton("Break", safe(callbacks.OnBreak))
	win.toggle = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), win.handleToggle)
	win.reset = widget.NewButtonWithIcon("", theme.MediaReplayIcon(), safe(callbacks.OnCancel))
	win.settings = widget.NewButtonWithIcon("", theme.SettingsIcon(), safe(callbacks.OnSettings))
	win.message.Alignment = fyne.TextAlignCenter

	content := container.NewVBox(
		container.NewHBox(layout.NewSpacer(), win.work, win.brk, layout.NewSpacer()),
		container.NewCenter(win.countdown),
		container.NewHBox(layout.NewSpacer(), win.toggle, win.reset, win.settings, layout.NewSpacer()),
		win.message,
	)
	win.window.SetContent(container.NewPadded(content))
	win.window.Resize(fyne.NewSize(360, 240))
	return win
}

// Window returns the underlying fyne window.
func (win *Window) Window() fyne.Window {
	return win.window
}

// Show displays the window.
func (win *Window) Show() {
	win.window.Show()
	win.window.RequestFocus()
}

// Render redraws the window for display. Must run on the fyne main goroutine.
func (win *Window) Render(display engine.Display) {
	win.display = display
	win.countdown.Text = display.Countdown
	win.countdown.Refresh()
	win.window.SetTitle(display.Title())

	win.work.Importance = widget.MediumImportance
	win.brk.Importance = widget.MediumImportance
	if display.Phase == timer.PhaseBreak {
		win.brk.Importance = widget.HighImportance
	} else {
		win.work.Importance = widget.HighImportance
	}

	if display.Running {
		win.toggle.SetText("Pause")
		win.toggle.SetIcon(theme.MediaPauseIcon())
		win.work.Disable()
		win.brk.Disable()
		win.settings.Disable()
	} else {
		win.toggle.SetText("Start")
		win.toggle.SetIcon(theme.MediaPlayIcon())
		win.work.Enable()
		win.brk.Enable()
		win.settings.Enable()
	}
	win.work.Refresh()
	win.brk.Refresh()
}

// SetMessage shows the latest log line under the controls.
func (win *Window) SetMessage(message string) {
	win.message.SetText(message)
}

// ShowError reports a rejected command.
func (win *Window) ShowError(err error) {
	dialog.ShowError(err, win.window)
}

func (win *Window) handleToggle() {
	if win.display.Running {
		safe(win.callbacks.OnPause)()
		return
	}
	safe(win.callbacks.OnStart)()
}

func safe(handler func()) func() {
	return func() {
		if handler != nil {
			handler()
		}
	}
}

package window

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"

	"pomodoro/internal/core/engine"
	"pomodoro/internal/core/timer"
)

func TestRenderRunningDisplay(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()
	win := New(app, Callbacks{})

	win.Render(engine.Display{Phase: timer.PhaseBreak, Countdown: "04:59", Running: true})

	assert.Equal(t, "04:59", win.countdown.Text)
	assert.Equal(t, "Break : 04:59", win.window.Title())
	assert.Equal(t, "Pause", win.toggle.Text)
	assert.Equal(t, widget.HighImportance, win.brk.Importance)
	assert.True(t, win.work.Disabled())
	assert.True(t, win.settings.Disabled())
}

func TestRenderIdleDisplay(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()
	win := New(app, Callbacks{})

	win.Render(engine.Display{Phase: timer.PhaseWork, Countdown: "25:00"})

	assert.Equal(t, engine.IdleTitle, win.window.Title())
	assert.Equal(t, "Start", win.toggle.Text)
	assert.Equal(t, widget.HighImportance, win.work.Importance)
	assert.False(t, win.settings.Disabled())
}

func TestToggleDispatchesByRunningState(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var calls []string
	win := New(app, Callbacks{
		OnStart: func() { calls = append(calls, "start") },
		OnPause: func() { calls = append(calls, "pause") },
	})

	win.Render(engine.Display{Countdown: "25:00"})
	test.Tap(win.toggle)
	win.Render(engine.Display{Countdown: "24:59", Running: true})
	test.Tap(win.toggle)

	assert.Equal(t, []string{"start", "pause"}, calls)
}

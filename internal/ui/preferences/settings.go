package preferences

import (
	"pomodoro/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	WorkMinutes  uint32
	BreakMinutes uint32

	CueEnabled bool
	// CueVolume is a fraction in [0, 1].
	CueVolume float64
}

// DefaultSettings returns default settings for the timer.
func DefaultSettings() Settings {
	return Settings{
		WorkMinutes:  model.DefaultWorkMinutes,
		BreakMinutes: model.DefaultBreakMinutes,
		CueEnabled:   true,
		CueVolume:    0.8,
	}
}

// TimerConfig converts settings to the engine's TimerConfig.
func (settings Settings) TimerConfig() model.TimerConfig {
	return model.TimerConfig{
		WorkMinutes:  settings.WorkMinutes,
		BreakMinutes: settings.BreakMinutes,
	}
}

// WithTimerConfig returns settings with the durations of config.
func (settings Settings) WithTimerConfig(config model.TimerConfig) Settings {
	settings.WorkMinutes = config.WorkMinutes
	settings.BreakMinutes = config.BreakMinutes
	return settings
}

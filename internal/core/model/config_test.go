package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		config TimerConfig
		want   error
	}{
		{"defaults", DefaultTimerConfig(), nil},
		{"one day", TimerConfig{WorkMinutes: MaxMinutes, BreakMinutes: 1}, nil},
		{"zero work", TimerConfig{WorkMinutes: 0, BreakMinutes: 5}, ErrInvalidDuration},
		{"zero break", TimerConfig{WorkMinutes: 25, BreakMinutes: 0}, ErrInvalidDuration},
		{"work past one day", TimerConfig{WorkMinutes: MaxMinutes + 1, BreakMinutes: 5}, ErrDurationTooLong},
		{"seconds overflow", TimerConfig{WorkMinutes: 71582789, BreakMinutes: 5}, ErrDurationTooLong},
		{"break overflow", TimerConfig{WorkMinutes: 25, BreakMinutes: 4294967295}, ErrDurationTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

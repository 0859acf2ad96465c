package model

import (
	"errors"
	"fmt"
)

const (
	DefaultWorkMinutes  = 25
	DefaultBreakMinutes = 5
	// MaxMinutes caps a single phase at one day, well below the uint32 seconds limit.
	MaxMinutes = 24 * 60
)

var (
	// ErrInvalidDuration reports a non-positive configured duration.
	ErrInvalidDuration = errors.New("duration must be a positive number of minutes")
	// ErrDurationTooLong reports a duration above MaxMinutes.
	ErrDurationTooLong = errors.New("duration is too long")
)

// TimerConfig contains the configured work and break durations.
type TimerConfig struct {
	WorkMinutes  uint32
	BreakMinutes uint32
}

// DefaultTimerConfig returns the standard 25/5 cycle.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		WorkMinutes:  DefaultWorkMinutes,
		BreakMinutes: DefaultBreakMinutes,
	}
}

// Validate checks that both durations are within 1..MaxMinutes.
func (config TimerConfig) Validate() error {
	if err := CheckMinutes(uint64(config.WorkMinutes)); err != nil {
		return fmt.Errorf("work: %w", err)
	}
	if err := CheckMinutes(uint64(config.BreakMinutes)); err != nil {
		return fmt.Errorf("break: %w", err)
	}
	return nil
}

// CheckMinutes validates a single phase duration.
func CheckMinutes(minutes uint64) error {
	if minutes == 0 {
		return ErrInvalidDuration
	}
	if minutes > MaxMinutes {
		return fmt.Errorf("%w: %d minutes, at most %d", ErrDurationTooLong, minutes, MaxMinutes)
	}
	return nil
}

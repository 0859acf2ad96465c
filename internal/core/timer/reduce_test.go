package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodoro/internal/core/model"
)

func newDefault() State {
	return NewState(model.DefaultTimerConfig())
}

func mustReduce(t *testing.T, state State, action Action) Result {
	t.Helper()
	result, err := Reduce(state, action)
	require.NoError(t, err, "reduce %s", action.Name())
	return result
}

func TestNewStateDefaults(t *testing.T) {
	state := newDefault()

	assert.Equal(t, PhaseWork, state.Phase)
	assert.Equal(t, uint32(25), state.WorkMinutes)
	assert.Equal(t, uint32(5), state.BreakMinutes)
	assert.Equal(t, uint32(1500), state.RemainingSeconds)
	assert.False(t, state.Running)
	assert.Zero(t, state.Generation)
}

func TestStartArmsUnderNewGeneration(t *testing.T) {
	result := mustReduce(t, newDefault(), Start{})

	assert.True(t, result.State.Running)
	assert.Equal(t, uint64(1), result.State.Generation)
	assert.Equal(t, []Effect{EffectArm}, result.Effects)
	assert.Equal(t, []string{"Timer started"}, result.State.Log)
}

func TestStartWhileRunningIsRejected(t *testing.T) {
	running := mustReduce(t, newDefault(), Start{}).State

	result, err := Reduce(running, Start{})
	require.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, running, result.State)
	assert.Empty(t, result.Effects)
}

func TestStartAtZeroCompletesWithoutArming(t *testing.T) {
	state := newDefault()
	state.RemainingSeconds = 0

	result := mustReduce(t, state, Start{})

	assert.Equal(t, PhaseBreak, result.State.Phase)
	assert.Equal(t, uint32(300), result.State.RemainingSeconds)
	assert.False(t, result.State.Running)
	assert.Equal(t, state.Generation, result.State.Generation)
	assert.Equal(t, []Effect{EffectPhaseComplete}, result.Effects)
}

func TestPause(t *testing.T) {
	state := mustReduce(t, newDefault(), Start{}).State
	state = mustReduce(t, state, Tick{Generation: state.Generation}).State

	result := mustReduce(t, state, Pause{})
	assert.False(t, result.State.Running)
	assert.Equal(t, uint64(2), result.State.Generation)
	assert.Equal(t, uint32(1499), result.State.RemainingSeconds)
	assert.Equal(t, []Effect{EffectDisarm}, result.Effects)

	_, err := Reduce(result.State, Pause{})
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestCancelResetsAndIsIdempotent(t *testing.T) {
	state := mustReduce(t, newDefault(), Start{}).State
	for i := 0; i < 5; i++ {
		state = mustReduce(t, state, Tick{Generation: state.Generation}).State
	}

	once := mustReduce(t, state, Cancel{})
	assert.False(t, once.State.Running)
	assert.Equal(t, uint32(1500), once.State.RemainingSeconds)
	assert.Equal(t, uint64(2), once.State.Generation)
	assert.Equal(t, []Effect{EffectDisarm}, once.Effects)

	twice := mustReduce(t, once.State, Cancel{})
	assert.Equal(t, once.State, twice.State)
	assert.Empty(t, twice.Effects)
}

func TestCancelWhilePausedKeepsGeneration(t *testing.T) {
	state := mustReduce(t, newDefault(), Start{}).State
	state = mustReduce(t, state, Tick{Generation: state.Generation}).State
	state = mustReduce(t, state, Pause{}).State

	result := mustReduce(t, state, Cancel{})
	assert.Equal(t, state.Generation, result.State.Generation)
	assert.Equal(t, uint32(1500), result.State.RemainingSeconds)
	assert.Empty(t, result.Effects)
}

func TestTickGenerationGuard(t *testing.T) {
	state := mustReduce(t, newDefault(), Start{}).State
	state = mustReduce(t, state, Pause{}).State
	state = mustReduce(t, state, Start{}).State
	require.Equal(t, uint64(3), state.Generation)

	result, err := Reduce(state, Tick{Generation: state.Generation - 1})
	require.ErrorIs(t, err, ErrStaleCallback)
	assert.Equal(t, state.RemainingSeconds, result.State.RemainingSeconds)
}

func TestTickWhileStoppedIsStale(t *testing.T) {
	state := newDefault()

	result, err := Reduce(state, Tick{Generation: state.Generation})
	require.ErrorIs(t, err, ErrStaleCallback)
	assert.Equal(t, state, result.State)
}

func TestTickSaturatesAtZero(t *testing.T) {
	state := mustReduce(t, newDefault(), Start{}).State
	state.RemainingSeconds = 0

	result := mustReduce(t, state, Tick{Generation: state.Generation})
	assert.Zero(t, result.State.RemainingSeconds)
	assert.True(t, result.State.Running)
}

func TestCompleteFlipsPhase(t *testing.T) {
	state := newDefault()
	state.RemainingSeconds = 1
	state = mustReduce(t, state, Start{}).State

	result := mustReduce(t, state, Complete{Generation: state.Generation})
	assert.Equal(t, PhaseBreak, result.State.Phase)
	assert.Equal(t, uint32(300), result.State.RemainingSeconds)
	assert.False(t, result.State.Running)
	assert.Equal(t, state.Generation+1, result.State.Generation)
	assert.Equal(t, []Effect{EffectDisarm, EffectPhaseComplete}, result.Effects)

	_, err := Reduce(result.State, Complete{Generation: state.Generation})
	assert.ErrorIs(t, err, ErrStaleCallback)
}

func TestCompleteFromBreakReturnsToWork(t *testing.T) {
	state := mustReduce(t, newDefault(), SelectPhase{Phase: PhaseBreak}).State
	state = mustReduce(t, state, Start{}).State

	result := mustReduce(t, state, Complete{Generation: state.Generation})
	assert.Equal(t, PhaseWork, result.State.Phase)
	assert.Equal(t, uint32(1500), result.State.RemainingSeconds)
}

func TestSelectPhase(t *testing.T) {
	state := mustReduce(t, newDefault(), SelectPhase{Phase: PhaseBreak}).State
	assert.Equal(t, PhaseBreak, state.Phase)
	assert.Equal(t, uint32(300), state.RemainingSeconds)

	running := mustReduce(t, state, Start{}).State
	_, err := Reduce(running, SelectPhase{Phase: PhaseWork})
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = Reduce(state, SelectPhase{Phase: Phase(7)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSetDurations(t *testing.T) {
	tests := []struct {
		name          string
		phase         Phase
		action        Action
		wantWork      uint32
		wantBreak     uint32
		wantRemaining uint32
	}{
		{"work in work phase resets", PhaseWork, SetWorkDuration{Minutes: 50}, 50, 5, 3000},
		{"break in work phase keeps", PhaseWork, SetBreakDuration{Minutes: 10}, 25, 10, 1500},
		{"break in break phase resets", PhaseBreak, SetBreakDuration{Minutes: 10}, 25, 10, 600},
		{"work in break phase keeps", PhaseBreak, SetWorkDuration{Minutes: 50}, 50, 5, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := mustReduce(t, newDefault(), SelectPhase{Phase: tt.phase}).State

			next := mustReduce(t, state, tt.action).State
			assert.Equal(t, tt.wantWork, next.WorkMinutes)
			assert.Equal(t, tt.wantBreak, next.BreakMinutes)
			assert.Equal(t, tt.wantRemaining, next.RemainingSeconds)
		})
	}
}

func TestInvalidDurationsDoNotChangeState(t *testing.T) {
	state := newDefault()
	for _, action := range []Action{
		SetWorkDuration{},
		SetBreakDuration{},
		SaveSettings{WorkMinutes: 0, BreakMinutes: 5},
		SaveSettings{WorkMinutes: 25, BreakMinutes: 0},
		SetWorkDuration{Minutes: model.MaxMinutes + 1},
		SetBreakDuration{Minutes: 71582789},
		SaveSettings{WorkMinutes: 71582789, BreakMinutes: 5},
		SaveSettings{WorkMinutes: 25, BreakMinutes: 4294967295},
	} {
		result, err := Reduce(state, action)
		assert.ErrorIs(t, err, ErrInvalidInput, action.Name())
		assert.Equal(t, state, result.State, action.Name())
	}
}

func TestLongestDurationKeepsExactSeconds(t *testing.T) {
	next := mustReduce(t, newDefault(), SaveSettings{WorkMinutes: model.MaxMinutes, BreakMinutes: model.MaxMinutes}).State
	assert.Equal(t, uint32(model.MaxMinutes*60), next.RemainingSeconds)
	assert.Equal(t, next.FullSeconds(), next.RemainingSeconds)

	next = mustReduce(t, next, SelectPhase{Phase: PhaseBreak}).State
	assert.Equal(t, uint32(model.MaxMinutes*60), next.RemainingSeconds)
}

func TestReconfigureWhileRunningIsRejected(t *testing.T) {
	running := mustReduce(t, newDefault(), Start{}).State
	for _, action := range []Action{
		SetWorkDuration{Minutes: 10},
		SetBreakDuration{Minutes: 10},
		SaveSettings{WorkMinutes: 10, BreakMinutes: 10},
	} {
		result, err := Reduce(running, action)
		assert.ErrorIs(t, err, ErrIllegalTransition, action.Name())
		assert.Equal(t, running, result.State, action.Name())
	}
}

func TestSaveSettingsAppliesBoth(t *testing.T) {
	state := mustReduce(t, newDefault(), SelectPhase{Phase: PhaseBreak}).State

	next := mustReduce(t, state, SaveSettings{WorkMinutes: 50, BreakMinutes: 10}).State
	assert.Equal(t, uint32(50), next.WorkMinutes)
	assert.Equal(t, uint32(10), next.BreakMinutes)
	assert.Equal(t, uint32(600), next.RemainingSeconds)
}

func TestFullWorkCycle(t *testing.T) {
	state := mustReduce(t, newDefault(), SaveSettings{WorkMinutes: 25, BreakMinutes: 5}).State
	state = mustReduce(t, state, SelectPhase{Phase: PhaseWork}).State
	state = mustReduce(t, state, Start{}).State
	generation := state.Generation

	for i := 0; i < 1500; i++ {
		state = mustReduce(t, state, Tick{Generation: generation}).State
		require.LessOrEqual(t, state.RemainingSeconds, state.FullSeconds())
	}
	require.Zero(t, state.RemainingSeconds)

	state = mustReduce(t, state, Complete{Generation: generation}).State
	assert.Equal(t, PhaseBreak, state.Phase)
	assert.Equal(t, uint32(300), state.RemainingSeconds)
	assert.False(t, state.Running)
}

func TestPauseResumeKeepsProgress(t *testing.T) {
	state := mustReduce(t, newDefault(), Start{}).State
	initial := state.RemainingSeconds
	for i := 0; i < 10; i++ {
		state = mustReduce(t, state, Tick{Generation: state.Generation}).State
	}
	state = mustReduce(t, state, Pause{}).State
	assert.Equal(t, initial-10, state.RemainingSeconds)
	assert.False(t, state.Running)

	state = mustReduce(t, state, Start{}).State
	state = mustReduce(t, state, Tick{Generation: state.Generation}).State
	assert.Equal(t, initial-11, state.RemainingSeconds)
}

func TestLogIsBounded(t *testing.T) {
	state := newDefault()
	for i := 0; i < MaxLogEntries+10; i++ {
		phase := PhaseWork
		if i%2 == 0 {
			phase = PhaseBreak
		}
		state = mustReduce(t, state, SelectPhase{Phase: phase}).State
	}
	assert.Len(t, state.Log, MaxLogEntries)
	assert.Equal(t, "Switched to Work", state.Log[len(state.Log)-1])
}

func TestReduceDoesNotAliasLog(t *testing.T) {
	base := mustReduce(t, newDefault(), SelectPhase{Phase: PhaseBreak}).State
	first := mustReduce(t, base, SelectPhase{Phase: PhaseWork}).State
	second := mustReduce(t, base, Start{}).State

	assert.Equal(t, "Switched to Work", first.Log[1])
	assert.Equal(t, "Timer started", second.Log[1])
	assert.Len(t, base.Log, 1)
}

package game

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTimerTicksDown(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	timer := NewRoundTimer(clock, log.New(io.Discard))

	var ticks []int
	expired := false
	timer.Start(3, func(remaining int) { ticks = append(ticks, remaining) }, func() { expired = true })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := 0; i < 3; i++ {
		clock.Advance(time.Second).MustWait(ctx)
	}

	assert.Equal(t, []int{2, 1}, ticks)
	assert.True(t, expired)
	assert.Zero(t, timer.Remaining())
}

func TestRoundTimerStopDiscardsCountdown(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	timer := NewRoundTimer(clock, log.New(io.Discard))

	fired := false
	timer.Start(2, nil, func() { fired = true })
	timer.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clock.Advance(5 * time.Second).MustWait(ctx)

	assert.False(t, fired)
	assert.Zero(t, timer.Remaining())
}

func TestRoundTimerRestartInvalidatesOldCountdown(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	timer := NewRoundTimer(clock, log.New(io.Discard))

	firstExpired := false
	timer.Start(1, nil, func() { firstExpired = true })

	secondExpired := false
	timer.Start(2, nil, func() { secondExpired = true })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clock.Advance(time.Second).MustWait(ctx)
	require.False(t, firstExpired, "stopped countdown must not expire")
	require.False(t, secondExpired)

	clock.Advance(time.Second).MustWait(ctx)
	assert.True(t, secondExpired)
}

func TestRoundTimerZeroSecondsIsNoOp(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	timer := NewRoundTimer(clock, log.New(io.Discard))

	timer.Start(0, nil, func() { t.Error("expiry must not fire") })
	assert.Zero(t, timer.Remaining())
}

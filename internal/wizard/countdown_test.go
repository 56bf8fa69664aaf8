package wizard

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestCountdownExpires(t *testing.T) {
	defer goleak.VerifyNone(t)
	c := NewCountdown()

	var mu sync.Mutex
	var ticks []int
	expired := make(chan struct{})

	c.Start(2,
		func(remaining int) {
			mu.Lock()
			ticks = append(ticks, remaining)
			mu.Unlock()
		},
		func() { close(expired) },
	)

	select {
	case <-expired:
	case <-time.After(5 * time.Second):
		t.Fatal("countdown did not expire")
	}

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, ticks)
	assert.Equal(t, 0, ticks[len(ticks)-1])
	assert.False(t, c.Active())
}

func TestCountdownStopPreventsExpiry(t *testing.T) {
	defer goleak.VerifyNone(t)
	c := NewCountdown()

	expired := make(chan struct{})
	c.Start(1, nil, func() { close(expired) })
	c.Stop()

	select {
	case <-expired:
		t.Fatal("countdown fired after Stop")
	case <-time.After(1500 * time.Millisecond):
	}
	assert.False(t, c.Active())
}

func TestCountdownStopIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)
	c := NewCountdown()

	c.Stop() // never started
	c.Start(5, nil, nil)
	c.Stop()
	c.Stop()
	assert.False(t, c.Active())
}

func TestCountdownRestartCancelsPrevious(t *testing.T) {
	defer goleak.VerifyNone(t)
	c := NewCountdown()

	firstExpired := make(chan struct{})
	c.Start(1, nil, func() { close(firstExpired) })
	c.Start(10, nil, nil)

	select {
	case <-firstExpired:
		t.Fatal("replaced countdown still fired")
	case <-time.After(1500 * time.Millisecond):
	}
	assert.True(t, c.Active())
	c.Stop()
}

func TestCountdownStopFromExpiryPathReturns(t *testing.T) {
	defer goleak.VerifyNone(t)
	c := NewCountdown()

	done := make(chan struct{})
	c.Start(1, nil, func() {
		// the submit path always stops the countdown it was fired from
		c.Stop()
		close(done)
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop deadlocked inside the expiry callback")
	}
}

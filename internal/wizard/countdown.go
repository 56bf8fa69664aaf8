package wizard

import (
	"sync"
	"time"
)

// Countdown is the summary screen's auto-confirm timer: it ticks down
// visibly and fires onExpire unless stopped first. Back-navigation and the
// submit action both stop it, so it can never fire twice or fire after a
// cancellation.
type Countdown struct {
	mu     sync.Mutex
	cancel chan struct{}
	done   chan struct{}
	active bool
}

func NewCountdown() *Countdown {
	return &Countdown{}
}

// Start begins a fresh countdown, cancelling any previous one. onTick
// receives the remaining seconds after every elapsed second; onExpire runs
// once when the countdown reaches zero without being stopped.
func (c *Countdown) Start(seconds int, onTick func(remaining int), onExpire func()) {
	c.Stop()

	cancel := make(chan struct{})
	done := make(chan struct{})
	c.mu.Lock()
	c.cancel = cancel
	c.done = done
	c.active = true
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		remaining := seconds
		for {
			select {
			case <-cancel:
				close(done)
				return
			case <-ticker.C:
				remaining--
				if onTick != nil {
					onTick(remaining)
				}
				if remaining <= 0 {
					c.mu.Lock()
					c.active = false
					c.mu.Unlock()
					close(done)
					// done is closed before onExpire so a Stop issued from
					// inside the expiry path returns immediately.
					if onExpire != nil {
						onExpire()
					}
					return
				}
			}
		}
	}()
}

// Stop cancels a running countdown and waits for its goroutine to exit.
// Safe to call repeatedly and when no countdown is running.
func (c *Countdown) Stop() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.active = false
	close(c.cancel)
	done := c.done
	c.mu.Unlock()
	<-done
}

// Active reports whether a countdown is currently running.
func (c *Countdown) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

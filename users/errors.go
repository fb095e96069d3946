package users

import (
	"sync"
	"time"
)

// ErrorDisplayDuration is how long an error stays in an [ErrorChannel] before it clears itself.
const ErrorDisplayDuration = 10 * time.Second

// ErrorChannel holds at most one error message to show to the user.
// A message clears itself [ErrorDisplayDuration] after it was set.
// Setting a new message replaces the old one and restarts the expiry, so only one expiry is ever pending.
type ErrorChannel struct {
	clock      Clock
	closed     bool
	expiresAt  time.Time
	generation uint64
	message    string
	mu         sync.Mutex
	timer      Timer
}

// NewErrorChannel with the given clock. If clock is nil, [SystemClock] is used.
func NewErrorChannel(clock Clock) *ErrorChannel {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ErrorChannel{clock: clock}
}

// Set the current message. An empty message is the same as calling [ErrorChannel.Clear].
// Does nothing after [ErrorChannel.Close].
func (c *ErrorChannel) Set(message string) {
	if message == "" {
		c.Clear()
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.stopTimer()
	c.generation++
	generation := c.generation
	c.message = message
	c.expiresAt = c.clock.Now().Add(ErrorDisplayDuration)
	c.timer = c.clock.AfterFunc(ErrorDisplayDuration, func() {
		c.expire(generation)
	})
}

// Clear the current message right away, cancelling the pending expiry.
func (c *ErrorChannel) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reset()
}

// Message currently showing, and whether there is one.
func (c *ErrorChannel) Message() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.message, c.message != ""
}

// ExpiresAt is when the current message clears itself. Zero if there is no message.
func (c *ErrorChannel) ExpiresAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.expiresAt
}

// Close the channel for good, clearing the message and cancelling the pending expiry.
func (c *ErrorChannel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reset()
	c.closed = true
}

// expire the message set in the given generation, unless it has since been replaced or cleared.
func (c *ErrorChannel) expire(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		return
	}
	c.timer = nil
	c.message = ""
	c.expiresAt = time.Time{}
}

// reset must be called with the lock held.
func (c *ErrorChannel) reset() {
	c.stopTimer()
	c.generation++
	c.message = ""
	c.expiresAt = time.Time{}
}

// stopTimer must be called with the lock held.
func (c *ErrorChannel) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

package bytechan

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrInvalidCapacity is returned by New for a non-positive capacity.
	ErrInvalidCapacity = errors.New("bytechan: capacity must be positive")
	// ErrOverflow rejects an append that would exceed capacity. The buffer is
	// left unchanged; the producer decides whether to retry or drop.
	ErrOverflow = errors.New("bytechan: buffer overflow")
	// ErrStopped rejects appends on a stopped channel.
	ErrStopped = errors.New("bytechan: channel stopped")
	// ErrInvalidArgument reports a caller contract violation on Take.
	ErrInvalidArgument = errors.New("bytechan: invalid argument")
)

// AppendFunc is the producer capability handed to external drivers. It is
// bound to a specific Channel so drivers never touch the lock directly.
type AppendFunc func(p []byte) error

// TakeStatus classifies the outcome of a Take call.
type TakeStatus uint8

const (
	// TakeOK means at least minBytes were available and removed.
	TakeOK TakeStatus = iota
	// TakeTimeout means the deadline expired before the wait condition held.
	TakeTimeout
	// TakeStopped means the channel was stopped. Data may still be present
	// (residual bytes are drained after stop until the buffer is empty).
	TakeStopped
)

// String returns the status name.
func (s TakeStatus) String() string {
	switch s {
	case TakeOK:
		return "ok"
	case TakeTimeout:
		return "timeout"
	case TakeStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// TakeResult is the outcome of a single Take call.
type TakeResult struct {
	// Data holds the removed bytes, in append order. Empty on timeout and on
	// stopped-and-drained.
	Data []byte
	// Status classifies the outcome.
	Status TakeStatus
	// Dropped counts bytes discarded by the channel. The channel never
	// discards silently, so this is always 0; the field exists so an overflow
	// policy that drops can surface the count instead of hiding it.
	Dropped int
	// Remaining is the buffer length after removal.
	Remaining int
}

// Channel is a bounded, thread-safe byte buffer decoupling producers from a
// consumer. Append never blocks; Take blocks until enough data is buffered,
// the channel is stopped, or a deadline expires.
//
// Waiters are woken through a notification channel that is closed and remade
// under the lock on every append, stop, and restart. Closing broadcasts to
// every waiter at once; each waiter re-checks its predicate after waking, so
// a wake that raced with another consumer draining the buffer is harmless.
type Channel struct {
	mu       sync.Mutex
	buf      []byte
	capacity int
	notify   chan struct{}
	stopped  atomic.Bool
}

// New creates a Channel with the given fixed capacity in bytes.
func New(capacity int) (*Channel, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Channel{
		buf:      make([]byte, 0, capacity),
		capacity: capacity,
		notify:   make(chan struct{}),
	}, nil
}

// Append atomically appends p to the buffer tail and wakes waiting consumers.
// It never blocks: the call fails with ErrStopped on a stopped channel and
// with ErrOverflow when the whole of p does not fit. Rejection leaves the
// buffer unchanged; there are no partial appends.
func (c *Channel) Append(p []byte) error {
	if c.stopped.Load() {
		return ErrStopped
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped.Load() {
		return ErrStopped
	}
	if len(c.buf)+len(p) > c.capacity {
		return ErrOverflow
	}
	c.buf = append(c.buf, p...)
	c.wakeLocked()
	return nil
}

// Take blocks until the buffer holds at least minBytes, the channel is
// stopped, or timeout elapses, then removes up to maxBytes from the head.
// A non-positive timeout polls the condition once without waiting.
//
// minBytes < 0 or maxBytes < minBytes fails immediately with
// ErrInvalidArgument and does not inspect the buffer. minBytes == 0
// satisfies the wait condition immediately regardless of buffer content.
//
// Take never reports TakeOK with fewer than minBytes; fewer bytes are only
// handed out when the channel stopped with residual data, reported as
// TakeStopped. Only the calling goroutine suspends; producers are never
// blocked by a waiting consumer.
func (c *Channel) Take(minBytes, maxBytes int, timeout time.Duration) (TakeResult, error) {
	if minBytes < 0 || maxBytes < minBytes {
		return TakeResult{}, ErrInvalidArgument
	}

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	c.mu.Lock()
	for !c.readyLocked(minBytes) {
		if timeout <= 0 {
			remaining := len(c.buf)
			c.mu.Unlock()
			return TakeResult{Status: TakeTimeout, Remaining: remaining}, nil
		}
		notify := c.notify
		c.mu.Unlock()
		timedOut := false
		select {
		case <-notify:
		case <-expired:
			timedOut = true
		}
		c.mu.Lock()
		if timedOut {
			// The condition is re-evaluated once after the timeout wake; data
			// that arrived just before the deadline is still handed out.
			if c.readyLocked(minBytes) {
				break
			}
			remaining := len(c.buf)
			c.mu.Unlock()
			return TakeResult{Status: TakeTimeout, Remaining: remaining}, nil
		}
	}
	res := c.takeLocked(maxBytes)
	c.mu.Unlock()
	return res, nil
}

// Stop sets the stopped flag and wakes every blocked Take so it can exit or
// drain. Idempotent, never blocks on consumers.
func (c *Channel) Stop() {
	c.mu.Lock()
	c.stopped.Store(true)
	c.wakeLocked()
	c.mu.Unlock()
}

// Restart clears the stopped flag, allowing new append/take cycles. Buffered
// data is kept.
func (c *Channel) Restart() {
	c.mu.Lock()
	c.stopped.Store(false)
	c.wakeLocked()
	c.mu.Unlock()
}

// Size returns the current buffer length as a momentarily consistent snapshot.
func (c *Channel) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf)
}

// Cap returns the fixed capacity.
func (c *Channel) Cap() int { return c.capacity }

// IsStopped reports the stopped flag without taking the buffer lock.
func (c *Channel) IsStopped() bool { return c.stopped.Load() }

// AppendFunc returns the producer capability bound to this channel.
func (c *Channel) AppendFunc() AppendFunc { return c.Append }

// readyLocked is the wait predicate: stopped or enough buffered bytes.
func (c *Channel) readyLocked(minBytes int) bool {
	return c.stopped.Load() || len(c.buf) >= minBytes
}

// takeLocked removes min(len(buf), maxBytes) bytes from the head. The caller
// holds the lock and has established the wait predicate.
func (c *Channel) takeLocked(maxBytes int) TakeResult {
	if c.stopped.Load() && len(c.buf) == 0 {
		return TakeResult{Status: TakeStopped}
	}
	n := len(c.buf)
	if n > maxBytes {
		n = maxBytes
	}
	data := make([]byte, n)
	copy(data, c.buf[:n])
	rest := copy(c.buf, c.buf[n:])
	c.buf = c.buf[:rest]
	status := TakeOK
	if c.stopped.Load() {
		status = TakeStopped
	}
	return TakeResult{Data: data, Status: status, Remaining: rest}
}

// wakeLocked broadcasts to all waiters by closing the current notification
// channel and installing a fresh one. Caller holds the lock.
func (c *Channel) wakeLocked() {
	close(c.notify)
	c.notify = make(chan struct{})
}

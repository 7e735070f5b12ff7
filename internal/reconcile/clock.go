package reconcile

import "sync/atomic"

// SeqClock hands out sync sequence numbers.
type SeqClock interface {
	Next() int64
}

// Clock is a monotonic logical clock stamping sync events. Safe for
// concurrent use.
type Clock struct {
	seq atomic.Int64
}

// NewClockAt creates a clock whose first Next returns start+1.
// Used to resume after the highest recorded sequence.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last handed out sequence number.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

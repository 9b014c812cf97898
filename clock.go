package booksim

import "github.com/iti/evt/vrtime"

// The simulation driver (global time, event dispatch) is explicitly
// out of the CORE's scope (spec.md §1): BufferState and the routing
// functions only ever need to read a monotonically non-decreasing
// sim_time, never advance it themselves. globalSimClock is that
// read-only view, expressed as vrtime.Time the same way the teacher
// timestamps every trace record and scheduled event.
var globalSimClock func() vrtime.Time = func() vrtime.Time {
	return vrtime.Time{}
}

// SetSimClock installs the driver's clock function. Call once at
// startup; concurrent installation, like the rest of this package's
// process-wide state, is not supported (spec.md §5).
func SetSimClock(clock func() vrtime.Time) {
	globalSimClock = clock
}

// tickClock is a minimal monotonic clock usable by tests and by the
// cmd/dfsim demo driver when no external event manager is driving
// sim_time: each call to Advance bumps the tick count by one cycle.
type tickClock struct {
	ticks int64
}

func (c *tickClock) now() vrtime.Time {
	return vrtime.SecondsToTime(float64(c.ticks))
}

func (c *tickClock) Advance() {
	c.ticks++
}

// newTickClock installs and returns a tickClock as the package's
// global sim_time source.
func newTickClock() *tickClock {
	c := &tickClock{}
	SetSimClock(c.now)
	return c
}

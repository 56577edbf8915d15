package looper

import "time"

// Clock is the transport: a single monotonic time advanced once per
// scheduling tick. Before a loop length is locked it grows without bound;
// after lock, LoopTime wraps modulo the length. It is the sole time source
// every track reads.
type Clock struct {
	t       time.Duration
	loopLen time.Duration // 0 = unlocked
}

// Advance moves the clock forward by dt. Called exactly once per tick,
// after all pointer-driven mutations of that tick.
func (c *Clock) Advance(dt time.Duration) {
	if dt > 0 {
		c.t += dt
	}
}

// Now returns the absolute transport time.
func (c *Clock) Now() time.Duration { return c.t }

// LoopTime returns the position within the locked loop, or absolute time
// while no loop exists.
func (c *Clock) LoopTime() time.Duration {
	if c.loopLen <= 0 {
		return c.t
	}
	return c.t % c.loopLen
}

// LoopLength returns the locked loop length, 0 while undefined.
func (c *Clock) LoopLength() time.Duration { return c.loopLen }

// Locked reports whether a loop length is established.
func (c *Clock) Locked() bool { return c.loopLen > 0 }

func (c *Clock) reset() { c.t = 0 }

func (c *Clock) lock(length time.Duration) { c.loopLen = length }

func (c *Clock) unlock() {
	c.loopLen = 0
	c.t = 0
}

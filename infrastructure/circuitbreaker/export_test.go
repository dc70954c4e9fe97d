package circuitbreaker

import "time"

// SetClock swaps the breaker's time source in tests.
func (b *Breaker) SetClock(now func() time.Time) {
	b.mu.Lock()
	b.now = now
	b.mu.Unlock()
}

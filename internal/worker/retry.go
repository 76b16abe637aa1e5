package worker

import "time"

// Backoff computes the pause between recovery attempts: the delay starts at
// Initial and multiplies by Factor per attempt, capped at Max.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	Factor  float64
}

// Delay returns the pause before the given attempt (1-based). Zero-value
// fields fall back to one second doubling.
func (b Backoff) Delay(attempt int) time.Duration {
	initial := b.Initial
	if initial <= 0 {
		initial = time.Second
	}
	factor := b.Factor
	if factor <= 1 {
		factor = 2
	}

	d := initial
	for i := 1; i < attempt; i++ {
		d = time.Duration(float64(d) * factor)
		if b.Max > 0 && d >= b.Max {
			return b.Max
		}
	}
	return d
}

package geometry

import "time"

const (
	// PulseInterval is how often the highlight pulse advances one step.
	PulseInterval = 50 * time.Millisecond
	pulseSteps    = 5
)

// PulseState animates the marker size of highlighted objects. One value is
// shared by every highlighted object.
type PulseState struct {
	Increasing bool
	Index      int
	Diff       int
	last       time.Time
}

// Reset restarts the animation for the given highlight size.
func (p *PulseState) Reset(highSize int) {
	p.Increasing = true
	p.Index = 0
	p.Diff = highSize / 10
	p.last = time.Time{}
}

// Advance steps the animation once per elapsed interval, bouncing between
// -5 and +5 steps.
func (p *PulseState) Advance(now time.Time) {
	if p.last.IsZero() {
		p.last = now
		return
	}
	for now.Sub(p.last) >= PulseInterval {
		p.last = p.last.Add(PulseInterval)
		if p.Increasing {
			p.Index++
			if p.Index >= pulseSteps {
				p.Index = pulseSteps
				p.Increasing = false
			}
		} else {
			p.Index--
			if p.Index <= -pulseSteps {
				p.Index = -pulseSteps
				p.Increasing = true
			}
		}
	}
}

// Size is the current pulsing size for a base highlight size.
func (p *PulseState) Size(highSize int) int {
	return highSize + p.Index*p.Diff
}

// Package bowling implements ten-pin racks, frames, and scoring.
package bowling

import "math/bits"

// PinCount is the number of pins in a full rack.
const PinCount = 10

// PinSet is a set of standing pins. Bit i is pin i+1.
type PinSet uint16

// FullRack has every pin standing.
const FullRack PinSet = 1<<PinCount - 1

// Count returns the number of standing pins.
func (p PinSet) Count() int {
	return bits.OnesCount16(uint16(p & FullRack))
}

// Standing reports whether pin (1-10) is standing.
func (p PinSet) Standing(pin int) bool {
	if pin < 1 || pin > PinCount {
		return false
	}
	return p&(1<<(pin-1)) != 0
}

// Knock returns the set with the given pins removed.
func (p PinSet) Knock(pins ...int) PinSet {
	for _, pin := range pins {
		if pin < 1 || pin > PinCount {
			continue
		}
		p &^= 1 << (pin - 1)
	}
	return p
}

// Tracker keeps the rack state for the roll in progress.
type Tracker struct {
	standing PinSet
}

// NewTracker returns a tracker with a full rack.
func NewTracker() *Tracker {
	return &Tracker{standing: FullRack}
}

// Standing returns the number of pins still standing.
func (t *Tracker) Standing() int {
	return t.standing.Count()
}

// Pins returns the standing pin set.
func (t *Tracker) Pins() PinSet {
	return t.standing
}

// ReportStanding records how many pins are standing after a roll and returns
// how many were knocked down. The count is clamped to [0, Standing()], and the
// lowest-numbered pins are the ones marked down.
func (t *Tracker) ReportStanding(count int) int {
	before := t.standing.Count()
	if count < 0 {
		count = 0
	}
	if count > before {
		count = before
	}
	toKnock := before - count
	for pin := 1; pin <= PinCount && toKnock > 0; pin++ {
		if t.standing.Standing(pin) {
			t.standing = t.standing.Knock(pin)
			toKnock--
		}
	}
	return before - count
}

// ReportPins records the exact set of pins standing after a roll and returns
// how many were knocked down. Pins already down cannot stand back up.
func (t *Tracker) ReportPins(up PinSet) int {
	before := t.standing.Count()
	t.standing &= up
	return before - t.standing.Count()
}

// ResetRack restores a full rack.
func (t *Tracker) ResetRack() {
	t.standing = FullRack
}

// ResetForSecondRoll keeps the remaining pins for the next roll of the frame.
func (t *Tracker) ResetForSecondRoll() {}


// Package lane simulates how a rolled ball knocks down pins.
package lane

import (
	"math"
	"math/rand"
	"time"

	"github.com/verte-zerg/tuibowl/internal/bowling"
	"github.com/verte-zerg/tuibowl/internal/turn"
)

// Pin positions in lane units: x across the lane, row back from the head pin.
var pinSpots = [bowling.PinCount]struct {
	x   float64
	row int
}{
	{0, 0},
	{-1, 1}, {1, 1},
	{-2, 2}, {0, 2}, {2, 2},
	{-3, 3}, {-1, 3}, {1, 3}, {3, 3},
}

const (
	// distance from the foul line to the head pin, in lane units
	laneLength = 35.0
	rowDepth   = 1.5
	// half width of the pin deck; a ball beyond it is in the gutter
	deckHalfWidth = 4.5
	ballRadius    = 0.9
	pinRadius     = 0.4
)

// Simulator produces randomized roll outcomes.
type Simulator struct {
	rnd *rand.Rand
}

// New returns a Simulator seeded with seed, or with the current time when
// seed is zero.
func New(seed int64) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{rnd: rand.New(rand.NewSource(seed))}
}

// Roll returns the pins left standing after a ball rolled with aim into the
// standing pins.
func (s *Simulator) Roll(aim turn.Aim, standing bowling.PinSet) bowling.PinSet {
	aim = aim.Clamp()
	// Offset spans the approach; scale it onto the narrower deck.
	startX := float64(aim.Offset) * deckHalfWidth / turn.MaxOffset
	drift := math.Tan(aim.Angle)
	wobble := (s.rnd.Float64() - 0.5) * (1.2 - aim.Power)

	if math.Abs(startX+drift*laneLength+wobble) > deckHalfWidth+ballRadius {
		return standing
	}

	var hits []int
	for i, spot := range pinSpots {
		pin := i + 1
		if !standing.Standing(pin) {
			continue
		}
		ballX := startX + drift*(laneLength+float64(spot.row)*rowDepth) + wobble
		if math.Abs(ballX-spot.x) <= ballRadius+pinRadius {
			hits = append(hits, pin)
		}
	}

	down := map[int]bool{}
	for _, pin := range hits {
		s.topple(pin, aim.Power, standing, down)
	}
	left := standing
	for pin := range down {
		left = left.Knock(pin)
	}
	return left
}

// topple knocks pin down and lets it carry into standing neighbors behind it.
func (s *Simulator) topple(pin int, power float64, standing bowling.PinSet, down map[int]bool) {
	if down[pin] || !standing.Standing(pin) {
		return
	}
	down[pin] = true
	from := pinSpots[pin-1]
	for i, spot := range pinSpots {
		next := i + 1
		if spot.row != from.row+1 || math.Abs(spot.x-from.x) > 1 {
			continue
		}
		if s.rnd.Float64() < 0.35+0.55*power {
			s.topple(next, power*0.9, standing, down)
		}
	}
}

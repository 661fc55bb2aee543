package turn

const (
	// MaxOffset is the furthest the ball can start from the lane center.
	MaxOffset = 8
	// MaxAngle is the largest aim angle in radians either side of straight.
	MaxAngle = 0.15
	// MinLaunchPower is the least power that releases the ball.
	MinLaunchPower = 0.2
)

// Aim is the player's setup for a roll.
type Aim struct {
	// Offset is the lateral start position in lane units, negative to the left.
	Offset int
	// Angle is the heading in radians, negative to the left.
	Angle float64
	// Power is the release strength in [0, 1].
	Power float64
}

// Clamp returns the aim limited to the lane's bounds.
func (a Aim) Clamp() Aim {
	a.Offset = clampInt(a.Offset, -MaxOffset, MaxOffset)
	a.Angle = clampFloat(a.Angle, -MaxAngle, MaxAngle)
	a.Power = clampFloat(a.Power, 0, 1)
	return a
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

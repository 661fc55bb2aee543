package bowling

// FrameScore is the scoring state of one frame.
type FrameScore struct {
	// Points is the frame's own pins plus bonus. Zero until known.
	Points int
	// Cumulative is the running total through this frame.
	Cumulative int
	// Pending is true while Cumulative cannot be computed yet, either because
	// a bonus roll is missing or an earlier frame is still pending.
	Pending bool
}

// Scores is the scoring state of a whole game.
type Scores struct {
	Frames [FrameCount]FrameScore
	// Total is the cumulative score through the last resolved frame.
	Total int
	// Final is true once the tenth frame is resolved.
	Final bool
}

// Score maps frames to per-frame and running scores. Frames beyond the slice
// are treated as empty.
func Score(frames []Frame) Scores {
	var rolls []int
	starts := make([]int, len(frames))
	for i, f := range frames {
		starts[i] = len(rolls)
		rolls = append(rolls, f.Rolls...)
	}

	var s Scores
	running := 0
	resolved := true
	for i := 0; i < FrameCount; i++ {
		fs := &s.Frames[i]
		points, ok := 0, false
		if i < len(frames) {
			points, ok = framePoints(frames[i], i == FrameCount-1, rolls, starts[i])
		}
		if ok {
			fs.Points = points
		}
		if !ok || !resolved {
			fs.Pending = true
			resolved = false
			continue
		}
		running += points
		fs.Cumulative = running
	}
	s.Total = running
	s.Final = resolved
	return s
}

func framePoints(f Frame, final bool, rolls []int, start int) (int, bool) {
	if final {
		if !frameComplete(f.Rolls, true) {
			return 0, false
		}
		return f.Pins(), true
	}
	switch f.Bonus() {
	case BonusStrike, BonusSpare:
		// Strike: itself plus the next two rolls. Spare: its two rolls plus the next.
		return sumRolls(rolls, start, 3)
	default:
		if len(f.Rolls) < 2 {
			return 0, false
		}
		return f.Pins(), true
	}
}

func sumRolls(rolls []int, start, n int) (int, bool) {
	if start+n > len(rolls) {
		return 0, false
	}
	sum := 0
	for _, r := range rolls[start : start+n] {
		sum += r
	}
	return sum, true
}

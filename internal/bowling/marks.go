package bowling

import "strconv"

// Marks returns the scoresheet symbol for each roll in f: X for a strike, /
// for a spare, - for a miss and the pin count otherwise. The final frame racks
// up again after a strike or spare, so its marks follow the rack.
func Marks(f Frame, final bool) []string {
	marks := make([]string, 0, len(f.Rolls))
	standing, fresh := PinCount, true
	for _, r := range f.Rolls {
		marks = append(marks, rollMark(r, standing, fresh))
		standing -= r
		fresh = false
		if standing == 0 {
			if !final {
				break
			}
			standing, fresh = PinCount, true
		}
	}
	return marks
}

func rollMark(pins, standing int, fresh bool) string {
	switch {
	case fresh && pins == PinCount:
		return "X"
	case !fresh && pins == standing:
		return "/"
	case pins == 0:
		return "-"
	default:
		return strconv.Itoa(pins)
	}
}

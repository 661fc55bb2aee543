package bowling

import "fmt"

// FrameCount is the number of frames in a game.
const FrameCount = 10

// BonusKind classifies how a frame earns bonus pins.
type BonusKind int

const (
	BonusNone BonusKind = iota
	BonusSpare
	BonusStrike
)

func (b BonusKind) String() string {
	switch b {
	case BonusSpare:
		return "spare"
	case BonusStrike:
		return "strike"
	default:
		return "none"
	}
}

// Frame holds the rolls recorded for one frame.
type Frame struct {
	Rolls []int
}

// Bonus classifies the frame from its first two rolls.
func (f Frame) Bonus() BonusKind {
	if len(f.Rolls) > 0 && f.Rolls[0] == PinCount {
		return BonusStrike
	}
	if len(f.Rolls) > 1 && f.Rolls[0]+f.Rolls[1] == PinCount {
		return BonusSpare
	}
	return BonusNone
}

// Pins returns the pins knocked down across the frame's own rolls.
func (f Frame) Pins() int {
	sum := 0
	for _, r := range f.Rolls {
		sum += r
	}
	return sum
}

func frameComplete(rolls []int, final bool) bool {
	if !final {
		return len(rolls) == 2 || (len(rolls) == 1 && rolls[0] == PinCount)
	}
	switch len(rolls) {
	case 0, 1:
		return false
	case 2:
		return rolls[0]+rolls[1] < PinCount
	default:
		return true
	}
}

// standingAfter returns the pins left in the rack after rolls, where a
// cleared rack is set again in full.
func standingAfter(rolls []int) int {
	standing := PinCount
	for _, r := range rolls {
		standing -= r
		if standing == 0 {
			standing = PinCount
		}
	}
	return standing
}

// RollResult describes a recorded roll and what it did to the game.
type RollResult struct {
	Frame         int
	Roll          int
	Pins          int
	Bonus         BonusKind
	FrameComplete bool
	GameComplete  bool
	// FreshRack is true when the next roll starts on a full rack.
	FreshRack bool
}

// Ledger is the ordered record of a game's frames.
type Ledger struct {
	frames   [FrameCount]Frame
	current  int
	complete bool
}

// NewLedger returns an empty ledger positioned at the first frame.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Replay builds a ledger by recording rolls in order.
func Replay(rolls []int) (*Ledger, error) {
	l := NewLedger()
	for i, pins := range rolls {
		if _, err := l.Record(pins); err != nil {
			return nil, fmt.Errorf("roll %d: %w", i+1, err)
		}
	}
	return l, nil
}

// Record appends a roll to the current frame.
func (l *Ledger) Record(pins int) (RollResult, error) {
	if l.complete {
		return RollResult{}, fmt.Errorf("record %d pins after the last frame: %w", pins, ErrOutOfSequence)
	}
	standing := l.Standing()
	if pins < 0 || pins > standing {
		return RollResult{}, fmt.Errorf("record %d pins with %d standing: %w", pins, standing, ErrInvalidPinCount)
	}

	idx := l.current
	f := &l.frames[idx]
	f.Rolls = append(f.Rolls, pins)
	res := RollResult{
		Frame: idx,
		Roll:  len(f.Rolls) - 1,
		Pins:  pins,
		Bonus: f.Bonus(),
	}
	if frameComplete(f.Rolls, idx == FrameCount-1) {
		res.FrameComplete = true
		if err := l.advance(); err != nil {
			return res, err
		}
		res.GameComplete = l.complete
	}
	res.FreshRack = !l.complete && l.Standing() == PinCount
	return res, nil
}

func (l *Ledger) advance() error {
	if l.complete {
		return fmt.Errorf("advance past frame %d: %w", FrameCount, ErrIllegalFrameTransition)
	}
	if l.current == FrameCount-1 {
		l.complete = true
		return nil
	}
	l.current++
	return nil
}

// Standing returns the pins standing for the next roll by the rules of the
// current frame. It is 0 once the game is complete.
func (l *Ledger) Standing() int {
	if l.complete {
		return 0
	}
	return standingAfter(l.frames[l.current].Rolls)
}

// Complete reports whether all ten frames are finished.
func (l *Ledger) Complete() bool {
	return l.complete
}

// FrameIndex returns the index of the frame receiving rolls, or the last
// frame once the game is complete.
func (l *Ledger) FrameIndex() int {
	return l.current
}

// RollIndex returns the number of rolls already in the current frame.
func (l *Ledger) RollIndex() int {
	return len(l.frames[l.current].Rolls)
}

// Frames returns a copy of all ten frames.
func (l *Ledger) Frames() []Frame {
	out := make([]Frame, FrameCount)
	for i, f := range l.frames {
		out[i] = Frame{Rolls: append([]int(nil), f.Rolls...)}
	}
	return out
}

// Rolls returns every recorded roll in order.
func (l *Ledger) Rolls() []int {
	var rolls []int
	for _, f := range l.frames {
		rolls = append(rolls, f.Rolls...)
	}
	return rolls
}

// Score computes the scores for the frames recorded so far.
func (l *Ledger) Score() Scores {
	return Score(l.frames[:])
}

package bowling

import (
	"errors"
	"testing"
)

func replay(t *testing.T, rolls []int) *Ledger {
	t.Helper()
	l, err := Replay(rolls)
	if err != nil {
		t.Fatalf("replay %v: %v", rolls, err)
	}
	return l
}

func repeat(pins, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = pins
	}
	return out
}

func TestScoreFullGames(t *testing.T) {
	cases := []struct {
		name  string
		rolls []int
		total int
	}{
		{name: "perfect", rolls: repeat(10, 12), total: 300},
		{name: "gutter", rolls: repeat(0, 20), total: 0},
		{name: "all nines", rolls: []int{9, 0, 9, 0, 9, 0, 9, 0, 9, 0, 9, 0, 9, 0, 9, 0, 9, 0, 9, 0}, total: 90},
		{name: "all spares", rolls: repeat(5, 21), total: 150},
		{name: "mixed", rolls: []int{10, 7, 3, 9, 0, 10, 0, 8, 8, 2, 0, 6, 10, 10, 10, 8, 1}, total: 167},
		{name: "strike then spare in tenth", rolls: append(repeat(0, 18), 10, 4, 6), total: 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := replay(t, tc.rolls)
			if !l.Complete() {
				t.Fatalf("expected complete game")
			}
			s := l.Score()
			if !s.Final {
				t.Fatalf("expected final score")
			}
			if s.Total != tc.total {
				t.Fatalf("expected total %d, got %d", tc.total, s.Total)
			}
			if s.Frames[FrameCount-1].Cumulative != tc.total {
				t.Fatalf("expected last cumulative %d, got %d", tc.total, s.Frames[FrameCount-1].Cumulative)
			}
		})
	}
}

func TestScoreMixedGameCumulatives(t *testing.T) {
	l := replay(t, []int{10, 7, 3, 9, 0, 10, 0, 8, 8, 2, 0, 6, 10, 10, 10, 8, 1})
	want := []int{20, 39, 48, 66, 74, 84, 90, 120, 148, 167}
	s := l.Score()
	for i, w := range want {
		if s.Frames[i].Pending {
			t.Fatalf("frame %d unexpectedly pending", i+1)
		}
		if s.Frames[i].Cumulative != w {
			t.Fatalf("frame %d: expected cumulative %d, got %d", i+1, w, s.Frames[i].Cumulative)
		}
	}
}

func TestScorePendingBonus(t *testing.T) {
	l := replay(t, []int{10, 3})
	s := l.Score()
	if !s.Frames[0].Pending || !s.Frames[1].Pending {
		t.Fatalf("expected strike and open frame pending: %+v", s.Frames[:2])
	}
	if s.Total != 0 {
		t.Fatalf("expected total 0 while pending, got %d", s.Total)
	}

	if _, err := l.Record(4); err != nil {
		t.Fatalf("record: %v", err)
	}
	s = l.Score()
	if s.Frames[0].Cumulative != 17 || s.Frames[1].Cumulative != 24 {
		t.Fatalf("unexpected cumulatives: %+v", s.Frames[:2])
	}
	if s.Total != 24 || s.Final {
		t.Fatalf("unexpected totals: total=%d final=%v", s.Total, s.Final)
	}
}

func TestScoreDoubleStrikeWaitsForThirdRoll(t *testing.T) {
	l := replay(t, []int{10, 10})
	if s := l.Score(); !s.Frames[0].Pending {
		t.Fatalf("expected first strike pending after two strikes")
	}
	if _, err := l.Record(7); err != nil {
		t.Fatalf("record: %v", err)
	}
	s := l.Score()
	if s.Frames[0].Cumulative != 27 {
		t.Fatalf("expected 27, got %d", s.Frames[0].Cumulative)
	}
	if !s.Frames[1].Pending {
		t.Fatalf("expected second strike pending")
	}
}

func TestScoreTotalNeverDecreases(t *testing.T) {
	rolls := []int{10, 7, 3, 9, 0, 10, 0, 8, 8, 2, 0, 6, 10, 10, 10, 8, 1}
	l := NewLedger()
	prev := 0
	for _, pins := range rolls {
		if _, err := l.Record(pins); err != nil {
			t.Fatalf("record: %v", err)
		}
		total := l.Score().Total
		if total < prev {
			t.Fatalf("total decreased from %d to %d", prev, total)
		}
		prev = total
	}
}

func TestStrikeFramesHaveOneRoll(t *testing.T) {
	l := replay(t, repeat(10, 12))
	frames := l.Frames()
	for i := 0; i < FrameCount-1; i++ {
		if len(frames[i].Rolls) != 1 {
			t.Fatalf("frame %d: expected 1 roll, got %d", i+1, len(frames[i].Rolls))
		}
		if frames[i].Bonus() != BonusStrike {
			t.Fatalf("frame %d: expected strike", i+1)
		}
	}
	if len(frames[FrameCount-1].Rolls) != 3 {
		t.Fatalf("expected 3 rolls in last frame, got %d", len(frames[FrameCount-1].Rolls))
	}
}

func TestTenthFrameGutterHasTwoRolls(t *testing.T) {
	l := replay(t, repeat(0, 20))
	frames := l.Frames()
	if len(frames[FrameCount-1].Rolls) != 2 {
		t.Fatalf("expected 2 rolls in last frame, got %d", len(frames[FrameCount-1].Rolls))
	}
	if _, err := l.Record(0); !errors.Is(err, ErrOutOfSequence) {
		t.Fatalf("expected out of sequence, got %v", err)
	}
}

func TestTenthFrameSpareGrantsOneRoll(t *testing.T) {
	l := replay(t, append(repeat(0, 18), 5, 5))
	if l.Complete() {
		t.Fatalf("expected bonus roll after spare")
	}
	if l.Standing() != PinCount {
		t.Fatalf("expected fresh rack for bonus roll, got %d", l.Standing())
	}
	res, err := l.Record(7)
	if err != nil {
		t.Fatalf("record bonus: %v", err)
	}
	if !res.GameComplete {
		t.Fatalf("expected game complete after bonus roll")
	}
	s := l.Score()
	if s.Frames[FrameCount-1].Points != 17 {
		t.Fatalf("expected frame score 17, got %d", s.Frames[FrameCount-1].Points)
	}
	if _, err := l.Record(1); !errors.Is(err, ErrOutOfSequence) {
		t.Fatalf("expected out of sequence, got %v", err)
	}
}

func TestRecordRejectsInvalidPinCount(t *testing.T) {
	l := replay(t, []int{6})
	for _, pins := range []int{-1, 5, 11} {
		if _, err := l.Record(pins); !errors.Is(err, ErrInvalidPinCount) {
			t.Fatalf("pins %d: expected invalid pin count, got %v", pins, err)
		}
	}
	if l.RollIndex() != 1 || l.FrameIndex() != 0 {
		t.Fatalf("ledger mutated by rejected rolls: frame=%d roll=%d", l.FrameIndex(), l.RollIndex())
	}
	if _, err := l.Record(4); err != nil {
		t.Fatalf("record valid roll: %v", err)
	}
}

func TestTenthFrameStrikeRackRules(t *testing.T) {
	l := replay(t, append(repeat(0, 18), 10, 7))
	if l.Standing() != 3 {
		t.Fatalf("expected 3 standing, got %d", l.Standing())
	}
	if _, err := l.Record(4); !errors.Is(err, ErrInvalidPinCount) {
		t.Fatalf("expected invalid pin count, got %v", err)
	}
}

func TestRecordResultFlags(t *testing.T) {
	l := NewLedger()
	res, err := l.Record(10)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !res.FrameComplete || !res.FreshRack || res.Bonus != BonusStrike {
		t.Fatalf("unexpected strike result: %+v", res)
	}
	res, err = l.Record(3)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if res.FrameComplete || res.FreshRack || res.Frame != 1 || res.Roll != 0 {
		t.Fatalf("unexpected first-roll result: %+v", res)
	}
	res, err = l.Record(7)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !res.FrameComplete || res.Bonus != BonusSpare || res.Roll != 1 {
		t.Fatalf("unexpected spare result: %+v", res)
	}
}

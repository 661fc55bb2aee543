package game

import (
	"bytes"
	"errors"
	"testing"

	"github.com/verte-zerg/tuibowl/internal/bowling"
	"github.com/verte-zerg/tuibowl/internal/turn"
)

type recorder struct {
	rolls    []int
	scores   bowling.Scores
	advanced []int
	total    int
	over     bool
	warnings []error

	launches   int
	resets     int
	reposition int
}

func (r *recorder) RollScored(_, _, pins int, _ bowling.BonusKind) { r.rolls = append(r.rolls, pins) }
func (r *recorder) FrameScoresUpdated(scores bowling.Scores)       { r.scores = scores }
func (r *recorder) FrameAdvanced(frame int)                        { r.advanced = append(r.advanced, frame) }
func (r *recorder) GameOver(total int)                             { r.total, r.over = total, true }
func (r *recorder) Warning(err error)                              { r.warnings = append(r.warnings, err) }
func (r *recorder) LaunchBall(turn.Aim)                            { r.launches++ }
func (r *recorder) RequestFullPinReset()                           { r.resets++ }
func (r *recorder) RequestBallReposition()                         { r.reposition++ }

// autoReset acknowledges pin resets from inside the callback.
type autoReset struct {
	recorder
	session *Session
}

func (a *autoReset) RequestFullPinReset() {
	a.recorder.RequestFullPinReset()
	if err := a.session.OnPinsResetAcknowledged(); err != nil {
		panic(err)
	}
}

// bowl plays the given knocked-down counts through a session.
func bowl(t *testing.T, s *Session, knocked ...int) {
	t.Helper()
	for _, pins := range knocked {
		if err := s.OnAimChanged(turn.Aim{Power: 0.8}); err != nil {
			t.Fatalf("aim: %v", err)
		}
		if err := s.OnLaunchRequested(); err != nil {
			t.Fatalf("launch: %v", err)
		}
		standing := s.Pins().Count() - pins
		if err := s.OnBallSettled(standing); err != nil {
			t.Fatalf("settle %d: %v", pins, err)
		}
		if s.State() == turn.ResettingPins {
			if err := s.OnPinsResetAcknowledged(); err != nil {
				t.Fatalf("reset: %v", err)
			}
		}
	}
}

func TestSessionMixedGame(t *testing.T) {
	rec := &recorder{}
	s := NewSession(rec, rec)
	bowl(t, s, 10, 7, 3, 9, 0, 10, 0, 8, 8, 2, 0, 6, 10, 10, 10, 8, 1)
	if !rec.over || rec.total != 167 {
		t.Fatalf("expected game over with 167, got over=%v total=%d", rec.over, rec.total)
	}
	if !s.Over() || !rec.scores.Final {
		t.Fatalf("expected final scores")
	}
	if len(rec.rolls) != 17 || rec.launches != 17 {
		t.Fatalf("expected 17 rolls and launches, got %d and %d", len(rec.rolls), rec.launches)
	}
	if len(rec.advanced) != 9 || rec.advanced[8] != 9 {
		t.Fatalf("unexpected frame advances: %v", rec.advanced)
	}
}

func TestSessionGutterGame(t *testing.T) {
	rec := &recorder{}
	s := NewSession(rec, rec)
	knocked := make([]int, 20)
	bowl(t, s, knocked...)
	if !rec.over || rec.total != 0 {
		t.Fatalf("expected game over with 0, got over=%v total=%d", rec.over, rec.total)
	}
	if n := len(s.Frames()[bowling.FrameCount-1].Rolls); n != 2 {
		t.Fatalf("expected 2 rolls in last frame, got %d", n)
	}
}

func TestSessionTenthFrameSpare(t *testing.T) {
	rec := &recorder{}
	s := NewSession(rec, rec)
	bowl(t, s, make([]int, 18)...)
	bowl(t, s, 5, 5)
	if s.Over() {
		t.Fatalf("expected a bonus roll after a tenth-frame spare")
	}
	if s.Pins() != bowling.FullRack {
		t.Fatalf("expected a full rack for the bonus roll")
	}
	bowl(t, s, 6)
	if !s.Over() || rec.total != 16 {
		t.Fatalf("expected game over with 16, got %d", rec.total)
	}
	if got := s.Scores().Frames[bowling.FrameCount-1].Points; got != 16 {
		t.Fatalf("expected tenth frame 16, got %d", got)
	}
}

func TestSessionDoubleLaunchIgnored(t *testing.T) {
	rec := &recorder{}
	s := NewSession(rec, rec)
	if err := s.OnAimChanged(turn.Aim{Power: 1}); err != nil {
		t.Fatalf("aim: %v", err)
	}
	if err := s.OnLaunchRequested(); err != nil {
		t.Fatalf("launch: %v", err)
	}
	if err := s.OnLaunchRequested(); !errors.Is(err, bowling.ErrOutOfSequence) {
		t.Fatalf("expected out of sequence, got %v", err)
	}
	if rec.launches != 1 || s.State() != turn.BallInFlight || !s.BallInPlay() {
		t.Fatalf("second launch had an effect: launches=%d state=%s", rec.launches, s.State())
	}
	if len(rec.warnings) != 1 {
		t.Fatalf("expected one warning, got %v", rec.warnings)
	}
}

func TestSessionSecondSettleIgnored(t *testing.T) {
	rec := &recorder{}
	s := NewSession(rec, rec)
	if err := s.OnAimChanged(turn.Aim{Power: 1}); err != nil {
		t.Fatalf("aim: %v", err)
	}
	if err := s.OnLaunchRequested(); err != nil {
		t.Fatalf("launch: %v", err)
	}
	if err := s.OnBallSettled(0); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if err := s.OnBallSettled(0); !errors.Is(err, bowling.ErrOutOfSequence) {
		t.Fatalf("expected out of sequence, got %v", err)
	}
	if len(rec.rolls) != 1 || len(s.Frames()[1].Rolls) != 0 {
		t.Fatalf("second settle recorded a roll: %v", rec.rolls)
	}
}

func TestSessionInvalidPinCountWarns(t *testing.T) {
	rec := &recorder{}
	s := NewSession(rec, rec)
	if err := s.OnAimChanged(turn.Aim{Power: 1}); err != nil {
		t.Fatalf("aim: %v", err)
	}
	if err := s.OnLaunchRequested(); err != nil {
		t.Fatalf("launch: %v", err)
	}
	if err := s.OnBallSettled(12); !errors.Is(err, bowling.ErrInvalidPinCount) {
		t.Fatalf("expected invalid pin count, got %v", err)
	}
	if len(rec.warnings) != 1 || !errors.Is(rec.warnings[0], bowling.ErrInvalidPinCount) {
		t.Fatalf("expected invalid pin count warning, got %v", rec.warnings)
	}
	if s.State() != turn.BallInFlight || len(rec.rolls) != 0 {
		t.Fatalf("rejected settle changed state")
	}
}

func TestSessionQueuesReentrantEvents(t *testing.T) {
	env := &autoReset{}
	s := NewSession(&env.recorder, env)
	env.session = s
	if err := s.OnAimChanged(turn.Aim{Power: 1}); err != nil {
		t.Fatalf("aim: %v", err)
	}
	if err := s.OnLaunchRequested(); err != nil {
		t.Fatalf("launch: %v", err)
	}
	if err := s.OnBallSettled(0); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if env.resets != 1 {
		t.Fatalf("expected one reset request, got %d", env.resets)
	}
	if s.State() != turn.AwaitingAim {
		t.Fatalf("expected queued acknowledgment to run, got %s", s.State())
	}
	if env.reposition != 1 {
		t.Fatalf("expected reposition before the queued reset ran, got %d", env.reposition)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	rec := &recorder{}
	s := NewSession(rec, rec)
	bowl(t, s, 10, 7, 3, 9, 0, 10, 4)

	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, s.Snapshot("ada")); err != nil {
		t.Fatalf("encode: %v", err)
	}
	snap, err := DecodeSnapshot(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Player != "ada" || snap.FrameIndex != 4 || snap.RollIndex != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	restored, err := Restore(snap, rec, rec)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Scores() != s.Scores() {
		t.Fatalf("scores differ after restore:\n%+v\n%+v", restored.Scores(), s.Scores())
	}
	if restored.Pins().Count() != 6 || restored.State() != turn.AwaitingAim || !restored.Started() {
		t.Fatalf("unexpected restored session: pins=%d state=%s", restored.Pins().Count(), restored.State())
	}

	bowl(t, s, 6, 0, 6, 10, 10, 10, 8, 1)
	bowl(t, restored, 6, 0, 6, 10, 10, 10, 8, 1)
	if restored.Scores() != s.Scores() {
		t.Fatalf("scores diverged after resuming")
	}
}

func TestRestoreRejectsInconsistentSnapshot(t *testing.T) {
	cases := []Snapshot{
		{Frames: [][]int{{3}, {4}}, FrameIndex: 1, RollIndex: 1},
		{Frames: [][]int{{7, 5}}, FrameIndex: 0, RollIndex: 2},
		{Frames: [][]int{{3, 4}}, FrameIndex: 0, RollIndex: 0},
		{Frames: make([][]int, 11)},
	}
	for i, snap := range cases {
		if _, err := Restore(snap, &recorder{}, &recorder{}); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

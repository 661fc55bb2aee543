package turn

import (
	"errors"
	"testing"

	"github.com/verte-zerg/tuibowl/internal/bowling"
)

func newController() *Controller {
	return NewController(bowling.NewLedger(), bowling.NewTracker())
}

func mustApply(t *testing.T, c *Controller, ev Event) []Effect {
	t.Helper()
	effects, err := c.Apply(ev)
	if err != nil {
		t.Fatalf("apply %T in %s: %v", ev, c.State(), err)
	}
	return effects
}

// roll launches a ball and settles it with standing pins left.
func roll(t *testing.T, c *Controller, standing int) []Effect {
	t.Helper()
	mustApply(t, c, AimChanged{Aim: Aim{Power: 1}})
	mustApply(t, c, Launched{})
	effects := mustApply(t, c, BallSettled{Standing: standing})
	if c.State() == ResettingPins {
		mustApply(t, c, PinsReset{})
	}
	return effects
}

func hasEffect[T Effect](effects []Effect) (T, bool) {
	for _, e := range effects {
		if v, ok := e.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func TestLaunchMovesToBallInFlight(t *testing.T) {
	c := newController()
	mustApply(t, c, AimChanged{Aim: Aim{Offset: 20, Angle: -1, Power: 0.5}})
	if got := c.Aim(); got.Offset != MaxOffset || got.Angle != -MaxAngle {
		t.Fatalf("expected clamped aim, got %+v", got)
	}
	effects := mustApply(t, c, Launched{})
	if c.State() != BallInFlight {
		t.Fatalf("expected ball in flight, got %s", c.State())
	}
	launch, ok := hasEffect[LaunchBall](effects)
	if !ok || launch.Aim.Power != 0.5 {
		t.Fatalf("expected launch effect with aim, got %+v", effects)
	}
	if !c.Started() || !c.InPlay() {
		t.Fatalf("expected started and in play")
	}
}

func TestSecondLaunchIsNoOp(t *testing.T) {
	c := newController()
	mustApply(t, c, AimChanged{Aim: Aim{Power: 1}})
	mustApply(t, c, Launched{})
	effects, err := c.Apply(Launched{})
	if !errors.Is(err, bowling.ErrOutOfSequence) {
		t.Fatalf("expected out of sequence, got %v", err)
	}
	if len(effects) != 0 || c.State() != BallInFlight {
		t.Fatalf("second launch changed state: %s %+v", c.State(), effects)
	}
	if _, err := c.Apply(AimChanged{Aim: Aim{Angle: 0.1}}); !errors.Is(err, bowling.ErrOutOfSequence) {
		t.Fatalf("expected aim to be rejected in flight, got %v", err)
	}
}

func TestUnderpoweredLaunchRejected(t *testing.T) {
	c := newController()
	mustApply(t, c, AimChanged{Aim: Aim{Power: 0.1}})
	if _, err := c.Apply(Launched{}); !errors.Is(err, ErrUnderpoweredLaunch) {
		t.Fatalf("expected underpowered launch, got %v", err)
	}
	if c.State() != AwaitingAim || c.Started() {
		t.Fatalf("expected no transition, got %s", c.State())
	}
}

func TestFirstRollKeepsPins(t *testing.T) {
	c := newController()
	effects := roll(t, c, 4)
	if c.State() != AwaitingAim {
		t.Fatalf("expected awaiting aim, got %s", c.State())
	}
	if _, ok := hasEffect[RequestPinReset](effects); ok {
		t.Fatalf("did not expect pin reset after first roll")
	}
	if _, ok := hasEffect[RequestBallReposition](effects); !ok {
		t.Fatalf("expected ball reposition after first roll")
	}
	scored, ok := hasEffect[RollScored](effects)
	if !ok || scored.Pins != 6 || scored.Frame != 0 || scored.Roll != 0 {
		t.Fatalf("unexpected roll scored: %+v", scored)
	}
	if c.Aim().Power != 0 {
		t.Fatalf("expected power cleared after roll")
	}
}

func TestTransitionPathThroughSettling(t *testing.T) {
	c := newController()
	mustApply(t, c, AimChanged{Aim: Aim{Power: 1}})
	mustApply(t, c, Launched{})
	effects := mustApply(t, c, BallSettled{Standing: 0})
	var path []State
	for _, e := range effects {
		if sc, ok := e.(StateChanged); ok {
			path = append(path, sc.To)
		}
	}
	want := []State{Settling, Scored, ResettingPins}
	if len(path) != len(want) {
		t.Fatalf("unexpected path %v", path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("unexpected path %v", path)
		}
	}
	adv, ok := hasEffect[FrameAdvanced](effects)
	if !ok || adv.Frame != 1 {
		t.Fatalf("expected frame advanced to 1, got %+v", effects)
	}
	if _, ok := hasEffect[RequestPinReset](effects); !ok {
		t.Fatalf("expected pin reset request")
	}
}

func TestSettleTwiceIsOutOfSequence(t *testing.T) {
	c := newController()
	mustApply(t, c, AimChanged{Aim: Aim{Power: 1}})
	mustApply(t, c, Launched{})
	mustApply(t, c, BallSettled{Standing: 2})
	if _, err := c.Apply(BallSettled{Standing: 0}); !errors.Is(err, bowling.ErrOutOfSequence) {
		t.Fatalf("expected out of sequence, got %v", err)
	}
	if c.State() != AwaitingAim {
		t.Fatalf("expected awaiting aim, got %s", c.State())
	}
}

func TestSettleInvalidCountKeepsState(t *testing.T) {
	c := newController()
	roll(t, c, 4)
	mustApply(t, c, AimChanged{Aim: Aim{Power: 1}})
	mustApply(t, c, Launched{})
	for _, standing := range []int{-1, 5, 11} {
		if _, err := c.Apply(BallSettled{Standing: standing}); !errors.Is(err, bowling.ErrInvalidPinCount) {
			t.Fatalf("standing %d: expected invalid pin count, got %v", standing, err)
		}
		if c.State() != BallInFlight {
			t.Fatalf("expected ball still in flight, got %s", c.State())
		}
	}
	mustApply(t, c, BallSettled{Standing: 1})
	if c.State() != ResettingPins {
		t.Fatalf("expected resetting pins after frame, got %s", c.State())
	}
}

func TestPinsResetOnlyWhileResetting(t *testing.T) {
	c := newController()
	if _, err := c.Apply(PinsReset{}); !errors.Is(err, bowling.ErrOutOfSequence) {
		t.Fatalf("expected out of sequence, got %v", err)
	}
}

func TestExactPinsSettle(t *testing.T) {
	c := newController()
	mustApply(t, c, AimChanged{Aim: Aim{Power: 1}})
	mustApply(t, c, Launched{})
	effects := mustApply(t, c, BallSettled{Pins: bowling.FullRack.Knock(1, 2, 3), Exact: true})
	scored, _ := hasEffect[RollScored](effects)
	if scored.Pins != 3 {
		t.Fatalf("expected 3 pins, got %d", scored.Pins)
	}
}

func TestPerfectGameEndsInGameOver(t *testing.T) {
	c := newController()
	var last []Effect
	for i := 0; i < 12; i++ {
		last = roll(t, c, 0)
	}
	if c.State() != GameOver {
		t.Fatalf("expected game over, got %s", c.State())
	}
	end, ok := hasEffect[GameEnded](last)
	if !ok || end.Total != 300 {
		t.Fatalf("expected game ended with 300, got %+v", last)
	}
	for _, ev := range []Event{AimChanged{}, Launched{}, BallSettled{}, PinsReset{}} {
		if _, err := c.Apply(ev); !errors.Is(err, bowling.ErrOutOfSequence) {
			t.Fatalf("%T after game over: expected out of sequence, got %v", ev, err)
		}
	}
}

func TestTenthFrameStrikeResetsRackWithoutAdvancing(t *testing.T) {
	c := newController()
	for i := 0; i < 18; i++ {
		roll(t, c, 10)
	}
	mustApply(t, c, AimChanged{Aim: Aim{Power: 1}})
	mustApply(t, c, Launched{})
	effects := mustApply(t, c, BallSettled{Standing: 0})
	if _, ok := hasEffect[FrameAdvanced](effects); ok {
		t.Fatalf("did not expect frame advance inside the tenth frame")
	}
	if _, ok := hasEffect[RequestPinReset](effects); !ok {
		t.Fatalf("expected pin reset after a tenth-frame strike")
	}
}

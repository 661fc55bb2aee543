// Package turn drives the roll lifecycle of a bowling game as a state machine.
package turn

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/tuibowl/internal/bowling"
)

// ErrUnderpoweredLaunch indicates a launch with less than MinLaunchPower.
var ErrUnderpoweredLaunch = errors.New("launch power too low")

// State is a step of the roll lifecycle.
type State int

const (
	AwaitingAim State = iota
	BallInFlight
	Settling
	Scored
	ResettingPins
	GameOver
)

func (s State) String() string {
	switch s {
	case AwaitingAim:
		return "awaiting-aim"
	case BallInFlight:
		return "ball-in-flight"
	case Settling:
		return "settling"
	case Scored:
		return "scored"
	case ResettingPins:
		return "resetting-pins"
	case GameOver:
		return "game-over"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Controller applies events to a game's ledger and rack.
type Controller struct {
	state   State
	aim     Aim
	started bool
	ledger  *bowling.Ledger
	rack    *bowling.Tracker
}

// NewController returns a controller for the given ledger and rack. A
// completed ledger starts the controller in GameOver.
func NewController(ledger *bowling.Ledger, rack *bowling.Tracker) *Controller {
	c := &Controller{
		state:  AwaitingAim,
		ledger: ledger,
		rack:   rack,
	}
	if ledger.Complete() {
		c.state = GameOver
	}
	if len(ledger.Rolls()) > 0 {
		c.started = true
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Aim returns the current aim.
func (c *Controller) Aim() Aim {
	return c.aim
}

// Started reports whether a ball has been launched in this game.
func (c *Controller) Started() bool {
	return c.started
}

// InPlay reports whether a ball is rolling or being scored.
func (c *Controller) InPlay() bool {
	return c.state == BallInFlight || c.state == Settling
}

// Apply runs a single transition. A rejected event returns an error and
// leaves the controller unchanged.
func (c *Controller) Apply(ev Event) ([]Effect, error) {
	switch ev := ev.(type) {
	case AimChanged:
		return c.applyAim(ev)
	case Launched:
		return c.applyLaunch()
	case BallSettled:
		return c.applySettled(ev)
	case PinsReset:
		return c.applyPinsReset()
	default:
		return nil, fmt.Errorf("unknown event %T", ev)
	}
}

func (c *Controller) applyAim(ev AimChanged) ([]Effect, error) {
	if c.state != AwaitingAim {
		return nil, c.outOfSequence("aim")
	}
	c.aim = ev.Aim.Clamp()
	return nil, nil
}

func (c *Controller) applyLaunch() ([]Effect, error) {
	if c.state != AwaitingAim {
		return nil, c.outOfSequence("launch")
	}
	if c.aim.Power < MinLaunchPower {
		return nil, fmt.Errorf("launch at power %.2f: %w", c.aim.Power, ErrUnderpoweredLaunch)
	}
	c.started = true
	effects := []Effect{c.moveTo(BallInFlight), LaunchBall{Aim: c.aim}}
	return effects, nil
}

func (c *Controller) applySettled(ev BallSettled) ([]Effect, error) {
	if c.state != BallInFlight {
		return nil, c.outOfSequence("settle")
	}
	standing := c.rack.Standing()
	var knocked int
	if ev.Exact {
		knocked = standing - (ev.Pins & c.rack.Pins()).Count()
	} else {
		if ev.Standing < 0 || ev.Standing > standing {
			return nil, fmt.Errorf("settle with %d standing of %d: %w", ev.Standing, standing, bowling.ErrInvalidPinCount)
		}
		knocked = standing - ev.Standing
	}

	effects := []Effect{c.moveTo(Settling)}
	res, err := c.ledger.Record(knocked)
	if err != nil {
		if !errors.Is(err, bowling.ErrIllegalFrameTransition) {
			c.state = BallInFlight
		}
		return nil, err
	}
	if ev.Exact {
		c.rack.ReportPins(ev.Pins)
	} else {
		c.rack.ReportStanding(ev.Standing)
	}

	scores := c.ledger.Score()
	effects = append(effects,
		c.moveTo(Scored),
		RollScored{Frame: res.Frame, Roll: res.Roll, Pins: res.Pins, Bonus: res.Bonus},
		ScoresUpdated{Scores: scores},
	)
	return append(effects, c.afterScored(res, scores)...), nil
}

func (c *Controller) afterScored(res bowling.RollResult, scores bowling.Scores) []Effect {
	c.aim.Power = 0
	switch {
	case res.GameComplete:
		return []Effect{GameEnded{Total: scores.Total}, c.moveTo(GameOver)}
	case res.FreshRack:
		var effects []Effect
		if res.FrameComplete {
			effects = append(effects, FrameAdvanced{Frame: c.ledger.FrameIndex()})
		}
		return append(effects, RequestPinReset{}, RequestBallReposition{}, c.moveTo(ResettingPins))
	default:
		c.rack.ResetForSecondRoll()
		return []Effect{RequestBallReposition{}, c.moveTo(AwaitingAim)}
	}
}

func (c *Controller) applyPinsReset() ([]Effect, error) {
	if c.state != ResettingPins {
		return nil, c.outOfSequence("pin reset")
	}
	c.rack.ResetRack()
	return []Effect{c.moveTo(AwaitingAim)}, nil
}

func (c *Controller) moveTo(next State) Effect {
	prev := c.state
	c.state = next
	return StateChanged{From: prev, To: next}
}

func (c *Controller) outOfSequence(what string) error {
	return fmt.Errorf("%s while %s: %w", what, c.state, bowling.ErrOutOfSequence)
}

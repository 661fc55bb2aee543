package turn

import "github.com/verte-zerg/tuibowl/internal/bowling"

// Event is an input to the controller.
type Event interface {
	isEvent()
}

// AimChanged updates the aim before a launch.
type AimChanged struct {
	Aim Aim
}

// Launched requests that the ball be rolled.
type Launched struct{}

// BallSettled reports the pins standing once the ball and pins are at rest.
// When Exact is set, Pins names the standing pins and Standing is ignored.
type BallSettled struct {
	Standing int
	Pins     bowling.PinSet
	Exact    bool
}

// PinsReset acknowledges that the environment restored a full rack.
type PinsReset struct{}

func (AimChanged) isEvent() {}
func (Launched) isEvent() {}
func (BallSettled) isEvent() {}
func (PinsReset) isEvent() {}

// Effect is an output of a transition, either a notification for the
// presentation or a command for the environment.
type Effect interface {
	isEffect()
}

// StateChanged records a state transition.
type StateChanged struct {
	From State
	To   State
}

// LaunchBall asks the environment to roll the ball with the given aim.
type LaunchBall struct {
	Aim Aim
}

// RollScored reports a recorded roll.
type RollScored struct {
	Frame int
	Roll  int
	Pins  int
	Bonus bowling.BonusKind
}

// ScoresUpdated carries the recomputed scores.
type ScoresUpdated struct {
	Scores bowling.Scores
}

// FrameAdvanced reports the index of the new current frame.
type FrameAdvanced struct {
	Frame int
}

// GameEnded reports the final total.
type GameEnded struct {
	Total int
}

// RequestPinReset asks the environment to set a full rack.
type RequestPinReset struct{}

// RequestBallReposition asks the environment to return the ball to the start.
type RequestBallReposition struct{}

func (StateChanged) isEffect() {}
func (LaunchBall) isEffect() {}
func (RollScored) isEffect() {}
func (ScoresUpdated) isEffect() {}
func (FrameAdvanced) isEffect() {}
func (GameEnded) isEffect() {}
func (RequestPinReset) isEffect() {}
func (RequestBallReposition) isEffect() {}

// Package game owns a bowling game session and connects the turn controller
// to its presentation and environment collaborators.
package game

import (
	"errors"
	"fmt"
	"sync"

	"github.com/verte-zerg/tuibowl/internal/bowling"
	"github.com/verte-zerg/tuibowl/internal/turn"
)

// ErrSessionAborted is returned by every dispatch after a fatal error.
var ErrSessionAborted = errors.New("session aborted")

// Presenter receives score notifications.
type Presenter interface {
	RollScored(frame, roll, pins int, bonus bowling.BonusKind)
	FrameScoresUpdated(scores bowling.Scores)
	FrameAdvanced(frame int)
	GameOver(total int)
	Warning(err error)
}

// Environment carries out commands for the ball and pins.
type Environment interface {
	LaunchBall(aim turn.Aim)
	RequestFullPinReset()
	RequestBallReposition()
}

// Logger formats a diagnostic line.
type Logger func(format string, args ...any)

// Session is a single game from first roll to final score. Dispatch may be
// called from any goroutine; the accessors belong to the goroutine driving the
// game.
type Session struct {
	ledger *bowling.Ledger
	rack   *bowling.Tracker
	ctrl   *turn.Controller

	presenter Presenter
	env       Environment
	logf      Logger

	mu       sync.Mutex
	queue    []turn.Event
	draining bool
	aborted  error
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger for transitions and warnings.
func WithLogger(logf Logger) Option {
	return func(s *Session) {
		if logf != nil {
			s.logf = logf
		}
	}
}

// NewSession starts a new game.
func NewSession(p Presenter, env Environment, opts ...Option) *Session {
	return newSession(bowling.NewLedger(), bowling.NewTracker(), p, env, opts...)
}

func newSession(ledger *bowling.Ledger, rack *bowling.Tracker, p Presenter, env Environment, opts ...Option) *Session {
	s := &Session{
		ledger:    ledger,
		rack:      rack,
		ctrl:      turn.NewController(ledger, rack),
		presenter: p,
		env:       env,
		logf:      func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnAimChanged updates the aim for the next launch.
func (s *Session) OnAimChanged(aim turn.Aim) error {
	return s.Dispatch(turn.AimChanged{Aim: aim})
}

// OnLaunchRequested rolls the ball.
func (s *Session) OnLaunchRequested() error {
	return s.Dispatch(turn.Launched{})
}

// OnBallSettled reports how many pins are standing after a roll.
func (s *Session) OnBallSettled(standing int) error {
	return s.Dispatch(turn.BallSettled{Standing: standing})
}

// OnBallSettledPins reports exactly which pins are standing after a roll.
func (s *Session) OnBallSettledPins(pins bowling.PinSet) error {
	return s.Dispatch(turn.BallSettled{Pins: pins, Exact: true})
}

// OnPinsResetAcknowledged reports that a full rack is set.
func (s *Session) OnPinsResetAcknowledged() error {
	return s.Dispatch(turn.PinsReset{})
}

// Dispatch applies an event. Events arriving while another is being applied,
// including from inside a collaborator callback, are queued and applied in
// order once the current transition finishes. Rejected events reach the
// presenter as warnings; only the error of the event passed to this call is
// returned, and a queued event returns nil.
func (s *Session) Dispatch(ev turn.Event) error {
	s.mu.Lock()
	if s.aborted != nil {
		err := s.aborted
		s.mu.Unlock()
		return err
	}
	s.queue = append(s.queue, ev)
	if s.draining {
		s.mu.Unlock()
		return nil
	}
	s.draining = true

	var result error
	own := true
	for len(s.queue) > 0 && s.aborted == nil {
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		err := s.apply(next)
		if err != nil && !errors.Is(err, ErrSessionAborted) {
			s.presenter.Warning(err)
		}
		if own {
			result = err
			own = false
		}

		s.mu.Lock()
		if errors.Is(err, ErrSessionAborted) {
			s.aborted = err
			s.queue = nil
		}
	}
	s.draining = false
	s.mu.Unlock()
	return result
}

func (s *Session) apply(ev turn.Event) error {
	effects, err := s.ctrl.Apply(ev)
	if err != nil {
		if errors.Is(err, bowling.ErrIllegalFrameTransition) {
			s.logf("fatal transition on %T: %v", ev, err)
			return fmt.Errorf("%w: %w", ErrSessionAborted, err)
		}
		s.logf("rejected %T: %v", ev, err)
		return err
	}
	for _, effect := range effects {
		s.deliver(effect)
	}
	return nil
}

func (s *Session) deliver(effect turn.Effect) {
	switch e := effect.(type) {
	case turn.StateChanged:
		s.logf("state %s -> %s", e.From, e.To)
	case turn.LaunchBall:
		s.env.LaunchBall(e.Aim)
	case turn.RollScored:
		s.presenter.RollScored(e.Frame, e.Roll, e.Pins, e.Bonus)
	case turn.ScoresUpdated:
		s.presenter.FrameScoresUpdated(e.Scores)
	case turn.FrameAdvanced:
		s.presenter.FrameAdvanced(e.Frame)
	case turn.GameEnded:
		s.presenter.GameOver(e.Total)
	case turn.RequestPinReset:
		s.env.RequestFullPinReset()
	case turn.RequestBallReposition:
		s.env.RequestBallReposition()
	}
}

// State returns the controller state.
func (s *Session) State() turn.State {
	return s.ctrl.State()
}

// Aim returns the current aim.
func (s *Session) Aim() turn.Aim {
	return s.ctrl.Aim()
}

// Started reports whether the first ball has been launched.
func (s *Session) Started() bool {
	return s.ctrl.Started()
}

// BallInPlay reports whether a ball is rolling or being scored.
func (s *Session) BallInPlay() bool {
	return s.ctrl.InPlay()
}

// Pins returns the standing pins.
func (s *Session) Pins() bowling.PinSet {
	return s.rack.Pins()
}

// Frames returns a copy of the frames recorded so far.
func (s *Session) Frames() []bowling.Frame {
	return s.ledger.Frames()
}

// Scores returns the current scores.
func (s *Session) Scores() bowling.Scores {
	return s.ledger.Score()
}

// FrameIndex returns the frame receiving rolls.
func (s *Session) FrameIndex() int {
	return s.ledger.FrameIndex()
}

// RollIndex returns the number of rolls already in the current frame.
func (s *Session) RollIndex() int {
	return s.ledger.RollIndex()
}

// Over reports whether the game has finished.
func (s *Session) Over() bool {
	return s.ctrl.State() == turn.GameOver
}

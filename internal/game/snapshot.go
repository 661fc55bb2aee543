package game

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/tuibowl/internal/bowling"
)

// Snapshot is the persisted form of a session, enough to resume it.
type Snapshot struct {
	Player     string  `toml:"player"`
	Frames     [][]int `toml:"frames"`
	FrameIndex int     `toml:"frame-index"`
	RollIndex  int     `toml:"roll-index"`
}

// Snapshot captures the session between rolls. A ball in play is not part of
// the snapshot; restoring resumes at the start of that roll.
func (s *Session) Snapshot(player string) Snapshot {
	frames := s.ledger.Frames()
	out := Snapshot{
		Player:     player,
		Frames:     make([][]int, len(frames)),
		FrameIndex: s.ledger.FrameIndex(),
		RollIndex:  s.ledger.RollIndex(),
	}
	for i, f := range frames {
		out.Frames[i] = append([]int{}, f.Rolls...)
	}
	return out
}

// Restore rebuilds a session from a snapshot by replaying its rolls.
func Restore(snap Snapshot, p Presenter, env Environment, opts ...Option) (*Session, error) {
	if len(snap.Frames) > bowling.FrameCount {
		return nil, fmt.Errorf("snapshot has %d frames: %w", len(snap.Frames), bowling.ErrIllegalFrameTransition)
	}
	ledger := bowling.NewLedger()
	for i, rolls := range snap.Frames {
		for _, pins := range rolls {
			if ledger.FrameIndex() != i || ledger.Complete() {
				return nil, fmt.Errorf("snapshot frame %d has extra rolls: %w", i+1, bowling.ErrOutOfSequence)
			}
			if _, err := ledger.Record(pins); err != nil {
				return nil, fmt.Errorf("snapshot frame %d: %w", i+1, err)
			}
		}
	}
	if ledger.FrameIndex() != snap.FrameIndex || ledger.RollIndex() != snap.RollIndex {
		return nil, fmt.Errorf("snapshot position frame %d roll %d does not match rolls (frame %d roll %d): %w",
			snap.FrameIndex, snap.RollIndex, ledger.FrameIndex(), ledger.RollIndex(), bowling.ErrOutOfSequence)
	}

	rack := bowling.NewTracker()
	rack.ReportStanding(ledger.Standing())
	return newSession(ledger, rack, p, env, opts...), nil
}

// EncodeSnapshot writes a snapshot as TOML.
func EncodeSnapshot(w io.Writer, snap Snapshot) error {
	if err := toml.NewEncoder(w).Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a TOML snapshot.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if _, err := toml.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

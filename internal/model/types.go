// Package model defines shared data structures.
package model

import "time"

// Config defines play settings.
type Config struct {
	Player      string
	SettleDelay time.Duration
	ResetDelay  time.Duration
	Seed        int64
	Autosave    bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Player      string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// GameRecord captures a completed game.
type GameRecord struct {
	StartedAt  time.Time
	EndedAt    time.Time
	Player     string
	Total      int
	Strikes    int
	Spares     int
	DurationMs int64
}

// FrameRecord stores one frame of a completed game.
type FrameRecord struct {
	Index int
	Rolls []int
	Score int
}

// GameAggregate summarizes a stored game for reporting.
type GameAggregate struct {
	GameID     int64
	EndedAt    time.Time
	Player     string
	Total      int
	Strikes    int
	Spares     int
	DurationMs int64
}

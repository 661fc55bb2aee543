package stats

import (
	"context"

	"github.com/verte-zerg/tuibowl/internal/model"
	"github.com/verte-zerg/tuibowl/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Games   []model.GameAggregate
	Metrics GameMetrics
	// Recent holds the games inside the curve window.
	Recent        []model.GameAggregate
	RecentMetrics GameMetrics
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	games, err := st.ListGames(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(games) > cfg.Last {
		games = games[len(games)-cfg.Last:]
	}
	recent := lastGames(games, cfg.CurveWindow)
	return Report{
		Games:         games,
		Metrics:       ComputeMetrics(games),
		Recent:        recent,
		RecentMetrics: ComputeMetrics(recent),
	}, nil
}

func lastGames(games []model.GameAggregate, window int) []model.GameAggregate {
	if window <= 0 || len(games) <= window {
		return games
	}
	return games[len(games)-window:]
}

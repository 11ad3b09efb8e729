package ports

import (
	"context"

	"github.com/alejandrodnm/polywhale/internal/domain"
)

// LeaderboardProvider consulta el leaderboard rankeado de traders.
// Lectura point-in-time: sin retry ni caching.
type LeaderboardProvider interface {
	FetchLeaderboard(ctx context.Context, q domain.LeaderboardQuery) ([]domain.LeaderboardEntry, error)
}

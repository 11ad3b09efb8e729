package ports

import (
	"context"

	"github.com/alejandrodnm/polywhale/internal/domain"
)

// Notifier presenta los resultados al usuario (consola, etc.).
type Notifier interface {
	// NotifyBacktest imprime los resultados de una simulación.
	NotifyBacktest(ctx context.Context, results []domain.BacktestResult) error

	// NotifyLeaderboard imprime un leaderboard rankeado.
	NotifyLeaderboard(ctx context.Context, q domain.LeaderboardQuery, entries []domain.LeaderboardEntry) error
}

package polymarket

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/polywhale/internal/domain"
)

const leaderboardPath = "/v1/leaderboard"

// FetchLeaderboard consulta el leaderboard rankeado de traders.
//
// Una sola request, sin retry ni caching: es una lectura point-in-time.
// Los parámetros enum se validan localmente ANTES de emitir la request —
// una categoría o período desconocidos nunca llegan a la red.
func (c *Client) FetchLeaderboard(ctx context.Context, q domain.LeaderboardQuery) ([]domain.LeaderboardEntry, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s%s?category=%s&timePeriod=%s&orderBy=%s&limit=%d&offset=%d",
		c.cfg.DataBase, leaderboardPath,
		q.Category, q.TimePeriod, q.OrderBy, q.Limit, q.Offset)

	var raws []rawLeaderboardEntry
	if err := c.get(ctx, c.dataLimiter, url, &raws); err != nil {
		return nil, fmt.Errorf("data-api.FetchLeaderboard %s/%s: %w", q.Category, q.TimePeriod, err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(raws))
	for i, raw := range raws {
		entries = append(entries, mapLeaderboardEntry(raw, q.Offset+i+1))
	}

	slog.Debug("fetched leaderboard",
		"category", q.Category,
		"period", q.TimePeriod,
		"order", q.OrderBy,
		"entries", len(entries),
	)
	return entries, nil
}

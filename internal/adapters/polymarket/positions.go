package polymarket

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/polywhale/internal/domain"
)

const closedPositionsPath = "/closed-positions"

// FetchClosedPositions descarga todas las posiciones cerradas de una wallet
// paginando GET /closed-positions de la Data API.
//
// El sort es price-descendente — estable pero SIN significado temporal. El
// simulador replaya en este mismo orden; cualquier consumidor que asuma orden
// cronológico está trabajando contra una limitación documentada.
//
// A diferencia del walk de eventos, un fallo a mitad de paginación devuelve
// las posiciones ya acumuladas junto con el error: son monotónicas y es
// seguro conservarlas.
func (c *Client) FetchClosedPositions(ctx context.Context, wallet string) ([]domain.ClosedPosition, error) {
	if wallet == "" {
		return nil, &domain.ValidationError{Field: "wallet", Msg: "empty address"}
	}

	pageSize := c.cfg.PositionsPageSize

	raws, err := paginate(ctx, pageSize, c.cfg.MaxPages, func(ctx context.Context, offset int) ([]rawClosedPosition, error) {
		url := fmt.Sprintf("%s%s?user=%s&sortBy=price&sortDirection=DESC&limit=%d&offset=%d",
			c.cfg.DataBase, closedPositionsPath, wallet, pageSize, offset)

		var page []rawClosedPosition
		if err := c.get(ctx, c.dataLimiter, url, &page); err != nil {
			return nil, err
		}
		return page, nil
	})

	positions := make([]domain.ClosedPosition, 0, len(raws))
	for _, raw := range raws {
		positions = append(positions, mapClosedPosition(raw))
	}

	if err != nil {
		slog.Warn("closed positions walk aborted, keeping partials",
			"wallet", shortWallet(wallet),
			"fetched", len(positions),
			"err", err,
		)
		return positions, fmt.Errorf("data-api.FetchClosedPositions %s: %w", shortWallet(wallet), err)
	}

	slog.Debug("fetched closed positions",
		"wallet", shortWallet(wallet),
		"count", len(positions),
	)
	return positions, nil
}

// shortWallet trunca una address para logging.
func shortWallet(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

package backtest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/polywhale/internal/domain"
	"github.com/alejandrodnm/polywhale/internal/ports"
	"golang.org/x/sync/singleflight"
)

// positionLoader resuelve las posiciones cerradas de una wallet con política
// read-through: cache en disco primero, API solo en miss, y el resultado del
// fetch se persiste para runs futuros.
//
// El singleflight colapsa fetches concurrentes de la misma wallet: si dos
// workers piden la misma address a la vez, solo uno toca la red.
type positionLoader struct {
	provider ports.PositionProvider
	cache    ports.PositionCache
	group    singleflight.Group
}

func newPositionLoader(provider ports.PositionProvider, cache ports.PositionCache) *positionLoader {
	return &positionLoader{provider: provider, cache: cache}
}

// Load devuelve las posiciones cerradas de la wallet, del cache si existe
// entrada (sin TTL: una entrada se confía indefinidamente).
func (l *positionLoader) Load(ctx context.Context, wallet string) ([]domain.ClosedPosition, error) {
	v, err, _ := l.group.Do(wallet, func() (any, error) {
		return l.load(ctx, wallet)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.ClosedPosition), nil
}

func (l *positionLoader) load(ctx context.Context, wallet string) ([]domain.ClosedPosition, error) {
	cached, hit, err := l.cache.GetPositions(wallet)
	if err != nil {
		// Cache corrupto es un error explícito, nunca un miss silencioso.
		return nil, fmt.Errorf("backtest: position cache for %s: %w", wallet, err)
	}
	if hit {
		slog.Debug("position cache hit", "wallet", wallet, "positions", len(cached))
		return cached, nil
	}

	positions, err := l.provider.FetchClosedPositions(ctx, wallet)
	if err != nil {
		// Los parciales del provider se descartan aquí: un run con la mitad
		// del historial produciría métricas engañosas, y cachearlos en un
		// cache sin TTL los confiaría para siempre.
		return nil, fmt.Errorf("backtest: fetch positions for %s: %w", wallet, err)
	}

	if err := l.cache.PutPositions(wallet, positions); err != nil {
		// Fallo de escritura no invalida el run: solo se pierde el cache.
		slog.Warn("position cache write failed", "wallet", wallet, "err", err)
	}

	slog.Info("positions fetched", "wallet", wallet, "positions", len(positions))
	return positions, nil
}

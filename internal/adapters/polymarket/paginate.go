package polymarket

// paginate.go — walker genérico sobre endpoints con paginación por offset.
//
// Usado por el enumerador de eventos y por el fetch de posiciones cerradas.
// Termina cuando una página devuelve menos filas que el pageSize pedido
// (upstream agotado) o al alcanzar maxPages (cota contra upstreams rotos).

import (
	"context"
	"log/slog"
)

// fetchPage descarga una página empezando en offset y devuelve sus filas.
type fetchPage[T any] func(ctx context.Context, offset int) ([]T, error)

// paginate acumula filas página a página.
//
// Ante un error devuelve las filas ya acumuladas JUNTO con el error — el
// call site decide si los parciales le sirven (posiciones: sí, son
// monotónicas) o los descarta (warm-up de índice: mantiene limpia la unión).
// El delay mínimo entre requests lo impone el rate limiter del Client.
func paginate[T any](ctx context.Context, pageSize, maxPages int, fetch fetchPage[T]) ([]T, error) {
	var all []T

	for page := 0; page < maxPages; page++ {
		rows, err := fetch(ctx, page*pageSize)
		if err != nil {
			return all, err
		}

		all = append(all, rows...)

		if len(rows) < pageSize {
			break // página corta: upstream agotado
		}
		if page == maxPages-1 {
			slog.Debug("pagination stopped at max pages",
				"max_pages", maxPages,
				"accumulated", len(all),
			)
		}
	}

	return all, nil
}

package polymarket

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/polywhale/internal/domain"
)

const eventsPath = "/events"

// FetchEventSlugs enumera los slugs de eventos recientes de una categoría
// paginando GET /events de Gamma filtrado por tag.
//
// Los filtros por defecto restringen a eventos activos, no archivados y ya
// cerrados, ordenados por fecha de fin descendente: el índice se construye
// sobre lo CERRADO RECIENTE, no sobre el corpus histórico completo — la
// cobertura total es un non-goal documentado.
//
// Ante un fallo a mitad de walk los slugs parciales se descartan: el warm-up
// hace unión por categoría y prefiere no mezclar una página a medias.
func (c *Client) FetchEventSlugs(ctx context.Context, category domain.Category) ([]string, error) {
	if category == domain.CategoryOverall {
		return nil, &domain.ValidationError{
			Field: "category",
			Msg:   "overall is a pseudo-category, it has no upstream tag",
		}
	}
	if _, err := domain.ParseCategory(string(category)); err != nil {
		return nil, err
	}

	pageSize := c.cfg.EventsPageSize

	events, err := paginate(ctx, pageSize, c.cfg.MaxPages, func(ctx context.Context, offset int) ([]gammaEvent, error) {
		url := fmt.Sprintf("%s%s?tag_slug=%s&active=true&archived=false&closed=true&order=endDate&ascending=false&limit=%d&offset=%d",
			c.cfg.GammaBase, eventsPath, category, pageSize, offset)

		var page []gammaEvent
		if err := c.get(ctx, c.gammaLimiter, url, &page); err != nil {
			return nil, err
		}
		return page, nil
	})
	if err != nil {
		return nil, fmt.Errorf("gamma.FetchEventSlugs %s: %w", category, err)
	}

	slugs := make([]string, 0, len(events))
	for _, ev := range events {
		if ev.Slug == "" {
			continue
		}
		slugs = append(slugs, ev.Slug)
	}

	slog.Debug("fetched event slugs",
		"category", category,
		"events", len(events),
		"slugs", len(slugs),
	)
	return slugs, nil
}

package backtest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/polywhale/internal/domain"
)

// WarmUpIndex refresca el índice categoría → slugs contra la API de eventos
// para las categorías pedidas (lista vacía = todas las fijas) y lo persiste
// mergeado con el índice existente (unión, nunca se pierden slugs conocidos).
//
// Cada categoría se aísla: un fetch fallido se loguea y se salta, las demás
// siguen. Solo devuelve error si TODAS las categorías pedidas fallan o si el
// índice no se puede cargar/persistir.
func (s *Service) WarmUpIndex(ctx context.Context, categories []domain.Category) (domain.SlugIndex, error) {
	if len(categories) == 0 {
		categories = domain.AllCategories()
	}
	for _, cat := range categories {
		// overall no tiene tag upstream: su slug set es la unión, no se calienta.
		if cat == domain.CategoryOverall {
			return nil, &domain.ValidationError{
				Field: "category",
				Msg:   "overall is a pseudo-category, warm up real categories instead",
			}
		}
		if _, err := domain.ParseCategory(cat.String()); err != nil {
			return nil, err
		}
	}

	start := time.Now()

	idx, err := s.index.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("backtest.WarmUpIndex: load index: %w", err)
	}

	updates := make(domain.SlugIndex, len(categories))
	failed := 0
	for _, cat := range categories {
		slugs, err := s.events.FetchEventSlugs(ctx, cat)
		if err != nil {
			failed++
			slog.Warn("category warm-up failed, skipping",
				"category", cat,
				"err", err,
			)
			continue
		}
		updates[cat] = slugs
		slog.Debug("category warmed up", "category", cat, "slugs", len(slugs))
	}

	if failed == len(categories) {
		return nil, fmt.Errorf("backtest.WarmUpIndex: all %d categories failed", failed)
	}

	merged := idx.Merge(updates)
	if err := s.index.SaveIndex(merged); err != nil {
		return nil, fmt.Errorf("backtest.WarmUpIndex: save index: %w", err)
	}

	total := 0
	for _, slugs := range merged {
		total += len(slugs)
	}
	slog.Info("slug index warmed up",
		"categories_ok", len(categories)-failed,
		"categories_failed", failed,
		"total_slugs", total,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return merged, nil
}

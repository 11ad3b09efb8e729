package ports

import (
	"context"

	"github.com/alejandrodnm/polywhale/internal/domain"
)

// EventProvider enumera los slugs de eventos recientes de una categoría,
// paginando la API de eventos hasta agotarla o alcanzar el límite de páginas.
type EventProvider interface {
	FetchEventSlugs(ctx context.Context, category domain.Category) ([]string, error)
}

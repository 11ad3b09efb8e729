package ports

import (
	"context"

	"github.com/alejandrodnm/polywhale/internal/domain"
)

// PositionProvider descarga las posiciones cerradas de una wallet.
//
// A diferencia del walk de eventos, ante un fallo a mitad de paginación
// devuelve las posiciones ya acumuladas JUNTO con el error: son monotónicas
// y es seguro conservarlas; el caller decide qué hacer.
type PositionProvider interface {
	FetchClosedPositions(ctx context.Context, wallet string) ([]domain.ClosedPosition, error)
}

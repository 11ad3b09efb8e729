package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/polywhale/internal/domain"
)

// RunRecord es un run de simulación completado, con sus parámetros.
type RunRecord struct {
	ID                 string
	RanAt              time.Time
	InitialBalance     float64
	PositionPercentage float64
	Results            []domain.BacktestResult
}

// RunStorage persiste el histórico de runs de backtest.
type RunStorage interface {
	// SaveRun persiste un run completado con todos sus resultados.
	SaveRun(ctx context.Context, run RunRecord) error

	// GetRuns devuelve los runs registrados en el rango de tiempo dado,
	// más recientes primero.
	GetRuns(ctx context.Context, from, to time.Time) ([]RunRecord, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}

package backtest

import (
	"math"

	"github.com/alejandrodnm/polywhale/internal/domain"
)

// simulator.go — modelo de copy-trading con sizing porcentual.
//
// El modelo replica el SIGNO de cada posición cerrada del trader, no su
// magnitud: en cada posición que cae dentro de la categoría, la equity
// simulada sube o baja exactamente `percentage` del balance corriente.
// Es compuesto: el porcentaje se aplica al balance vigente, no al inicial.

// Params son los parámetros de una simulación.
type Params struct {
	InitialBalance     float64
	PositionPercentage float64
}

// Validate comprueba los parámetros antes de tocar red o disco.
func (p Params) Validate() error {
	if p.InitialBalance <= 0 {
		return &domain.ValidationError{Field: "balance", Msg: "initial balance must be positive"}
	}
	if p.PositionPercentage <= 0 || p.PositionPercentage > 1 {
		return &domain.ValidationError{Field: "percentage", Msg: "position percentage must be in (0, 1]"}
	}
	return nil
}

// simulate reproduce las posiciones cerradas de una wallet contra el slug set
// de una categoría. Las posiciones se recorren en el orden en que vienen
// cacheadas (precio descendente, no cronológico).
//
// Devuelve la curva de equity (longitud = 1 + posiciones matcheadas) y el PnL
// absoluto sin escalar del trader en esa categoría.
func simulate(
	wallet string,
	category domain.Category,
	positions []domain.ClosedPosition,
	slugSet map[string]struct{},
	params Params,
) domain.BacktestResult {
	result := domain.BacktestResult{
		Wallet:         wallet,
		Category:       category,
		InitialBalance: params.InitialBalance,
		FinalBalance:   params.InitialBalance,
		History:        []float64{params.InitialBalance},
		TotalPositions: len(positions),
	}

	// Sin slugs no hay nada que matchear: resultado de un solo punto.
	if len(slugSet) == 0 {
		return result
	}

	balance := params.InitialBalance
	for _, pos := range positions {
		if _, ok := slugSet[pos.Slug]; !ok {
			continue
		}
		result.MatchedPositions++
		result.AbsolutePnL += pos.RealizedPnL

		// Solo el signo importa: ganó → +pct, perdió → -pct, neutro → sin cambio.
		balance += balance * params.PositionPercentage * sign(pos.RealizedPnL)
		result.History = append(result.History, balance)
	}

	result.FinalBalance = balance
	return result
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// roundCents redondea a 2 decimales para logs legibles; la simulación interna
// nunca redondea.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

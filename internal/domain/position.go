package domain

import "time"

// ClosedPosition es el resultado realizado de un trade de una wallet en un
// mercado. Inmutable una vez descargada; se cachea tal cual llega.
//
// El orden de descarga es price-descendente (el sort que expone la API), NO
// cronológico. Los campos de procedencia (timestamp, size, avgPrice) no
// participan en la simulación pero se conservan para fidelidad del output.
type ClosedPosition struct {
	Slug        string    `json:"slug"`
	ConditionID string    `json:"conditionId,omitempty"`
	Title       string    `json:"title,omitempty"`
	Outcome     string    `json:"outcome,omitempty"`
	RealizedPnL float64   `json:"realizedPnl"`
	Size        float64   `json:"size,omitempty"`
	AvgPrice    float64   `json:"avgPrice,omitempty"`
	Timestamp   time.Time `json:"timestamp,omitzero"`
}

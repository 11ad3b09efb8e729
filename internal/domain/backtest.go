package domain

// BacktestResult es el resultado de simular copy-trading sobre una wallet en
// una categoría concreta.
//
// FinalBalance es el balance del copy-trader simulado (sizing por signo,
// compounding). AbsolutePnL es el PnL realizado REAL de la wallet original,
// sin escalar — son dos medidas distintas y se reportan juntas a propósito.
type BacktestResult struct {
	Wallet   string
	Category Category

	InitialBalance float64
	FinalBalance   float64
	AbsolutePnL    float64

	// History es la curva de equity: balance inicial + un snapshot tras cada
	// posición matcheada, en el orden en que estaban cacheadas.
	// len(History) == 1 + MatchedPositions siempre.
	History []float64

	MatchedPositions int
	TotalPositions   int
}

// ReturnPct devuelve el retorno porcentual del balance simulado.
func (r BacktestResult) ReturnPct() float64 {
	if r.InitialBalance == 0 {
		return 0
	}
	return (r.FinalBalance - r.InitialBalance) / r.InitialBalance * 100
}

package domain

// LeaderboardEntry es una fila normalizada del leaderboard de traders.
// Se produce fresca por query; la API upstream usa nombres de campo variables
// y el adapter los unifica a esta forma fija.
type LeaderboardEntry struct {
	Rank    int     `json:"rank"`
	Address string  `json:"address"`
	Name    string  `json:"name"`
	Volume  float64 `json:"volume"`
	PnL     float64 `json:"pnl"`
	WinRate float64 `json:"winRate"`
	Avatar  string  `json:"avatar,omitempty"`
}

// LeaderboardQuery son los parámetros validados de una consulta de leaderboard.
type LeaderboardQuery struct {
	Category   Category
	TimePeriod TimePeriod
	OrderBy    OrderBy
	Limit      int
	Offset     int
}

// Validate rechaza localmente cualquier parámetro fuera de los sets fijos,
// antes de emitir ninguna request.
func (q LeaderboardQuery) Validate() error {
	if _, err := ParseCategory(string(q.Category)); err != nil {
		return err
	}
	if _, err := ParseTimePeriod(string(q.TimePeriod)); err != nil {
		return err
	}
	if _, err := ParseOrderBy(string(q.OrderBy)); err != nil {
		return err
	}
	if q.Limit <= 0 {
		return &ValidationError{Field: "limit", Msg: "must be > 0"}
	}
	if q.Offset < 0 {
		return &ValidationError{Field: "offset", Msg: "must be >= 0"}
	}
	return nil
}

package polymarket

import "encoding/json"

// DTOs raw de las APIs de Polymarket. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

// --- Gamma API ---

// gammaEvent es una fila de GET /events. Solo nos interesa el slug;
// el resto de metadata se ignora.
type gammaEvent struct {
	ID     string `json:"id"`
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
	Closed bool   `json:"closed"`
}

// --- Data API ---

// rawClosedPosition es una fila de GET /closed-positions.
// La API devuelve los numéricos a veces como número y a veces como string;
// json.Number absorbe ambos. realizedPnl puede faltar → se trata como 0.
type rawClosedPosition struct {
	Slug        string      `json:"slug"`
	ConditionID string      `json:"conditionId"`
	Title       string      `json:"title"`
	Outcome     string      `json:"outcome"`
	RealizedPnL json.Number `json:"realizedPnl"`
	Size        json.Number `json:"size"`
	AvgPrice    json.Number `json:"avgPrice"`
	Timestamp   json.Number `json:"timestamp"`
}

// rawLeaderboardEntry es una fila del leaderboard. Upstream ha ido renombrando
// campos entre versiones (proxyWallet/address, userName/name/pseudonym,
// vol/amount, profileImage/avatar): se declaran todas las variantes y
// mapping.go elige la primera no vacía.
type rawLeaderboardEntry struct {
	Rank     json.Number `json:"rank"`
	Position json.Number `json:"position"`

	ProxyWallet string `json:"proxyWallet"`
	Address     string `json:"address"`
	Wallet      string `json:"wallet"`

	UserName  string `json:"userName"`
	Name      string `json:"name"`
	Pseudonym string `json:"pseudonym"`

	Vol    json.Number `json:"vol"`
	Volume json.Number `json:"volume"`
	Amount json.Number `json:"amount"`

	PnL    json.Number `json:"pnl"`
	Profit json.Number `json:"profit"`

	WinRate json.Number `json:"winRate"`

	ProfileImage string `json:"profileImage"`
	Avatar       string `json:"avatar"`
}

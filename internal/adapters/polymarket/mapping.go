package polymarket

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/alejandrodnm/polywhale/internal/domain"
)

// mapClosedPosition convierte una fila raw de /closed-positions a domain.
// realizedPnl ausente o no parseable cuenta como 0 — la posición sigue siendo
// válida para el replay (sign(0) no mueve el balance).
func mapClosedPosition(raw rawClosedPosition) domain.ClosedPosition {
	return domain.ClosedPosition{
		Slug:        raw.Slug,
		ConditionID: raw.ConditionID,
		Title:       raw.Title,
		Outcome:     raw.Outcome,
		RealizedPnL: numberOrZero(raw.RealizedPnL),
		Size:        numberOrZero(raw.Size),
		AvgPrice:    numberOrZero(raw.AvgPrice),
		Timestamp:   parseUnixTimestamp(raw.Timestamp),
	}
}

// mapLeaderboardEntry normaliza los nombres de campo heterogéneos del
// leaderboard a la forma fija de domain. Si upstream no trae rank, se usa la
// posición dentro de la página (offset + índice, 1-based).
func mapLeaderboardEntry(raw rawLeaderboardEntry, fallbackRank int) domain.LeaderboardEntry {
	rank := int(numberOrZero(raw.Rank))
	if rank == 0 {
		rank = int(numberOrZero(raw.Position))
	}
	if rank == 0 {
		rank = fallbackRank
	}

	return domain.LeaderboardEntry{
		Rank:    rank,
		Address: firstNonEmpty(raw.ProxyWallet, raw.Address, raw.Wallet),
		Name:    firstNonEmpty(raw.UserName, raw.Name, raw.Pseudonym),
		Volume:  firstNonZero(raw.Vol, raw.Volume, raw.Amount),
		PnL:     firstNonZero(raw.PnL, raw.Profit),
		WinRate: numberOrZero(raw.WinRate),
		Avatar:  firstNonEmpty(raw.ProfileImage, raw.Avatar),
	}
}

func numberOrZero(n json.Number) float64 {
	if n == "" {
		return 0
	}
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	return f
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

func firstNonZero(candidates ...json.Number) float64 {
	for _, c := range candidates {
		if v := numberOrZero(c); v != 0 {
			return v
		}
	}
	return 0
}

// parseUnixTimestamp interpreta el timestamp de la Data API, que llega como
// unix en segundos o milisegundos según el endpoint.
func parseUnixTimestamp(n json.Number) time.Time {
	s := n.String()
	if s == "" {
		return time.Time{}
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		if sec > 1e12 {
			return time.Unix(sec/1000, (sec%1000)*int64(time.Millisecond))
		}
		return time.Unix(sec, 0)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		sec := int64(f)
		return time.Unix(sec, int64((f-float64(sec))*1e9))
	}
	return time.Time{}
}

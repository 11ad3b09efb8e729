package backtest

import (
	"testing"

	"github.com/alejandrodnm/polywhale/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultParams() Params {
	return Params{InitialBalance: 1000, PositionPercentage: 0.02}
}

func slugSet(slugs ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(slugs))
	for _, s := range slugs {
		set[s] = struct{}{}
	}
	return set
}

func TestSimulate_SignOnlySizing(t *testing.T) {
	// Una posición ganadora de +50 mueve el balance exactamente un 2%,
	// no +50: el modelo copia el signo, nunca la magnitud.
	positions := []domain.ClosedPosition{
		{Slug: "btc-100k", RealizedPnL: 50},
	}

	r := simulate("0xw", domain.CategoryCrypto, positions, slugSet("btc-100k"), defaultParams())

	assert.InDelta(t, 1020, r.FinalBalance, 0.0001)
	assert.InDelta(t, 50, r.AbsolutePnL, 0.0001)
	assert.Equal(t, []float64{1000, 1020}, r.History)
	assert.Equal(t, 1, r.MatchedPositions)
	assert.Equal(t, 1, r.TotalPositions)
}

func TestSimulate_CompoundingScenario(t *testing.T) {
	// Escenario completo: pérdida y ganancia compuestas sobre el balance
	// corriente. 100 → 90 (−10%) → 99 (+10% de 90).
	positions := []domain.ClosedPosition{
		{Slug: "A", RealizedPnL: -10},
		{Slug: "B", RealizedPnL: 30},
	}
	params := Params{InitialBalance: 100, PositionPercentage: 0.1}

	r := simulate("0xw", domain.CategoryCrypto, positions, slugSet("A", "B"), params)

	require.Equal(t, []float64{100, 90, 99}, r.History)
	assert.InDelta(t, 99, r.FinalBalance, 0.0001)
	assert.InDelta(t, 20, r.AbsolutePnL, 0.0001)
	assert.Equal(t, 2, r.MatchedPositions)
}

func TestSimulate_EmptySlugSetIsNoOp(t *testing.T) {
	positions := []domain.ClosedPosition{
		{Slug: "A", RealizedPnL: -10},
		{Slug: "B", RealizedPnL: 30},
	}

	r := simulate("0xw", domain.CategoryWeather, positions, slugSet(), defaultParams())

	assert.InDelta(t, 1000, r.FinalBalance, 0.0001)
	assert.Zero(t, r.AbsolutePnL)
	assert.Equal(t, []float64{1000}, r.History)
	assert.Zero(t, r.MatchedPositions)
	assert.Equal(t, 2, r.TotalPositions)
}

func TestSimulate_UnmatchedPositionsSkipped(t *testing.T) {
	positions := []domain.ClosedPosition{
		{Slug: "in-category", RealizedPnL: 10},
		{Slug: "other-market", RealizedPnL: -500},
		{Slug: "in-category-too", RealizedPnL: 5},
	}

	r := simulate("0xw", domain.CategoryCrypto, positions, slugSet("in-category", "in-category-too"), defaultParams())

	// history = 1 + matcheadas, independiente del total
	assert.Len(t, r.History, 3)
	assert.Equal(t, 2, r.MatchedPositions)
	assert.Equal(t, 3, r.TotalPositions)
	assert.InDelta(t, 15, r.AbsolutePnL, 0.0001)
}

func TestSimulate_ZeroPnLMatchesWithoutMoving(t *testing.T) {
	// PnL exactamente cero: la posición matchea (cuenta en history) pero el
	// balance no se mueve — sign(0) = 0.
	positions := []domain.ClosedPosition{
		{Slug: "flat", RealizedPnL: 0},
	}

	r := simulate("0xw", domain.CategoryCrypto, positions, slugSet("flat"), defaultParams())

	assert.Equal(t, []float64{1000, 1000}, r.History)
	assert.Equal(t, 1, r.MatchedPositions)
	assert.InDelta(t, 1000, r.FinalBalance, 0.0001)
}

func TestSimulate_ReplaysInCachedOrder(t *testing.T) {
	// Las posiciones se procesan en el orden en que vienen (precio desc en el
	// cache), nunca reordenadas cronológicamente.
	positions := []domain.ClosedPosition{
		{Slug: "second-in-time", RealizedPnL: 10},
		{Slug: "first-in-time", RealizedPnL: -10},
	}
	params := Params{InitialBalance: 100, PositionPercentage: 0.5}

	r := simulate("0xw", domain.CategoryOverall, positions, slugSet("first-in-time", "second-in-time"), params)

	// +50% primero, −50% después: 100 → 150 → 75. El orden inverso daría
	// 100 → 50 → 75 con un history distinto.
	assert.Equal(t, []float64{100, 150, 75}, r.History)
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"valid", Params{InitialBalance: 1000, PositionPercentage: 0.02}, false},
		{"full percentage", Params{InitialBalance: 1, PositionPercentage: 1}, false},
		{"zero balance", Params{InitialBalance: 0, PositionPercentage: 0.02}, true},
		{"negative balance", Params{InitialBalance: -100, PositionPercentage: 0.02}, true},
		{"zero percentage", Params{InitialBalance: 1000, PositionPercentage: 0}, true},
		{"percentage above one", Params{InitialBalance: 1000, PositionPercentage: 1.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				var verr *domain.ValidationError
				require.ErrorAs(t, err, &verr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

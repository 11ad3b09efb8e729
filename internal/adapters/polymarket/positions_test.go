package polymarket_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alejandrodnm/polywhale/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchClosedPositions_MapsFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0xwhale", r.URL.Query().Get("user"))
		assert.Equal(t, "price", r.URL.Query().Get("sortBy"))
		assert.Equal(t, "DESC", r.URL.Query().Get("sortDirection"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"slug":"btc-100k","conditionId":"0xc1","title":"BTC $100k?","outcome":"Yes","realizedPnl":42.5,"size":"100","avgPrice":0.61,"timestamp":1735689600},
			{"slug":"eth-flip","realizedPnl":"-10.25"}
		]`)
	}))
	defer srv.Close()

	client := newTestClient(srv)
	positions, err := client.FetchClosedPositions(context.Background(), "0xwhale")

	require.NoError(t, err)
	require.Len(t, positions, 2)

	first := positions[0]
	assert.Equal(t, "btc-100k", first.Slug)
	assert.Equal(t, "0xc1", first.ConditionID)
	assert.InDelta(t, 42.5, first.RealizedPnL, 0.001)
	assert.InDelta(t, 100, first.Size, 0.001)
	assert.Equal(t, 2025, first.Timestamp.UTC().Year())

	// realizedPnl como string también parsea
	assert.InDelta(t, -10.25, positions[1].RealizedPnL, 0.001)
}

func TestFetchClosedPositions_MissingPnLIsZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"slug":"no-pnl-field"}]`)
	}))
	defer srv.Close()

	client := newTestClient(srv)
	positions, err := client.FetchClosedPositions(context.Background(), "0xwhale")

	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Zero(t, positions[0].RealizedPnL)
}

func TestFetchClosedPositions_KeepsPartialsOnError(t *testing.T) {
	// Página 0 OK, página 1 falla → devuelve los parciales Y el error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "0" {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `[{"slug":"a","realizedPnl":1},{"slug":"b","realizedPnl":2}]`)
			return
		}
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClientPaged(srv, 2, 10)
	positions, err := client.FetchClosedPositions(context.Background(), "0xwhale")

	require.Error(t, err)
	var uerr *domain.UpstreamError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, http.StatusBadGateway, uerr.Status)

	// Las posiciones son monotónicas: los parciales se conservan.
	require.Len(t, positions, 2)
	assert.Equal(t, "a", positions[0].Slug)
}

func TestFetchClosedPositions_EmptyWallet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("validation must happen before any request")
	}))
	defer srv.Close()

	client := newTestClient(srv)
	_, err := client.FetchClosedPositions(context.Background(), "")

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

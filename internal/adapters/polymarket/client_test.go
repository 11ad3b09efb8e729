package polymarket_test

import (
	"net/http/httptest"

	"github.com/alejandrodnm/polywhale/internal/adapters/polymarket"
)

// newTestClient crea un Client apuntando ambas APIs al servidor de test.
func newTestClient(srv *httptest.Server) *polymarket.Client {
	return polymarket.NewClient(polymarket.Config{
		GammaBase:         srv.URL,
		DataBase:          srv.URL,
		EventsPageSize:    100,
		PositionsPageSize: 50,
		MaxPages:          10,
	})
}

// newTestClientPaged permite controlar pageSize/maxPages en tests de paginación.
func newTestClientPaged(srv *httptest.Server, pageSize, maxPages int) *polymarket.Client {
	return polymarket.NewClient(polymarket.Config{
		GammaBase:         srv.URL,
		DataBase:          srv.URL,
		EventsPageSize:    pageSize,
		PositionsPageSize: pageSize,
		MaxPages:          maxPages,
	})
}

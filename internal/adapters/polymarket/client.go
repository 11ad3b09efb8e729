package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alejandrodnm/polywhale/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultGammaBase = "https://gamma-api.polymarket.com"
	defaultDataBase  = "https://data-api.polymarket.com"

	// Rate limits al 60% de los límites reales documentados.
	// Gamma /events: 300/10s → 180/10s → 18/s
	gammaRatePerSec = 18
	// Data API general: 100/10s → 60/10s → 6/s
	dataRatePerSec = 6

	// Truncado del body en errores upstream: suficiente para diagnosticar
	// sin arrastrar payloads enormes en los logs.
	maxErrBodyBytes = 512
)

// Config controla los endpoints y los límites de paginación del cliente.
type Config struct {
	GammaBase         string
	DataBase          string
	EventsPageSize    int // ≤ 100, máximo documentado de /events
	PositionsPageSize int // ≤ 50, máximo documentado de /closed-positions
	MaxPages          int // cota de seguridad por walk de paginación
}

// Client es el HTTP client de Polymarket con rate limiting por API.
//
// El limiter impone el delay mínimo entre requests de un walk de paginación;
// no hay retries: un fallo transitorio se surface al caller, que re-invoca
// si quiere.
type Client struct {
	http         *http.Client
	cfg          Config
	gammaLimiter *rate.Limiter
	dataLimiter  *rate.Limiter
}

// NewClient crea un Client con la configuración dada.
// Los campos vacíos o fuera de rango se sustituyen por defaults seguros.
func NewClient(cfg Config) *Client {
	if cfg.GammaBase == "" {
		cfg.GammaBase = defaultGammaBase
	}
	if cfg.DataBase == "" {
		cfg.DataBase = defaultDataBase
	}
	if cfg.EventsPageSize <= 0 || cfg.EventsPageSize > 100 {
		cfg.EventsPageSize = 100
	}
	if cfg.PositionsPageSize <= 0 || cfg.PositionsPageSize > 50 {
		cfg.PositionsPageSize = 50
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 10
	}
	return &Client{
		http:         &http.Client{Timeout: 10 * time.Second},
		cfg:          cfg,
		gammaLimiter: rate.NewLimiter(gammaRatePerSec, 5),
		dataLimiter:  rate.NewLimiter(dataRatePerSec, 2),
	}
}

// get hace un GET con rate limiting y decodifica el JSON de la respuesta.
// Un status no-2xx se devuelve como *domain.UpstreamError con el body.
func (c *Client) get(ctx context.Context, limiter *rate.Limiter, url string, out any) error {
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBodyBytes))
		return &domain.UpstreamError{
			Endpoint: req.URL.Path,
			Status:   resp.StatusCode,
			Body:     string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

package backtest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/polywhale/internal/domain"
	"github.com/alejandrodnm/polywhale/internal/ports"
	"github.com/google/uuid"
)

// Config contiene la configuración del servicio de backtest.
type Config struct {
	Params       Params
	FetchWorkers int // goroutines para cargar wallets en paralelo (0 = NumCPU)
}

// Service es el orquestador: warm-up del índice, carga de posiciones,
// simulación por (wallet, categoría), notificación y persistencia del run.
type Service struct {
	cfg         Config
	events      ports.EventProvider
	leaderboard ports.LeaderboardProvider
	loader      *positionLoader
	index       ports.IndexStore
	snapshots   ports.LeaderboardSnapshots
	storage     ports.RunStorage // opcional: nil desactiva el histórico
	notifier    ports.Notifier
}

// New crea un Service con todas las dependencias inyectadas.
func New(
	cfg Config,
	events ports.EventProvider,
	positions ports.PositionProvider,
	leaderboard ports.LeaderboardProvider,
	cache ports.PositionCache,
	index ports.IndexStore,
	snapshots ports.LeaderboardSnapshots,
	storage ports.RunStorage,
	notifier ports.Notifier,
) *Service {
	return &Service{
		cfg:         cfg,
		events:      events,
		leaderboard: leaderboard,
		loader:      newPositionLoader(positions, cache),
		index:       index,
		snapshots:   snapshots,
		storage:     storage,
		notifier:    notifier,
	}
}

// Run ejecuta un backtest completo para el producto cartesiano
// wallets × categorías y devuelve un resultado por celda.
//
// Toda la validación ocurre antes de cualquier I/O.
func (s *Service) Run(ctx context.Context, wallets []string, categories []domain.Category) ([]domain.BacktestResult, error) {
	if err := s.validate(wallets, categories); err != nil {
		return nil, err
	}

	start := time.Now()

	idx, err := s.index.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("backtest.Run: load index: %w", err)
	}
	if len(idx) == 0 {
		slog.Info("slug index empty, warming up first")
		idx, err = s.WarmUpIndex(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("backtest.Run: %w", err)
		}
	}

	byWallet, loadErr := loadWalletsConcurrent(ctx, s.loader, wallets, s.cfg.FetchWorkers)
	if loadErr != nil && len(byWallet) == 0 {
		return nil, fmt.Errorf("backtest.Run: %w", loadErr)
	}

	results := make([]domain.BacktestResult, 0, len(wallets)*len(categories))
	for _, wallet := range wallets {
		positions, ok := byWallet[wallet]
		if !ok {
			continue
		}
		for _, cat := range categories {
			r := simulate(wallet, cat, positions, idx.SlugSet(cat), s.cfg.Params)
			slog.Debug("simulation complete",
				"wallet", wallet,
				"category", cat,
				"final_balance", roundCents(r.FinalBalance),
				"matched", r.MatchedPositions,
				"total", r.TotalPositions,
			)
			results = append(results, r)
		}
	}

	if loadErr != nil {
		// Ninguna wallet fallida pasa en silencio: los resultados de las que
		// sí cargaron acompañan al error, y el run no se notifica ni persiste
		// — un histórico a medias daría métricas engañosas.
		slog.Warn("backtest incomplete, some wallets failed to load",
			"loaded", len(byWallet),
			"requested", len(wallets),
		)
		return results, fmt.Errorf("backtest.Run: %w", loadErr)
	}

	if err := s.notifier.NotifyBacktest(ctx, results); err != nil {
		slog.Warn("notifier error", "err", err)
	}
	s.persistRun(ctx, results)

	slog.Info("backtest complete",
		"wallets", len(byWallet),
		"categories", len(categories),
		"results", len(results),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return results, nil
}

// Leaderboard resuelve un leaderboard con snapshot opcional en disco:
// con useSnapshot, una consulta repetida (categoría, período) no toca la red.
func (s *Service) Leaderboard(ctx context.Context, q domain.LeaderboardQuery, useSnapshot bool) ([]domain.LeaderboardEntry, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if useSnapshot {
		entries, hit, err := s.snapshots.GetSnapshot(q.Category, q.TimePeriod)
		if err != nil {
			return nil, fmt.Errorf("backtest.Leaderboard: snapshot: %w", err)
		}
		if hit {
			slog.Debug("leaderboard snapshot hit", "category", q.Category, "period", q.TimePeriod)
			s.notifyLeaderboard(ctx, q, entries)
			return entries, nil
		}
	}

	entries, err := s.leaderboard.FetchLeaderboard(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("backtest.Leaderboard: %w", err)
	}

	if useSnapshot {
		if err := s.snapshots.PutSnapshot(q.Category, q.TimePeriod, entries); err != nil {
			slog.Warn("leaderboard snapshot write failed", "err", err)
		}
	}

	s.notifyLeaderboard(ctx, q, entries)
	return entries, nil
}

// History devuelve los runs persistidos dentro de la ventana dada.
func (s *Service) History(ctx context.Context, window time.Duration) ([]ports.RunRecord, error) {
	if s.storage == nil {
		return nil, nil
	}
	now := time.Now().UTC()
	return s.storage.GetRuns(ctx, now.Add(-window), now)
}

// --- helpers internos ---

func (s *Service) validate(wallets []string, categories []domain.Category) error {
	if err := s.cfg.Params.Validate(); err != nil {
		return err
	}
	if len(wallets) == 0 {
		return &domain.ValidationError{Field: "wallets", Msg: "at least one wallet is required"}
	}
	for _, w := range wallets {
		if w == "" {
			return &domain.ValidationError{Field: "wallets", Msg: "empty wallet address"}
		}
	}
	if len(categories) == 0 {
		return &domain.ValidationError{Field: "categories", Msg: "at least one category is required"}
	}
	for _, cat := range categories {
		if _, err := domain.ParseCategory(cat.String()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) persistRun(ctx context.Context, results []domain.BacktestResult) {
	if s.storage == nil || len(results) == 0 {
		return
	}
	run := ports.RunRecord{
		ID:                 uuid.NewString(),
		RanAt:              time.Now().UTC(),
		InitialBalance:     s.cfg.Params.InitialBalance,
		PositionPercentage: s.cfg.Params.PositionPercentage,
		Results:            results,
	}
	if err := s.storage.SaveRun(ctx, run); err != nil {
		slog.Warn("run storage error", "run_id", run.ID, "err", err)
	}
}

func (s *Service) notifyLeaderboard(ctx context.Context, q domain.LeaderboardQuery, entries []domain.LeaderboardEntry) {
	if err := s.notifier.NotifyLeaderboard(ctx, q, entries); err != nil {
		slog.Warn("notifier error", "err", err)
	}
}

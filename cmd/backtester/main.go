package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alejandrodnm/polywhale/config"
	"github.com/alejandrodnm/polywhale/internal/adapters/notify"
	"github.com/alejandrodnm/polywhale/internal/adapters/polymarket"
	"github.com/alejandrodnm/polywhale/internal/adapters/storage"
	"github.com/alejandrodnm/polywhale/internal/backtest"
	"github.com/alejandrodnm/polywhale/internal/domain"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	wallets := flag.String("wallets", "", "comma-separated wallet addresses to backtest")
	categories := flag.String("categories", "overall", "comma-separated categories (politics,sports,crypto,culture,mentions,weather,economics,tech,overall)")
	balance := flag.Float64("balance", 0, "initial simulated balance (overrides config)")
	percentage := flag.Float64("percentage", 0, "fraction of balance per matched position, in (0,1] (overrides config)")
	warmup := flag.Bool("warmup", false, "refresh the category-slug index for -categories (default: all) and exit")
	leaderboard := flag.Bool("leaderboard", false, "fetch a leaderboard instead of running a backtest")
	period := flag.String("period", "week", "leaderboard time period: day|week|month|all")
	order := flag.String("order", "PNL", "leaderboard ordering: PNL|VOL")
	limit := flag.Int("limit", 20, "leaderboard page size")
	offset := flag.Int("offset", 0, "leaderboard page offset")
	snapshot := flag.Bool("snapshot", false, "serve leaderboard from disk snapshot when available")
	history := flag.Duration("history", 0, "print run history for the given window (e.g. 168h) and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	compact := flag.Bool("compact", false, "one-line results instead of the full table")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *balance > 0 {
		cfg.Backtest.InitialBalance = *balance
	}
	if *percentage > 0 {
		cfg.Backtest.PositionPercentage = *percentage
	}
	setupLogger(cfg.Log)

	slog.Info("polywhale starting",
		"config", *configPath,
		"data_dir", cfg.Storage.DataDir,
		"balance", cfg.Backtest.InitialBalance,
		"percentage", cfg.Backtest.PositionPercentage,
	)

	client := polymarket.NewClient(polymarket.Config{
		GammaBase:         cfg.API.GammaBase,
		DataBase:          cfg.API.DataBase,
		EventsPageSize:    cfg.Backtest.EventsPageSize,
		PositionsPageSize: cfg.Backtest.PositionsPageSize,
		MaxPages:          cfg.Backtest.MaxPages,
	})

	cache, err := storage.NewFileCache(cfg.Storage.DataDir)
	if err != nil {
		slog.Error("failed to open data dir", "err", err, "dir", cfg.Storage.DataDir)
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open run storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	notifier := notify.NewConsole(!*compact)

	svc := backtest.New(
		backtest.Config{
			Params: backtest.Params{
				InitialBalance:     cfg.Backtest.InitialBalance,
				PositionPercentage: cfg.Backtest.PositionPercentage,
			},
			FetchWorkers: cfg.Backtest.FetchWorkers,
		},
		client, client, client,
		cache, cache, cache,
		store, notifier,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch {
	case *history > 0:
		runHistory(ctx, svc, notifier, *history)
	case *warmup:
		runWarmup(ctx, svc, *categories)
	case *leaderboard:
		runLeaderboard(ctx, svc, *categories, *period, *order, *limit, *offset, *snapshot)
	default:
		runBacktest(ctx, svc, *wallets, *categories)
	}
}

func runBacktest(ctx context.Context, svc *backtest.Service, walletsFlag, categoriesFlag string) {
	wallets := splitList(walletsFlag)
	if len(wallets) == 0 {
		slog.Error("no wallets given, use -wallets 0xabc,0xdef")
		os.Exit(1)
	}

	cats, err := parseCategories(categoriesFlag)
	if err != nil {
		slog.Error("invalid categories", "err", err)
		os.Exit(1)
	}

	if _, err := svc.Run(ctx, wallets, cats); err != nil {
		slog.Error("backtest failed", "err", err)
		os.Exit(1)
	}
}

func runWarmup(ctx context.Context, svc *backtest.Service, categoriesFlag string) {
	// "overall" (el default del flag) no tiene tag propio: calentar el índice
	// completo es lo que significa.
	var cats []domain.Category
	if parts := splitList(categoriesFlag); len(parts) != 1 || parts[0] != "overall" {
		var err error
		cats, err = parseCategories(categoriesFlag)
		if err != nil {
			slog.Error("invalid categories", "err", err)
			os.Exit(1)
		}
	}

	idx, err := svc.WarmUpIndex(ctx, cats)
	if err != nil {
		slog.Error("warm-up failed", "err", err)
		os.Exit(1)
	}
	total := 0
	for _, slugs := range idx {
		total += len(slugs)
	}
	slog.Info("index ready", "categories", len(idx), "slugs", total)
}

func runLeaderboard(ctx context.Context, svc *backtest.Service, categoriesFlag, period, order string, limit, offset int, snapshot bool) {
	cats := splitList(categoriesFlag)
	if len(cats) != 1 {
		slog.Error("leaderboard mode takes exactly one category")
		os.Exit(1)
	}

	q, err := buildQuery(cats[0], period, order, limit, offset)
	if err != nil {
		slog.Error("invalid leaderboard query", "err", err)
		os.Exit(1)
	}

	if _, err := svc.Leaderboard(ctx, q, snapshot); err != nil {
		slog.Error("leaderboard fetch failed", "err", err)
		os.Exit(1)
	}
}

func runHistory(ctx context.Context, svc *backtest.Service, notifier *notify.Console, window time.Duration) {
	runs, err := svc.History(ctx, window)
	if err != nil {
		slog.Error("history query failed", "err", err)
		os.Exit(1)
	}
	notifier.PrintHistory(runs)
}

func buildQuery(category, period, order string, limit, offset int) (domain.LeaderboardQuery, error) {
	cat, err := domain.ParseCategory(category)
	if err != nil {
		return domain.LeaderboardQuery{}, err
	}
	p, err := domain.ParseTimePeriod(period)
	if err != nil {
		return domain.LeaderboardQuery{}, err
	}
	o, err := domain.ParseOrderBy(order)
	if err != nil {
		return domain.LeaderboardQuery{}, err
	}
	return domain.LeaderboardQuery{
		Category:   cat,
		TimePeriod: p,
		OrderBy:    o,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

func parseCategories(flag string) ([]domain.Category, error) {
	parts := splitList(flag)
	cats := make([]domain.Category, 0, len(parts))
	for _, p := range parts {
		cat, err := domain.ParseCategory(p)
		if err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del backtester.
type Config struct {
	Backtest BacktestConfig `yaml:"backtest"`
	API      APIConfig      `yaml:"api"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// BacktestConfig controla la simulación y los walks de paginación.
type BacktestConfig struct {
	InitialBalance     float64 `yaml:"initial_balance"`
	PositionPercentage float64 `yaml:"position_percentage"` // fracción del balance por trade matcheado
	EventsPageSize     int     `yaml:"events_page_size"`    // máximo documentado de /events: 100
	PositionsPageSize  int     `yaml:"positions_page_size"` // máximo documentado de /closed-positions: 50
	MaxPages           int     `yaml:"max_pages"`           // cota de seguridad contra upstreams sin fin
	FetchWorkers       int     `yaml:"fetch_workers"`       // wallets en paralelo (la paginación interna es secuencial)
}

// APIConfig contiene los base URLs de las APIs.
type APIConfig struct {
	GammaBase string `yaml:"gamma_base"`
	DataBase  string `yaml:"data_base"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DataDir string `yaml:"data_dir"` // caches planos: posiciones por wallet, índice, snapshots
	DSN     string `yaml:"dsn"`      // ruta al archivo SQLite del histórico de runs, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Si el YAML no existe se usan los defaults — el backtester es usable sin config.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	case os.IsNotExist(err):
		// sin archivo: defaults puros
	default:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Backtest.InitialBalance <= 0 {
		cfg.Backtest.InitialBalance = 1000
	}
	if cfg.Backtest.PositionPercentage <= 0 {
		cfg.Backtest.PositionPercentage = 0.02 // 2% por trade, el default clásico de copy-trading
	}
	if cfg.Backtest.EventsPageSize <= 0 {
		cfg.Backtest.EventsPageSize = 100
	}
	if cfg.Backtest.PositionsPageSize <= 0 {
		cfg.Backtest.PositionsPageSize = 50
	}
	if cfg.Backtest.MaxPages <= 0 {
		cfg.Backtest.MaxPages = 10
	}
	if cfg.Backtest.FetchWorkers <= 0 {
		cfg.Backtest.FetchWorkers = 4
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.API.DataBase == "" {
		cfg.API.DataBase = "https://data-api.polymarket.com"
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "polywhale.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

package storage

// sqlite.go — histórico de runs de backtest.
//
// Estrategia:
//   - `runs`: una fila por simulación completada (parámetros + timestamp).
//   - `run_results`: una fila por (wallet, categoría) del run; la curva de
//     equity se guarda como JSON — solo se lee entera, no se consulta dentro.
//   - Prune automático al arrancar: runs > 90d se descartan con sus resultados.

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alejandrodnm/polywhale/internal/domain"
	"github.com/alejandrodnm/polywhale/internal/ports"
	_ "modernc.org/sqlite"
)

const schema = `
-- Una fila por simulación completada
CREATE TABLE IF NOT EXISTS runs (
    id              TEXT PRIMARY KEY,
    ran_at          DATETIME NOT NULL,
    initial_balance REAL     NOT NULL,
    position_pct    REAL     NOT NULL
);

-- Una fila por (wallet, categoría) de cada run
CREATE TABLE IF NOT EXISTS run_results (
    run_id          TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    wallet          TEXT NOT NULL,
    category        TEXT NOT NULL,
    initial_balance REAL NOT NULL,
    final_balance   REAL NOT NULL,
    absolute_pnl    REAL NOT NULL,
    matched         INTEGER NOT NULL DEFAULT 0,
    total           INTEGER NOT NULL DEFAULT 0,
    history         TEXT NOT NULL DEFAULT '[]',
    PRIMARY KEY (run_id, wallet, category)
);

CREATE INDEX IF NOT EXISTS idx_runs_at        ON runs(ran_at DESC);
CREATE INDEX IF NOT EXISTS idx_results_wallet ON run_results(wallet);
`

const retentionRuns = 90 * 24 * time.Hour

// SQLiteStorage implementa ports.RunStorage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia runs antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveRun persiste el run y todos sus resultados en una transacción.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run ports.RunRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, ran_at, initial_balance, position_pct) VALUES (?, ?, ?, ?)`,
		run.ID, run.RanAt.UTC(), run.InitialBalance, run.PositionPercentage,
	); err != nil {
		return fmt.Errorf("storage.SaveRun: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_results
			(run_id, wallet, category, initial_balance, final_balance,
			 absolute_pnl, matched, total, history)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range run.Results {
		history, err := json.Marshal(r.History)
		if err != nil {
			return fmt.Errorf("storage.SaveRun: marshal history: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			run.ID, r.Wallet, r.Category.String(),
			r.InitialBalance, r.FinalBalance, r.AbsolutePnL,
			r.MatchedPositions, r.TotalPositions, string(history),
		); err != nil {
			return fmt.Errorf("storage.SaveRun: insert result %s/%s: %w", r.Wallet, r.Category, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveRun: commit: %w", err)
	}
	return nil
}

// GetRuns devuelve los runs cuyo ran_at está en el rango dado, más recientes
// primero, con sus resultados.
func (s *SQLiteStorage) GetRuns(ctx context.Context, from, to time.Time) ([]ports.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ran_at, initial_balance, position_pct
		FROM runs
		WHERE ran_at BETWEEN ? AND ?
		ORDER BY ran_at DESC
	`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("storage.GetRuns: query runs: %w", err)
	}
	defer rows.Close()

	var runs []ports.RunRecord
	for rows.Next() {
		var run ports.RunRecord
		var ranAt string
		if err := rows.Scan(&run.ID, &ranAt, &run.InitialBalance, &run.PositionPercentage); err != nil {
			return nil, fmt.Errorf("storage.GetRuns: scan run: %w", err)
		}
		run.RanAt = parseSQLiteTime(ranAt)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		results, err := s.getResults(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Results = results
	}
	return runs, nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

func (s *SQLiteStorage) getResults(ctx context.Context, runID string) ([]domain.BacktestResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT wallet, category, initial_balance, final_balance,
		       absolute_pnl, matched, total, history
		FROM run_results
		WHERE run_id = ?
		ORDER BY wallet, category
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("storage.getResults: query: %w", err)
	}
	defer rows.Close()

	var results []domain.BacktestResult
	for rows.Next() {
		var r domain.BacktestResult
		var cat, history string
		if err := rows.Scan(
			&r.Wallet, &cat,
			&r.InitialBalance, &r.FinalBalance, &r.AbsolutePnL,
			&r.MatchedPositions, &r.TotalPositions, &history,
		); err != nil {
			return nil, fmt.Errorf("storage.getResults: scan row: %w", err)
		}
		r.Category = domain.Category(cat)
		if err := json.Unmarshal([]byte(history), &r.History); err != nil {
			return nil, fmt.Errorf("storage.getResults: unmarshal history: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// pruneOld elimina runs antiguos para mantener la DB ligera.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionRuns)
	s.db.ExecContext(ctx, `DELETE FROM run_results WHERE run_id IN (SELECT id FROM runs WHERE ran_at < ?)`, cutoff)
	s.db.ExecContext(ctx, `DELETE FROM runs WHERE ran_at < ?`, cutoff)
}

// parseSQLiteTime tolera los dos formatos de fecha que devuelve el driver.
func parseSQLiteTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

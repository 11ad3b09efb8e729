package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/polywhale/internal/domain"
	"github.com/alejandrodnm/polywhale/internal/ports"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// NotifyBacktest imprime los resultados de una simulación, una fila por
// (wallet, categoría).
func (c *Console) NotifyBacktest(_ context.Context, results []domain.BacktestResult) error {
	if len(results) == 0 {
		fmt.Fprintf(c.out, "[%s] no backtest results\n", time.Now().Format("15:04:05"))
		return nil
	}

	if c.table {
		c.printBacktestFull(results)
	} else {
		c.printBacktestCompact(results)
	}
	return nil
}

// printBacktestCompact imprime lo esencial en una línea por resultado.
func (c *Console) printBacktestCompact(results []domain.BacktestResult) {
	now := time.Now().Format("15:04:05")

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d results", now, len(results))
	for _, r := range results {
		fmt.Fprintf(&sb, " | %s/%s $%.2f→$%.2f (%+.1f%%) %d/%d pos",
			shortAddr(r.Wallet), r.Category,
			r.InitialBalance, r.FinalBalance, r.ReturnPct(),
			r.MatchedPositions, r.TotalPositions)
	}
	fmt.Fprintln(c.out, sb.String())
}

// printBacktestFull imprime la tabla con drawdown y PnL absoluto.
func (c *Console) printBacktestFull(results []domain.BacktestResult) {
	now := time.Now().Format("15:04:05")
	fmt.Fprintf(c.out, "\n[%s] backtest — %d (wallet, category) results\n", now, len(results))

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Wallet", "Category", "Initial", "Final", "Return", "Abs PnL", "MaxDD", "Matched")

	for i, r := range results {
		table.Append(
			fmt.Sprintf("%d", i+1),
			shortAddr(r.Wallet),
			r.Category.String(),
			fmt.Sprintf("$%.2f", r.InitialBalance),
			fmt.Sprintf("$%.2f", r.FinalBalance),
			fmt.Sprintf("%+.2f%%", r.ReturnPct()),
			fmt.Sprintf("$%+.2f", r.AbsolutePnL),
			fmt.Sprintf("%.1f%%", maxDrawdownPct(r.History)),
			fmt.Sprintf("%d/%d", r.MatchedPositions, r.TotalPositions),
		)
	}
	table.Render()

	fmt.Fprintln(c.out, "  Return = equity simulada con sizing porcentual | Abs PnL = suma sin escalar del trader")
	fmt.Fprintln(c.out, "  Matched = posiciones del trader que caen dentro de la categoría")
	fmt.Fprintln(c.out)
}

// NotifyLeaderboard imprime un leaderboard rankeado.
func (c *Console) NotifyLeaderboard(_ context.Context, q domain.LeaderboardQuery, entries []domain.LeaderboardEntry) error {
	if len(entries) == 0 {
		fmt.Fprintf(c.out, "[%s] leaderboard %s/%s: empty\n",
			time.Now().Format("15:04:05"), q.Category, q.TimePeriod)
		return nil
	}

	fmt.Fprintf(c.out, "\n[%s] leaderboard — %s / %s / by %s\n",
		time.Now().Format("15:04:05"), q.Category, q.TimePeriod, q.OrderBy)

	table := tablewriter.NewWriter(c.out)
	table.Header("Rank", "Trader", "Address", "Volume", "PnL", "Win rate")

	for _, e := range entries {
		name := e.Name
		if name == "" {
			name = "-"
		}
		winRate := "-"
		if e.WinRate > 0 {
			winRate = fmt.Sprintf("%.1f%%", e.WinRate*100)
		}
		table.Append(
			fmt.Sprintf("%d", e.Rank),
			truncate(name, 24),
			shortAddr(e.Address),
			fmt.Sprintf("$%.0f", e.Volume),
			fmt.Sprintf("$%+.2f", e.PnL),
			winRate,
		)
	}
	table.Render()
	fmt.Fprintln(c.out)
	return nil
}

// PrintHistory imprime el histórico de runs persistidos.
func (c *Console) PrintHistory(runs []ports.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(c.out, "\n  No runs recorded yet. Run a backtest first.")
		return
	}

	fmt.Fprintf(c.out, "\n  === RUN HISTORY (%d runs, newest first) ===\n\n", len(runs))

	table := tablewriter.NewWriter(c.out)
	table.Header("Ran at", "Run ID", "Balance", "Pos %", "Results", "Best return", "Worst return")

	for _, run := range runs {
		best, worst := returnRange(run.Results)
		table.Append(
			run.RanAt.Format("2006-01-02 15:04"),
			shortID(run.ID),
			fmt.Sprintf("$%.2f", run.InitialBalance),
			fmt.Sprintf("%.1f%%", run.PositionPercentage*100),
			fmt.Sprintf("%d", len(run.Results)),
			fmt.Sprintf("%+.2f%%", best),
			fmt.Sprintf("%+.2f%%", worst),
		)
	}
	table.Render()
	fmt.Fprintln(c.out)
}

// --- helpers ---

// maxDrawdownPct calcula la caída máxima pico-a-valle de la curva de equity.
func maxDrawdownPct(history []float64) float64 {
	if len(history) < 2 {
		return 0
	}
	peak := history[0]
	maxDD := 0.0
	for _, v := range history[1:] {
		if v > peak {
			peak = v
			continue
		}
		if peak > 0 {
			dd := (peak - v) / peak * 100
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

func returnRange(results []domain.BacktestResult) (best, worst float64) {
	for i, r := range results {
		ret := r.ReturnPct()
		if i == 0 {
			best, worst = ret, ret
			continue
		}
		if ret > best {
			best = ret
		}
		if ret < worst {
			worst = ret
		}
	}
	return
}

func shortAddr(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:8] + "…" + addr[len(addr)-4:]
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

package backtest

// concurrent.go — worker pool para cargar posiciones de varias wallets en
// paralelo. El rate limiter del cliente HTTP acota el tráfico real; aquí solo
// se acota el número de cargas en vuelo.

import (
	"context"
	"runtime"
	"sync"

	"github.com/alejandrodnm/polywhale/internal/domain"
)

type walletPositions struct {
	wallet    string
	positions []domain.ClosedPosition
	err       error
}

// loadWalletsConcurrent carga las posiciones de todas las wallets usando un
// worker pool. Devuelve un mapa wallet → posiciones con los fetches que
// funcionaron y el primer error encontrado (si hubo alguno).
//
// Si workers <= 0 usa runtime.NumCPU().
func loadWalletsConcurrent(
	ctx context.Context,
	loader *positionLoader,
	wallets []string,
	workers int,
) (map[string][]domain.ClosedPosition, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(wallets) {
		workers = len(wallets)
	}

	workCh := make(chan string, len(wallets))
	resultCh := make(chan walletPositions, len(wallets))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for wallet := range workCh {
				positions, err := loader.Load(ctx, wallet)
				resultCh <- walletPositions{wallet: wallet, positions: positions, err: err}
			}
		}()
	}

	for _, wallet := range wallets {
		workCh <- wallet
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	byWallet := make(map[string][]domain.ClosedPosition, len(wallets))
	var firstErr error
	for res := range resultCh {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		byWallet[res.wallet] = res.positions
	}
	return byWallet, firstErr
}

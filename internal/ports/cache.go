package ports

import (
	"github.com/alejandrodnm/polywhale/internal/domain"
)

// IndexStore persiste el índice categoría → slugs como un único archivo.
type IndexStore interface {
	// LoadIndex carga el índice persistido. Si no existe devuelve un índice
	// vacío sin error; si existe pero no se puede parsear, falla ruidosamente.
	LoadIndex() (domain.SlugIndex, error)

	// SaveIndex reemplaza el índice persistido completo.
	SaveIndex(idx domain.SlugIndex) error
}

// PositionCache es el snapshot en disco de posiciones cerradas por wallet.
// Un archivo por address; sin TTL — una entrada existente se confía
// indefinidamente y se devuelve sin tocar la red.
type PositionCache interface {
	// GetPositions devuelve (posiciones, true) si hay entrada cacheada.
	// Un archivo corrupto es un error, no un miss: no se enmascara dato malo
	// como resultado vacío legítimo.
	GetPositions(wallet string) ([]domain.ClosedPosition, bool, error)

	// PutPositions persiste la lista completa y ordenada de una wallet.
	PutPositions(wallet string, positions []domain.ClosedPosition) error
}

// LeaderboardSnapshots es el cache read-through opcional de leaderboards:
// un archivo por (categoría, período) consultado antes del endpoint vivo.
type LeaderboardSnapshots interface {
	// GetSnapshot devuelve (entries, true) si existe snapshot para la clave.
	GetSnapshot(cat domain.Category, period domain.TimePeriod) ([]domain.LeaderboardEntry, bool, error)

	// PutSnapshot persiste el snapshot para la clave dada.
	PutSnapshot(cat domain.Category, period domain.TimePeriod, entries []domain.LeaderboardEntry) error
}

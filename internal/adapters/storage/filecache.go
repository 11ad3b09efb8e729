package storage

// filecache.go — caches planos en disco, compatibles con el layout original:
//   - posiciones_<wallet>.json: array completo de posiciones cerradas
//   - slug_index.json: mapping categoría → array de slugs
//   - leaderboard_<categoría>_<período>.json: snapshot opcional
//
// Sin TTL: una entrada existente se confía indefinidamente. Un archivo
// corrupto falla ruidosamente — nunca se enmascara como resultado vacío.
//
// Hazard conocido: dos backtests concurrentes para la misma wallet pueden
// fallar ambos el cache y escribir ambos; gana el último write. La
// de-duplicación por wallet vive una capa arriba (single-flight en el
// position loader), no aquí.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alejandrodnm/polywhale/internal/domain"
)

const (
	indexFileName   = "slug_index.json"
	positionsPrefix = "positions_"
	snapshotPrefix  = "leaderboard_"
)

// FileCache implementa ports.PositionCache, ports.IndexStore y
// ports.LeaderboardSnapshots sobre un directorio de archivos JSON.
type FileCache struct {
	dir string
}

// NewFileCache crea (si hace falta) el directorio de datos y devuelve el cache.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage.NewFileCache: mkdir %q: %w", dir, err)
	}
	return &FileCache{dir: dir}, nil
}

// --- ports.PositionCache ---

// GetPositions devuelve las posiciones cacheadas de una wallet, verbatim y en
// el orden en que se guardaron. (posiciones, false, nil) si no hay entrada.
func (f *FileCache) GetPositions(wallet string) ([]domain.ClosedPosition, bool, error) {
	path := f.positionsPath(wallet)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage.GetPositions: read %q: %w", path, err)
	}

	var positions []domain.ClosedPosition
	if err := json.Unmarshal(data, &positions); err != nil {
		// Corrupción de cache: error explícito, no un miss silencioso.
		return nil, false, fmt.Errorf("storage.GetPositions: corrupt cache %q: %w", path, err)
	}
	return positions, true, nil
}

// PutPositions persiste la lista completa de posiciones de una wallet,
// reemplazando cualquier entrada anterior.
func (f *FileCache) PutPositions(wallet string, positions []domain.ClosedPosition) error {
	if positions == nil {
		positions = []domain.ClosedPosition{}
	}
	return f.writeJSON(f.positionsPath(wallet), positions)
}

// --- ports.IndexStore ---

// LoadIndex carga el índice categoría → slugs. Si el archivo no existe
// devuelve un índice vacío: el warm-up lo construye desde cero.
func (f *FileCache) LoadIndex() (domain.SlugIndex, error) {
	path := filepath.Join(f.dir, indexFileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return domain.SlugIndex{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage.LoadIndex: read %q: %w", path, err)
	}

	var idx domain.SlugIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("storage.LoadIndex: corrupt index %q: %w", path, err)
	}
	return idx, nil
}

// SaveIndex reemplaza el índice persistido completo.
func (f *FileCache) SaveIndex(idx domain.SlugIndex) error {
	return f.writeJSON(filepath.Join(f.dir, indexFileName), idx)
}

// --- ports.LeaderboardSnapshots ---

// GetSnapshot devuelve el snapshot de leaderboard para (categoría, período)
// si existe.
func (f *FileCache) GetSnapshot(cat domain.Category, period domain.TimePeriod) ([]domain.LeaderboardEntry, bool, error) {
	path := f.snapshotPath(cat, period)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage.GetSnapshot: read %q: %w", path, err)
	}

	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, fmt.Errorf("storage.GetSnapshot: corrupt snapshot %q: %w", path, err)
	}
	return entries, true, nil
}

// PutSnapshot persiste el snapshot para (categoría, período).
func (f *FileCache) PutSnapshot(cat domain.Category, period domain.TimePeriod, entries []domain.LeaderboardEntry) error {
	return f.writeJSON(f.snapshotPath(cat, period), entries)
}

// --- helpers internos ---

func (f *FileCache) positionsPath(wallet string) string {
	return filepath.Join(f.dir, positionsPrefix+sanitize(wallet)+".json")
}

func (f *FileCache) snapshotPath(cat domain.Category, period domain.TimePeriod) string {
	return filepath.Join(f.dir, fmt.Sprintf("%s%s_%s.json", snapshotPrefix, cat, period))
}

func (f *FileCache) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage.writeJSON: marshal %q: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("storage.writeJSON: write %q: %w", path, err)
	}
	return nil
}

// sanitize normaliza una address a minúsculas y descarta separadores de path.
func sanitize(wallet string) string {
	w := strings.ToLower(wallet)
	w = strings.ReplaceAll(w, "/", "_")
	w = strings.ReplaceAll(w, string(filepath.Separator), "_")
	return w
}

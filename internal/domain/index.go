package domain

// SlugIndex mapea cada categoría al set ordenado de slugs de mercados que le
// pertenecen. Se construye incrementalmente con Merge y se persiste como un
// único archivo JSON.
//
// Un slug puede aparecer en más de una categoría si el tagging upstream se
// solapa; se tolera, no se deduplica entre categorías.
type SlugIndex map[Category][]string

// Merge une los slugs nuevos de cada categoría con los existentes (unión de
// sets, no reemplazo) y devuelve un mapa NUEVO: el índice original no se muta,
// así un fallo parcial por categoría nunca corrompe las que sí avanzaron.
//
// Idempotente: re-ejecutar el warm-up con los mismos datos upstream produce un
// mapping set-equivalente, y los slugs ya conocidos nunca se pierden aunque
// upstream deje de devolverlos (p.ej. salieron de la ventana "reciente").
func (idx SlugIndex) Merge(updates map[Category][]string) SlugIndex {
	merged := make(SlugIndex, len(idx)+len(updates))
	for cat, slugs := range idx {
		merged[cat] = append([]string(nil), slugs...)
	}

	for cat, slugs := range updates {
		seen := make(map[string]struct{}, len(merged[cat]))
		for _, s := range merged[cat] {
			seen[s] = struct{}{}
		}
		for _, s := range slugs {
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			merged[cat] = append(merged[cat], s)
		}
	}
	return merged
}

// SlugSet devuelve el set de slugs de una categoría como mapa de lookup.
// Para CategoryOverall devuelve la unión de todas las categorías.
func (idx SlugIndex) SlugSet(cat Category) map[string]struct{} {
	set := make(map[string]struct{})
	if cat == CategoryOverall {
		for _, slugs := range idx {
			for _, s := range slugs {
				set[s] = struct{}{}
			}
		}
		return set
	}
	for _, s := range idx[cat] {
		set[s] = struct{}{}
	}
	return set
}

package domain

import (
	"fmt"
	"strings"
)

// Category es un tag temático fijo usado para particionar mercados y filtrar
// backtests. El set es cerrado: una categoría desconocida se rechaza, nunca
// se ignora en silencio.
type Category string

const (
	CategoryPolitics  Category = "politics"
	CategorySports    Category = "sports"
	CategoryCrypto    Category = "crypto"
	CategoryCulture   Category = "culture"
	CategoryMentions  Category = "mentions"
	CategoryWeather   Category = "weather"
	CategoryEconomics Category = "economics"
	CategoryTech      Category = "tech"

	// CategoryOverall es la pseudo-categoría que agrega todas las demás.
	// No tiene tag propio en la API: su slug set es la unión del índice.
	CategoryOverall Category = "overall"
)

// AllCategories devuelve las categorías reales (sin overall), en orden fijo.
func AllCategories() []Category {
	return []Category{
		CategoryPolitics,
		CategorySports,
		CategoryCrypto,
		CategoryCulture,
		CategoryMentions,
		CategoryWeather,
		CategoryEconomics,
		CategoryTech,
	}
}

// ParseCategory valida y normaliza un string a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c == CategoryOverall {
		return c, nil
	}
	for _, known := range AllCategories() {
		if c == known {
			return c, nil
		}
	}
	return "", &ValidationError{Field: "category", Msg: fmt.Sprintf("unknown category %q", s)}
}

func (c Category) String() string { return string(c) }

// TimePeriod es la ventana temporal de una consulta de leaderboard.
type TimePeriod string

const (
	PeriodDay   TimePeriod = "day"
	PeriodWeek  TimePeriod = "week"
	PeriodMonth TimePeriod = "month"
	PeriodAll   TimePeriod = "all"
)

// ParseTimePeriod valida y normaliza un string a TimePeriod.
func ParseTimePeriod(s string) (TimePeriod, error) {
	p := TimePeriod(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodAll:
		return p, nil
	}
	return "", &ValidationError{Field: "timePeriod", Msg: fmt.Sprintf("unknown time period %q", s)}
}

func (p TimePeriod) String() string { return string(p) }

// OrderBy es el criterio de ordenación del leaderboard.
type OrderBy string

const (
	OrderByPnL    OrderBy = "PNL"
	OrderByVolume OrderBy = "VOL"
)

// ParseOrderBy valida y normaliza un string a OrderBy.
func ParseOrderBy(s string) (OrderBy, error) {
	o := OrderBy(strings.ToUpper(strings.TrimSpace(s)))
	switch o {
	case OrderByPnL, OrderByVolume:
		return o, nil
	}
	return "", &ValidationError{Field: "orderBy", Msg: fmt.Sprintf("unknown order %q", s)}
}

func (o OrderBy) String() string { return string(o) }

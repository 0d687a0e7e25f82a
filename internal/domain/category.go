package domain

import "strings"

// CategoryID - числовой идентификатор класса контента (луна, планета, ...).
type CategoryID uint8

const (
	CategoryUnknown CategoryID = iota
	CategoryMoon
	CategoryPlanet
	CategorySun
	CategoryBlackHole
	CategoryAsteroid
)

// AllCategories в порядке, в котором они перечисляются в конфиге и отладке.
var AllCategories = []CategoryID{
	CategoryMoon,
	CategoryPlanet,
	CategorySun,
	CategoryBlackHole,
	CategoryAsteroid,
}

// Маппинг для конвертации конфига/JSON -> Domain
var categoryStringToID = map[string]CategoryID{
	"MOON":       CategoryMoon,
	"PLANET":     CategoryPlanet,
	"SUN":        CategorySun,
	"BLACK_HOLE": CategoryBlackHole,
	"ASTEROID":   CategoryAsteroid,
}

// Маппинг для логов Domain -> String
var categoryIDToString = map[CategoryID]string{
	CategoryMoon:      "MOON",
	CategoryPlanet:    "PLANET",
	CategorySun:       "SUN",
	CategoryBlackHole: "BLACK_HOLE",
	CategoryAsteroid:  "ASTEROID",
}

// ParseCategory конвертирует строку в CategoryID (регистр не важен).
func ParseCategory(s string) CategoryID {
	upper := strings.ToUpper(strings.TrimSpace(s))
	if val, ok := categoryStringToID[upper]; ok {
		return val
	}
	return CategoryUnknown
}

func (c CategoryID) String() string {
	if val, ok := categoryIDToString[c]; ok {
		return val
	}
	return "UNKNOWN"
}

// Tag возвращает тег, под которым сущности категории живут во внешней фабрике.
func (c CategoryID) Tag() Tag {
	if c == CategoryAsteroid {
		return TagAsteroid
	}
	return TagCelestialBody
}

// Tag - метка для массовых выборок в WorldEntityFactory (очистка, сброс).
type Tag string

const (
	TagCelestialBody Tag = "CelestialBody"
	TagAsteroid      Tag = "Asteroid"
)

// AllTags - все теги, которыми помечается сгенерированный контент.
var AllTags = []Tag{TagCelestialBody, TagAsteroid}

// SpawnCategory описывает правила появления одного класса контента.
type SpawnCategory struct {
	ID       CategoryID
	Variants []string // Варианты контента (префабы). Пустой список = слот пропускается.

	SpawnChance float64 // Базовая вероятность [0,1]
	MinX        float64 // Горизонтальные границы спавна
	MaxX        float64
	MinGap      float64 // Минимальный зазор до соседей в слое (до поправки сложности)
	Exclusive   bool    // Эксклюзивная (опасная) категория: максимум одна на слой
}

// HasVariants сообщает, можно ли вообще что-то заспавнить из категории.
func (c SpawnCategory) HasVariants() bool {
	return len(c.Variants) > 0
}

// WithGap возвращает копию категории с другим зазором (для поправки сложности).
func (c SpawnCategory) WithGap(gap float64) SpawnCategory {
	c.MinGap = gap
	return c
}

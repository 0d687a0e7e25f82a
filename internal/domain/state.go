package domain

// DifficultyState - производные от счета параметры сложности.
// Пересчитывается каждый тик, истории не хранит.
type DifficultyState struct {
	Score      float64 `json:"score"`
	Multiplier float64 `json:"multiplier"`

	SunChance       float64 `json:"sunChance"`
	BlackHoleChance float64 `json:"blackHoleChance"`
	MoonChance      float64 `json:"moonChance"`
	PlanetChance    float64 `json:"planetChance"`
	AsteroidChance  float64 `json:"asteroidChance"` // Может быть > 1: это Bernoulli на слой

	SpacingMultiplier float64 `json:"spacingMultiplier"`
	MaxBodiesPerLayer int     `json:"maxBodiesPerLayer"`
}

// ChanceFor возвращает вероятность появления категории при текущей сложности.
func (d DifficultyState) ChanceFor(category CategoryID) float64 {
	switch category {
	case CategorySun:
		return d.SunChance
	case CategoryBlackHole:
		return d.BlackHoleChance
	case CategoryMoon:
		return d.MoonChance
	case CategoryPlanet:
		return d.PlanetChance
	case CategoryAsteroid:
		return d.AsteroidChance
	}
	return 0
}

// StreamingState - водяные знаки окна генерации.
type StreamingState struct {
	HighestGeneratedY float64 `json:"highestGeneratedY"`
	LastDangerousY    float64 `json:"lastDangerousY"` // 0, пока DangerousSeen false
	DangerousSeen     bool    `json:"dangerousSeen"`
	CleanupY          float64 `json:"cleanupY"` // 0 до первой очистки
	TrackedLayers     int     `json:"trackedLayers"`
	TrackedEntities   int     `json:"trackedEntities"`
}

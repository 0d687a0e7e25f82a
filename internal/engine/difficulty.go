package engine

import (
	"math"

	"exodus-server/internal/domain"
)

// DifficultyCurve - чистая функция счета. Состояния нет, только конфиг.
type DifficultyCurve struct {
	difficulty DifficultyConfig
	categories CategoriesConfig
}

func NewDifficultyCurve(cfg Config) *DifficultyCurve {
	return &DifficultyCurve{
		difficulty: cfg.Difficulty,
		categories: cfg.Categories,
	}
}

// Multiplier возвращает множитель сложности в [1, MaxMultiplier].
func (d *DifficultyCurve) Multiplier(score float64) float64 {
	m := 1 + (score/d.difficulty.ScorePerStep)*d.difficulty.IncreaseRate
	if m > d.difficulty.MaxMultiplier {
		m = d.difficulty.MaxMultiplier
	}
	if m < 1 {
		m = 1
	}
	return m
}

// Evaluate пересчитывает все производные параметры для счета.
func (d *DifficultyCurve) Evaluate(score float64) domain.DifficultyState {
	m := d.Multiplier(score)

	spacing := 1 - (m-1)*d.difficulty.SpacingSlope
	if spacing < d.difficulty.SpacingFloor {
		spacing = d.difficulty.SpacingFloor
	}

	return domain.DifficultyState{
		Score:      score,
		Multiplier: m,

		SunChance:       scaledChance(d.categories.Sun, m),
		BlackHoleChance: scaledChance(d.categories.BlackHole, m),
		MoonChance:      d.categories.Moon.SpawnChance,
		PlanetChance:    d.categories.Planet.SpawnChance,
		AsteroidChance:  d.categories.Asteroid.SpawnChance * m,

		SpacingMultiplier: spacing,
		MaxBodiesPerLayer: int(math.Floor(float64(d.difficulty.BaseBodies) + m)),
	}
}

// AdjustedGap применяет сжатие к БАЗОВОМУ зазору (без накопления между тиками).
func AdjustedGap(baseGap float64, state domain.DifficultyState) float64 {
	if state.SpacingMultiplier <= 0 {
		return baseGap
	}
	return baseGap * state.SpacingMultiplier
}

func scaledChance(cc CategoryConfig, m float64) float64 {
	chance := cc.SpawnChance * m
	if cc.ChanceCap > 0 && chance > cc.ChanceCap {
		chance = cc.ChanceCap
	}
	return chance
}

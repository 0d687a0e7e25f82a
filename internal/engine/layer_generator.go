package engine

import (
	"math"

	"exodus-server/internal/domain"
	"exodus-server/pkg/logger"
	"exodus-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

// LayerGenerator наполняет один слой контентом и материализует его через фабрику.
type LayerGenerator struct {
	cfg     *Config
	rng     utils.RandomSource
	factory WorldEntityFactory
	solver  *PlacementSolver

	categories map[domain.CategoryID]domain.SpawnCategory

	// Порядок бросков, собранный по флагу Exclusive
	exclusive []domain.CategoryID
	ordinary  []domain.CategoryID

	// Видимый горизонтальный диапазон камеры (для секторов астероидов)
	spanMinX float64
	spanMaxX float64

	lastDangerousY float64
	nextIndex      int
}

func NewLayerGenerator(cfg *Config, rng utils.RandomSource, factory WorldEntityFactory) *LayerGenerator {
	g := &LayerGenerator{
		cfg:        cfg,
		rng:        rng,
		factory:    factory,
		solver:     NewPlacementSolver(rng, cfg.Placement.MaxAttempts),
		categories: make(map[domain.CategoryID]domain.SpawnCategory, len(domain.AllCategories)),
	}
	for _, id := range domain.AllCategories {
		g.categories[id] = cfg.SpawnCategory(id)
	}
	g.exclusive, g.ordinary = splitByExclusive(g.categories)

	// До первой привязки к камере берем диапазон из конфига астероидов
	g.spanMinX = cfg.Categories.Asteroid.MinX - cfg.Placement.SpawnBuffer
	g.spanMaxX = cfg.Categories.Asteroid.MaxX + cfg.Placement.SpawnBuffer
	g.Reset()
	return g
}

// SetViewportBounds пересчитывает горизонтальные границы всех категорий от камеры:
// [minX + buffer, maxX - buffer].
func (g *LayerGenerator) SetViewportBounds(minX, maxX float64) {
	g.spanMinX = minX
	g.spanMaxX = maxX

	buffer := g.cfg.Placement.SpawnBuffer
	for id, cat := range g.categories {
		cat.MinX = minX + buffer
		cat.MaxX = maxX - buffer
		g.categories[id] = cat
	}
}

// Приоритет единого опасного броска: черная дыра раньше солнца
var exclusivePriority = []domain.CategoryID{
	domain.CategoryBlackHole,
	domain.CategorySun,
	domain.CategoryMoon,
	domain.CategoryPlanet,
}

// Очередность обычных тел: луна, затем планета
var ordinaryPriority = []domain.CategoryID{
	domain.CategoryMoon,
	domain.CategoryPlanet,
	domain.CategorySun,
	domain.CategoryBlackHole,
}

// splitByExclusive делит тела на опасный бросок и обычные броски. Астероиды идут отдельным кластером.
func splitByExclusive(cats map[domain.CategoryID]domain.SpawnCategory) (exclusive, ordinary []domain.CategoryID) {
	for _, id := range exclusivePriority {
		if cats[id].Exclusive {
			exclusive = append(exclusive, id)
		}
	}
	for _, id := range ordinaryPriority {
		if !cats[id].Exclusive {
			ordinary = append(ordinary, id)
		}
	}
	return exclusive, ordinary
}

// Reset забывает последний опасный слой и нумерацию слоев.
func (g *LayerGenerator) Reset() {
	g.lastDangerousY = math.Inf(-1)
	g.nextIndex = 0
	g.solver.Reset()
}

func (g *LayerGenerator) Category(id domain.CategoryID) domain.SpawnCategory {
	return g.categories[id]
}

func (g *LayerGenerator) LastDangerousY() float64 {
	return g.lastDangerousY
}

// Solver отдает реестр текущего слоя (очистка чистит его вместе с сущностями).
func (g *LayerGenerator) Solver() *PlacementSolver {
	return g.solver
}

// CanSpawnDangerous - прошло ли достаточно высоты с последнего опасного слоя.
func (g *LayerGenerator) CanSpawnDangerous(layerY float64) bool {
	return layerY-g.lastDangerousY >= g.cfg.Layer.MinDangerousSpacing*g.cfg.Layer.Height
}

// Generate строит один слой на высоте layerY при заданной сложности.
func (g *LayerGenerator) Generate(layerY float64, diff domain.DifficultyState) domain.Layer {
	// 1. Реестр зазоров живет только в пределах слоя
	g.solver.Reset()

	layer := domain.Layer{Index: g.nextIndex, Y: layerY}
	g.nextIndex++

	// 2. Проверяем дистанцию до прошлого опасного слоя ДО бросков
	canSpawnDangerous := g.CanSpawnDangerous(layerY)

	// 3. Астероиды - независимый бросок
	if utils.Roll(g.rng) < diff.AsteroidChance {
		g.spawnAsteroidCluster(&layer, diff)
	}

	// 4. Эксклюзивные категории: один бросок, накопленная вероятность, черная дыра первой
	if canSpawnDangerous && len(g.exclusive) > 0 {
		roll := utils.Roll(g.rng)
		cumulative := 0.0

		for _, id := range g.exclusive {
			cumulative += diff.ChanceFor(id)
			if roll < cumulative {
				g.spawnBody(&layer, id, diff, false)
				g.lastDangerousY = layerY
				layer.Dangerous = true
				g.logLayer(layer, diff)
				return layer
			}
		}
	}

	// 5. Обычные тела под лимитом на слой: луна без смещения, остальные с фланговым смещением
	bodies := 0
	for _, id := range g.ordinary {
		if utils.Roll(g.rng) < diff.ChanceFor(id) && bodies < diff.MaxBodiesPerLayer {
			if g.spawnBody(&layer, id, diff, id != domain.CategoryMoon) {
				bodies++
			}
		}
	}

	// 6. Пустой слой - страховочная планета (если планета не эксклюзивна)
	if bodies == 0 && !g.categories[domain.CategoryPlanet].Exclusive &&
		utils.Roll(g.rng) < g.cfg.Placement.FallbackPlanetChance {
		g.spawnBody(&layer, domain.CategoryPlanet, diff, false)
	}

	g.logLayer(layer, diff)
	return layer
}

// spawnBody размещает одно тело категории. false - слот пропущен (нет вариантов, места или фабрика отказала).
func (g *LayerGenerator) spawnBody(layer *domain.Layer, id domain.CategoryID, diff domain.DifficultyState, biasAway bool) bool {
	cat := g.categories[id]
	if !cat.HasVariants() {
		return false
	}
	variant := cat.Variants[g.rng.UniformInt(0, len(cat.Variants))]

	cat = cat.WithGap(AdjustedGap(cat.MinGap, diff))
	pos, ok := g.solver.Place(cat, layer.Y, biasAway)
	if !ok {
		return false
	}
	return g.materialize(layer, id, variant, pos, 0)
}

// spawnAsteroidCluster делит видимую ширину на равные секторы, по одному кандидату на сектор.
func (g *LayerGenerator) spawnAsteroidCluster(layer *domain.Layer, diff domain.DifficultyState) {
	ac := g.cfg.Asteroids
	cat := g.categories[domain.CategoryAsteroid]
	gap := AdjustedGap(cat.MinGap, diff)

	count := g.rng.UniformInt(ac.MinCount, ac.MaxCount)
	if count <= 0 {
		return
	}
	width := g.spanMaxX - g.spanMinX - 2*ac.EdgeMargin
	if width <= 0 {
		return
	}
	sector := width / float64(count)

	for i := 0; i < count; i++ {
		if !cat.HasVariants() {
			continue
		}
		variant := cat.Variants[g.rng.UniformInt(0, len(cat.Variants))]

		start := g.spanMinX + ac.EdgeMargin + float64(i)*sector
		pos := domain.Position{
			X: g.rng.UniformFloat(start, start+sector),
			Y: layer.Y + g.rng.UniformFloat(-ac.JitterY, ac.JitterY),
		}

		if g.solver.TryAt(pos, gap) {
			rotation := g.rng.UniformFloat(0, ac.MaxRotation)
			g.materialize(layer, domain.CategoryAsteroid, variant, pos, rotation)
		}
	}
}

func (g *LayerGenerator) materialize(layer *domain.Layer, id domain.CategoryID, variant string, pos domain.Position, rotation float64) bool {
	handle, err := g.factory.Spawn(SpawnRequest{
		Variant:  variant,
		Category: id,
		Pos:      pos,
		Rotation: rotation,
		Tag:      id.Tag(),
		Layer:    layer.Index,
	})
	if err != nil {
		logger.Component("generator").WithFields(logrus.Fields{
			"category": id.String(),
			"variant":  variant,
			"layer_y":  layer.Y,
		}).WithError(err).Debug("Factory refused spawn")
		return false
	}

	layer.Content = append(layer.Content, domain.PlacedContent{
		Handle:   handle,
		Category: id,
		Variant:  variant,
		Pos:      pos,
		Rotation: rotation,
		LayerY:   layer.Y,
	})
	return true
}

func (g *LayerGenerator) logLayer(layer domain.Layer, diff domain.DifficultyState) {
	logger.Component("generator").WithFields(logrus.Fields{
		"layer":      layer.Index,
		"y":          layer.Y,
		"content":    len(layer.Content),
		"dangerous":  layer.Dangerous,
		"multiplier": diff.Multiplier,
	}).Debug("Layer generated")
}

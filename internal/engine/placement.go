package engine

import (
	"exodus-server/internal/domain"
	"exodus-server/pkg/logger"
	"exodus-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

// placedPoint - запись реестра: позиция и зазор, с которым её разместили.
type placedPoint struct {
	pos domain.Position
	gap float64
}

// PlacementSolver ищет позицию методом отбраковки.
// Реестр живет ровно один слой: Reset вызывается в начале каждой генерации.
type PlacementSolver struct {
	rng         utils.RandomSource
	maxAttempts int
	placed      []placedPoint
}

func NewPlacementSolver(rng utils.RandomSource, maxAttempts int) *PlacementSolver {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &PlacementSolver{
		rng:         rng,
		maxAttempts: maxAttempts,
		placed:      make([]placedPoint, 0, 16),
	}
}

// Reset очищает реестр текущего слоя.
func (s *PlacementSolver) Reset() {
	s.placed = s.placed[:0]
}

func (s *PlacementSolver) Len() int {
	return len(s.placed)
}

// Fits проверяет кандидата: до каждого соседа не меньше max(свой зазор, зазор соседа).
func (s *PlacementSolver) Fits(pos domain.Position, gap float64) bool {
	for _, p := range s.placed {
		required := gap
		if p.gap > required {
			required = p.gap
		}
		if pos.DistanceSquaredTo(p.pos) < required*required {
			return false
		}
	}
	return true
}

// TryAt - одна попытка без выборки (кластер астероидов валидирует свои кандидаты сам).
func (s *PlacementSolver) TryAt(pos domain.Position, gap float64) bool {
	if !s.Fits(pos, gap) {
		return false
	}
	s.placed = append(s.placed, placedPoint{pos: pos, gap: gap})
	return true
}

// Place делает до maxAttempts попыток. MinGap категории уже должен быть с поправкой сложности.
// Неудача - штатный исход: слот просто пропускается.
func (s *PlacementSolver) Place(cat domain.SpawnCategory, layerY float64, biasAway bool) (domain.Position, bool) {
	flank := biasAway && len(s.placed) > 0

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		var x float64
		if flank {
			x = s.flankX(cat)
		} else {
			x = s.rng.UniformFloat(cat.MinX, cat.MaxX)
		}

		pos := domain.Position{X: x, Y: layerY}
		if s.TryAt(pos, cat.MinGap) {
			return pos, true
		}
	}

	logger.Component("placement").WithFields(logrus.Fields{
		"category": cat.ID.String(),
		"layer_y":  layerY,
		"attempts": s.maxAttempts,
		"occupied": len(s.placed),
	}).Debug("No placement found")
	return domain.Position{}, false
}

// flankX выбирает x слева или справа от полосы [-gap, gap] вокруг центра (50/50).
// Если одна из сторон пуста, берется другая; если обе - весь диапазон.
func (s *PlacementSolver) flankX(cat domain.SpawnCategory) float64 {
	leftOK := -cat.MinGap > cat.MinX
	rightOK := cat.MaxX > cat.MinGap

	switch {
	case leftOK && rightOK:
		if utils.Roll(s.rng) < 0.5 {
			return s.rng.UniformFloat(cat.MinX, -cat.MinGap)
		}
		return s.rng.UniformFloat(cat.MinGap, cat.MaxX)
	case leftOK:
		return s.rng.UniformFloat(cat.MinX, -cat.MinGap)
	case rightOK:
		return s.rng.UniformFloat(cat.MinGap, cat.MaxX)
	}
	return s.rng.UniformFloat(cat.MinX, cat.MaxX)
}

// Prune выкидывает из реестра позиции ниже belowY (их сущности уже убраны очисткой).
func (s *PlacementSolver) Prune(belowY float64) int {
	kept := s.placed[:0]
	for _, p := range s.placed {
		if p.pos.Y >= belowY {
			kept = append(kept, p)
		}
	}
	removed := len(s.placed) - len(kept)
	s.placed = kept
	return removed
}

package engine

import (
	"testing"

	"exodus-server/internal/domain"
	"exodus-server/pkg/utils"
)

func testCategory(gap float64) domain.SpawnCategory {
	return domain.SpawnCategory{
		ID:       domain.CategoryMoon,
		Variants: []string{"moon"},
		MinX:     -7,
		MaxX:     7,
		MinGap:   gap,
	}
}

func TestPlacementSolver_FirstPlacementAlwaysFits(t *testing.T) {
	rng := &scriptedRandom{floats: []float64{0.5}}
	s := NewPlacementSolver(rng, 10)

	pos, ok := s.Place(testCategory(3), 40, false)
	if !ok {
		t.Fatal("Empty layer must accept the first candidate")
	}
	if pos.X != 0 || pos.Y != 40 {
		t.Errorf("Expected (0,40), got %+v", pos)
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 recorded position, got %d", s.Len())
	}
}

func TestPlacementSolver_RejectsTooClose(t *testing.T) {
	// Все попытки попадают в центр: вторая сущность не влезает
	rng := &scriptedRandom{fallback: 0.5}
	s := NewPlacementSolver(rng, 10)

	if _, ok := s.Place(testCategory(3), 0, false); !ok {
		t.Fatal("First placement failed")
	}
	if _, ok := s.Place(testCategory(3), 0, false); ok {
		t.Fatal("Second placement at the same x must be rejected")
	}
	if s.Len() != 1 {
		t.Errorf("Failed placement must not be recorded, len=%d", s.Len())
	}
}

func TestPlacementSolver_RetriesUntilValid(t *testing.T) {
	// x = -7 + f*14. 0.5 -> 0; 0.55 -> 0.7 (слишком близко); 0.9 -> 5.6
	rng := &scriptedRandom{floats: []float64{0.5, 0.55, 0.9}}
	s := NewPlacementSolver(rng, 10)

	s.Place(testCategory(3), 0, false)
	pos, ok := s.Place(testCategory(3), 0, false)
	if !ok {
		t.Fatal("Expected success on third candidate")
	}
	if !almostEqual(pos.X, 5.6) {
		t.Errorf("Expected x=5.6, got %v", pos.X)
	}
}

func TestPlacementSolver_AttemptLimit(t *testing.T) {
	rng := &scriptedRandom{fallback: 0.5}
	counting := &countingRandom{inner: rng}
	s := NewPlacementSolver(counting, 10)

	s.TryAt(domain.Position{X: 0, Y: 0}, 3)
	counting.calls = 0

	if _, ok := s.Place(testCategory(3), 0, false); ok {
		t.Fatal("Expected exhaustion")
	}
	if counting.calls != 10 {
		t.Errorf("Expected exactly 10 draws, got %d", counting.calls)
	}
}

func TestPlacementSolver_PairGapIsMax(t *testing.T) {
	s := NewPlacementSolver(utils.NewSeededRandom(1), 10)

	// Солнце с зазором 5 стоит в 0
	s.TryAt(domain.Position{X: 0, Y: 0}, 5)

	// Астероид с зазором 1 на расстоянии 4: его зазор мал, но зазор солнца больше
	if s.Fits(domain.Position{X: 4, Y: 0}, 1) {
		t.Error("Distance 4 < max(1,5) must be rejected")
	}
	if !s.Fits(domain.Position{X: 5, Y: 0}, 1) {
		t.Error("Distance 5 == max(1,5) must be accepted")
	}
}

func TestPlacementSolver_FlankBias(t *testing.T) {
	tests := []struct {
		name   string
		floats []float64
		wantX  float64
	}{
		// Бросок < 0.5 -> левый фланг [-7, -3]
		{"Left flank", []float64{0.2, 0.5}, -5},
		// Бросок >= 0.5 -> правый фланг [3, 7]
		{"Right flank", []float64{0.7, 0.5}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := &scriptedRandom{floats: tt.floats}
			s := NewPlacementSolver(rng, 10)
			// Кто-то уже стоит далеко, чтобы режим фланга включился
			s.TryAt(domain.Position{X: 100, Y: 0}, 0)

			pos, ok := s.Place(testCategory(3), 0, true)
			if !ok {
				t.Fatal("Flank placement failed")
			}
			if !almostEqual(pos.X, tt.wantX) {
				t.Errorf("Expected x=%v, got %v", tt.wantX, pos.X)
			}
		})
	}
}

func TestPlacementSolver_FlankIgnoredOnEmptyLayer(t *testing.T) {
	rng := &scriptedRandom{floats: []float64{0.5}}
	s := NewPlacementSolver(rng, 10)

	pos, ok := s.Place(testCategory(3), 0, true)
	if !ok || pos.X != 0 {
		t.Errorf("Empty layer must sample the full range, got %+v ok=%v", pos, ok)
	}
}

func TestPlacementSolver_ResetAndPrune(t *testing.T) {
	s := NewPlacementSolver(utils.NewSeededRandom(7), 10)
	s.TryAt(domain.Position{X: -5, Y: 10}, 1)
	s.TryAt(domain.Position{X: 5, Y: 30}, 1)

	if removed := s.Prune(20); removed != 1 {
		t.Errorf("Expected 1 pruned, got %d", removed)
	}
	if len(s.placed) != 1 || s.placed[0].pos.Y != 30 {
		t.Errorf("Unexpected positions after prune: %+v", s.placed)
	}

	s.Reset()
	if s.Len() != 0 {
		t.Errorf("Reset must clear the registry, len=%d", s.Len())
	}
}

// countingRandom считает обращения к UniformFloat.
type countingRandom struct {
	inner utils.RandomSource
	calls int
}

func (c *countingRandom) UniformFloat(min, max float64) float64 {
	c.calls++
	return c.inner.UniformFloat(min, max)
}

func (c *countingRandom) UniformInt(min, maxExclusive int) int {
	return c.inner.UniformInt(min, maxExclusive)
}

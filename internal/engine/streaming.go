package engine

import (
	"math"

	"exodus-server/internal/domain"
	"exodus-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// StreamingWindow держит контент впереди камеры и убирает его позади.
type StreamingWindow struct {
	cfg     *Config
	gen     *LayerGenerator
	factory WorldEntityFactory

	highestY float64
	cleanupY float64

	layers  []domain.Layer
	tracked map[domain.EntityHandle]domain.PlacedContent

	// onLayer вызывается после каждого сгенерированного слоя (трасса, наблюдатели)
	onLayer func(domain.Layer)
}

func NewStreamingWindow(cfg *Config, gen *LayerGenerator, factory WorldEntityFactory) *StreamingWindow {
	w := &StreamingWindow{
		cfg:     cfg,
		gen:     gen,
		factory: factory,
	}
	w.Reset()
	return w
}

// OnLayer подписывает хук на новые слои. nil отключает.
func (w *StreamingWindow) OnLayer(fn func(domain.Layer)) {
	w.onLayer = fn
}

// Reset забывает всё отслеживаемое. Сущности фабрики не трогает.
func (w *StreamingWindow) Reset() {
	w.highestY = w.cfg.Layer.InitialY - w.cfg.Layer.Height
	w.cleanupY = math.Inf(-1)
	w.layers = make([]domain.Layer, 0, w.cfg.Layer.MaxActiveLayers*2)
	w.tracked = make(map[domain.EntityHandle]domain.PlacedContent)
}

// GenerateInitial строит стартовую стопку: MaxActiveLayers слоев от InitialY.
func (w *StreamingWindow) GenerateInitial(diff domain.DifficultyState) int {
	for i := 0; i < w.cfg.Layer.MaxActiveLayers; i++ {
		w.generateAt(w.cfg.Layer.InitialY+float64(i)*w.cfg.Layer.Height, diff)
	}
	return w.cfg.Layer.MaxActiveLayers
}

// EnsureAhead догенерирует слои, пока водяной знак ниже cameraTopY + LookaheadLayers*Height.
func (w *StreamingWindow) EnsureAhead(cameraTopY float64, diff domain.DifficultyState) int {
	target := cameraTopY + w.cfg.Layer.LookaheadLayers*w.cfg.Layer.Height
	// Бесконечная или NaN камера не дает конечной цели
	if math.IsInf(target, 0) || math.IsNaN(target) {
		logger.Component("streaming").WithField("camera_top_y", cameraTopY).Warn("Non-finite camera position ignored")
		return 0
	}

	generated := 0
	for w.highestY < target {
		w.generateAt(w.highestY+w.cfg.Layer.Height, diff)
		generated++
	}
	return generated
}

// generateAt генерирует слой и ВСЕГДА двигает водяной знак, даже при досрочном выходе генератора.
func (w *StreamingWindow) generateAt(y float64, diff domain.DifficultyState) {
	layer := w.gen.Generate(y, diff)
	for _, c := range layer.Content {
		w.tracked[c.Handle] = c
	}
	w.layers = append(w.layers, layer)
	if y > w.highestY {
		w.highestY = y
	}

	if w.onLayer != nil {
		w.onLayer(layer)
	}
}

// Cleanup уничтожает всё ниже cameraBottomY - margin. Позиции берутся у фабрики (текущие).
func (w *StreamingWindow) Cleanup(cameraBottomY, margin float64) int {
	cutoff := cameraBottomY - margin
	w.cleanupY = cutoff

	destroyed := 0
	for _, tag := range domain.AllTags {
		for _, rec := range w.factory.QueryByTag(tag) {
			if rec.Pos.Y < cutoff {
				w.factory.Destroy(rec.Handle)
				delete(w.tracked, rec.Handle)
				destroyed++
			}
		}
	}

	// Отслеживаемое, которое фабрика уже потеряла
	for h, c := range w.tracked {
		if c.Pos.Y < cutoff {
			w.factory.Destroy(h)
			delete(w.tracked, h)
		}
	}

	// Слои целиком ниже отсечки больше не нужны
	kept := w.layers[:0]
	for _, l := range w.layers {
		if l.Y+w.cfg.Asteroids.JitterY >= cutoff {
			kept = append(kept, l)
		}
	}
	for i := len(kept); i < len(w.layers); i++ {
		w.layers[i] = domain.Layer{}
	}
	w.layers = kept

	pruned := w.gen.Solver().Prune(cutoff)

	logger.Component("streaming").WithFields(logrus.Fields{
		"cutoff":    cutoff,
		"destroyed": destroyed,
		"pruned":    pruned,
		"tracked":   len(w.tracked),
		"layers":    len(w.layers),
	}).Debug("Cleanup pass")
	return destroyed
}

// Forget снимает хэндл с учета (сущность уничтожена снаружи, например пулей).
func (w *StreamingWindow) Forget(h domain.EntityHandle) {
	delete(w.tracked, h)
}

func (w *StreamingWindow) HighestGeneratedY() float64 {
	return w.highestY
}

// Tracked возвращает копию отслеживаемых сущностей.
func (w *StreamingWindow) Tracked() []domain.PlacedContent {
	out := make([]domain.PlacedContent, 0, len(w.tracked))
	for _, c := range w.tracked {
		out = append(out, c)
	}
	return out
}

// Layers возвращает копию живых слоев (снизу вверх).
func (w *StreamingWindow) Layers() []domain.Layer {
	out := make([]domain.Layer, len(w.layers))
	copy(out, w.layers)
	return out
}

func (w *StreamingWindow) State() domain.StreamingState {
	// -Inf не кодируется в JSON
	lastDangerous := w.gen.LastDangerousY()
	return domain.StreamingState{
		HighestGeneratedY: w.highestY,
		LastDangerousY:    finiteOrZero(lastDangerous),
		DangerousSeen:     !math.IsInf(lastDangerous, -1),
		CleanupY:          finiteOrZero(w.cleanupY),
		TrackedLayers:     len(w.layers),
		TrackedEntities:   len(w.tracked),
	}
}

func finiteOrZero(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}

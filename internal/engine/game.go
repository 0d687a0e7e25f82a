package engine

import (
	"errors"
	"fmt"

	"exodus-server/internal/domain"
	"exodus-server/pkg/logger"
	"exodus-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

// Причины конца забега
const (
	ReasonSupernova      = "Caught by Supernova"
	ReasonHealthDepleted = "Health Depleted"
)

// CrashReason формирует причину для столкновения с телом.
func CrashReason(category domain.CategoryID) string {
	return fmt.Sprintf("Crashed into %s", category)
}

const cleanupTaskName = "cleanup"

// Dependencies - внешние коллабораторы движка. Все передаются явно, поиска по типу нет.
type Dependencies struct {
	Factory WorldEntityFactory
	Camera  CameraViewport
	Feed    ScoreFeed
	Random  utils.RandomSource
}

// GameEngine - однопоточный движок генерации слоев.
// Все методы вызываются из одной горутины (цикл сессии).
type GameEngine struct {
	cfg Config

	factory WorldEntityFactory
	camera  CameraViewport
	feed    ScoreFeed
	rng     utils.RandomSource

	curve     *DifficultyCurve
	gen       *LayerGenerator
	window    *StreamingWindow
	scheduler *TaskScheduler
	supernova *Supernova

	score      float64
	difficulty domain.DifficultyState
	ticks      uint64
	started    bool

	gameOver       bool
	gameOverReason string
	gameOverCh     chan domain.GameOverEvent
}

func NewGameEngine(cfg Config, deps Dependencies) (*GameEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	if deps.Factory == nil {
		return nil, errors.New("engine requires an entity factory")
	}
	if deps.Random == nil {
		deps.Random = utils.NewSeededRandom(cfg.Seed)
	}

	g := &GameEngine{
		cfg:        cfg,
		factory:    deps.Factory,
		camera:     deps.Camera,
		feed:       deps.Feed,
		rng:        deps.Random,
		curve:      NewDifficultyCurve(cfg),
		scheduler:  NewTaskScheduler(),
		supernova:  NewSupernova(cfg.Supernova),
		gameOverCh: make(chan domain.GameOverEvent, 1),
	}
	g.gen = NewLayerGenerator(&g.cfg, g.rng, g.factory)
	g.window = NewStreamingWindow(&g.cfg, g.gen, g.factory)
	g.difficulty = g.curve.Evaluate(0)

	// Очистка - отдельная задача с редким фиксированным шагом, первый запуск через интервал
	g.scheduler.Every(cleanupTaskName, cfg.Streaming.CleanupInterval, func() { g.Cleanup() })

	g.ensureStarted()
	return g, nil
}

// ensureStarted строит стартовую стопку слоев, как только камера готова.
func (g *GameEngine) ensureStarted() bool {
	if g.started {
		return true
	}
	if g.camera == nil || !g.camera.Ready() {
		return false
	}

	minX, maxX := g.camera.HorizontalBounds()
	g.gen.SetViewportBounds(minX, maxX)
	g.window.GenerateInitial(g.difficulty)

	playerY := 0.0
	if g.feed != nil {
		if y, ok := g.feed.PlayerY(); ok {
			playerY = y
		}
	}
	g.supernova.Reset(playerY)
	g.started = true

	logger.Component("engine").WithFields(logrus.Fields{
		"layers":    g.cfg.Layer.MaxActiveLayers,
		"watermark": g.window.HighestGeneratedY(),
		"min_x":     minX,
		"max_x":     maxX,
	}).Info("Initial layers generated")
	return true
}

// Tick - один кадр симуляции.
// Порядок важен: счет, догенерация, сложность. Генерация видит сложность прошлого тика.
func (g *GameEngine) Tick(dt float64) {
	if g.gameOver {
		return
	}
	if !g.ensureStarted() {
		return
	}
	g.ticks++

	playerY, hasPlayer := 0.0, false
	if g.feed != nil {
		playerY, hasPlayer = g.feed.PlayerY()
	}

	// 1. Счет только растет
	if hasPlayer {
		if s := playerY * g.cfg.Score.Multiplier; s > g.score {
			g.score = s
		}
	}

	// 2. Контент впереди камеры
	g.window.EnsureAhead(g.camera.TopY(), g.difficulty)

	// 3. Сложность для следующего тика
	g.difficulty = g.curve.Evaluate(g.score)

	// 4. Преследователь
	if hasPlayer && g.supernova.Update(dt, playerY) {
		g.TriggerGameOver(ReasonSupernova)
		return
	}

	// 5. Редкие задачи (очистка)
	g.scheduler.Advance(dt)
}

// Cleanup убирает контент ниже нижней границы камеры минус отступ.
func (g *GameEngine) Cleanup() int {
	if !g.started {
		return 0
	}
	return g.window.Cleanup(g.camera.BottomY(), g.CleanupMargin())
}

// CleanupMargin - отступ очистки; 0 в конфиге означает половину высоты камеры.
func (g *GameEngine) CleanupMargin() float64 {
	if g.cfg.Streaming.CleanupMargin > 0 {
		return g.cfg.Streaming.CleanupMargin
	}
	if g.camera == nil {
		return 0
	}
	return (g.camera.TopY() - g.camera.BottomY()) / 2
}

// Reset уничтожает весь контент и начинает забег заново.
func (g *GameEngine) Reset() {
	destroyed := 0
	for _, tag := range domain.AllTags {
		for _, rec := range g.factory.QueryByTag(tag) {
			g.factory.Destroy(rec.Handle)
			destroyed++
		}
	}

	g.window.Reset()
	g.gen.Reset()
	g.scheduler.Reset()

	g.score = 0
	g.difficulty = g.curve.Evaluate(0)
	g.ticks = 0
	g.started = false
	g.gameOver = false
	g.gameOverReason = ""

	// Сигнал прошлого забега никто не прочитал - выбрасываем
	select {
	case <-g.gameOverCh:
	default:
	}

	logger.Component("engine").WithField("destroyed", destroyed).Info("Engine reset")
	g.ensureStarted()
}

// AddScore начисляет внешние очки (например, за сбитый астероид).
func (g *GameEngine) AddScore(amount float64) {
	if g.gameOver || amount <= 0 {
		return
	}
	g.score += amount
}

// DestroyEntity уничтожает сущность раньше очистки и начисляет награду.
func (g *GameEngine) DestroyEntity(h domain.EntityHandle, award float64) {
	g.factory.Destroy(h)
	g.window.Forget(h)
	g.AddScore(award)
}

// TriggerGameOver завершает забег. Повторные вызовы игнорируются.
func (g *GameEngine) TriggerGameOver(reason string) {
	if g.gameOver {
		return
	}
	g.gameOver = true
	g.gameOverReason = reason
	g.supernova.Pause()

	logger.Component("engine").WithFields(logrus.Fields{
		"reason": reason,
		"score":  g.score,
		"ticks":  g.ticks,
	}).Warn("Game over")

	select {
	case g.gameOverCh <- domain.GameOverEvent{Reason: reason, Score: g.score}:
	default:
	}
}

// GameOver - канал одноразового сигнала о конце забега.
func (g *GameEngine) GameOver() <-chan domain.GameOverEvent {
	return g.gameOverCh
}

// OnLayerGenerated подписывает хук на каждый новый слой.
func (g *GameEngine) OnLayerGenerated(fn func(domain.Layer)) {
	g.window.OnLayer(fn)
}

// PauseSupernova / ResumeSupernova нужны паузе сессии.
func (g *GameEngine) PauseSupernova()  { g.supernova.Pause() }
func (g *GameEngine) ResumeSupernova() { g.supernova.Resume() }

func (g *GameEngine) Config() Config                     { return g.cfg }
func (g *GameEngine) Score() float64                     { return g.score }
func (g *GameEngine) Difficulty() domain.DifficultyState { return g.difficulty }
func (g *GameEngine) Streaming() domain.StreamingState   { return g.window.State() }
func (g *GameEngine) Layers() []domain.Layer             { return g.window.Layers() }
func (g *GameEngine) Tracked() []domain.PlacedContent    { return g.window.Tracked() }
func (g *GameEngine) SupernovaY() float64                { return g.supernova.Y() }
func (g *GameEngine) Started() bool                      { return g.started }
func (g *GameEngine) Ticks() uint64                      { return g.ticks }
func (g *GameEngine) Elapsed() float64                   { return g.scheduler.Now() }
func (g *GameEngine) IsGameOver() bool                   { return g.gameOver }
func (g *GameEngine) GameOverReason() string             { return g.gameOverReason }

// Schedule дает доступ к расписанию (отладка).
func (g *GameEngine) Schedule() []map[string]interface{} {
	return g.scheduler.DebugDump()
}

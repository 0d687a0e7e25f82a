package engine

import (
	"testing"

	"exodus-server/internal/domain"
	"exodus-server/pkg/utils"
)

type engineFixture struct {
	engine  *GameEngine
	factory *fakeFactory
	camera  *fakeCamera
	feed    *fakeFeed
}

func setupEngine(t *testing.T, cfg Config) *engineFixture {
	t.Helper()
	f := &engineFixture{
		factory: newFakeFactory(),
		camera:  newFakeCamera(0),
		feed:    &fakeFeed{present: true},
	}
	g, err := NewGameEngine(cfg, Dependencies{
		Factory: f.factory,
		Camera:  f.camera,
		Feed:    f.feed,
		Random:  utils.NewSeededRandom(cfg.Seed),
	})
	if err != nil {
		t.Fatalf("NewGameEngine failed: %v", err)
	}
	f.engine = g
	return f
}

func TestNewGameEngine_Errors(t *testing.T) {
	bad := testConfig()
	bad.Layer.Height = 0
	if _, err := NewGameEngine(bad, Dependencies{Factory: newFakeFactory()}); err == nil {
		t.Error("Expected error for zero layer height")
	}
	if _, err := NewGameEngine(testConfig(), Dependencies{}); err == nil {
		t.Error("Expected error for missing factory")
	}
}

func TestGameEngine_InitialGeneration(t *testing.T) {
	f := setupEngine(t, testConfig())

	if !f.engine.Started() {
		t.Fatal("Engine with a ready camera must start immediately")
	}
	layers := f.engine.Layers()
	if len(layers) != 10 || layers[0].Y != 10 || layers[9].Y != 100 {
		t.Fatalf("Unexpected initial stack: %d layers", len(layers))
	}
	if f.engine.Streaming().HighestGeneratedY != 100 {
		t.Errorf("Watermark: got %v", f.engine.Streaming().HighestGeneratedY)
	}
}

func TestGameEngine_WaitsForCamera(t *testing.T) {
	cfg := testConfig()
	factory := newFakeFactory()
	camera := newFakeCamera(0)
	camera.ready = false

	g, err := NewGameEngine(cfg, Dependencies{Factory: factory, Camera: camera, Feed: &fakeFeed{present: true}})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		g.Tick(0.1)
	}
	if g.Started() || len(factory.requests) != 0 || g.Ticks() != 0 {
		t.Fatal("Generation must be a no-op while the camera is not ready")
	}

	camera.ready = true
	g.Tick(0.1)
	if !g.Started() || len(g.Layers()) < 10 {
		t.Error("Engine must start once the camera is ready")
	}
}

func TestGameEngine_ScoreIsMonotonic(t *testing.T) {
	f := setupEngine(t, testConfig())

	heights := []float64{10, 50, 30, -5, 80}
	want := []float64{10, 50, 50, 50, 80}
	for i, y := range heights {
		f.feed.y = y
		f.engine.Tick(0.01)
		if f.engine.Score() != want[i] {
			t.Errorf("Step %d: score %v, want %v", i, f.engine.Score(), want[i])
		}
	}

	f.engine.AddScore(25)
	if f.engine.Score() != 105 {
		t.Errorf("AddScore: got %v, want 105", f.engine.Score())
	}
}

func TestGameEngine_DifficultyLagsOneTick(t *testing.T) {
	f := setupEngine(t, testConfig())

	var seen []float64
	f.engine.OnLayerGenerated(func(domain.Layer) {
		seen = append(seen, f.engine.Difficulty().Multiplier)
	})

	// Игрок и камера сразу высоко: счет 20000 -> множитель 2
	f.feed.y = 20000
	f.camera.centerY = 200
	f.engine.Tick(0.01)

	if len(seen) == 0 {
		t.Fatal("Expected new layers on the first tick")
	}
	for _, m := range seen {
		if m != 1 {
			t.Fatalf("Generation in the same tick must use the previous difficulty, saw %v", m)
		}
	}
	if f.engine.Difficulty().Multiplier != 2 {
		t.Errorf("Difficulty after tick: got %v, want 2", f.engine.Difficulty().Multiplier)
	}

	seen = nil
	f.camera.centerY = 300
	f.engine.Tick(0.01)
	for _, m := range seen {
		if m != 2 {
			t.Fatalf("Next tick must see the updated difficulty, saw %v", m)
		}
	}
}

func TestGameEngine_ScheduledCleanup(t *testing.T) {
	cfg := testConfig()
	cfg.Supernova.FollowSpeed = 0
	cfg.Supernova.AccelerationRate = 0
	f := setupEngine(t, cfg)

	f.feed.y = 400
	f.camera.centerY = 400

	// 4.5 единицы времени: очистки еще не было
	for i := 0; i < 45; i++ {
		f.engine.Tick(0.1)
	}
	if f.engine.Streaming().CleanupY != 0 {
		t.Fatal("Cleanup must not run before the first interval")
	}

	for i := 0; i < 10; i++ {
		f.engine.Tick(0.1)
	}

	// Низ 395, отступ = половина высоты камеры (5) -> 390
	if got := f.engine.Streaming().CleanupY; got != 390 {
		t.Fatalf("CleanupY: got %v, want 390", got)
	}
	for _, tag := range domain.AllTags {
		for _, rec := range f.factory.QueryByTag(tag) {
			if rec.Pos.Y < 390 {
				t.Errorf("Entity at %v survived cleanup", rec.Pos.Y)
			}
		}
	}
}

func TestGameEngine_SupernovaGameOver(t *testing.T) {
	f := setupEngine(t, testConfig())
	f.feed.y = 0

	for i := 0; i < 1200 && !f.engine.IsGameOver(); i++ {
		f.engine.Tick(1.0 / 60)
	}
	if !f.engine.IsGameOver() {
		t.Fatal("A motionless player must be caught")
	}

	select {
	case ev := <-f.engine.GameOver():
		if ev.Reason != ReasonSupernova {
			t.Errorf("Reason: got %q", ev.Reason)
		}
	default:
		t.Fatal("Game over signal was not delivered")
	}

	// Второй сигнал не приходит, тик больше ничего не делает
	ticks := f.engine.Ticks()
	f.engine.TriggerGameOver("again")
	f.engine.Tick(1)
	select {
	case ev := <-f.engine.GameOver():
		t.Errorf("Unexpected second signal: %+v", ev)
	default:
	}
	if f.engine.Ticks() != ticks {
		t.Error("Tick must be a no-op after game over")
	}
}

func TestGameEngine_Reset(t *testing.T) {
	f := setupEngine(t, testConfig())

	f.feed.y = 300
	f.camera.centerY = 300
	f.engine.Tick(0.1)
	f.engine.TriggerGameOver(CrashReason(domain.CategoryPlanet))

	before := make(map[domain.EntityHandle]bool)
	for h := range f.factory.entities {
		before[h] = true
	}
	f.engine.Reset()

	if f.engine.IsGameOver() || f.engine.Score() != 0 {
		t.Fatalf("Reset must clear game over and score: over=%v score=%v", f.engine.IsGameOver(), f.engine.Score())
	}
	select {
	case <-f.engine.GameOver():
		t.Error("Stale game over signal must be drained")
	default:
	}
	if f.engine.Difficulty().Multiplier != 1 {
		t.Errorf("Difficulty must reset, got %v", f.engine.Difficulty().Multiplier)
	}

	// Ни одна сущность прошлого забега не пережила сброс
	for h := range f.factory.entities {
		if before[h] {
			t.Errorf("Entity %v survived reset", h)
		}
	}
	if got := len(f.factory.entities); got != len(f.engine.Tracked()) {
		t.Errorf("Factory has %d entities, engine tracks %d", got, len(f.engine.Tracked()))
	}
	if f.engine.Streaming().HighestGeneratedY != 100 {
		t.Errorf("Watermark after reset: got %v, want 100", f.engine.Streaming().HighestGeneratedY)
	}
}

func TestGameEngine_DestroyEntity(t *testing.T) {
	f := setupEngine(t, testConfig())

	tracked := f.engine.Tracked()
	if len(tracked) == 0 {
		t.Skip("Seed produced an empty initial stack")
	}
	target := tracked[0].Handle

	f.engine.DestroyEntity(target, 10)
	if _, ok := f.factory.entities[target]; ok {
		t.Error("Entity must be destroyed in the factory")
	}
	for _, c := range f.engine.Tracked() {
		if c.Handle == target {
			t.Error("Entity must be forgotten by the engine")
		}
	}
	if f.engine.Score() != 10 {
		t.Errorf("Award: got %v, want 10", f.engine.Score())
	}
}

package session

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"exodus-server/internal/agent"
	"exodus-server/internal/domain"
	"exodus-server/internal/engine"
	"exodus-server/internal/network"
	"exodus-server/internal/session/handlers"
	"exodus-server/internal/world"
	"exodus-server/pkg/api"
	"exodus-server/pkg/logger"
	"exodus-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

// ObserverCommand - команда вместе с тем, кто её прислал
type ObserverCommand struct {
	ObserverID string
	Cmd        api.ClientCommand
}

// Session - один бесконечный забег: автопилот, камера, мир и движок генерации.
// Всё состояние принадлежит горутине Run; снаружи доступны только снимки под мьютексом.
type Session struct {
	cfg engine.Config
	hub *network.Broadcaster

	rng      *utils.SeededRandom
	registry *world.Registry
	pilot    *agent.Pilot
	camera   *FollowCamera
	engine   *engine.GameEngine

	handlers map[domain.CommandType]handlers.HandlerFunc
	commands chan ObserverCommand

	run       int
	seed      int64
	startedAt time.Time
	paused    bool
	restartIn float64 // Секунды до автоперезапуска; <0 - не запланирован
	ticks     uint64

	spawned   uint64
	destroyed uint64

	trace     *domain.LayerTrace
	traceSink func(*domain.LayerTrace)
	logs      []api.LogEntry

	// Снимки для чтения из других горутин (HTTP)
	mu       sync.RWMutex
	last     api.ServerResponse
	debug    DebugState
	lastLays []api.LayerView
}

// DebugState - сводка для /debug/state.
type DebugState struct {
	Run           int                      `json:"run"`
	Seed          int64                    `json:"seed"`
	Ticks         uint64                   `json:"ticks"`
	Elapsed       float64                  `json:"elapsed"`
	Paused        bool                     `json:"paused"`
	GameOver      bool                     `json:"gameOver"`
	Reason        string                   `json:"reason,omitempty"`
	Score         float64                  `json:"score"`
	Difficulty    domain.DifficultyState   `json:"difficulty"`
	Streaming     domain.StreamingState    `json:"streaming"`
	Entities      int                      `json:"entities"`
	Spawned       uint64                   `json:"spawned"`
	Destroyed     uint64                   `json:"destroyed"`
	Observers     int                      `json:"observers"`
	DroppedFrames uint64                   `json:"droppedFrames"`
	Schedule      []map[string]interface{} `json:"schedule"`
}

// New собирает сессию. Первый забег начинается сразу с сидом из конфига.
func New(cfg engine.Config, hub *network.Broadcaster) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if hub == nil {
		hub = network.NewBroadcaster()
	}

	s := &Session{
		cfg:       cfg,
		hub:       hub,
		rng:       utils.NewSeededRandom(cfg.Seed),
		registry:  world.NewRegistry(0),
		handlers:  handlers.Registry(),
		commands:  make(chan ObserverCommand, 100),
		restartIn: -1,
	}
	s.registry.OnEvent(s.onWorldEvent)

	s.pilot = agent.NewPilot(cfg.Pilot, s.registry)
	s.camera = NewFollowCamera(cfg.Camera, s.pilot)

	minX, maxX := s.camera.HorizontalBounds()
	s.pilot.SetBounds(minX+cfg.Placement.SpawnBuffer, maxX-cfg.Placement.SpawnBuffer)

	// Камера еще не привязана: движок подождет до первого Snap
	eng, err := engine.NewGameEngine(cfg, engine.Dependencies{
		Factory: s.registry,
		Camera:  s.camera,
		Feed:    s.pilot,
		Random:  s.rng,
	})
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	s.engine = eng
	s.engine.OnLayerGenerated(s.onLayer)

	s.Restart(cfg.Seed)
	return s, nil
}

// Run крутит фиксированный тик, пока не отменят контекст.
func (s *Session) Run(ctx context.Context) {
	dt := 1.0 / float64(s.cfg.Session.TickRate)
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.Session.TickRate))
	defer ticker.Stop()

	logger.Component("session").WithFields(logrus.Fields{
		"tick_rate": s.cfg.Session.TickRate,
		"seed":      s.seed,
	}).Info("Session loop started")

	for {
		select {
		case <-ctx.Done():
			logger.Component("session").WithField("run", s.run).Info("Session loop stopped")
			return

		case oc := <-s.commands:
			if err := s.HandleCommand(oc.ObserverID, oc.Cmd); err != nil {
				s.replyError(oc.ObserverID, err)
			}

		case <-ticker.C:
			s.Step(dt)
		}
	}
}

// Submit ставит команду в очередь. false - очередь переполнена.
func (s *Session) Submit(observerID string, cmd api.ClientCommand) bool {
	select {
	case s.commands <- ObserverCommand{ObserverID: observerID, Cmd: cmd}:
		return true
	default:
		return false
	}
}

// Step - один тик сессии (вызывается из Run или напрямую в тестах).
func (s *Session) Step(dt float64) {
	switch {
	case s.paused:
		// Мир стоит, но наблюдатели продолжают получать снимки
	case s.engine.IsGameOver():
		if s.restartIn >= 0 {
			s.restartIn -= dt
			if s.restartIn < 0 {
				s.Restart(s.RandomSeed())
				return
			}
		}
	default:
		s.pilot.Update(dt)
		s.camera.Update(dt)
		s.engine.Tick(dt)
	}

	// Сигнал конца забега
	select {
	case ev := <-s.engine.GameOver():
		s.onGameOver(ev)
	default:
	}

	s.ticks++
	if s.ticks%uint64(s.cfg.Session.PublishEvery) == 0 {
		s.publish()
	}
}

// OnRunFinished подписывает приемник ленты: он получает ленту каждого забега перед перезапуском.
func (s *Session) OnRunFinished(fn func(*domain.LayerTrace)) {
	s.traceSink = fn
}

// Restart начинает новый забег с указанным сидом.
func (s *Session) Restart(seed int64) {
	if s.traceSink != nil && s.trace != nil && len(s.trace.Layers) > 0 {
		s.traceSink(s.trace)
	}

	s.run++
	s.seed = seed
	s.startedAt = time.Now()
	s.paused = false
	s.restartIn = -1
	s.ticks = 0
	s.rng.Reseed(seed)

	// Лента должна существовать до генерации стартовых слоев
	s.trace = &domain.LayerTrace{Seed: seed, Timestamp: s.startedAt.Unix(), Run: s.run}

	s.pilot.Reset()
	s.camera.Snap()
	s.engine.Reset()

	s.addLog(fmt.Sprintf("Run %d started (seed %d)", s.run, seed), "INFO")
	logger.Component("session").WithFields(logrus.Fields{
		"run":  s.run,
		"seed": seed,
	}).Info("Run started")

	s.hub.Broadcast(api.ServerResponse{Type: api.MsgReset, Run: s.run, Seed: seed})
	s.publish()
}

// SetPaused ставит или снимает паузу. true - состояние изменилось.
func (s *Session) SetPaused(paused bool) bool {
	if s.paused == paused {
		return false
	}
	s.paused = paused
	if paused {
		s.engine.PauseSupernova()
	} else if !s.engine.IsGameOver() {
		s.engine.ResumeSupernova()
	}
	return true
}

// RandomSeed - следующий сид из текущей последовательности (детерминирован для сида запуска).
func (s *Session) RandomSeed() int64 {
	return int64(s.rng.UniformInt(1, math.MaxInt32))
}

// HandleCommand выполняет команду наблюдателя синхронно.
func (s *Session) HandleCommand(observerID string, cmd api.ClientCommand) error {
	action := domain.ParseCommand(cmd.Action)
	handler, ok := s.handlers[action]
	if !ok {
		return fmt.Errorf("unknown action: %q", cmd.Action)
	}

	ctx := handlers.Context{Session: s, ObserverID: observerID}
	result, err := handler(ctx, cmd.Payload)
	if err != nil {
		logger.Component("session").WithFields(logrus.Fields{
			"observer": observerID,
			"action":   action.String(),
		}).WithError(err).Warn("Command rejected")
		return err
	}

	if result.Msg != "" {
		s.addLog(result.Msg, result.MsgType)
	}
	if result.Reply != nil {
		s.hub.SendTo(observerID, *result.Reply)
	}
	return nil
}

func (s *Session) replyError(observerID string, err error) {
	s.hub.SendTo(observerID, api.ServerResponse{
		Type: api.MsgError,
		Run:  s.run,
		Logs: []api.LogEntry{newLogEntry(err.Error(), "ERROR")},
	})
}

func (s *Session) onGameOver(ev domain.GameOverEvent) {
	s.pilot.Stop()
	s.addLog(fmt.Sprintf("GAME OVER - %s. Final score: %d", ev.Reason, int64(math.Floor(ev.Score))), "WARN")

	if delay := s.cfg.AutoRestartDelay(); delay > 0 {
		s.restartIn = delay.Seconds()
	}

	s.hub.Broadcast(api.ServerResponse{
		Type:     api.MsgGameOver,
		Tick:     s.engine.Ticks(),
		Run:      s.run,
		Seed:     s.seed,
		Score:    ev.Score,
		GameOver: &api.GameOverView{Reason: ev.Reason, Score: ev.Score},
	})
}

func (s *Session) onLayer(l domain.Layer) {
	if s.trace != nil {
		s.trace.Append(l)
	}
	if !l.Dangerous {
		return
	}
	for _, c := range l.Content {
		if c.Category == domain.CategorySun || c.Category == domain.CategoryBlackHole {
			s.addLog(fmt.Sprintf("%s detected at height %.0f", c.Category, l.Y), "INFO")
		}
	}
}

func (s *Session) onWorldEvent(ev domain.WorldEvent) {
	switch ev.Type {
	case domain.EventSpawned:
		s.spawned++
	case domain.EventDestroyed:
		s.destroyed++
	}
}

func (s *Session) addLog(text, typ string) {
	s.logs = append(s.logs, newLogEntry(text, typ))
}

func newLogEntry(text, typ string) api.LogEntry {
	return api.LogEntry{
		ID:        utils.GenerateID(),
		Text:      text,
		Type:      typ,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Trace возвращает ленту текущего забега. Вызывать после остановки Run.
func (s *Session) Trace() *domain.LayerTrace {
	return s.trace
}

// Engine отдает движок (только для горутины сессии и тестов).
func (s *Session) Engine() *engine.GameEngine {
	return s.engine
}

func (s *Session) Config() engine.Config {
	return s.cfg
}

func (s *Session) Hub() *network.Broadcaster {
	return s.hub
}

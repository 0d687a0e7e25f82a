package session

import (
	"math"

	"exodus-server/internal/domain"
	"exodus-server/pkg/api"
)

// lookAbove - насколько выше камеры включать сущности в снимок.
const lookAbove = 5.0

// publish рассылает снимок всем наблюдателям и обновляет копии для HTTP.
func (s *Session) publish() {
	snap := s.buildSnapshot(false)

	// Журнал уходит один раз, с ближайшей рассылкой
	snap.Logs = s.logs
	s.logs = nil

	s.hub.Broadcast(snap)
	s.storeDebug(snap)
}

// Snapshot - личный снимок по команде SNAPSHOT. Журнал не трогает.
func (s *Session) Snapshot(includeLayers bool) api.ServerResponse {
	return s.buildSnapshot(includeLayers)
}

func (s *Session) buildSnapshot(includeLayers bool) api.ServerResponse {
	eng := s.engine
	pos := s.pilot.Position()
	minX, maxX := s.camera.HorizontalBounds()

	resp := api.ServerResponse{
		Type:   api.MsgSnapshot,
		Tick:   eng.Ticks(),
		Time:   eng.Elapsed(),
		Run:    s.run,
		Seed:   s.seed,
		Score:  eng.Score(),
		Paused: s.paused,
		Pilot: &api.PilotView{
			X:      pos.X,
			Y:      pos.Y,
			Speed:  s.pilot.Speed(),
			Steer:  s.pilot.Steer(),
			Active: s.pilot.Active(),
		},
		Camera: &api.CameraView{
			Y:       s.camera.Y(),
			TopY:    s.camera.TopY(),
			BottomY: s.camera.BottomY(),
			MinX:    minX,
			MaxX:    maxX,
		},
		Supernova: &api.SupernovaView{
			Y:        eng.SupernovaY(),
			Distance: math.Max(0, pos.Y-eng.SupernovaY()),
		},
		Difficulty: difficultyView(eng.Difficulty()),
		Streaming:  streamingView(eng.Streaming()),
	}

	if eng.IsGameOver() {
		resp.GameOver = &api.GameOverView{Reason: eng.GameOverReason(), Score: eng.Score()}
	}

	// 1. Сущности в кадре и немного выше
	for _, e := range s.registry.QueryRange(s.camera.BottomY(), s.camera.TopY()+lookAbove) {
		resp.Entities = append(resp.Entities, api.EntityView{
			Handle:   e.Handle.String(),
			Category: e.Category.String(),
			Variant:  e.Variant,
			X:        e.Pos.X,
			Y:        e.Pos.Y,
			Rotation: e.Rotation,
			LayerY:   layerY(e.Layer, s.cfg.Layer.Height, s.cfg.Layer.InitialY),
		})
	}

	// 2. Слои - только по запросу
	if includeLayers {
		resp.Layers = layerViews(eng.Layers())
	}
	return resp
}

func (s *Session) storeDebug(snap api.ServerResponse) {
	eng := s.engine
	state := DebugState{
		Run:           s.run,
		Seed:          s.seed,
		Ticks:         eng.Ticks(),
		Elapsed:       eng.Elapsed(),
		Paused:        s.paused,
		GameOver:      eng.IsGameOver(),
		Reason:        eng.GameOverReason(),
		Score:         eng.Score(),
		Difficulty:    eng.Difficulty(),
		Streaming:     eng.Streaming(),
		Entities:      s.registry.Count(),
		Spawned:       s.spawned,
		Destroyed:     s.destroyed,
		Observers:     s.hub.SubscriberCount(),
		DroppedFrames: s.hub.Dropped(),
		Schedule:      eng.Schedule(),
	}
	layers := layerViews(eng.Layers())

	s.mu.Lock()
	s.last = snap
	s.debug = state
	s.lastLays = layers
	s.mu.Unlock()
}

// LastSnapshot - последняя разосланная картинка (безопасно из любой горутины).
func (s *Session) LastSnapshot() api.ServerResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

func (s *Session) DebugState() DebugState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.debug
}

func (s *Session) DebugLayers() []api.LayerView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]api.LayerView, len(s.lastLays))
	copy(out, s.lastLays)
	return out
}

func difficultyView(d domain.DifficultyState) *api.DifficultyView {
	return &api.DifficultyView{
		Multiplier:        d.Multiplier,
		SunChance:         d.SunChance,
		BlackHoleChance:   d.BlackHoleChance,
		AsteroidChance:    d.AsteroidChance,
		SpacingMultiplier: d.SpacingMultiplier,
		MaxBodiesPerLayer: d.MaxBodiesPerLayer,
	}
}

func streamingView(st domain.StreamingState) *api.StreamingView {
	return &api.StreamingView{
		HighestGeneratedY: st.HighestGeneratedY,
		LastDangerousY:    st.LastDangerousY,
		CleanupY:          st.CleanupY,
		TrackedLayers:     st.TrackedLayers,
		TrackedEntities:   st.TrackedEntities,
	}
}

func layerViews(layers []domain.Layer) []api.LayerView {
	out := make([]api.LayerView, 0, len(layers))
	for _, l := range layers {
		counts := make(map[string]int)
		for _, c := range l.Content {
			counts[c.Category.String()]++
		}
		out = append(out, api.LayerView{
			Index:     l.Index,
			Y:         l.Y,
			Dangerous: l.Dangerous,
			Counts:    counts,
		})
	}
	return out
}

// layerY восстанавливает высоту слоя по его индексу.
func layerY(index int, height, initialY float64) float64 {
	return initialY + float64(index)*height
}

package agent

import (
	"math"

	"exodus-server/internal/domain"
	"exodus-server/internal/engine"
	"exodus-server/internal/world"
)

// Radar - то, что автопилот видит впереди. *world.Registry подходит напрямую.
type Radar interface {
	QueryRange(minY, maxY float64) []world.Entity
}

// Pilot представляет собой безголовый корабль (Headless Agent).
// Набирает высоту с растущей скоростью и уворачивается от ближайшей угрозы впереди.
// Для движка это ScoreFeed: высота корабля и есть счет.
//
// Жизненный цикл:
//  1. NewPilot -> Reset ставит корабль на StartY.
//  2. Update вызывается циклом сессии каждый тик.
//  3. Stop при конце забега: корабль замирает, PlayerY продолжает отдавать высоту.
type Pilot struct {
	cfg   engine.PilotConfig
	radar Radar

	minX, maxX float64

	pos    domain.Position
	speed  float64
	velY   float64
	steer  float64
	active bool
}

func NewPilot(cfg engine.PilotConfig, radar Radar) *Pilot {
	p := &Pilot{cfg: cfg, radar: radar, minX: -7, maxX: 7}
	p.Reset()
	return p
}

// SetBounds ограничивает горизонтальное движение (обычно - видимая ширина минус буфер).
func (p *Pilot) SetBounds(minX, maxX float64) {
	if maxX <= minX {
		return
	}
	p.minX, p.maxX = minX, maxX
	p.pos.X = clamp(p.pos.X, minX, maxX)
}

func (p *Pilot) Reset() {
	p.pos = domain.Position{X: 0, Y: p.cfg.StartY}
	p.speed = p.cfg.ClimbSpeed
	p.velY = 0
	p.steer = 0
	p.active = true
}

func (p *Pilot) Stop() {
	p.active = false
	p.velY = 0
	p.steer = 0
}

// Update - один тик полета.
func (p *Pilot) Update(dt float64) {
	if !p.active || dt <= 0 {
		return
	}

	// 1. Разгон
	p.speed += p.cfg.ClimbAcceleration * dt
	if p.cfg.MaxClimbSpeed > 0 && p.speed > p.cfg.MaxClimbSpeed {
		p.speed = p.cfg.MaxClimbSpeed
	}

	// 2. Куда рулить
	p.steer = p.decideSteer()

	// 3. Движение
	p.pos.X = clamp(p.pos.X+p.steer*p.cfg.LateralSpeed*dt, p.minX, p.maxX)
	p.pos.Y += p.speed * dt
	p.velY = p.speed
}

// decideSteer возвращает направление в [-1, 1].
func (p *Pilot) decideSteer() float64 {
	threat, found := p.nearestThreat()
	if !found {
		// Угрозы нет - мягко возвращаемся к центру
		if p.maxX == 0 {
			return 0
		}
		return clamp(-p.pos.X/p.maxX, -0.5, 0.5)
	}

	dx := p.pos.X - threat.Pos.X
	dir := 1.0
	switch {
	case dx < 0:
		dir = -1
	case dx == 0 && p.pos.X > 0:
		dir = -1
	}

	// Прижаты к краю - уходим в другую сторону
	if dir < 0 && p.pos.X <= p.minX {
		dir = 1
	}
	if dir > 0 && p.pos.X >= p.maxX {
		dir = -1
	}
	return dir
}

// nearestThreat - ближайшая по вертикали сущность впереди, которая мешает пролететь.
func (p *Pilot) nearestThreat() (world.Entity, bool) {
	if p.radar == nil {
		return world.Entity{}, false
	}

	for _, e := range p.radar.QueryRange(p.pos.Y, p.pos.Y+p.cfg.LookAhead) {
		if math.Abs(e.Pos.X-p.pos.X) < p.avoidRadius(e.Category) {
			return e, true // QueryRange отсортирован по Y
		}
	}
	return world.Entity{}, false
}

func (p *Pilot) avoidRadius(c domain.CategoryID) float64 {
	switch c {
	case domain.CategorySun, domain.CategoryBlackHole:
		return p.cfg.AvoidRadius * 1.5
	case domain.CategoryAsteroid:
		return p.cfg.AvoidRadius * 0.5
	}
	return p.cfg.AvoidRadius
}

// PlayerY реализует engine.ScoreFeed.
func (p *Pilot) PlayerY() (float64, bool) {
	return p.pos.Y, true
}

func (p *Pilot) Position() domain.Position { return p.pos }
func (p *Pilot) Speed() float64            { return p.speed }
func (p *Pilot) VelocityY() float64        { return p.velY }
func (p *Pilot) Steer() float64            { return p.steer }
func (p *Pilot) Active() bool              { return p.active }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

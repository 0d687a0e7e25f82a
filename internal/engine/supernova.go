package engine

import "math"

// Supernova - преследователь снизу. Двигается только по Y, скорость растет со временем.
type Supernova struct {
	cfg SupernovaConfig

	y       float64
	elapsed float64
	speed   float64
	paused  bool
	placed  bool
}

func NewSupernova(cfg SupernovaConfig) *Supernova {
	return &Supernova{cfg: cfg, speed: cfg.FollowSpeed}
}

// Reset ставит сверхновую на InitialDistance ниже игрока и обнуляет разгон.
func (s *Supernova) Reset(playerY float64) {
	s.y = playerY - s.cfg.InitialDistance
	s.elapsed = 0
	s.speed = s.cfg.FollowSpeed
	s.paused = false
	s.placed = true
}

// Update продвигает сверхновую к игроку. true - игрок пойман.
func (s *Supernova) Update(dt, playerY float64) bool {
	if !s.placed {
		s.Reset(playerY)
	}
	if s.paused || dt <= 0 {
		return false
	}

	s.elapsed += dt
	s.speed = s.cfg.FollowSpeed + s.cfg.AccelerationRate*s.elapsed
	s.y = moveTowards(s.y, playerY, s.speed*dt)

	return math.Abs(playerY-s.y) <= s.cfg.CatchDistance
}

func (s *Supernova) Pause()  { s.paused = true }
func (s *Supernova) Resume() { s.paused = false }

func (s *Supernova) Paused() bool     { return s.paused }
func (s *Supernova) Y() float64       { return s.y }
func (s *Supernova) Speed() float64   { return s.speed }
func (s *Supernova) Elapsed() float64 { return s.elapsed }

func moveTowards(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}

package session

import (
	"exodus-server/internal/domain"
	"exodus-server/internal/engine"
)

// Target - за кем следует камера.
type Target interface {
	Position() domain.Position
	VelocityY() float64
}

// FollowCamera - ортографическая камера, которая плавно следует за целью по Y.
// Реализует engine.CameraViewport. X камеры всегда 0.
type FollowCamera struct {
	cfg    engine.CameraConfig
	target Target

	y        float64
	velocity float64
	ready    bool
}

func NewFollowCamera(cfg engine.CameraConfig, target Target) *FollowCamera {
	return &FollowCamera{cfg: cfg, target: target}
}

// Snap ставит камеру прямо на цель. До первого Snap камера не готова.
func (c *FollowCamera) Snap() {
	if c.target == nil {
		return
	}
	c.y = c.targetY()
	c.velocity = 0
	c.ready = true
}

// Detach отвязывает камеру: движок перестает генерировать, пока не будет Snap.
func (c *FollowCamera) Detach() {
	c.ready = false
}

// Update - один кадр сглаженного следования.
func (c *FollowCamera) Update(dt float64) {
	if !c.ready || c.target == nil || dt <= 0 {
		return
	}

	speed := c.cfg.SmoothSpeed
	if c.target.VelocityY() < 0 {
		// При падении камера догоняет быстрее
		speed *= c.cfg.FallSpeedMultiplier
	}
	if speed <= 0 {
		c.y = c.targetY()
		return
	}

	c.y, c.velocity = smoothDamp(c.y, c.targetY(), c.velocity, 1/speed, dt)
}

// targetY - точка, куда стремится камера: выше цели при подъеме, ниже - иначе, но не ниже MinY.
func (c *FollowCamera) targetY() float64 {
	offset := c.cfg.DownwardOffset
	if c.target.VelocityY() > 0 {
		offset = c.cfg.UpwardOffset
	}
	y := c.target.Position().Y + offset
	if y < c.cfg.MinY {
		y = c.cfg.MinY
	}
	return y
}

func (c *FollowCamera) Ready() bool { return c.ready && c.target != nil }
func (c *FollowCamera) Y() float64  { return c.y }

func (c *FollowCamera) TopY() float64 {
	return c.y + c.cfg.OrthographicSize
}

func (c *FollowCamera) BottomY() float64 {
	return c.y - c.cfg.OrthographicSize
}

// HorizontalBounds - видимая ширина: половина высоты * аспект.
func (c *FollowCamera) HorizontalBounds() (float64, float64) {
	extent := c.cfg.OrthographicSize * c.cfg.Aspect
	return -extent, extent
}

// smoothDamp - критически демпфированная пружина, без перелета через цель.
func smoothDamp(current, target, velocity, smoothTime, dt float64) (float64, float64) {
	if smoothTime < 0.0001 {
		smoothTime = 0.0001
	}
	omega := 2 / smoothTime
	x := omega * dt
	exp := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := current - target
	temp := (velocity + omega*change) * dt
	velocity = (velocity - omega*temp) * exp
	output := target + (change+temp)*exp

	if (target-current > 0) == (output > target) {
		output = target
		velocity = (output - target) / dt
	}
	return output, velocity
}

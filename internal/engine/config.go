package engine

import (
	"errors"
	"fmt"
	"os"
	"time"

	"exodus-server/internal/domain"

	"gopkg.in/yaml.v3"
)

// CategoryConfig - настройки одного класса контента.
type CategoryConfig struct {
	Variants    []string `yaml:"variants" json:"variants"`
	SpawnChance float64  `yaml:"spawn_chance" json:"spawnChance"`
	// ChanceCap - потолок шанса после умножения на сложность (только для эксклюзивных).
	ChanceCap float64 `yaml:"chance_cap,omitempty" json:"chanceCap,omitempty"`
	MinX      float64 `yaml:"min_x" json:"minX"`
	MaxX      float64 `yaml:"max_x" json:"maxX"`
	MinGap    float64 `yaml:"min_gap" json:"minGap"`
	Exclusive bool    `yaml:"exclusive" json:"exclusive"`
}

type CategoriesConfig struct {
	Moon      CategoryConfig `yaml:"moon" json:"moon"`
	Planet    CategoryConfig `yaml:"planet" json:"planet"`
	Sun       CategoryConfig `yaml:"sun" json:"sun"`
	BlackHole CategoryConfig `yaml:"black_hole" json:"blackHole"`
	Asteroid  CategoryConfig `yaml:"asteroid" json:"asteroid"`
}

type LayerConfig struct {
	Height          float64 `yaml:"height" json:"height"`
	InitialY        float64 `yaml:"initial_y" json:"initialY"`
	MaxActiveLayers int     `yaml:"max_active_layers" json:"maxActiveLayers"`
	// MinDangerousSpacing - минимальная дистанция между опасными слоями, в высотах слоя.
	MinDangerousSpacing float64 `yaml:"min_dangerous_spacing" json:"minDangerousSpacing"`
	// LookaheadLayers - на сколько слоев выше камеры держать сгенерированный контент.
	LookaheadLayers float64 `yaml:"lookahead_layers" json:"lookaheadLayers"`
}

type DifficultyConfig struct {
	IncreaseRate  float64 `yaml:"increase_rate" json:"increaseRate"`
	MaxMultiplier float64 `yaml:"max_multiplier" json:"maxMultiplier"`
	ScorePerStep  float64 `yaml:"score_per_step" json:"scorePerStep"`
	SpacingFloor  float64 `yaml:"spacing_floor" json:"spacingFloor"`
	SpacingSlope  float64 `yaml:"spacing_slope" json:"spacingSlope"`
	BaseBodies    int     `yaml:"base_bodies" json:"baseBodies"`
}

type ScoreConfig struct {
	Multiplier float64 `yaml:"multiplier" json:"multiplier"`
}

type StreamingConfig struct {
	// CleanupInterval в единицах игрового времени (секунды симуляции).
	CleanupInterval float64 `yaml:"cleanup_interval" json:"cleanupInterval"`
	// CleanupMargin: 0 = половина высоты камеры.
	CleanupMargin float64 `yaml:"cleanup_margin" json:"cleanupMargin"`
}

type AsteroidClusterConfig struct {
	MinCount    int     `yaml:"min_count" json:"minCount"`
	MaxCount    int     `yaml:"max_count" json:"maxCount"` // Не включительно
	EdgeMargin  float64 `yaml:"edge_margin" json:"edgeMargin"`
	JitterY     float64 `yaml:"jitter_y" json:"jitterY"`
	MaxRotation float64 `yaml:"max_rotation" json:"maxRotation"`
}

type PlacementConfig struct {
	MaxAttempts          int     `yaml:"max_attempts" json:"maxAttempts"`
	SpawnBuffer          float64 `yaml:"spawn_buffer" json:"spawnBuffer"`
	FallbackPlanetChance float64 `yaml:"fallback_planet_chance" json:"fallbackPlanetChance"`
}

type CameraConfig struct {
	OrthographicSize    float64 `yaml:"orthographic_size" json:"orthographicSize"`
	Aspect              float64 `yaml:"aspect" json:"aspect"`
	UpwardOffset        float64 `yaml:"upward_offset" json:"upwardOffset"`
	DownwardOffset      float64 `yaml:"downward_offset" json:"downwardOffset"`
	SmoothSpeed         float64 `yaml:"smooth_speed" json:"smoothSpeed"`
	FallSpeedMultiplier float64 `yaml:"fall_speed_multiplier" json:"fallSpeedMultiplier"`
	MinY                float64 `yaml:"min_y" json:"minY"`
}

type SupernovaConfig struct {
	FollowSpeed      float64 `yaml:"follow_speed" json:"followSpeed"`
	AccelerationRate float64 `yaml:"acceleration_rate" json:"accelerationRate"`
	InitialDistance  float64 `yaml:"initial_distance" json:"initialDistance"`
	CatchDistance    float64 `yaml:"catch_distance" json:"catchDistance"`
}

type PilotConfig struct {
	StartY            float64 `yaml:"start_y" json:"startY"`
	ClimbSpeed        float64 `yaml:"climb_speed" json:"climbSpeed"`
	ClimbAcceleration float64 `yaml:"climb_acceleration" json:"climbAcceleration"`
	MaxClimbSpeed     float64 `yaml:"max_climb_speed" json:"maxClimbSpeed"`
	LateralSpeed      float64 `yaml:"lateral_speed" json:"lateralSpeed"`
	LookAhead         float64 `yaml:"look_ahead" json:"lookAhead"`
	AvoidRadius       float64 `yaml:"avoid_radius" json:"avoidRadius"`
}

type SessionConfig struct {
	TickRate     int    `yaml:"tick_rate" json:"tickRate"` // Тиков в секунду
	AutoRestart  string `yaml:"auto_restart" json:"autoRestart"`
	PublishEvery int    `yaml:"publish_every" json:"publishEvery"` // Снимок каждые N тиков
}

// Config хранит все параметры движка. Значения по умолчанию - NewConfig.
type Config struct {
	// Seed - зерно генерации. 0 в файле означает "взять из флага или времени".
	Seed int64 `yaml:"seed" json:"seed"`

	Categories CategoriesConfig      `yaml:"categories" json:"categories"`
	Layer      LayerConfig           `yaml:"layer" json:"layer"`
	Difficulty DifficultyConfig      `yaml:"difficulty" json:"difficulty"`
	Score      ScoreConfig           `yaml:"score" json:"score"`
	Streaming  StreamingConfig       `yaml:"streaming" json:"streaming"`
	Asteroids  AsteroidClusterConfig `yaml:"asteroids" json:"asteroids"`
	Placement  PlacementConfig       `yaml:"placement" json:"placement"`
	Camera     CameraConfig          `yaml:"camera" json:"camera"`
	Supernova  SupernovaConfig       `yaml:"supernova" json:"supernova"`
	Pilot      PilotConfig           `yaml:"pilot" json:"pilot"`
	Session    SessionConfig         `yaml:"session" json:"session"`
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed: time.Now().UnixNano(),
		Categories: CategoriesConfig{
			Moon: CategoryConfig{
				Variants:    []string{"moon_grey", "moon_ice"},
				SpawnChance: 0.4,
				MinX:        -7, MaxX: 7,
				MinGap: 3,
			},
			Planet: CategoryConfig{
				Variants:    []string{"planet_rocky", "planet_gas", "planet_ringed"},
				SpawnChance: 0.3,
				MinX:        -7, MaxX: 7,
				MinGap: 4,
			},
			Sun: CategoryConfig{
				Variants:    []string{"sun_yellow", "sun_red_giant"},
				SpawnChance: 0.15,
				ChanceCap:   0.25,
				MinX:        -7, MaxX: 7,
				MinGap:    5,
				Exclusive: true,
			},
			BlackHole: CategoryConfig{
				Variants:    []string{"black_hole"},
				SpawnChance: 0.05,
				ChanceCap:   0.10,
				MinX:        -7, MaxX: 7,
				MinGap:    5,
				Exclusive: true,
			},
			Asteroid: CategoryConfig{
				Variants:    []string{"asteroid_small", "asteroid_medium", "asteroid_large"},
				SpawnChance: 0.8,
				MinX:        -7, MaxX: 7,
				MinGap: 1.5,
			},
		},
		Layer: LayerConfig{
			Height:              10,
			InitialY:            10,
			MaxActiveLayers:     10,
			MinDangerousSpacing: 3,
			LookaheadLayers:     2,
		},
		Difficulty: DifficultyConfig{
			IncreaseRate:  0.1,
			MaxMultiplier: 2,
			ScorePerStep:  1000,
			SpacingFloor:  0.7,
			SpacingSlope:  0.15,
			BaseBodies:    2,
		},
		Score:     ScoreConfig{Multiplier: 1},
		Streaming: StreamingConfig{CleanupInterval: 5},
		Asteroids: AsteroidClusterConfig{
			MinCount:    3,
			MaxCount:    7,
			EdgeMargin:  1,
			JitterY:     1,
			MaxRotation: 360,
		},
		Placement: PlacementConfig{
			MaxAttempts:          10,
			SpawnBuffer:          1,
			FallbackPlanetChance: 0.5,
		},
		Camera: CameraConfig{
			OrthographicSize:    5,
			Aspect:              1.6,
			UpwardOffset:        3,
			DownwardOffset:      1,
			SmoothSpeed:         3,
			FallSpeedMultiplier: 1.8,
		},
		Supernova: SupernovaConfig{
			FollowSpeed:      2,
			AccelerationRate: 0.1,
			InitialDistance:  10,
			CatchDistance:    0.5,
		},
		Pilot: PilotConfig{
			ClimbSpeed:        4,
			ClimbAcceleration: 0.05,
			MaxClimbSpeed:     12,
			LateralSpeed:      6,
			LookAhead:         12,
			AvoidRadius:       3,
		},
		Session: SessionConfig{
			TickRate:     60,
			AutoRestart:  "3s",
			PublishEvery: 6,
		},
	}
}

// LoadConfig читает YAML поверх значений по умолчанию и валидирует результат.
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Category возвращает настройки категории по ID.
func (c *Config) Category(id domain.CategoryID) (CategoryConfig, bool) {
	switch id {
	case domain.CategoryMoon:
		return c.Categories.Moon, true
	case domain.CategoryPlanet:
		return c.Categories.Planet, true
	case domain.CategorySun:
		return c.Categories.Sun, true
	case domain.CategoryBlackHole:
		return c.Categories.BlackHole, true
	case domain.CategoryAsteroid:
		return c.Categories.Asteroid, true
	}
	return CategoryConfig{}, false
}

// SpawnCategory собирает доменное описание категории из конфига.
func (c *Config) SpawnCategory(id domain.CategoryID) domain.SpawnCategory {
	cc, _ := c.Category(id)
	return domain.SpawnCategory{
		ID:          id,
		Variants:    cc.Variants,
		SpawnChance: cc.SpawnChance,
		MinX:        cc.MinX,
		MaxX:        cc.MaxX,
		MinGap:      cc.MinGap,
		Exclusive:   cc.Exclusive,
	}
}

// AutoRestartDelay возвращает паузу перед автоперезапуском; 0 - выключен.
func (c *Config) AutoRestartDelay() time.Duration {
	if c.Session.AutoRestart == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Session.AutoRestart)
	if err != nil {
		return 0
	}
	return d
}

// Validate проверяет конфиг и подставляет производные значения.
func (c *Config) Validate() error {
	if c.Layer.Height <= 0 {
		return errors.New("layer.height must be positive")
	}
	if c.Layer.MaxActiveLayers < 1 {
		return errors.New("layer.max_active_layers must be at least 1")
	}
	if c.Layer.MinDangerousSpacing < 0 {
		return errors.New("layer.min_dangerous_spacing cannot be negative")
	}
	if c.Layer.LookaheadLayers <= 0 {
		c.Layer.LookaheadLayers = 2
	}
	if c.Difficulty.MaxMultiplier < 1 {
		return fmt.Errorf("difficulty.max_multiplier must be >= 1, got %v", c.Difficulty.MaxMultiplier)
	}
	if c.Difficulty.IncreaseRate < 0 {
		return errors.New("difficulty.increase_rate cannot be negative")
	}
	if c.Difficulty.ScorePerStep <= 0 {
		c.Difficulty.ScorePerStep = 1000
	}
	if c.Difficulty.SpacingSlope < 0 {
		return fmt.Errorf("difficulty.spacing_slope cannot be negative, got %v", c.Difficulty.SpacingSlope)
	}
	if c.Difficulty.SpacingFloor <= 0 || c.Difficulty.SpacingFloor > 1 {
		return fmt.Errorf("difficulty.spacing_floor must be in (0,1], got %v", c.Difficulty.SpacingFloor)
	}
	if c.Streaming.CleanupInterval <= 0 {
		return errors.New("streaming.cleanup_interval must be positive")
	}
	if c.Asteroids.MinCount < 1 || c.Asteroids.MaxCount <= c.Asteroids.MinCount {
		return fmt.Errorf("asteroids: need 1 <= min_count < max_count, got [%d,%d)", c.Asteroids.MinCount, c.Asteroids.MaxCount)
	}
	if c.Placement.MaxAttempts < 1 {
		return errors.New("placement.max_attempts must be at least 1")
	}
	if c.Session.TickRate <= 0 {
		c.Session.TickRate = 60
	}
	if c.Session.PublishEvery <= 0 {
		c.Session.PublishEvery = 1
	}
	if c.Session.AutoRestart != "" {
		if _, err := time.ParseDuration(c.Session.AutoRestart); err != nil {
			return fmt.Errorf("session.auto_restart invalid: %w", err)
		}
	}
	for _, id := range domain.AllCategories {
		cc, _ := c.Category(id)
		if cc.SpawnChance < 0 || cc.SpawnChance > 1 {
			return fmt.Errorf("categories.%s.spawn_chance must be in [0,1], got %v", id, cc.SpawnChance)
		}
		if cc.ChanceCap < 0 || cc.ChanceCap > 1 {
			return fmt.Errorf("categories.%s.chance_cap must be in [0,1], got %v", id, cc.ChanceCap)
		}
		if cc.MaxX <= cc.MinX {
			return fmt.Errorf("categories.%s: max_x must be greater than min_x", id)
		}
		if cc.MinGap < 0 {
			return fmt.Errorf("categories.%s.min_gap cannot be negative", id)
		}
	}
	// Астероиды идут кластером вне опасного броска
	if c.Categories.Asteroid.Exclusive {
		return errors.New("categories.ASTEROID cannot be exclusive")
	}
	return nil
}

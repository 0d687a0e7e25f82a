package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// Типы сообщений сервера
const (
	MsgSnapshot = "SNAPSHOT"
	MsgGameOver = "GAME_OVER"
	MsgReset    = "RESET"
	MsgError    = "ERROR"
)

// ServerResponse это корневой объект, который сервер отправляет наблюдателю.
// Снимок мира рассылается раз в несколько тиков, плюс отдельные сообщения о конце и сбросе забега.
type ServerResponse struct {
	// Type тип сообщения: SNAPSHOT, GAME_OVER, RESET, ERROR.
	Type string `json:"type"`

	// Tick номер тика симуляции в текущем забеге.
	Tick uint64 `json:"tick"`

	// Time игровое время забега в секундах.
	Time float64 `json:"time"`

	// Run порядковый номер забега с момента запуска сервера.
	Run int `json:"run"`

	// Seed сид генерации текущего забега.
	Seed int64 `json:"seed"`

	Score  float64 `json:"score"`
	Paused bool    `json:"paused,omitempty"`

	Pilot      *PilotView      `json:"pilot,omitempty"`
	Camera     *CameraView     `json:"camera,omitempty"`
	Supernova  *SupernovaView  `json:"supernova,omitempty"`
	Difficulty *DifficultyView `json:"difficulty,omitempty"`
	Streaming  *StreamingView  `json:"streaming,omitempty"`

	// Entities видимый (и чуть выше камеры) контент.
	Entities []EntityView `json:"entities,omitempty"`

	// Layers живые слои; отправляются только по запросу SNAPSHOT с includeLayers.
	Layers []LayerView `json:"layers,omitempty"`

	GameOver *GameOverView `json:"gameOver,omitempty"`

	// Logs новые сообщения с прошлой рассылки.
	Logs []LogEntry `json:"logs,omitempty"`
}

// PilotView - положение и скорость корабля.
type PilotView struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Speed  float64 `json:"speed"`
	Steer  float64 `json:"steer"` // -1 влево, 1 вправо
	Active bool    `json:"active"`
}

// CameraView - видимая область.
type CameraView struct {
	Y       float64 `json:"y"`
	TopY    float64 `json:"topY"`
	BottomY float64 `json:"bottomY"`
	MinX    float64 `json:"minX"`
	MaxX    float64 `json:"maxX"`
}

type SupernovaView struct {
	Y        float64 `json:"y"`
	Distance float64 `json:"distance"` // До корабля
}

// DifficultyView - текущие производные параметры сложности.
type DifficultyView struct {
	Multiplier        float64 `json:"multiplier"`
	SunChance         float64 `json:"sunChance"`
	BlackHoleChance   float64 `json:"blackHoleChance"`
	AsteroidChance    float64 `json:"asteroidChance"`
	SpacingMultiplier float64 `json:"spacingMultiplier"`
	MaxBodiesPerLayer int     `json:"maxBodiesPerLayer"`
}

type StreamingView struct {
	HighestGeneratedY float64 `json:"highestGeneratedY"`
	LastDangerousY    float64 `json:"lastDangerousY,omitempty"`
	CleanupY          float64 `json:"cleanupY,omitempty"`
	TrackedLayers     int     `json:"trackedLayers"`
	TrackedEntities   int     `json:"trackedEntities"`
}

// EntityView это DTO для размещенного контента.
type EntityView struct {
	Handle   string  `json:"handle"`
	Category string  `json:"category"` // MOON, PLANET, SUN, BLACK_HOLE, ASTEROID
	Variant  string  `json:"variant"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation,omitempty"`
	LayerY   float64 `json:"layerY"`
}

// LayerView - краткая сводка слоя.
type LayerView struct {
	Index     int            `json:"index"`
	Y         float64        `json:"y"`
	Dangerous bool           `json:"dangerous"`
	Counts    map[string]int `json:"counts"`
}

type GameOverView struct {
	Reason string  `json:"reason"`
	Score  float64 `json:"score"`
}

// LogEntry представляет одну запись в журнале забега.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, WARN, ERROR
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от наблюдателя к серверу.
type ClientCommand struct {
	// Token ID наблюдателя. Сервер подставляет его сам, если поле пустое.
	Token string `json:"token,omitempty"`

	// Action название команды: SNAPSHOT, RESTART, PAUSE, RESUME.
	Action string `json:"action"`

	// Payload JSON-объект с данными для команды. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// RestartPayload используется командой RESTART. Пустой payload - новый случайный сид.
type RestartPayload struct {
	Seed int64  `json:"seed,omitempty"`
	Name string `json:"name,omitempty"` // Имя забега превращается в сид, если Seed не задан
}

// SnapshotPayload используется командой SNAPSHOT.
type SnapshotPayload struct {
	IncludeLayers bool `json:"includeLayers,omitempty"`
}

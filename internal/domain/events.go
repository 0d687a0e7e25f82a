package domain

import "strings"

// EventType - тип изменения мира, которое видят наблюдатели
type EventType uint8

const (
	EventUnknown EventType = iota
	EventSpawned
	EventDestroyed
	EventLayerGenerated
	EventReset
	EventGameOver
)

var eventTypeToString = map[EventType]string{
	EventSpawned:        "SPAWNED",
	EventDestroyed:      "DESTROYED",
	EventLayerGenerated: "LAYER_GENERATED",
	EventReset:          "RESET",
	EventGameOver:       "GAME_OVER",
}

var eventStringToType = map[string]EventType{
	"SPAWNED":         EventSpawned,
	"DESTROYED":       EventDestroyed,
	"LAYER_GENERATED": EventLayerGenerated,
	"RESET":           EventReset,
	"GAME_OVER":       EventGameOver,
}

// ParseEvent конвертирует строку в EventType
func ParseEvent(s string) EventType {
	if val, ok := eventStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return EventUnknown
}

func (e EventType) String() string {
	if val, ok := eventTypeToString[e]; ok {
		return val
	}
	return "UNKNOWN"
}

// WorldEvent - одно изменение мира. Поля заполняются в зависимости от типа.
type WorldEvent struct {
	Type     EventType
	Handle   EntityHandle
	Category CategoryID
	Pos      Position
	LayerY   float64
	Reason   string
}

// GameOverEvent - одноразовый сигнал о конце забега.
type GameOverEvent struct {
	Reason string
	Score  float64
}

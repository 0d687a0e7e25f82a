package domain

import "strings"

// CommandType - команда сессии от наблюдателя или оператора
type CommandType uint8

const (
	CommandUnknown CommandType = iota
	CommandSnapshot
	CommandRestart
	CommandPause
	CommandResume
)

var commandStringToType = map[string]CommandType{
	"SNAPSHOT": CommandSnapshot,
	"RESTART":  CommandRestart,
	"PAUSE":    CommandPause,
	"RESUME":   CommandResume,
}

var commandTypeToString = map[CommandType]string{
	CommandSnapshot: "SNAPSHOT",
	CommandRestart:  "RESTART",
	CommandPause:    "PAUSE",
	CommandResume:   "RESUME",
}

// ParseCommand конвертирует строку из JSON в CommandType
func ParseCommand(s string) CommandType {
	if val, ok := commandStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return CommandUnknown
}

func (c CommandType) String() string {
	if val, ok := commandTypeToString[c]; ok {
		return val
	}
	return "UNKNOWN"
}

// InternalCommand - команда, прошедшая разбор, для цикла сессии.
type InternalCommand struct {
	Type  CommandType
	Token string // Кто прислал (ID наблюдателя)
}

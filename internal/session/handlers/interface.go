package handlers

import (
	"encoding/json"

	"exodus-server/pkg/api"
)

// Controller описывает то, чем команда наблюдателя может управлять.
// Session неявно реализует этот интерфейс.
type Controller interface {
	Restart(seed int64)
	SetPaused(paused bool) bool
	Snapshot(includeLayers bool) api.ServerResponse
	RandomSeed() int64
}

// Context передает хендлеру сессию и того, кто прислал команду.
type Context struct {
	Session    Controller
	ObserverID string
}

// Result - результат выполнения команды.
// Хендлер НЕ пишет в журнал сессии напрямую, он возвращает данные.
type Result struct {
	Msg     string              // Текст для журнала забега
	MsgType string              // INFO, WARN
	Reply   *api.ServerResponse // Личный ответ отправителю
}

// HandlerFunc - контракт для любой команды (RESTART, PAUSE, ...).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}

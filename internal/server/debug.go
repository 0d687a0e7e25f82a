package server

import (
	"encoding/json"
	"net/http"

	"exodus-server/internal/session"
)

// DebugHandler предоставляет доступ к внутреннему состоянию сессии.
// Данные берутся из копий, которые сессия обновляет при каждой рассылке.
type DebugHandler struct {
	Session *session.Session
}

func NewDebugHandler(s *session.Session) *DebugHandler {
	return &DebugHandler{Session: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/state", h.handleState)
	mux.HandleFunc("/debug/layers", h.handleLayers)
	mux.HandleFunc("/debug/snapshot", h.handleSnapshot)
	mux.HandleFunc("/debug/config", h.handleConfig)
}

// /debug/state - счет, сложность, водяные знаки, расписание
func (h *DebugHandler) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Session.DebugState())
}

// /debug/layers - живые слои с разбивкой по категориям
func (h *DebugHandler) handleLayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Session.DebugLayers())
}

// /debug/snapshot - последний разосланный кадр
func (h *DebugHandler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Session.LastSnapshot())
}

// /debug/config - действующий конфиг генерации
func (h *DebugHandler) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Session.Config())
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// DebugHandler предоставляет доступ к внутреннему состоянию боёв (без тумана войны)
type DebugHandler struct {
	Server *Server
}

func NewDebugHandler(s *Server) *DebugHandler {
	return &DebugHandler{Server: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/debug/battles/{id}/units", enableCORS(h.handleDumpUnits)).Methods(http.MethodGet)
	r.HandleFunc("/debug/battles/{id}/replay", enableCORS(h.handleReplay)).Methods(http.MethodGet)
	r.HandleFunc("/debug/battles/{id}/ai", enableCORS(h.handleAIPreview)).Methods(http.MethodGet)
}

// /debug/battles/{id}/units - полные структуры юнитов обеих сторон, включая скрытые
func (h *DebugHandler) handleDumpUnits(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Server.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.DebugUnits())
}

// /debug/battles/{id}/replay - записанные команды
func (h *DebugHandler) handleReplay(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Server.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.ReplayCopy())
}

// /debug/battles/{id}/ai?faction=enemy - следующее решение ИИ без исполнения
func (h *DebugHandler) handleAIPreview(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Server.session(w, r)
	if !ok {
		return
	}
	faction, ok := queryFaction(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.PreviewAI(faction))
}

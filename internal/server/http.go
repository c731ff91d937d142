package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/engine"
	"github.com/michaldrozd/spellcross-sub000/internal/engine/handlers"
	"github.com/michaldrozd/spellcross-sub000/internal/version"
	"github.com/michaldrozd/spellcross-sub000/pkg/api"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	Battles *engine.BattleService
	Port    string

	router *mux.Router
}

func New(battles *engine.BattleService, port string) *Server {
	s := &Server{
		Battles: battles,
		Port:    port,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", enableCORS(s.handleHealth)).Methods(http.MethodGet)
	r.HandleFunc("/version", enableCORS(s.handleVersion)).Methods(http.MethodGet)

	r.HandleFunc("/battles", enableCORS(s.handleCreateBattle)).Methods(http.MethodPost)
	r.HandleFunc("/battles", enableCORS(s.handleListBattles)).Methods(http.MethodGet)
	r.HandleFunc("/battles/{id}", enableCORS(s.handleSnapshot)).Methods(http.MethodGet)
	r.HandleFunc("/battles/{id}/commands", enableCORS(s.handleCommand)).Methods(http.MethodPost)
	r.HandleFunc("/battles/{id}/replay", enableCORS(s.handleSaveReplay)).Methods(http.MethodPost)
	r.HandleFunc("/battles/{id}/ws", s.handleWS)

	NewDebugHandler(s).RegisterRoutes(r)
	return r
}

// Router отдаёт обработчик целиком (для httptest).
func (s *Server) Router() http.Handler {
	return s.router
}

// Run запускает HTTP сервер и останавливает его по отмене ctx
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("Tactics server running on :%s", s.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Log.Info("HTTP server shutting down...")
		return srv.Shutdown(shutdownCtx)
	}
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Log.WithError(err).Debug("failed to write health response")
	}
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Info())
}

// --- BATTLES ---

func (s *Server) handleCreateBattle(w http.ResponseWriter, r *http.Request) {
	var req api.CreateBattleRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	session, err := s.Battles.CreateBattle(req.Scenario)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, session.Summary())
}

func (s *Server) handleListBattles(w http.ResponseWriter, r *http.Request) {
	summaries := make([]api.BattleSummary, 0)
	for _, id := range s.Battles.Sessions() {
		if session, err := s.Battles.Session(id); err == nil {
			summaries = append(summaries, session.Summary())
		}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	faction, ok := queryFaction(w, r)
	if !ok {
		return
	}
	cursor, _ := strconv.Atoi(r.URL.Query().Get("cursor"))

	writeJSON(w, http.StatusOK, session.Snapshot(faction, cursor))
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var cmd api.ClientCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid command: "+err.Error())
		return
	}

	res, err := s.Battles.Execute(id, cmd)
	switch {
	case errors.Is(err, engine.ErrBattleNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := s.Battles.Session(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	cursor, _ := strconv.Atoi(r.URL.Query().Get("cursor"))
	resp := session.Snapshot(domain.ParseFaction(cmd.Faction), cursor)
	resp.Type = api.MsgResult
	resp.Result = toCommandResult(cmd.Action, res)

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSaveReplay(w http.ResponseWriter, r *http.Request) {
	saved, err := s.Battles.SaveReplay(mux.Vars(r)["id"])
	switch {
	case errors.Is(err, engine.ErrBattleNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		logger.Log.WithError(err).Error("Failed to save replay")
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, saved)
	}
}

// --- HELPERS ---

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*engine.Session, bool) {
	session, err := s.Battles.Session(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return session, true
}

func queryFaction(w http.ResponseWriter, r *http.Request) (domain.Faction, bool) {
	raw := r.URL.Query().Get("faction")
	f := domain.ParseFaction(raw)
	if f == domain.FactionNone {
		writeError(w, http.StatusBadRequest, "unknown faction "+strconv.Quote(raw))
		return f, false
	}
	return f, true
}

func toCommandResult(action string, res handlers.Result) *api.CommandResult {
	out := &api.CommandResult{
		Action:  action,
		Success: res.Outcome.Success,
		Error:   res.Outcome.Error,
		Events:  res.Outcome.Events,
	}
	if res.Path != nil {
		for _, c := range res.Path.Path {
			out.Path = append(out.Path, api.CoordDTO{Q: c.Q, R: c.R})
		}
		out.Cost = res.Path.Cost
		out.Reason = res.Path.Reason
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Warn("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	logger.Log.WithFields(logrus.Fields{
		"status": status,
		"error":  msg,
	}).Debug("Request failed")

	writeJSON(w, status, api.ServerResponse{
		Type:   api.MsgError,
		Result: &api.CommandResult{Success: false, Error: msg},
	})
}

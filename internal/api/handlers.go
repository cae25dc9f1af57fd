package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/tidwall/gjson"

	"github.com/solo-life/service_layer/internal/errors"
	"github.com/solo-life/service_layer/internal/httputil"
	"github.com/solo-life/service_layer/internal/middleware"
	"github.com/solo-life/service_layer/internal/repo"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": "solo-life",
	})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	session, err := s.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, session)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	session, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, session)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.CurrentUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	entity := mux.Vars(r)["entity"]
	if !repo.ValidEntity(entity) {
		s.writeError(w, r, errors.Validation("unknown entity: "+entity))
		return
	}
	userID := middleware.GetUserID(r.Context())

	if entity == repo.EntityPlayer {
		name := "Player"
		if u, err := s.repo.Users.Get(r.Context(), userID); err == nil {
			name = u.Name
		}
		player, err := s.repo.Players.Load(r.Context(), userID, name)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, player)
		return
	}

	var raw json.RawMessage
	found, err := s.repo.KV().Read(r.Context(), repo.EntityKey(userID, entity), &raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !found {
		raw = json.RawMessage("[]")
	}
	httputil.WriteJSON(w, http.StatusOK, raw)
}

func (s *Server) handlePutData(w http.ResponseWriter, r *http.Request) {
	entity := mux.Vars(r)["entity"]
	if !repo.ValidEntity(entity) {
		s.writeError(w, r, errors.Validation("unknown entity: "+entity))
		return
	}
	userID := middleware.GetUserID(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, errors.Validation("failed to read request body"))
		return
	}
	if !gjson.ValidBytes(body) {
		s.writeError(w, r, errors.Validation("body must be valid JSON"))
		return
	}

	parsed := gjson.ParseBytes(body)
	if entity == repo.EntityPlayer {
		if !parsed.IsObject() {
			s.writeError(w, r, errors.Validation("player must be a JSON object"))
			return
		}
	} else if !parsed.IsArray() {
		s.writeError(w, r, errors.Validation(entity+" must be a JSON array"))
		return
	}

	if err := s.repo.KV().Write(r.Context(), repo.EntityKey(userID, entity), json.RawMessage(body)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMissions(w http.ResponseWriter, r *http.Request) {
	missions, err := s.tracker.Missions(r.Context(), middleware.GetUserID(r.Context()), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, missions)
}

func (s *Server) handlePenalty(w http.ResponseWriter, r *http.Request) {
	status, err := s.tracker.Penalty(r.Context(), middleware.GetUserID(r.Context()), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

func (s *Server) handleCompleteHabit(w http.ResponseWriter, r *http.Request) {
	result, err := s.tracker.CompleteHabit(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"], s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleUncompleteHabit(w http.ResponseWriter, r *http.Request) {
	result, err := s.tracker.UncompleteHabit(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"], s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateBackup(w http.ResponseWriter, r *http.Request) {
	id, err := s.repo.CreateUserBackup(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleListBackups(w http.ResponseWriter, r *http.Request) {
	ids := s.repo.ListUserBackups(r.Context(), middleware.GetUserID(r.Context()))
	httputil.WriteJSON(w, http.StatusOK, map[string][]string{"backups": ids})
}

func (s *Server) handleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	err := s.repo.RestoreUserBackup(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap, err := s.repo.ExportUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="solo-life-export.json"`)
	httputil.WriteJSON(w, http.StatusOK, snap)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, errors.Validation("failed to read request body"))
		return
	}
	if !gjson.ValidBytes(body) {
		s.writeError(w, r, errors.Validation("body must be valid JSON"))
		return
	}
	if !gjson.GetBytes(body, "entities").IsObject() {
		s.writeError(w, r, errors.Validation("snapshot must carry an entities object"))
		return
	}

	var snap repo.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		s.writeError(w, r, errors.Validation("invalid snapshot"))
		return
	}
	if err := s.repo.ImportUser(r.Context(), middleware.GetUserID(r.Context()), &snap); err != nil {
		s.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

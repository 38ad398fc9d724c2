package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sandevgo/mindful/internal/core"
)

const defaultSearchLimit = 10

// Memory endpoints trust the identity sent by the caller.
type memoryRequest struct {
	UserID   string         `json:"userId"`
	Text     string         `json:"text"`
	Messages []core.Message `json:"messages"`
}

func (s *Server) handleListMemories(w http.ResponseWriter, r *http.Request) {
	uid := userID(r, "")
	if uid == "" {
		badRequest(w, "userId is required")
		return
	}

	var (
		memories []core.Memory
		err      error
	)
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = defaultSearchLimit
		}
		memories, err = s.memory.Search(r.Context(), uid, q, limit)
	} else {
		memories, err = s.memory.List(r.Context(), uid)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"memories": memories})
}

func (s *Server) handleAddMemory(w http.ResponseWriter, r *http.Request) {
	var req memoryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	uid := userID(r, req.UserID)
	if uid == "" {
		badRequest(w, "userId is required")
		return
	}

	switch {
	case strings.TrimSpace(req.Text) != "":
		m, err := s.memory.AddText(r.Context(), uid, req.Text)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"memories": []core.Memory{m}})
	case len(req.Messages) > 0:
		added, err := s.memory.Add(r.Context(), uid, req.Messages)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"memories": added})
	default:
		badRequest(w, "text or messages is required")
	}
}

func (s *Server) handleUpdateMemory(w http.ResponseWriter, r *http.Request) {
	var req memoryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	uid := userID(r, req.UserID)
	if uid == "" || strings.TrimSpace(req.Text) == "" {
		badRequest(w, "userId and text are required")
		return
	}

	m, err := s.memory.Update(r.Context(), uid, chi.URLParam(r, "id"), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMemory(w http.ResponseWriter, r *http.Request) {
	var req memoryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	uid := userID(r, req.UserID)
	if uid == "" {
		badRequest(w, "userId is required")
		return
	}

	if err := s.memory.Delete(r.Context(), uid, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAllMemories(w http.ResponseWriter, r *http.Request) {
	var req memoryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	uid := userID(r, req.UserID)
	if uid == "" {
		badRequest(w, "userId is required")
		return
	}

	if err := s.memory.DeleteAll(r.Context(), uid); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

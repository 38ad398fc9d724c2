package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sandevgo/mindful/internal/core"
	"github.com/sandevgo/mindful/internal/service/chat"
	"github.com/sandevgo/mindful/pkg/conv"
)

const sessionHeader = "X-Session-Id"

type chatRequest struct {
	Messages  []core.Message   `json:"messages"`
	Session   core.SessionMeta `json:"session"`
	SessionID string           `json:"sessionId"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.Session.AccessToken == "" {
		req.Session.AccessToken = bearerToken(r)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = r.Header.Get(sessionHeader)
	}
	if sessionID == "" {
		sessionID = chat.NewSessionID()
	}

	h := w.Header()
	h.Set(sessionHeader, sessionID)
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	h.Set("X-Content-Type-Options", "nosniff")

	rc := http.NewResponseController(w)
	flush := func() { _ = rc.Flush() }

	_, err := s.chat.Turn(r.Context(), chat.TurnRequest{
		SessionID: sessionID,
		Meta:      req.Session,
		Messages:  req.Messages,
	}, w, flush)
	if err != nil {
		writeError(w, r, err)
	}
}

type createSessionRequest struct {
	SessionID      string `json:"sessionId"`
	UserID         string `json:"userId"`
	InitialMessage string `json:"initialMessage"`
	Title          string `json:"title"`
}

type sessionResponse struct {
	Session core.Session  `json:"session"`
	Message *core.Message `json:"message,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	session, first, err := s.chat.StartSession(r.Context(), req.SessionID, req.UserID, req.InitialMessage, req.Title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Session: session, Message: first})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	sessions, err := s.chat.ListSessions(r.Context(), userID(r, ""), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

// messageView adds rendered HTML to assistant messages for ?format=html.
type messageView struct {
	core.Message
	HTML string `json:"html,omitempty"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, msgs, err := s.chat.Conversation(r.Context(), chi.URLParam(r, "id"), userID(r, ""))
	if err != nil {
		writeError(w, r, err)
		return
	}

	asHTML := r.URL.Query().Get("format") == "html"
	views := make([]messageView, len(msgs))
	for i, m := range msgs {
		views[i] = messageView{Message: m}
		if asHTML && m.Role == core.RoleAssistant {
			views[i].HTML = conv.MarkdownToHTML(m.Text())
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"session": session, "messages": views})
}

func (s *Server) handleRenameSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
		Title  string `json:"title"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	session, err := s.chat.RenameSession(r.Context(), chi.URLParam(r, "id"), userID(r, req.UserID), req.Title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.chat.DeleteSession(r.Context(), chi.URLParam(r, "id"), userID(r, "")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/resolveapp/resolve/internal/calculator"
	"github.com/resolveapp/resolve/internal/middleware"
	"github.com/resolveapp/resolve/internal/service"
)

type friendRequestBody struct {
	Identifier string `json:"identifier"`
}

func (s *Server) handleSendFriendRequest(w http.ResponseWriter, r *http.Request) {
	var req friendRequestBody
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	friendship, err := s.friends.SendRequest(r.Context(), req.Identifier, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"friendshipId": friendship.ID,
		"status":       friendship.Status,
	})
}

type respondFriendRequest struct {
	Action string `json:"action"`
}

func (s *Server) handleRespondFriendRequest(w http.ResponseWriter, r *http.Request) {
	var req respondFriendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Action != "accept" && req.Action != "reject" {
		writeError(w, calculator.Validationf("action must be %q or %q", "accept", "reject"))
		return
	}

	friendship, err := s.friends.Respond(r.Context(), chi.URLParam(r, "id"), middleware.GetUserID(r.Context()), req.Action == "accept")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"friendshipId": friendship.ID,
		"status":       friendship.Status,
	})
}

func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	entries, err := s.friends.ListFriends(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFriendJSONs(entries))
}

func (s *Server) handleListPendingRequests(w http.ResponseWriter, r *http.Request) {
	entries, err := s.friends.PendingRequests(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFriendJSONs(entries))
}

func toFriendJSONs(entries []service.FriendEntry) []friendJSON {
	out := make([]friendJSON, len(entries))
	for i, entry := range entries {
		out[i] = toFriendJSON(entry)
	}
	return out
}

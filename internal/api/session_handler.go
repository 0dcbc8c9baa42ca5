package api

import (
	"net/http"
	"strconv"
)

// ListSessions возвращает снимки всех сессий накопления.
// GET /api/v1/sessions
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	snaps := h.batcher.Sessions()

	result := make([]SessionResponse, len(snaps))
	for i, snap := range snaps {
		result[i] = SessionFromSnapshot(snap)
	}

	List(w, result, len(result))
}

// GetSession возвращает снимок сессии пользователя.
// GET /api/v1/sessions/{user_id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("user_id"), 10, 64)
	if err != nil {
		BadRequest(w, "invalid user_id")
		return
	}

	snap, ok := h.batcher.Session(userID)
	if !ok {
		NotFound(w, "session not found")
		return
	}

	Success(w, SessionFromSnapshot(snap))
}

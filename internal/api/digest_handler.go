package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shaiso/Briefly/internal/domain"
	"github.com/shaiso/Briefly/internal/repo"
)

// ListDigests возвращает историю дайджестов с фильтрацией.
// GET /api/v1/digests?user_id=...&status=...&limit=...&offset=...
func (h *Handler) ListDigests(w http.ResponseWriter, r *http.Request) {
	if h.digestRepo == nil {
		Unavailable(w, "digest history is not configured")
		return
	}

	filter := repo.DigestFilter{}

	if userIDStr := r.URL.Query().Get("user_id"); userIDStr != "" {
		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			BadRequest(w, "invalid user_id")
			return
		}
		filter.UserID = &userID
	}

	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = domain.DigestStatus(status)
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		filter.Limit = int(mustParseInt(limitStr, 50))
	} else {
		filter.Limit = 50
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		filter.Offset = int(mustParseInt(offsetStr, 0))
	}

	digests, err := h.digestRepo.List(r.Context(), filter)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]DigestResponse, len(digests))
	for i, d := range digests {
		result[i] = DigestFromDomain(d)
	}

	List(w, result, len(result))
}

// GetDigest возвращает дайджест по ID.
// GET /api/v1/digests/{id}
func (h *Handler) GetDigest(w http.ResponseWriter, r *http.Request) {
	if h.digestRepo == nil {
		Unavailable(w, "digest history is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid digest id")
		return
	}

	digest, err := h.digestRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "digest not found") {
		return
	}

	Success(w, DigestFromDomain(*digest))
}

// mustParseInt парсит число с default-значением при ошибке.
func mustParseInt(s string, defaultVal int64) int64 {
	if _, err := json.Number(s).Int64(); err == nil {
		n, _ := json.Number(s).Int64()
		return n
	}
	return defaultVal
}

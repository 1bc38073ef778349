package handler

import (
	"net/http"

	"lifemanage/internal/auth"
	"lifemanage/internal/store"
)

type MeHandler struct {
	Store *store.Store
}

func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	hasKey := false
	if s, err := h.Store.GetSettings(r.Context(), uid); err == nil {
		hasKey = s.HasOpenAIKey
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":        uid,
		"has_openai_key": hasKey,
	})
}

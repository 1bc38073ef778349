package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"lifemanage/internal/assist"
	"lifemanage/internal/auth"
	"lifemanage/internal/store"
)

type SettingsHandler struct {
	Store *store.Store
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	s, err := h.Store.GetSettings(r.Context(), uid)
	if err == store.ErrNotFound {
		// No row yet just means no key was ever saved.
		writeJSON(w, http.StatusOK, map[string]any{"has_openai_key": false})
		return
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

type saveKeyReq struct {
	Key     string `json:"key"`
	Persist bool   `json:"persist"`
}

// SaveKey accepts the completion-API credential. With persist=false nothing
// is stored; the client keeps the key session-side and sends it per request
// via the X-OpenAI-Key header.
func (h *SettingsHandler) SaveKey(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req saveKeyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Key = strings.TrimSpace(req.Key)
	if !strings.HasPrefix(req.Key, "sk-") {
		http.Error(w, "key must start with sk-", http.StatusBadRequest)
		return
	}

	if !req.Persist {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s, err := h.Store.SaveOpenAIKey(r.Context(), uid, req.Key)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// DeleteKey clears the persisted slot; the sign-out teardown boundary.
func (h *SettingsHandler) DeleteKey(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	if err := h.Store.ClearOpenAIKey(r.Context(), uid); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolveKey picks the credential for an outbound completion call: the
// ephemeral session slot (request header) wins, then the persisted row.
// Read at call time, not frozen at batch start.
func resolveKey(r *http.Request, s *store.Store, userID uint64) (string, error) {
	if k := strings.TrimSpace(r.Header.Get("X-OpenAI-Key")); k != "" {
		if !strings.HasPrefix(k, "sk-") {
			return "", fmt.Errorf("%w: key must start with sk-", store.ErrInvalid)
		}
		return k, nil
	}
	us, err := s.GetSettings(r.Context(), userID)
	if err == store.ErrNotFound || (err == nil && us.OpenAIKey == nil) {
		return "", assist.ErrNoCredential
	}
	if err != nil {
		return "", err
	}
	return *us.OpenAIKey, nil
}

package handler

import (
	"encoding/json"
	"net/http"

	"lifemanage/internal/auth"
	"lifemanage/internal/store"
)

type ConversationHandler struct {
	Store *store.Store
}

func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	pid, err := queryProjectID(r)
	if err != nil {
		http.Error(w, "invalid project_id", http.StatusBadRequest)
		return
	}
	uncategorized := r.URL.Query().Get("uncategorized") == "true"

	convs, err := h.Store.ListConversations(r.Context(), uid, pid, uncategorized)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, convs)
}

func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	c, err := h.Store.GetConversation(r.Context(), uid, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type conversationPatchReq struct {
	Title     *string `json:"title"`
	ProjectID *uint64 `json:"project_id"`
	// ClearProject unassigns the conversation; a null project_id in JSON is
	// indistinguishable from an absent one.
	ClearProject bool `json:"clear_project"`
}

// Update covers manual project assignment and renaming, the only mutations
// a conversation supports after import.
func (h *ConversationHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req conversationPatchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	patch := store.ConversationPatch{Title: req.Title}
	if req.ClearProject {
		var none *uint64
		patch.ProjectID = &none
	} else if req.ProjectID != nil {
		patch.ProjectID = &req.ProjectID
	}

	c, err := h.Store.UpdateConversation(r.Context(), uid, id, patch)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Store.DeleteConversation(r.Context(), uid, id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

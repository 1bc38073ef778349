package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"lifemanage/internal/auth"
	"lifemanage/internal/store"
)

type ProjectHandler struct {
	Store *store.Store
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	projects, err := h.Store.ListProjects(r.Context(), uid)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	p, err := h.Store.GetProject(r.Context(), uid, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type projectReq struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Category    *store.Category      `json:"category"`
	Tags        *[]string            `json:"tags"`
	Status      *store.ProjectStatus `json:"status"`
	Priority    *int                 `json:"priority"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req projectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	in := store.CreateProjectInput{Description: req.Description}
	if req.Title != nil {
		in.Title = strings.TrimSpace(*req.Title)
	}
	if req.Category != nil {
		in.Category = *req.Category
	}
	if req.Tags != nil {
		in.Tags = *req.Tags
	}
	if req.Status != nil {
		in.Status = *req.Status
	}
	if req.Priority != nil {
		in.Priority = *req.Priority
	}

	p, err := h.Store.CreateProject(r.Context(), uid, in)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req projectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	p, err := h.Store.UpdateProject(r.Context(), uid, id, store.ProjectPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Store.DeleteProject(r.Context(), uid, id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

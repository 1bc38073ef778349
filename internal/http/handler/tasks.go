package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"lifemanage/internal/auth"
	"lifemanage/internal/store"
)

type TaskHandler struct {
	Store *store.Store
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	pid, err := queryProjectID(r)
	if err != nil {
		http.Error(w, "invalid project_id", http.StatusBadRequest)
		return
	}

	tasks, err := h.Store.ListTasks(r.Context(), uid, pid)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	t, err := h.Store.GetTask(r.Context(), uid, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type taskReq struct {
	ProjectID   *uint64           `json:"project_id"`
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Status      *store.TaskStatus `json:"status"`
	DueDate     *string           `json:"due_date"` // RFC3339, optional
	ClearDue    bool              `json:"clear_due"`
}

func parseDue(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req taskReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.ProjectID == nil {
		http.Error(w, "project_id required", http.StatusBadRequest)
		return
	}
	due, err := parseDue(req.DueDate)
	if err != nil {
		http.Error(w, "invalid due_date (RFC3339)", http.StatusBadRequest)
		return
	}

	in := store.CreateTaskInput{
		ProjectID:   *req.ProjectID,
		Description: req.Description,
		DueDate:     due,
	}
	if req.Title != nil {
		in.Title = strings.TrimSpace(*req.Title)
	}
	if req.Status != nil {
		in.Status = *req.Status
	}

	t, err := h.Store.CreateTask(r.Context(), uid, in)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req taskReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	patch := store.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}
	if req.ClearDue {
		var none *time.Time
		patch.DueDate = &none
	} else if req.DueDate != nil {
		due, err := parseDue(req.DueDate)
		if err != nil {
			http.Error(w, "invalid due_date (RFC3339)", http.StatusBadRequest)
			return
		}
		patch.DueDate = &due
	}

	t, err := h.Store.UpdateTask(r.Context(), uid, id, patch)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Store.DeleteTask(r.Context(), uid, id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

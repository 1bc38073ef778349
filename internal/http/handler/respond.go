package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"lifemanage/internal/assist"
	"lifemanage/internal/chatgpt"
	"lifemanage/internal/store"

	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps the error taxonomy onto HTTP statuses: validation 400,
// not-found 404, missing credential 401, everything else 500. Completion
// service errors never reach here; workflows fall back instead.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrInvalid), errors.Is(err, chatgpt.ErrBadExport):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, assist.ErrNoCredential):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	default:
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}

func pathID(r *http.Request) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
}

// queryProjectID reads an optional ?project_id= secondary filter.
func queryProjectID(r *http.Request) (*uint64, error) {
	v := r.URL.Query().Get("project_id")
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

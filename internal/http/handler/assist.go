package handler

import (
	"log"
	"net/http"

	"lifemanage/internal/assist"
	"lifemanage/internal/auth"
	"lifemanage/internal/store"
)

type AssistHandler struct {
	Store     *store.Store
	Workflows *assist.Workflows
}

type categorizeResp struct {
	Processed       int                  `json:"processed"`
	ProjectsCreated int                  `json:"projects_created"`
	Outcomes        []assist.ItemOutcome `json:"outcomes"`
	Error           string               `json:"error,omitempty"`
}

// Categorize runs the batch workflow over every uncategorized conversation,
// one at a time. Items finished before a store failure stay persisted.
func (h *AssistHandler) Categorize(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	key, err := resolveKey(r, h.Store, uid)
	if err != nil {
		writeErr(w, err)
		return
	}

	convs, err := h.Store.ListConversations(r.Context(), uid, nil, true)
	if err != nil {
		writeErr(w, err)
		return
	}

	res := h.Workflows.CategorizeBatch(r.Context(), uid, key, convs, func(done, total int) {
		log.Printf("categorize: user=%d %d/%d", uid, done, total)
	})
	if res.Err != nil && len(res.Outcomes) == 0 {
		writeErr(w, res.Err)
		return
	}

	// A run aborted partway still reports what completed, carrying the
	// first error so the client can tell it apart from a finished one.
	out := categorizeResp{
		Processed:       len(res.Outcomes),
		ProjectsCreated: res.ProjectsCreated,
		Outcomes:        res.Outcomes,
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	writeJSON(w, http.StatusOK, out)
}

type summaryResp struct {
	Summary  string `json:"summary"`
	Degraded bool   `json:"degraded"`
}

func (h *AssistHandler) Summary(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	key, err := resolveKey(r, h.Store, uid)
	if err != nil {
		writeErr(w, err)
		return
	}

	projects, err := h.Store.ListProjects(r.Context(), uid)
	if err != nil {
		writeErr(w, err)
		return
	}
	tasks, err := h.Store.ListTasks(r.Context(), uid, nil)
	if err != nil {
		writeErr(w, err)
		return
	}

	text, src := h.Workflows.DashboardSummary(r.Context(), key, projects, tasks)
	writeJSON(w, http.StatusOK, summaryResp{Summary: text, Degraded: src.Degraded()})
}

type nextStepsResp struct {
	Tasks    []store.Task `json:"tasks"`
	Degraded bool         `json:"degraded"`
}

// NextSteps generates tasks for one project and returns the refreshed task
// list for it.
func (h *AssistHandler) NextSteps(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	key, err := resolveKey(r, h.Store, uid)
	if err != nil {
		writeErr(w, err)
		return
	}

	tasks, src, err := h.Workflows.GenerateTasks(r.Context(), uid, key, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nextStepsResp{Tasks: tasks, Degraded: src.Degraded()})
}

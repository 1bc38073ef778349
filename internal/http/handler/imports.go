package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"lifemanage/internal/auth"
	"lifemanage/internal/chatgpt"
	"lifemanage/internal/store"
)

// 20 MB; exports are text but whole-history files get large.
const maxImportBytes = 20 << 20

type ImportHandler struct {
	Store *store.Store
}

type importResp struct {
	Imported      int                  `json:"imported"`
	Conversations []store.Conversation `json:"conversations"`
}

// Import accepts a raw ChatGPT export document as the request body and
// creates one unassigned conversation per entry. An optional ?ids=a,b,c
// restricts the import to a selection of export conversation ids. The file
// is validated before any row is written; nothing is created on rejection.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}

	export, err := chatgpt.ParseExport(body)
	if err != nil {
		writeErr(w, err)
		return
	}

	var selected map[string]bool
	if ids := strings.TrimSpace(r.URL.Query().Get("ids")); ids != "" {
		selected = map[string]bool{}
		for _, id := range strings.Split(ids, ",") {
			selected[strings.TrimSpace(id)] = true
		}
	}

	resp := importResp{Conversations: []store.Conversation{}}
	for _, entry := range export.Conversations {
		if selected != nil && !selected[entry.ID] {
			continue
		}

		title := entry.Title
		if title == "" {
			title = "Untitled Conversation"
		}
		content, err := json.Marshal(entry)
		if err != nil {
			writeErr(w, err)
			return
		}

		c, err := h.Store.CreateConversation(r.Context(), uid, store.CreateConversationInput{
			Title:    title,
			Content:  content,
			SourceID: entry.ID,
		})
		if err != nil {
			// Already-imported entries stay; report the first failure.
			writeErr(w, err)
			return
		}
		resp.Conversations = append(resp.Conversations, c)
	}
	resp.Imported = len(resp.Conversations)

	writeJSON(w, http.StatusCreated, resp)
}

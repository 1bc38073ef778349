package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"lifemanage/internal/store"
)

const categorizePrompt = `You are an AI assistant that categorizes conversations.
Analyze the conversation and categorize it as either "work" or "personal".
Also suggest up to 5 relevant tags based on the content.
Return your response as a JSON object with "category" and "tags" fields.`

const maxCategorizeTags = 5

type Categorization struct {
	Category store.Category `json:"category"`
	Tags     []string       `json:"tags"`
}

func fallbackCategorization() Categorization {
	return Categorization{Category: store.CategoryPersonal, Tags: []string{"uncategorized"}}
}

// CategorizeConversation asks the model to classify one transcript. Any
// failure, from the call itself to unparsable or out-of-set output, yields
// the fixed fallback with SourceFallback; it never returns an error.
func (w *Workflows) CategorizeConversation(ctx context.Context, key string, content json.RawMessage) (Categorization, Source) {
	msgs := []Message{
		{Role: "system", Content: categorizePrompt},
		{Role: "user", Content: fmt.Sprintf("Categorize this conversation: %s", content)},
	}

	text, err := w.Completer.Complete(ctx, key, msgs, 0.3)
	if err != nil {
		log.Printf("categorize: falling back: %v", err)
		return fallbackCategorization(), SourceFallback
	}

	var c Categorization
	if err := json.Unmarshal([]byte(text), &c); err != nil {
		log.Printf("categorize: unparsable model output, falling back")
		return fallbackCategorization(), SourceFallback
	}
	if !c.Category.Valid() {
		log.Printf("categorize: model returned category %q, falling back", c.Category)
		return fallbackCategorization(), SourceFallback
	}
	if len(c.Tags) > maxCategorizeTags {
		c.Tags = c.Tags[:maxCategorizeTags]
	}
	return c, SourceModel
}

// ItemOutcome is one conversation's result within a batch run.
type ItemOutcome struct {
	ConversationID uint64 `json:"conversation_id"`
	ProjectID      uint64 `json:"project_id"`
	Degraded       bool   `json:"degraded"`
}

// BatchResult reports a categorization run. Outcomes holds the items that
// completed; on a store failure they stay persisted and Err carries the
// first error hit.
type BatchResult struct {
	Outcomes        []ItemOutcome
	ProjectsCreated int
	Err             error
}

// CategorizeBatch processes conversations strictly one at a time. Within
// the run, conversations landing on the same (category, derived title) pair
// reuse the project created for the first of them instead of duplicating
// it. progress, when non-nil, is called after every completed item with a
// monotonically increasing done count.
func (w *Workflows) CategorizeBatch(ctx context.Context, userID uint64, key string, convs []store.Conversation, progress func(done, total int)) BatchResult {
	res := BatchResult{Outcomes: []ItemOutcome{}}
	created := map[string]store.Project{}

	for i, conv := range convs {
		cat, src := w.CategorizeConversation(ctx, key, conv.Content)

		title := conv.Title
		if title == "" {
			title = "Untitled Project"
		}
		groupKey := string(cat.Category) + "-" + title

		project, ok := created[groupKey]
		if !ok {
			desc := fmt.Sprintf("Automatically categorized from conversation: %s", conv.Title)
			var err error
			project, err = w.Store.CreateProject(ctx, userID, store.CreateProjectInput{
				Title:       title,
				Description: &desc,
				Category:    cat.Category,
				Tags:        cat.Tags,
				Status:      store.ProjectActive,
				Priority:    0,
			})
			if err != nil {
				res.Err = err
				res.ProjectsCreated = len(created)
				return res
			}
			created[groupKey] = project
		}

		pid := project.ID
		pidPtr := &pid
		if _, err := w.Store.UpdateConversation(ctx, userID, conv.ID, store.ConversationPatch{ProjectID: &pidPtr}); err != nil {
			res.Err = err
			res.ProjectsCreated = len(created)
			return res
		}

		res.Outcomes = append(res.Outcomes, ItemOutcome{
			ConversationID: conv.ID,
			ProjectID:      project.ID,
			Degraded:       src.Degraded(),
		})
		if progress != nil {
			progress(i+1, len(convs))
		}
	}

	res.ProjectsCreated = len(created)
	return res
}

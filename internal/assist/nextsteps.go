package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"lifemanage/internal/store"
)

const nextStepsPrompt = `You are an AI assistant that helps users manage their projects.
Based on the project details and related conversations, generate 3-5 actionable next steps.
Each next step should be specific, clear, and directly related to moving the project forward.
Return your response as a JSON array of objects, each with "title" and "description" fields.`

type NextStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func fallbackNextSteps() []NextStep {
	return []NextStep{
		{Title: "Review project details", Description: "Take some time to review the project details and goals."},
		{Title: "Identify key stakeholders", Description: "Make a list of all the people involved in or affected by this project."},
		{Title: "Set project milestones", Description: "Define clear milestones to track progress on this project."},
	}
}

// NextSteps asks the model for 3-5 actionable steps for a project given its
// related conversations. Falls back to a fixed three-item list on failure.
func (w *Workflows) NextSteps(ctx context.Context, key string, project store.Project, convs []store.Conversation) ([]NextStep, Source) {
	cj, _ := json.Marshal(convs)

	msgs := []Message{
		{Role: "system", Content: nextStepsPrompt},
		{Role: "user", Content: fmt.Sprintf(
			"Generate next steps for this project:\n\nProject Title: %s\nProject Category: %s\nProject Tags: %s\n\nRelated Conversations: %s",
			project.Title, project.Category, strings.Join(project.Tags, ", "), cj)},
	}

	text, err := w.Completer.Complete(ctx, key, msgs, 0.7)
	if err != nil {
		log.Printf("next steps: falling back: %v", err)
		return fallbackNextSteps(), SourceFallback
	}

	var steps []NextStep
	if err := json.Unmarshal([]byte(text), &steps); err != nil || len(steps) == 0 {
		log.Printf("next steps: unparsable model output, falling back")
		return fallbackNextSteps(), SourceFallback
	}
	return steps, SourceModel
}

// GenerateTasks runs the next-steps workflow for a project and persists one
// pending, undated task per step, then re-fetches the project's task list.
// Persisted tasks survive a mid-run store failure; the first error is
// returned.
func (w *Workflows) GenerateTasks(ctx context.Context, userID uint64, key string, projectID uint64) ([]store.Task, Source, error) {
	project, err := w.Store.GetProject(ctx, userID, projectID)
	if err != nil {
		return nil, SourceModel, err
	}
	convs, err := w.Store.ListConversations(ctx, userID, &projectID, false)
	if err != nil {
		return nil, SourceModel, err
	}

	steps, src := w.NextSteps(ctx, key, project, convs)
	for _, step := range steps {
		desc := step.Description
		_, err := w.Store.CreateTask(ctx, userID, store.CreateTaskInput{
			ProjectID:   projectID,
			Title:       step.Title,
			Description: &desc,
			Status:      store.TaskPending,
		})
		if err != nil {
			return nil, src, err
		}
	}

	tasks, err := w.Store.ListTasks(ctx, userID, &projectID)
	return tasks, src, err
}

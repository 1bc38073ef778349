package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"lifemanage/internal/store"
)

const summaryPrompt = `You are an AI assistant that helps users manage their projects.
Based on the user's projects and tasks, generate a personalized executive summary.
The summary should include:
1. A brief overview of their current workload
2. Prioritized action items
3. A thoughtful reflection question to help them think about their work
Keep the tone professional but friendly. Limit to 3-4 paragraphs.`

// DashboardSummary produces the executive-summary narrative for the
// dashboard. On any service failure it falls back to a template that
// interpolates the literal project and task counts.
func (w *Workflows) DashboardSummary(ctx context.Context, key string, projects []store.Project, tasks []store.Task) (string, Source) {
	pj, _ := json.Marshal(projects)
	tj, _ := json.Marshal(tasks)

	msgs := []Message{
		{Role: "system", Content: summaryPrompt},
		{Role: "user", Content: fmt.Sprintf(
			"Generate an executive summary based on these projects and tasks:\n\nProjects: %s\n\nTasks: %s", pj, tj)},
	}

	text, err := w.Completer.Complete(ctx, key, msgs, 0.7)
	if err != nil {
		log.Printf("summary: falling back: %v", err)
		return fallbackSummary(len(projects), len(tasks)), SourceFallback
	}
	return text, SourceModel
}

func fallbackSummary(projects, tasks int) string {
	return fmt.Sprintf(
		"Welcome to your Life Manage dashboard. You currently have %d active projects and %d pending tasks.\n\n"+
			"Focus on completing your highest priority tasks first, especially those related to work projects with upcoming deadlines.\n\n"+
			"Take a moment to reflect: Are your current projects aligned with your long-term goals? Consider reviewing your project list and adjusting priorities accordingly.",
		projects, tasks)
}

package store

import (
	"encoding/json"
	"time"
)

type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
)

func (c Category) Valid() bool {
	return c == CategoryWork || c == CategoryPersonal
}

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

func (s ProjectStatus) Valid() bool {
	return s == ProjectActive || s == ProjectCompleted || s == ProjectArchived
}

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// Task status transitions are unordered: any status may follow any other.
func (s TaskStatus) Valid() bool {
	return s == TaskPending || s == TaskInProgress || s == TaskCompleted
}

// UserSettings holds the per-user completion-API credential. One row per
// user, created on first save. The key is stored as-is; at-rest encryption
// is an open question inherited from the source system.
type UserSettings struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	UserID       uint64    `gorm:"uniqueIndex;not null" json:"user_id"`
	OpenAIKey    *string   `gorm:"column:open_ai_key;type:text" json:"-"`
	HasOpenAIKey bool      `gorm:"column:has_open_ai_key;not null;default:false" json:"has_openai_key"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

// Project groups conversations, tasks and notes. Tags are an ordered
// display list, unique within the project, serialized as JSON so the same
// model runs on postgres and sqlite.
type Project struct {
	ID          uint64        `gorm:"primaryKey" json:"id"`
	UserID      uint64        `gorm:"index;not null" json:"user_id"`
	Title       string        `gorm:"type:text;not null" json:"title"`
	Description *string       `gorm:"type:text" json:"description"`
	Category    Category      `gorm:"type:text;not null" json:"category"`
	Tags        []string      `gorm:"serializer:json;not null" json:"tags"`
	Status      ProjectStatus `gorm:"type:text;not null" json:"status"`
	Priority    int           `gorm:"not null;default:0" json:"priority"`
	CreatedAt   time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"index;not null" json:"updated_at"`
}

// Conversation is an imported chat transcript. Content is the raw export
// entry (id, title, times, mapping of message id -> message) kept opaque;
// only ProjectID and Title mutate after import.
type Conversation struct {
	ID        uint64          `gorm:"primaryKey" json:"id"`
	UserID    uint64          `gorm:"index;not null" json:"user_id"`
	ProjectID *uint64         `gorm:"index" json:"project_id"`
	Title     string          `gorm:"type:text;not null" json:"title"`
	Content   json.RawMessage `gorm:"type:jsonb;not null" json:"content"`
	SourceID  string          `gorm:"type:text;not null" json:"source_id"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"index;not null" json:"updated_at"`
}

type Task struct {
	ID          uint64     `gorm:"primaryKey" json:"id"`
	UserID      uint64     `gorm:"index;not null" json:"user_id"`
	ProjectID   uint64     `gorm:"index;not null" json:"project_id"`
	Title       string     `gorm:"type:text;not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	Status      TaskStatus `gorm:"type:text;not null" json:"status"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

type Note struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"index;not null" json:"user_id"`
	ProjectID uint64    `gorm:"index;not null" json:"project_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// dedupeTags keeps first occurrence order.
func dedupeTags(tags []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type CreateConversationInput struct {
	Title    string
	Content  json.RawMessage
	SourceID string
}

// ConversationPatch covers the only two fields that mutate after import.
// ProjectID uses a double pointer so a patch can distinguish "leave alone"
// (nil) from "clear the assignment" (pointer to nil).
type ConversationPatch struct {
	Title     *string
	ProjectID **uint64
}

// ListConversations returns the user's conversations, most recently updated
// first. With a non-nil projectID the result narrows to that project;
// uncategorized narrows to conversations with no project yet.
func (s *Store) ListConversations(ctx context.Context, userID uint64, projectID *uint64, uncategorized bool) ([]Conversation, error) {
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if projectID != nil {
		q = q.Where("project_id = ?", *projectID)
	}
	if uncategorized {
		q = q.Where("project_id IS NULL")
	}

	out := []Conversation{}
	err := q.Order("updated_at desc").Find(&out).Error
	return out, err
}

func (s *Store) GetConversation(ctx context.Context, userID, id uint64) (Conversation, error) {
	var c Conversation
	err := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&c).Error
	if err != nil {
		return Conversation{}, notFoundOr(err)
	}
	return c, nil
}

// CreateConversation stores an imported transcript with no project
// assignment; categorization fills that in later.
func (s *Store) CreateConversation(ctx context.Context, userID uint64, in CreateConversationInput) (Conversation, error) {
	if in.Title == "" {
		return Conversation{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if len(in.Content) == 0 {
		return Conversation{}, fmt.Errorf("%w: content is required", ErrInvalid)
	}

	c := Conversation{
		UserID:   userID,
		Title:    in.Title,
		Content:  in.Content,
		SourceID: in.SourceID,
	}
	if err := s.DB.WithContext(ctx).Create(&c).Error; err != nil {
		return Conversation{}, err
	}
	return c, nil
}

func (s *Store) UpdateConversation(ctx context.Context, userID, id uint64, patch ConversationPatch) (Conversation, error) {
	if _, err := s.GetConversation(ctx, userID, id); err != nil {
		return Conversation{}, err
	}

	updates := map[string]any{"updated_at": time.Now()}
	if patch.Title != nil {
		if *patch.Title == "" {
			return Conversation{}, fmt.Errorf("%w: title is required", ErrInvalid)
		}
		updates["title"] = *patch.Title
	}
	if patch.ProjectID != nil {
		if pid := *patch.ProjectID; pid != nil {
			if _, err := s.GetProject(ctx, userID, *pid); err != nil {
				return Conversation{}, err
			}
			updates["project_id"] = *pid
		} else {
			updates["project_id"] = nil
		}
	}

	err := s.DB.WithContext(ctx).Model(&Conversation{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates).Error
	if err != nil {
		return Conversation{}, err
	}
	return s.GetConversation(ctx, userID, id)
}

func (s *Store) DeleteConversation(ctx context.Context, userID, id uint64) error {
	tx := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&Conversation{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

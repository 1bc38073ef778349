package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type CreateProjectInput struct {
	Title       string
	Description *string
	Category    Category
	Tags        []string
	Status      ProjectStatus
	Priority    int
}

// ProjectPatch is a partial update; nil fields are left untouched.
type ProjectPatch struct {
	Title       *string
	Description *string
	Category    *Category
	Tags        *[]string
	Status      *ProjectStatus
	Priority    *int
}

// ListProjects returns the user's projects ordered by priority (highest
// first), then most recently updated.
func (s *Store) ListProjects(ctx context.Context, userID uint64) ([]Project, error) {
	out := []Project{}
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("priority desc, updated_at desc").
		Find(&out).Error
	return out, err
}

func (s *Store) GetProject(ctx context.Context, userID, id uint64) (Project, error) {
	var p Project
	err := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&p).Error
	if err != nil {
		return Project{}, notFoundOr(err)
	}
	return p, nil
}

func (s *Store) CreateProject(ctx context.Context, userID uint64, in CreateProjectInput) (Project, error) {
	if in.Title == "" {
		return Project{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if !in.Category.Valid() {
		return Project{}, fmt.Errorf("%w: category %q", ErrInvalid, in.Category)
	}
	if in.Status == "" {
		in.Status = ProjectActive
	}
	if !in.Status.Valid() {
		return Project{}, fmt.Errorf("%w: status %q", ErrInvalid, in.Status)
	}

	p := Project{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Tags:        dedupeTags(in.Tags),
		Status:      in.Status,
		Priority:    in.Priority,
	}
	if err := s.DB.WithContext(ctx).Create(&p).Error; err != nil {
		return Project{}, err
	}
	return p, nil
}

func (s *Store) UpdateProject(ctx context.Context, userID, id uint64, patch ProjectPatch) (Project, error) {
	if _, err := s.GetProject(ctx, userID, id); err != nil {
		return Project{}, err
	}

	updates := map[string]any{"updated_at": time.Now()}
	if patch.Title != nil {
		if *patch.Title == "" {
			return Project{}, fmt.Errorf("%w: title is required", ErrInvalid)
		}
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Category != nil {
		if !patch.Category.Valid() {
			return Project{}, fmt.Errorf("%w: category %q", ErrInvalid, *patch.Category)
		}
		updates["category"] = *patch.Category
	}
	if patch.Tags != nil {
		// Map-based updates bypass the json serializer, so encode by hand.
		b, err := json.Marshal(dedupeTags(*patch.Tags))
		if err != nil {
			return Project{}, fmt.Errorf("%w: tags", ErrInvalid)
		}
		updates["tags"] = string(b)
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return Project{}, fmt.Errorf("%w: status %q", ErrInvalid, *patch.Status)
		}
		updates["status"] = *patch.Status
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}

	err := s.DB.WithContext(ctx).Model(&Project{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates).Error
	if err != nil {
		return Project{}, err
	}
	return s.GetProject(ctx, userID, id)
}

// Delete is not idempotent: removing an already-absent row fails with
// ErrNotFound. The same policy applies to every entity.
func (s *Store) DeleteProject(ctx context.Context, userID, id uint64) error {
	tx := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&Project{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

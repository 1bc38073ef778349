package store

import (
	"context"
	"fmt"
	"time"
)

type CreateTaskInput struct {
	ProjectID   uint64
	Title       string
	Description *string
	Status      TaskStatus
	DueDate     *time.Time
}

type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	DueDate     **time.Time
}

// ListTasks orders by due date ascending with undated tasks last. With a
// non-nil projectID the result narrows to that project.
func (s *Store) ListTasks(ctx context.Context, userID uint64, projectID *uint64) ([]Task, error) {
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if projectID != nil {
		q = q.Where("project_id = ?", *projectID)
	}

	out := []Task{}
	err := q.Order("due_date asc nulls last").Find(&out).Error
	return out, err
}

func (s *Store) GetTask(ctx context.Context, userID, id uint64) (Task, error) {
	var t Task
	err := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&t).Error
	if err != nil {
		return Task{}, notFoundOr(err)
	}
	return t, nil
}

// CreateTask requires an existing project owned by the same user: a task
// cannot exist without one.
func (s *Store) CreateTask(ctx context.Context, userID uint64, in CreateTaskInput) (Task, error) {
	if in.Title == "" {
		return Task{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if in.Status == "" {
		in.Status = TaskPending
	}
	if !in.Status.Valid() {
		return Task{}, fmt.Errorf("%w: status %q", ErrInvalid, in.Status)
	}
	if _, err := s.GetProject(ctx, userID, in.ProjectID); err != nil {
		if err == ErrNotFound {
			return Task{}, fmt.Errorf("%w: project %d does not exist", ErrInvalid, in.ProjectID)
		}
		return Task{}, err
	}

	t := Task{
		UserID:      userID,
		ProjectID:   in.ProjectID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		DueDate:     in.DueDate,
	}
	if err := s.DB.WithContext(ctx).Create(&t).Error; err != nil {
		return Task{}, err
	}
	return t, nil
}

func (s *Store) UpdateTask(ctx context.Context, userID, id uint64, patch TaskPatch) (Task, error) {
	if _, err := s.GetTask(ctx, userID, id); err != nil {
		return Task{}, err
	}

	updates := map[string]any{"updated_at": time.Now()}
	if patch.Title != nil {
		if *patch.Title == "" {
			return Task{}, fmt.Errorf("%w: title is required", ErrInvalid)
		}
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return Task{}, fmt.Errorf("%w: status %q", ErrInvalid, *patch.Status)
		}
		updates["status"] = *patch.Status
	}
	if patch.DueDate != nil {
		if d := *patch.DueDate; d != nil {
			updates["due_date"] = *d
		} else {
			updates["due_date"] = nil
		}
	}

	err := s.DB.WithContext(ctx).Model(&Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates).Error
	if err != nil {
		return Task{}, err
	}
	return s.GetTask(ctx, userID, id)
}

func (s *Store) DeleteTask(ctx context.Context, userID, id uint64) error {
	tx := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&Task{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

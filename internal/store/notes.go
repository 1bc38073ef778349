package store

import (
	"context"
	"fmt"
	"time"
)

// ListNotes returns a project's notes, newest first.
func (s *Store) ListNotes(ctx context.Context, userID, projectID uint64) ([]Note, error) {
	out := []Note{}
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

func (s *Store) GetNote(ctx context.Context, userID, id uint64) (Note, error) {
	var n Note
	err := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error
	if err != nil {
		return Note{}, notFoundOr(err)
	}
	return n, nil
}

func (s *Store) CreateNote(ctx context.Context, userID, projectID uint64, content string) (Note, error) {
	if content == "" {
		return Note{}, fmt.Errorf("%w: content is required", ErrInvalid)
	}
	if _, err := s.GetProject(ctx, userID, projectID); err != nil {
		if err == ErrNotFound {
			return Note{}, fmt.Errorf("%w: project %d does not exist", ErrInvalid, projectID)
		}
		return Note{}, err
	}

	n := Note{UserID: userID, ProjectID: projectID, Content: content}
	if err := s.DB.WithContext(ctx).Create(&n).Error; err != nil {
		return Note{}, err
	}
	return n, nil
}

// UpdateNote replaces the note's content wholesale; notes have no partial
// structure worth patching.
func (s *Store) UpdateNote(ctx context.Context, userID, id uint64, content string) (Note, error) {
	if content == "" {
		return Note{}, fmt.Errorf("%w: content is required", ErrInvalid)
	}
	if _, err := s.GetNote(ctx, userID, id); err != nil {
		return Note{}, err
	}

	err := s.DB.WithContext(ctx).Model(&Note{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"content": content, "updated_at": time.Now()}).Error
	if err != nil {
		return Note{}, err
	}
	return s.GetNote(ctx, userID, id)
}

func (s *Store) DeleteNote(ctx context.Context, userID, id uint64) error {
	tx := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&Note{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

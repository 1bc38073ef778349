package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// GetSettings fails with ErrNotFound until the user saves a key for the
// first time; the app never deletes the row itself.
func (s *Store) GetSettings(ctx context.Context, userID uint64) (UserSettings, error) {
	var us UserSettings
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&us).Error
	if err != nil {
		return UserSettings{}, notFoundOr(err)
	}
	return us, nil
}

// SaveOpenAIKey upserts the persisted credential slot. Keys are checked
// against the provider's "sk-" prefix only; the value is stored cleartext
// (open question inherited from the source system, see DESIGN.md).
func (s *Store) SaveOpenAIKey(ctx context.Context, userID uint64, key string) (UserSettings, error) {
	key = strings.TrimSpace(key)
	if !strings.HasPrefix(key, "sk-") {
		return UserSettings{}, fmt.Errorf("%w: key must start with sk-", ErrInvalid)
	}

	us, err := s.GetSettings(ctx, userID)
	if err == ErrNotFound {
		us = UserSettings{UserID: userID, OpenAIKey: &key, HasOpenAIKey: true}
		if err := s.DB.WithContext(ctx).Create(&us).Error; err != nil {
			return UserSettings{}, err
		}
		return us, nil
	}
	if err != nil {
		return UserSettings{}, err
	}

	err = s.DB.WithContext(ctx).Model(&UserSettings{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"open_ai_key":     key,
			"has_open_ai_key": true,
			"updated_at":      time.Now(),
		}).Error
	if err != nil {
		return UserSettings{}, err
	}
	return s.GetSettings(ctx, userID)
}

// ClearOpenAIKey empties the persisted slot without deleting the row.
func (s *Store) ClearOpenAIKey(ctx context.Context, userID uint64) error {
	if _, err := s.GetSettings(ctx, userID); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&UserSettings{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"open_ai_key":     nil,
			"has_open_ai_key": false,
			"updated_at":      time.Now(),
		}).Error
}

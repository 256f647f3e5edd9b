package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sahilchouksey/admissions-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSessionNotFound is returned when a well-formed key has no live row
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists session tokens, one row per user
type SessionStore struct {
	db     *gorm.DB
	tokens *TokenManager
}

// NewSessionStore creates a new session store
func NewSessionStore(db *gorm.DB, tokens *TokenManager) *SessionStore {
	return &SessionStore{db: db, tokens: tokens}
}

// WithTx returns a copy of the store bound to tx
func (s *SessionStore) WithTx(tx *gorm.DB) *SessionStore {
	return &SessionStore{db: tx, tokens: s.tokens}
}

// Issue creates a new token row for the user. It fails with a unique
// violation if the user already holds one.
func (s *SessionStore) Issue(ctx context.Context, userID uint) (*model.SessionToken, error) {
	key, err := s.tokens.Generate(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session key: %w", err)
	}

	token := &model.SessionToken{Key: key, UserID: userID}
	if err := s.db.WithContext(ctx).Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

// GetOrCreate returns the user's live token, inserting one if none exists.
// Concurrent callers all end up with the same row.
func (s *SessionStore) GetOrCreate(ctx context.Context, userID uint) (*model.SessionToken, error) {
	key, err := s.tokens.Generate(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session key: %w", err)
	}

	candidate := model.SessionToken{Key: key, UserID: userID}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&candidate).Error
	if err != nil {
		return nil, err
	}

	var token model.SessionToken
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// Rotate drops whatever token the user holds and issues a new one. Run it
// inside a transaction so the user is never left without a token.
func (s *SessionStore) Rotate(ctx context.Context, userID uint) (*model.SessionToken, error) {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.SessionToken{}).Error; err != nil {
		return nil, err
	}
	return s.Issue(ctx, userID)
}

// Revoke deletes the row holding key. A missing row is not an error.
func (s *SessionStore) Revoke(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&model.SessionToken{}).Error
}

// Lookup verifies key and loads its row together with the owning user
func (s *SessionStore) Lookup(ctx context.Context, key string) (*model.SessionToken, error) {
	claims, err := s.tokens.Parse(key)
	if err != nil {
		return nil, err
	}

	var token model.SessionToken
	err = s.db.WithContext(ctx).
		Preload("User").
		Where("key = ?", key).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if token.UserID != claims.UserID || token.User == nil {
		return nil, ErrSessionNotFound
	}
	return &token, nil
}

// PurgeOlderThan removes tokens created before cutoff and reports how many
func (s *SessionStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.SessionToken{})
	return result.RowsAffected, result.Error
}

// Count returns the number of live tokens
func (s *SessionStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.SessionToken{}).Count(&count).Error
	return count, err
}

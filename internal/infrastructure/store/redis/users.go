package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/rueidis"

	"github.com/prodlens/backend/internal/domain"
)

// userRecord is the stored form of a user; domain.User hides the hash from JSON.
type userRecord struct {
	domain.User
	PasswordHash string `json:"passwordHash"`
}

// CreateUser claims the email with SET NX, then stores the user document.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(userRecord{User: *user, PasswordHash: user.PasswordHash})
	if err != nil {
		return &Error{Op: OpCodec, Err: err}
	}

	claim := s.b().Set().Key(s.keys.userEmail(user.Email)).Value(user.ID).Nx().Build()
	if err := s.do(ctx, claim).Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return domain.ErrConflict
		}
		return &Error{Op: OpSet, Err: err}
	}

	if err := s.do(ctx, s.b().Set().Key(s.keys.user(user.ID)).Value(string(raw)).Build()).Error(); err != nil {
		return &Error{Op: OpSet, Err: err}
	}
	return nil
}

// FindUserByEmail resolves the email index, then loads the user.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, err := s.do(ctx, s.b().Get().Key(s.keys.userEmail(email)).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, domain.ErrNotFound
		}
		return nil, &Error{Op: OpGet, Err: err}
	}
	return s.FindUserByID(ctx, id)
}

// FindUserByID loads a user document.
func (s *Store) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	raw, err := s.do(ctx, s.b().Get().Key(s.keys.user(id)).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, domain.ErrNotFound
		}
		return nil, &Error{Op: OpGet, Err: err}
	}

	var rec userRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, &Error{Op: OpCodec, Err: err}
	}
	user := rec.User
	user.PasswordHash = rec.PasswordHash
	return &user, nil
}

package store

import (
	"fmt"

	"github.com/bibliogo/apiserver/types"
)

// userRecord is the persisted shape of a user. Unlike the API type it
// carries the password hash.
type userRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Surname1     string `json:"surname1"`
	Surname2     string `json:"surname2"`
	Role         string `json:"role"`
	PasswordHash string `json:"password_hash"`
}

// UserStore owns the set of registered users for one request cycle.
// The durable snapshot is the source of truth between operations.
type UserStore struct {
	path  string
	users []types.User
}

// NewUserStore constructs a store over the snapshot at path. Call Load
// before reading.
func NewUserStore(path string) *UserStore {
	return &UserStore{path: path}
}

// Load restores the user set from durable storage. An absent snapshot
// yields an empty set.
func (s *UserStore) Load() error {
	var records []userRecord
	if err := loadSnapshot(s.path, &records); err != nil {
		return err
	}
	s.users = s.users[:0]
	for _, r := range records {
		s.users = append(s.users, types.User{
			ID:           r.ID,
			Name:         r.Name,
			Surname1:     r.Surname1,
			Surname2:     r.Surname2,
			Role:         r.Role,
			PasswordHash: r.PasswordHash,
		})
	}
	return nil
}

// Save persists the full set, atomically replacing the prior snapshot.
func (s *UserStore) Save() error {
	records := make([]userRecord, 0, len(s.users))
	for _, u := range s.users {
		records = append(records, userRecord{
			ID:           u.ID,
			Name:         u.Name,
			Surname1:     u.Surname1,
			Surname2:     u.Surname2,
			Role:         u.Role,
			PasswordHash: u.PasswordHash,
		})
	}
	return saveSnapshot(s.path, records)
}

// Find returns the user with the given id or ErrNotFound.
func (s *UserStore) Find(id string) (types.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return types.User{}, ErrNotFound
}

// Add inserts a user. A duplicate identifier fails with ErrAlreadyExists.
func (s *UserStore) Add(user types.User) error {
	if _, err := s.Find(user.ID); err == nil {
		return fmt.Errorf("user %s: %w", user.ID, ErrAlreadyExists)
	}
	s.users = append(s.users, user)
	return nil
}

// Remove deletes the user with the given id or fails with ErrNotFound.
func (s *UserStore) Remove(id string) error {
	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("user %s: %w", id, ErrNotFound)
}

// Update mutates the name fields of an existing user in place.
func (s *UserStore) Update(id, name, surname1, surname2 string) error {
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].Name = name
			s.users[i].Surname1 = surname1
			s.users[i].Surname2 = surname2
			return nil
		}
	}
	return fmt.Errorf("user %s: %w", id, ErrNotFound)
}

// ChangePassword replaces the stored hash when oldHash matches. A
// mismatch reports false without an error; a missing user is an error.
// Callers must preserve this two-channel policy.
func (s *UserStore) ChangePassword(id, oldHash, newHash string) (bool, error) {
	for i := range s.users {
		if s.users[i].ID == id {
			if s.users[i].PasswordHash != oldHash {
				return false, nil
			}
			s.users[i].PasswordHash = newHash
			return true, nil
		}
	}
	return false, fmt.Errorf("user %s: %w", id, ErrNotFound)
}

// All returns the users in snapshot order.
func (s *UserStore) All() []types.User {
	return s.users
}

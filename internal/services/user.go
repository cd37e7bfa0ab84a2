package services

import (
	"context"
	"fmt"

	"github.com/bibliogo/apiserver/config"
	"github.com/bibliogo/apiserver/internal/auth"
	"github.com/bibliogo/apiserver/internal/store"
	"github.com/bibliogo/apiserver/types"
)

// UserService encapsulates user use-cases. Every operation loads the
// directory fresh from the durable snapshot and saves it back at the
// end; the snapshot is the single source of truth between operations.
type UserService struct {
	cfg config.Config
}

func NewUserService(cfg config.Config) *UserService {
	return &UserService{cfg: cfg}
}

func (s *UserService) users() (*store.UserStore, error) {
	us := store.NewUserStore(s.cfg.UsersPath())
	if err := us.Load(); err != nil {
		return nil, err
	}
	return us, nil
}

// Get returns the user with the given identifier.
func (s *UserService) Get(ctx context.Context, id string) (types.User, error) {
	us, err := s.users()
	if err != nil {
		return types.User{}, err
	}
	return us.Find(id)
}

// Create registers a user. The caller supplies an already-hashed password.
func (s *UserService) Create(ctx context.Context, user types.User) error {
	us, err := s.users()
	if err != nil {
		return err
	}
	if err := us.Add(user); err != nil {
		return err
	}
	return us.Save()
}

// Update mutates the name fields of an existing user.
func (s *UserService) Update(ctx context.Context, id, name, surname1, surname2 string) error {
	us, err := s.users()
	if err != nil {
		return err
	}
	if err := us.Update(id, name, surname1, surname2); err != nil {
		return err
	}
	return us.Save()
}

// Delete removes a user. A user holding at least one active loan cannot
// be removed; the attempt fails with ErrNotAvailable.
func (s *UserService) Delete(ctx context.Context, id string) error {
	ls := store.NewLoanStore(s.cfg.LoansPath())
	if err := ls.Load(); err != nil {
		return err
	}
	for range ls.LoansByUser(id) {
		return fmt.Errorf("user %s holds active loans: %w", id, store.ErrNotAvailable)
	}

	us, err := s.users()
	if err != nil {
		return err
	}
	if err := us.Remove(id); err != nil {
		return err
	}
	return us.Save()
}

// Authenticate compares the deterministic digest of the presented
// password against the stored hash. A missing user and a wrong password
// are both reported as a plain false.
func (s *UserService) Authenticate(ctx context.Context, id, password string) (types.User, bool) {
	us, err := s.users()
	if err != nil {
		return types.User{}, false
	}
	user, err := us.Find(id)
	if err != nil {
		return types.User{}, false
	}
	if user.PasswordHash != auth.HashPassword(password) {
		return types.User{}, false
	}
	return user, true
}

// ChangePassword swaps the stored digest when the old one matches.
// A mismatch returns false without an error; a missing user is an error.
func (s *UserService) ChangePassword(ctx context.Context, id, oldHash, newHash string) (bool, error) {
	us, err := s.users()
	if err != nil {
		return false, err
	}
	ok, err := us.ChangePassword(id, oldHash, newHash)
	if err != nil || !ok {
		return ok, err
	}
	return true, us.Save()
}

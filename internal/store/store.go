package store

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// AuthResult mirrors the object store's authenticate-user outcome (spec
// §4.6 "authenticate (user, password) -> {result, user?}").
type AuthResult int

const (
	AuthSuccess AuthResult = iota
	AuthNoUser
	AuthBadPassword
	AuthNotValidated
)

// Store is the object store's users object set plus the shared path
// layout new bases (message/file, once built) are rooted under.
type Store struct {
	Users *UserRegistry
	root  string
}

// Open loads or bootstraps the store rooted at dir (spec §4.6: one
// directory per object set, "users" among them).
func Open(dir string) (*Store, error) {
	users, err := OpenUserRegistry(dir + "/users")
	if err != nil {
		return nil, fmt.Errorf("store: opening users: %w", err)
	}
	s := &Store{Users: users, root: dir}
	if users.Count() == 0 {
		if _, err := s.CreateUser("sysop", "sysop", "Sysop"); err != nil {
			return nil, fmt.Errorf("store: bootstrapping default sysop account: %w", err)
		}
		if rec, ok := users.GetByUsername("sysop"); ok {
			rec.AccessLevel = 255
			rec.Validated = true
			if err := users.Update(rec); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// Authenticate checks username/password against bcrypt-hashed credentials.
// The hash itself (not the surrounding record, which is XOR-obfuscated at
// rest for a different reason) is where real cryptographic strength lives.
func (s *Store) Authenticate(username, password string) (AuthResult, UserRecord) {
	rec, ok := s.Users.GetByUsername(username)
	if !ok {
		return AuthNoUser, UserRecord{}
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return AuthBadPassword, UserRecord{}
	}
	if !rec.Validated {
		return AuthNotValidated, rec
	}
	return AuthSuccess, rec
}

// UsernameAvailable reports whether username is free for registration.
func (s *Store) UsernameAvailable(username string) bool {
	_, ok := s.Users.GetByUsername(username)
	return !ok
}

// CreateUser adds a brand-new account with a bcrypt-hashed password,
// unvalidated by default unless the caller flips it afterward.
func (s *Store) CreateUser(username, password, handle string) (UserRecord, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return UserRecord{}, fmt.Errorf("store: hashing password: %w", err)
	}
	now := time.Now()
	return s.Users.AddUser(UserRecord{
		Username:     username,
		PasswordHash: string(hash),
		Handle:       handle,
		AccessLevel:  10,
		CreatedAt:    now,
		TimeLimit:    60,
	})
}

// RecordLogin bumps a user's call counter and last-login timestamp.
func (s *Store) RecordLogin(id uint32) error {
	rec, ok := s.Users.GetByID(id)
	if !ok {
		return ErrUserNotFound
	}
	rec.TimesCalled++
	rec.LastLogin = time.Now()
	return s.Users.Update(rec)
}

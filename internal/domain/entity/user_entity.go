package entity

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"io"
	"strings"

	"github.com/google/uuid"
)

// User is the aggregate root for the user domain. It owns the identity
// attributes and the password credential; every mutation goes through its methods.
//
// A User is not safe for concurrent mutation. Callers that share one
// instance across goroutines must serialize ChangePassword themselves.
type User struct {
	id            uuid.UUID
	name          string
	email         string
	passwordHash  []byte
	passwordSalt  []byte
	emailVerified bool

	hasher PasswordHasher
	random io.Reader
}

// Option tunes how a User derives credentials.
type Option func(*User)

// WithHasher selects the password scheme. Defaults to HMACSHA512.
func WithHasher(h PasswordHasher) Option {
	return func(u *User) {
		if h != nil {
			u.hasher = h
		}
	}
}

// WithRand replaces crypto/rand as the salt source, mostly so tests can be deterministic.
func WithRand(r io.Reader) Option {
	return func(u *User) {
		if r != nil {
			u.random = r
		}
	}
}

// NewUser validates the inputs and derives a fresh credential.
// The password is not subject to any strength policy.
func NewUser(name, email, password string, opts ...Option) (*User, error) {
	validEmail, err := validateEmail(email)
	if err != nil {
		return nil, err
	}

	u := &User{
		id:     uuid.New(),
		name:   name,
		email:  validEmail,
		hasher: HMACSHA512,
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(u)
	}

	hash, salt, err := createPasswordHash(u.hasher, u.random, password)
	if err != nil {
		return nil, err
	}
	u.passwordHash, u.passwordSalt = hash, salt
	return u, nil
}

// Rehydrate rebuilds a User from stored state without any validation.
// It exists for persistence adapters only; the caller vouches for every field.
// Unless WithHasher is given the scheme is inferred from the stored lengths.
func Rehydrate(id uuid.UUID, name, email string, passwordHash, passwordSalt []byte, emailVerified bool, opts ...Option) *User {
	u := &User{
		id:            id,
		name:          name,
		email:         email,
		passwordHash:  bytes.Clone(passwordHash),
		passwordSalt:  bytes.Clone(passwordSalt),
		emailVerified: emailVerified,
		hasher:        hasherFor(passwordHash, passwordSalt),
		random:        rand.Reader,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *User) ID() uuid.UUID         { return u.id }
func (u *User) Name() string          { return u.name }
func (u *User) Email() string         { return u.email }
func (u *User) IsEmailVerified() bool { return u.emailVerified }

// PasswordHash returns a copy of the stored digest.
func (u *User) PasswordHash() []byte { return bytes.Clone(u.passwordHash) }

// PasswordSalt returns a copy of the stored salt.
func (u *User) PasswordSalt() []byte { return bytes.Clone(u.passwordSalt) }

// VerifyPassword recomputes the keyed hash under the stored salt and compares in constant time.
func (u *User) VerifyPassword(password string) bool {
	if u.hasher == nil || len(u.passwordHash) == 0 {
		return false
	}
	computed := u.hasher.Sum(u.passwordSalt, password)
	return hmac.Equal(computed, u.passwordHash)
}

// ChangePassword replaces the credential with a pair derived from newPassword.
// The old salt is discarded. On error the existing pair is left as it was.
func (u *User) ChangePassword(newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return invalidArgument("newPassword", "new password cannot be empty.")
	}
	h := u.hasher
	if h == nil {
		h = HMACSHA512
	}
	hash, salt, err := createPasswordHash(h, u.random, newPassword)
	if err != nil {
		return err
	}
	u.passwordHash, u.passwordSalt, u.hasher = hash, salt, h
	return nil
}

// SetEmailVerified marks the email as verified. There is no way back.
func (u *User) SetEmailVerified() {
	u.emailVerified = true
}

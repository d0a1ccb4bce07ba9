package entity

import (
	"crypto/hmac"
	"crypto/sha512"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// PasswordHasher is a keyed hash over the plaintext password where the salt is the key.
// Implementations must be deterministic for a given (salt, password).
type PasswordHasher interface {
	Name() string
	SaltSize() int
	Size() int
	Sum(salt []byte, password string) []byte
}

type hmacSHA512 struct{}

// HMACSHA512 keys HMAC-SHA512 with a 128-byte random salt and yields a 64-byte digest.
// It is a single fast pass, not a slow password KDF; see Argon2id.
var HMACSHA512 PasswordHasher = hmacSHA512{}

func (hmacSHA512) Name() string  { return "hmac-sha512" }
func (hmacSHA512) SaltSize() int { return sha512.BlockSize }
func (hmacSHA512) Size() int     { return sha512.Size }

func (hmacSHA512) Sum(salt []byte, password string) []byte {
	mac := hmac.New(sha512.New, salt)
	mac.Write([]byte(password))
	return mac.Sum(nil)
}

const (
	argonTime    uint32 = 3
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 2
	argonKeyLen  uint32 = 32
	argonSaltLen        = 16
)

type argon2id struct{}

// Argon2id is the memory-hard alternative. Same contract, different stored lengths.
var Argon2id PasswordHasher = argon2id{}

func (argon2id) Name() string  { return "argon2id" }
func (argon2id) SaltSize() int { return argonSaltLen }
func (argon2id) Size() int     { return int(argonKeyLen) }

func (argon2id) Sum(salt []byte, password string) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

var knownHashers = []PasswordHasher{HMACSHA512, Argon2id}

// HasherByName resolves a configured scheme name. Empty selects HMACSHA512.
func HasherByName(name string) (PasswordHasher, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return HMACSHA512, nil
	}
	for _, h := range knownHashers {
		if h.Name() == n {
			return h, nil
		}
	}
	return nil, fmt.Errorf("unknown password scheme %q", name)
}

// hasherFor picks the scheme that produced a stored pair from its lengths.
func hasherFor(hash, salt []byte) PasswordHasher {
	for _, h := range knownHashers {
		if len(salt) == h.SaltSize() && len(hash) == h.Size() {
			return h
		}
	}
	return nil
}

// createPasswordHash derives a fresh (hash, salt) pair; the salt never comes from the caller.
func createPasswordHash(h PasswordHasher, random io.Reader, password string) (hash, salt []byte, err error) {
	salt = make([]byte, h.SaltSize())
	if _, err := io.ReadFull(random, salt); err != nil {
		return nil, nil, fmt.Errorf("generate password salt: %w", err)
	}
	return h.Sum(salt, password), salt, nil
}

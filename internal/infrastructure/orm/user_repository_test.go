package orm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oksasatya/go-ddd-user-credential/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-credential/internal/domain/repository"
)

func newRepositoryDBForTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := Open(dsn, false)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func mustUser(t *testing.T, name, email, password string) *entity.User {
	t.Helper()
	u, err := entity.NewUser(name, email, password)
	if err != nil {
		t.Fatalf("new user: %v", err)
	}
	return u
}

func TestUserRepositoryCreateAndLoad(t *testing.T) {
	repo := NewUserRepository(newRepositoryDBForTest(t))
	ctx := context.Background()

	u := mustUser(t, "John Doe", "john.doe@example.com", "Password123")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}

	byID, err := repo.GetByID(ctx, u.ID())
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.ID() != u.ID() || byID.Name() != "John Doe" || byID.Email() != "john.doe@example.com" {
		t.Fatalf("unexpected user loaded: id=%s name=%q email=%q", byID.ID(), byID.Name(), byID.Email())
	}
	if byID.IsEmailVerified() {
		t.Fatal("expected unverified user")
	}
	if !byID.VerifyPassword("Password123") {
		t.Fatal("expected stored credential to verify")
	}

	byEmail, err := repo.GetByEmail(ctx, "john.doe@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID() != u.ID() {
		t.Fatalf("id mismatch: got %s want %s", byEmail.ID(), u.ID())
	}
}

func TestUserRepositoryUpdatePersistsRotationAndVerification(t *testing.T) {
	repo := NewUserRepository(newRepositoryDBForTest(t))
	ctx := context.Background()

	u := mustUser(t, "Jane", "jane@example.com", "OldPassword789")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := u.ChangePassword("NewPassword123"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	u.SetEmailVerified()
	if err := repo.Update(ctx, u); err != nil {
		t.Fatalf("update: %v", err)
	}

	loaded, err := repo.GetByID(ctx, u.ID())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !loaded.IsEmailVerified() {
		t.Fatal("expected verified flag to persist")
	}
	if !loaded.VerifyPassword("NewPassword123") || loaded.VerifyPassword("OldPassword789") {
		t.Fatal("expected rotated credential to persist")
	}
	if string(loaded.PasswordSalt()) != string(u.PasswordSalt()) {
		t.Fatal("salt mismatch after reload")
	}
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(newRepositoryDBForTest(t))
	ctx := context.Background()

	if err := repo.Create(ctx, mustUser(t, "a", "dup@example.com", "pw")); err != nil {
		t.Fatalf("create first: %v", err)
	}
	err := repo.Create(ctx, mustUser(t, "b", "dup@example.com", "pw"))
	if !errors.Is(err, repository.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserRepositoryNotFoundCases(t *testing.T) {
	repo := NewUserRepository(newRepositoryDBForTest(t))
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, uuid.New()); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "ghost@example.com"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound by email, got %v", err)
	}
	ghost := mustUser(t, "ghost", "ghost@example.com", "pw")
	if err := repo.Update(ctx, ghost); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on update, got %v", err)
	}
}

func TestUserRepositoryArgon2idRoundTrip(t *testing.T) {
	repo := NewUserRepository(newRepositoryDBForTest(t))
	ctx := context.Background()

	u, err := entity.NewUser("argon", "argon@example.com", "Password123", entity.WithHasher(entity.Argon2id))
	if err != nil {
		t.Fatalf("new user: %v", err)
	}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	loaded, err := repo.GetByEmail(ctx, "argon@example.com")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.VerifyPassword("Password123") {
		t.Fatal("expected argon2id credential to verify after reload")
	}
}

package orm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oksasatya/go-ddd-user-credential/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-credential/internal/domain/repository"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	rec := toRecord(u)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return toEntity(rec), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return toEntity(rec), nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	res := r.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", u.ID()).
		Updates(map[string]any{
			"password_hash":  u.PasswordHash(),
			"password_salt":  u.PasswordSalt(),
			"email_verified": u.IsEmailVerified(),
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

func toRecord(u *entity.User) userRecord {
	return userRecord{
		ID:            u.ID(),
		Name:          u.Name(),
		Email:         u.Email(),
		PasswordHash:  u.PasswordHash(),
		PasswordSalt:  u.PasswordSalt(),
		EmailVerified: u.IsEmailVerified(),
	}
}

func toEntity(rec userRecord) *entity.User {
	return entity.Rehydrate(rec.ID, rec.Name, rec.Email, rec.PasswordHash, rec.PasswordSalt, rec.EmailVerified)
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrUserNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrEmailTaken
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

var _ repository.UserRepository = (*UserRepository)(nil)

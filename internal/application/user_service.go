package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-credential/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-user-credential/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-credential/pkg/helpers"
	"github.com/oksasatya/go-ddd-user-credential/pkg/mailer"
	"github.com/oksasatya/go-ddd-user-credential/pkg/mailer/templates"
	"github.com/oksasatya/go-ddd-user-credential/pkg/validation"
)

var (
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrUserNotFound            = errors.New("user not found")
	ErrAlreadyVerified         = errors.New("email already verified")
	ErrVerificationUnavailable = errors.New("email verification unavailable")
	ErrInvalidVerificationCode = errors.New("invalid or expired verification code")
)

const defaultVerifyTTL = 15 * time.Minute

// Publisher enqueues a JSON job. *helpers.RabbitQueue satisfies it.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type Service struct {
	Repo      repo.UserRepository
	Redis     *redis.Client
	Publisher Publisher
	Logger    *logrus.Logger
	Hasher    entity.PasswordHasher
	Validate  *validator.Validate

	VerifyTTL time.Duration
	VerifyURL string
	AppName   string
}

func NewService(r repo.UserRepository, rdb *redis.Client, pub Publisher, logger *logrus.Logger, hasher entity.PasswordHasher) *Service {
	return &Service{
		Repo:      r,
		Redis:     rdb,
		Publisher: pub,
		Logger:    logger,
		Hasher:    hasher,
		Validate:  validation.New(),
		VerifyTTL: defaultVerifyTTL,
	}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"shorttext"`
	Email    string `json:"email" validate:"shorttext"`
	Password string `json:"password" validate:"secret"`
}

// verification is what sits in Redis while a code is pending.
type verification struct {
	CodeHash  string    `json:"code_hash"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Register creates and stores a new user. Email format errors come back from the
// entity as entity.ErrInvalidArgument; a taken address as repository.ErrEmailTaken.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	v := s.Validate
	if v == nil {
		v = validation.New()
	}
	if err := validation.Struct(v, in); err != nil {
		return nil, err
	}

	u, err := entity.NewUser(in.Name, in.Email, in.Password, entity.WithHasher(s.Hasher))
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	helpers.LogInfo(s.Logger, "user registered", logrus.Fields{"user_id": u.ID().String()})
	return u, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword rotates the credential after checking the current password.
// The notification email is best-effort.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if !u.VerifyPassword(current) {
		return ErrInvalidCredentials
	}
	if err := u.ChangePassword(next); err != nil {
		return err
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return err
	}

	data := templates.NewData(s.AppName, u.Name(), u.Email(), templates.WithTime(time.Now()))
	s.enqueue(ctx, mailer.EmailJob{To: u.Email(), Template: templates.PasswordChanged, Data: templates.ToMap(data)})
	return nil
}

// RequestEmailVerification stores a fresh code for the user and enqueues the email carrying it.
// A new request replaces any pending code.
func (s *Service) RequestEmailVerification(ctx context.Context, userID uuid.UUID) error {
	if s.Redis == nil {
		return ErrVerificationUnavailable
	}
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if u.IsEmailVerified() {
		return ErrAlreadyVerified
	}

	code, err := helpers.GenOTPCode()
	if err != nil {
		return err
	}
	ttl := s.VerifyTTL
	if ttl <= 0 {
		ttl = defaultVerifyTTL
	}
	expires := time.Now().Add(ttl)
	rec := verification{CodeHash: helpers.HashOTPCode(code), Email: u.Email(), ExpiresAt: expires.UTC()}
	key := helpers.KeyEmailVerification(u.ID().String())
	if err := helpers.RedisSetJSON(ctx, s.Redis, key, rec, ttl); err != nil {
		helpers.LogError(s.Logger, "store verification code failed", err, logrus.Fields{"key": key})
		return err
	}

	opts := []templates.Option{templates.WithCode(code), templates.WithExpiresAt(expires)}
	if s.VerifyURL != "" {
		opts = append(opts, templates.WithVerifyURL(s.VerifyURL+"?uid="+u.ID().String()))
	}
	data := templates.NewData(s.AppName, u.Name(), u.Email(), opts...)
	s.enqueue(ctx, mailer.EmailJob{To: u.Email(), Template: templates.VerifyEmail, Data: templates.ToMap(data)})
	return nil
}

// ConfirmEmailVerification checks code against the pending one and marks the email verified.
// Confirming an already verified user succeeds without touching Redis.
func (s *Service) ConfirmEmailVerification(ctx context.Context, userID uuid.UUID, code string) error {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if u.IsEmailVerified() {
		return nil
	}
	if s.Redis == nil {
		return ErrVerificationUnavailable
	}

	key := helpers.KeyEmailVerification(u.ID().String())
	var rec verification
	found, err := helpers.RedisGetJSON(ctx, s.Redis, key, &rec)
	if err != nil {
		return err
	}
	if !found || rec.Email != u.Email() {
		return ErrInvalidVerificationCode
	}
	if subtle.ConstantTimeCompare([]byte(rec.CodeHash), []byte(helpers.HashOTPCode(code))) != 1 {
		return ErrInvalidVerificationCode
	}

	u.SetEmailVerified()
	if err := s.Repo.Update(ctx, u); err != nil {
		return err
	}
	if err := helpers.RedisDel(ctx, s.Redis, key); err != nil {
		helpers.LogError(s.Logger, "delete verification code failed", err, logrus.Fields{"key": key})
	}
	helpers.LogInfo(s.Logger, "email verified", logrus.Fields{"user_id": u.ID().String()})
	return nil
}

func (s *Service) enqueue(ctx context.Context, job mailer.EmailJob) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil {
		helpers.LogError(s.Logger, "failed to publish email job", err, logrus.Fields{"template": job.Template})
	}
}

package container

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/oksasatya/go-ddd-user-credential/config"
	"github.com/oksasatya/go-ddd-user-credential/internal/application"
	"github.com/oksasatya/go-ddd-user-credential/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-credential/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-credential/internal/infrastructure/orm"
	pginfra "github.com/oksasatya/go-ddd-user-credential/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-user-credential/pkg/helpers"
)

// Container holds the components built from one Config so commands can share them.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	PGPool *pgxpool.Pool
	GormDB *gorm.DB
	Redis  *redis.Client
	Queue  *helpers.RabbitQueue

	Users   repository.UserRepository
	Service *application.Service
}

// Build wires the user store selected by cfg.DBDriver, Redis, the email queue and the service.
// The queue is optional: when RabbitMQ is unreachable or mail is disabled the service runs without notifications.
func Build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	hasher, err := entity.HasherByName(cfg.PasswordScheme)
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: logger}

	switch cfg.DBDriver {
	case "sqlite", "gorm-postgres":
		open := orm.Open
		dsn := cfg.SQLiteDSN
		if cfg.DBDriver == "gorm-postgres" {
			open = orm.OpenPostgres
			dsn = cfg.PostgresDSN()
		}
		db, err := open(dsn, cfg.DBDebug)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
		}
		c.GormDB = db
		if err := orm.AutoMigrate(db); err != nil {
			c.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		c.Users = orm.NewUserRepository(db)
	case "postgres", "":
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		c.PGPool = pool
		c.Users = pginfra.NewUserRepository(pool)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.RedisAddr != "" {
		c.Redis = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}

	var pub application.Publisher
	if cfg.MailSendEnabled && cfg.RabbitMQURL != "" {
		q, err := helpers.NewRabbitQueue(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			helpers.LogError(logger, "email queue unavailable, notifications disabled", err, nil)
		} else {
			c.Queue = q
			pub = q
		}
	}

	svc := application.NewService(c.Users, c.Redis, pub, logger, hasher)
	svc.AppName = cfg.AppName
	svc.VerifyURL = cfg.VerifyEmailURL
	svc.VerifyTTL = cfg.EmailVerifyTTL
	c.Service = svc
	return c, nil
}

// Close releases everything Build opened.
func (c *Container) Close() {
	if c.Queue != nil {
		c.Queue.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.PGPool != nil {
		c.PGPool.Close()
	}
	if c.GormDB != nil {
		if sqlDB, err := c.GormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

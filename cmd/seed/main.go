package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-credential/config"
	"github.com/oksasatya/go-ddd-user-credential/internal/application"
	"github.com/oksasatya/go-ddd-user-credential/internal/container"
	"github.com/oksasatya/go-ddd-user-credential/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-credential/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	c, err := container.Build(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer c.Close()

	in := application.RegisterInput{
		Name:     getenv("SEED_NAME", "demoUser"),
		Email:    getenv("SEED_EMAIL", "demo@example.com"),
		Password: getenv("SEED_PASSWORD", "password123"),
	}

	u, err := c.Service.Register(ctx, in)
	if errors.Is(err, repository.ErrEmailTaken) {
		logger.WithField("email", in.Email).Info("seed user already exists")
		return
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	logger.WithFields(logrus.Fields{
		"id":    u.ID().String(),
		"email": u.Email(),
		"name":  u.Name(),
	}).Info("seeded user")

	if c.Redis != nil {
		if err := c.Service.RequestEmailVerification(ctx, u.ID()); err != nil {
			helpers.LogError(logger, "verification request for seed user failed", err, nil)
		}
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

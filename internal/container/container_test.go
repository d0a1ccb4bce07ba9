package container

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-user-credential/config"
	"github.com/oksasatya/go-ddd-user-credential/internal/application"
	"github.com/oksasatya/go-ddd-user-credential/internal/domain/entity"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	mr := miniredis.RunT(t)
	return &config.Config{
		AppName:        "test",
		DBDriver:       "sqlite",
		SQLiteDSN:      "file:container_test?mode=memory&cache=shared",
		RedisAddr:      mr.Addr(),
		PasswordScheme: "argon2id",
	}
}

func TestBuildSQLite(t *testing.T) {
	ctx := context.Background()
	c, err := Build(ctx, sqliteConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	assert.NotNil(t, c.GormDB)
	assert.Nil(t, c.PGPool)
	assert.Nil(t, c.Queue)
	assert.Equal(t, entity.Argon2id, c.Service.Hasher)

	u, err := c.Service.Register(ctx, application.RegisterInput{Name: "n", Email: "n@example.com", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, c.Service.RequestEmailVerification(ctx, u.ID()))
}

func TestBuildRejectsUnknownSettings(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.PasswordScheme = "md5"
	_, err := Build(context.Background(), cfg, nil)
	require.Error(t, err)

	cfg = sqliteConfig(t)
	cfg.DBDriver = "mysql"
	_, err = Build(context.Background(), cfg, nil)
	require.Error(t, err)
}

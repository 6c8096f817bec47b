package lib

import (
	"context"
	"fmt"
	"testing"

	"github.com/jurisalerta/jurisalerta/config"
	"github.com/jurisalerta/jurisalerta/lib/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Plan{},
		&models.Subscription{},
		&models.SearchTarget{},
		&models.SearchConfig{},
		&models.Publication{},
		&models.Admin{},
	))

	cfg := &config.Config{AdminJWTSecret: "test-secret"}
	return NewService(nil, cfg, zap.NewNop(), db)
}

func seedUser(t *testing.T, svc *Service, username string) *models.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), CreateUserParams{
		Username: username,
		Email:    username + "@example.com",
		Password: "segredo123",
		FullName: "Dr. " + username,
	})
	require.NoError(t, err)
	return user
}

func seedAdmin(t *testing.T, svc *Service, username, password string, active bool) *models.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	admin := &models.Admin{
		Username:     username,
		Email:        username + "@jurisalerta.com.br",
		PasswordHash: string(hash),
		IsActive:     active,
	}
	require.NoError(t, svc.db.Create(admin).Error)
	return admin
}

package lib

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jurisalerta/jurisalerta/config"
	"github.com/jurisalerta/jurisalerta/lib/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials hides whether the admin exists, is inactive, or the
// password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

type admins struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

const adminTokenTTL = 24 * time.Hour

// AdminLogin checks the credentials and issues an HS256 session token.
func (svc *admins) AdminLogin(ctx context.Context, username, password string) (string, *models.Admin, error) {
	admin := &models.Admin{}
	tx := svc.db.Where("username = ?", username).First(admin)
	if err := tx.Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	} else if err != nil {
		return "", nil, err
	}

	if !admin.IsActive {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	admin.LastLogin = sql.NullTime{Time: now, Valid: true}
	if err := svc.db.Model(admin).Update("last_login", admin.LastLogin).Error; err != nil {
		return "", nil, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"admin_id": admin.ID,
		"username": admin.Username,
		"exp":      now.Add(adminTokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(svc.cfg.AdminJWTSecret))
	if err != nil {
		return "", nil, err
	}

	svc.log.Sugar().Infow("Admin logged in", "admin_id", admin.ID, "username", admin.Username)
	return signed, admin, nil
}

// AdminFromToken validates a session token and loads the active admin it names.
func (svc *admins) AdminFromToken(ctx context.Context, tokenString string) (*models.Admin, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return []byte(svc.cfg.AdminJWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected token claims")
	}
	adminID, ok := claims["admin_id"].(float64)
	if !ok {
		return nil, errors.New("token missing admin_id claim")
	}

	admin := &models.Admin{}
	tx := svc.db.First(admin, uint(adminID))
	if err := tx.Error; err != nil {
		return nil, err
	}
	if !admin.IsActive {
		return nil, errors.New("admin is inactive")
	}
	return admin, nil
}

type DashboardStats struct {
	TotalUsers          int64 `json:"total_users"`
	ActiveUsers         int64 `json:"active_users"`
	TotalSubscriptions  int64 `json:"total_subscriptions"`
	ActiveSubscriptions int64 `json:"active_subscriptions"`
	TotalSearchTargets  int64 `json:"total_search_targets"`
	TotalPublications   int64 `json:"total_publications"`
	RecentUsers         int64 `json:"recent_users"`
}

func (svc *admins) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	weekAgo := time.Now().UTC().Add(-7 * 24 * time.Hour)

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalUsers, svc.db.Model(&models.User{})},
		{&stats.ActiveUsers, svc.db.Model(&models.User{}).Where("is_active = ?", true)},
		{&stats.TotalSubscriptions, svc.db.Model(&models.Subscription{})},
		{&stats.ActiveSubscriptions, svc.db.Model(&models.Subscription{}).Where("status = ?", models.SubscriptionActive)},
		{&stats.TotalSearchTargets, svc.db.Model(&models.SearchTarget{})},
		{&stats.TotalPublications, svc.db.Model(&models.Publication{})},
		{&stats.RecentUsers, svc.db.Model(&models.User{}).Where("created_at >= ?", weekAgo)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return stats, nil
}

// UsersPage lists users for the admin panel, optionally filtered by a
// substring over username, email and full name.
func (svc *admins) UsersPage(ctx context.Context, search string, page, perPage int) (*Page[models.User], error) {
	return paginate[models.User](func() *gorm.DB {
		tx := svc.db.Model(&models.User{})
		if search != "" {
			like := "%" + search + "%"
			tx = tx.Where("username LIKE ? OR email LIKE ? OR full_name LIKE ?", like, like, like)
		}
		return tx
	}, page, perPage)
}

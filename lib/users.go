package lib

import (
	"context"

	"github.com/jurisalerta/jurisalerta/lib/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type users struct {
	log *zap.Logger
	db  *gorm.DB
}

type CreateUserParams struct {
	Username  string
	Email     string
	Password  string
	FullName  string
	Phone     string
	OABNumber string
}

func (svc *users) CreateUser(ctx context.Context, params CreateUserParams) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  params.Username,
		Email:     params.Email,
		Password:  string(hash),
		FullName:  params.FullName,
		Phone:     params.Phone,
		OABNumber: params.OABNumber,
		IsActive:  true,
	}
	tx := svc.db.Clauses(clause.Returning{}).Create(user)
	if err := tx.Error; err != nil {
		return nil, err
	}

	svc.log.Sugar().Infof("Created user %v (%s)", user.ID, user.Email)
	return user, nil
}

func (svc *users) ListUsers(ctx context.Context) ([]models.User, error) {
	var list []models.User
	tx := svc.db.Find(&list)
	return list, tx.Error
}

func (svc *users) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user := &models.User{}
	tx := svc.db.First(user, id)
	if err := tx.Error; err != nil {
		return nil, err
	}
	return user, nil
}

type UpdateUserParams struct {
	FullName  *string
	Phone     *string
	OABNumber *string
	IsActive  *bool
}

func (svc *users) UpdateUser(ctx context.Context, id uint, params UpdateUserParams) (*models.User, error) {
	user, err := svc.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.FullName != nil {
		user.FullName = *params.FullName
	}
	if params.Phone != nil {
		user.Phone = *params.Phone
	}
	if params.OABNumber != nil {
		user.OABNumber = *params.OABNumber
	}
	if params.IsActive != nil {
		user.IsActive = *params.IsActive
	}

	tx := svc.db.Save(user)
	return user, tx.Error
}

// DeleteUser removes the user along with their search targets and subscriptions.
func (svc *users) DeleteUser(ctx context.Context, id uint) error {
	user, err := svc.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if err := svc.db.Where("user_id = ?", id).Delete(&models.SearchTarget{}).Error; err != nil {
		return err
	}
	if err := svc.db.Where("user_id = ?", id).Delete(&models.Subscription{}).Error; err != nil {
		return err
	}
	return svc.db.Delete(user).Error
}

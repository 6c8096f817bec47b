package lib

import (
	"context"
	"time"

	"github.com/jurisalerta/jurisalerta/lib/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type subscriptions struct {
	log *zap.Logger
	db  *gorm.DB
}

// CreateSubscription signs a user up for a plan. Both records must exist.
// The end date is durationMonths x 30 days after the start.
func (svc *subscriptions) CreateSubscription(ctx context.Context, userID, planID uint, durationMonths int) (*models.Subscription, error) {
	if err := svc.db.First(&models.User{}, userID).Error; err != nil {
		return nil, err
	}
	if err := svc.db.First(&models.Plan{}, planID).Error; err != nil {
		return nil, err
	}

	if durationMonths < 1 {
		durationMonths = 1
	}
	start := time.Now().UTC()
	sub := &models.Subscription{
		UserID:    userID,
		PlanID:    planID,
		StartDate: start,
		EndDate:   start.Add(time.Duration(durationMonths) * 30 * 24 * time.Hour),
		Status:    models.SubscriptionActive,
	}
	tx := svc.db.Clauses(clause.Returning{}).Create(sub)
	if err := tx.Error; err != nil {
		return nil, err
	}

	svc.log.Sugar().Infof("Created subscription %v (user:%v plan:%v)", sub.ID, userID, planID)
	return sub, nil
}

func (svc *subscriptions) ListSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	var list []models.Subscription
	tx := svc.db.Find(&list)
	return list, tx.Error
}

func (svc *subscriptions) GetSubscription(ctx context.Context, id uint) (*models.Subscription, error) {
	sub := &models.Subscription{}
	tx := svc.db.First(sub, id)
	if err := tx.Error; err != nil {
		return nil, err
	}
	return sub, nil
}

func (svc *subscriptions) ListUserSubscriptions(ctx context.Context, userID uint) ([]models.Subscription, error) {
	var list []models.Subscription
	tx := svc.db.Where("user_id = ?", userID).Find(&list)
	return list, tx.Error
}

// ActiveUserSubscription returns the user's current subscription, or
// gorm.ErrRecordNotFound when none is active and unexpired.
func (svc *subscriptions) ActiveUserSubscription(ctx context.Context, userID uint) (*models.Subscription, error) {
	sub := &models.Subscription{}
	tx := svc.db.
		Where("user_id = ?", userID).
		Where("status = ?", models.SubscriptionActive).
		First(sub)
	if err := tx.Error; err != nil {
		return nil, err
	}
	if !sub.IsCurrent() {
		return nil, gorm.ErrRecordNotFound
	}
	return sub, nil
}

func (svc *subscriptions) CancelSubscription(ctx context.Context, id uint) (*models.Subscription, error) {
	return svc.UpdateSubscriptionStatus(ctx, id, models.SubscriptionCancelled)
}

func (svc *subscriptions) UpdateSubscriptionStatus(ctx context.Context, id uint, status string) (*models.Subscription, error) {
	sub, err := svc.GetSubscription(ctx, id)
	if err != nil {
		return nil, err
	}

	sub.Status = status
	tx := svc.db.Save(sub)
	return sub, tx.Error
}

func (svc *subscriptions) DeleteSubscription(ctx context.Context, id uint) error {
	sub, err := svc.GetSubscription(ctx, id)
	if err != nil {
		return err
	}
	return svc.db.Delete(sub).Error
}

// SubscriptionsPage lists subscriptions with user and plan joined, optionally
// filtered by status. Used by the admin panel.
func (svc *subscriptions) SubscriptionsPage(ctx context.Context, status string, page, perPage int) (*Page[models.Subscription], error) {
	return paginate[models.Subscription](func() *gorm.DB {
		tx := svc.db.Model(&models.Subscription{}).InnerJoins("User").InnerJoins("Plan")
		if status != "" {
			tx = tx.Where("subscriptions.status = ?", status)
		}
		return tx
	}, page, perPage)
}

package lib

import (
	"context"
	"errors"

	"github.com/jurisalerta/jurisalerta/lib/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrPlanInUse is returned when deleting a plan that still has active subscriptions.
var ErrPlanInUse = errors.New("plan has active subscriptions")

type plans struct {
	log *zap.Logger
	db  *gorm.DB
}

type PlanParams struct {
	Name         string
	Description  string
	Price        float64
	MaxSearches  *int
	MaxTribunals *int
	MaxTargets   *int
	Features     string
	IsActive     *bool
}

func (svc *plans) CreatePlan(ctx context.Context, params PlanParams) (*models.Plan, error) {
	plan := &models.Plan{
		Name:         params.Name,
		Description:  params.Description,
		Price:        params.Price,
		MaxSearches:  100,
		MaxTribunals: 5,
		MaxTargets:   10,
		Features:     params.Features,
		IsActive:     true,
	}
	applyPlanParams(plan, params)

	tx := svc.db.Create(plan)
	return plan, tx.Error
}

func (svc *plans) ListPlans(ctx context.Context) ([]models.Plan, error) {
	var list []models.Plan
	tx := svc.db.Find(&list)
	return list, tx.Error
}

func (svc *plans) GetPlan(ctx context.Context, id uint) (*models.Plan, error) {
	plan := &models.Plan{}
	tx := svc.db.First(plan, id)
	if err := tx.Error; err != nil {
		return nil, err
	}
	return plan, nil
}

func (svc *plans) UpdatePlan(ctx context.Context, id uint, params PlanParams) (*models.Plan, error) {
	plan, err := svc.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != "" {
		plan.Name = params.Name
	}
	if params.Description != "" {
		plan.Description = params.Description
	}
	if params.Price != 0 {
		plan.Price = params.Price
	}
	if params.Features != "" {
		plan.Features = params.Features
	}
	applyPlanParams(plan, params)

	tx := svc.db.Save(plan)
	return plan, tx.Error
}

func applyPlanParams(plan *models.Plan, params PlanParams) {
	if params.MaxSearches != nil {
		plan.MaxSearches = *params.MaxSearches
	}
	if params.MaxTribunals != nil {
		plan.MaxTribunals = *params.MaxTribunals
	}
	if params.MaxTargets != nil {
		plan.MaxTargets = *params.MaxTargets
	}
	if params.IsActive != nil {
		plan.IsActive = *params.IsActive
	}
}

func (svc *plans) DeletePlan(ctx context.Context, id uint) error {
	plan, err := svc.GetPlan(ctx, id)
	if err != nil {
		return err
	}

	var activeSubs int64
	tx := svc.db.Model(&models.Subscription{}).
		Where("plan_id = ? AND status = ?", id, models.SubscriptionActive).
		Count(&activeSubs)
	if err := tx.Error; err != nil {
		return err
	}
	if activeSubs > 0 {
		return ErrPlanInUse
	}

	return svc.db.Delete(plan).Error
}

package lib

import (
	"context"
	"strings"

	"github.com/jurisalerta/jurisalerta/lib/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type searchConfigs struct {
	log *zap.Logger
	db  *gorm.DB
}

type SearchConfigParams struct {
	Name         string
	Keywords     []string
	Tribunals    []string
	ProcessTypes []string
	IsActive     *bool
}

func (svc *searchConfigs) CreateSearchConfig(ctx context.Context, userID uint, params SearchConfigParams) (*models.SearchConfig, error) {
	if err := svc.db.First(&models.User{}, userID).Error; err != nil {
		return nil, err
	}

	cfg := &models.SearchConfig{
		UserID:       userID,
		Name:         params.Name,
		Keywords:     strings.Join(params.Keywords, ","),
		Tribunals:    strings.Join(params.Tribunals, ","),
		ProcessTypes: strings.Join(params.ProcessTypes, ","),
		IsActive:     true,
	}
	tx := svc.db.Clauses(clause.Returning{}).Create(cfg)
	return cfg, tx.Error
}

func (svc *searchConfigs) ListSearchConfigs(ctx context.Context, userID uint) ([]models.SearchConfig, error) {
	var list []models.SearchConfig
	tx := svc.db.Where("user_id = ?", userID).Find(&list)
	return list, tx.Error
}

func (svc *searchConfigs) GetSearchConfig(ctx context.Context, id uint) (*models.SearchConfig, error) {
	cfg := &models.SearchConfig{}
	tx := svc.db.First(cfg, id)
	if err := tx.Error; err != nil {
		return nil, err
	}
	return cfg, nil
}

func (svc *searchConfigs) UpdateSearchConfig(ctx context.Context, id uint, params SearchConfigParams) (*models.SearchConfig, error) {
	cfg, err := svc.GetSearchConfig(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != "" {
		cfg.Name = params.Name
	}
	if params.Keywords != nil {
		cfg.Keywords = strings.Join(params.Keywords, ",")
	}
	if params.Tribunals != nil {
		cfg.Tribunals = strings.Join(params.Tribunals, ",")
	}
	if params.ProcessTypes != nil {
		cfg.ProcessTypes = strings.Join(params.ProcessTypes, ",")
	}
	if params.IsActive != nil {
		cfg.IsActive = *params.IsActive
	}

	tx := svc.db.Save(cfg)
	return cfg, tx.Error
}

func (svc *searchConfigs) DeleteSearchConfig(ctx context.Context, id uint) error {
	cfg, err := svc.GetSearchConfig(ctx, id)
	if err != nil {
		return err
	}
	return svc.db.Delete(cfg).Error
}

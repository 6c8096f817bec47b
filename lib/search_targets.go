package lib

import (
	"context"

	"github.com/jurisalerta/jurisalerta/lib/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type searchTargets struct {
	log *zap.Logger
	db  *gorm.DB
}

// CreateSearchTarget registers an OAB identity to monitor. The owning user
// must exist; new targets start active.
func (svc *searchTargets) CreateSearchTarget(ctx context.Context, userID uint, oabNumber, oabUF string) (*models.SearchTarget, error) {
	if err := svc.db.First(&models.User{}, userID).Error; err != nil {
		return nil, err
	}

	target := &models.SearchTarget{
		UserID:    userID,
		OABNumber: oabNumber,
		OABUF:     oabUF,
		IsActive:  true,
	}
	tx := svc.db.Clauses(clause.Returning{}).Create(target)
	if err := tx.Error; err != nil {
		return nil, err
	}

	svc.log.Sugar().Infof("Created search target %v (%s%s)", target.ID, target.OABUF, target.OABNumber)
	return target, nil
}

func (svc *searchTargets) ListSearchTargets(ctx context.Context) (models.SearchTargets, error) {
	var list models.SearchTargets
	tx := svc.db.InnerJoins("User").Find(&list)
	return list, tx.Error
}

func (svc *searchTargets) GetSearchTarget(ctx context.Context, id uint) (*models.SearchTarget, error) {
	target := &models.SearchTarget{}
	tx := svc.db.InnerJoins("User").First(target, id)
	if err := tx.Error; err != nil {
		return nil, err
	}
	return target, nil
}

type UpdateSearchTargetParams struct {
	OABNumber *string
	OABUF     *string
	IsActive  *bool
}

func (svc *searchTargets) UpdateSearchTarget(ctx context.Context, id uint, params UpdateSearchTargetParams) (*models.SearchTarget, error) {
	target, err := svc.GetSearchTarget(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.OABNumber != nil {
		target.OABNumber = *params.OABNumber
	}
	if params.OABUF != nil {
		target.OABUF = *params.OABUF
	}
	if params.IsActive != nil {
		target.IsActive = *params.IsActive
	}

	tx := svc.db.Save(target)
	return target, tx.Error
}

func (svc *searchTargets) DeleteSearchTarget(ctx context.Context, id uint) error {
	target, err := svc.GetSearchTarget(ctx, id)
	if err != nil {
		return err
	}
	return svc.db.Delete(target).Error
}

func (svc *searchTargets) SearchTargetsPage(ctx context.Context, page, perPage int) (*Page[models.SearchTarget], error) {
	return paginate[models.SearchTarget](func() *gorm.DB {
		return svc.db.Model(&models.SearchTarget{}).InnerJoins("User")
	}, page, perPage)
}

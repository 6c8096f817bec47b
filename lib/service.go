package lib

import (
	"github.com/jurisalerta/jurisalerta/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB

	*users
	*plans
	*subscriptions
	*publications
	*searchConfigs
	*searchTargets
	*admins
}

func NewService(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, db *gorm.DB) *Service {
	return &Service{
		cfg, log, db,
		&users{log, db},
		&plans{log, db},
		&subscriptions{log, db},
		&publications{log, db},
		&searchConfigs{log, db},
		&searchTargets{log, db},
		&admins{cfg, log, db},
	}
}

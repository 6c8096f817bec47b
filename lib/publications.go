package lib

import (
	"context"
	"database/sql"
	"time"

	"github.com/jurisalerta/jurisalerta/lib/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type publications struct {
	log *zap.Logger
	db  *gorm.DB
}

type CreatePublicationParams struct {
	UserID          uint
	Title           string
	Content         string
	Tribunal        string
	PublicationDate *time.Time
	SourceURL       string
	ProcessNumber   string
}

func (svc *publications) CreatePublication(ctx context.Context, params CreatePublicationParams) (*models.Publication, error) {
	if err := svc.db.First(&models.User{}, params.UserID).Error; err != nil {
		return nil, err
	}

	pub := &models.Publication{
		UserID:        params.UserID,
		Title:         params.Title,
		Content:       params.Content,
		Tribunal:      params.Tribunal,
		SourceURL:     params.SourceURL,
		ProcessNumber: params.ProcessNumber,
	}
	if params.PublicationDate != nil {
		pub.PublicationDate = sql.NullTime{Time: *params.PublicationDate, Valid: true}
	}

	tx := svc.db.Clauses(clause.Returning{}).Create(pub)
	return pub, tx.Error
}

func (svc *publications) ListPublications(ctx context.Context) ([]models.Publication, error) {
	var list []models.Publication
	tx := svc.db.Find(&list)
	return list, tx.Error
}

func (svc *publications) GetPublication(ctx context.Context, id uint) (*models.Publication, error) {
	pub := &models.Publication{}
	tx := svc.db.First(pub, id)
	if err := tx.Error; err != nil {
		return nil, err
	}
	return pub, nil
}

// UserPublicationsPage lists a user's publications newest first, optionally
// filtered by read state.
func (svc *publications) UserPublicationsPage(ctx context.Context, userID uint, isRead *bool, page, perPage int) (*Page[models.Publication], error) {
	return paginate[models.Publication](func() *gorm.DB {
		tx := svc.db.Model(&models.Publication{}).Where("user_id = ?", userID).Order("created_at desc")
		if isRead != nil {
			tx = tx.Where("is_read = ?", *isRead)
		}
		return tx
	}, page, perPage)
}

func (svc *publications) MarkPublicationRead(ctx context.Context, id uint) (*models.Publication, error) {
	pub, err := svc.GetPublication(ctx, id)
	if err != nil {
		return nil, err
	}

	pub.IsRead = true
	tx := svc.db.Save(pub)
	return pub, tx.Error
}

func (svc *publications) PublicationsPage(ctx context.Context, page, perPage int) (*Page[models.Publication], error) {
	return paginate[models.Publication](func() *gorm.DB {
		return svc.db.Model(&models.Publication{}).InnerJoins("User")
	}, page, perPage)
}

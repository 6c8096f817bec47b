package app

import (
	"database/sql"
	"time"

	"github.com/jurisalerta/jurisalerta/lib/models"
)

type UserView struct {
	ID          uint    `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	FullName    string  `json:"full_name"`
	Phone       string  `json:"phone"`
	OABNumber   string  `json:"oab_number"`
	IsActive    bool    `json:"is_active"`
	LastLoginAt *string `json:"last_login_at"`
	CreatedAt   string  `json:"created_at"`
}

func (view UserView) From(entity models.User) UserView {
	return UserView{
		ID:          entity.ID,
		Username:    entity.Username,
		Email:       entity.Email,
		FullName:    entity.FullName,
		Phone:       entity.Phone,
		OABNumber:   entity.OABNumber,
		IsActive:    entity.IsActive,
		LastLoginAt: isoformat(entity.LastLoginAt),
		CreatedAt:   entity.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type PlanView struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	MaxSearches  int     `json:"max_searches"`
	MaxTribunals int     `json:"max_tribunals"`
	MaxTargets   int     `json:"max_targets"`
	Features     string  `json:"features"`
	IsActive     bool    `json:"is_active"`
}

func (view PlanView) From(entity models.Plan) PlanView {
	return PlanView{
		ID:           entity.ID,
		Name:         entity.Name,
		Description:  entity.Description,
		Price:        entity.Price,
		MaxSearches:  entity.MaxSearches,
		MaxTribunals: entity.MaxTribunals,
		MaxTargets:   entity.MaxTargets,
		Features:     entity.Features,
		IsActive:     entity.IsActive,
	}
}

type SubscriptionView struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	PlanID    uint   `json:"plan_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
	IsActive  bool   `json:"is_active"`
}

func (view SubscriptionView) From(entity models.Subscription) SubscriptionView {
	return SubscriptionView{
		ID:        entity.ID,
		UserID:    entity.UserID,
		PlanID:    entity.PlanID,
		StartDate: entity.StartDate.UTC().Format(time.RFC3339),
		EndDate:   entity.EndDate.UTC().Format(time.RFC3339),
		Status:    entity.Status,
		IsActive:  entity.IsCurrent(),
	}
}

type SearchTargetView struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	OABNumber string `json:"oab_number"`
	OABUF     string `json:"oab_uf"`
	IsActive  bool   `json:"is_active"`
}

func (view SearchTargetView) From(entity models.SearchTarget) SearchTargetView {
	return SearchTargetView{
		ID:        entity.ID,
		UserID:    entity.UserID,
		Username:  entity.User.Username,
		OABNumber: entity.OABNumber,
		OABUF:     entity.OABUF,
		IsActive:  entity.IsActive,
	}
}

type SearchConfigView struct {
	ID           uint     `json:"id"`
	UserID       uint     `json:"user_id"`
	Name         string   `json:"name"`
	Keywords     []string `json:"keywords"`
	Tribunals    []string `json:"tribunals"`
	ProcessTypes []string `json:"process_types"`
	IsActive     bool     `json:"is_active"`
}

func (view SearchConfigView) From(entity models.SearchConfig) SearchConfigView {
	return SearchConfigView{
		ID:           entity.ID,
		UserID:       entity.UserID,
		Name:         entity.Name,
		Keywords:     entity.KeywordsList(),
		Tribunals:    entity.TribunalsList(),
		ProcessTypes: entity.ProcessTypesList(),
		IsActive:     entity.IsActive,
	}
}

type PublicationView struct {
	ID              uint    `json:"id"`
	UserID          uint    `json:"user_id"`
	Title           string  `json:"title"`
	Content         string  `json:"content"`
	Tribunal        string  `json:"tribunal"`
	PublicationDate *string `json:"publication_date"`
	SourceURL       string  `json:"source_url"`
	ProcessNumber   string  `json:"process_number"`
	IsRead          bool    `json:"is_read"`
	CreatedAt       string  `json:"created_at"`
}

func (view PublicationView) From(entity models.Publication) PublicationView {
	return PublicationView{
		ID:              entity.ID,
		UserID:          entity.UserID,
		Title:           entity.Title,
		Content:         entity.Content,
		Tribunal:        entity.Tribunal,
		PublicationDate: isoformat(entity.PublicationDate),
		SourceURL:       entity.SourceURL,
		ProcessNumber:   entity.ProcessNumber,
		IsRead:          entity.IsRead,
		CreatedAt:       entity.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type AdminView struct {
	ID           uint    `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	FullName     string  `json:"full_name"`
	IsSuperAdmin bool    `json:"is_super_admin"`
	IsActive     bool    `json:"is_active"`
	LastLogin    *string `json:"last_login"`
}

func (view AdminView) From(entity models.Admin) AdminView {
	return AdminView{
		ID:           entity.ID,
		Username:     entity.Username,
		Email:        entity.Email,
		FullName:     entity.FullName,
		IsSuperAdmin: entity.IsSuperAdmin,
		IsActive:     entity.IsActive,
		LastLogin:    isoformat(entity.LastLogin),
	}
}

type Fromable[Entity any, Repr any] interface {
	From(Entity) Repr
}

func FromMany[T any, U Fromable[T, U]](elems []T) []U {
	out := make([]U, len(elems))
	for i, t := range elems {
		var u U
		out[i] = u.From(t)
	}
	return out
}

func isoformat(t sql.NullTime) *string {
	if t.Valid {
		s := t.Time.UTC().Format(time.RFC3339)
		return &s
	}
	return nil
}

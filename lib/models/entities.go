package models

import (
	"database/sql"
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username    string `gorm:"unique"`
	Email       string `gorm:"unique"`
	Password    string
	FullName    string
	Phone       string
	OABNumber   string
	IsActive    bool `gorm:"default:true"`
	LastLoginAt sql.NullTime

	SearchTargets []SearchTarget
	SearchConfigs []SearchConfig
	Subscriptions []Subscription
	Publications  []Publication
}

type Plan struct {
	gorm.Model
	Name         string `gorm:"not null"`
	Description  string
	Price        float64 `gorm:"not null"`
	MaxSearches  int     `gorm:"default:100"`
	MaxTribunals int     `gorm:"default:5"`
	MaxTargets   int     `gorm:"default:10"`
	Features     string
	IsActive     bool `gorm:"default:true"`
}

const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

type Subscription struct {
	gorm.Model
	UserID    uint `gorm:"not null"`
	PlanID    uint `gorm:"not null"`
	StartDate time.Time
	EndDate   time.Time
	Status    string `gorm:"size:20;default:active"`

	User User
	Plan Plan
}

// IsCurrent reports whether the subscription is active and its end date has not passed.
func (s *Subscription) IsCurrent() bool {
	return s.Status == SubscriptionActive && s.EndDate.After(time.Now().UTC())
}

type SearchTarget struct {
	gorm.Model
	UserID    uint   `gorm:"not null"`
	OABNumber string `gorm:"size:20;not null"`
	OABUF     string `gorm:"size:2;not null"`
	IsActive  bool   `gorm:"default:true"`

	User User
}

type SearchTargets []SearchTarget

type SearchConfig struct {
	gorm.Model
	UserID       uint   `gorm:"not null"`
	Name         string `gorm:"size:100;not null"`
	Keywords     string // comma-separated
	Tribunals    string // comma-separated
	ProcessTypes string // comma-separated
	IsActive     bool   `gorm:"default:true"`

	User User
}

func (c *SearchConfig) KeywordsList() []string     { return splitCSV(c.Keywords) }
func (c *SearchConfig) TribunalsList() []string    { return splitCSV(c.Tribunals) }
func (c *SearchConfig) ProcessTypesList() []string { return splitCSV(c.ProcessTypes) }

func splitCSV(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type Publication struct {
	gorm.Model
	UserID          uint   `gorm:"not null"`
	Title           string `gorm:"size:500;not null"`
	Content         string
	Tribunal        string `gorm:"size:100"`
	PublicationDate sql.NullTime
	SourceURL       string `gorm:"size:500"`
	ProcessNumber   string `gorm:"size:100"`
	IsRead          bool   `gorm:"default:false"`

	User User
}

type Admin struct {
	gorm.Model
	Username     string `gorm:"unique"`
	Email        string
	FullName     string
	PasswordHash string
	IsSuperAdmin bool
	IsActive     bool `gorm:"default:true"`
	LastLogin    sql.NullTime
}

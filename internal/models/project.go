package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusOngoing   ProjectStatus = "ongoing"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// Valid reports whether s is one of the known project statuses.
func (s ProjectStatus) Valid() bool {
	return s == ProjectStatusOngoing || s == ProjectStatusCompleted
}

type Project struct {
	ID          uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	Name        string        `gorm:"size:200;not null" json:"name"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null;default:'ongoing';index" json:"status"`
	ImagePath   *string       `json:"image_path"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Relations
	Themes []Theme `gorm:"foreignKey:ProjectID" json:"themes,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProjectSummary is the expanded form embedded in a theme.
type ProjectSummary struct {
	ID     uuid.UUID     `json:"id"`
	Name   string        `json:"name"`
	Status ProjectStatus `json:"status"`
}

func (p *Project) ToSummary() *ProjectSummary {
	if p == nil {
		return nil
	}
	return &ProjectSummary{ID: p.ID, Name: p.Name, Status: p.Status}
}

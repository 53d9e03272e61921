package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Theme struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name           string     `gorm:"size:200;not null" json:"name"`
	Description    string     `gorm:"type:text;not null" json:"description"`
	ProjectID      *uuid.UUID `gorm:"type:uuid;index" json:"project_id"`
	ThemeHeadID    *uuid.UUID `gorm:"type:uuid" json:"theme_head_id"`
	CreatedByID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"created_by_id"`
	ImagePath      *string    `json:"image_path"`
	PrimaryColor   *string    `gorm:"size:20" json:"primary_color"`
	SecondaryColor *string    `gorm:"size:20" json:"secondary_color"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relations
	Project   *Project     `gorm:"foreignKey:ProjectID" json:"-"`
	ThemeHead *TeamMember  `gorm:"foreignKey:ThemeHeadID" json:"-"`
	CreatedBy *User        `gorm:"foreignKey:CreatedByID" json:"-"`
	Members   []TeamMember `gorm:"many2many:theme_members" json:"-"`
}

func (t *Theme) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// HasMember reports whether memberID is in the loaded member set.
func (t *Theme) HasMember(memberID uuid.UUID) bool {
	for _, m := range t.Members {
		if m.ID == memberID {
			return true
		}
	}
	return false
}

// ThemeResponse is a theme with its references expanded for readers.
type ThemeResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	ProjectID      *uuid.UUID      `json:"project_id"`
	Project        *ProjectSummary `json:"project"`
	Members        []TeamMember    `json:"members"`
	ThemeHeadID    *uuid.UUID      `json:"theme_head_id"`
	ThemeHead      *TeamMember     `json:"theme_head"`
	CreatedByID    uuid.UUID       `json:"created_by_id"`
	CreatedBy      *UserSummary    `json:"created_by,omitempty"`
	ImagePath      *string         `json:"image_path"`
	PrimaryColor   *string         `json:"primary_color"`
	SecondaryColor *string         `json:"secondary_color"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (t *Theme) ToResponse() ThemeResponse {
	members := t.Members
	if members == nil {
		members = []TeamMember{}
	}

	resp := ThemeResponse{
		ID:             t.ID,
		Name:           t.Name,
		Description:    t.Description,
		ProjectID:      t.ProjectID,
		Project:        t.Project.ToSummary(),
		Members:        members,
		ThemeHeadID:    t.ThemeHeadID,
		ThemeHead:      t.ThemeHead,
		CreatedByID:    t.CreatedByID,
		ImagePath:      t.ImagePath,
		PrimaryColor:   t.PrimaryColor,
		SecondaryColor: t.SecondaryColor,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if t.CreatedBy != nil {
		summary := t.CreatedBy.ToSummary()
		resp.CreatedBy = &summary
	}
	return resp
}

func ToThemeResponses(themes []Theme) []ThemeResponse {
	out := make([]ThemeResponse, 0, len(themes))
	for i := range themes {
		out = append(out, themes[i].ToResponse())
	}
	return out
}

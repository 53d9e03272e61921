package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamMember struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Role       string    `gorm:"size:100;not null" json:"role"` // e.g., Lead, Senior Developer
	WorkDetail string    `gorm:"type:text;not null" json:"work_detail"`
	ImagePath  *string   `json:"image_path"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (t *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// ThemeMember is the join row behind Theme.Members. The composite key gives
// membership its set semantics.
type ThemeMember struct {
	ThemeID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"theme_id"`
	TeamMemberID uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"team_member_id"`
	CreatedAt    time.Time `json:"created_at"`
}

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RubricCategory is a display grouping for criteria (e.g. "Creativity").
type RubricCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (RubricCategory) TableName() string { return "rubric_category" }

func (rc *RubricCategory) BeforeCreate(tx *gorm.DB) error {
	if rc.ID == uuid.Nil {
		rc.ID = uuid.New()
	}
	return nil
}

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Program is a locally persisted projection of the external program
// record. The engine reads it for naming and category option validation
// in admin tooling; it never mutates it.
type Program struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"column:name;not null" json:"name"`
	CategoryLabel   string    `gorm:"column:category_label" json:"category_label"`
	CategoryOptions string    `gorm:"column:category_options" json:"category_options"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (Program) TableName() string { return "program" }

func (p *Program) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

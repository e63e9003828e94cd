package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rubric is the scoring schema for one program, optionally scoped to a
// single category value (blank = general). At most one active rubric may
// exist per (program, category_value) pair; replacing one deactivates it
// rather than deleting it.
type Rubric struct {
	ID                  uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	ProgramID           uuid.UUID        `gorm:"type:uuid;not null;index:idx_rubric_program" json:"program_id"`
	Program             *Program         `gorm:"foreignKey:ProgramID;references:ID" json:"program,omitempty"`
	CategoryValue       string           `gorm:"column:category_value;index:idx_rubric_program" json:"category_value"`
	Name                string           `gorm:"column:name;not null" json:"name"`
	Description         string           `gorm:"column:description" json:"description"`
	TotalPossiblePoints float64          `gorm:"column:total_possible_points;not null;default:100" json:"total_possible_points"`
	IsActive            bool             `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
	CreatedBy           uuid.UUID        `gorm:"type:uuid;column:created_by" json:"created_by"`
	Criteria            []RubricCriterion `gorm:"foreignKey:RubricID;references:ID" json:"criteria,omitempty"`
	CreatedAt           time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time        `gorm:"not null" json:"updated_at"`
}

func (Rubric) TableName() string { return "rubric" }

func (r *Rubric) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RubricCriterion is one weighted, capped scoring dimension of a rubric.
// Weight is a fraction of the rubric total; all weights of a rubric sum
// to 1.0 within a 1% tolerance, enforced at creation.
type RubricCriterion struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RubricID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"rubric_id"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;column:category_id" json:"category_id"`
	Category    *RubricCategory `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	Name        string          `gorm:"column:name;not null" json:"name"`
	Description string          `gorm:"column:description" json:"description"`
	Guidelines  string          `gorm:"column:guidelines" json:"guidelines"`
	MaxScore    float64         `gorm:"column:max_score;not null" json:"max_score"`
	Weight      float64         `gorm:"column:weight;not null" json:"weight"`
	SortOrder   int             `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

func (RubricCriterion) TableName() string { return "rubric_criterion" }

func (c *RubricCriterion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

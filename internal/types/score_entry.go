package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScoreEntry is one judge's score for one criterion on one registration.
// Rows are append-only: a revision inserts a new row with the next
// revision_number and a back-reference to the row it supersedes; nothing
// is ever updated or deleted. The unique index on the full key including
// revision_number is what makes concurrent revision attempts collide
// instead of producing two "current" rows.
type ScoreEntry struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	ProgramID       uuid.UUID        `gorm:"type:uuid;not null;index:idx_score_revision,unique" json:"program_id"`
	RegistrationID  uuid.UUID        `gorm:"type:uuid;not null;index:idx_score_revision,unique" json:"registration_id"`
	Registration    *Registration    `gorm:"foreignKey:RegistrationID;references:ID" json:"registration,omitempty"`
	JudgeID         uuid.UUID        `gorm:"type:uuid;not null;index:idx_score_revision,unique" json:"judge_id"`
	Judge           *Judge           `gorm:"foreignKey:JudgeID;references:ID" json:"judge,omitempty"`
	CriterionID     uuid.UUID        `gorm:"type:uuid;not null;index:idx_score_revision,unique" json:"criterion_id"`
	Criterion       *RubricCriterion `gorm:"foreignKey:CriterionID;references:ID" json:"criterion,omitempty"`
	RawScore        float64          `gorm:"column:raw_score;not null" json:"raw_score"`
	MaxScore        float64          `gorm:"column:max_score;not null" json:"max_score"`
	ScorePercentage float64          `gorm:"column:score_percentage;not null" json:"score_percentage"`
	WeightedScore   float64          `gorm:"column:weighted_score;not null" json:"weighted_score"`
	RevisionNumber  int              `gorm:"column:revision_number;not null;default:1;index:idx_score_revision,unique" json:"revision_number"`
	PreviousEntryID *uuid.UUID       `gorm:"type:uuid;column:previous_entry_id" json:"previous_entry_id,omitempty"`
	RevisionReason  string           `gorm:"column:revision_reason" json:"revision_reason"`
	CreatedAt       time.Time        `gorm:"not null" json:"created_at"`
}

func (ScoreEntry) TableName() string { return "score_entry" }

func (se *ScoreEntry) BeforeCreate(tx *gorm.DB) error {
	if se.ID == uuid.Nil {
		se.ID = uuid.New()
	}
	return nil
}

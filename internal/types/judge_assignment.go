package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AssignmentStatusActive    = "ACTIVE"
	AssignmentStatusPaused    = "PAUSED"
	AssignmentStatusCompleted = "COMPLETED"
	AssignmentStatusCancelled = "CANCELLED"
)

// JudgeAssignment ties a judge to a program and optionally one category
// value; blank means all categories. Unique per (program, judge,
// category_value) so a cancelled assignment is reactivated, not duplicated.
type JudgeAssignment struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProgramID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_assignment_key,unique" json:"program_id"`
	Program         *Program       `gorm:"foreignKey:ProgramID;references:ID" json:"program,omitempty"`
	JudgeID         uuid.UUID      `gorm:"type:uuid;not null;index:idx_assignment_key,unique" json:"judge_id"`
	Judge           *Judge         `gorm:"foreignKey:JudgeID;references:ID" json:"judge,omitempty"`
	CategoryValue   string         `gorm:"column:category_value;index:idx_assignment_key,unique" json:"category_value"`
	Status          string         `gorm:"column:status;not null;default:'ACTIVE';index" json:"status"`
	MaxParticipants *int           `gorm:"column:max_participants" json:"max_participants,omitempty"`
	AssignedBy      uuid.UUID      `gorm:"type:uuid;column:assigned_by" json:"assigned_by"`
	Metadata        datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
}

func (JudgeAssignment) TableName() string { return "judge_assignment" }

func (a *JudgeAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ConflictStatusPending  = "PENDING"
	ConflictStatusApproved = "APPROVED"
	ConflictStatusRejected = "REJECTED"
)

const (
	RelationshipFamily       = "FAMILY"
	RelationshipTeacher      = "TEACHER"
	RelationshipColleague    = "COLLEAGUE"
	RelationshipOrganization = "ORGANIZATION"
	RelationshipOther        = "OTHER"
)

// ConflictFlag records a judge↔participant relationship under review.
// Only a REJECTED flag disqualifies the judge from scoring that
// participant; PENDING and APPROVED flags do not block.
type ConflictFlag struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	JudgeID          uuid.UUID  `gorm:"type:uuid;not null;index:idx_conflict_key,unique" json:"judge_id"`
	Judge            *Judge     `gorm:"foreignKey:JudgeID;references:ID" json:"judge,omitempty"`
	ParticipantID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_conflict_key,unique" json:"participant_id"`
	RelationshipType string     `gorm:"column:relationship_type;not null" json:"relationship_type"`
	Description      string     `gorm:"column:description" json:"description"`
	Status           string     `gorm:"column:status;not null;default:'PENDING';index" json:"status"`
	FlaggedBy        uuid.UUID  `gorm:"type:uuid;column:flagged_by" json:"flagged_by"`
	ReviewedBy       *uuid.UUID `gorm:"type:uuid;column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	ReviewNotes      string     `gorm:"column:review_notes" json:"review_notes"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null" json:"updated_at"`
}

func (ConflictFlag) TableName() string { return "conflict_flag" }

func (cf *ConflictFlag) BeforeCreate(tx *gorm.DB) error {
	if cf.ID == uuid.Nil {
		cf.ID = uuid.New()
	}
	return nil
}

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JudgeComment is free-text feedback a judge leaves on a registration,
// separate from numeric scoring.
type JudgeComment struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	JudgeID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"judge_id"`
	Judge          *Judge        `gorm:"foreignKey:JudgeID;references:ID" json:"judge,omitempty"`
	RegistrationID uuid.UUID     `gorm:"type:uuid;not null;index" json:"registration_id"`
	Registration   *Registration `gorm:"foreignKey:RegistrationID;references:ID" json:"registration,omitempty"`
	Comment        string        `gorm:"column:comment;not null" json:"comment"`
	CreatedAt      time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null" json:"updated_at"`
}

func (JudgeComment) TableName() string { return "judge_comment" }

func (jc *JudgeComment) BeforeCreate(tx *gorm.DB) error {
	if jc.ID == uuid.Nil {
		jc.ID = uuid.New()
	}
	return nil
}

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const RegistrationStatusPaid = "PAID"

// Registration is the projection of the external registration/payment
// workflow. Only id, program, participant, category and status matter to
// the engine; eligibility everywhere means status == PAID.
type Registration struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProgramID       uuid.UUID `gorm:"type:uuid;not null;index" json:"program_id"`
	Program         *Program  `gorm:"foreignKey:ProgramID;references:ID" json:"program,omitempty"`
	ParticipantID   uuid.UUID `gorm:"type:uuid;not null;index" json:"participant_id"`
	ParticipantName string    `gorm:"column:participant_name" json:"participant_name"`
	CategoryValue   string    `gorm:"column:category_value" json:"category_value"`
	Status          string    `gorm:"column:status;not null;index" json:"status"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (Registration) TableName() string { return "registration" }

func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

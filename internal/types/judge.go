package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleJudge = "judge"
	RoleAdmin = "admin"
)

// Judge is the projection of the external identity system. The id is the
// stable foreign key used across assignments, conflicts and score entries.
type Judge struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"column:username;not null;uniqueIndex" json:"username"`
	FullName  string    `gorm:"column:full_name" json:"full_name"`
	Role      string    `gorm:"column:role;not null;default:'judge'" json:"role"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Judge) TableName() string { return "judge" }

func (j *Judge) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentfest/judging-backend/internal/domain"
)

const (
	VisibilityAdminOnly = "ADMIN_ONLY"
	VisibilityJudges    = "JUDGES"
	VisibilityPublic    = "PUBLIC"
)

// ScoringConfig holds the per-program scoring rules: the scoring window,
// judge-count bounds, the aggregation method and the revision policy.
// One row per program.
type ScoringConfig struct {
	ID                      uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ProgramID               uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex" json:"program_id"`
	Program                 *Program      `gorm:"foreignKey:ProgramID;references:ID" json:"program,omitempty"`
	ScoringStart            time.Time     `gorm:"column:scoring_start;not null" json:"scoring_start"`
	ScoringEnd              time.Time     `gorm:"column:scoring_end;not null" json:"scoring_end"`
	MinJudgesPerParticipant int           `gorm:"column:min_judges_per_participant;not null;default:1" json:"min_judges_per_participant"`
	MaxJudgesPerParticipant int           `gorm:"column:max_judges_per_participant;not null;default:1" json:"max_judges_per_participant"`
	Method                  domain.Method `gorm:"column:calculation_method;not null;default:'AVERAGE_ALL'" json:"calculation_method"`
	TopNCount               int           `gorm:"column:top_n_count" json:"top_n_count"`
	AllowRevisions          bool          `gorm:"column:allow_revisions;not null;default:false" json:"allow_revisions"`
	RevisionDeadline        *time.Time    `gorm:"column:revision_deadline" json:"revision_deadline,omitempty"`
	MaxRevisionsPerScore    int           `gorm:"column:max_revisions_per_score;not null;default:0" json:"max_revisions_per_score"`
	ResultVisibility        string        `gorm:"column:result_visibility;not null;default:'ADMIN_ONLY'" json:"result_visibility"`
	CreatedAt               time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt               time.Time     `gorm:"not null" json:"updated_at"`
}

func (ScoringConfig) TableName() string { return "scoring_config" }

func (sc *ScoringConfig) BeforeCreate(tx *gorm.DB) error {
	if sc.ID == uuid.Nil {
		sc.ID = uuid.New()
	}
	return nil
}

// IsScoringActive is the sole timing gate for submissions: inclusive on
// both window bounds.
func (sc *ScoringConfig) IsScoringActive(now time.Time) bool {
	return !now.Before(sc.ScoringStart) && !now.After(sc.ScoringEnd)
}

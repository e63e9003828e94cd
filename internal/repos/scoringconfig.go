package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentfest/judging-backend/internal/platform/logger"
	"github.com/talentfest/judging-backend/internal/types"
)

type ScoringConfigRepo interface {
	GetByProgram(ctx context.Context, tx *gorm.DB, programID uuid.UUID) (*types.ScoringConfig, error)
	Upsert(ctx context.Context, tx *gorm.DB, config *types.ScoringConfig) error
}

type scoringConfigRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScoringConfigRepo(db *gorm.DB, baseLog *logger.Logger) ScoringConfigRepo {
	return &scoringConfigRepo{db: db, log: baseLog.With("repo", "ScoringConfigRepo")}
}

func (r *scoringConfigRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *scoringConfigRepo) GetByProgram(ctx context.Context, tx *gorm.DB, programID uuid.UUID) (*types.ScoringConfig, error) {
	var config types.ScoringConfig
	err := r.conn(tx).WithContext(ctx).
		Where("program_id = ?", programID).
		First(&config).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// Upsert keeps the one-row-per-program invariant: an existing config for
// the program is overwritten in place.
func (r *scoringConfigRepo) Upsert(ctx context.Context, tx *gorm.DB, config *types.ScoringConfig) error {
	if config == nil {
		return nil
	}
	return r.conn(tx).WithContext(ctx).
		Where("program_id = ?", config.ProgramID).
		Assign(map[string]interface{}{
			"scoring_start":              config.ScoringStart,
			"scoring_end":                config.ScoringEnd,
			"min_judges_per_participant": config.MinJudgesPerParticipant,
			"max_judges_per_participant": config.MaxJudgesPerParticipant,
			"calculation_method":         config.Method,
			"top_n_count":                config.TopNCount,
			"allow_revisions":            config.AllowRevisions,
			"revision_deadline":          config.RevisionDeadline,
			"max_revisions_per_score":    config.MaxRevisionsPerScore,
			"result_visibility":          config.ResultVisibility,
		}).
		FirstOrCreate(config).Error
}

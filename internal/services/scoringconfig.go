package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentfest/judging-backend/internal/domain"
	"github.com/talentfest/judging-backend/internal/platform/logger"
	"github.com/talentfest/judging-backend/internal/repos"
	"github.com/talentfest/judging-backend/internal/types"
)

type ScoringConfigInput struct {
	ScoringStart            time.Time     `json:"scoring_start"`
	ScoringEnd              time.Time     `json:"scoring_end"`
	MinJudgesPerParticipant int           `json:"min_judges_per_participant"`
	MaxJudgesPerParticipant int           `json:"max_judges_per_participant"`
	Method                  domain.Method `json:"calculation_method"`
	TopNCount               int           `json:"top_n_count"`
	AllowRevisions          bool          `json:"allow_revisions"`
	RevisionDeadline        *time.Time    `json:"revision_deadline"`
	MaxRevisionsPerScore    int           `json:"max_revisions_per_score"`
	ResultVisibility        string        `json:"result_visibility"`
}

type ScoringConfigService interface {
	Upsert(ctx context.Context, programID uuid.UUID, input ScoringConfigInput) (*types.ScoringConfig, error)
	Get(ctx context.Context, programID uuid.UUID) (*types.ScoringConfig, error)
}

type scoringConfigService struct {
	db         *gorm.DB
	log        *logger.Logger
	configRepo repos.ScoringConfigRepo
}

func NewScoringConfigService(db *gorm.DB, log *logger.Logger, configRepo repos.ScoringConfigRepo) ScoringConfigService {
	return &scoringConfigService{
		db:         db,
		log:        log.With("service", "ScoringConfigService"),
		configRepo: configRepo,
	}
}

func validateConfigInput(input ScoringConfigInput) error {
	if input.ScoringStart.IsZero() || input.ScoringEnd.IsZero() {
		return domain.Errorf(domain.KindValidation, "scoring window bounds are required")
	}
	if !input.ScoringEnd.After(input.ScoringStart) {
		return domain.Errorf(domain.KindValidation, "scoring_end must be after scoring_start")
	}
	if !input.Method.Valid() {
		return domain.Errorf(domain.KindValidation, "unknown calculation method %q", input.Method)
	}
	if input.Method == domain.MethodTopN && input.TopNCount <= 0 {
		return domain.Errorf(domain.KindValidation, "top_n_count must be positive for TOP_N")
	}
	if input.RevisionDeadline != nil && input.RevisionDeadline.After(input.ScoringEnd) {
		return domain.Errorf(domain.KindValidation, "revision_deadline must not exceed scoring_end")
	}
	if input.MinJudgesPerParticipant < 1 {
		return domain.Errorf(domain.KindValidation, "min_judges_per_participant must be at least 1")
	}
	if input.MaxJudgesPerParticipant < input.MinJudgesPerParticipant {
		return domain.Errorf(domain.KindValidation, "max_judges_per_participant must not be below the minimum")
	}
	switch input.ResultVisibility {
	case "", types.VisibilityAdminOnly, types.VisibilityJudges, types.VisibilityPublic:
	default:
		return domain.Errorf(domain.KindValidation, "unknown result visibility %q", input.ResultVisibility)
	}
	return nil
}

func (s *scoringConfigService) Upsert(ctx context.Context, programID uuid.UUID, input ScoringConfigInput) (*types.ScoringConfig, error) {
	if programID == uuid.Nil {
		return nil, domain.Errorf(domain.KindValidation, "program id is required")
	}
	if err := validateConfigInput(input); err != nil {
		return nil, err
	}

	visibility := input.ResultVisibility
	if visibility == "" {
		visibility = types.VisibilityAdminOnly
	}

	config := &types.ScoringConfig{
		ProgramID:               programID,
		ScoringStart:            input.ScoringStart,
		ScoringEnd:              input.ScoringEnd,
		MinJudgesPerParticipant: input.MinJudgesPerParticipant,
		MaxJudgesPerParticipant: input.MaxJudgesPerParticipant,
		Method:                  input.Method,
		TopNCount:               input.TopNCount,
		AllowRevisions:          input.AllowRevisions,
		RevisionDeadline:        input.RevisionDeadline,
		MaxRevisionsPerScore:    input.MaxRevisionsPerScore,
		ResultVisibility:        visibility,
	}

	if err := s.configRepo.Upsert(ctx, nil, config); err != nil {
		return nil, err
	}
	s.log.Info("Scoring config saved",
		"program_id", programID.String(),
		"method", string(config.Method))
	return config, nil
}

func (s *scoringConfigService) Get(ctx context.Context, programID uuid.UUID) (*types.ScoringConfig, error) {
	config, err := s.configRepo.GetByProgram(ctx, nil, programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.Errorf(domain.KindNotFound, "no scoring configuration for program")
		}
		return nil, err
	}
	return config, nil
}

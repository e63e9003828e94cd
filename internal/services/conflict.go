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

type ConflictService interface {
	Flag(ctx context.Context, judgeID, participantID uuid.UUID, relationshipType, description string, flaggedBy uuid.UUID) (*types.ConflictFlag, error)
	Review(ctx context.Context, conflictID uuid.UUID, decision string, reviewerID uuid.UUID, notes string) (*types.ConflictFlag, error)
	// Check blocks only on a REJECTED conflict between the judge and the
	// registration's participant. PENDING and APPROVED flags pass: a
	// pending flag is not yet a finding, and an approved one records that
	// the relationship was reviewed and cleared.
	Check(ctx context.Context, tx *gorm.DB, judgeID uuid.UUID, registration *types.Registration) error
	List(ctx context.Context, status string) ([]*types.ConflictFlag, error)
}

type conflictService struct {
	db           *gorm.DB
	log          *logger.Logger
	conflictRepo repos.ConflictRepo
}

func NewConflictService(db *gorm.DB, log *logger.Logger, conflictRepo repos.ConflictRepo) ConflictService {
	return &conflictService{
		db:           db,
		log:          log.With("service", "ConflictService"),
		conflictRepo: conflictRepo,
	}
}

func (s *conflictService) Flag(ctx context.Context, judgeID, participantID uuid.UUID, relationshipType, description string, flaggedBy uuid.UUID) (*types.ConflictFlag, error) {
	if judgeID == uuid.Nil || participantID == uuid.Nil {
		return nil, domain.Errorf(domain.KindValidation, "judge id and participant id are required")
	}
	if relationshipType == "" {
		return nil, domain.Errorf(domain.KindValidation, "relationship type is required")
	}

	existing, err := s.conflictRepo.GetByJudgeAndParticipant(ctx, nil, judgeID, participantID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Errorf(domain.KindValidation,
			"a conflict is already flagged for this judge and participant")
	}

	flag := &types.ConflictFlag{
		JudgeID:          judgeID,
		ParticipantID:    participantID,
		RelationshipType: relationshipType,
		Description:      description,
		Status:           types.ConflictStatusPending,
		FlaggedBy:        flaggedBy,
	}
	if err := s.conflictRepo.Create(ctx, nil, flag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.Errorf(domain.KindValidation,
				"a conflict is already flagged for this judge and participant")
		}
		return nil, err
	}

	s.log.Info("Conflict flagged",
		"conflict_id", flag.ID.String(),
		"judge_id", judgeID.String(),
		"participant_id", participantID.String())
	return flag, nil
}

func (s *conflictService) Review(ctx context.Context, conflictID uuid.UUID, decision string, reviewerID uuid.UUID, notes string) (*types.ConflictFlag, error) {
	if decision != types.ConflictStatusApproved && decision != types.ConflictStatusRejected {
		return nil, domain.Errorf(domain.KindValidation, "decision must be APPROVED or REJECTED")
	}

	flag, err := s.conflictRepo.GetByID(ctx, nil, conflictID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.Errorf(domain.KindNotFound, "conflict not found")
		}
		return nil, err
	}
	if flag.Status != types.ConflictStatusPending {
		return nil, domain.Errorf(domain.KindValidation,
			"conflict has already been reviewed (%s)", flag.Status)
	}

	now := time.Now().UTC()
	flag.Status = decision
	flag.ReviewedBy = &reviewerID
	flag.ReviewedAt = &now
	flag.ReviewNotes = notes
	if err := s.conflictRepo.Save(ctx, nil, flag); err != nil {
		return nil, err
	}

	s.log.Info("Conflict reviewed",
		"conflict_id", conflictID.String(),
		"decision", decision)
	return flag, nil
}

func (s *conflictService) Check(ctx context.Context, tx *gorm.DB, judgeID uuid.UUID, registration *types.Registration) error {
	flag, err := s.conflictRepo.GetByJudgeAndParticipant(ctx, tx, judgeID, registration.ParticipantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if flag.Status == types.ConflictStatusRejected {
		return domain.Errorf(domain.KindConflictOfInterest,
			"conflict of interest: judge may not score this participant (%s)", flag.RelationshipType)
	}
	return nil
}

func (s *conflictService) List(ctx context.Context, status string) ([]*types.ConflictFlag, error) {
	return s.conflictRepo.List(ctx, nil, status)
}

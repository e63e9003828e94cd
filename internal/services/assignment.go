package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/talentfest/judging-backend/internal/domain"
	"github.com/talentfest/judging-backend/internal/platform/logger"
	"github.com/talentfest/judging-backend/internal/repos"
	"github.com/talentfest/judging-backend/internal/types"
)

type AssignmentCompletion struct {
	AssignmentID         uuid.UUID `json:"assignment_id"`
	ScoredCount          int64     `json:"scored_count"`
	MaxParticipants      *int      `json:"max_participants,omitempty"`
	CompletionPercentage *float64  `json:"completion_percentage,omitempty"`
	IsOverloaded         bool      `json:"is_overloaded"`
}

type AssignmentService interface {
	Assign(ctx context.Context, programID, judgeID uuid.UUID, categoryValue string, maxParticipants *int, metadata datatypes.JSON, assignedBy uuid.UUID) (*types.JudgeAssignment, error)
	// ValidatePermission passes when the judge holds an ACTIVE assignment
	// for the registration's program whose category is blank (all) or
	// matches the registration's category.
	ValidatePermission(ctx context.Context, tx *gorm.DB, judgeID uuid.UUID, registration *types.Registration) error
	// DistributeWorkload splits M unscored PAID registrations over the N
	// active assignments: the first M%N assignments (in stable order) get
	// M/N+1, the rest M/N.
	DistributeWorkload(ctx context.Context, programID uuid.UUID, categoryValue string) (map[uuid.UUID]int, error)
	Completion(ctx context.Context, assignmentID uuid.UUID) (*AssignmentCompletion, error)
	UpdateStatus(ctx context.Context, assignmentID uuid.UUID, status string) (*types.JudgeAssignment, error)
	ListByProgram(ctx context.Context, programID uuid.UUID) ([]*types.JudgeAssignment, error)
}

type assignmentService struct {
	db               *gorm.DB
	log              *logger.Logger
	assignmentRepo   repos.AssignmentRepo
	registrationRepo repos.RegistrationRepo
	scoreEntryRepo   repos.ScoreEntryRepo
}

func NewAssignmentService(db *gorm.DB, log *logger.Logger, assignmentRepo repos.AssignmentRepo, registrationRepo repos.RegistrationRepo, scoreEntryRepo repos.ScoreEntryRepo) AssignmentService {
	return &assignmentService{
		db:               db,
		log:              log.With("service", "AssignmentService"),
		assignmentRepo:   assignmentRepo,
		registrationRepo: registrationRepo,
		scoreEntryRepo:   scoreEntryRepo,
	}
}

func (s *assignmentService) Assign(ctx context.Context, programID, judgeID uuid.UUID, categoryValue string, maxParticipants *int, metadata datatypes.JSON, assignedBy uuid.UUID) (*types.JudgeAssignment, error) {
	if programID == uuid.Nil || judgeID == uuid.Nil {
		return nil, domain.Errorf(domain.KindValidation, "program id and judge id are required")
	}
	if maxParticipants != nil && *maxParticipants <= 0 {
		return nil, domain.Errorf(domain.KindValidation, "max_participants must be positive when set")
	}

	var assignment *types.JudgeAssignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.assignmentRepo.GetByKey(ctx, tx, programID, judgeID, categoryValue)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			if existing.Status != types.AssignmentStatusCancelled {
				return domain.Errorf(domain.KindValidation,
					"judge is already assigned to this program (%s)", categoryOrAll(categoryValue))
			}
			if err := s.assignmentRepo.UpdateStatus(ctx, tx, existing.ID, types.AssignmentStatusActive); err != nil {
				return err
			}
			existing.Status = types.AssignmentStatusActive
			if len(metadata) > 0 {
				if err := s.assignmentRepo.SetMetadata(ctx, tx, existing.ID, metadata); err != nil {
					return err
				}
				existing.Metadata = metadata
			}
			assignment = existing
			return nil
		}
		assignment = &types.JudgeAssignment{
			ProgramID:       programID,
			JudgeID:         judgeID,
			CategoryValue:   categoryValue,
			Status:          types.AssignmentStatusActive,
			MaxParticipants: maxParticipants,
			Metadata:        metadata,
			AssignedBy:      assignedBy,
		}
		return s.assignmentRepo.Create(ctx, tx, assignment)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Judge assigned",
		"assignment_id", assignment.ID.String(),
		"program_id", programID.String(),
		"judge_id", judgeID.String(),
		"category_value", categoryValue)
	return assignment, nil
}

func (s *assignmentService) ValidatePermission(ctx context.Context, tx *gorm.DB, judgeID uuid.UUID, registration *types.Registration) error {
	_, err := s.assignmentRepo.FindActiveForJudge(ctx, tx, registration.ProgramID, judgeID, registration.CategoryValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Errorf(domain.KindPermission,
				"judge is not assigned to score this registration")
		}
		return err
	}
	return nil
}

func (s *assignmentService) DistributeWorkload(ctx context.Context, programID uuid.UUID, categoryValue string) (map[uuid.UUID]int, error) {
	assignments, err := s.assignmentRepo.ListActive(ctx, nil, programID, categoryValue)
	if err != nil {
		return nil, err
	}
	distribution := make(map[uuid.UUID]int, len(assignments))
	if len(assignments) == 0 {
		return distribution, nil
	}

	total, err := s.registrationRepo.CountUnscoredEligible(ctx, nil, programID, categoryValue)
	if err != nil {
		return nil, err
	}

	base := int(total) / len(assignments)
	remainder := int(total) % len(assignments)
	for idx, assignment := range assignments {
		count := base
		if idx < remainder {
			count++
		}
		distribution[assignment.JudgeID] = count
	}
	return distribution, nil
}

func (s *assignmentService) Completion(ctx context.Context, assignmentID uuid.UUID) (*AssignmentCompletion, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, nil, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.Errorf(domain.KindNotFound, "assignment not found")
		}
		return nil, err
	}

	scored, err := s.scoreEntryRepo.CountScoredRegistrations(ctx, nil, assignment.ProgramID, assignment.JudgeID, assignment.CategoryValue)
	if err != nil {
		return nil, err
	}

	completion := &AssignmentCompletion{
		AssignmentID:    assignment.ID,
		ScoredCount:     scored,
		MaxParticipants: assignment.MaxParticipants,
	}
	if assignment.MaxParticipants != nil {
		pct := float64(scored) / float64(*assignment.MaxParticipants) * 100
		completion.CompletionPercentage = &pct
		completion.IsOverloaded = scored > int64(*assignment.MaxParticipants)
	}
	return completion, nil
}

func (s *assignmentService) UpdateStatus(ctx context.Context, assignmentID uuid.UUID, status string) (*types.JudgeAssignment, error) {
	switch status {
	case types.AssignmentStatusActive, types.AssignmentStatusPaused,
		types.AssignmentStatusCompleted, types.AssignmentStatusCancelled:
	default:
		return nil, domain.Errorf(domain.KindValidation, "unknown assignment status %q", status)
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, nil, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.Errorf(domain.KindNotFound, "assignment not found")
		}
		return nil, err
	}
	if err := s.assignmentRepo.UpdateStatus(ctx, nil, assignmentID, status); err != nil {
		return nil, err
	}
	assignment.Status = status
	return assignment, nil
}

func (s *assignmentService) ListByProgram(ctx context.Context, programID uuid.UUID) ([]*types.JudgeAssignment, error) {
	return s.assignmentRepo.ListByProgram(ctx, nil, programID)
}

func categoryOrAll(categoryValue string) string {
	if categoryValue == "" {
		return "all categories"
	}
	return categoryValue
}

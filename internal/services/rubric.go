package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentfest/judging-backend/internal/domain"
	"github.com/talentfest/judging-backend/internal/platform/logger"
	"github.com/talentfest/judging-backend/internal/repos"
	"github.com/talentfest/judging-backend/internal/types"
)

// weightTolerance is the allowed drift of the criteria weight sum from 1.0.
const weightTolerance = 0.01

type CriterionInput struct {
	CategoryID  uuid.UUID `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Guidelines  string    `json:"guidelines"`
	MaxScore    float64   `json:"max_score"`
	Weight      float64   `json:"weight"`
	SortOrder   int       `json:"sort_order"`
}

type CreateRubricInput struct {
	ProgramID           uuid.UUID        `json:"program_id"`
	Name                string           `json:"name"`
	Description         string           `json:"description"`
	CategoryValue       string           `json:"category_value"`
	TotalPossiblePoints float64          `json:"total_possible_points"`
	CreatedBy           uuid.UUID        `json:"-"`
	Criteria            []CriterionInput `json:"criteria"`
}

type RubricService interface {
	CreateRubric(ctx context.Context, input CreateRubricInput) (*types.Rubric, error)
	CloneRubric(ctx context.Context, sourceID, targetProgramID uuid.UUID, newName string) (*types.Rubric, error)
	// GetForRegistration resolves the rubric a registration is scored
	// against: the active rubric for its exact category value, falling
	// back to the program's general (blank category) rubric.
	GetForRegistration(ctx context.Context, tx *gorm.DB, registration *types.Registration) (*types.Rubric, error)
	GetForRegistrationID(ctx context.Context, registrationID uuid.UUID) (*types.Rubric, error)
	GetRubric(ctx context.Context, id uuid.UUID) (*types.Rubric, error)
	ListByProgram(ctx context.Context, programID uuid.UUID) ([]*types.Rubric, error)
	CreateCategory(ctx context.Context, name string, sortOrder int) (*types.RubricCategory, error)
	ListCategories(ctx context.Context) ([]*types.RubricCategory, error)
}

type rubricService struct {
	db               *gorm.DB
	log              *logger.Logger
	rubricRepo       repos.RubricRepo
	registrationRepo repos.RegistrationRepo
}

func NewRubricService(db *gorm.DB, log *logger.Logger, rubricRepo repos.RubricRepo, registrationRepo repos.RegistrationRepo) RubricService {
	return &rubricService{
		db:               db,
		log:              log.With("service", "RubricService"),
		rubricRepo:       rubricRepo,
		registrationRepo: registrationRepo,
	}
}

func validateWeights(criteria []CriterionInput) error {
	var total float64
	for _, c := range criteria {
		total += c.Weight
	}
	if math.Abs(total-1.0) > weightTolerance {
		return domain.Errorf(domain.KindValidation,
			"criteria weights must sum to 1.0 (100%%), current total: %.4f", total)
	}
	return nil
}

func (s *rubricService) CreateRubric(ctx context.Context, input CreateRubricInput) (*types.Rubric, error) {
	if input.ProgramID == uuid.Nil {
		return nil, domain.Errorf(domain.KindValidation, "program id is required")
	}
	if input.Name == "" {
		return nil, domain.Errorf(domain.KindValidation, "rubric name is required")
	}
	if len(input.Criteria) == 0 {
		return nil, domain.Errorf(domain.KindValidation, "at least one criterion is required")
	}
	for _, c := range input.Criteria {
		if c.MaxScore <= 0 {
			return nil, domain.Errorf(domain.KindValidation, "criterion %q must have a positive max score", c.Name)
		}
	}
	if err := validateWeights(input.Criteria); err != nil {
		return nil, err
	}

	totalPoints := input.TotalPossiblePoints
	if totalPoints <= 0 {
		totalPoints = 100
	}

	rubric := &types.Rubric{
		ProgramID:           input.ProgramID,
		CategoryValue:       input.CategoryValue,
		Name:                input.Name,
		Description:         input.Description,
		TotalPossiblePoints: totalPoints,
		IsActive:            true,
		CreatedBy:           input.CreatedBy,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.rubricRepo.DeactivateActive(ctx, tx, input.ProgramID, input.CategoryValue); err != nil {
			return fmt.Errorf("deactivating previous rubric: %w", err)
		}
		if err := s.rubricRepo.Create(ctx, tx, rubric); err != nil {
			return fmt.Errorf("creating rubric: %w", err)
		}
		criteria := make([]*types.RubricCriterion, 0, len(input.Criteria))
		for _, c := range input.Criteria {
			criteria = append(criteria, &types.RubricCriterion{
				RubricID:    rubric.ID,
				CategoryID:  c.CategoryID,
				Name:        c.Name,
				Description: c.Description,
				Guidelines:  c.Guidelines,
				MaxScore:    c.MaxScore,
				Weight:      c.Weight,
				SortOrder:   c.SortOrder,
			})
		}
		if err := s.rubricRepo.CreateCriteria(ctx, tx, criteria); err != nil {
			return fmt.Errorf("creating criteria: %w", err)
		}
		rubric.Criteria = make([]types.RubricCriterion, len(criteria))
		for i, c := range criteria {
			rubric.Criteria[i] = *c
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Rubric created",
		"rubric_id", rubric.ID.String(),
		"program_id", input.ProgramID.String(),
		"category_value", input.CategoryValue,
		"criteria", len(rubric.Criteria))
	return rubric, nil
}

func (s *rubricService) CloneRubric(ctx context.Context, sourceID, targetProgramID uuid.UUID, newName string) (*types.Rubric, error) {
	source, err := s.rubricRepo.GetByID(ctx, nil, sourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.Errorf(domain.KindNotFound, "source rubric not found")
		}
		return nil, err
	}
	if targetProgramID == uuid.Nil {
		return nil, domain.Errorf(domain.KindValidation, "target program id is required")
	}
	if newName == "" {
		newName = source.Name + " (Copy)"
	}

	clone := &types.Rubric{
		ProgramID:           targetProgramID,
		Name:                newName,
		Description:         source.Description,
		TotalPossiblePoints: source.TotalPossiblePoints,
		IsActive:            true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The clone lands as the program's general rubric, so any active
		// rubric for the blank category pair is replaced.
		if err := s.rubricRepo.DeactivateActive(ctx, tx, targetProgramID, ""); err != nil {
			return err
		}
		if err := s.rubricRepo.Create(ctx, tx, clone); err != nil {
			return err
		}
		criteria := make([]*types.RubricCriterion, 0, len(source.Criteria))
		for _, c := range source.Criteria {
			criteria = append(criteria, &types.RubricCriterion{
				RubricID:    clone.ID,
				CategoryID:  c.CategoryID,
				Name:        c.Name,
				Description: c.Description,
				Guidelines:  c.Guidelines,
				MaxScore:    c.MaxScore,
				Weight:      c.Weight,
				SortOrder:   c.SortOrder,
			})
		}
		if err := s.rubricRepo.CreateCriteria(ctx, tx, criteria); err != nil {
			return err
		}
		clone.Criteria = make([]types.RubricCriterion, len(criteria))
		for i, c := range criteria {
			clone.Criteria[i] = *c
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Rubric cloned",
		"source_id", sourceID.String(),
		"clone_id", clone.ID.String(),
		"target_program_id", targetProgramID.String())
	return clone, nil
}

func (s *rubricService) GetForRegistration(ctx context.Context, tx *gorm.DB, registration *types.Registration) (*types.Rubric, error) {
	if registration == nil {
		return nil, domain.Errorf(domain.KindValidation, "registration is required")
	}
	if registration.CategoryValue != "" {
		rubric, err := s.rubricRepo.GetActive(ctx, tx, registration.ProgramID, registration.CategoryValue)
		if err == nil {
			return rubric, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	rubric, err := s.rubricRepo.GetActive(ctx, tx, registration.ProgramID, "")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.Errorf(domain.KindNoRubric,
				"no active rubric found for program %s (category: %s)",
				registration.ProgramID, registration.CategoryValue)
		}
		return nil, err
	}
	return rubric, nil
}

func (s *rubricService) GetForRegistrationID(ctx context.Context, registrationID uuid.UUID) (*types.Rubric, error) {
	registration, err := s.registrationRepo.GetByID(ctx, nil, registrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.Errorf(domain.KindNotFound, "registration not found")
		}
		return nil, err
	}
	return s.GetForRegistration(ctx, nil, registration)
}

func (s *rubricService) GetRubric(ctx context.Context, id uuid.UUID) (*types.Rubric, error) {
	rubric, err := s.rubricRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.Errorf(domain.KindNotFound, "rubric not found")
		}
		return nil, err
	}
	return rubric, nil
}

func (s *rubricService) ListByProgram(ctx context.Context, programID uuid.UUID) ([]*types.Rubric, error) {
	return s.rubricRepo.ListByProgram(ctx, nil, programID)
}

func (s *rubricService) CreateCategory(ctx context.Context, name string, sortOrder int) (*types.RubricCategory, error) {
	if name == "" {
		return nil, domain.Errorf(domain.KindValidation, "category name is required")
	}
	category := &types.RubricCategory{Name: name, SortOrder: sortOrder}
	if err := s.rubricRepo.CreateCategory(ctx, nil, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.Errorf(domain.KindValidation, "category %q already exists", name)
		}
		return nil, err
	}
	return category, nil
}

func (s *rubricService) ListCategories(ctx context.Context) ([]*types.RubricCategory, error) {
	return s.rubricRepo.ListCategories(ctx, nil)
}

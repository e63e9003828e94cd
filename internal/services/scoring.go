package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentfest/judging-backend/internal/domain"
	"github.com/talentfest/judging-backend/internal/platform/logger"
	"github.com/talentfest/judging-backend/internal/repos"
	"github.com/talentfest/judging-backend/internal/types"
)

// maxSubmitAttempts bounds the transactional retry used to resolve the
// revision-number race: when two submissions for the same key collide on
// the unique revision index, the loser re-reads the new current entry and
// re-runs its revision policy checks.
const maxSubmitAttempts = 3

type BulkScoreItem struct {
	JudgeID        uuid.UUID `json:"judge_id"`
	RegistrationID uuid.UUID `json:"registration_id"`
	CriterionID    uuid.UUID `json:"criterion_id"`
	RawScore       float64   `json:"raw_score"`
}

type BulkItemError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type BulkItemResult struct {
	Index   int            `json:"index"`
	Item    BulkScoreItem  `json:"item"`
	EntryID *uuid.UUID     `json:"entry_id,omitempty"`
	Error   *BulkItemError `json:"error,omitempty"`
}

type BulkResult struct {
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Results   []BulkItemResult `json:"results"`
}

type ScoringService interface {
	// SubmitScores validates and persists one judge's scores for one
	// registration as a single atomic batch: temporal gate, assignment
	// permission, conflict gate, rubric resolution, per-criterion range
	// checks and revision policy all pass or nothing is written.
	SubmitScores(ctx context.Context, judgeID, registrationID uuid.UUID, scores map[uuid.UUID]float64) ([]*types.ScoreEntry, error)
	// BulkUpsert runs each item through the same gate chain independently
	// and reports per-item outcomes instead of aborting the batch.
	BulkUpsert(ctx context.Context, items []BulkScoreItem) *BulkResult
	ListForJudge(ctx context.Context, judgeID, programID uuid.UUID) ([]*types.ScoreEntry, error)
	ListForRegistration(ctx context.Context, registrationID uuid.UUID) ([]*types.ScoreEntry, error)
}

type scoringService struct {
	db                *gorm.DB
	log               *logger.Logger
	registrationRepo  repos.RegistrationRepo
	configRepo        repos.ScoringConfigRepo
	scoreEntryRepo    repos.ScoreEntryRepo
	rubricService     RubricService
	assignmentService AssignmentService
	conflictService   ConflictService
}

func NewScoringService(
	db *gorm.DB,
	log *logger.Logger,
	registrationRepo repos.RegistrationRepo,
	configRepo repos.ScoringConfigRepo,
	scoreEntryRepo repos.ScoreEntryRepo,
	rubricService RubricService,
	assignmentService AssignmentService,
	conflictService ConflictService,
) ScoringService {
	return &scoringService{
		db:                db,
		log:               log.With("service", "ScoringService"),
		registrationRepo:  registrationRepo,
		configRepo:        configRepo,
		scoreEntryRepo:    scoreEntryRepo,
		rubricService:     rubricService,
		assignmentService: assignmentService,
		conflictService:   conflictService,
	}
}

func (s *scoringService) SubmitScores(ctx context.Context, judgeID, registrationID uuid.UUID, scores map[uuid.UUID]float64) ([]*types.ScoreEntry, error) {
	if judgeID == uuid.Nil {
		return nil, domain.Errorf(domain.KindValidation, "judge id is required")
	}
	if len(scores) == 0 {
		return nil, domain.Errorf(domain.KindValidation, "at least one score is required")
	}

	var created []*types.ScoreEntry
	var err error
	for attempt := 1; attempt <= maxSubmitAttempts; attempt++ {
		created, err = s.submitOnce(ctx, judgeID, registrationID, scores)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		s.log.Warn("Concurrent revision detected, retrying submission",
			"judge_id", judgeID.String(),
			"registration_id", registrationID.String(),
			"attempt", attempt)
	}
	return nil, fmt.Errorf("submission kept colliding with concurrent revisions: %w", err)
}

func (s *scoringService) submitOnce(ctx context.Context, judgeID, registrationID uuid.UUID, scores map[uuid.UUID]float64) ([]*types.ScoreEntry, error) {
	now := time.Now().UTC()
	var created []*types.ScoreEntry

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		registration, err := s.registrationRepo.GetByID(ctx, tx, registrationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.Errorf(domain.KindNotFound, "registration not found")
			}
			return err
		}

		config, err := s.configRepo.GetByProgram(ctx, tx, registration.ProgramID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.Errorf(domain.KindValidation, "no scoring configuration for program")
			}
			return err
		}
		if !config.IsScoringActive(now) {
			if now.Before(config.ScoringStart) {
				return domain.Errorf(domain.KindTemporal,
					"scoring has not started yet, opens at %s", config.ScoringStart.Format(time.RFC3339))
			}
			return domain.Errorf(domain.KindTemporal,
				"scoring window has closed, ended at %s", config.ScoringEnd.Format(time.RFC3339))
		}

		if err := s.assignmentService.ValidatePermission(ctx, tx, judgeID, registration); err != nil {
			return err
		}
		if err := s.conflictService.Check(ctx, tx, judgeID, registration); err != nil {
			return err
		}

		rubric, err := s.rubricService.GetForRegistration(ctx, tx, registration)
		if err != nil {
			return err
		}

		criteriaByID := make(map[uuid.UUID]*types.RubricCriterion, len(rubric.Criteria))
		for i := range rubric.Criteria {
			criteriaByID[rubric.Criteria[i].ID] = &rubric.Criteria[i]
		}

		// Deterministic iteration keeps retry behavior and tests stable.
		criterionIDs := make([]uuid.UUID, 0, len(scores))
		for id := range scores {
			criterionIDs = append(criterionIDs, id)
		}
		sort.Slice(criterionIDs, func(i, j int) bool {
			return criterionIDs[i].String() < criterionIDs[j].String()
		})

		batch := make([]*types.ScoreEntry, 0, len(criterionIDs))
		for _, criterionID := range criterionIDs {
			rawScore := scores[criterionID]
			criterion, ok := criteriaByID[criterionID]
			if !ok {
				return domain.Errorf(domain.KindValidation,
					"criterion %s not found in active rubric", criterionID)
			}
			if rawScore < 0 || rawScore > criterion.MaxScore {
				return domain.Errorf(domain.KindScoreOutOfRange,
					"score %.2f is outside 0..%.2f for %s", rawScore, criterion.MaxScore, criterion.Name)
			}

			entry := &types.ScoreEntry{
				ProgramID:      registration.ProgramID,
				RegistrationID: registration.ID,
				JudgeID:        judgeID,
				CriterionID:    criterion.ID,
				RawScore:       rawScore,
				MaxScore:       criterion.MaxScore,
				RevisionNumber: 1,
			}

			current, err := s.scoreEntryRepo.CurrentForKey(ctx, tx, registration.ProgramID, registration.ID, judgeID, criterion.ID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if current != nil {
				if err := s.checkRevisionPolicy(ctx, tx, config, registration, judgeID, criterion.ID, now); err != nil {
					return err
				}
				entry.RevisionNumber = current.RevisionNumber + 1
				entry.PreviousEntryID = &current.ID
				entry.RevisionReason = "Score updated"
			}

			entry.ScorePercentage = rawScore / criterion.MaxScore * 100
			entry.WeightedScore = (entry.ScorePercentage / 100) * criterion.Weight * rubric.TotalPossiblePoints
			batch = append(batch, entry)
		}

		if err := s.scoreEntryRepo.Create(ctx, tx, batch); err != nil {
			return err
		}
		created = batch
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Scores submitted",
		"judge_id", judgeID.String(),
		"registration_id", registrationID.String(),
		"entries", len(created))
	return created, nil
}

func (s *scoringService) checkRevisionPolicy(ctx context.Context, tx *gorm.DB, config *types.ScoringConfig, registration *types.Registration, judgeID, criterionID uuid.UUID, now time.Time) error {
	if !config.AllowRevisions {
		return domain.Errorf(domain.KindRevisionNotAllowed,
			"score revisions are not allowed for this program")
	}
	if config.RevisionDeadline != nil && now.After(*config.RevisionDeadline) {
		return domain.Errorf(domain.KindRevisionNotAllowed, "revision deadline has passed")
	}
	if config.MaxRevisionsPerScore > 0 {
		count, err := s.scoreEntryRepo.CountForKey(ctx, tx, registration.ProgramID, registration.ID, judgeID, criterionID)
		if err != nil {
			return err
		}
		if count >= int64(config.MaxRevisionsPerScore) {
			return domain.Errorf(domain.KindRevisionLimitExceeded,
				"maximum %d revisions exceeded", config.MaxRevisionsPerScore)
		}
	}
	return nil
}

func (s *scoringService) BulkUpsert(ctx context.Context, items []BulkScoreItem) *BulkResult {
	result := &BulkResult{Results: make([]BulkItemResult, 0, len(items))}
	for idx, item := range items {
		itemResult := BulkItemResult{Index: idx, Item: item}
		entries, err := s.SubmitScores(ctx, item.JudgeID, item.RegistrationID,
			map[uuid.UUID]float64{item.CriterionID: item.RawScore})
		if err != nil {
			code := string(domain.KindOf(err))
			if code == "" {
				code = "INTERNAL_ERROR"
			}
			itemResult.Error = &BulkItemError{Code: code, Message: err.Error()}
			result.Failed++
		} else {
			itemResult.EntryID = &entries[0].ID
			result.Succeeded++
		}
		result.Results = append(result.Results, itemResult)
	}
	return result
}

func (s *scoringService) ListForJudge(ctx context.Context, judgeID, programID uuid.UUID) ([]*types.ScoreEntry, error) {
	return s.scoreEntryRepo.ListByJudge(ctx, nil, judgeID, programID)
}

func (s *scoringService) ListForRegistration(ctx context.Context, registrationID uuid.UUID) ([]*types.ScoreEntry, error) {
	registration, err := s.registrationRepo.GetByID(ctx, nil, registrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.Errorf(domain.KindNotFound, "registration not found")
		}
		return nil, err
	}
	return s.scoreEntryRepo.ListByRegistration(ctx, nil, registration.ProgramID, registration.ID)
}

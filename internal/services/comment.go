package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentfest/judging-backend/internal/domain"
	"github.com/talentfest/judging-backend/internal/platform/logger"
	"github.com/talentfest/judging-backend/internal/repos"
	"github.com/talentfest/judging-backend/internal/types"
)

type CommentService interface {
	// Add records a judge's free-text comment on a registration. The same
	// assignment permission gate as scoring applies, but no temporal gate:
	// feedback stays open after the scoring window closes.
	Add(ctx context.Context, judgeID, registrationID uuid.UUID, text string) (*types.JudgeComment, error)
	ListForRegistration(ctx context.Context, registrationID uuid.UUID) ([]*types.JudgeComment, error)
	ListOwnForRegistration(ctx context.Context, judgeID, registrationID uuid.UUID) ([]*types.JudgeComment, error)
}

type commentService struct {
	db                *gorm.DB
	log               *logger.Logger
	commentRepo       repos.CommentRepo
	registrationRepo  repos.RegistrationRepo
	assignmentService AssignmentService
}

func NewCommentService(db *gorm.DB, log *logger.Logger, commentRepo repos.CommentRepo, registrationRepo repos.RegistrationRepo, assignmentService AssignmentService) CommentService {
	return &commentService{
		db:                db,
		log:               log.With("service", "CommentService"),
		commentRepo:       commentRepo,
		registrationRepo:  registrationRepo,
		assignmentService: assignmentService,
	}
}

func (s *commentService) Add(ctx context.Context, judgeID, registrationID uuid.UUID, text string) (*types.JudgeComment, error) {
	if text == "" {
		return nil, domain.Errorf(domain.KindValidation, "comment text is required")
	}

	registration, err := s.registrationRepo.GetByID(ctx, nil, registrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.Errorf(domain.KindNotFound, "registration not found")
		}
		return nil, err
	}
	if err := s.assignmentService.ValidatePermission(ctx, nil, judgeID, registration); err != nil {
		return nil, err
	}

	comment := &types.JudgeComment{
		JudgeID:        judgeID,
		RegistrationID: registrationID,
		Comment:        text,
	}
	if err := s.commentRepo.Create(ctx, nil, comment); err != nil {
		return nil, err
	}

	s.log.Info("Comment added",
		"comment_id", comment.ID.String(),
		"judge_id", judgeID.String(),
		"registration_id", registrationID.String())
	return comment, nil
}

func (s *commentService) ListForRegistration(ctx context.Context, registrationID uuid.UUID) ([]*types.JudgeComment, error) {
	return s.commentRepo.ListByRegistration(ctx, nil, registrationID)
}

func (s *commentService) ListOwnForRegistration(ctx context.Context, judgeID, registrationID uuid.UUID) ([]*types.JudgeComment, error) {
	return s.commentRepo.ListByJudgeAndRegistration(ctx, nil, judgeID, registrationID)
}

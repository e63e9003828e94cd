package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentfest/judging-backend/internal/platform/logger"
	"github.com/talentfest/judging-backend/internal/types"
)

type CommentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, comment *types.JudgeComment) error
	ListByRegistration(ctx context.Context, tx *gorm.DB, registrationID uuid.UUID) ([]*types.JudgeComment, error)
	ListByJudgeAndRegistration(ctx context.Context, tx *gorm.DB, judgeID, registrationID uuid.UUID) ([]*types.JudgeComment, error)
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return &commentRepo{db: db, log: baseLog.With("repo", "CommentRepo")}
}

func (r *commentRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *commentRepo) Create(ctx context.Context, tx *gorm.DB, comment *types.JudgeComment) error {
	if comment == nil {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(comment).Error
}

func (r *commentRepo) ListByRegistration(ctx context.Context, tx *gorm.DB, registrationID uuid.UUID) ([]*types.JudgeComment, error) {
	var results []*types.JudgeComment
	err := r.conn(tx).WithContext(ctx).
		Where("registration_id = ?", registrationID).
		Order("created_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *commentRepo) ListByJudgeAndRegistration(ctx context.Context, tx *gorm.DB, judgeID, registrationID uuid.UUID) ([]*types.JudgeComment, error) {
	var results []*types.JudgeComment
	err := r.conn(tx).WithContext(ctx).
		Where("judge_id = ? AND registration_id = ?", judgeID, registrationID).
		Order("created_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

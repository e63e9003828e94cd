package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentfest/judging-backend/internal/platform/logger"
	"github.com/talentfest/judging-backend/internal/types"
)

type ConflictRepo interface {
	Create(ctx context.Context, tx *gorm.DB, flag *types.ConflictFlag) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ConflictFlag, error)
	GetByJudgeAndParticipant(ctx context.Context, tx *gorm.DB, judgeID, participantID uuid.UUID) (*types.ConflictFlag, error)
	Save(ctx context.Context, tx *gorm.DB, flag *types.ConflictFlag) error
	List(ctx context.Context, tx *gorm.DB, status string) ([]*types.ConflictFlag, error)
}

type conflictRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConflictRepo(db *gorm.DB, baseLog *logger.Logger) ConflictRepo {
	return &conflictRepo{db: db, log: baseLog.With("repo", "ConflictRepo")}
}

func (r *conflictRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *conflictRepo) Create(ctx context.Context, tx *gorm.DB, flag *types.ConflictFlag) error {
	if flag == nil {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(flag).Error
}

func (r *conflictRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ConflictFlag, error) {
	var flag types.ConflictFlag
	err := r.conn(tx).WithContext(ctx).
		Where("id = ?", id).
		First(&flag).Error
	if err != nil {
		return nil, err
	}
	return &flag, nil
}

func (r *conflictRepo) GetByJudgeAndParticipant(ctx context.Context, tx *gorm.DB, judgeID, participantID uuid.UUID) (*types.ConflictFlag, error) {
	var flag types.ConflictFlag
	err := r.conn(tx).WithContext(ctx).
		Where("judge_id = ? AND participant_id = ?", judgeID, participantID).
		First(&flag).Error
	if err != nil {
		return nil, err
	}
	return &flag, nil
}

func (r *conflictRepo) Save(ctx context.Context, tx *gorm.DB, flag *types.ConflictFlag) error {
	if flag == nil {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Save(flag).Error
}

func (r *conflictRepo) List(ctx context.Context, tx *gorm.DB, status string) ([]*types.ConflictFlag, error) {
	query := r.conn(tx).WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var results []*types.ConflictFlag
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/talentfest/judging-backend/internal/platform/logger"
	"github.com/talentfest/judging-backend/internal/types"
)

type AssignmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assignment *types.JudgeAssignment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.JudgeAssignment, error)
	GetByKey(ctx context.Context, tx *gorm.DB, programID, judgeID uuid.UUID, categoryValue string) (*types.JudgeAssignment, error)
	// FindActiveForJudge returns the ACTIVE assignment that covers the
	// given category: blank category_value matches everything.
	FindActiveForJudge(ctx context.Context, tx *gorm.DB, programID, judgeID uuid.UUID, categoryValue string) (*types.JudgeAssignment, error)
	ListActive(ctx context.Context, tx *gorm.DB, programID uuid.UUID, categoryValue string) ([]*types.JudgeAssignment, error)
	ListByProgram(ctx context.Context, tx *gorm.DB, programID uuid.UUID) ([]*types.JudgeAssignment, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error
	SetMetadata(ctx context.Context, tx *gorm.DB, id uuid.UUID, metadata datatypes.JSON) error
}

type assignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentRepo {
	return &assignmentRepo{db: db, log: baseLog.With("repo", "AssignmentRepo")}
}

func (r *assignmentRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *assignmentRepo) Create(ctx context.Context, tx *gorm.DB, assignment *types.JudgeAssignment) error {
	if assignment == nil {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.JudgeAssignment, error) {
	var assignment types.JudgeAssignment
	err := r.conn(tx).WithContext(ctx).
		Where("id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) GetByKey(ctx context.Context, tx *gorm.DB, programID, judgeID uuid.UUID, categoryValue string) (*types.JudgeAssignment, error) {
	var assignment types.JudgeAssignment
	err := r.conn(tx).WithContext(ctx).
		Where("program_id = ? AND judge_id = ? AND category_value = ?", programID, judgeID, categoryValue).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) FindActiveForJudge(ctx context.Context, tx *gorm.DB, programID, judgeID uuid.UUID, categoryValue string) (*types.JudgeAssignment, error) {
	var assignment types.JudgeAssignment
	err := r.conn(tx).WithContext(ctx).
		Where("program_id = ? AND judge_id = ? AND status = ?", programID, judgeID, types.AssignmentStatusActive).
		Where("category_value = ? OR category_value = ?", "", categoryValue).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListActive returns ACTIVE assignments in stable creation order, which
// workload distribution relies on for its deterministic remainder split.
func (r *assignmentRepo) ListActive(ctx context.Context, tx *gorm.DB, programID uuid.UUID, categoryValue string) ([]*types.JudgeAssignment, error) {
	query := r.conn(tx).WithContext(ctx).
		Where("program_id = ? AND status = ?", programID, types.AssignmentStatusActive)
	if categoryValue != "" {
		query = query.Where("category_value = ? OR category_value = ?", "", categoryValue)
	}
	var results []*types.JudgeAssignment
	if err := query.Order("created_at ASC, id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assignmentRepo) ListByProgram(ctx context.Context, tx *gorm.DB, programID uuid.UUID) ([]*types.JudgeAssignment, error) {
	var results []*types.JudgeAssignment
	err := r.conn(tx).WithContext(ctx).
		Where("program_id = ?", programID).
		Order("created_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assignmentRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.JudgeAssignment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *assignmentRepo) SetMetadata(ctx context.Context, tx *gorm.DB, id uuid.UUID, metadata datatypes.JSON) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.JudgeAssignment{}).
		Where("id = ?", id).
		Update("metadata", metadata).Error
}

package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentfest/judging-backend/internal/platform/logger"
	"github.com/talentfest/judging-backend/internal/types"
)

type RubricRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rubric *types.Rubric) error
	CreateCriteria(ctx context.Context, tx *gorm.DB, criteria []*types.RubricCriterion) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Rubric, error)
	GetActive(ctx context.Context, tx *gorm.DB, programID uuid.UUID, categoryValue string) (*types.Rubric, error)
	ListByProgram(ctx context.Context, tx *gorm.DB, programID uuid.UUID) ([]*types.Rubric, error)
	DeactivateActive(ctx context.Context, tx *gorm.DB, programID uuid.UUID, categoryValue string) error
	CreateCategory(ctx context.Context, tx *gorm.DB, category *types.RubricCategory) error
	ListCategories(ctx context.Context, tx *gorm.DB) ([]*types.RubricCategory, error)
}

type rubricRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRubricRepo(db *gorm.DB, baseLog *logger.Logger) RubricRepo {
	return &rubricRepo{db: db, log: baseLog.With("repo", "RubricRepo")}
}

func (r *rubricRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *rubricRepo) Create(ctx context.Context, tx *gorm.DB, rubric *types.Rubric) error {
	if rubric == nil {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(rubric).Error
}

func (r *rubricRepo) CreateCriteria(ctx context.Context, tx *gorm.DB, criteria []*types.RubricCriterion) error {
	if len(criteria) == 0 {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(&criteria).Error
}

func (r *rubricRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Rubric, error) {
	var rubric types.Rubric
	err := r.conn(tx).WithContext(ctx).
		Preload("Criteria", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("id = ?", id).
		First(&rubric).Error
	if err != nil {
		return nil, err
	}
	return &rubric, nil
}

func (r *rubricRepo) GetActive(ctx context.Context, tx *gorm.DB, programID uuid.UUID, categoryValue string) (*types.Rubric, error) {
	var rubric types.Rubric
	err := r.conn(tx).WithContext(ctx).
		Preload("Criteria", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("program_id = ? AND category_value = ? AND is_active = ?", programID, categoryValue, true).
		First(&rubric).Error
	if err != nil {
		return nil, err
	}
	return &rubric, nil
}

func (r *rubricRepo) ListByProgram(ctx context.Context, tx *gorm.DB, programID uuid.UUID) ([]*types.Rubric, error) {
	var results []*types.Rubric
	err := r.conn(tx).WithContext(ctx).
		Preload("Criteria", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("program_id = ?", programID).
		Order("created_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *rubricRepo) DeactivateActive(ctx context.Context, tx *gorm.DB, programID uuid.UUID, categoryValue string) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.Rubric{}).
		Where("program_id = ? AND category_value = ? AND is_active = ?", programID, categoryValue, true).
		Update("is_active", false).Error
}

func (r *rubricRepo) CreateCategory(ctx context.Context, tx *gorm.DB, category *types.RubricCategory) error {
	if category == nil {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(category).Error
}

func (r *rubricRepo) ListCategories(ctx context.Context, tx *gorm.DB) ([]*types.RubricCategory, error) {
	var results []*types.RubricCategory
	err := r.conn(tx).WithContext(ctx).
		Order("sort_order ASC, name ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

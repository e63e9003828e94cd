package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentfest/judging-backend/internal/platform/logger"
	"github.com/talentfest/judging-backend/internal/types"
)

type RegistrationRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Registration, error)
	ListEligible(ctx context.Context, tx *gorm.DB, programID uuid.UUID, categoryValue string) ([]*types.Registration, error)
	CountUnscoredEligible(ctx context.Context, tx *gorm.DB, programID uuid.UUID, categoryValue string) (int64, error)
	DistinctCategories(ctx context.Context, tx *gorm.DB, programID uuid.UUID) ([]string, error)
}

type registrationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRegistrationRepo(db *gorm.DB, baseLog *logger.Logger) RegistrationRepo {
	return &registrationRepo{db: db, log: baseLog.With("repo", "RegistrationRepo")}
}

func (r *registrationRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *registrationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Registration, error) {
	var registration types.Registration
	err := r.conn(tx).WithContext(ctx).
		Where("id = ?", id).
		First(&registration).Error
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

// ListEligible returns PAID registrations for the program, ordered by id
// so leaderboard tie-breaking stays deterministic.
func (r *registrationRepo) ListEligible(ctx context.Context, tx *gorm.DB, programID uuid.UUID, categoryValue string) ([]*types.Registration, error) {
	query := r.conn(tx).WithContext(ctx).
		Where("program_id = ? AND status = ?", programID, types.RegistrationStatusPaid)
	if categoryValue != "" {
		query = query.Where("category_value = ?", categoryValue)
	}
	var results []*types.Registration
	if err := query.Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// CountUnscoredEligible counts PAID registrations with no score entries
// yet, the M side of the workload split.
func (r *registrationRepo) CountUnscoredEligible(ctx context.Context, tx *gorm.DB, programID uuid.UUID, categoryValue string) (int64, error) {
	query := r.conn(tx).WithContext(ctx).
		Model(&types.Registration{}).
		Where("program_id = ? AND status = ?", programID, types.RegistrationStatusPaid).
		Where("NOT EXISTS (SELECT 1 FROM score_entry WHERE score_entry.registration_id = registration.id)")
	if categoryValue != "" {
		query = query.Where("category_value = ?", categoryValue)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// DistinctCategories lists every category value present among a program's
// registrations, blank included.
func (r *registrationRepo) DistinctCategories(ctx context.Context, tx *gorm.DB, programID uuid.UUID) ([]string, error) {
	var values []string
	err := r.conn(tx).WithContext(ctx).
		Model(&types.Registration{}).
		Where("program_id = ?", programID).
		Distinct().
		Pluck("category_value", &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

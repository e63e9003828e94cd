package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentfest/judging-backend/internal/platform/logger"
	"github.com/talentfest/judging-backend/internal/types"
)

// ScoreEntryRepo is deliberately append-only: there is no update or
// delete. Revisions are new rows and the audit trail is the table itself.
type ScoreEntryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entries []*types.ScoreEntry) error
	// CurrentForKey returns the entry with the highest revision number for
	// the (program, registration, judge, criterion) key, or gorm.ErrRecordNotFound.
	CurrentForKey(ctx context.Context, tx *gorm.DB, programID, registrationID, judgeID, criterionID uuid.UUID) (*types.ScoreEntry, error)
	CountForKey(ctx context.Context, tx *gorm.DB, programID, registrationID, judgeID, criterionID uuid.UUID) (int64, error)
	ListByRegistration(ctx context.Context, tx *gorm.DB, programID, registrationID uuid.UUID) ([]*types.ScoreEntry, error)
	ListByJudge(ctx context.Context, tx *gorm.DB, judgeID uuid.UUID, programID uuid.UUID) ([]*types.ScoreEntry, error)
	CountScoredRegistrations(ctx context.Context, tx *gorm.DB, programID, judgeID uuid.UUID, categoryValue string) (int64, error)
}

type scoreEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScoreEntryRepo(db *gorm.DB, baseLog *logger.Logger) ScoreEntryRepo {
	return &scoreEntryRepo{db: db, log: baseLog.With("repo", "ScoreEntryRepo")}
}

func (r *scoreEntryRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *scoreEntryRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.ScoreEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(&entries).Error
}

func (r *scoreEntryRepo) CurrentForKey(ctx context.Context, tx *gorm.DB, programID, registrationID, judgeID, criterionID uuid.UUID) (*types.ScoreEntry, error) {
	var entry types.ScoreEntry
	err := r.conn(tx).WithContext(ctx).
		Where("program_id = ? AND registration_id = ? AND judge_id = ? AND criterion_id = ?",
			programID, registrationID, judgeID, criterionID).
		Order("revision_number DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *scoreEntryRepo) CountForKey(ctx context.Context, tx *gorm.DB, programID, registrationID, judgeID, criterionID uuid.UUID) (int64, error) {
	var count int64
	err := r.conn(tx).WithContext(ctx).
		Model(&types.ScoreEntry{}).
		Where("program_id = ? AND registration_id = ? AND judge_id = ? AND criterion_id = ?",
			programID, registrationID, judgeID, criterionID).
		Count(&count).Error
	return count, err
}

func (r *scoreEntryRepo) ListByRegistration(ctx context.Context, tx *gorm.DB, programID, registrationID uuid.UUID) ([]*types.ScoreEntry, error) {
	var results []*types.ScoreEntry
	err := r.conn(tx).WithContext(ctx).
		Where("program_id = ? AND registration_id = ?", programID, registrationID).
		Order("created_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scoreEntryRepo) ListByJudge(ctx context.Context, tx *gorm.DB, judgeID uuid.UUID, programID uuid.UUID) ([]*types.ScoreEntry, error) {
	query := r.conn(tx).WithContext(ctx).Where("judge_id = ?", judgeID)
	if programID != uuid.Nil {
		query = query.Where("program_id = ?", programID)
	}
	var results []*types.ScoreEntry
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// CountScoredRegistrations counts distinct registrations the judge has at
// least one entry for, optionally narrowed to a category value.
func (r *scoreEntryRepo) CountScoredRegistrations(ctx context.Context, tx *gorm.DB, programID, judgeID uuid.UUID, categoryValue string) (int64, error) {
	query := r.conn(tx).WithContext(ctx).
		Model(&types.ScoreEntry{}).
		Where("score_entry.program_id = ? AND score_entry.judge_id = ?", programID, judgeID)
	if categoryValue != "" {
		query = query.
			Joins("JOIN registration ON registration.id = score_entry.registration_id").
			Where("registration.category_value = ?", categoryValue)
	}
	var count int64
	err := query.Distinct("score_entry.registration_id").Count(&count).Error
	return count, err
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentfest/judging-backend/internal/cache"
	"github.com/talentfest/judging-backend/internal/domain"
	"github.com/talentfest/judging-backend/internal/platform/logger"
	"github.com/talentfest/judging-backend/internal/repos"
	"github.com/talentfest/judging-backend/internal/types"
)

const leaderboardTTL = 5 * time.Minute

type LeaderboardEntry struct {
	Rank            int       `json:"rank"`
	RegistrationID  uuid.UUID `json:"registration_id"`
	ParticipantID   uuid.UUID `json:"participant_id"`
	ParticipantName string    `json:"participant_name"`
	CategoryValue   string    `json:"category_value"`
	FinalScore      float64   `json:"final_score"`
	JudgesCount     int       `json:"judges_count"`
	ScoresCount     int       `json:"scores_count"`
	// Provisional marks registrations scored by fewer judges than the
	// program's configured minimum.
	Provisional bool `json:"provisional"`
}

type Leaderboard struct {
	ProgramID     uuid.UUID          `json:"program_id"`
	CategoryValue string             `json:"category_value,omitempty"`
	Method        domain.Method      `json:"calculation_method"`
	GeneratedAt   time.Time          `json:"generated_at"`
	Entries       []LeaderboardEntry `json:"entries"`
}

type ResultsService interface {
	// CalculateLeaderboard ranks a program's PAID registrations by their
	// aggregated current scores. Results are cached for five minutes when
	// useCache is set; a cache miss or decode failure recomputes.
	CalculateLeaderboard(ctx context.Context, programID uuid.UUID, categoryValue string, useCache bool) (*Leaderboard, error)
	// InvalidateLeaderboard drops cached boards for the program. With a
	// category it clears that board plus the program-wide one; without,
	// it clears the program-wide board and every category board.
	InvalidateLeaderboard(ctx context.Context, programID uuid.UUID, categoryValue string) error
}

type resultsService struct {
	db               *gorm.DB
	log              *logger.Logger
	cache            cache.Cache
	configRepo       repos.ScoringConfigRepo
	registrationRepo repos.RegistrationRepo
	scoreEntryRepo   repos.ScoreEntryRepo
}

func NewResultsService(
	db *gorm.DB,
	log *logger.Logger,
	store cache.Cache,
	configRepo repos.ScoringConfigRepo,
	registrationRepo repos.RegistrationRepo,
	scoreEntryRepo repos.ScoreEntryRepo,
) ResultsService {
	return &resultsService{
		db:               db,
		log:              log.With("service", "ResultsService"),
		cache:            store,
		configRepo:       configRepo,
		registrationRepo: registrationRepo,
		scoreEntryRepo:   scoreEntryRepo,
	}
}

func leaderboardCacheKey(programID uuid.UUID, categoryValue string) string {
	if categoryValue == "" {
		categoryValue = "all"
	}
	return fmt.Sprintf("leaderboard_%s_%s", programID, categoryValue)
}

func (s *resultsService) CalculateLeaderboard(ctx context.Context, programID uuid.UUID, categoryValue string, useCache bool) (*Leaderboard, error) {
	key := leaderboardCacheKey(programID, categoryValue)
	if useCache {
		raw, hit, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn("Leaderboard cache read failed", "key", key, "error", err.Error())
		} else if hit {
			var board Leaderboard
			if err := json.Unmarshal(raw, &board); err == nil {
				return &board, nil
			}
			s.log.Warn("Discarding undecodable cached leaderboard", "key", key)
		}
	}

	config, err := s.configRepo.GetByProgram(ctx, nil, programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.Errorf(domain.KindValidation, "no scoring configuration for program")
		}
		return nil, err
	}
	aggregate := domain.AggregatorFor(config.Method, config.TopNCount)

	registrations, err := s.registrationRepo.ListEligible(ctx, nil, programID, categoryValue)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(registrations))
	for _, registration := range registrations {
		all, err := s.scoreEntryRepo.ListByRegistration(ctx, nil, programID, registration.ID)
		if err != nil {
			return nil, err
		}
		// Unscored registrations stay on the board with a zero final
		// score; every aggregator returns 0 for an empty entry set.
		current := currentEntries(all)

		judges := make(map[uuid.UUID]struct{})
		weighted := make([]domain.WeightedEntry, 0, len(current))
		for _, entry := range current {
			judges[entry.JudgeID] = struct{}{}
			weighted = append(weighted, domain.WeightedEntry{
				JudgeID:       entry.JudgeID,
				WeightedScore: entry.WeightedScore,
			})
		}

		entries = append(entries, LeaderboardEntry{
			RegistrationID:  registration.ID,
			ParticipantID:   registration.ParticipantID,
			ParticipantName: registration.ParticipantName,
			CategoryValue:   registration.CategoryValue,
			FinalScore:      aggregate(weighted),
			JudgesCount:     len(judges),
			ScoresCount:     len(current),
			Provisional:     len(judges) < config.MinJudgesPerParticipant,
		})
	}

	// Equal scores rank by registration id ascending so reruns never
	// reshuffle tied rows.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].FinalScore != entries[j].FinalScore {
			return entries[i].FinalScore > entries[j].FinalScore
		}
		return entries[i].RegistrationID.String() < entries[j].RegistrationID.String()
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	board := &Leaderboard{
		ProgramID:     programID,
		CategoryValue: categoryValue,
		Method:        config.Method,
		GeneratedAt:   time.Now().UTC(),
		Entries:       entries,
	}

	if useCache {
		if raw, err := json.Marshal(board); err == nil {
			if err := s.cache.Set(ctx, key, raw, leaderboardTTL); err != nil {
				s.log.Warn("Leaderboard cache write failed", "key", key, "error", err.Error())
			}
		}
	}
	return board, nil
}

func (s *resultsService) InvalidateLeaderboard(ctx context.Context, programID uuid.UUID, categoryValue string) error {
	if err := s.cache.Delete(ctx, leaderboardCacheKey(programID, categoryValue)); err != nil {
		return err
	}
	if categoryValue != "" {
		return s.cache.Delete(ctx, leaderboardCacheKey(programID, ""))
	}
	categories, err := s.registrationRepo.DistinctCategories(ctx, nil, programID)
	if err != nil {
		return err
	}
	for _, category := range categories {
		if category == "" {
			continue
		}
		if err := s.cache.Delete(ctx, leaderboardCacheKey(programID, category)); err != nil {
			return err
		}
	}
	return nil
}

// currentEntries reduces the full revision history of a registration to
// the highest-revision entry per (judge, criterion) key.
func currentEntries(all []*types.ScoreEntry) []*types.ScoreEntry {
	type key struct {
		judgeID     uuid.UUID
		criterionID uuid.UUID
	}
	latest := make(map[key]*types.ScoreEntry)
	for _, entry := range all {
		k := key{entry.JudgeID, entry.CriterionID}
		if existing, ok := latest[k]; !ok || entry.RevisionNumber > existing.RevisionNumber {
			latest[k] = entry
		}
	}
	current := make([]*types.ScoreEntry, 0, len(latest))
	for _, entry := range latest {
		current = append(current, entry)
	}
	sort.Slice(current, func(i, j int) bool {
		if current[i].JudgeID != current[j].JudgeID {
			return current[i].JudgeID.String() < current[j].JudgeID.String()
		}
		return current[i].CriterionID.String() < current[j].CriterionID.String()
	})
	return current
}

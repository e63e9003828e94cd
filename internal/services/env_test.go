package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/talentfest/judging-backend/internal/cache"
	"github.com/talentfest/judging-backend/internal/domain"
	"github.com/talentfest/judging-backend/internal/platform/logger"
	"github.com/talentfest/judging-backend/internal/repos"
	"github.com/talentfest/judging-backend/internal/types"
)

// testEnv wires the full service stack onto an in-memory sqlite database
// so tests exercise real queries, transactions and unique indexes.
type testEnv struct {
	db *gorm.DB

	rubricRepo       repos.RubricRepo
	configRepo       repos.ScoringConfigRepo
	assignmentRepo   repos.AssignmentRepo
	conflictRepo     repos.ConflictRepo
	scoreEntryRepo   repos.ScoreEntryRepo
	registrationRepo repos.RegistrationRepo
	commentRepo      repos.CommentRepo

	cache *cache.Memory

	rubrics     RubricService
	configs     ScoringConfigService
	conflicts   ConflictService
	assignments AssignmentService
	scoring     ScoringService
	results     ResultsService
	comments    CommentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&types.Program{},
		&types.Judge{},
		&types.Registration{},
		&types.RubricCategory{},
		&types.Rubric{},
		&types.RubricCriterion{},
		&types.ScoringConfig{},
		&types.JudgeAssignment{},
		&types.ConflictFlag{},
		&types.ScoreEntry{},
		&types.JudgeComment{},
	))

	log := logger.NewNop()
	env := &testEnv{
		db:               db,
		rubricRepo:       repos.NewRubricRepo(db, log),
		configRepo:       repos.NewScoringConfigRepo(db, log),
		assignmentRepo:   repos.NewAssignmentRepo(db, log),
		conflictRepo:     repos.NewConflictRepo(db, log),
		scoreEntryRepo:   repos.NewScoreEntryRepo(db, log),
		registrationRepo: repos.NewRegistrationRepo(db, log),
		commentRepo:      repos.NewCommentRepo(db, log),
		cache:            cache.NewMemory(),
	}
	env.rubrics = NewRubricService(db, log, env.rubricRepo, env.registrationRepo)
	env.configs = NewScoringConfigService(db, log, env.configRepo)
	env.conflicts = NewConflictService(db, log, env.conflictRepo)
	env.assignments = NewAssignmentService(db, log, env.assignmentRepo, env.registrationRepo, env.scoreEntryRepo)
	env.scoring = NewScoringService(db, log, env.registrationRepo, env.configRepo, env.scoreEntryRepo, env.rubrics, env.assignments, env.conflicts)
	env.results = NewResultsService(db, log, env.cache, env.configRepo, env.registrationRepo, env.scoreEntryRepo)
	env.comments = NewCommentService(db, log, env.commentRepo, env.registrationRepo, env.assignments)
	return env
}

func (env *testEnv) createProgram(t *testing.T, name string) *types.Program {
	t.Helper()
	program := &types.Program{Name: name}
	require.NoError(t, env.db.Create(program).Error)
	return program
}

func (env *testEnv) createJudge(t *testing.T, username string) *types.Judge {
	t.Helper()
	judge := &types.Judge{Username: username, Role: types.RoleJudge}
	require.NoError(t, env.db.Create(judge).Error)
	return judge
}

func (env *testEnv) createRegistration(t *testing.T, programID uuid.UUID, name, categoryValue string) *types.Registration {
	t.Helper()
	registration := &types.Registration{
		ProgramID:       programID,
		ParticipantID:   uuid.New(),
		ParticipantName: name,
		CategoryValue:   categoryValue,
		Status:          types.RegistrationStatusPaid,
	}
	require.NoError(t, env.db.Create(registration).Error)
	return registration
}

// openConfig saves a scoring config whose window is open right now, with
// revisions allowed up to three per score. Mutate the returned struct and
// re-save through env.configs for the non-default cases.
func (env *testEnv) openConfig(t *testing.T, programID uuid.UUID, method domain.Method) *types.ScoringConfig {
	t.Helper()
	now := time.Now().UTC()
	config, err := env.configs.Upsert(context.Background(), programID, ScoringConfigInput{
		ScoringStart:            now.Add(-time.Hour),
		ScoringEnd:              now.Add(time.Hour),
		MinJudgesPerParticipant: 1,
		MaxJudgesPerParticipant: 5,
		Method:                  method,
		TopNCount:               2,
		AllowRevisions:          true,
		MaxRevisionsPerScore:    3,
	})
	require.NoError(t, err)
	return config
}

// createRubric builds the standard two-criterion rubric used across the
// scoring tests: weights 0.6/0.4, max score 10 each, 100 total points.
func (env *testEnv) createRubric(t *testing.T, programID uuid.UUID, categoryValue string) *types.Rubric {
	t.Helper()
	rubric, err := env.rubrics.CreateRubric(context.Background(), CreateRubricInput{
		ProgramID:     programID,
		Name:          "Performance Rubric",
		CategoryValue: categoryValue,
		Criteria: []CriterionInput{
			{Name: "Technique", MaxScore: 10, Weight: 0.6, SortOrder: 1},
			{Name: "Presentation", MaxScore: 10, Weight: 0.4, SortOrder: 2},
		},
	})
	require.NoError(t, err)
	return rubric
}

func (env *testEnv) assignJudge(t *testing.T, programID, judgeID uuid.UUID, categoryValue string) *types.JudgeAssignment {
	t.Helper()
	assignment, err := env.assignments.Assign(context.Background(), programID, judgeID, categoryValue, nil, nil, uuid.New())
	require.NoError(t, err)
	return assignment
}

func (env *testEnv) countScoreEntries(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, env.db.Model(&types.ScoreEntry{}).Count(&count).Error)
	return count
}

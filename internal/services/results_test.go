package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentfest/judging-backend/internal/domain"
	"github.com/talentfest/judging-backend/internal/types"
)

func TestLeaderboardRanksByFinalScore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	program := env.createProgram(t, "Spring Showcase")
	judge := env.createJudge(t, "judge1")
	env.openConfig(t, program.ID, domain.MethodAverageAll)
	rubric := env.createRubric(t, program.ID, "")
	env.assignJudge(t, program.ID, judge.ID, "")

	alice := env.createRegistration(t, program.ID, "Alice", "")
	bob := env.createRegistration(t, program.ID, "Bob", "")
	carol := env.createRegistration(t, program.ID, "Carol", "")

	_, err := env.scoring.SubmitScores(ctx, judge.ID, alice.ID, map[uuid.UUID]float64{
		rubric.Criteria[0].ID: 10,
		rubric.Criteria[1].ID: 10,
	})
	require.NoError(t, err)
	_, err = env.scoring.SubmitScores(ctx, judge.ID, bob.ID, map[uuid.UUID]float64{
		rubric.Criteria[0].ID: 5,
		rubric.Criteria[1].ID: 5,
	})
	require.NoError(t, err)

	board, err := env.results.CalculateLeaderboard(ctx, program.ID, "", false)
	require.NoError(t, err)
	require.Len(t, board.Entries, 3)

	assert.Equal(t, 1, board.Entries[0].Rank)
	assert.Equal(t, alice.ID, board.Entries[0].RegistrationID)
	assert.Equal(t, "Alice", board.Entries[0].ParticipantName)
	// Perfect raw scores: weighted entries are 60 and 40, averaged to 50.
	assert.InDelta(t, 50.0, board.Entries[0].FinalScore, 1e-9)
	assert.Equal(t, 1, board.Entries[0].JudgesCount)
	assert.Equal(t, 2, board.Entries[0].ScoresCount)
	assert.False(t, board.Entries[0].Provisional)

	assert.Equal(t, 2, board.Entries[1].Rank)
	assert.Equal(t, bob.ID, board.Entries[1].RegistrationID)
	assert.InDelta(t, 25.0, board.Entries[1].FinalScore, 1e-9)

	// The unscored registration stays on the board, ranked last at zero.
	assert.Equal(t, 3, board.Entries[2].Rank)
	assert.Equal(t, carol.ID, board.Entries[2].RegistrationID)
	assert.Zero(t, board.Entries[2].FinalScore)
}

func TestLeaderboardIncludesUnscoredRegistrations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	program := env.createProgram(t, "Spring Showcase")
	judge := env.createJudge(t, "judge1")
	env.openConfig(t, program.ID, domain.MethodAverageAll)
	rubric := env.createRubric(t, program.ID, "")
	env.assignJudge(t, program.ID, judge.ID, "")

	scored := env.createRegistration(t, program.ID, "Alice", "")
	unscored := env.createRegistration(t, program.ID, "Bob", "")
	_, err := env.scoring.SubmitScores(ctx, judge.ID, scored.ID, map[uuid.UUID]float64{rubric.Criteria[0].ID: 5})
	require.NoError(t, err)

	board, err := env.results.CalculateLeaderboard(ctx, program.ID, "", false)
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)

	last := board.Entries[1]
	assert.Equal(t, unscored.ID, last.RegistrationID)
	assert.Zero(t, last.FinalScore)
	assert.Zero(t, last.JudgesCount)
	assert.Zero(t, last.ScoresCount)
	assert.True(t, last.Provisional)
}

func TestLeaderboardUsesCurrentRevisions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	program := env.createProgram(t, "Spring Showcase")
	judge := env.createJudge(t, "judge1")
	env.openConfig(t, program.ID, domain.MethodAverageAll)
	rubric := env.createRubric(t, program.ID, "")
	env.assignJudge(t, program.ID, judge.ID, "")
	registration := env.createRegistration(t, program.ID, "Alice", "")

	criterion := rubric.Criteria[0]
	_, err := env.scoring.SubmitScores(ctx, judge.ID, registration.ID, map[uuid.UUID]float64{criterion.ID: 5})
	require.NoError(t, err)
	_, err = env.scoring.SubmitScores(ctx, judge.ID, registration.ID, map[uuid.UUID]float64{criterion.ID: 10})
	require.NoError(t, err)

	board, err := env.results.CalculateLeaderboard(ctx, program.ID, "", false)
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	// Only revision 2 counts: 10/10 * 0.6 * 100 = 60.
	assert.InDelta(t, 60.0, board.Entries[0].FinalScore, 1e-9)
	assert.Equal(t, 1, board.Entries[0].ScoresCount)
}

func TestLeaderboardTieBreaksByRegistrationID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	program := env.createProgram(t, "Spring Showcase")
	judge := env.createJudge(t, "judge1")
	env.openConfig(t, program.ID, domain.MethodAverageAll)
	rubric := env.createRubric(t, program.ID, "")
	env.assignJudge(t, program.ID, judge.ID, "")

	first := env.createRegistration(t, program.ID, "Alice", "")
	second := env.createRegistration(t, program.ID, "Bob", "")
	for _, registration := range []*types.Registration{first, second} {
		_, err := env.scoring.SubmitScores(ctx, judge.ID, registration.ID, map[uuid.UUID]float64{
			rubric.Criteria[0].ID: 7,
			rubric.Criteria[1].ID: 7,
		})
		require.NoError(t, err)
	}

	board, err := env.results.CalculateLeaderboard(ctx, program.ID, "", false)
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)
	assert.InDelta(t, board.Entries[0].FinalScore, board.Entries[1].FinalScore, 1e-9)
	assert.Less(t, board.Entries[0].RegistrationID.String(), board.Entries[1].RegistrationID.String())

	// Recomputing yields the same order.
	again, err := env.results.CalculateLeaderboard(ctx, program.ID, "", false)
	require.NoError(t, err)
	assert.Equal(t, board.Entries[0].RegistrationID, again.Entries[0].RegistrationID)
}

func TestLeaderboardProvisionalFlag(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	program := env.createProgram(t, "Spring Showcase")
	judge := env.createJudge(t, "judge1")
	rubric := env.createRubric(t, program.ID, "")
	env.assignJudge(t, program.ID, judge.ID, "")
	registration := env.createRegistration(t, program.ID, "Alice", "")

	config := env.openConfig(t, program.ID, domain.MethodAverageAll)
	_, err := env.configs.Upsert(ctx, program.ID, ScoringConfigInput{
		ScoringStart:            config.ScoringStart,
		ScoringEnd:              config.ScoringEnd,
		MinJudgesPerParticipant: 2,
		MaxJudgesPerParticipant: 5,
		Method:                  domain.MethodAverageAll,
		AllowRevisions:          true,
		MaxRevisionsPerScore:    3,
	})
	require.NoError(t, err)

	_, err = env.scoring.SubmitScores(ctx, judge.ID, registration.ID, map[uuid.UUID]float64{rubric.Criteria[0].ID: 5})
	require.NoError(t, err)

	board, err := env.results.CalculateLeaderboard(ctx, program.ID, "", false)
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	assert.True(t, board.Entries[0].Provisional)
}

func TestLeaderboardTopN(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	program := env.createProgram(t, "Spring Showcase")
	env.openConfig(t, program.ID, domain.MethodTopN)
	rubric, err := env.rubrics.CreateRubric(ctx, CreateRubricInput{
		ProgramID: program.ID,
		Name:      "Single Criterion",
		Criteria:  []CriterionInput{{Name: "Overall", MaxScore: 100, Weight: 1.0}},
	})
	require.NoError(t, err)
	registration := env.createRegistration(t, program.ID, "Alice", "")

	for i, raw := range []float64{50, 70, 90} {
		judge := env.createJudge(t, "topn-judge"+string(rune('a'+i)))
		env.assignJudge(t, program.ID, judge.ID, "")
		_, err := env.scoring.SubmitScores(ctx, judge.ID, registration.ID, map[uuid.UUID]float64{rubric.Criteria[0].ID: raw})
		require.NoError(t, err)
	}

	board, err := env.results.CalculateLeaderboard(ctx, program.ID, "", false)
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	// Top 2 of judge totals 50, 70 and 90.
	assert.InDelta(t, 80.0, board.Entries[0].FinalScore, 1e-9)
	assert.Equal(t, 3, board.Entries[0].JudgesCount)
}

func TestLeaderboardCaching(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	program := env.createProgram(t, "Spring Showcase")
	judge := env.createJudge(t, "judge1")
	env.openConfig(t, program.ID, domain.MethodAverageAll)
	rubric := env.createRubric(t, program.ID, "")
	env.assignJudge(t, program.ID, judge.ID, "")
	registration := env.createRegistration(t, program.ID, "Alice", "")

	criterion := rubric.Criteria[0]
	_, err := env.scoring.SubmitScores(ctx, judge.ID, registration.ID, map[uuid.UUID]float64{criterion.ID: 5})
	require.NoError(t, err)

	cached, err := env.results.CalculateLeaderboard(ctx, program.ID, "", true)
	require.NoError(t, err)
	require.Len(t, cached.Entries, 1)
	firstScore := cached.Entries[0].FinalScore

	// A revision lands; the cached board is still served.
	_, err = env.scoring.SubmitScores(ctx, judge.ID, registration.ID, map[uuid.UUID]float64{criterion.ID: 10})
	require.NoError(t, err)

	stale, err := env.results.CalculateLeaderboard(ctx, program.ID, "", true)
	require.NoError(t, err)
	assert.InDelta(t, firstScore, stale.Entries[0].FinalScore, 1e-9)

	// Invalidation forces a recompute on the next cached read.
	require.NoError(t, env.results.InvalidateLeaderboard(ctx, program.ID, ""))
	fresh, err := env.results.CalculateLeaderboard(ctx, program.ID, "", true)
	require.NoError(t, err)
	assert.Greater(t, fresh.Entries[0].FinalScore, firstScore)
}

func TestInvalidateLeaderboardClearsCategoryBoards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	program := env.createProgram(t, "Spring Showcase")
	judge := env.createJudge(t, "judge1")
	env.openConfig(t, program.ID, domain.MethodAverageAll)
	rubric := env.createRubric(t, program.ID, "")
	env.assignJudge(t, program.ID, judge.ID, "")

	vocal := env.createRegistration(t, program.ID, "Alice", "VOCAL")
	_, err := env.scoring.SubmitScores(ctx, judge.ID, vocal.ID, map[uuid.UUID]float64{rubric.Criteria[0].ID: 5})
	require.NoError(t, err)

	cached, err := env.results.CalculateLeaderboard(ctx, program.ID, "VOCAL", true)
	require.NoError(t, err)
	firstScore := cached.Entries[0].FinalScore

	_, err = env.scoring.SubmitScores(ctx, judge.ID, vocal.ID, map[uuid.UUID]float64{rubric.Criteria[0].ID: 10})
	require.NoError(t, err)

	// A program-wide invalidation reaches the category-scoped board too.
	require.NoError(t, env.results.InvalidateLeaderboard(ctx, program.ID, ""))
	fresh, err := env.results.CalculateLeaderboard(ctx, program.ID, "VOCAL", true)
	require.NoError(t, err)
	assert.Greater(t, fresh.Entries[0].FinalScore, firstScore)
}

func TestLeaderboardCategoryFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	program := env.createProgram(t, "Spring Showcase")
	judge := env.createJudge(t, "judge1")
	env.openConfig(t, program.ID, domain.MethodAverageAll)
	rubric := env.createRubric(t, program.ID, "")
	env.assignJudge(t, program.ID, judge.ID, "")

	vocal := env.createRegistration(t, program.ID, "Alice", "VOCAL")
	dance := env.createRegistration(t, program.ID, "Bob", "DANCE")
	for _, registration := range []*types.Registration{vocal, dance} {
		_, err := env.scoring.SubmitScores(ctx, judge.ID, registration.ID, map[uuid.UUID]float64{rubric.Criteria[0].ID: 5})
		require.NoError(t, err)
	}

	board, err := env.results.CalculateLeaderboard(ctx, program.ID, "VOCAL", false)
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, vocal.ID, board.Entries[0].RegistrationID)
	assert.Equal(t, "VOCAL", board.Entries[0].CategoryValue)
}

func TestLeaderboardRequiresConfig(t *testing.T) {
	env := newTestEnv(t)
	program := env.createProgram(t, "Spring Showcase")

	_, err := env.results.CalculateLeaderboard(context.Background(), program.ID, "", false)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

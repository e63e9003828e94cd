package services

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/talentfest/judging-backend/internal/domain"
	"github.com/talentfest/judging-backend/internal/types"
)

func TestAssignRejectsDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	program := env.createProgram(t, "Spring Showcase")
	judge := env.createJudge(t, "judge1")

	_, err := env.assignments.Assign(ctx, program.ID, judge.ID, "VOCAL", nil, nil, uuid.New())
	require.NoError(t, err)

	_, err = env.assignments.Assign(ctx, program.ID, judge.ID, "VOCAL", nil, nil, uuid.New())
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	// A different category is a different assignment.
	_, err = env.assignments.Assign(ctx, program.ID, judge.ID, "DANCE", nil, nil, uuid.New())
	require.NoError(t, err)
}

func TestAssignReactivatesCancelled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	program := env.createProgram(t, "Spring Showcase")
	judge := env.createJudge(t, "judge1")

	original, err := env.assignments.Assign(ctx, program.ID, judge.ID, "", nil, nil, uuid.New())
	require.NoError(t, err)

	_, err = env.assignments.UpdateStatus(ctx, original.ID, types.AssignmentStatusCancelled)
	require.NoError(t, err)

	reassigned, err := env.assignments.Assign(ctx, program.ID, judge.ID, "", nil, nil, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, original.ID, reassigned.ID)
	assert.Equal(t, types.AssignmentStatusActive, reassigned.Status)

	// Still exactly one row for the key.
	var count int64
	require.NoError(t, env.db.Model(&types.JudgeAssignment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAssignPersistsMetadata(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	program := env.createProgram(t, "Spring Showcase")
	judge := env.createJudge(t, "judge1")

	metadata := datatypes.JSON(`{"panel":"A","notes":"substitute for round two"}`)
	assignment, err := env.assignments.Assign(ctx, program.ID, judge.ID, "VOCAL", nil, metadata, uuid.New())
	require.NoError(t, err)

	var stored types.JudgeAssignment
	require.NoError(t, env.db.First(&stored, "id = ?", assignment.ID).Error)
	assert.JSONEq(t, string(metadata), string(stored.Metadata))

	// Reactivating with fresh metadata replaces the stored value.
	_, err = env.assignments.UpdateStatus(ctx, assignment.ID, types.AssignmentStatusCancelled)
	require.NoError(t, err)
	updated := datatypes.JSON(`{"panel":"B"}`)
	_, err = env.assignments.Assign(ctx, program.ID, judge.ID, "VOCAL", nil, updated, uuid.New())
	require.NoError(t, err)
	require.NoError(t, env.db.First(&stored, "id = ?", assignment.ID).Error)
	assert.JSONEq(t, string(updated), string(stored.Metadata))
}

func TestUpdateStatusValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	program := env.createProgram(t, "Spring Showcase")
	judge := env.createJudge(t, "judge1")
	assignment := env.assignJudge(t, program.ID, judge.ID, "")

	_, err := env.assignments.UpdateStatus(ctx, assignment.ID, "RETIRED")
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = env.assignments.UpdateStatus(ctx, uuid.New(), types.AssignmentStatusPaused)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	updated, err := env.assignments.UpdateStatus(ctx, assignment.ID, types.AssignmentStatusPaused)
	require.NoError(t, err)
	assert.Equal(t, types.AssignmentStatusPaused, updated.Status)
}

func TestDistributeWorkloadEvenSplit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	program := env.createProgram(t, "Spring Showcase")
	for i := 0; i < 7; i++ {
		env.createRegistration(t, program.ID, "P", "")
	}
	judges := make([]*types.Judge, 3)
	for i := range judges {
		judges[i] = env.createJudge(t, "judge"+string(rune('a'+i)))
		env.assignJudge(t, program.ID, judges[i].ID, "")
	}

	distribution, err := env.assignments.DistributeWorkload(ctx, program.ID, "")
	require.NoError(t, err)
	require.Len(t, distribution, 3)

	counts := make([]int, 0, 3)
	total := 0
	for _, c := range distribution {
		counts = append(counts, c)
		total += c
	}
	sort.Ints(counts)
	assert.Equal(t, 7, total)
	assert.Equal(t, []int{2, 2, 3}, counts)
}

func TestDistributeWorkloadSkipsScoredAndInactive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	program := env.createProgram(t, "Spring Showcase")
	judge := env.createJudge(t, "judge1")
	paused := env.createJudge(t, "judge2")
	env.openConfig(t, program.ID, domain.MethodAverageAll)
	rubric := env.createRubric(t, program.ID, "")
	env.assignJudge(t, program.ID, judge.ID, "")
	pausedAssignment := env.assignJudge(t, program.ID, paused.ID, "")
	_, err := env.assignments.UpdateStatus(ctx, pausedAssignment.ID, types.AssignmentStatusPaused)
	require.NoError(t, err)

	scored := env.createRegistration(t, program.ID, "Scored", "")
	env.createRegistration(t, program.ID, "Fresh", "")
	env.createRegistration(t, program.ID, "Fresh2", "")
	_, err = env.scoring.SubmitScores(ctx, judge.ID, scored.ID, map[uuid.UUID]float64{rubric.Criteria[0].ID: 5})
	require.NoError(t, err)

	distribution, err := env.assignments.DistributeWorkload(ctx, program.ID, "")
	require.NoError(t, err)
	// Only the active judge appears and only unscored registrations count.
	require.Len(t, distribution, 1)
	assert.Equal(t, 2, distribution[judge.ID])
}

func TestDistributeWorkloadNoJudges(t *testing.T) {
	env := newTestEnv(t)
	program := env.createProgram(t, "Spring Showcase")
	env.createRegistration(t, program.ID, "P", "")

	distribution, err := env.assignments.DistributeWorkload(context.Background(), program.ID, "")
	require.NoError(t, err)
	assert.Empty(t, distribution)
}

func TestAssignmentCompletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	program := env.createProgram(t, "Spring Showcase")
	judge := env.createJudge(t, "judge1")
	env.openConfig(t, program.ID, domain.MethodAverageAll)
	rubric := env.createRubric(t, program.ID, "")

	maxParticipants := 5
	assignment, err := env.assignments.Assign(ctx, program.ID, judge.ID, "", &maxParticipants, nil, uuid.New())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		registration := env.createRegistration(t, program.ID, "P", "")
		_, err := env.scoring.SubmitScores(ctx, judge.ID, registration.ID, map[uuid.UUID]float64{rubric.Criteria[0].ID: 5})
		require.NoError(t, err)
	}

	completion, err := env.assignments.Completion(ctx, assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), completion.ScoredCount)
	require.NotNil(t, completion.CompletionPercentage)
	assert.InDelta(t, 40.0, *completion.CompletionPercentage, 1e-9)
	assert.False(t, completion.IsOverloaded)
}

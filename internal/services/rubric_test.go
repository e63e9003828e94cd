package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentfest/judging-backend/internal/domain"
)

func TestCreateRubricValidatesWeights(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	program := env.createProgram(t, "Spring Showcase")

	_, err := env.rubrics.CreateRubric(ctx, CreateRubricInput{
		ProgramID: program.ID,
		Name:      "Bad Weights",
		Criteria: []CriterionInput{
			{Name: "A", MaxScore: 10, Weight: 0.5},
			{Name: "B", MaxScore: 10, Weight: 0.4},
		},
	})
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	// Within the tolerance of 0.01 the sum passes.
	rubric, err := env.rubrics.CreateRubric(ctx, CreateRubricInput{
		ProgramID: program.ID,
		Name:      "Close Enough",
		Criteria: []CriterionInput{
			{Name: "A", MaxScore: 10, Weight: 0.333},
			{Name: "B", MaxScore: 10, Weight: 0.333},
			{Name: "C", MaxScore: 10, Weight: 0.333},
		},
	})
	require.NoError(t, err)
	assert.Len(t, rubric.Criteria, 3)
	assert.InDelta(t, 100.0, rubric.TotalPossiblePoints, 1e-9)
}

func TestCreateRubricRequiresCriteria(t *testing.T) {
	env := newTestEnv(t)
	program := env.createProgram(t, "Spring Showcase")

	_, err := env.rubrics.CreateRubric(context.Background(), CreateRubricInput{
		ProgramID: program.ID,
		Name:      "Empty",
	})
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = env.rubrics.CreateRubric(context.Background(), CreateRubricInput{
		ProgramID: program.ID,
		Name:      "Zero Max",
		Criteria:  []CriterionInput{{Name: "A", MaxScore: 0, Weight: 1.0}},
	})
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestCreateRubricDeactivatesPrevious(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	program := env.createProgram(t, "Spring Showcase")

	first := env.createRubric(t, program.ID, "")
	second := env.createRubric(t, program.ID, "")

	old, err := env.rubrics.GetRubric(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, old.IsActive)

	active, err := env.rubricRepo.GetActive(ctx, nil, program.ID, "")
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
}

func TestRubricResolutionFallsBackToGeneral(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	program := env.createProgram(t, "Spring Showcase")

	general := env.createRubric(t, program.ID, "")
	vocal := env.createRubric(t, program.ID, "VOCAL")

	vocalReg := env.createRegistration(t, program.ID, "Alice", "VOCAL")
	danceReg := env.createRegistration(t, program.ID, "Bob", "DANCE")

	resolved, err := env.rubrics.GetForRegistration(ctx, nil, vocalReg)
	require.NoError(t, err)
	assert.Equal(t, vocal.ID, resolved.ID)

	// DANCE has no rubric of its own, so the general one applies.
	resolved, err = env.rubrics.GetForRegistration(ctx, nil, danceReg)
	require.NoError(t, err)
	assert.Equal(t, general.ID, resolved.ID)
}

func TestRubricResolutionNoRubric(t *testing.T) {
	env := newTestEnv(t)
	program := env.createProgram(t, "Spring Showcase")
	registration := env.createRegistration(t, program.ID, "Alice", "VOCAL")

	_, err := env.rubrics.GetForRegistration(context.Background(), nil, registration)
	assert.True(t, domain.IsKind(err, domain.KindNoRubric))
}

func TestCloneRubric(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	source := env.createProgram(t, "Spring Showcase")
	target := env.createProgram(t, "Fall Showcase")

	original := env.createRubric(t, source.ID, "")

	clone, err := env.rubrics.CloneRubric(ctx, original.ID, target.ID, "")
	require.NoError(t, err)
	assert.Equal(t, target.ID, clone.ProgramID)
	assert.Equal(t, "Performance Rubric (Copy)", clone.Name)
	assert.True(t, clone.IsActive)
	require.Len(t, clone.Criteria, 2)
	assert.NotEqual(t, original.Criteria[0].ID, clone.Criteria[0].ID)
	assert.Equal(t, original.Criteria[0].Name, clone.Criteria[0].Name)
	assert.InDelta(t, original.Criteria[0].Weight, clone.Criteria[0].Weight, 1e-9)

	// The source stays active in its own program.
	stillActive, err := env.rubricRepo.GetActive(ctx, nil, source.ID, "")
	require.NoError(t, err)
	assert.Equal(t, original.ID, stillActive.ID)
}

func TestCloneRubricUnknownSource(t *testing.T) {
	env := newTestEnv(t)
	target := env.createProgram(t, "Fall Showcase")

	_, err := env.rubrics.CloneRubric(context.Background(), uuid.New(), target.ID, "Copy")
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestRubricCategories(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.rubrics.CreateCategory(ctx, "Technique", 2)
	require.NoError(t, err)
	_, err = env.rubrics.CreateCategory(ctx, "Artistry", 1)
	require.NoError(t, err)
	_, err = env.rubrics.CreateCategory(ctx, "", 0)
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	categories, err := env.rubrics.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Artistry", categories[0].Name)
	assert.Equal(t, "Technique", categories[1].Name)
}

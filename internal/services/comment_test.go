package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentfest/judging-backend/internal/domain"
)

func TestAddCommentRequiresAssignment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	program := env.createProgram(t, "Spring Showcase")
	judge := env.createJudge(t, "judge1")
	registration := env.createRegistration(t, program.ID, "Alice", "")

	_, err := env.comments.Add(ctx, judge.ID, registration.ID, "great energy")
	assert.True(t, domain.IsKind(err, domain.KindPermission))

	env.assignJudge(t, program.ID, judge.ID, "")
	comment, err := env.comments.Add(ctx, judge.ID, registration.ID, "great energy")
	require.NoError(t, err)
	assert.Equal(t, "great energy", comment.Comment)
	assert.Equal(t, judge.ID, comment.JudgeID)
}

func TestAddCommentValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	program := env.createProgram(t, "Spring Showcase")
	judge := env.createJudge(t, "judge1")
	registration := env.createRegistration(t, program.ID, "Alice", "")
	env.assignJudge(t, program.ID, judge.ID, "")

	_, err := env.comments.Add(ctx, judge.ID, registration.ID, "")
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = env.comments.Add(ctx, judge.ID, uuid.New(), "hello")
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestListCommentsScoping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	program := env.createProgram(t, "Spring Showcase")
	judgeA := env.createJudge(t, "judge1")
	judgeB := env.createJudge(t, "judge2")
	registration := env.createRegistration(t, program.ID, "Alice", "")
	env.assignJudge(t, program.ID, judgeA.ID, "")
	env.assignJudge(t, program.ID, judgeB.ID, "")

	_, err := env.comments.Add(ctx, judgeA.ID, registration.ID, "strong opening")
	require.NoError(t, err)
	_, err = env.comments.Add(ctx, judgeB.ID, registration.ID, "weak finish")
	require.NoError(t, err)

	all, err := env.comments.ListForRegistration(ctx, registration.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := env.comments.ListOwnForRegistration(ctx, judgeA.ID, registration.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, judgeA.ID, own[0].JudgeID)
}

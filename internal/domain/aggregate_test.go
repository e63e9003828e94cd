package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func entriesFor(scores ...float64) []WeightedEntry {
	entries := make([]WeightedEntry, len(scores))
	for i, s := range scores {
		entries[i] = WeightedEntry{JudgeID: uuid.New(), WeightedScore: s}
	}
	return entries
}

func TestMethodValid(t *testing.T) {
	assert.True(t, MethodAverageAll.Valid())
	assert.True(t, MethodTopN.Valid())
	assert.True(t, MethodMedian.Valid())
	assert.True(t, MethodWeighted.Valid())
	assert.False(t, Method("BEST_GUESS").Valid())
	assert.False(t, Method("").Valid())
}

func TestAverageAll(t *testing.T) {
	agg := AggregatorFor(MethodAverageAll, 0)
	assert.InDelta(t, 9.0, agg(entriesFor(8, 9, 10)), 1e-9)
	assert.Zero(t, agg(nil))
}

func TestTopNAverage(t *testing.T) {
	agg := AggregatorFor(MethodTopN, 2)
	assert.InDelta(t, 80.0, agg(entriesFor(50, 70, 90)), 1e-9)

	// Fewer judges than n averages what exists.
	assert.InDelta(t, 60.0, agg(entriesFor(50, 70)), 1e-9)
	assert.InDelta(t, 50.0, agg(entriesFor(50)), 1e-9)
	assert.Zero(t, agg(nil))
}

func TestTopNSumsPerJudgeBeforeRanking(t *testing.T) {
	judgeA := uuid.New()
	judgeB := uuid.New()
	judgeC := uuid.New()
	entries := []WeightedEntry{
		{JudgeID: judgeA, WeightedScore: 30},
		{JudgeID: judgeA, WeightedScore: 30},
		{JudgeID: judgeB, WeightedScore: 50},
		{JudgeID: judgeC, WeightedScore: 10},
	}
	// Judge totals are 60, 50 and 10; top 2 average is 55.
	agg := AggregatorFor(MethodTopN, 2)
	assert.InDelta(t, 55.0, agg(entries), 1e-9)
}

func TestTopNDefaultsCount(t *testing.T) {
	agg := AggregatorFor(MethodTopN, 0)
	// With a zero count the default of 3 applies.
	assert.InDelta(t, 70.0, agg(entriesFor(50, 70, 90, 10)), 1e-9)
}

func TestMedian(t *testing.T) {
	agg := AggregatorFor(MethodMedian, 0)
	assert.InDelta(t, 25.0, agg(entriesFor(10, 20, 30, 40)), 1e-9)
	assert.InDelta(t, 20.0, agg(entriesFor(30, 10, 20)), 1e-9)
	assert.Zero(t, agg(nil))
}

func TestWeightedSum(t *testing.T) {
	agg := AggregatorFor(MethodWeighted, 0)
	assert.InDelta(t, 72.0, agg(entriesFor(48, 24)), 1e-9)
	assert.Zero(t, agg(nil))
}

func TestUnknownMethodFallsBackToAverage(t *testing.T) {
	agg := AggregatorFor(Method("SOMETHING_ELSE"), 0)
	assert.InDelta(t, 9.0, agg(entriesFor(8, 9, 10)), 1e-9)
}

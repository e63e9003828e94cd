package domain

import (
	"sort"

	"github.com/google/uuid"
)

// Method is the closed set of leaderboard aggregation strategies a
// program can configure. Each variant has one pure aggregator function.
type Method string

const (
	MethodAverageAll Method = "AVERAGE_ALL"
	MethodTopN       Method = "TOP_N"
	MethodMedian     Method = "MEDIAN"
	MethodWeighted   Method = "WEIGHTED"
)

// DefaultTopN is used when a TOP_N program never configured a count.
const DefaultTopN = 3

func (m Method) Valid() bool {
	switch m {
	case MethodAverageAll, MethodTopN, MethodMedian, MethodWeighted:
		return true
	}
	return false
}

// WeightedEntry is one current score entry reduced to what aggregation
// needs: who scored it and its weighted value.
type WeightedEntry struct {
	JudgeID       uuid.UUID
	WeightedScore float64
}

// Aggregator computes a registration's final score from its current
// weighted entries. Implementations are pure and safe for concurrent use.
type Aggregator func(entries []WeightedEntry) float64

// AggregatorFor selects the aggregator for a method once, at
// configuration-resolution time. Unknown methods fall back to AVERAGE_ALL,
// matching the original engine's defaulting.
func AggregatorFor(method Method, topN int) Aggregator {
	switch method {
	case MethodTopN:
		if topN <= 0 {
			topN = DefaultTopN
		}
		n := topN
		return func(entries []WeightedEntry) float64 { return topNAverage(entries, n) }
	case MethodMedian:
		return median
	case MethodWeighted:
		return weightedSum
	default:
		return averageAll
	}
}

func averageAll(entries []WeightedEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var total float64
	for _, e := range entries {
		total += e.WeightedScore
	}
	return total / float64(len(entries))
}

// topNAverage sums each judge's entries into a per-judge total, then
// averages the n highest totals.
func topNAverage(entries []WeightedEntry, n int) float64 {
	if len(entries) == 0 {
		return 0
	}
	judgeTotals := make(map[uuid.UUID]float64)
	for _, e := range entries {
		judgeTotals[e.JudgeID] += e.WeightedScore
	}
	totals := make([]float64, 0, len(judgeTotals))
	for _, t := range judgeTotals {
		totals = append(totals, t)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(totals)))
	if n > len(totals) {
		n = len(totals)
	}
	var sum float64
	for _, t := range totals[:n] {
		sum += t
	}
	return sum / float64(n)
}

func median(entries []WeightedEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	scores := make([]float64, len(entries))
	for i, e := range entries {
		scores[i] = e.WeightedScore
	}
	sort.Float64s(scores)
	n := len(scores)
	if n%2 == 0 {
		return (scores[n/2-1] + scores[n/2]) / 2
	}
	return scores[n/2]
}

func weightedSum(entries []WeightedEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.WeightedScore
	}
	return total
}

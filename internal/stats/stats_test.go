package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	key string
	n   int
	v   float64
}

func identity(x float64) float64 { return x }

func TestSumMeanMedian(t *testing.T) {
	rows := []row{{"a", 1, 10}, {"b", 2, 30}, {"a", 0, 20}, {"c", 5, 40}}

	assert.Equal(t, 8, Sum(rows, func(r row) int { return r.n }))
	assert.InDelta(t, 100.0, Sum(rows, func(r row) float64 { return r.v }), 1e-9)

	mean, ok := Mean(rows, func(r row) float64 { return r.v })
	require.True(t, ok)
	assert.InDelta(t, 25.0, mean, 1e-9)

	median, ok := Median(rows, func(r row) float64 { return r.v })
	require.True(t, ok)
	assert.InDelta(t, 25.0, median, 1e-9)

	odd, ok := Median([]float64{3, 1, 2}, identity)
	require.True(t, ok)
	assert.InDelta(t, 2.0, odd, 1e-9)
}

func TestEmptyAggregates(t *testing.T) {
	_, ok := Mean([]float64{}, identity)
	assert.False(t, ok)
	_, ok = Median([]float64(nil), identity)
	assert.False(t, ok)
	_, ok = Max([]float64{}, identity)
	assert.False(t, ok)
	assert.Zero(t, Share([]float64{}, func(float64) bool { return true }))
}

func TestShare(t *testing.T) {
	xs := []float64{0, 1, 2, 0}
	assert.InDelta(t, 50.0, Share(xs, func(x float64) bool { return x > 0 }), 1e-9)
	assert.Equal(t, 2, Count(xs, func(x float64) bool { return x == 0 }))
}

func TestRoundBanker(t *testing.T) {
	tests := []struct {
		in     float64
		places int32
		want   float64
	}{
		{1.125, 2, 1.12},
		{1.135, 2, 1.14},
		{2.5, 0, 2},
		{3.5, 0, 4},
		{0.456, 2, 0.46},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round(tt.in, tt.places), "Round(%v, %d)", tt.in, tt.places)
	}
}

func TestGroupBySortsKeys(t *testing.T) {
	rows := []row{{"b", 1, 1}, {"a", 1, 2}, {"", 1, 3}, {"b", 1, 4}}
	groups := GroupBy(rows, func(r row) string { return r.key })
	require.Len(t, groups, 2)
	assert.Equal(t, "a", groups[0].Key)
	assert.Equal(t, "b", groups[1].Key)
	assert.Len(t, groups[1].Items, 2)
}

func TestGroupByOrder(t *testing.T) {
	rows := []row{{"y", 1, 1}, {"x", 1, 2}, {"z", 1, 3}}
	groups := GroupByOrder(rows, func(r row) string { return r.key }, []string{"z", "x", "w"})
	require.Len(t, groups, 2)
	assert.Equal(t, "z", groups[0].Key)
	assert.Equal(t, "x", groups[1].Key)
}

func TestValueCounts(t *testing.T) {
	rows := []row{{"b", 0, 0}, {"a", 0, 0}, {"a", 0, 0}, {"c", 0, 0}, {"", 0, 0}}
	counts := ValueCounts(rows, func(r row) string { return r.key })
	assert.Equal(t, []KeyCount{{"a", 2}, {"b", 1}, {"c", 1}}, counts)
}

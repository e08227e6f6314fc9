// Package stats provides the small set of column aggregates the dashboard
// needs over record slices: sums, means, medians, shares and group-bys.
package stats

import (
	"cmp"
	"math"
	"slices"

	"github.com/shopspring/decimal"
)

// Number is the set of element types Sum accepts.
type Number interface {
	~int | ~int64 | ~float64
}

// Sum adds f(x) over xs.
func Sum[T any, N Number](xs []T, f func(T) N) N {
	var total N
	for _, x := range xs {
		total += f(x)
	}
	return total
}

// Mean returns the arithmetic mean of f(x) over xs. ok is false when xs is empty.
func Mean[T any](xs []T, f func(T) float64) (mean float64, ok bool) {
	if len(xs) == 0 {
		return 0, false
	}
	var total float64
	for _, x := range xs {
		total += f(x)
	}
	return total / float64(len(xs)), true
}

// Median returns the median of f(x) over xs, averaging the two middle
// values for even lengths. ok is false when xs is empty.
func Median[T any](xs []T, f func(T) float64) (median float64, ok bool) {
	if len(xs) == 0 {
		return 0, false
	}
	vals := make([]float64, len(xs))
	for i, x := range xs {
		vals[i] = f(x)
	}
	slices.Sort(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid], true
	}
	return (vals[mid-1] + vals[mid]) / 2, true
}

// Max returns the largest f(x) over xs. ok is false when xs is empty.
func Max[T any](xs []T, f func(T) float64) (maximum float64, ok bool) {
	if len(xs) == 0 {
		return 0, false
	}
	maximum = f(xs[0])
	for _, x := range xs[1:] {
		maximum = max(maximum, f(x))
	}
	return maximum, true
}

// Count returns how many elements satisfy pred.
func Count[T any](xs []T, pred func(T) bool) int {
	n := 0
	for _, x := range xs {
		if pred(x) {
			n++
		}
	}
	return n
}

// Share returns the percentage (0-100) of xs satisfying pred, or 0 for an empty slice.
func Share[T any](xs []T, pred func(T) bool) float64 {
	if len(xs) == 0 {
		return 0
	}
	return float64(Count(xs, pred)) / float64(len(xs)) * 100
}

// Round rounds x to the given number of decimal places using banker's
// rounding. NaN and infinities are returned unchanged.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	f, _ := decimal.NewFromFloat(x).RoundBank(places).Float64()
	return f
}

// Group is one bucket produced by GroupBy.
type Group[T any] struct {
	Key   string
	Items []T
}

// GroupBy buckets xs by key, skipping empty keys. Groups come back sorted by
// key ascending.
func GroupBy[T any](xs []T, key func(T) string) []Group[T] {
	groups := groupInOrder(xs, key)
	slices.SortStableFunc(groups, func(a, b Group[T]) int { return cmp.Compare(a.Key, b.Key) })
	return groups
}

// GroupByOrder buckets xs by key and returns the groups in the given key
// order. Keys with no members are omitted, as are members whose key is not listed.
func GroupByOrder[T any](xs []T, key func(T) string, order []string) []Group[T] {
	byKey := make(map[string][]T)
	for _, x := range xs {
		k := key(x)
		byKey[k] = append(byKey[k], x)
	}
	var groups []Group[T]
	for _, k := range order {
		if items, ok := byKey[k]; ok {
			groups = append(groups, Group[T]{Key: k, Items: items})
		}
	}
	return groups
}

// KeyCount pairs a value with its number of occurrences.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// ValueCounts counts occurrences of key(x), skipping empty keys. The result is
// sorted by count descending; ties keep first-appearance order.
func ValueCounts[T any](xs []T, key func(T) string) []KeyCount {
	groups := groupInOrder(xs, key)
	counts := make([]KeyCount, len(groups))
	for i, g := range groups {
		counts[i] = KeyCount{Key: g.Key, Count: len(g.Items)}
	}
	slices.SortStableFunc(counts, func(a, b KeyCount) int { return cmp.Compare(b.Count, a.Count) })
	return counts
}

func groupInOrder[T any](xs []T, key func(T) string) []Group[T] {
	index := make(map[string]int)
	var groups []Group[T]
	for _, x := range xs {
		k := key(x)
		if k == "" {
			continue
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[T]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, x)
	}
	return groups
}

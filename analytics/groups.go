// Package analytics implements the aggregation pipelines behind every chart:
// group rows by one or two categorical keys, reduce each group (row count,
// measure sum, or distinct identifier count), then optionally normalize each
// group's value into a percentage of a parent total. All percentage math
// defines a share of a zero total as exactly 0.
package analytics

import (
	"math"
	"sort"
)

// Group is one aggregated result row. Groups keep first-encountered-first
// ordering from the underlying data; charts that need a fixed order apply
// Reindex or an explicit sort afterwards.
type Group struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
	Sub   []Group `json:"sub,omitempty"`
}

// KeyFunc extracts a grouping key from a row. Rows for which ok is false are
// excluded from the grouping entirely (e.g. ages outside the bucket range).
type KeyFunc[T any] func(T) (key string, ok bool)

// Key adapts a plain accessor into a KeyFunc that accepts every row.
func Key[T any](fn func(T) string) KeyFunc[T] {
	return func(row T) (string, bool) {
		return fn(row), true
	}
}

// Reducer accumulates rows of one group into a single value.
type Reducer[T any] interface {
	Add(T)
	Result() float64
}

// ReducerFactory creates a fresh Reducer per group.
type ReducerFactory[T any] func() Reducer[T]

// Count reduces a group to its row count.
func Count[T any]() ReducerFactory[T] {
	return func() Reducer[T] { return &countReducer[T]{} }
}

// Sum reduces a group to the sum of a numeric column.
func Sum[T any](measure func(T) float64) ReducerFactory[T] {
	return func() Reducer[T] { return &sumReducer[T]{measure: measure} }
}

// DistinctCount reduces a group to the number of distinct identifier values.
func DistinctCount[T any](id func(T) string) ReducerFactory[T] {
	return func() Reducer[T] {
		return &distinctReducer[T]{id: id, seen: make(map[string]bool)}
	}
}

type countReducer[T any] struct{ n int }

func (r *countReducer[T]) Add(T)           { r.n++ }
func (r *countReducer[T]) Result() float64 { return float64(r.n) }

type sumReducer[T any] struct {
	measure func(T) float64
	total   float64
}

func (r *sumReducer[T]) Add(row T)       { r.total += r.measure(row) }
func (r *sumReducer[T]) Result() float64 { return r.total }

type distinctReducer[T any] struct {
	id   func(T) string
	seen map[string]bool
}

func (r *distinctReducer[T]) Add(row T)       { r.seen[r.id(row)] = true }
func (r *distinctReducer[T]) Result() float64 { return float64(len(r.seen)) }

// GroupBy groups rows by a single key and reduces each group.
func GroupBy[T any](rows []T, key KeyFunc[T], reduce ReducerFactory[T]) []Group {
	type bucket struct {
		reducer Reducer[T]
		count   int
	}
	buckets := make(map[string]*bucket)
	var order []string

	for _, row := range rows {
		k, ok := key(row)
		if !ok {
			continue
		}
		b, exists := buckets[k]
		if !exists {
			b = &bucket{reducer: reduce()}
			buckets[k] = b
			order = append(order, k)
		}
		b.reducer.Add(row)
		b.count++
	}

	groups := make([]Group, 0, len(order))
	for _, k := range order {
		b := buckets[k]
		groups = append(groups, Group{
			Key:   k,
			Label: k,
			Value: b.reducer.Result(),
			Count: b.count,
		})
	}
	return groups
}

// GroupBy2 groups rows by an outer and an inner key. Inner groups are
// attached as Sub entries of the outer groups, both in encounter order.
func GroupBy2[T any](rows []T, outer, inner KeyFunc[T], reduce ReducerFactory[T]) []Group {
	partitions := make(map[string][]T)
	var order []string

	for _, row := range rows {
		k, ok := outer(row)
		if !ok {
			continue
		}
		if _, exists := partitions[k]; !exists {
			order = append(order, k)
		}
		partitions[k] = append(partitions[k], row)
	}

	groups := make([]Group, 0, len(order))
	for _, k := range order {
		rows := partitions[k]
		groups = append(groups, Group{
			Key:   k,
			Label: k,
			Count: len(rows),
			Sub:   GroupBy(rows, inner, reduce),
		})
	}
	return groups
}

// PercentOfParent rewrites each inner group's value as its percentage share
// of the enclosing outer group's total. A zero outer total leaves every
// member at exactly 0 rather than NaN.
func PercentOfParent(groups []Group) []Group {
	for i := range groups {
		var total float64
		for _, sub := range groups[i].Sub {
			total += sub.Value
		}
		for j := range groups[i].Sub {
			groups[i].Sub[j].Value = shareOf(groups[i].Sub[j].Value, total)
		}
		groups[i].Value = total
	}
	return groups
}

// PercentOfTotal rewrites each group's value as its percentage share of the
// grand total over all groups.
func PercentOfTotal(groups []Group) []Group {
	var total float64
	for _, g := range groups {
		total += g.Value
	}
	return PercentAgainst(groups, total)
}

// PercentAgainst rewrites each group's value as its percentage share of an
// externally supplied total.
func PercentAgainst(groups []Group, total float64) []Group {
	for i := range groups {
		groups[i].Value = shareOf(groups[i].Value, total)
	}
	return groups
}

// TopNByShare converts group values to percentage shares of their grand
// total, orders them by descending share, and truncates to at most n rows.
// Ties keep the underlying encounter order (stable sort).
func TopNByShare(groups []Group, n int) []Group {
	groups = PercentOfTotal(groups)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Value > groups[j].Value
	})
	if n > 0 && len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// Reindex returns groups arranged in the given label order, inserting
// zero-valued groups for labels absent from the input. Input groups whose
// key is not in labels are dropped.
func Reindex(groups []Group, labels []string) []Group {
	byKey := make(map[string]Group, len(groups))
	for _, g := range groups {
		byKey[g.Key] = g
	}
	out := make([]Group, 0, len(labels))
	for _, label := range labels {
		if g, ok := byKey[label]; ok {
			out = append(out, g)
		} else {
			out = append(out, Group{Key: label, Label: label})
		}
	}
	return out
}

// shareOf computes value/total*100 with the zero-total-to-zero convention.
func shareOf(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return value / total * 100
}

// Round2 rounds to two decimal places, matching the data labels rendered on
// percentage charts.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package analytics

// Scalar summary reductions used by the KPI rows. Every rate and mean
// degrades to 0 on an empty or zero-denominator input.

// SumOf sums a measure over all rows.
func SumOf[T any](rows []T, measure func(T) float64) float64 {
	var total float64
	for _, row := range rows {
		total += measure(row)
	}
	return total
}

// MeanOf averages a measure over all rows; 0 when rows is empty.
func MeanOf[T any](rows []T, measure func(T) float64) float64 {
	if len(rows) == 0 {
		return 0
	}
	return SumOf(rows, measure) / float64(len(rows))
}

// CountWhere counts rows satisfying a predicate.
func CountWhere[T any](rows []T, pred func(T) bool) int {
	n := 0
	for _, row := range rows {
		if pred(row) {
			n++
		}
	}
	return n
}

// Where returns the rows satisfying a predicate.
func Where[T any](rows []T, pred func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if pred(row) {
			out = append(out, row)
		}
	}
	return out
}

// RateWhere returns the percentage of rows satisfying a predicate;
// 0 when rows is empty.
func RateWhere[T any](rows []T, pred func(T) bool) float64 {
	if len(rows) == 0 {
		return 0
	}
	return float64(CountWhere(rows, pred)) / float64(len(rows)) * 100
}

// DistinctCountOf counts distinct identifier values over all rows.
func DistinctCountOf[T any](rows []T, id func(T) string) int {
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		seen[id(row)] = true
	}
	return len(seen)
}

// ModeOf returns the most frequent key value, breaking ties by first
// encounter. Returns "" for an empty input.
func ModeOf[T any](rows []T, key func(T) string) string {
	counts := make(map[string]int, len(rows))
	var order []string
	for _, row := range rows {
		k := key(row)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}
	best := ""
	bestCount := 0
	for _, k := range order {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}

// Package derivation computes the per-row categorical fields that are not
// present in the source data: applicant age buckets and the debt-to-income
// risk category.
package derivation

// AgeGroupLabels is the fixed display order for age demographics charts.
var AgeGroupLabels = []string{"18-25", "26-35", "36-45", "46-55", "56+"}

// ageBounds are the right-inclusive upper edges matching AgeGroupLabels.
// The first bucket covers (0, 25].
var ageBounds = []int{25, 35, 45, 55, 100}

// AgeGroup buckets an applicant age into a fixed ordinal range. Ages at or
// below 0 or above 100 have no bucket and return ok=false; such rows are
// absent from bucketed aggregations.
func AgeGroup(age int) (label string, ok bool) {
	if age <= 0 || age > 100 {
		return "", false
	}
	for i, bound := range ageBounds {
		if age <= bound {
			return AgeGroupLabels[i], true
		}
	}
	return "", false
}

// DTIRiskCategory classifies a debt-to-income ratio into the reporting
// category used by the fraud view. The band edges intentionally reproduce
// upstream reporting behavior: ratios strictly between 35 and 36 fall
// through to "Out of Range", and the "High Risk (40–50)" label covers every
// ratio in (40, 100].
func DTIRiskCategory(ratio float64) string {
	switch {
	case ratio < 20:
		return "Excellent (<20)"
	case ratio >= 20 && ratio <= 35:
		return "Good (20–35)"
	case ratio >= 36 && ratio <= 40:
		return "Fair (36–40)"
	case ratio > 40 && ratio <= 100:
		return "High Risk (40–50)"
	default:
		return "Out of Range"
	}
}

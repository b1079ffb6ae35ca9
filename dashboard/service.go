package dashboard

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/Mohamedfazeem/loan-fraud-dashboard/analytics"
	"github.com/Mohamedfazeem/loan-fraud-dashboard/dataset"
	"github.com/Mohamedfazeem/loan-fraud-dashboard/derivation"
	"github.com/Mohamedfazeem/loan-fraud-dashboard/filtering"
)

// View names accepted by the API.
const (
	ViewPortfolio = "portfolio"
	ViewFraud     = "fraud"
	ViewBehavior  = "behavior"
)

// Service computes dashboard views from the cached source tables. Every call
// recomputes the affected aggregations from scratch against the caller's
// filter selection; nothing is memoized between requests.
type Service struct {
	store *dataset.Store
}

// NewService creates a dashboard Service backed by the given dataset store.
func NewService(store *dataset.Store) *Service {
	return &Service{store: store}
}

// BuildView computes the named view for a filter selection.
func (s *Service) BuildView(name string, sel filtering.Selection) (View, error) {
	loans := filtering.FilterLoans(s.store.Loans(), sel)
	txns := filtering.FilterTransactions(s.store.Transactions(), sel)

	var view View
	switch name {
	case ViewPortfolio:
		view = s.buildPortfolio(loans)
	case ViewFraud:
		view = s.buildFraud(loans, txns)
	case ViewBehavior:
		view = s.buildBehavior(loans, txns)
	default:
		return View{}, fmt.Errorf("unknown view %q", name)
	}
	view.Warnings = s.store.Warnings()
	return view, nil
}

// FilterOptions returns the selectable values for every filter control,
// computed from the unfiltered source tables.
func (s *Service) FilterOptions() FilterOptions {
	loans := s.store.Loans()
	txns := s.store.Transactions()

	opts := FilterOptions{
		LoanTypes:          uniqueOf(loans, func(l dataset.LoanApplication) string { return l.LoanType }),
		EmploymentStatuses: uniqueOf(loans, func(l dataset.LoanApplication) string { return l.EmploymentStatus }),
		Genders:            uniqueOf(loans, func(l dataset.LoanApplication) string { return l.Gender }),
		Devices:            uniqueOf(txns, func(t dataset.Transaction) string { return t.DeviceUsed }),
		States:             uniqueOf(txns, func(t dataset.Transaction) string { return t.State }),
	}
	if min, max, ok := s.store.LoanDateBounds(); ok {
		opts.MinApplicationDate = min.Format("2006-01-02")
		opts.MaxApplicationDate = max.Format("2006-01-02")
	}
	return opts
}

// ---------------------------------------------------------------------------
// Executive Loan Portfolio
// ---------------------------------------------------------------------------

func (s *Service) buildPortfolio(loans []dataset.LoanApplication) View {
	totalApps := len(loans)
	grandTotal := analytics.SumOf(loans, loanAmount)
	avgCibil := analytics.MeanOf(loans, func(l dataset.LoanApplication) float64 { return l.CibilScore })
	approvalRate := analytics.RateWhere(loans, func(l dataset.LoanApplication) bool {
		return l.LoanStatus == dataset.StatusApproved
	})
	avgIncome := analytics.MeanOf(loans, func(l dataset.LoanApplication) float64 { return l.MonthlyIncome })

	metrics := []Metric{
		{ID: "total_applications", Label: "Total Applications", Value: FormatCount(totalApps)},
		{ID: "total_requested", Label: "Total Requested", Value: FormatCrore(grandTotal)},
		{ID: "avg_cibil", Label: "Avg CIBIL Score", Value: fmt.Sprintf("%.0f", avgCibil)},
		{ID: "approval_rate", Label: "Approval Rate", Value: FormatPercent(approvalRate, 1)},
		{ID: "avg_income", Label: "Avg Monthly Income", Value: FormatCurrency(avgIncome)},
	}

	// Demand by loan type: amount requested per type/status as a share of the
	// grand total requested across the whole filtered view.
	demand := analytics.GroupBy2(loans,
		analytics.Key(func(l dataset.LoanApplication) string { return l.LoanType }),
		analytics.Key(func(l dataset.LoanApplication) string { return l.LoanStatus }),
		analytics.Sum(loanAmount))
	for i := range demand {
		analytics.PercentAgainst(demand[i].Sub, grandTotal)
	}

	ageGroups := analytics.GroupBy(loans, loanAgeGroup, analytics.Count[dataset.LoanApplication]())
	ageGroups = analytics.Reindex(ageGroups, derivation.AgeGroupLabels)
	analytics.PercentAgainst(ageGroups, float64(totalApps))

	statusGroups := analytics.GroupBy(loans,
		analytics.Key(func(l dataset.LoanApplication) string { return l.LoanStatus }),
		analytics.Count[dataset.LoanApplication]())

	charts := []Chart{
		nestedChart("demand_by_loan_type", ChartGroupedBar,
			"Demand by Loan Type (% of Grand Total Amount)",
			"Loan Category", "% of Total Requested", demand, 1),
		flatChart("age_demographics", ChartBar,
			"Applicant Age Demographics (% of Total Applicants)",
			"Age Group", "% of Applicants", ageGroups, 1),
		countChart("approval_status", ChartDonut, "Approval Status Breakdown", statusGroups),
		scatterChart("cibil_vs_income", "CIBIL Score vs. Income Analysis",
			"CIBIL Score", "Monthly Income",
			scatterByKey(loans,
				func(l dataset.LoanApplication) string { return l.LoanStatus },
				func(l dataset.LoanApplication) (float64, float64) { return l.CibilScore, l.MonthlyIncome })),
	}

	return View{Name: ViewPortfolio, Title: "Executive Loan Portfolio", Metrics: metrics, Charts: charts}
}

// ---------------------------------------------------------------------------
// Fraud Intelligence & Risk Mitigation
// ---------------------------------------------------------------------------

func (s *Service) buildFraud(loans []dataset.LoanApplication, txns []dataset.Transaction) View {
	fraudLoans := analytics.Where(loans, func(l dataset.LoanApplication) bool { return l.FraudFlag })
	fraudTxns := analytics.Where(txns, func(t dataset.Transaction) bool { return t.FraudFlag })

	// Total fraud rate is the sum of the per-dataset fraud rates, expressed
	// as a percentage. Each rate is 0 on an empty view.
	loanFraudRate := analytics.RateWhere(loans, func(l dataset.LoanApplication) bool { return l.FraudFlag })
	txnFraudRate := analytics.RateWhere(txns, func(t dataset.Transaction) bool { return t.FraudFlag })
	totalFraudRate := loanFraudRate + txnFraudRate

	totalFraudValue := analytics.SumOf(fraudLoans, loanAmount) +
		analytics.SumOf(fraudTxns, txnAmount)

	undetectedPct := analytics.RateWhere(fraudLoans, func(l dataset.LoanApplication) bool {
		return l.LoanStatus == dataset.StatusFraudUndetected
	})

	totalCustomers := analytics.DistinctCountOf(loans, loanCustomer)
	riskDensity := 0.0
	if totalCustomers > 0 {
		riskDensity = float64(len(fraudLoans)) / float64(totalCustomers) * 1000
	}

	metrics := []Metric{
		{ID: "total_fraud_rate", Label: "Total Fraud Rate", Value: FormatPercent(totalFraudRate, 2)},
		{ID: "total_fraud_value", Label: "Total Fraudulent Value", Value: FormatCurrency(totalFraudValue)},
		{ID: "undetected_fraud_pct", Label: "Undetected Fraud (%)", Value: FormatPercent(undetectedPct, 2)},
		{ID: "risk_density", Label: "Risk Density (per 1000)", Value: fmt.Sprintf("%.2f", riskDensity)},
	}

	empFraud := analytics.PercentOfParent(analytics.GroupBy2(fraudLoans,
		analytics.Key(func(l dataset.LoanApplication) string { return l.EmploymentStatus }),
		analytics.Key(func(l dataset.LoanApplication) string { return l.FraudType }),
		analytics.Count[dataset.LoanApplication]()))

	dtiFraud := analytics.PercentOfParent(analytics.GroupBy2(loans,
		analytics.Key(func(l dataset.LoanApplication) string {
			return derivation.DTIRiskCategory(l.DebtToIncomeRatio)
		}),
		analytics.Key(loanFraudLabel),
		analytics.Count[dataset.LoanApplication]()))

	txnAmountByFraud := analytics.GroupBy(txns,
		analytics.Key(txnFraudLabel),
		analytics.Sum(txnAmount))

	stateFraud := analytics.TopNByShare(analytics.GroupBy(fraudTxns, txnState,
		analytics.Count[dataset.Transaction]()), 10)

	propFraud := analytics.PercentOfParent(analytics.GroupBy2(loans,
		analytics.Key(func(l dataset.LoanApplication) string { return l.PropertyOwnershipStatus }),
		analytics.Key(loanFraudLabel),
		analytics.DistinctCount(loanCustomer)))

	charts := []Chart{
		nestedChart("fraud_by_employment", ChartStackedBar,
			"Fraud by Employment Status (%)",
			"Employment Status", "% Loan Fraud", empFraud, 2),
		nestedChart("dti_risk_vs_fraud", ChartStackedBar,
			"DTI Risk Category vs Fraud (%)",
			"DTI Risk Category", "% Loan Fraud", dtiFraud, 2),
		amountChart("txn_amount_vs_fraud", ChartPie, "Transaction Amount vs Fraud", txnAmountByFraud),
		flatChart("top_fraud_states", ChartBar,
			"Top 10 Fraudulent Transaction States (%)",
			"State", "% Fraud Transactions", stateFraud, 2),
		nestedChart("property_vs_fraud", ChartGroupedBar,
			"Property Ownership vs Fraud (%)",
			"Property Ownership", "% Distinct Customers", propFraud, 2),
	}

	return View{Name: ViewFraud, Title: "Fraud Intelligence & Risk Mitigation", Metrics: metrics, Charts: charts}
}

// ---------------------------------------------------------------------------
// Behavioral Risk Analysis
// ---------------------------------------------------------------------------

func (s *Service) buildBehavior(loans []dataset.LoanApplication, txns []dataset.Transaction) View {
	totalTxns := len(txns)
	totalCustomers := analytics.DistinctCountOf(txns, func(t dataset.Transaction) string { return t.CustomerID })
	avgValue := analytics.MeanOf(txns, txnAmount)
	successRate := analytics.RateWhere(txns, func(t dataset.Transaction) bool { return !t.FraudFlag })

	topLocation := analytics.ModeOf(txns, func(t dataset.Transaction) string { return t.Location })
	topType := analytics.ModeOf(txns, func(t dataset.Transaction) string { return t.TransactionType })

	metrics := []Metric{
		{ID: "total_transactions", Label: "Total Transaction", Value: FormatThousands(float64(totalTxns))},
		{ID: "total_customers", Label: "Total Customer", Value: FormatThousands(float64(totalCustomers))},
		{ID: "avg_transaction_value", Label: "Avg Transaction Value (ATV)", Value: FormatThousands(avgValue)},
		{ID: "success_rate", Label: "Success Rate", Value: FormatPercent(successRate, 2)},
		{ID: "top_location", Label: "Highest Transaction Location", Value: orDash(topLocation)},
		{ID: "top_transaction_type", Label: "Top Transaction Type", Value: orDash(topType)},
	}

	spending := analytics.GroupBy(txns,
		analytics.Key(func(t dataset.Transaction) string { return t.TransactionType }),
		analytics.Sum(txnAmount))

	deviceRisk := analytics.PercentOfParent(analytics.GroupBy2(txns,
		analytics.Key(func(t dataset.Transaction) string { return t.DeviceUsed }),
		analytics.Key(txnFraudLabel),
		analytics.Count[dataset.Transaction]()))

	intlSplit := analytics.PercentOfTotal(analytics.GroupBy(txns,
		analytics.Key(func(t dataset.Transaction) string {
			if t.IsInternational {
				return "International"
			}
			return "Domestic"
		}),
		analytics.Sum(txnAmount)))

	velocity := analytics.PercentOfTotal(analytics.GroupBy(txns,
		analytics.Key(func(t dataset.Transaction) string {
			return strconv.Itoa(t.TransactionDate.Day())
		}),
		analytics.Sum(txnAmount)))
	sortByNumericKey(velocity)

	// The layout renders the device/fraud share twice: once in the top visual
	// row and once in the behavioral fraud section.
	fraudByDevice := analytics.PercentOfParent(analytics.GroupBy2(txns,
		analytics.Key(func(t dataset.Transaction) string { return t.DeviceUsed }),
		analytics.Key(txnFraudLabel),
		analytics.Count[dataset.Transaction]()))

	charts := []Chart{
		amountChart("spending_by_category", ChartTreemap, "Spending Heatmap by Category", spending),
		nestedChart("device_risk", ChartStackedBar,
			"Device Risk Analysis (%)", "Device", "Percentage (%)", deviceRisk, 2),
		flatChart("international_vs_domestic", ChartBar,
			"International vs Domestic (%)", "Transaction Origin", "Percentage (%)", intlSplit, 2),
		flatChart("transaction_velocity", ChartArea,
			"Transaction Velocity (%)", "Day of Month", "Percentage (%)", velocity, 2),
		nestedChart("fraud_by_device", ChartStackedBar,
			"Fraud by Device (%)", "Device", "Percentage (%)", fraudByDevice, 2),
		scatterChart("income_vs_loan_amount", "Income vs Loan Amount (Fraud Highlighted)",
			"Monthly Income", "Loan Amount Requested",
			scatterByKey(loans, loanFraudLabel,
				func(l dataset.LoanApplication) (float64, float64) {
					return l.MonthlyIncome, l.LoanAmountRequested
				})),
	}

	return View{Name: ViewBehavior, Title: "Behavioral Risk Analysis", Metrics: metrics, Charts: charts}
}

// ---------------------------------------------------------------------------
// Accessors and labels
// ---------------------------------------------------------------------------

func loanAmount(l dataset.LoanApplication) float64  { return l.LoanAmountRequested }
func txnAmount(t dataset.Transaction) float64       { return t.Amount }
func loanCustomer(l dataset.LoanApplication) string { return l.CustomerID }

func loanFraudLabel(l dataset.LoanApplication) string {
	if l.FraudFlag {
		return "Fraud"
	}
	return "Legitimate"
}

func txnFraudLabel(t dataset.Transaction) string {
	if t.FraudFlag {
		return "Fraud"
	}
	return "Legitimate"
}

// loanAgeGroup excludes rows whose age has no bucket.
func loanAgeGroup(l dataset.LoanApplication) (string, bool) {
	return derivation.AgeGroup(l.ApplicantAge)
}

// txnState excludes rows with no derived state (missing location column).
func txnState(t dataset.Transaction) (string, bool) {
	return t.State, t.State != ""
}

// ---------------------------------------------------------------------------
// Chart assembly
// ---------------------------------------------------------------------------

// flatChart renders single-key percentage groups as one series with
// percentage data labels.
func flatChart(id, chartType, title, xLabel, yLabel string, groups []analytics.Group, decimals int) Chart {
	points := make([]Point, 0, len(groups))
	for _, g := range groups {
		v := analytics.Round2(g.Value)
		points = append(points, Point{Label: g.Label, Value: v, Text: FormatPercent(v, decimals)})
	}
	return Chart{
		ID: id, Type: chartType, Title: title, XLabel: xLabel, YLabel: yLabel,
		Series: []Series{{Name: yLabel, Points: points}},
	}
}

// countChart renders single-key count groups without percentage labels
// (pie/donut renderers compute their own shares).
func countChart(id, chartType, title string, groups []analytics.Group) Chart {
	points := make([]Point, 0, len(groups))
	for _, g := range groups {
		points = append(points, Point{Label: g.Label, Value: g.Value})
	}
	return Chart{ID: id, Type: chartType, Title: title, Series: []Series{{Name: title, Points: points}}}
}

// amountChart renders single-key sum groups with raw amounts.
func amountChart(id, chartType, title string, groups []analytics.Group) Chart {
	points := make([]Point, 0, len(groups))
	for _, g := range groups {
		points = append(points, Point{Label: g.Label, Value: analytics.Round2(g.Value)})
	}
	return Chart{ID: id, Type: chartType, Title: title, Series: []Series{{Name: title, Points: points}}}
}

// nestedChart renders two-key groups as one series per inner key, with a
// point per outer group. Inner keys keep encounter order across all outer
// groups; missing combinations appear as zero points.
func nestedChart(id, chartType, title, xLabel, yLabel string, groups []analytics.Group, decimals int) Chart {
	var seriesKeys []string
	seen := make(map[string]bool)
	for _, g := range groups {
		for _, sub := range g.Sub {
			if !seen[sub.Key] {
				seen[sub.Key] = true
				seriesKeys = append(seriesKeys, sub.Key)
			}
		}
	}

	series := make([]Series, 0, len(seriesKeys))
	for _, key := range seriesKeys {
		points := make([]Point, 0, len(groups))
		for _, g := range groups {
			var value float64
			for _, sub := range g.Sub {
				if sub.Key == key {
					value = sub.Value
					break
				}
			}
			v := analytics.Round2(value)
			points = append(points, Point{Label: g.Label, Value: v, Text: FormatPercent(v, decimals)})
		}
		series = append(series, Series{Name: key, Points: points})
	}

	return Chart{ID: id, Type: chartType, Title: title, XLabel: xLabel, YLabel: yLabel, Series: series}
}

func scatterChart(id, title, xLabel, yLabel string, series []XYSeries) Chart {
	return Chart{ID: id, Type: ChartScatter, Title: title, XLabel: xLabel, YLabel: yLabel, ScatterSeries: series}
}

// scatterByKey partitions rows into one XY series per key value, preserving
// encounter order.
func scatterByKey[T any](rows []T, key func(T) string, xy func(T) (float64, float64)) []XYSeries {
	byKey := make(map[string]int)
	var series []XYSeries
	for _, row := range rows {
		k := key(row)
		idx, ok := byKey[k]
		if !ok {
			idx = len(series)
			byKey[k] = idx
			series = append(series, XYSeries{Name: k})
		}
		x, y := xy(row)
		series[idx].Points = append(series[idx].Points, XYPoint{X: x, Y: y})
	}
	return series
}

// sortByNumericKey orders groups by their key parsed as an integer
// (day-of-month buckets).
func sortByNumericKey(groups []analytics.Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, _ := strconv.Atoi(groups[i].Key)
		b, _ := strconv.Atoi(groups[j].Key)
		return a < b
	})
}

// uniqueOf returns distinct non-empty values in encounter order.
func uniqueOf[T any](rows []T, key func(T) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range rows {
		v := key(row)
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

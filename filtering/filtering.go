// Package filtering narrows the cached source tables to the rows matching a
// user's filter selection. Dimensions combine with AND; values within one
// dimension combine with OR. An empty selection for a dimension means no
// constraint. Empty results are valid and flow through to the aggregations.
package filtering

import (
	"time"

	"github.com/Mohamedfazeem/loan-fraud-dashboard/dataset"
)

// Selection is the full set of user-selected filter values.
// The date range binds to loan application timestamps only, mirroring the
// dashboard's single date control.
type Selection struct {
	LoanTypes          []string
	EmploymentStatuses []string
	Genders            []string
	Devices            []string
	States             []string
	StartDate          *time.Time
	EndDate            *time.Time
}

// IsEmpty reports whether no predicate is active.
func (s Selection) IsEmpty() bool {
	return len(s.LoanTypes) == 0 && len(s.EmploymentStatuses) == 0 &&
		len(s.Genders) == 0 && len(s.Devices) == 0 && len(s.States) == 0 &&
		s.StartDate == nil && s.EndDate == nil
}

// FilterLoans returns the loan rows matching every active loan predicate.
// The source slice is never mutated.
func FilterLoans(loans []dataset.LoanApplication, sel Selection) []dataset.LoanApplication {
	loanTypes := toSet(sel.LoanTypes)
	statuses := toSet(sel.EmploymentStatuses)
	genders := toSet(sel.Genders)

	out := make([]dataset.LoanApplication, 0, len(loans))
	for _, loan := range loans {
		if !matches(loanTypes, loan.LoanType) {
			continue
		}
		if !matches(statuses, loan.EmploymentStatus) {
			continue
		}
		if !matches(genders, loan.Gender) {
			continue
		}
		if !inDateRange(loan.ApplicationDate, sel.StartDate, sel.EndDate) {
			continue
		}
		out = append(out, loan)
	}
	return out
}

// FilterTransactions returns the transaction rows matching every active
// transaction predicate (device and derived state).
func FilterTransactions(txns []dataset.Transaction, sel Selection) []dataset.Transaction {
	devices := toSet(sel.Devices)
	states := toSet(sel.States)

	out := make([]dataset.Transaction, 0, len(txns))
	for _, txn := range txns {
		if !matches(devices, txn.DeviceUsed) {
			continue
		}
		if !matches(states, txn.State) {
			continue
		}
		out = append(out, txn)
	}
	return out
}

// matches reports whether value passes a set constraint. A nil set means the
// dimension is unconstrained.
func matches(set map[string]bool, value string) bool {
	return set == nil || set[value]
}

// inDateRange checks an inclusive [start, end] window. Nil bounds are open.
func inDateRange(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

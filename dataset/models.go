package dataset

import "time"

// Loan status values the dashboard depends on. The source files may carry
// additional statuses; these are the ones aggregations single out.
const (
	StatusApproved        = "Approved"
	StatusFraudDetected   = "Fraudulent - detected"
	StatusFraudUndetected = "Fraudulent - Undetected"
)

// LoanApplication is one row of the loan applications dataset.
// Rows are immutable after load; filtering produces new slices.
type LoanApplication struct {
	ApplicationID           string    `json:"application_id,omitempty"`
	CustomerID              string    `json:"customer_id"`
	LoanType                string    `json:"loan_type"`
	EmploymentStatus        string    `json:"employment_status"`
	Gender                  string    `json:"gender"`
	PropertyOwnershipStatus string    `json:"property_ownership_status"`
	LoanStatus              string    `json:"loan_status"`
	FraudType               string    `json:"fraud_type"`
	LoanAmountRequested     float64   `json:"loan_amount_requested"`
	CibilScore              float64   `json:"cibil_score"`
	MonthlyIncome           float64   `json:"monthly_income"`
	ApplicantAge            int       `json:"applicant_age"`
	DebtToIncomeRatio       float64   `json:"debt_to_income_ratio"`
	FraudFlag               bool      `json:"fraud_flag"`
	ApplicationDate         time.Time `json:"application_date"`
}

// Transaction is one row of the transactions dataset.
// State is derived at load time from the trailing comma-separated token of
// the free-text location field.
type Transaction struct {
	TransactionID   string    `json:"transaction_id,omitempty"`
	CustomerID      string    `json:"customer_id"`
	DeviceUsed      string    `json:"device_used"`
	TransactionType string    `json:"transaction_type"`
	Location        string    `json:"transaction_location"`
	State           string    `json:"state"`
	IsInternational bool      `json:"is_international_transaction"`
	Amount          float64   `json:"transaction_amount"`
	FraudFlag       bool      `json:"fraud_flag"`
	TransactionDate time.Time `json:"transaction_date"`
}

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Column names expected in the source files.
const (
	colLocation = "transaction_location"
)

var loanRequiredColumns = []string{
	"customer_id", "loan_type", "employment_status", "gender",
	"property_ownership_status", "loan_status", "fraud_type",
	"loan_amount_requested", "cibil_score", "monthly_income",
	"applicant_age", "debt_to_income_ratio", "fraud_flag", "application_date",
}

var txnRequiredColumns = []string{
	"customer_id", "device_used", "transaction_type",
	"is_international_transaction", "transaction_amount", "fraud_flag",
	"transaction_date",
}

// dateLayouts are tried in order when parsing date columns.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Loader reads the two source CSV files into typed rows.
type Loader struct{}

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadLoans reads and parses the loan applications file.
func (l *Loader) LoadLoans(path string) ([]LoanApplication, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open loan data file: %w", err)
	}
	defer f.Close()
	return l.parseLoans(f)
}

// LoadTransactions reads and parses the transactions file. The returned
// warnings describe non-fatal schema problems (currently only a missing
// transaction_location column); they are surfaced once, at load time.
func (l *Loader) LoadTransactions(path string) ([]Transaction, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open transaction data file: %w", err)
	}
	defer f.Close()
	return l.parseTransactions(f)
}

func (l *Loader) parseLoans(r io.Reader) ([]LoanApplication, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read loan CSV header: %w", err)
	}
	cols, err := indexColumns(header, loanRequiredColumns)
	if err != nil {
		return nil, fmt.Errorf("loan data: %w", err)
	}

	var loans []LoanApplication
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Warnf("Skipping malformed loan row at line %d: %v", line, err)
			continue
		}

		parser := rowParser{cols: cols, row: row}
		loan := LoanApplication{
			ApplicationID:           parser.optional("application_id"),
			CustomerID:              parser.field("customer_id"),
			LoanType:                parser.field("loan_type"),
			EmploymentStatus:        parser.field("employment_status"),
			Gender:                  parser.field("gender"),
			PropertyOwnershipStatus: parser.field("property_ownership_status"),
			LoanStatus:              parser.field("loan_status"),
			FraudType:               parser.field("fraud_type"),
			LoanAmountRequested:     parser.number("loan_amount_requested"),
			CibilScore:              parser.number("cibil_score"),
			MonthlyIncome:           parser.number("monthly_income"),
			ApplicantAge:            parser.integer("applicant_age"),
			DebtToIncomeRatio:       parser.number("debt_to_income_ratio"),
			FraudFlag:               parser.boolean("fraud_flag"),
			ApplicationDate:         parser.date("application_date"),
		}
		if parser.err != nil {
			log.Warnf("Skipping loan row at line %d: %v", line, parser.err)
			continue
		}
		loans = append(loans, loan)
	}
	return loans, nil
}

func (l *Loader) parseTransactions(r io.Reader) ([]Transaction, []string, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read transaction CSV header: %w", err)
	}
	cols, err := indexColumns(header, txnRequiredColumns)
	if err != nil {
		return nil, nil, fmt.Errorf("transaction data: %w", err)
	}

	var warnings []string
	_, hasLocation := cols[colLocation]
	if !hasLocation {
		warnings = append(warnings, fmt.Sprintf("%s column not found in transaction data; state breakdowns will be empty", colLocation))
		log.Warnf("Column %s missing from transaction data", colLocation)
	}

	var txns []Transaction
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Warnf("Skipping malformed transaction row at line %d: %v", line, err)
			continue
		}

		parser := rowParser{cols: cols, row: row}
		txn := Transaction{
			TransactionID:   parser.optional("transaction_id"),
			CustomerID:      parser.field("customer_id"),
			DeviceUsed:      parser.field("device_used"),
			TransactionType: parser.field("transaction_type"),
			IsInternational: parser.boolean("is_international_transaction"),
			Amount:          parser.number("transaction_amount"),
			FraudFlag:       parser.boolean("fraud_flag"),
			TransactionDate: parser.date("transaction_date"),
		}
		if hasLocation {
			txn.Location = parser.field(colLocation)
			txn.State = StateFromLocation(txn.Location)
		}
		if parser.err != nil {
			log.Warnf("Skipping transaction row at line %d: %v", line, parser.err)
			continue
		}
		txns = append(txns, txn)
	}
	return txns, warnings, nil
}

// StateFromLocation derives the geographic state from a free-text location
// string: the last comma-separated segment, trimmed of whitespace.
func StateFromLocation(location string) string {
	parts := strings.Split(location, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}

// indexColumns maps header names to column positions and verifies that all
// required columns are present.
func indexColumns(header, required []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.ToLower(h))] = i
	}
	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// rowParser extracts typed values from a CSV row, accumulating the first
// error so each row is accepted or rejected as a whole.
type rowParser struct {
	cols map[string]int
	row  []string
	err  error
}

func (p *rowParser) raw(name string) (string, bool) {
	idx, ok := p.cols[name]
	if !ok || idx >= len(p.row) {
		return "", false
	}
	return strings.TrimSpace(p.row[idx]), true
}

func (p *rowParser) field(name string) string {
	val, _ := p.raw(name)
	return val
}

// optional reads a column that may not exist in the file at all.
func (p *rowParser) optional(name string) string {
	val, _ := p.raw(name)
	return val
}

func (p *rowParser) number(name string) float64 {
	if p.err != nil {
		return 0
	}
	val, ok := p.raw(name)
	if !ok || val == "" {
		p.err = fmt.Errorf("empty numeric column %s", name)
		return 0
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		p.err = fmt.Errorf("invalid number in column %s: %q", name, val)
		return 0
	}
	return f
}

func (p *rowParser) integer(name string) int {
	return int(p.number(name))
}

func (p *rowParser) boolean(name string) bool {
	if p.err != nil {
		return false
	}
	val, _ := p.raw(name)
	switch strings.ToLower(val) {
	case "1", "true", "yes", "y":
		return true
	case "0", "false", "no", "n", "":
		return false
	}
	p.err = fmt.Errorf("invalid boolean in column %s: %q", name, val)
	return false
}

func (p *rowParser) date(name string) time.Time {
	if p.err != nil {
		return time.Time{}
	}
	val, ok := p.raw(name)
	if !ok || val == "" {
		p.err = fmt.Errorf("empty date column %s", name)
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return t
		}
	}
	p.err = fmt.Errorf("invalid date in column %s: %q", name, val)
	return time.Time{}
}

package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTempCSV writes CSV content to a temp file and returns its path.
func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const loanHeader = "application_id,customer_id,loan_type,employment_status,gender,property_ownership_status,loan_status,fraud_type,loan_amount_requested,cibil_score,monthly_income,applicant_age,debt_to_income_ratio,fraud_flag,application_date"

const txnHeader = "transaction_id,customer_id,device_used,transaction_type,transaction_location,is_international_transaction,transaction_amount,fraud_flag,transaction_date"

func TestLoadLoans(t *testing.T) {
	loader := NewLoader()

	t.Run("parses typed rows", func(t *testing.T) {
		content := loanHeader + "\n" +
			"A1,C1,Personal,Salaried,Male,Owned,Approved,None,500000,750,60000,34,22.5,0,2024-03-15\n" +
			"A2,C2,Home,Self-Employed,Female,Rented,Fraudulent - detected,Identity Theft,2500000,610,45000,42,41,1,2024-04-01\n"
		loans, err := loader.LoadLoans(writeTempCSV(t, content))
		require.NoError(t, err)
		require.Len(t, loans, 2)

		first := loans[0]
		assert.Equal(t, "C1", first.CustomerID)
		assert.Equal(t, "Personal", first.LoanType)
		assert.Equal(t, StatusApproved, first.LoanStatus)
		assert.Equal(t, 500000.0, first.LoanAmountRequested)
		assert.Equal(t, 34, first.ApplicantAge)
		assert.InDelta(t, 22.5, first.DebtToIncomeRatio, 1e-9)
		assert.False(t, first.FraudFlag)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), first.ApplicationDate)

		second := loans[1]
		assert.True(t, second.FraudFlag)
		assert.Equal(t, StatusFraudDetected, second.LoanStatus)
	})

	t.Run("skips rows with bad values", func(t *testing.T) {
		content := loanHeader + "\n" +
			"A1,C1,Personal,Salaried,Male,Owned,Approved,None,500000,750,60000,34,22.5,0,2024-03-15\n" +
			"A2,C2,Home,Salaried,Male,Owned,Approved,None,not-a-number,750,60000,34,22.5,0,2024-03-15\n" +
			"A3,C3,Home,Salaried,Male,Owned,Approved,None,100000,750,60000,34,22.5,0,15/03/2024\n"
		loans, err := loader.LoadLoans(writeTempCSV(t, content))
		require.NoError(t, err)
		assert.Len(t, loans, 1)
		assert.Equal(t, "C1", loans[0].CustomerID)
	})

	t.Run("missing required column is fatal", func(t *testing.T) {
		content := "customer_id,loan_type\nC1,Personal\n"
		_, err := loader.LoadLoans(writeTempCSV(t, content))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing required columns")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.LoadLoans(filepath.Join(t.TempDir(), "nope.csv"))
		require.Error(t, err)
	})
}

func TestLoadTransactions(t *testing.T) {
	loader := NewLoader()

	t.Run("derives state from location", func(t *testing.T) {
		content := txnHeader + "\n" +
			"T1,C1,Mobile,UPI,\"Chennai, Tamil Nadu\",0,1200,0,2024-03-15\n" +
			"T2,C2,Desktop,Card,\" Mumbai ,  Maharashtra  \",1,98000,1,2024-03-16 10:30:00\n"
		txns, warnings, err := loader.LoadTransactions(writeTempCSV(t, content))
		require.NoError(t, err)
		assert.Empty(t, warnings)
		require.Len(t, txns, 2)

		assert.Equal(t, "Tamil Nadu", txns[0].State)
		assert.Equal(t, "Maharashtra", txns[1].State)
		assert.True(t, txns[1].IsInternational)
		assert.True(t, txns[1].FraudFlag)
		assert.Equal(t, 16, txns[1].TransactionDate.Day())
	})

	t.Run("missing location column warns once and keeps loading", func(t *testing.T) {
		content := "transaction_id,customer_id,device_used,transaction_type,is_international_transaction,transaction_amount,fraud_flag,transaction_date\n" +
			"T1,C1,Mobile,UPI,0,1200,0,2024-03-15\n"
		txns, warnings, err := loader.LoadTransactions(writeTempCSV(t, content))
		require.NoError(t, err)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "transaction_location")
		require.Len(t, txns, 1)
		assert.Empty(t, txns[0].State)
	})

	t.Run("location without comma becomes the state", func(t *testing.T) {
		assert.Equal(t, "Karnataka", StateFromLocation("Karnataka"))
		assert.Equal(t, "Kerala", StateFromLocation("Kochi,Kerala"))
		assert.Equal(t, "Goa", StateFromLocation("Panaji , Goa "))
		assert.Equal(t, "", StateFromLocation(""))
	})
}

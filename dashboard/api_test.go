package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohamedfazeem/loan-fraud-dashboard/auth"
	"github.com/Mohamedfazeem/loan-fraud-dashboard/dataset"
)

const testLoanCSV = `application_id,customer_id,loan_type,employment_status,gender,property_ownership_status,loan_status,fraud_type,loan_amount_requested,cibil_score,monthly_income,applicant_age,debt_to_income_ratio,fraud_flag,application_date
A1,C1,Personal,Salaried,Male,Owned,Approved,None,500000,750,60000,34,22.5,0,2024-03-15
A2,C2,Home,Self-Employed,Female,Rented,Fraudulent - detected,Identity Theft,2500000,610,45000,42,41,1,2024-04-01
`

const testTxnCSV = `transaction_id,customer_id,device_used,transaction_type,transaction_location,is_international_transaction,transaction_amount,fraud_flag,transaction_date
T1,C1,Mobile,UPI,"Chennai, Tamil Nadu",0,1200,0,2024-03-15
T2,C2,Desktop,Card,"Kochi, Kerala",1,98000,1,2024-03-16
`

// setupTestRouter wires the full API surface the way main does: auth routes
// plus the session-guarded dashboard routes.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	loanPath := filepath.Join(dir, "loans.csv")
	txnPath := filepath.Join(dir, "txns.csv")
	require.NoError(t, os.WriteFile(loanPath, []byte(testLoanCSV), 0o644))
	require.NoError(t, os.WriteFile(txnPath, []byte(testTxnCSV), 0o644))

	store := dataset.NewStore(dataset.NewLoader(), loanPath, txnPath)
	require.NoError(t, store.Load())

	authService := auth.NewService("admin", "1234", time.Hour)
	authAPI := auth.NewAPI(authService)

	api := NewAPI(NewService(store), store)

	router := gin.New()
	v1 := router.Group("/api/v1")
	authAPI.RegisterRoutes(v1)
	protected := v1.Group("")
	protected.Use(authAPI.Middleware())
	api.RegisterRoutes(protected)

	return router
}

func doRequest(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func loginToken(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doRequest(router, http.MethodPost, "/api/v1/auth/login", "", `{"username":"admin","password":"1234"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var session auth.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func TestAuthenticationGate(t *testing.T) {
	router := setupTestRouter(t)

	t.Run("view routes require a session", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/views/portfolio", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad credentials are rejected", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/auth/login", "", `{"username":"admin","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("login then fetch succeeds", func(t *testing.T) {
		token := loginToken(t, router)
		w := doRequest(router, http.MethodGet, "/api/v1/views/portfolio", token, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("logout invalidates the token", func(t *testing.T) {
		token := loginToken(t, router)
		w := doRequest(router, http.MethodPost, "/api/v1/auth/logout", token, "")
		require.Equal(t, http.StatusOK, w.Code)
		w = doRequest(router, http.MethodGet, "/api/v1/views/portfolio", token, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestViewEndpoint(t *testing.T) {
	router := setupTestRouter(t)
	token := loginToken(t, router)

	t.Run("returns the requested view", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/views/fraud", token, "")
		require.Equal(t, http.StatusOK, w.Code)

		var view View
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, ViewFraud, view.Name)
		assert.NotEmpty(t, view.Metrics)
		assert.Len(t, view.Charts, 5)
	})

	t.Run("applies query filters", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/views/portfolio?loan_type=Home", token, "")
		require.Equal(t, http.StatusOK, w.Code)

		var view View
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		for _, m := range view.Metrics {
			if m.ID == "total_applications" {
				assert.Equal(t, "1", m.Value)
			}
		}
	})

	t.Run("applies date range", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/views/portfolio?start_date=2024-03-01&end_date=2024-03-31", token, "")
		require.Equal(t, http.StatusOK, w.Code)

		var view View
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		for _, m := range view.Metrics {
			if m.ID == "total_applications" {
				assert.Equal(t, "1", m.Value)
			}
		}
	})

	t.Run("unknown view is 404", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/views/nope", token, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed date is 400", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/views/portfolio?start_date=03-2024", token, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("inverted date range is 400", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/views/portfolio?start_date=2024-04-01&end_date=2024-03-01", token, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFilterOptionsEndpoint(t *testing.T) {
	router := setupTestRouter(t)
	token := loginToken(t, router)

	w := doRequest(router, http.MethodGet, "/api/v1/filters", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var opts FilterOptions
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	assert.ElementsMatch(t, []string{"Personal", "Home"}, opts.LoanTypes)
	assert.ElementsMatch(t, []string{"Mobile", "Desktop"}, opts.Devices)
	assert.ElementsMatch(t, []string{"Tamil Nadu", "Kerala"}, opts.States)
	assert.Equal(t, "2024-03-15", opts.MinApplicationDate)
	assert.Equal(t, "2024-04-01", opts.MaxApplicationDate)
}

func TestReloadEndpoint(t *testing.T) {
	router := setupTestRouter(t)
	token := loginToken(t, router)

	w := doRequest(router, http.MethodPost, "/api/v1/datasets/reload", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(2), resp["loans"])
	assert.Equal(t, float64(2), resp["transactions"])
}

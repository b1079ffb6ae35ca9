package dashboard

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/Mohamedfazeem/loan-fraud-dashboard/dataset"
	"github.com/Mohamedfazeem/loan-fraud-dashboard/filtering"
)

const dateParamLayout = "2006-01-02"

// API exposes the dashboard views over HTTP.
type API struct {
	service *Service
	store   *dataset.Store
}

// NewAPI creates an API handler around the dashboard service and its store.
func NewAPI(service *Service, store *dataset.Store) *API {
	return &API{service: service, store: store}
}

// RegisterRoutes registers the authenticated dashboard routes.
func (a *API) RegisterRoutes(router gin.IRouter) {
	router.GET("/filters", a.filterOptionsHandler)
	router.GET("/views/:view", a.viewHandler)
	router.POST("/datasets/reload", a.reloadHandler)
}

func (a *API) filterOptionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, a.service.FilterOptions())
}

func (a *API) viewHandler(c *gin.Context) {
	sel, err := selectionFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := c.Param("view")
	view, err := a.service.BuildView(name, sel)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (a *API) reloadHandler(c *gin.Context) {
	if err := a.store.Reload(); err != nil {
		log.Errorf("Dataset reload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload datasets: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Datasets reloaded",
		"loans":        len(a.store.Loans()),
		"transactions": len(a.store.Transactions()),
		"loaded_at":    a.store.LoadedAt().Format(time.RFC3339),
	})
}

// selectionFromQuery builds a filter selection from repeated query params
// plus an optional inclusive date range.
func selectionFromQuery(c *gin.Context) (filtering.Selection, error) {
	sel := filtering.Selection{
		LoanTypes:          c.QueryArray("loan_type"),
		EmploymentStatuses: c.QueryArray("employment_status"),
		Genders:            c.QueryArray("gender"),
		Devices:            c.QueryArray("device"),
		States:             c.QueryArray("state"),
	}

	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			return filtering.Selection{}, fmt.Errorf("invalid start_date %q, expected YYYY-MM-DD", raw)
		}
		sel.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			return filtering.Selection{}, fmt.Errorf("invalid end_date %q, expected YYYY-MM-DD", raw)
		}
		sel.EndDate = &t
	}
	if sel.StartDate != nil && sel.EndDate != nil && sel.EndDate.Before(*sel.StartDate) {
		return filtering.Selection{}, fmt.Errorf("end_date is before start_date")
	}
	return sel, nil
}

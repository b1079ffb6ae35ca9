package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/Mohamedfazeem/loan-fraud-dashboard/auth"
	"github.com/Mohamedfazeem/loan-fraud-dashboard/config"
	"github.com/Mohamedfazeem/loan-fraud-dashboard/dashboard"
	"github.com/Mohamedfazeem/loan-fraud-dashboard/dataset"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg := config.Load()

	// Load the two source tables once; filter changes recompute from the
	// cached tables, never from disk.
	store := dataset.NewStore(dataset.NewLoader(), cfg.LoanDataPath, cfg.TransactionDataPath)
	if err := store.Load(); err != nil {
		log.Fatalf("Failed to load datasets: %v", err)
	}

	authService := auth.NewService(cfg.Username, cfg.Password, cfg.SessionTTL)
	authAPI := auth.NewAPI(authService)

	dashboardService := dashboard.NewService(store)
	dashboardAPI := dashboard.NewAPI(dashboardService, store)

	router := gin.Default()

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"loans":        len(store.Loans()),
			"transactions": len(store.Transactions()),
		})
	})

	v1 := router.Group("/api/v1")
	authAPI.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(authAPI.Middleware())
	dashboardAPI.RegisterRoutes(protected)

	log.Infof("Starting dashboard server on %s", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// API provides the login/logout handlers and the session middleware.
type API struct {
	service *Service
}

// NewAPI creates an API handler around the auth service.
func NewAPI(service *Service) *API {
	return &API{service: service}
}

// RegisterRoutes registers the unauthenticated auth routes.
func (a *API) RegisterRoutes(router gin.IRouter) {
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/login", a.loginHandler)
		authRoutes.POST("/logout", a.logoutHandler)
	}
}

// Middleware rejects requests that do not carry a valid session token.
func (a *API) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromHeader(c.GetHeader("Authorization"))
		if token == "" || !a.service.Validate(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

func (a *API) loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	session, err := a.service.Login(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

func (a *API) logoutHandler(c *gin.Context) {
	token := TokenFromHeader(c.GetHeader("Authorization"))
	if token != "" {
		a.service.Logout(token)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

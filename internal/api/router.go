package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine: panic recovery, request logging, CORS,
// any extra middleware, the /api group and a JSON 404 for everything else.
func NewRouter(h *APIHandler, middleware ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Recovery())
	r.Use(RequestLogger())
	r.Use(CORS())
	r.Use(middleware...)

	apiGroup := r.Group("/api")
	SetupRoutes(apiGroup, h)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}

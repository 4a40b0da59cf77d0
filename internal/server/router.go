// Package server is the AlgoTix HTTP API: auth endpoints and the
// /api/algo ticket and node-status endpoints.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"algotix/internal/logging"
	"algotix/internal/users"
)

// Ledger is the slice of the Algorand node the API needs.
type Ledger interface {
	LastRound(ctx context.Context) (uint64, error)
	HoldsAsset(ctx context.Context, address string, assetID uint64) (bool, error)
}

type Deps struct {
	Users       *users.Service
	Ledger      Ledger
	AppID       uint64
	AssetID     uint64
	CORSOrigins []string
	Log         logging.Logger
}

// New builds the gin engine with every route mounted.
func New(d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(d.Log), CORS(d.CORSOrigins))

	authCtl := NewAuthController(d.Users, d.Log)
	algoCtl := NewAlgoController(d.Ledger, d.AppID, d.AssetID, d.Log)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "AlgoTix Auth API is running", "users_count": d.Users.Count()})
	})

	api := r.Group("/api")
	api.POST("/login", authCtl.Login())
	api.POST("/signup", authCtl.Signup())
	api.GET("/verify", authCtl.Verify())

	algo := api.Group("/algo")
	algo.POST("/check-ticket", algoCtl.CheckTicket())
	algo.GET("/status", algoCtl.Status())

	return r
}

func requestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// fail writes the API's error shape.
func fail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail, "success": false})
}

func validationFailed(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
		"detail": "Validation error",
		"errors": []gin.H{{"msg": err.Error(), "type": "value_error"}},
	})
}

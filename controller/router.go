package controller

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the search routes, the health check and CORS.
func NewRouter(c *SearchController, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger.Named("access")))
	router.SetHTMLTemplate(Templates())

	// CORS for the export buttons of other front ends
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{
			"status":   "healthy",
			"service":  "deepsearch",
			"version":  "1.0.0",
			"datasets": len(c.search.Catalog().Datasets()),
		})
	})

	router.GET("/", c.Index)
	router.POST("/search", c.Search)
	router.POST("/export", c.Export)
	router.POST("/analyze", c.Analyze)
	router.POST("/get_columns", c.GetColumns)

	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		logger.Info("request",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("status", ctx.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", ctx.ClientIP()))
	}
}

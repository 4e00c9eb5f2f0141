package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eaglebank/statement-service/internal/middleware"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// NewRouter mounts every route of the service.
func NewRouter(log zerolog.Logger, transactions *TransactionHandler, uploads *UploadHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware(log))

	router.GET("/health", Health)
	router.POST("/upload", uploads.Upload)

	tx := router.Group("/transactions")
	tx.POST("", transactions.CreateTransaction)
	tx.GET("", transactions.ListTransactions)
	tx.GET("/:id", transactions.GetTransaction)
	tx.DELETE("/:id", transactions.DeleteTransaction)

	return router
}

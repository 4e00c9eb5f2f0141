package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eaglebank/statement-service/internal/events"
	"github.com/eaglebank/statement-service/internal/logger"
	"github.com/eaglebank/statement-service/internal/middleware"
	"github.com/eaglebank/statement-service/internal/models"
	"github.com/eaglebank/statement-service/internal/service"
)

// TransactionCommander defines the write-side operations used by TransactionHandler.
type TransactionCommander interface {
	CreateTransaction(ctx context.Context, tx models.CreateTransaction) (string, error)
	DeleteTransaction(ctx context.Context, id string) error
}

// TransactionQuerier defines the read-side operations used by TransactionHandler.
type TransactionQuerier interface {
	FindTransaction(ctx context.Context, id string) (*models.Transaction, error)
	FindTransactions(ctx context.Context) ([]models.Transaction, error)
}

// Emitter receives domain events after a successful write.
type Emitter interface {
	Emit(ctx context.Context, eventType string, data any)
}

type TransactionHandler struct {
	commands TransactionCommander
	queries  TransactionQuerier
	events   Emitter
}

type CreateTransactionResponse struct {
	ID string `json:"id"`
}

type ListTransactionsResponse struct {
	Transactions []models.Transaction `json:"transactions"`
}

func NewTransactionHandler(commands TransactionCommander, queries TransactionQuerier, emitter Emitter) *TransactionHandler {
	return &TransactionHandler{commands: commands, queries: queries, events: emitter}
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req models.CreateTransaction
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	ctx := c.Request.Context()
	id, err := h.commands.CreateTransaction(ctx, req)
	if err != nil {
		respondWithServiceError(c, err, "Failed to create transaction")
		return
	}

	h.events.Emit(ctx, events.TransactionCreated, events.TransactionCreatedEvent{
		TransactionID: id,
		AccountType:   req.AccountType,
		Amount:        req.Amount,
	})
	c.JSON(http.StatusCreated, CreateTransactionResponse{ID: id})
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	transactions, err := h.queries.FindTransactions(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err, "Failed to list transactions")
		return
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	c.JSON(http.StatusOK, ListTransactionsResponse{Transactions: transactions})
}

// GetTransaction answers 204 when the id is well formed but unknown.
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	tx, err := h.queries.FindTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithServiceError(c, err, "Failed to get transaction")
		return
	}
	if tx == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.commands.DeleteTransaction(ctx, id); err != nil {
		respondWithServiceError(c, err, "Failed to delete transaction")
		return
	}

	h.events.Emit(ctx, events.TransactionDeleted, events.TransactionDeletedEvent{TransactionID: id})
	c.Status(http.StatusNoContent)
}

func respondWithServiceError(c *gin.Context, err error, message string) {
	if service.IsInvalidID(err) {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid transaction id")
		return
	}
	log := logger.FromContext(c.Request.Context())
	log.Error().Err(err).Msg(message)
	middleware.RespondWithError(c, http.StatusInternalServerError, message)
}

package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/eaglebank/statement-service/internal/events"
	"github.com/eaglebank/statement-service/internal/ingest"
	"github.com/eaglebank/statement-service/internal/logger"
	"github.com/eaglebank/statement-service/internal/middleware"
)

const defaultInstitution = "default"

// Ingester turns a CSV statement into persisted transactions.
type Ingester interface {
	IngestReader(ctx context.Context, cfg ingest.Config, r io.Reader) (ingest.Result, error)
}

type UploadHandler struct {
	ingester Ingester
	profiles ingest.Profiles
	events   Emitter
}

type UploadResponse struct {
	Created int      `json:"created"`
	IDs     []string `json:"ids"`
}

type UploadErrorResponse struct {
	Message string   `json:"message"`
	File    string   `json:"file"`
	Created int      `json:"created"`
	IDs     []string `json:"ids"`
}

func NewUploadHandler(ingester Ingester, profiles ingest.Profiles, emitter Emitter) *UploadHandler {
	return &UploadHandler{ingester: ingester, profiles: profiles, events: emitter}
}

// Upload ingests every file part of a multipart form with the profile named by
// the institution query parameter. Parts are processed in field name order and the first
// failure stops the request; rows created before it are kept.
func (h *UploadHandler) Upload(c *gin.Context) {
	institution := c.DefaultQuery("institution", defaultInstitution)
	cfg, ok := h.profiles.Lookup(institution)
	if !ok {
		middleware.RespondWithError(c, http.StatusBadRequest, fmt.Sprintf("Unknown institution %q", institution))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	ctx := c.Request.Context()
	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	ids := []string{}
	for _, field := range fields {
		for _, fh := range form.File[field] {
			file, err := fh.Open()
			if err != nil {
				middleware.RespondWithError(c, http.StatusBadRequest, "Failed to read uploaded file")
				return
			}
			result, err := h.ingester.IngestReader(ctx, cfg, file)
			file.Close()
			ids = append(ids, result.IDs...)

			h.events.Emit(ctx, events.StatementIngested, events.StatementIngestedEvent{
				Institution:    cfg.Institution,
				TransactionIDs: result.IDs,
				Failed:         err != nil,
			})
			if err != nil {
				status := ingestStatus(err)
				if status == http.StatusInternalServerError {
					log := logger.FromContext(ctx)
					log.Error().Err(err).Str("file", fh.Filename).Msg("Failed to ingest statement")
				}
				c.JSON(status, UploadErrorResponse{
					Message: err.Error(),
					File:    fh.Filename,
					Created: len(ids),
					IDs:     ids,
				})
				return
			}
		}
	}

	c.JSON(http.StatusOK, UploadResponse{Created: len(ids), IDs: ids})
}

func ingestStatus(err error) int {
	switch ingest.KindOf(err) {
	case ingest.KindConfig, ingest.KindRecord, ingest.KindAmountConversion, ingest.KindDateConversion:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

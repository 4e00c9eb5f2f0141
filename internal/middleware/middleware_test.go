package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/eaglebank/statement-service/internal/logger"
)

type sampleRequest struct {
	Name  string `validate:"required"`
	Count int    `validate:"gte=1"`
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       sampleRequest
		wantTypes []string
	}{
		{name: "valid", req: sampleRequest{Name: "a", Count: 1}},
		{name: "missing name", req: sampleRequest{Count: 1}, wantTypes: []string{"required"}},
		{name: "both invalid", req: sampleRequest{}, wantTypes: []string{"required", "gte"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRequest(tt.req)
			if len(errs) != len(tt.wantTypes) {
				t.Fatalf("expected %d errors, got %+v", len(tt.wantTypes), errs)
			}
			for i, want := range tt.wantTypes {
				if errs[i].Type != want {
					t.Errorf("error %d: expected %s, got %s", i, want, errs[i].Type)
				}
			}
		})
	}
}

func TestRespondWithValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithValidationError(c, []ValidationError{{Field: "Name", Message: "This field is required", Type: "required"}})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body BadRequestErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Details) != 1 || body.Details[0].Field != "Name" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	var fromCtx bool

	r := gin.New()
	r.Use(LoggingMiddleware(zerolog.New(&buf)))
	r.GET("/missing", func(c *gin.Context) {
		log := logger.FromContext(c.Request.Context())
		log.Info().Msg("inside handler")
		fromCtx = true
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/missing", nil)
	r.ServeHTTP(w, req)

	if !fromCtx {
		t.Fatal("handler not called")
	}
	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"status":404`, `"path":"/missing"`, `"message":"inside handler"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log to contain %s, got %s", want, out)
		}
	}
}

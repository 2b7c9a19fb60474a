package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"scanparse/internal/rate"
	"scanparse/internal/resultparser/core"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// TitleResolver looks up the page title a URI result links to.
type TitleResolver interface {
	Resolve(ctx context.Context, result *core.URIParsedResult) (*core.URIParsedResult, error)
}

type Handler struct {
	dispatcher    *core.Dispatcher
	titles        TitleResolver
	enrichLimiter *rate.WindowLimiter
	logger        *slog.Logger
	validator     *validator.Validate
	enrichTimeout time.Duration
}

// New creates handler. A nil titles disables title lookups; enrichPerMinute
// caps them per client address.
func New(dispatcher *core.Dispatcher, titles TitleResolver, enrichPerMinute int, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		dispatcher:    dispatcher,
		titles:        titles,
		enrichLimiter: rate.NewWindowLimiter(enrichPerMinute, time.Minute),
		logger:        logger,
		validator:     newValidator(),
		enrichTimeout: 10 * time.Second,
	}
}

func (h *Handler) loggerForRequest(r *http.Request) *slog.Logger {
	logger := h.logger
	if logger == nil {
		return slog.Default()
	}
	if reqID := chimw.GetReqID(r.Context()); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	return logger
}

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

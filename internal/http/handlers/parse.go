package handlers

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"scanparse/internal/http/middleware"
	"scanparse/internal/resultparser/core"
)

// maxPayloadChars is the largest QR code payload (numeric mode, version 40).
const maxPayloadChars = 7089

// The max tag on Text must match maxPayloadChars.
type parseRequest struct {
	Text         string `json:"text" validate:"required,max=7089"`
	ResolveTitle bool   `json:"resolve_title"`
}

type parseResponse struct {
	core.Envelope
	TitleError string `json:"title_error,omitempty"`
}

// ParseResult classifies a scanned payload.
func (h *Handler) ParseResult(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	var req parseRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4*maxPayloadChars+1024)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	result := h.dispatcher.Parse(req.Text)
	resp := parseResponse{}

	if uri, ok := result.(*core.URIParsedResult); ok && req.ResolveTitle && h.titles != nil {
		if !h.enrichLimiter.Allow(clientKey(r)) {
			writeError(w, http.StatusTooManyRequests, "title lookup rate limit exceeded")
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), h.enrichTimeout)
		titled, err := h.titles.Resolve(ctx, uri)
		cancel()
		if err != nil {
			logger.Warn("action", "action", "parse_resolve_title", "status", "title_error", "domain", uri.Domain(), "error", err)
			resp.TitleError = err.Error()
		} else {
			result = titled
		}
	}

	resp.Envelope = core.NewEnvelope(result)
	w.Header().Set(middleware.ResultTypeHeader, string(result.Type()))
	logger.Info("action", "action", "parse_result", "status", "ok", "type", result.Type())
	writeJSON(w, http.StatusOK, resp)
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

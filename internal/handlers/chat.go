package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"minichat-backend/internal/gemini"
	"minichat-backend/internal/models"
	"minichat-backend/internal/ratelimit"
)

// Error codes surfaced in the client-facing envelope.
const (
	codeBadRequest          = "BAD_REQUEST"
	codeRateLimited         = "RATE_LIMITED"
	codeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	codeNoReply             = "NO_REPLY"
)

// generator is the single upstream call the chat pipeline depends on.
type generator interface {
	GenerateContent(ctx context.Context, contents []gemini.Content) (*gemini.GenerateContentResponse, error)
}

type ChatHandler struct {
	limiter         *ratelimit.Limiter
	upstream        generator
	maxHistoryTurns int
	logger          zerolog.Logger
}

func NewChatHandler(limiter *ratelimit.Limiter, upstream generator, maxHistoryTurns int, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		limiter:         limiter,
		upstream:        upstream,
		maxHistoryTurns: maxHistoryTurns,
		logger:          logger,
	}
}

// Chat runs the pipeline: validate, admit, build, dispatch, extract.
// Validation comes before the limiter so malformed input never consumes
// quota, and a rejected or invalid request never reaches the upstream.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp(codeBadRequest, "Invalid request body"))
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeJSON(w, http.StatusBadRequest, errorResp(codeBadRequest, "Message is empty"))
		return
	}

	ip := clientIP(r)
	if !h.limiter.Allow(ip) {
		h.logger.Debug().Str("client", ip).Msg("rate limit exceeded")
		writeJSON(w, http.StatusTooManyRequests, errorResp(codeRateLimited, "Too many requests. Please try again later."))
		return
	}

	contents := gemini.BuildContents(message, req.History, h.maxHistoryTurns)

	resp, err := h.upstream.GenerateContent(r.Context(), contents)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}

	reply, err := gemini.ExtractText(resp)
	if err != nil {
		if errors.Is(err, gemini.ErrNoContent) {
			writeJSON(w, http.StatusBadGateway, errorResp(codeNoReply, "The model returned no reply."))
			return
		}
		h.writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
}

// writeUpstreamError maps upstream failures onto the stable envelope:
// upstream HTTP errors and transport failures answer 502, timeouts 504.
// Detail strings never carry the upstream body or the credential.
func (h *ChatHandler) writeUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *gemini.APIError
	switch {
	case errors.As(err, &apiErr):
		h.logger.Error().Int("status", apiErr.StatusCode).Msg("upstream rejected request")
		writeJSON(w, http.StatusBadGateway,
			errorResp(codeUpstreamUnavailable, fmt.Sprintf("Upstream error: %d", apiErr.StatusCode)))
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Error().Err(err).Msg("upstream call timed out")
		writeJSON(w, http.StatusGatewayTimeout,
			errorResp(codeUpstreamUnavailable, "Upstream request timed out"))
	default:
		h.logger.Error().Err(err).Msg("upstream call failed")
		writeJSON(w, http.StatusBadGateway,
			errorResp(codeUpstreamUnavailable, "Failed to reach the model service"))
	}
}

// Shared helpers

// clientIP keys the rate limiter. RealIP middleware has already rewritten
// RemoteAddr from forwarding headers when present; stripping the port keeps
// one browser from spreading its quota across ephemeral ports.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, detail string) models.ErrorResponse {
	return models.ErrorResponse{Error: code, Detail: detail}
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	slogctx "github.com/veqryn/slog-context"

	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/serviceerr"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slogctx.Error(ctx, "failed to encode response", "error", err)
	}
}

func respondError(ctx context.Context, w http.ResponseWriter, status int, code, message string) {
	respondJSON(ctx, w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// errorStatus converts a service error into the HTTP status and code the
// views API reports.
func errorStatus(err error) (int, string) {
	if checkout.IsOrderMissing(err) {
		return http.StatusBadGateway, "payment_taken_order_missing"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "timeout"
	}

	var se *serviceerr.Error
	if !errors.As(err, &se) {
		return http.StatusInternalServerError, "internal_error"
	}

	switch se.Kind {
	case serviceerr.KindValidation:
		return http.StatusBadRequest, "invalid_argument"
	case serviceerr.KindUnauthenticated:
		return http.StatusUnauthorized, "unauthenticated"
	case serviceerr.KindForbidden:
		return http.StatusForbidden, "permission_denied"
	case serviceerr.KindNotFound:
		return http.StatusNotFound, "not_found"
	case serviceerr.KindBusiness:
		if se.Status >= 400 && se.Status < 500 {
			return se.Status, "rejected"
		}
		return http.StatusConflict, "rejected"
	case serviceerr.KindTransport:
		return http.StatusServiceUnavailable, "backend_unavailable"
	case serviceerr.KindServer, serviceerr.KindMalformed:
		return http.StatusBadGateway, "backend_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	status, code := errorStatus(err)
	resp := ErrorResponse{Error: err.Error(), Code: code}

	var se *serviceerr.Error
	if errors.As(err, &se) && se.Message != "" {
		resp.Error = se.Message
		resp.Details = err.Error()
	}
	if status == http.StatusInternalServerError {
		resp.Error = "internal server error"
		resp.Details = ""
	}
	return status, resp
}

func handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	status, resp := errorResponse(err)
	if status >= http.StatusInternalServerError {
		slogctx.Error(ctx, "request failed", "status", status, "error", err)
	}
	respondJSON(ctx, w, status, resp)
}

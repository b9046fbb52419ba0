package api

import (
	"errors"
	"net/http"

	"iamtoxico-bridge/internal/domain"
)

// statusFor maps application errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotConnected), domain.IsConfigurationError(err):
		return http.StatusBadRequest
	case domain.IsAuthError(err), errors.Is(err, domain.ErrRateLimited):
		return http.StatusBadGateway
	}
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

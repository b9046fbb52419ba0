package domain

import (
	"errors"
	"fmt"
)

// ErrRateLimited is returned once 429 retries are exhausted
var ErrRateLimited = errors.New("rate limited")

// ErrNotConnected is returned when a connector has not been established
var ErrNotConnected = errors.New("not connected")

// AuthError is an OAuth or token exchange failure
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("auth failed: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("auth failed: %s", e.Message)
}

// UpstreamError is a non-2xx response from a platform
type UpstreamError struct {
	Platform   Platform
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s %s failed: status %d: %s", e.Platform, e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ConfigurationError is a missing credential or sales channel
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// IsConfigurationError reports whether err carries a ConfigurationError
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// IsAuthError reports whether err carries an AuthError
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

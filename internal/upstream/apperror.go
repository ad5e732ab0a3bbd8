// Package upstream normalizes third-party travel API access: every provider
// call goes through a shared JSON client that converts non-2xx responses into
// a uniform AppError and retries the handful of transient statuses with
// exponential backoff.
package upstream

import (
	"encoding/json"
	"fmt"
	"time"
)

// Retriable HTTP statuses: rate-limit and gateway-class failures.
// Everything else propagates immediately without consuming retry budget.
const (
	statusTooManyRequests = 429
	statusBadGateway      = 502
	statusUnavailable     = 503
	statusGatewayTimeout  = 504
)

// AppError is the uniform error shape every provider failure is normalized
// to at the client boundary. Feature code never sees a raw HTTP response
// error.
type AppError struct {
	// Status is the upstream HTTP status; 0 means network/connection failure.
	Status int `json:"status"`
	// Code is the provider-supplied error code, or "UNKNOWN".
	Code string `json:"code"`
	// Message is safe to display to end users.
	Message string `json:"message"`
	// Source names the provider that produced the error.
	Source string `json:"source"`
	// Timestamp records when the failure was observed.
	Timestamp time.Time `json:"timestamp"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("upstream %s: status %d (%s): %s", e.Source, e.Status, e.Code, e.Message)
}

// IsRetriable reports whether an upstream status warrants a backoff retry.
func IsRetriable(status int) bool {
	switch status {
	case statusTooManyRequests, statusBadGateway, statusUnavailable, statusGatewayTimeout:
		return true
	}
	return false
}

// upstreamErrorBody covers the error body shapes the providers return.
// RapidAPI-style bodies carry "message"; Amadeus-style carry "detail".
type upstreamErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// Normalize builds an AppError from an upstream response. The body is probed
// for a provider code and message; absent or unparseable bodies fall back to
// generic values.
func Normalize(source string, status int, body []byte) *AppError {
	e := &AppError{
		Status:    status,
		Code:      "UNKNOWN",
		Message:   "An unexpected error occurred",
		Source:    source,
		Timestamp: time.Now().UTC(),
	}

	var parsed upstreamErrorBody
	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil {
		if parsed.Code != "" {
			e.Code = parsed.Code
		}
		switch {
		case parsed.Detail != "":
			e.Message = parsed.Detail
		case parsed.Message != "":
			e.Message = parsed.Message
		}
	}

	return e
}

// NetworkError builds the status-0 AppError used when the request never
// produced a response.
func NetworkError(source string, err error) *AppError {
	return &AppError{
		Status:    0,
		Code:      "UNKNOWN",
		Message:   err.Error(),
		Source:    source,
		Timestamp: time.Now().UTC(),
	}
}

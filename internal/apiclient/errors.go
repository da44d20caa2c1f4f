// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyPrompt is returned when the prompt is blank after trimming.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrPromptTooLong is returned when the prompt exceeds MaxPromptRunes.
	ErrPromptTooLong = errors.New("prompt too long")

	// ErrNoToken is returned by authenticated calls when no token is available.
	ErrNoToken = errors.New("not logged in")

	// ErrFeedbackThrottled is returned when feedback is sent faster than the
	// configured rate.
	ErrFeedbackThrottled = errors.New("feedback throttled")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// IsUnauthorized reports whether the backend rejected the credentials.
func (e *APIError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// IsUnauthorized reports whether err is (or wraps) an APIError with a
// 401/403 status.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsUnauthorized()
}

/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

type ErrorCode string

const (
	// ErrInvalidArgument is returned when a required input (entity id, feature id...) is missing.
	ErrInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrRequestFailed wraps any non-2xx answer from the compliance service.
	ErrRequestFailed ErrorCode = "REQUEST_FAILED"
	// ErrValidationFailed is returned when an API key fails local validation.
	ErrValidationFailed ErrorCode = "VALIDATION_FAILED"
	// ErrUploadFailed marks a failure of the object-storage leg of a presigned upload.
	ErrUploadFailed ErrorCode = "UPLOAD_FAILED"

	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrForbidden      ErrorCode = "FORBIDDEN"
	ErrInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"
)

// APIError is the typed failure every layer of the service propagates.
// Status carries the upstream HTTP status for REQUEST_FAILED and UPLOAD_FAILED.
type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Status  int         `json:"status,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func (e APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	if details != nil {
		logrus.Error(details)
	}
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

func InvalidArgument(message string) APIError {
	return APIError{Code: ErrInvalidArgument, Message: message}
}

func RequestFailed(status int, message string) APIError {
	return APIError{Code: ErrRequestFailed, Status: status, Message: message}
}

func UploadFailed(status int, message string) APIError {
	return APIError{Code: ErrUploadFailed, Status: status, Message: message}
}

func ValidationFailed(message string) APIError {
	return APIError{Code: ErrValidationFailed, Message: message}
}

// IsCode reports whether err (or anything it wraps) is an APIError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}

// MapErrorToHTTPStatus converts an error into the status the HTTP layer should answer with.
// Upstream failures keep the upstream status so the browser sees what the compliance service said.
func MapErrorToHTTPStatus(err error) int {
	var apiErr APIError
	if !errors.As(err, &apiErr) {
		return http.StatusInternalServerError
	}

	switch apiErr.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrForbidden:
		return http.StatusForbidden
	case ErrInvalidArgument, ErrValidationFailed:
		return http.StatusBadRequest
	case ErrRequestFailed:
		if apiErr.Status >= 400 {
			return apiErr.Status
		}
		return http.StatusBadGateway
	case ErrUploadFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

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

package apierror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/reap-finance/onboarding/internal/apierror"
	"github.com/stretchr/testify/assert"
)

func TestNewAPIError(t *testing.T) {
	details := "Some internal error details"
	apiErr := apierror.NewAPIError(apierror.ErrInternalServer, "Something went wrong", details)

	assert.Equal(t, apierror.ErrInternalServer, apiErr.Code)
	assert.Equal(t, "Something went wrong", apiErr.Message)
	assert.Equal(t, details, apiErr.Details)
	assert.Equal(t, "INTERNAL_SERVER_ERROR: Something went wrong", apiErr.Error())
}

func TestRequestFailedMessage(t *testing.T) {
	err := apierror.RequestFailed(422, "externalId already exists")
	assert.Equal(t, "REQUEST_FAILED (422): externalId already exists", err.Error())
}

func TestIsCode(t *testing.T) {
	wrapped := fmt.Errorf("creating entity: %w", apierror.RequestFailed(500, "boom"))

	assert.True(t, apierror.IsCode(wrapped, apierror.ErrRequestFailed))
	assert.False(t, apierror.IsCode(wrapped, apierror.ErrUploadFailed))
	assert.False(t, apierror.IsCode(errors.New("plain"), apierror.ErrRequestFailed))
}

func TestMapErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "NotFound Error",
			err:      apierror.NewAPIError(apierror.ErrNotFound, "Resource not found", nil),
			expected: http.StatusNotFound,
		},
		{
			name:     "InvalidArgument Error",
			err:      apierror.InvalidArgument("featureId is required"),
			expected: http.StatusBadRequest,
		},
		{
			name:     "ValidationFailed Error",
			err:      apierror.ValidationFailed("API key is too short"),
			expected: http.StatusBadRequest,
		},
		{
			name:     "RequestFailed keeps upstream status",
			err:      apierror.RequestFailed(http.StatusUnauthorized, "invalid key"),
			expected: http.StatusUnauthorized,
		},
		{
			name:     "RequestFailed without status",
			err:      apierror.RequestFailed(0, "connection refused"),
			expected: http.StatusBadGateway,
		},
		{
			name:     "UploadFailed Error",
			err:      apierror.UploadFailed(http.StatusForbidden, "policy expired"),
			expected: http.StatusBadGateway,
		},
		{
			name:     "Forbidden Error",
			err:      apierror.NewAPIError(apierror.ErrForbidden, "endpoint not allowed", nil),
			expected: http.StatusForbidden,
		},
		{
			name:     "Unknown Error",
			err:      errors.New("Unknown error"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statusCode := apierror.MapErrorToHTTPStatus(tt.err)
			assert.Equal(t, tt.expected, statusCode)
		})
	}
}

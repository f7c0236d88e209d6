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

package upload

import (
	"context"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/reap-finance/onboarding/apikey"
	"github.com/reap-finance/onboarding/internal/apierror"
	"github.com/reap-finance/onboarding/internal/request"
	"github.com/reap-finance/onboarding/model"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("Upload")

// Compliance is the part of the compliance client the uploader depends on.
type Compliance interface {
	UploadFile(ctx context.Context, apiKey, entityID, slug, memberID string, file model.File) (*model.Ack, error)
	GetPresignedPostFileURL(ctx context.Context, apiKey, entityID, slug, memberID string) (*model.PresignedPost, error)
}

// Result describes a completed upload. Key is only set for presigned uploads.
type Result struct {
	Strategy string `json:"strategy"`
	Key      string `json:"key,omitempty"`
}

const (
	StrategyDirect    = "direct"
	StrategyPresigned = "presigned"
)

// Uploader sends requirement files either through the compliance service or straight to
// object storage.
type Uploader struct {
	compliance Compliance
	storage    *http.Client
}

// NewUploader creates an uploader. storage is the client used for the object-storage POST and
// defaults to one with a 60s timeout.
func NewUploader(compliance Compliance, storage *http.Client) *Uploader {
	if storage == nil {
		storage = &http.Client{Timeout: 60 * time.Second}
	}
	return &Uploader{compliance: compliance, storage: storage}
}

// ObjectKey is the storage key of an uploaded file: the presign prefix followed by the filename.
func ObjectKey(prefix, filename string) string {
	return prefix + filename
}

// Direct uploads through the compliance service. Its failures are REQUEST_FAILED.
func (u *Uploader) Direct(ctx context.Context, apiKey, entityID, slug, memberID string, file model.File) (*Result, error) {
	if _, err := u.compliance.UploadFile(ctx, apiKey, entityID, slug, memberID, file); err != nil {
		return nil, err
	}
	return &Result{Strategy: StrategyDirect}, nil
}

// Presigned obtains a presigned POST from the compliance service and sends the file to storage.
// A failing presign is REQUEST_FAILED; a failing storage POST is UPLOAD_FAILED.
func (u *Uploader) Presigned(ctx context.Context, apiKey, entityID, slug, memberID string, file model.File) (*Result, error) {
	if file.Name == "" {
		return nil, apierror.InvalidArgument("file name is required")
	}

	presigned, err := u.compliance.GetPresignedPostFileURL(ctx, apiKey, entityID, slug, memberID)
	if err != nil {
		return nil, err
	}

	key := ObjectKey(presigned.Prefix, file.Name)
	if err := u.postToStorage(ctx, presigned, key, file); err != nil {
		logrus.WithFields(logrus.Fields{
			"entity_id": entityID,
			"slug":      slug,
			"api_key":   apikey.Redact(apiKey),
		}).WithError(err).Error("storage upload failed")
		return nil, err
	}

	return &Result{Strategy: StrategyPresigned, Key: key}, nil
}

func (u *Uploader) postToStorage(ctx context.Context, presigned *model.PresignedPost, key string, file model.File) error {
	ctx, span := tracer.Start(ctx, "Posting file to storage")
	defer span.End()
	span.SetAttributes(attribute.String("storage.key", key))

	if presigned.URL == "" {
		return apierror.UploadFailed(0, "presigned post has no url")
	}

	body, contentType, err := request.ToMultipartReq(StorageFields(presigned.Fields, key), "file", file)
	if err != nil {
		span.RecordError(err)
		return apierror.UploadFailed(0, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, presigned.URL, body)
	if err != nil {
		span.RecordError(err)
		return apierror.UploadFailed(0, err.Error())
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.storage.Do(req)
	if err != nil {
		span.RecordError(err)
		return apierror.UploadFailed(0, err.Error())
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := apierror.UploadFailed(resp.StatusCode, request.UpstreamMessage(raw, resp.Status))
		span.RecordError(err)
		return err
	}
	return nil
}

// StorageFields orders the form fields of a storage POST: every presigned field sorted by name,
// then key. A "key" among the presigned fields is replaced by the computed one.
func StorageFields(fields map[string]string, key string) []request.FormField {
	names := make([]string, 0, len(fields))
	for name := range fields {
		if name == "key" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]request.FormField, 0, len(names)+1)
	for _, name := range names {
		out = append(out, request.FormField{Name: name, Value: fields[name]})
	}
	return append(out, request.FormField{Name: "key", Value: key})
}

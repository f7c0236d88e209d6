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

package compliance

import (
	"context"
	"net/http"

	"github.com/reap-finance/onboarding/internal/apierror"
	"github.com/reap-finance/onboarding/internal/request"
	"github.com/reap-finance/onboarding/model"
)

func requirementPath(entityID, slug string) string {
	return "/entity/" + escape(entityID) + "/requirement-slug/" + escape(slug)
}

// GetPresignedPostFileURL asks for a direct-to-storage upload target for one requirement.
// The returned fields must all be posted back with the file.
func (c *Client) GetPresignedPostFileURL(ctx context.Context, apiKey, entityID, slug, memberID string) (*model.PresignedPost, error) {
	if err := requireID("entity id", entityID); err != nil {
		return nil, err
	}
	if err := requireID("requirement slug", slug); err != nil {
		return nil, err
	}

	var presigned model.PresignedPost
	path := requirementPath(entityID, slug) + "/presigned-upload-url"
	body := model.PresignedPostRequest{MemberID: memberID}
	if err := c.call(ctx, "GetPresignedPostFileURL", apiKey, http.MethodPost, path, body, &presigned); err != nil {
		return nil, err
	}
	if presigned.Fields == nil {
		presigned.Fields = map[string]string{}
	}
	return &presigned, nil
}

// UploadFile sends a file for a requirement through the compliance service itself.
func (c *Client) UploadFile(ctx context.Context, apiKey, entityID, slug, memberID string, file model.File) (*model.Ack, error) {
	if err := requireID("entity id", entityID); err != nil {
		return nil, err
	}
	if err := requireID("requirement slug", slug); err != nil {
		return nil, err
	}

	var fields []request.FormField
	if memberID != "" {
		fields = append(fields, request.FormField{Name: "memberId", Value: memberID})
	}
	body, contentType, err := request.ToMultipartReq(fields, "file", file)
	if err != nil {
		return nil, apierror.InvalidArgument(err.Error())
	}

	ack := model.Ack{Success: true}
	path := requirementPath(entityID, slug) + "/upload"
	if err := c.send(ctx, "UploadFile", apiKey, http.MethodPost, path, body, contentType, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

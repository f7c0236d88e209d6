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

	"github.com/reap-finance/onboarding/model"
)

// FetchKycLink opens a verification session for an entity, or for one of its members when
// MemberID is set. The answer is either a widget token ({provider, sdkToken}) or a hosted page
// ({web_href}).
func (c *Client) FetchKycLink(ctx context.Context, apiKey, entityID string, req model.KycLinkRequest) (*model.KycLink, error) {
	if err := requireID("entity id", entityID); err != nil {
		return nil, err
	}

	var link model.KycLink
	path := "/entity/" + escape(entityID) + "/kyc"
	if err := c.call(ctx, "FetchKycLink", apiKey, http.MethodPost, path, req, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// RequestVerificationToken is FetchKycLink under the name the verification workflow uses.
func (c *Client) RequestVerificationToken(ctx context.Context, apiKey, entityID string, req model.KycLinkRequest) (*model.KycLink, error) {
	return c.FetchKycLink(ctx, apiKey, entityID, req)
}

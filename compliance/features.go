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
	"fmt"
	"net/http"

	"github.com/reap-finance/onboarding/model"
)

func (c *Client) FetchFeatures(ctx context.Context, apiKey string, page, limit int) (*model.Page[model.Feature], error) {
	page, limit = normalizePage(page, limit)

	var features model.Page[model.Feature]
	path := fmt.Sprintf("/features?page=%d&limit=%d", page, limit)
	if err := c.call(ctx, "FetchFeatures", apiKey, http.MethodGet, path, nil, &features); err != nil {
		return nil, err
	}
	if features.Items == nil {
		features.Items = []model.Feature{}
	}
	return &features, nil
}

// FetchFeatureRequirements lists the requirements an entity must satisfy to be enabled for a
// feature. An empty featureID fails before any request is made.
func (c *Client) FetchFeatureRequirements(ctx context.Context, apiKey, featureID string) (*model.Items[model.Requirement], error) {
	if err := requireID("feature id", featureID); err != nil {
		return nil, err
	}

	var requirements model.Items[model.Requirement]
	path := "/feature/" + escape(featureID) + "/requirements"
	if err := c.call(ctx, "FetchFeatureRequirements", apiKey, http.MethodGet, path, nil, &requirements); err != nil {
		return nil, err
	}
	if requirements.Items == nil {
		requirements.Items = []model.Requirement{}
	}
	return &requirements, nil
}

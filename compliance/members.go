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

func memberPath(entityID string) string {
	return "/entity/" + escape(entityID) + "/member"
}

func (c *Client) FetchEntityMembers(ctx context.Context, apiKey, entityID string) (*model.Items[model.Member], error) {
	if err := requireID("entity id", entityID); err != nil {
		return nil, err
	}

	var members model.Items[model.Member]
	if err := c.call(ctx, "FetchEntityMembers", apiKey, http.MethodGet, memberPath(entityID), nil, &members); err != nil {
		return nil, err
	}
	if members.Items == nil {
		members.Items = []model.Member{}
	}
	return &members, nil
}

// CreateEntityMember attaches a member (director, beneficial owner...) to a business entity.
func (c *Client) CreateEntityMember(ctx context.Context, apiKey, entityID string, member model.CreateMember) (*model.Member, error) {
	if err := requireID("entity id", entityID); err != nil {
		return nil, err
	}

	var created model.Member
	if err := c.call(ctx, "CreateEntityMember", apiKey, http.MethodPost, memberPath(entityID), member, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteEntityMember returns the deleted member. When the upstream answers without a body only
// the identifiers are filled in.
func (c *Client) DeleteEntityMember(ctx context.Context, apiKey, entityID, memberID string) (*model.Member, error) {
	if err := requireID("entity id", entityID); err != nil {
		return nil, err
	}
	if err := requireID("member id", memberID); err != nil {
		return nil, err
	}

	deleted := model.Member{ID: memberID, EntityID: entityID}
	path := memberPath(entityID) + "/" + escape(memberID)
	if err := c.call(ctx, "DeleteEntityMember", apiKey, http.MethodDelete, path, nil, &deleted); err != nil {
		return nil, err
	}
	return &deleted, nil
}

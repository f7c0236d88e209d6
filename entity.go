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

package onboarding

import (
	"context"

	"github.com/reap-finance/onboarding/model"
)

// CreateEntity creates an entity with the session's resolved key.
//
// Parameters:
// - ctx context.Context: The context for the operation.
// - s *Session: The browser session, or nil for server-initiated calls.
// - entity model.CreateEntity: The entity to create.
//
// Returns:
// - *model.Entity: The created entity.
// - error: INVALID_ARGUMENT for an unknown type, REQUEST_FAILED on an upstream failure.
func (o *Onboarding) CreateEntity(ctx context.Context, s *Session, entity model.CreateEntity) (*model.Entity, error) {
	return o.compliance.CreateEntity(ctx, o.ResolveKey(s), entity)
}

// ListEntities returns one page of entities. Results may be up to one cache window stale.
//
// Parameters:
// - ctx context.Context: The context for the operation.
// - s *Session: The browser session.
// - page int: The 1-based page number.
// - limit int: The page size.
//
// Returns:
// - *model.Page[model.Entity]: The entities and pagination metadata.
// - error: REQUEST_FAILED on an upstream failure.
func (o *Onboarding) ListEntities(ctx context.Context, s *Session, page, limit int) (*model.Page[model.Entity], error) {
	return o.compliance.FetchEntities(ctx, o.ResolveKey(s), page, limit)
}

func (o *Onboarding) GetEntity(ctx context.Context, s *Session, entityID string) (*model.Entity, error) {
	return o.compliance.FetchEntity(ctx, o.ResolveKey(s), entityID)
}

func (o *Onboarding) DeleteEntity(ctx context.Context, s *Session, entityID string) (*model.Ack, error) {
	return o.compliance.DeleteEntity(ctx, o.ResolveKey(s), entityID)
}

func (o *Onboarding) ListMembers(ctx context.Context, s *Session, entityID string) (*model.Items[model.Member], error) {
	return o.compliance.FetchEntityMembers(ctx, o.ResolveKey(s), entityID)
}

func (o *Onboarding) CreateMember(ctx context.Context, s *Session, entityID string, member model.CreateMember) (*model.Member, error) {
	return o.compliance.CreateEntityMember(ctx, o.ResolveKey(s), entityID, member)
}

func (o *Onboarding) DeleteMember(ctx context.Context, s *Session, entityID, memberID string) (*model.Member, error) {
	return o.compliance.DeleteEntityMember(ctx, o.ResolveKey(s), entityID, memberID)
}

func (o *Onboarding) ListFeatures(ctx context.Context, s *Session, page, limit int) (*model.Page[model.Feature], error) {
	return o.compliance.FetchFeatures(ctx, o.ResolveKey(s), page, limit)
}

// FeatureRequirements lists what an entity must provide to be enabled for a feature.
func (o *Onboarding) FeatureRequirements(ctx context.Context, s *Session, featureID string) (*model.Items[model.Requirement], error) {
	return o.compliance.FetchFeatureRequirements(ctx, o.ResolveKey(s), featureID)
}

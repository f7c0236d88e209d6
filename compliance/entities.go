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
	"errors"
	"fmt"
	"net/http"

	"github.com/reap-finance/onboarding/internal/apierror"
	"github.com/reap-finance/onboarding/internal/cache"
	"github.com/reap-finance/onboarding/model"
	"github.com/sirupsen/logrus"
)

// CreateEntity registers a new individual or business entity. Each call creates a new record
// upstream; callers must not double-invoke it.
func (c *Client) CreateEntity(ctx context.Context, apiKey string, entity model.CreateEntity) (*model.Entity, error) {
	if !entity.Type.Valid() {
		return nil, apierror.InvalidArgument(fmt.Sprintf("invalid entity type %q", entity.Type))
	}
	if entity.Requirements == nil {
		entity.Requirements = []model.RequirementInput{}
	}

	var created model.Entity
	if err := c.call(ctx, "CreateEntity", apiKey, http.MethodPost, "/entity", entity, &created); err != nil {
		return nil, err
	}
	c.invalidate(apiKey)
	return &created, nil
}

// FetchEntities lists entities a page at a time. When a cache is configured, results are served
// from it for the staleness window.
func (c *Client) FetchEntities(ctx context.Context, apiKey string, page, limit int) (*model.Page[model.Entity], error) {
	page, limit = normalizePage(page, limit)

	var cacheKey string
	if c.cache != nil {
		fp := fingerprint(apiKey)
		cacheKey = fmt.Sprintf("compliance:entities:%s:%d:%d:%d", fp, c.generation(fp), page, limit)

		var cached model.Page[model.Entity]
		err := c.cache.Get(ctx, cacheKey, &cached)
		if err == nil {
			logrus.WithField("operation", "FetchEntities").Debug("served from cache")
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logrus.WithError(err).Warn("entity list cache read failed")
		}
	}

	var entities model.Page[model.Entity]
	path := fmt.Sprintf("/entity?page=%d&limit=%d", page, limit)
	if err := c.call(ctx, "FetchEntities", apiKey, http.MethodGet, path, nil, &entities); err != nil {
		return nil, err
	}
	if entities.Items == nil {
		entities.Items = []model.Entity{}
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, entities, c.cacheTTL); err != nil {
			logrus.WithError(err).Warn("entity list cache write failed")
		}
	}
	return &entities, nil
}

func (c *Client) FetchEntity(ctx context.Context, apiKey, entityID string) (*model.Entity, error) {
	if err := requireID("entity id", entityID); err != nil {
		return nil, err
	}

	var entity model.Entity
	if err := c.call(ctx, "FetchEntity", apiKey, http.MethodGet, "/entity/"+escape(entityID), nil, &entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

func (c *Client) DeleteEntity(ctx context.Context, apiKey, entityID string) (*model.Ack, error) {
	if err := requireID("entity id", entityID); err != nil {
		return nil, err
	}

	ack := model.Ack{Success: true}
	if err := c.call(ctx, "DeleteEntity", apiKey, http.MethodDelete, "/entity/"+escape(entityID), nil, &ack); err != nil {
		return nil, err
	}
	c.invalidate(apiKey)
	return &ack, nil
}

// normalizePage applies the compliance API defaults: page 1, 10 items.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

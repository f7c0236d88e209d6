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
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetLocal(t *testing.T) {
	ctx := context.Background()
	c := NewCache(nil, time.Minute)

	setValue := map[string]string{"hello": "world"}
	require.NoError(t, c.Set(ctx, "testKey", setValue, time.Minute))

	var getValue map[string]string
	err := c.Get(ctx, "testKey", &getValue)
	assert.NoError(t, err)
	assert.Equal(t, setValue, getValue)
}

func TestGetNonExistentKey(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(time.Minute)

	var getValue map[string]string
	err := c.Get(ctx, "nonExistentKey", &getValue)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Empty(t, getValue)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(time.Minute)

	require.NoError(t, c.Set(ctx, "testKey", "testValue", time.Minute))
	assert.NoError(t, c.Delete(ctx, "testKey"))

	var getValue string
	assert.ErrorIs(t, c.Get(ctx, "testKey", &getValue), ErrCacheMiss)
	assert.Empty(t, getValue)

	assert.NoError(t, c.Delete(ctx, "nonExistentKey"))
}

func TestRedisTier(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	c := NewCache(client, time.Minute)

	require.NoError(t, c.Set(ctx, "entities:page1", []string{"E1", "E2"}, time.Minute))
	assert.True(t, mr.Exists("entities:page1"))

	var got []string
	require.NoError(t, c.Get(ctx, "entities:page1", &got))
	assert.Equal(t, []string{"E1", "E2"}, got)
}

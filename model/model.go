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
package model

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateUUIDWithSuffix generates a UUID with a given module name as a prefix,
// e.g. "wf_5b6c..." for workflows or "sess_..." for browser sessions.
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	return fmt.Sprintf("%s_%s", module, id.String())
}

// PaginationMeta mirrors the pagination block the compliance API returns with every list.
type PaginationMeta struct {
	TotalItems   int `json:"totalItems"`
	ItemCount    int `json:"itemCount"`
	ItemsPerPage int `json:"itemsPerPage"`
	TotalPages   int `json:"totalPages"`
	CurrentPage  int `json:"currentPage"`
}

// Page is a generic list response: { items: [...], meta: {...} }.
type Page[T any] struct {
	Items []T            `json:"items"`
	Meta  PaginationMeta `json:"meta"`
}

// Items is a list response without pagination, e.g. feature requirements.
type Items[T any] struct {
	Items []T `json:"items"`
}

// Ack is returned by operations whose upstream answer carries no useful body.
type Ack struct {
	Success bool `json:"success"`
}

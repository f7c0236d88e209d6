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
	"github.com/reap-finance/onboarding/upload"
)

// UploadRequirement sends the file for a FILE requirement of an entity (or of one of its members).
//
// Parameters:
// - ctx context.Context: The context for the operation.
// - s *Session: The browser session.
// - entityID string: The entity the requirement belongs to.
// - slug string: The requirement slug.
// - memberID string: Optional member the file belongs to.
// - file model.File: The file to upload.
// - presigned bool: Send the file straight to storage instead of through the compliance service.
//
// Returns:
// - *upload.Result: The strategy used and, for presigned uploads, the storage key.
// - error: REQUEST_FAILED when the compliance service fails, UPLOAD_FAILED when storage does.
func (o *Onboarding) UploadRequirement(ctx context.Context, s *Session, entityID, slug, memberID string, file model.File, presigned bool) (*upload.Result, error) {
	key := o.ResolveKey(s)
	if presigned {
		return o.uploader.Presigned(ctx, key, entityID, slug, memberID, file)
	}
	return o.uploader.Direct(ctx, key, entityID, slug, memberID, file)
}

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

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reap-finance/onboarding/api/middleware"
	"github.com/reap-finance/onboarding/model"
)

// maxUploadMemory is how much of a multipart form is kept in memory before spilling to disk.
const maxUploadMemory = 32 << 20

func (a Api) UploadRequirement(c *gin.Context) {
	a.uploadRequirement(c, false)
}

func (a Api) PresignedUploadRequirement(c *gin.Context) {
	a.uploadRequirement(c, true)
}

func (a Api) uploadRequirement(c *gin.Context, presigned bool) {
	id, ok := routeParam(c, "id")
	if !ok {
		return
	}
	slug, ok := routeParam(c, "slug")
	if !ok {
		return
	}

	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form is required"})
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	file := model.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     f,
	}

	resp, err := a.onboarding.UploadRequirement(c.Request.Context(), middleware.Session(c), id, slug, c.PostForm("memberId"), file, presigned)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

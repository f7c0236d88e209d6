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
	"strconv"

	"github.com/gin-gonic/gin"
	model2 "github.com/reap-finance/onboarding/api/model"
	"github.com/reap-finance/onboarding/api/middleware"
)

// pagination reads ?page= and ?limit=. Missing or malformed values fall back to the
// compliance client's defaults.
func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return page, limit
}

func (a Api) CreateEntity(c *gin.Context) {
	var newEntity model2.CreateEntity
	if err := c.ShouldBindJSON(&newEntity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := newEntity.ValidateCreateEntity(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := a.onboarding.CreateEntity(c.Request.Context(), middleware.Session(c), newEntity.ToCreateEntity())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetAllEntities(c *gin.Context) {
	page, limit := pagination(c)
	resp, err := a.onboarding.ListEntities(c.Request.Context(), middleware.Session(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetEntity(c *gin.Context) {
	id, ok := routeParam(c, "id")
	if !ok {
		return
	}

	resp, err := a.onboarding.GetEntity(c.Request.Context(), middleware.Session(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) DeleteEntity(c *gin.Context) {
	id, ok := routeParam(c, "id")
	if !ok {
		return
	}

	resp, err := a.onboarding.DeleteEntity(c.Request.Context(), middleware.Session(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetMembers(c *gin.Context) {
	id, ok := routeParam(c, "id")
	if !ok {
		return
	}

	resp, err := a.onboarding.ListMembers(c.Request.Context(), middleware.Session(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) CreateMember(c *gin.Context) {
	id, ok := routeParam(c, "id")
	if !ok {
		return
	}

	var newMember model2.CreateMember
	if err := c.ShouldBindJSON(&newMember); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := newMember.ValidateCreateMember(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := a.onboarding.CreateMember(c.Request.Context(), middleware.Session(c), id, newMember.ToCreateMember())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) DeleteMember(c *gin.Context) {
	id, ok := routeParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := routeParam(c, "member_id")
	if !ok {
		return
	}

	resp, err := a.onboarding.DeleteMember(c.Request.Context(), middleware.Session(c), id, memberID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetAllFeatures(c *gin.Context) {
	page, limit := pagination(c)
	resp, err := a.onboarding.ListFeatures(c.Request.Context(), middleware.Session(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetFeatureRequirements(c *gin.Context) {
	id, ok := routeParam(c, "id")
	if !ok {
		return
	}

	resp, err := a.onboarding.FeatureRequirements(c.Request.Context(), middleware.Session(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

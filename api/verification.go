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
	"time"

	"github.com/gin-gonic/gin"
	model2 "github.com/reap-finance/onboarding/api/model"
	"github.com/reap-finance/onboarding/api/middleware"
	"github.com/reap-finance/onboarding/workflow"
)

type verificationResponse struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	State     workflow.State `json:"state"`
}

func newVerificationResponse(w *workflow.Workflow, state workflow.State) verificationResponse {
	return verificationResponse{ID: w.ID, CreatedAt: w.CreatedAt, State: state}
}

func (a Api) StartVerification(c *gin.Context) {
	var newVerification model2.CreateVerification
	if err := c.ShouldBindJSON(&newVerification); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := newVerification.ValidateCreateVerification(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	w, state, err := a.onboarding.StartVerification(c.Request.Context(), middleware.Session(c), newVerification.ToVerificationRequest())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newVerificationResponse(w, state))
}

func (a Api) GetVerifications(c *gin.Context) {
	workflows := middleware.Session(c).Workflows()
	resp := make([]verificationResponse, 0, len(workflows))
	for _, w := range workflows {
		resp = append(resp, newVerificationResponse(w, w.State()))
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) GetVerification(c *gin.Context) {
	id, ok := routeParam(c, "id")
	if !ok {
		return
	}

	w, err := a.onboarding.Verification(middleware.Session(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newVerificationResponse(w, w.State()))
}

// VerificationEvent relays an event raised by the embedded verification widget.
func (a Api) VerificationEvent(c *gin.Context) {
	id, ok := routeParam(c, "id")
	if !ok {
		return
	}

	var event model2.WidgetEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := event.ValidateWidgetEvent(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := a.onboarding.VerificationEvent(middleware.Session(c), id, event.Event, event.Payload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "state": state})
}

func (a Api) RetryVerification(c *gin.Context) {
	id, ok := routeParam(c, "id")
	if !ok {
		return
	}

	state, err := a.onboarding.RetryVerification(c.Request.Context(), middleware.Session(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "state": state})
}

func (a Api) SetVerificationAutoStart(c *gin.Context) {
	id, ok := routeParam(c, "id")
	if !ok {
		return
	}

	var update model2.UpdateAutoStart
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := update.ValidateUpdateAutoStart(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := a.onboarding.SetVerificationAutoStart(c.Request.Context(), middleware.Session(c), id, *update.AutoStart)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "state": state})
}

func (a Api) CreateWidgetToken(c *gin.Context) {
	var req model2.CreateWidgetToken
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateCreateWidgetToken(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := a.onboarding.WidgetToken(c.Request.Context(), middleware.Session(c), req.UserID, req.LevelName, req.TTL())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, token)
}

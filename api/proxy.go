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
	model2 "github.com/reap-finance/onboarding/api/model"
	"github.com/reap-finance/onboarding/api/middleware"
)

// ProxyCompliance forwards a browser call to the compliance service with the session's key.
// GET takes the endpoint from the query string; POST reads {endpoint, method, data}.
func (a Api) ProxyCompliance(c *gin.Context) {
	req := model2.ProxyRequest{Endpoint: c.Query("endpoint"), Method: http.MethodGet}
	if c.Request.Method == http.MethodPost {
		var body model2.ProxyRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if body.Endpoint == "" {
			body.Endpoint = req.Endpoint
		}
		req = body
	}

	if err := req.ValidateProxyRequest(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := a.onboarding.Proxy(c.Request.Context(), middleware.Session(c), req.ToProxyRequest())
	if err != nil {
		respondError(c, err)
		return
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.Status, contentType, resp.Body)
}

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
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	model2 "github.com/reap-finance/onboarding/api/model"
	"github.com/sirupsen/logrus"
)

const streamWriteTimeout = 5 * time.Second

// streamMessage is what a stream subscriber receives for every webhook.
type streamMessage struct {
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a Api) ReceiveWebhook(c *gin.Context) {
	var hook model2.Webhook
	if err := c.ShouldBindJSON(&hook); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	if _, err := a.onboarding.ReceiveWebhook(c.Request.Context(), hook.Message); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a Api) GetWebhooks(c *gin.Context) {
	c.JSON(http.StatusOK, a.onboarding.RecentWebhooks())
}

// StreamWebhooks upgrades to a WebSocket and pushes every webhook received from now on until
// the client goes away.
func (a Api) StreamWebhooks(c *gin.Context) {
	opts := &websocket.AcceptOptions{}
	if origin := appOrigin(a.onboarding.Config().App.BaseURL); origin != "" {
		opts.OriginPatterns = []string{origin}
	}
	conn, err := websocket.Accept(c.Writer, c.Request, opts)
	if err != nil {
		logrus.WithError(err).Warn("webhook stream upgrade failed")
		return
	}
	defer conn.CloseNow()

	sub := a.onboarding.SubscribeWebhooks()
	defer sub.Close()

	ctx := conn.CloseRead(c.Request.Context())
	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return
		case record, ok := <-sub.C:
			if !ok {
				_ = conn.Close(websocket.StatusNormalClosure, "closed")
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
			err := wsjson.Write(writeCtx, conn, streamMessage{Message: record.Message, CreatedAt: record.CreatedAt})
			cancel()
			if err != nil {
				_ = conn.Close(websocket.StatusNormalClosure, "write_failed")
				return
			}
		}
	}
}

// appOrigin returns the host of the frontend URL, the only cross-origin page allowed to
// open a stream.
func appOrigin(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return u.Host
}

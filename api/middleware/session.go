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

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reap-finance/onboarding"
)

const (
	// SessionCookie holds the opaque session id issued by the server.
	SessionCookie = "onboarding_session"
	// SessionHeader lets non-browser clients pass the session id explicitly.
	SessionHeader = "X-Session-Id"

	sessionContextKey = "onboarding.session"
)

// SessionMiddleware attaches the caller's server-side session to the request. Unknown or
// expired ids get a fresh session; the id the client sent is never adopted.
func SessionMiddleware(store *onboarding.SessionStore, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			id, _ = c.Cookie(SessionCookie)
		}

		session, created := store.GetOrCreate(id)
		if created || id != session.ID {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, session.ID, 0, "/", "", secure, true)
		}
		c.Header(SessionHeader, session.ID)
		c.Set(sessionContextKey, session)

		c.Next()
	}
}

// Session returns the session attached by SessionMiddleware, or nil outside of it.
func Session(c *gin.Context) *onboarding.Session {
	value, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	session, _ := value.(*onboarding.Session)
	return session
}

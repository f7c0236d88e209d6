package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	model2 "github.com/reap-finance/onboarding/api/model"
	"github.com/reap-finance/onboarding/api/middleware"
	"github.com/reap-finance/onboarding/internal/apierror"
)

func (a Api) GetSessionKey(c *gin.Context) {
	c.JSON(http.StatusOK, a.onboarding.SessionKey(middleware.Session(c)))
}

func (a Api) UpdateSessionKey(c *gin.Context) {
	var update model2.UpdateSessionKey
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := update.ValidateUpdateSessionKey(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := a.onboarding.UpdateSessionKey(middleware.Session(c), update.ToSessionKeyUpdate())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": errorMessage(err), "key": view})
		return
	}

	c.JSON(http.StatusOK, view)
}

func (a Api) ClearSessionKey(c *gin.Context) {
	c.JSON(http.StatusOK, a.onboarding.ClearSessionKey(middleware.Session(c)))
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	model2 "github.com/reap-finance/onboarding/api/model"
	"github.com/reap-finance/onboarding/api/middleware"
)

func (a Api) GetNotifications(c *gin.Context) {
	resp, err := a.onboarding.ListNotifications(c.Request.Context(), middleware.Session(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) CreateNotification(c *gin.Context) {
	var newNotification model2.CreateNotification
	if err := c.ShouldBindJSON(&newNotification); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := newNotification.ValidateCreateNotification(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := a.onboarding.CreateNotification(c.Request.Context(), middleware.Session(c), newNotification.ToCreateNotification())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) DeleteNotification(c *gin.Context) {
	id, ok := routeParam(c, "id")
	if !ok {
		return
	}

	resp, err := a.onboarding.DeleteNotification(c.Request.Context(), middleware.Session(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reap-finance/onboarding"
	"github.com/reap-finance/onboarding/api/middleware"
	"github.com/reap-finance/onboarding/internal/apierror"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type Api struct {
	onboarding *onboarding.Onboarding
	router     *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router

	// Server-to-server: the compliance service posts here.
	hooks := router.Group("/api/webhook")
	if a.onboarding.Config().Server.Secure {
		hooks.POST("", middleware.SecretKeyAuthMiddleware(), a.ReceiveWebhook)
	} else {
		hooks.POST("", a.ReceiveWebhook)
	}
	hooks.GET("", a.GetWebhooks)
	hooks.GET("/stream", a.StreamWebhooks)

	browser := router.Group("/api", middleware.SessionMiddleware(a.onboarding.Sessions(), a.onboarding.Config().Server.SSL))

	browser.GET("/compliance", a.ProxyCompliance)
	browser.POST("/compliance", a.ProxyCompliance)

	browser.GET("/session/api-key", a.GetSessionKey)
	browser.PUT("/session/api-key", a.UpdateSessionKey)
	browser.DELETE("/session/api-key", a.ClearSessionKey)

	browser.POST("/verifications", a.StartVerification)
	browser.GET("/verifications", a.GetVerifications)
	browser.GET("/verifications/:id", a.GetVerification)
	browser.POST("/verifications/:id/events", a.VerificationEvent)
	browser.POST("/verifications/:id/retry", a.RetryVerification)
	browser.PUT("/verifications/:id/auto-start", a.SetVerificationAutoStart)

	browser.POST("/entities", a.CreateEntity)
	browser.GET("/entities", a.GetAllEntities)
	browser.GET("/entities/:id", a.GetEntity)
	browser.DELETE("/entities/:id", a.DeleteEntity)
	browser.GET("/entities/:id/members", a.GetMembers)
	browser.POST("/entities/:id/members", a.CreateMember)
	browser.DELETE("/entities/:id/members/:member_id", a.DeleteMember)
	browser.POST("/entities/:id/requirements/:slug/upload", a.UploadRequirement)
	browser.POST("/entities/:id/requirements/:slug/presigned-upload", a.PresignedUploadRequirement)

	browser.GET("/features", a.GetAllFeatures)
	browser.GET("/features/:id/requirements", a.GetFeatureRequirements)

	browser.GET("/notifications", a.GetNotifications)
	browser.POST("/notifications", a.CreateNotification)
	browser.DELETE("/notifications/:id", a.DeleteNotification)

	browser.POST("/sumsub/token", a.CreateWidgetToken)

	return a.router
}

func NewAPI(o *onboarding.Onboarding) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf := o.Config()
	r := gin.Default()
	r.Use(otelgin.Middleware(conf.ProjectName))
	r.Use(middleware.RateLimitMiddleware(conf))

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{onboarding: o, router: r}
}

// respondError answers with the status mapped from err and an {error} body.
func respondError(c *gin.Context, err error) {
	c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": errorMessage(err)})
}

func errorMessage(err error) string {
	var apiErr apierror.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func routeParam(c *gin.Context, name string) (string, bool) {
	value := c.Param(name)
	if value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required. pass " + name + " in the route /:" + name})
		return "", false
	}
	return value, true
}

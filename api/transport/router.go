package transport

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Monmon-1020/CampusFlow/auth"
	"github.com/Monmon-1020/CampusFlow/logging"
)

func NewRouter(ginMode string) *gin.Engine {
	gin.SetMode(ginMode)
	engine := gin.New()
	engine.Use(CORSMiddleware())

	//Bypass swagger for non-local
	if os.Getenv("APP_ENV") == "local" {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	engine.NoRoute(NoRouteHandler())

	return engine
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, x-user-id, x-stream-role")

		if c.Request.Method == "OPTIONS" {
			logging.Log.Infof("OPTIONS request received:%s", c.Request.URL.Path)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func NoRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logging.Log.Infof("No routed request received for:%s", c.Request.URL.Path)
		c.JSON(http.StatusNotFound, gin.H{"code": "PAGE_NOT_FOUND", "message": "Page not found"})
	}
}

// IdentityMiddleware trusts the authenticated identity the upstream gateway
// injects as headers. Requests without a user id never reach the engine.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(auth.UserIDHeader)
		if userID == "" {
			logging.Log.Warnf("AUTH: unauthenticated request to %s", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		c.Set("userID", userID)
		c.Set("streamRole", c.GetHeader(auth.StreamRoleHeader))
		c.Next()
	}
}

// UserID returns the authenticated caller set by IdentityMiddleware.
func UserID(c *gin.Context) string {
	return c.GetString("userID")
}

// StreamRole returns the caller's role in the stream, as asserted by the
// identity provider.
func StreamRole(c *gin.Context) string {
	return c.GetString("streamRole")
}

package middleware

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS answers pre-flight OPTIONS requests permissively; the endpoint is
// called from arbitrary embedding origins. Pre-flight answers 200 with an
// empty body, not the library's default 204.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:              []string{"Authorization", "Content-Type", "X-Requested-With"},
		OptionsResponseStatusCode: http.StatusOK,
	})
}

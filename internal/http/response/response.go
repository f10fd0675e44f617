package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondError writes the flat error shape the chat UI expects:
// {"error": "..."}.
func RespondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

package utils

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const genericServerError = "An unexpected error occurred. Please try again later."

// SendJSONError aborts the request with {"error": publicMsg, "details": ...} and logs
// internalError. 5xx responses never echo an internal error message back to the client.
func SendJSONError(c *gin.Context, statusCode int, publicMsg string, internalError error, details ...string) {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}

	if internalError != nil {
		log.Printf("ERROR: [API] status=%d path=%s public='%s' internal='%v' details='%s'",
			statusCode, c.Request.URL.Path, publicMsg, internalError, detail)
	} else {
		log.Printf("INFO: [API] status=%d path=%s public='%s' details='%s'",
			statusCode, c.Request.URL.Path, publicMsg, detail)
	}

	if statusCode >= http.StatusInternalServerError {
		if publicMsg == "" || (internalError != nil && publicMsg == internalError.Error()) {
			publicMsg = genericServerError
		}
	}

	response := gin.H{"error": publicMsg}
	if detail != "" {
		response["details"] = detail
	}
	c.AbortWithStatusJSON(statusCode, response)
}

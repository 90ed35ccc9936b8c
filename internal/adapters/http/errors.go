package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/http/dto"
)

// notFound answers requests that match no route.
func notFound(c *gin.Context) {
	dto.Write(c, http.StatusNotFound, dto.NewFailure(dto.ErrorCodeNotFound, dto.MessageNotFound, nil))
}

// methodNotAllowed answers requests whose path exists under another method.
func methodNotAllowed(c *gin.Context) {
	dto.Write(c, http.StatusMethodNotAllowed,
		dto.NewFailure(dto.ErrorCodeMethodNotAllowed, dto.MessageMethodNotAllowed, nil))
}

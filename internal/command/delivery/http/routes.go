package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps the command API under the given router group.
func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	rg.POST("/commands", h.Process)
}

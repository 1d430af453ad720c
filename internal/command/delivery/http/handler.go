package http

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agenda-assistant/internal/command"
	"agenda-assistant/internal/model"
	"agenda-assistant/pkg/response"
)

// Process godoc
// @Summary     Process a natural-language calendar command
// @Description Interprets an Italian command and executes the resulting calendar actions.
// @Tags        Command
// @Accept      json
// @Produce     json
// @Param       body body processReq true "Command payload"
// @Success     200 {object} processResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/commands [POST]
func (h *handler) Process(c *gin.Context) {
	ctx := c.Request.Context()

	var req processReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err, nil)
		return
	}

	// Anonymous callers get a throwaway session so they never share
	// conversational context with each other.
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = "api_" + uuid.NewString()
	}

	sc := model.NewScope(sessionID, req.UserID, req.Username)

	output, err := h.uc.Process(ctx, sc, req.toInput())
	if err != nil {
		if err == command.ErrEmptyCommand {
			response.Error(c, err, nil)
			return
		}
		h.l.Errorf(ctx, "command.delivery.http.Process: %v", err)
		response.InternalError(c, err)
		return
	}

	response.OK(c, h.newProcessResp(output))
}

package response

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/docqa-backend/internal/platform/apierr"
)

// RespondAPIError maps a service error onto the error envelope. Only apierr messages
// meant for clients are exposed; 5xx causes stay in the logs.
func RespondAPIError(c *gin.Context, err error) {
	status, code := apierr.StatusOf(err)
	_ = c.Error(err)
	RespondError(c, status, code, errors.New(apierr.PublicMessage(err)))
}

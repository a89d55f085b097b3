// Package responses renders handler outcomes in the gateway's error envelope.
package responses

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/jan-agent-gateway/internal/utils/platformerrors"
)

// ErrorResponse documents the error envelope for swagger.
type ErrorResponse = platformerrors.HTTPErrorResponse

// HandleError renders err. Errors that carry no platform type are reported as
// internal failures described by message.
func HandleError(c *gin.Context, log zerolog.Logger, err error, message string) {
	if platformerrors.GetPlatformError(err) == nil {
		err = platformerrors.NewError(requestContext(c), platformerrors.LayerHandler, platformerrors.ErrorTypeInternal, message, err)
	}
	platformerrors.WriteError(c, err, log)
}

// HandleNewError renders a fresh error of the given type.
func HandleNewError(c *gin.Context, log zerolog.Logger, errorType platformerrors.ErrorType, message string) {
	platformerrors.WriteHTTPError(c, platformerrors.NewError(requestContext(c), platformerrors.LayerHandler, errorType, message, nil), log)
}

func requestContext(c *gin.Context) context.Context {
	if c.Request == nil {
		return context.Background()
	}
	return c.Request.Context()
}

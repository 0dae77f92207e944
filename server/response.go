package server

import (
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/trustauth/errors"
	"github.com/kbukum/trustauth/validation"
)

// DataResponse is the standard success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// RespondWithError writes err's AppError body and status; anything else
// becomes a generic 500.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.Internal(err)
	}
	if appErr.HTTPStatus == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

// RespondCreated sends a 201 response wrapping data.
func RespondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, DataResponse{Data: data})
}

// BindJSON decodes the request body into dst and validates it. On failure
// it has already responded and returns false.
func BindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case stderrors.As(err, &maxErr):
			RespondWithError(c, errors.New(errors.ErrCodeInvalidInput, "Request body too large.", http.StatusRequestEntityTooLarge))
		case stderrors.Is(err, io.EOF):
			RespondWithError(c, errors.Validation("Request body is required."))
		default:
			RespondWithError(c, errors.Validation("Request body is not valid JSON.").WithCause(err))
		}
		return false
	}
	if err := validation.Validate(dst); err != nil {
		RespondWithError(c, err)
		return false
	}
	return true
}

package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/apperrors"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Code:    apperrors.Code(err),
		Data:    errorData(err),
	})
}

// RespondAppError picks the status from the error taxonomy. Internal failures are logged and
// their details hidden from the caller.
func RespondAppError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= 500 {
		ErrorLogger.WithFields(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Errorf("request failed: %v", err)
		c.JSON(status, JSONResponse{
			Status:  false,
			Message: "internal server error",
			Code:    apperrors.CodeInternal,
		})
		return
	}
	RespondError(c, status, err)
}

func errorData(err error) interface{} {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return gin.H{"fields": verr.Fields}
	}
	return nil
}

package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/apperrors"
	"github.com/yeremiapane/tablemate/utils"
	"github.com/yeremiapane/tablemate/validation"
)

// bindJSON decodes the request body into form, answering 400 itself on failure.
func bindJSON(c *gin.Context, form interface{}) bool {
	if err := c.ShouldBindJSON(form); err != nil {
		utils.RespondAppError(c, validation.FromBindError(err))
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(key, "must be a whole number")
	}
	return v, nil
}

// queryTime accepts RFC 3339 timestamps or plain dates, the latter in loc.
func queryTime(c *gin.Context, key string, loc *time.Location) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return &t, nil
	}
	return nil, apperrors.NewValidationError(key, "must be a date (2006-01-02) or RFC 3339 timestamp")
}

func uintParam(c *gin.Context, key string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(key), 10, 32)
	if err != nil {
		return 0, apperrors.NewValidationError(key, "must be a positive number")
	}
	return uint(v), nil
}

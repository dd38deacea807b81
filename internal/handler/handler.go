// Package handler holds helpers shared by the resource handlers.
package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/apper-apps/mediconnect-code/pkg/errors"
	"github.com/apper-apps/mediconnect-code/pkg/httputil"
	"github.com/apper-apps/mediconnect-code/pkg/validator"
)

// ParseID reads a positive integer path parameter. On failure it writes a
// 400 response and returns false.
func ParseID(c *gin.Context, param string) (int, bool) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil || id <= 0 {
		httputil.RespondWithError(c, apperrors.NewBadRequest(fmt.Sprintf("invalid %s", param), err))
		return 0, false
	}
	return id, true
}

// BindJSON decodes and validates the request body, answering 400 on failure.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(validator.Message(err), err))
		return false
	}
	return true
}

// BindQuery is BindJSON for query strings.
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(validator.Message(err), err))
		return false
	}
	return true
}

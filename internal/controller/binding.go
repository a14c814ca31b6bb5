package controller

import (
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes the request body into req and answers 400 with
// per-field messages when it does not validate.
func bindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		util.HandleError(ctx, util.Validation("Validation failed", validation.ToDetails(err)))
		return false
	}
	return true
}

func bindQuery(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindQuery(req); err != nil {
		util.HandleError(ctx, util.Validation("Invalid query parameters", validation.ToDetails(err)))
		return false
	}
	return true
}

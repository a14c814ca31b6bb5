package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	StorageService *service.StorageService
}

func NewUploadController(storageService *service.StorageService) *UploadController {
	return &UploadController{StorageService: storageService}
}

// UploadCourseImage godoc
// @Summary Upload a course image
// @Description Stores an image (max 5MB) and returns its URL for use as imageUrl.
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "Image file"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /courses/images [post]
func (c *UploadController) UploadCourseImage(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		util.HandleError(ctx, util.Validation("Validation failed", map[string]string{"file": "is required"}))
		return
	}

	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	url, err := c.StorageService.UploadImage(ctx.Request.Context(), file, header.Size)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, "Image uploaded successfully", gin.H{"url": url})
}

package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

// AddLesson godoc
// @Summary Add a lesson
// @Description Appends a lesson to the course. Lesson ids are unique within a course.
// @Tags lessons
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Param body body service.LessonInput true "Lesson"
// @Success 201 {object} util.Response{data=service.CourseView}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /courses/{id}/lessons [post]
func (c *LessonController) AddLesson(ctx *gin.Context) {
	var req service.LessonInput
	if !bindJSON(ctx, &req) {
		return
	}

	view, err := c.LessonService.AddLesson(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, "Lesson added successfully", view)
}

// UpdateLesson godoc
// @Summary Update a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Param lessonId path string true "Lesson ID"
// @Param body body service.UpdateLessonInput true "Fields to change"
// @Success 200 {object} util.Response{data=service.CourseView}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /courses/{id}/lessons/{lessonId} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	var req service.UpdateLessonInput
	if !bindJSON(ctx, &req) {
		return
	}

	view, err := c.LessonService.UpdateLesson(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"), ctx.Param("lessonId"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, "Lesson updated successfully", view)
}

// DeleteLesson godoc
// @Summary Delete a lesson
// @Tags lessons
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} util.Response{data=service.CourseView}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /courses/{id}/lessons/{lessonId} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	view, err := c.LessonService.DeleteLesson(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"), ctx.Param("lessonId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, "Lesson deleted successfully", view)
}

package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// Enroll godoc
// @Summary Enroll in a course
// @Description Only published courses accept enrollments.
// @Tags enrollments
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "Course not published"
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "Already enrolled"
// @Router /courses/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	enrollment, err := c.EnrollmentService.Enroll(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, "Successfully enrolled in course", gin.H{
		"courseId":   enrollment.CourseID,
		"enrolledAt": enrollment.EnrolledAt,
	})
}

// Unenroll godoc
// @Summary Leave a course
// @Tags enrollments
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "Not enrolled"
// @Failure 404 {object} util.Response
// @Router /courses/{id}/enroll [delete]
func (c *EnrollmentController) Unenroll(ctx *gin.Context) {
	if err := c.EnrollmentService.Unenroll(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, "Successfully unenrolled from course", nil)
}

// CompleteLesson godoc
// @Summary Mark a lesson completed
// @Description Records the lesson as completed for the current user and returns the updated progress. Repeating the call is harmless.
// @Tags enrollments
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} util.Response{data=service.ProgressView}
// @Failure 400 {object} util.Response "Not enrolled"
// @Failure 404 {object} util.Response
// @Router /courses/{id}/lessons/{lessonId}/complete [post]
func (c *EnrollmentController) CompleteLesson(ctx *gin.Context) {
	progress, err := c.EnrollmentService.CompleteLesson(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"), ctx.Param("lessonId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, "Lesson marked as completed", progress)
}

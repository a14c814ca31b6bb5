package controller

import (
	"strconv"

	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// ListCoursesQuery holds the listing query string.
type ListCoursesQuery struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	Limit      int    `form:"limit" binding:"omitempty,min=1"`
	Search     string `form:"search" binding:"omitempty,max=200"`
	Category   string `form:"category" binding:"omitempty,max=100"`
	Difficulty string `form:"difficulty" binding:"omitempty,oneof=all Beginner Intermediate Advanced"`
	Published  string `form:"published" binding:"omitempty,oneof=true false"`
}

// ListCourses godoc
// @Summary List courses
// @Description Courses visible to the current user, newest first. Users see published courses and those they are enrolled in, managers also see their own drafts, admins see everything.
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (max 100)" default(10)
// @Param search query string false "Case-insensitive substring of the title"
// @Param category query string false "Exact category, or all"
// @Param difficulty query string false "Beginner, Intermediate, Advanced or all"
// @Param published query bool false "Filter by published flag"
// @Success 200 {object} util.Response{data=[]service.CourseView,pagination=util.Pagination}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	var q ListCoursesQuery
	if !bindQuery(ctx, &q) {
		return
	}

	query := service.CourseQuery{
		Page:       q.Page,
		Limit:      q.Limit,
		Search:     q.Search,
		Category:   q.Category,
		Difficulty: q.Difficulty,
	}
	if q.Published != "" {
		published, _ := strconv.ParseBool(q.Published)
		query.Published = &published
	}

	page, err := c.CourseService.ListCourses(ctx.Request.Context(), util.GetUserFromContext(ctx), query)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Paged(ctx, "Courses retrieved successfully", page.Courses, page.Pagination)
}

// GetCourse godoc
// @Summary Get a course
// @Description Full course with lessons. Unpublished courses are only shown to admins, their creator and enrolled users.
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Success 200 {object} util.Response{data=service.CourseView}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	view, err := c.CourseService.GetCourse(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, "Course retrieved successfully", view)
}

// CreateCourse godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateCourseInput true "Course"
// @Success 201 {object} util.Response{data=service.CourseView}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 409 {object} util.Response "Duplicate title for this creator"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req service.CreateCourseInput
	if !bindJSON(ctx, &req) {
		return
	}

	view, err := c.CourseService.CreateCourse(ctx.Request.Context(), util.GetUserFromContext(ctx), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, "Course created successfully", view)
}

// UpdateCourse godoc
// @Summary Update a course
// @Description Partial update. Only the creator or an admin may edit; only admins and managers may change isPublished.
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Param body body service.UpdateCourseInput true "Fields to change"
// @Success 200 {object} util.Response{data=service.CourseView}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	var req service.UpdateCourseInput
	if !bindJSON(ctx, &req) {
		return
	}

	view, err := c.CourseService.UpdateCourse(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, "Course updated successfully", view)
}

// DeleteCourse godoc
// @Summary Delete a course
// @Description Removes the course and every enrollment in it.
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	if err := c.CourseService.DeleteCourse(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, "Course deleted successfully", nil)
}

// PublishAll godoc
// @Summary Publish all authored courses
// @Description Publishes every course created by an admin or manager.
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Failure 403 {object} util.Response
// @Router /courses/admin/publish-all [post]
func (c *CourseController) PublishAll(ctx *gin.Context) {
	n, err := c.CourseService.PublishAllAuthored(ctx.Request.Context(), util.GetUserFromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, "Courses published successfully", gin.H{"modifiedCount": n})
}

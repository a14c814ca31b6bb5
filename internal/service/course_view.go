package service

import (
	"time"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/policy"
)

// CreatorSummary is the part of a course's creator shown to viewers.
type CreatorSummary struct {
	ID       string         `json:"id"`
	Username string         `json:"username"`
	Email    string         `json:"email,omitempty"`
	Role     model.UserRole `json:"role"`
}

// ProgressView is the viewer's own progress in a course.
type ProgressView struct {
	CompletedLessons     []model.LessonCompletion `json:"completedLessons"`
	CompletionPercentage float64                  `json:"completionPercentage"`
	EnrolledAt           time.Time                `json:"enrolledAt"`
	LastAccessedAt       *time.Time               `json:"lastAccessedAt,omitempty"`
}

// CourseView is a course as one particular viewer sees it. IsEnrolled,
// CanEdit and UserProgress are relative to that viewer and exist only here.
// swagger:model CourseView
type CourseView struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	ImageURL          string           `json:"imageUrl"`
	Category          string           `json:"category"`
	Difficulty        model.Difficulty `json:"difficulty"`
	Tags              []string         `json:"tags"`
	Price             float64          `json:"price"`
	EstimatedDuration float64          `json:"estimatedDuration"`
	IsPublished       bool             `json:"isPublished"`
	CreatedBy         *CreatorSummary  `json:"createdBy,omitempty"`
	LessonCount       int              `json:"lessonCount"`
	Lessons           *[]model.Lesson  `json:"lessons,omitempty"`
	EnrolledCount     int64            `json:"enrolledCount"`
	IsEnrolled        bool             `json:"isEnrolled"`
	CanEdit           bool             `json:"canEdit"`
	UserProgress      *ProgressView    `json:"userProgress,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

type viewKind int

const (
	summaryView viewKind = iota
	detailView
)

// buildCourseView projects c for viewer. enrollment is the viewer's own
// enrollment in c, or nil. The course is never modified.
func buildCourseView(c *model.Course, viewer policy.Viewer, enrollment *model.Enrollment, enrolledCount int64, kind viewKind) CourseView {
	enrolled := enrollment != nil
	view := CourseView{
		ID:                c.ID,
		Title:             c.Title,
		Description:       c.Description,
		ImageURL:          c.ImageURL,
		Category:          c.Category,
		Difficulty:        c.Difficulty,
		Tags:              append([]string{}, c.Tags...),
		Price:             c.Price,
		EstimatedDuration: c.EstimatedDuration,
		IsPublished:       c.IsPublished,
		LessonCount:       len(c.Lessons),
		EnrolledCount:     enrolledCount,
		IsEnrolled:        enrolled,
		CanEdit:           policy.CanEdit(viewer, c),
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}

	if c.CreatedBy != nil {
		view.CreatedBy = &CreatorSummary{
			ID:       c.CreatedBy.ID,
			Username: c.CreatedBy.Username,
			Role:     c.CreatedBy.Role,
		}
		if kind == detailView {
			view.CreatedBy.Email = c.CreatedBy.Email
		}
	}

	if kind == detailView || policy.CanSeeLessons(viewer, enrolled) {
		lessons := make([]model.Lesson, len(c.Lessons))
		copy(lessons, c.Lessons)
		view.Lessons = &lessons
	}

	if kind == detailView && enrolled {
		view.UserProgress = progressOf(enrollment, c.Lessons)
	}
	return view
}

// progressOf reports progress against the course's current lessons, so
// markers for removed lessons do not count.
func progressOf(e *model.Enrollment, lessons []model.Lesson) *ProgressView {
	snapshot := *e
	snapshot.CompletedLessons = append(snapshot.CompletedLessons[:0:0], e.CompletedLessons...)
	snapshot.RecomputeProgress(lessons)

	completed := []model.LessonCompletion(snapshot.CompletedLessons)
	if completed == nil {
		completed = []model.LessonCompletion{}
	}
	return &ProgressView{
		CompletedLessons:     completed,
		CompletionPercentage: snapshot.CompletionPercentage,
		EnrolledAt:           e.EnrolledAt,
		LastAccessedAt:       e.LastAccessedAt,
	}
}

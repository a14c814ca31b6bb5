package service

import (
	"context"
	"strings"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/policy"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// LessonInput is a complete lesson as supplied by its author.
// swagger:model LessonInput
type LessonInput struct {
	ID              string   `json:"id" binding:"required,notblank,max=100"`
	Title           string   `json:"title" binding:"required,notblank,max=200"`
	Materials       []string `json:"materials" binding:"required,min=1,dive,notblank"`
	Topics          []string `json:"topics" binding:"required,min=1,dive,notblank"`
	SubjectCategory string   `json:"subjectCategory" binding:"required,notblank,max=100"`
	Duration        int      `json:"duration" binding:"gte=0"`
	VideoURL        string   `json:"videoUrl" binding:"omitempty,httpurl"`
}

func (in LessonInput) toLesson() model.Lesson {
	return model.Lesson{
		ID:              strings.TrimSpace(in.ID),
		Title:           strings.TrimSpace(in.Title),
		Materials:       trimAll(in.Materials),
		Topics:          trimAll(in.Topics),
		SubjectCategory: strings.TrimSpace(in.SubjectCategory),
		Duration:        in.Duration,
		VideoURL:        in.VideoURL,
	}
}

// UpdateLessonInput changes the non-nil fields of a lesson. The lesson id
// cannot be changed.
// swagger:model UpdateLessonInput
type UpdateLessonInput struct {
	Title           *string   `json:"title" binding:"omitnil,notblank,max=200"`
	Materials       *[]string `json:"materials" binding:"omitnil,min=1,dive,notblank"`
	Topics          *[]string `json:"topics" binding:"omitnil,min=1,dive,notblank"`
	SubjectCategory *string   `json:"subjectCategory" binding:"omitnil,notblank,max=100"`
	Duration        *int      `json:"duration" binding:"omitempty,gte=0"`
	VideoURL        *string   `json:"videoUrl" binding:"omitempty,httpurl"`
}

type LessonService struct {
	Courses *CourseService
}

func NewLessonService(courses *CourseService) *LessonService {
	return &LessonService{Courses: courses}
}

var errLessonEditDenied = util.Forbiddenf("Access denied. You can only edit lessons in your own courses.")

// AddLesson appends a lesson. A lesson id already present in the course is
// a Conflict and leaves the lessons unchanged.
func (s *LessonService) AddLesson(ctx context.Context, actor *model.User, courseID string, in LessonInput) (view *CourseView, err error) {
	ctx, span := tracing.Start(ctx, "LessonService.AddLesson", attribute.String("course.id", courseID))
	defer func() { tracing.End(span, err) }()

	lesson := in.toLesson()
	v := policy.ViewerOf(actor)
	denied := util.Forbiddenf("Access denied. You can only add lessons to your own courses.")
	course, err := s.Courses.mutateCourse(ctx, v, courseID, "lesson_add", denied, func(_ *gorm.DB, c *model.Course) error {
		if c.LessonIndex(lesson.ID) >= 0 {
			return util.ErrDuplicateLesson
		}
		c.Lessons = append(c.Lessons, lesson)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Courses.viewAfterMutation(ctx, v, course.ID)
}

func (s *LessonService) UpdateLesson(ctx context.Context, actor *model.User, courseID, lessonID string, in UpdateLessonInput) (view *CourseView, err error) {
	ctx, span := tracing.Start(ctx, "LessonService.UpdateLesson", attribute.String("course.id", courseID))
	defer func() { tracing.End(span, err) }()

	v := policy.ViewerOf(actor)
	course, err := s.Courses.mutateCourse(ctx, v, courseID, "lesson_update", errLessonEditDenied, func(_ *gorm.DB, c *model.Course) error {
		i := c.LessonIndex(lessonID)
		if i < 0 {
			return util.ErrLessonNotFound
		}
		l := &c.Lessons[i]
		if in.Title != nil {
			l.Title = strings.TrimSpace(*in.Title)
		}
		if in.Materials != nil {
			l.Materials = trimAll(*in.Materials)
		}
		if in.Topics != nil {
			l.Topics = trimAll(*in.Topics)
		}
		if in.SubjectCategory != nil {
			l.SubjectCategory = strings.TrimSpace(*in.SubjectCategory)
		}
		if in.Duration != nil {
			l.Duration = *in.Duration
		}
		if in.VideoURL != nil {
			l.VideoURL = *in.VideoURL
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Courses.viewAfterMutation(ctx, v, course.ID)
}

// DeleteLesson removes a lesson, keeping the order of the others.
func (s *LessonService) DeleteLesson(ctx context.Context, actor *model.User, courseID, lessonID string) (view *CourseView, err error) {
	ctx, span := tracing.Start(ctx, "LessonService.DeleteLesson", attribute.String("course.id", courseID))
	defer func() { tracing.End(span, err) }()

	v := policy.ViewerOf(actor)
	course, err := s.Courses.mutateCourse(ctx, v, courseID, "lesson_delete", errLessonEditDenied, func(_ *gorm.DB, c *model.Course) error {
		i := c.LessonIndex(lessonID)
		if i < 0 {
			return util.ErrLessonNotFound
		}
		c.Lessons = append(c.Lessons[:i], c.Lessons[i+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Courses.viewAfterMutation(ctx, v, course.ID)
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, strings.TrimSpace(it))
	}
	return out
}

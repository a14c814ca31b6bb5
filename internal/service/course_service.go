package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/policy"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/monitoring"
	"learnhub_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseQuery is a listing request. Zero Page and Limit take the defaults.
type CourseQuery struct {
	Page       int
	Limit      int
	Search     string
	Category   string
	Difficulty string
	Published  *bool
}

func (q *CourseQuery) normalize() {
	if q.Page < 1 {
		q.Page = util.DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = util.DefaultLimit
	}
	if q.Limit > util.MaxLimit {
		q.Limit = util.MaxLimit
	}
	q.Search = strings.TrimSpace(q.Search)
}

type CoursePage struct {
	Courses    []CourseView
	Pagination *util.Pagination
}

// CreateCourseInput is the body of a course creation request.
// swagger:model CreateCourseInput
type CreateCourseInput struct {
	Title       string           `json:"title" binding:"required,notblank,max=200"`
	Description string           `json:"description" binding:"required,notblank,max=1000"`
	ImageURL    string           `json:"imageUrl" binding:"required,httpurl"`
	Category    string           `json:"category" binding:"omitempty,max=100"`
	Difficulty  model.Difficulty `json:"difficulty" binding:"omitempty,oneof=Beginner Intermediate Advanced"`
	Tags        []string         `json:"tags" binding:"omitempty,dive,required,notblank,max=50"`
	Price       float64          `json:"price" binding:"gte=0"`
	IsPublished *bool            `json:"isPublished"`
	Lessons     []LessonInput    `json:"lessons" binding:"omitempty,dive"`
	// EstimatedDuration is accepted for compatibility and ignored; it is
	// always derived from the lessons.
	EstimatedDuration *float64 `json:"estimatedDuration" swaggerignore:"true"`
}

// UpdateCourseInput is a partial update; nil fields are left unchanged.
// swagger:model UpdateCourseInput
type UpdateCourseInput struct {
	Title             *string           `json:"title" binding:"omitnil,notblank,max=200"`
	Description       *string           `json:"description" binding:"omitnil,notblank,max=1000"`
	ImageURL          *string           `json:"imageUrl" binding:"omitempty,httpurl"`
	Category          *string           `json:"category" binding:"omitempty,max=100"`
	Difficulty        *model.Difficulty `json:"difficulty" binding:"omitempty,oneof=Beginner Intermediate Advanced"`
	Tags              *[]string         `json:"tags" binding:"omitempty,dive,required,notblank,max=50"`
	Price             *float64          `json:"price" binding:"omitempty,gte=0"`
	IsPublished       *bool             `json:"isPublished"`
	EstimatedDuration *float64          `json:"estimatedDuration" swaggerignore:"true"`
}

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// ListCourses returns the page of courses viewer may see in listings, each
// annotated for the viewer.
func (s *CourseService) ListCourses(ctx context.Context, viewer *model.User, q CourseQuery) (page *CoursePage, err error) {
	ctx, span := tracing.Start(ctx, "CourseService.ListCourses")
	defer func() { tracing.End(span, err) }()

	q.normalize()
	v := policy.ViewerOf(viewer)
	filter := repository.CourseFilter{
		Search:     q.Search,
		Category:   q.Category,
		Difficulty: q.Difficulty,
		Published:  q.Published,
	}

	courses, total, err := s.CourseRepo.List(ctx, policy.ListVisibility(v), filter, q.Page, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	ids := make([]string, len(courses))
	for i := range courses {
		ids[i] = courses[i].ID
	}
	mine, err := s.EnrollmentRepo.FindForCourses(ctx, v.ID, ids)
	if err != nil {
		return nil, fmt.Errorf("load enrollments: %w", err)
	}
	counts, err := s.EnrollmentRepo.CountByCourses(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}

	views := make([]CourseView, 0, len(courses))
	for i := range courses {
		c := &courses[i]
		views = append(views, buildCourseView(c, v, mine[c.ID], counts[c.ID], summaryView))
	}
	span.SetAttributes(attribute.Int64("courses.total", total))

	return &CoursePage{
		Courses:    views,
		Pagination: util.NewPagination(q.Page, q.Limit, total),
	}, nil
}

// GetCourse returns one course if viewer passes the access gate. A course
// that exists but is closed to the viewer is Forbidden, never NotFound.
func (s *CourseService) GetCourse(ctx context.Context, viewer *model.User, id string) (view *CourseView, err error) {
	ctx, span := tracing.Start(ctx, "CourseService.GetCourse", attribute.String("course.id", id))
	defer func() { tracing.End(span, err) }()

	course, err := s.findCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	v := policy.ViewerOf(viewer)
	enrollment, err := s.findEnrollment(ctx, v.ID, course.ID)
	if err != nil {
		return nil, err
	}

	facts := policy.CourseFacts{
		IsPublished: course.IsPublished,
		CreatedByID: course.CreatedByID,
		Enrolled:    enrollment != nil,
	}
	if !policy.AccessGate(v).Allows(facts) {
		return nil, util.ErrCourseAccess
	}

	return s.detailView(ctx, course, v, enrollment)
}

// CreateCourse stores a new course owned by actor. The course is published
// unless the input says otherwise.
func (s *CourseService) CreateCourse(ctx context.Context, actor *model.User, in CreateCourseInput) (view *CourseView, err error) {
	ctx, span := tracing.Start(ctx, "CourseService.CreateCourse")
	defer func() { tracing.End(span, err) }()

	v := policy.ViewerOf(actor)
	if !v.Role.CanAuthor() {
		return nil, util.Forbiddenf("Access denied. Only admins and managers can create courses.")
	}

	title := strings.TrimSpace(in.Title)
	taken, err := s.CourseRepo.ExistsTitleForCreator(ctx, v.ID, title, "")
	if err != nil {
		return nil, fmt.Errorf("check title: %w", err)
	}
	if taken {
		return nil, util.ErrDuplicateTitle
	}

	lessons := make(datatypes.JSONSlice[model.Lesson], 0, len(in.Lessons))
	for _, li := range in.Lessons {
		l := li.toLesson()
		for _, existing := range lessons {
			if existing.ID == l.ID {
				return nil, util.ErrDuplicateLesson
			}
		}
		lessons = append(lessons, l)
	}

	published := true
	if in.IsPublished != nil {
		published = *in.IsPublished
	}

	course := &model.Course{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		ImageURL:    in.ImageURL,
		Category:    orDefault(strings.TrimSpace(in.Category), model.DefaultCategory),
		Difficulty:  model.Difficulty(orDefault(string(in.Difficulty), string(model.DefaultDifficulty))),
		Tags:        normalizeTags(in.Tags),
		Price:       in.Price,
		IsPublished: published,
		CreatedByID: v.ID,
		Lessons:     lessons,
	}
	if err := s.CourseRepo.Create(ctx, course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrDuplicateTitle
		}
		return nil, fmt.Errorf("create course: %w", err)
	}
	monitoring.RecordCourseMutation("course_create")

	course.CreatedBy = actor
	return s.detailView(ctx, course, v, nil)
}

// UpdateCourse applies the non-nil fields of in. Only admins and managers
// may change the published flag; that check runs after the course is found
// and the actor is known to be allowed to edit it.
func (s *CourseService) UpdateCourse(ctx context.Context, actor *model.User, id string, in UpdateCourseInput) (view *CourseView, err error) {
	ctx, span := tracing.Start(ctx, "CourseService.UpdateCourse", attribute.String("course.id", id))
	defer func() { tracing.End(span, err) }()

	v := policy.ViewerOf(actor)
	denied := util.Forbiddenf("Access denied. You can only edit your own courses.")
	course, err := s.mutateCourse(ctx, v, id, "course_update", denied, func(tx *gorm.DB, c *model.Course) error {
		if in.IsPublished != nil && !policy.CanSetPublished(v) {
			return util.Forbiddenf("Access denied. Only admins and managers can publish courses.")
		}
		if in.Title != nil {
			title := strings.TrimSpace(*in.Title)
			if title != c.Title {
				taken, err := s.CourseRepo.WithTx(tx).ExistsTitleForCreator(ctx, c.CreatedByID, title, c.ID)
				if err != nil {
					return err
				}
				if taken {
					return util.Conflictf("You already have another course with this title")
				}
				c.Title = title
			}
		}
		if in.Description != nil {
			c.Description = strings.TrimSpace(*in.Description)
		}
		if in.ImageURL != nil {
			c.ImageURL = *in.ImageURL
		}
		if in.Category != nil {
			c.Category = orDefault(strings.TrimSpace(*in.Category), model.DefaultCategory)
		}
		if in.Difficulty != nil {
			c.Difficulty = model.Difficulty(orDefault(string(*in.Difficulty), string(model.DefaultDifficulty)))
		}
		if in.Tags != nil {
			c.Tags = normalizeTags(*in.Tags)
		}
		if in.Price != nil {
			c.Price = *in.Price
		}
		if in.IsPublished != nil {
			c.IsPublished = *in.IsPublished
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.viewAfterMutation(ctx, v, course.ID)
}

// DeleteCourse removes the course and every enrollment in it.
func (s *CourseService) DeleteCourse(ctx context.Context, actor *model.User, id string) (err error) {
	ctx, span := tracing.Start(ctx, "CourseService.DeleteCourse", attribute.String("course.id", id))
	defer func() { tracing.End(span, err) }()

	course, err := s.findCourse(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanEdit(policy.ViewerOf(actor), course) {
		return util.Forbiddenf("Access denied. You can only delete your own courses.")
	}

	if err := s.CourseRepo.Delete(ctx, course.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return fmt.Errorf("delete course: %w", err)
	}
	monitoring.RecordCourseMutation("course_delete")
	return nil
}

// PublishAllAuthored publishes every draft created by an admin or manager.
func (s *CourseService) PublishAllAuthored(ctx context.Context, actor *model.User) (int64, error) {
	if !policy.ViewerOf(actor).IsAdmin() {
		return 0, util.Forbiddenf("Access denied. Only admin can run this utility.")
	}
	n, err := s.CourseRepo.PublishAuthored(ctx)
	if err != nil {
		return 0, fmt.Errorf("publish courses: %w", err)
	}
	if n > 0 {
		monitoring.RecordCourseMutation("course_publish_all")
	}
	return n, nil
}

// mutateCourse is the single write path for an existing course. It locks
// the row, checks that v may edit it, applies change and saves, which
// recomputes the derived duration. denied is returned when v may not edit.
func (s *CourseService) mutateCourse(ctx context.Context, v policy.Viewer, id, op string, denied error, change func(tx *gorm.DB, c *model.Course) error) (*model.Course, error) {
	if !model.IsValidID(id) {
		return nil, util.ErrCourseNotFound
	}

	var course *model.Course
	err := s.CourseRepo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		courses := s.CourseRepo.WithTx(tx)

		c, err := courses.FindForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrCourseNotFound
			}
			return err
		}
		if !policy.CanEdit(v, c) {
			return denied
		}
		if err := change(tx, c); err != nil {
			return err
		}
		if err := courses.Save(ctx, c); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return util.Conflictf("You already have another course with this title")
			}
			return err
		}
		course = c
		return nil
	})
	if err != nil {
		return nil, wrapUnexpected(op, err)
	}
	monitoring.RecordCourseMutation(op)
	return course, nil
}

// viewAfterMutation reloads the course with its creator and projects it for the editor.
func (s *CourseService) viewAfterMutation(ctx context.Context, v policy.Viewer, id string) (*CourseView, error) {
	course, err := s.findCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	enrollment, err := s.findEnrollment(ctx, v.ID, course.ID)
	if err != nil {
		return nil, err
	}
	return s.detailView(ctx, course, v, enrollment)
}

func (s *CourseService) detailView(ctx context.Context, course *model.Course, v policy.Viewer, enrollment *model.Enrollment) (*CourseView, error) {
	count, err := s.EnrollmentRepo.CountByCourse(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}
	view := buildCourseView(course, v, enrollment, count, detailView)
	return &view, nil
}

func (s *CourseService) findCourse(ctx context.Context, id string) (*model.Course, error) {
	if !model.IsValidID(id) {
		return nil, util.ErrCourseNotFound
	}
	course, err := s.CourseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return course, nil
}

// findEnrollment returns nil without error when userID is not enrolled.
func (s *CourseService) findEnrollment(ctx context.Context, userID, courseID string) (*model.Enrollment, error) {
	if userID == "" {
		return nil, nil
	}
	e, err := s.EnrollmentRepo.Find(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return e, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// normalizeTags trims tags and drops empties and repeats, keeping first-seen order.
func normalizeTags(tags []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

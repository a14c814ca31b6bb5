package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/monitoring"
	"learnhub_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewEnrollmentService(courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository) *EnrollmentService {
	return &EnrollmentService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// Enroll adds viewer to a published course. The unique (user, course)
// index turns a concurrent second enrollment into a Conflict as well.
func (s *EnrollmentService) Enroll(ctx context.Context, viewer *model.User, courseID string) (enrollment *model.Enrollment, err error) {
	ctx, span := tracing.Start(ctx, "EnrollmentService.Enroll", attribute.String("course.id", courseID))
	defer func() {
		monitoring.RecordEnrollment("enroll", err)
		tracing.End(span, err)
	}()

	if !model.IsValidID(courseID) {
		return nil, util.ErrCourseNotFound
	}

	err = s.CourseRepo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := s.CourseRepo.WithTx(tx).FindByID(ctx, courseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrCourseNotFound
			}
			return err
		}
		if !course.IsPublished {
			return util.ErrCourseUnpublished
		}

		enrollments := s.EnrollmentRepo.WithTx(tx)
		if _, err := enrollments.Find(ctx, viewer.ID, course.ID); err == nil {
			return util.ErrAlreadyEnrolled
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		e := &model.Enrollment{
			UserID:           viewer.ID,
			CourseID:         course.ID,
			EnrolledAt:       time.Now(),
			CompletedLessons: datatypes.JSONSlice[model.LessonCompletion]{},
		}
		if err := enrollments.Create(ctx, e); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return util.ErrAlreadyEnrolled
			}
			return err
		}
		enrollment = e
		return nil
	})
	if err != nil {
		return nil, wrapUnexpected("enroll", err)
	}
	return enrollment, nil
}

// Unenroll removes viewer's enrollment in the course.
func (s *EnrollmentService) Unenroll(ctx context.Context, viewer *model.User, courseID string) (err error) {
	ctx, span := tracing.Start(ctx, "EnrollmentService.Unenroll", attribute.String("course.id", courseID))
	defer func() {
		monitoring.RecordEnrollment("unenroll", err)
		tracing.End(span, err)
	}()

	if !model.IsValidID(courseID) {
		return util.ErrCourseNotFound
	}
	if _, err := s.CourseRepo.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return fmt.Errorf("find course: %w", err)
	}

	removed, err := s.EnrollmentRepo.Delete(ctx, viewer.ID, courseID)
	if err != nil {
		return fmt.Errorf("unenroll: %w", err)
	}
	if !removed {
		return util.ErrNotEnrolled
	}
	return nil
}

// CompleteLesson marks a lesson done for viewer. Marking the same lesson
// twice keeps the first completion time.
func (s *EnrollmentService) CompleteLesson(ctx context.Context, viewer *model.User, courseID, lessonID string) (progress *ProgressView, err error) {
	ctx, span := tracing.Start(ctx, "EnrollmentService.CompleteLesson", attribute.String("course.id", courseID))
	defer func() { tracing.End(span, err) }()

	if !model.IsValidID(courseID) {
		return nil, util.ErrCourseNotFound
	}

	err = s.CourseRepo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := s.CourseRepo.WithTx(tx).FindByID(ctx, courseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrCourseNotFound
			}
			return err
		}

		enrollments := s.EnrollmentRepo.WithTx(tx.Clauses(clause.Locking{Strength: "UPDATE"}))
		e, err := enrollments.Find(ctx, viewer.ID, course.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrNotEnrolled
			}
			return err
		}
		if course.LessonIndex(lessonID) < 0 {
			return util.ErrLessonNotFound
		}

		now := time.Now()
		if !e.HasCompleted(lessonID) {
			e.CompletedLessons = append(e.CompletedLessons, model.LessonCompletion{LessonID: lessonID, CompletedAt: now})
		}
		e.RecomputeProgress(course.Lessons)
		e.LastAccessedAt = &now
		if err := s.EnrollmentRepo.WithTx(tx).Save(ctx, e); err != nil {
			return err
		}
		progress = progressOf(e, course.Lessons)
		return nil
	})
	if err != nil {
		return nil, wrapUnexpected("complete lesson", err)
	}
	return progress, nil
}

// wrapUnexpected annotates internal errors with op. Errors meant for the
// client pass through unchanged.
func wrapUnexpected(op string, err error) error {
	if !util.IsKind(err, util.KindInternal) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

package service

import (
	"context"
	"sync"
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"
)

func TestEnrollTwiceConflicts(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	m := e.user(t, "author", model.RoleManager)
	u := e.user(t, "learner", model.RoleUser)
	c := e.course(t, m, "Go", true)

	enrollment, err := e.enrollments.Enroll(ctx, u, c.ID)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if enrollment.CompletionPercentage != 0 || len(enrollment.CompletedLessons) != 0 || enrollment.EnrolledAt.IsZero() {
		t.Fatalf("new enrollment should start empty: %+v", enrollment)
	}

	_, err = e.enrollments.Enroll(ctx, u, c.ID)
	expectKind(t, err, util.KindConflict)

	profile, err := e.auth.GetProfile(ctx, u)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if len(profile.EnrolledCourses) != 1 || profile.EnrolledCourses[0] != c.ID {
		t.Fatalf("enrolled set should hold the course once, got %v", profile.EnrolledCourses)
	}
}

func TestConcurrentEnrollCreatesOneRow(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	m := e.user(t, "author", model.RoleManager)
	u := e.user(t, "learner", model.RoleUser)
	c := e.course(t, m, "Go", true)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.enrollments.Enroll(ctx, u, c.ID)
		}(i)
	}
	wg.Wait()

	n, err := e.courses.EnrollmentRepo.CountByCourse(ctx, c.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one enrollment row, got %d", n)
	}
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one successful enroll, got %d (%v)", succeeded, errs)
	}
	for _, err := range errs {
		if err != nil && util.KindOf(err) == util.KindNotFound {
			t.Fatalf("losing enrollers must not see NotFound: %v", err)
		}
	}
}

func TestEnrollErrors(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	m := e.user(t, "author", model.RoleManager)
	u := e.user(t, "learner", model.RoleUser)
	draft := e.course(t, m, "Draft", false)

	_, err := e.enrollments.Enroll(ctx, u, draft.ID)
	expectKind(t, err, util.KindInvalidState)

	_, err = e.enrollments.Enroll(ctx, u, model.GenerateUUID())
	expectKind(t, err, util.KindNotFound)

	_, err = e.enrollments.Enroll(ctx, u, "bogus")
	expectKind(t, err, util.KindNotFound)
}

func TestUnenroll(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	m := e.user(t, "author", model.RoleManager)
	u := e.user(t, "learner", model.RoleUser)
	c := e.course(t, m, "Go", true)

	expectKind(t, e.enrollments.Unenroll(ctx, u, c.ID), util.KindInvalidState)
	expectKind(t, e.enrollments.Unenroll(ctx, u, model.GenerateUUID()), util.KindNotFound)

	if _, err := e.enrollments.Enroll(ctx, u, c.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if err := e.enrollments.Unenroll(ctx, u, c.ID); err != nil {
		t.Fatalf("unenroll: %v", err)
	}
	view, err := e.courses.GetCourse(ctx, u, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.IsEnrolled || view.EnrolledCount != 0 {
		t.Fatalf("unenrolled viewer still enrolled: %+v", view)
	}

	if _, err := e.enrollments.Enroll(ctx, u, c.ID); err != nil {
		t.Fatalf("re-enroll after unenroll: %v", err)
	}
}

func TestCompleteLesson(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	m := e.user(t, "author", model.RoleManager)
	u := e.user(t, "learner", model.RoleUser)
	c := e.course(t, m, "Go", true)
	for _, id := range []string{"a", "b", "c", "d"} {
		if _, err := e.lessons.AddLesson(ctx, m, c.ID, lesson(id, 15)); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	_, err := e.enrollments.CompleteLesson(ctx, u, c.ID, "a")
	expectKind(t, err, util.KindInvalidState)

	if _, err := e.enrollments.Enroll(ctx, u, c.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	_, err = e.enrollments.CompleteLesson(ctx, u, c.ID, "zzz")
	expectKind(t, err, util.KindNotFound)

	first, err := e.enrollments.CompleteLesson(ctx, u, c.ID, "a")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if first.CompletionPercentage != 25 || first.LastAccessedAt == nil {
		t.Fatalf("unexpected progress %+v", first)
	}

	again, err := e.enrollments.CompleteLesson(ctx, u, c.ID, "a")
	if err != nil {
		t.Fatalf("complete again: %v", err)
	}
	if len(again.CompletedLessons) != 1 || !again.CompletedLessons[0].CompletedAt.Equal(first.CompletedLessons[0].CompletedAt) {
		t.Fatalf("completing twice must keep one marker: %+v", again.CompletedLessons)
	}

	if _, err := e.enrollments.CompleteLesson(ctx, u, c.ID, "b"); err != nil {
		t.Fatalf("complete b: %v", err)
	}
	stored, err := e.courses.EnrollmentRepo.Find(ctx, u.ID, c.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.CompletionPercentage != 50 {
		t.Fatalf("stored percentage %v, want 50", stored.CompletionPercentage)
	}
}

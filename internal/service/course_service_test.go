package service

import (
	"context"
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"
)

func TestEndToEndScenario(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	admin := e.user(t, "admin", model.RoleAdmin)
	manager := e.user(t, "manager", model.RoleManager)
	userA := e.user(t, "usera", model.RoleUser)

	intro := e.course(t, admin, "Intro to X", true)
	e.course(t, manager, "Advanced Y", false)

	if _, err := e.enrollments.Enroll(ctx, userA, intro.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	seenByA := listTitles(t, e, userA)
	if _, ok := seenByA["Advanced Y"]; ok {
		t.Fatalf("user must not see another author's draft")
	}
	got, ok := seenByA["Intro to X"]
	if !ok || !got.IsEnrolled {
		t.Fatalf("expected Intro to X with isEnrolled=true, got %+v", got)
	}
	if got.Lessons == nil {
		t.Fatalf("enrolled user should receive lessons in the listing")
	}
	if got.EnrolledCount != 1 {
		t.Fatalf("expected enrolledCount 1, got %d", got.EnrolledCount)
	}

	seenByManager := listTitles(t, e, manager)
	if len(seenByManager) != 2 {
		t.Fatalf("manager should see both courses, got %v", seenByManager)
	}
	if !seenByManager["Advanced Y"].CanEdit || seenByManager["Intro to X"].CanEdit {
		t.Fatalf("canEdit must be true only for the manager's own course")
	}
}

func TestListVisibilityByRole(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	admin := e.user(t, "admin", model.RoleAdmin)
	m1 := e.user(t, "m1", model.RoleManager)
	m2 := e.user(t, "m2", model.RoleManager)
	u := e.user(t, "learner", model.RoleUser)

	e.course(t, m1, "m1 published", true)
	e.course(t, m1, "m1 draft", false)
	e.course(t, m2, "m2 draft", false)

	if n := len(listTitles(t, e, admin)); n != 3 {
		t.Fatalf("admin should see all 3 courses, saw %d", n)
	}
	seenByM2 := listTitles(t, e, m2)
	if _, ok := seenByM2["m1 draft"]; ok || len(seenByM2) != 2 {
		t.Fatalf("m2 should see m1 published and its own draft, got %v", seenByM2)
	}
	seenByUser := listTitles(t, e, u)
	if len(seenByUser) != 1 {
		t.Fatalf("user should see only the published course, got %v", seenByUser)
	}
	if seenByUser["m1 published"].Lessons != nil {
		t.Fatalf("user not enrolled must not receive lessons in the listing")
	}
	if seenByUser["m1 published"].CreatedBy == nil || seenByUser["m1 published"].CreatedBy.Email != "" {
		t.Fatalf("listing creator summary must be present without email")
	}

	for name, c := range listTitles(t, e, admin) {
		if !c.CanEdit {
			t.Fatalf("admin must be able to edit %s", name)
		}
		if c.Lessons == nil {
			t.Fatalf("admin must receive lessons for %s", name)
		}
	}

	published := false
	page, err := e.courses.ListCourses(ctx, admin, CourseQuery{Published: &published})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Pagination.TotalItems != 2 || page.Pagination.CurrentPage != 1 || page.Pagination.ItemsPerPage != 10 {
		t.Fatalf("unexpected pagination %+v", page.Pagination)
	}
}

func TestListPaginationClampsLimit(t *testing.T) {
	e := newTestEnv(t)
	admin := e.user(t, "admin", model.RoleAdmin)
	for _, title := range []string{"a", "b", "c"} {
		e.course(t, admin, title, true)
	}

	page, err := e.courses.ListCourses(context.Background(), admin, CourseQuery{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Courses) != 1 || page.Pagination.TotalPages != 2 || page.Pagination.TotalItems != 3 {
		t.Fatalf("unexpected page %d courses, %+v", len(page.Courses), page.Pagination)
	}

	page, err = e.courses.ListCourses(context.Background(), admin, CourseQuery{Limit: 1000})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Pagination.ItemsPerPage != util.MaxLimit {
		t.Fatalf("limit should be clamped to %d, got %d", util.MaxLimit, page.Pagination.ItemsPerPage)
	}
}

func TestGetCourseGate(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	m1 := e.user(t, "m1", model.RoleManager)
	m2 := e.user(t, "m2", model.RoleManager)
	u := e.user(t, "learner", model.RoleUser)
	admin := e.user(t, "admin", model.RoleAdmin)

	draft := e.course(t, m1, "Draft", false)

	_, err := e.courses.GetCourse(ctx, u, draft.ID)
	expectKind(t, err, util.KindForbidden)
	_, err = e.courses.GetCourse(ctx, m2, draft.ID)
	expectKind(t, err, util.KindForbidden)

	_, err = e.courses.GetCourse(ctx, u, "not-an-id")
	expectKind(t, err, util.KindNotFound)
	_, err = e.courses.GetCourse(ctx, u, model.GenerateUUID())
	expectKind(t, err, util.KindNotFound)

	for _, viewer := range []*model.User{m1, admin} {
		view, err := e.courses.GetCourse(ctx, viewer, draft.ID)
		if err != nil {
			t.Fatalf("%s should pass the gate: %v", viewer.Username, err)
		}
		if view.Lessons == nil || view.CreatedBy == nil || view.CreatedBy.Email != m1.Email {
			t.Fatalf("detail view should carry lessons and the creator email, got %+v", view)
		}
	}
}

func TestGetCourseEnrolledViewerSeesProgress(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	m := e.user(t, "author", model.RoleManager)
	u := e.user(t, "learner", model.RoleUser)
	c := e.course(t, m, "Go", true)
	if _, err := e.lessons.AddLesson(ctx, m, c.ID, lesson("l1", 10)); err != nil {
		t.Fatalf("add lesson: %v", err)
	}
	if _, err := e.lessons.AddLesson(ctx, m, c.ID, lesson("l2", 10)); err != nil {
		t.Fatalf("add lesson: %v", err)
	}
	if _, err := e.enrollments.Enroll(ctx, u, c.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	// unpublishing must not lock out an enrolled viewer
	unpublish := false
	if _, err := e.courses.UpdateCourse(ctx, m, c.ID, UpdateCourseInput{IsPublished: &unpublish}); err != nil {
		t.Fatalf("unpublish: %v", err)
	}

	progress, err := e.enrollments.CompleteLesson(ctx, u, c.ID, "l1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if progress.CompletionPercentage != 50 {
		t.Fatalf("expected 50%%, got %v", progress.CompletionPercentage)
	}

	view, err := e.courses.GetCourse(ctx, u, c.ID)
	if err != nil {
		t.Fatalf("enrolled viewer should pass the gate: %v", err)
	}
	if !view.IsEnrolled || view.UserProgress == nil || view.UserProgress.CompletionPercentage != 50 {
		t.Fatalf("expected enrolled view with progress, got %+v", view)
	}

	if _, err := e.lessons.DeleteLesson(ctx, m, c.ID, "l1"); err != nil {
		t.Fatalf("delete lesson: %v", err)
	}
	view, err = e.courses.GetCourse(ctx, u, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.UserProgress.CompletionPercentage != 0 || len(view.UserProgress.CompletedLessons) != 0 {
		t.Fatalf("progress for removed lessons must not count, got %+v", view.UserProgress)
	}
}

func TestCreateCourse(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	m := e.user(t, "author", model.RoleManager)
	other := e.user(t, "other", model.RoleManager)
	u := e.user(t, "learner", model.RoleUser)

	declared := 99.0
	view, err := e.courses.CreateCourse(ctx, m, CreateCourseInput{
		Title:             "  Go  ",
		Description:       "Learn Go",
		ImageURL:          "https://example.com/go.png",
		Tags:              []string{"go", " go ", "", "backend"},
		EstimatedDuration: &declared,
		Lessons:           []LessonInput{lesson("a", 45)},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if view.Title != "Go" || !view.IsPublished || view.Category != model.DefaultCategory || view.Difficulty != model.Beginner {
		t.Fatalf("unexpected defaults %+v", view)
	}
	if len(view.Tags) != 2 || view.EstimatedDuration != 0.75 {
		t.Fatalf("tags %v / duration %v", view.Tags, view.EstimatedDuration)
	}
	if !view.CanEdit || view.CreatedBy == nil || view.CreatedBy.ID != m.ID {
		t.Fatalf("creator fields wrong: %+v", view.CreatedBy)
	}

	_, err = e.courses.CreateCourse(ctx, m, CreateCourseInput{Title: "Go", Description: "again", ImageURL: "https://example.com/x.png"})
	expectKind(t, err, util.KindConflict)

	if _, err := e.courses.CreateCourse(ctx, other, CreateCourseInput{Title: "Go", Description: "mine", ImageURL: "https://example.com/x.png"}); err != nil {
		t.Fatalf("titles are unique per creator only: %v", err)
	}

	_, err = e.courses.CreateCourse(ctx, u, CreateCourseInput{Title: "Nope", Description: "d", ImageURL: "https://example.com/x.png"})
	expectKind(t, err, util.KindForbidden)

	_, err = e.courses.CreateCourse(ctx, m, CreateCourseInput{
		Title: "Dup lessons", Description: "d", ImageURL: "https://example.com/x.png",
		Lessons: []LessonInput{lesson("a", 1), lesson("a", 2)},
	})
	expectKind(t, err, util.KindConflict)
}

func TestUpdateCourse(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	m := e.user(t, "author", model.RoleManager)
	other := e.user(t, "other", model.RoleManager)
	admin := e.user(t, "admin", model.RoleAdmin)
	c := e.course(t, m, "Go", true)
	e.course(t, m, "Rust", true)

	title := "Go 2"
	price := 10.0
	view, err := e.courses.UpdateCourse(ctx, m, c.ID, UpdateCourseInput{Title: &title, Price: &price})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if view.Title != "Go 2" || view.Price != 10 || view.Description != c.Description {
		t.Fatalf("partial update wrong: %+v", view)
	}

	clash := "Rust"
	_, err = e.courses.UpdateCourse(ctx, m, c.ID, UpdateCourseInput{Title: &clash})
	expectKind(t, err, util.KindConflict)

	_, err = e.courses.UpdateCourse(ctx, other, c.ID, UpdateCourseInput{Price: &price})
	expectKind(t, err, util.KindForbidden)

	_, err = e.courses.UpdateCourse(ctx, m, model.GenerateUUID(), UpdateCourseInput{Price: &price})
	expectKind(t, err, util.KindNotFound)

	desc := "Edited by admin"
	if _, err := e.courses.UpdateCourse(ctx, admin, c.ID, UpdateCourseInput{Description: &desc}); err != nil {
		t.Fatalf("admin may edit any course: %v", err)
	}
}

func TestUpdateCoursePublishFlagNeedsAuthorRole(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	m := e.user(t, "author", model.RoleManager)
	c := e.course(t, m, "Go", false)
	m.Role = model.RoleUser
	if err := e.users.Update(ctx, m, "role"); err != nil {
		t.Fatalf("demote: %v", err)
	}

	publish := true
	_, err := e.courses.UpdateCourse(ctx, m, model.GenerateUUID(), UpdateCourseInput{IsPublished: &publish})
	expectKind(t, err, util.KindNotFound)

	_, err = e.courses.UpdateCourse(ctx, m, c.ID, UpdateCourseInput{IsPublished: &publish})
	expectKind(t, err, util.KindForbidden)

	price := 5.0
	view, err := e.courses.UpdateCourse(ctx, m, c.ID, UpdateCourseInput{Price: &price})
	if err != nil {
		t.Fatalf("demoted creator may still edit own course: %v", err)
	}
	if view.IsPublished || view.Price != 5 {
		t.Fatalf("unexpected course after update: %+v", view)
	}
}

func TestDeleteCourseCascades(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	m := e.user(t, "author", model.RoleManager)
	other := e.user(t, "other", model.RoleManager)
	a := e.user(t, "a", model.RoleUser)
	b := e.user(t, "b", model.RoleUser)
	c := e.course(t, m, "Go", true)

	for _, u := range []*model.User{a, b} {
		if _, err := e.enrollments.Enroll(ctx, u, c.ID); err != nil {
			t.Fatalf("enroll: %v", err)
		}
	}

	expectKind(t, e.courses.DeleteCourse(ctx, other, c.ID), util.KindForbidden)

	if err := e.courses.DeleteCourse(ctx, m, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, u := range []*model.User{a, b} {
		profile, err := e.auth.GetProfile(ctx, u)
		if err != nil {
			t.Fatalf("profile: %v", err)
		}
		if len(profile.EnrolledCourses) != 0 {
			t.Fatalf("%s still enrolled in %v", u.Username, profile.EnrolledCourses)
		}
	}
	_, err := e.courses.GetCourse(ctx, a, c.ID)
	expectKind(t, err, util.KindNotFound)
	expectKind(t, e.courses.DeleteCourse(ctx, m, c.ID), util.KindNotFound)
}

func TestPublishAllAuthored(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	admin := e.user(t, "admin", model.RoleAdmin)
	m := e.user(t, "author", model.RoleManager)
	e.course(t, m, "A", false)
	e.course(t, admin, "B", false)

	_, err := e.courses.PublishAllAuthored(ctx, m)
	expectKind(t, err, util.KindForbidden)

	n, err := e.courses.PublishAllAuthored(ctx, admin)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 published, got %d (%v)", n, err)
	}
	u := e.user(t, "learner", model.RoleUser)
	if len(listTitles(t, e, u)) != 2 {
		t.Fatalf("published courses should now be visible to users")
	}
}

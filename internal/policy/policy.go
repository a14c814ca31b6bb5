// Package policy holds the role rules for courses: who sees which course,
// who may edit it and who receives its lessons. Everything here is pure so
// the rules can be tested without a store.
package policy

import "learnhub_backend/internal/model"

// Viewer is the identity a decision is made for.
type Viewer struct {
	ID   string
	Role model.UserRole
}

func ViewerOf(u *model.User) Viewer {
	if u == nil {
		return Viewer{}
	}
	return Viewer{ID: u.ID, Role: u.Role}
}

func (v Viewer) IsAdmin() bool {
	return v.Role == model.RoleAdmin
}

// CourseFacts is the part of a course a visibility decision depends on.
type CourseFacts struct {
	IsPublished bool
	CreatedByID string
	// Enrolled is whether the viewer the predicate was built for is enrolled.
	Enrolled bool
}

// Predicate is a disjunction: a course is visible when it is published,
// or created by CreatedBy (if set), or has an enrollment by EnrolledUser
// (if set). Unrestricted short-circuits to true.
type Predicate struct {
	Unrestricted bool
	CreatedBy    string
	EnrolledUser string
}

func (p Predicate) Allows(c CourseFacts) bool {
	if p.Unrestricted || c.IsPublished {
		return true
	}
	if p.CreatedBy != "" && c.CreatedByID == p.CreatedBy {
		return true
	}
	return p.EnrolledUser != "" && c.Enrolled
}

// ListVisibility is the row filter for course listings.
//   - admin sees everything
//   - manager sees published courses and their own
//   - user sees published courses and the ones they are enrolled in
func ListVisibility(v Viewer) Predicate {
	switch v.Role {
	case model.RoleAdmin:
		return Predicate{Unrestricted: true}
	case model.RoleManager:
		return Predicate{CreatedBy: v.ID}
	case model.RoleUser:
		return Predicate{EnrolledUser: v.ID}
	}
	return Predicate{}
}

// AccessGate is the check for fetching a single course by id. It is wider
// than ListVisibility: creators and enrolled viewers of any role pass.
func AccessGate(v Viewer) Predicate {
	if v.IsAdmin() {
		return Predicate{Unrestricted: true}
	}
	return Predicate{CreatedBy: v.ID, EnrolledUser: v.ID}
}

func CanEdit(v Viewer, c *model.Course) bool {
	return v.IsAdmin() || (v.ID != "" && c.IsCreatedBy(v.ID))
}

// CanSeeLessons decides whether a listing row carries its lessons.
func CanSeeLessons(v Viewer, enrolled bool) bool {
	if v.Role == model.RoleUser {
		return enrolled
	}
	return v.Role.Valid()
}

// CanSetPublished reports whether the viewer may flip a course's published flag.
func CanSetPublished(v Viewer) bool {
	return v.Role.CanAuthor()
}

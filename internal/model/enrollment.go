package model

import (
	"time"

	"gorm.io/datatypes"
)

type LessonCompletion struct {
	LessonID    string    `json:"lessonId"`
	CompletedAt time.Time `json:"completedAt"`
}

// Enrollment is the single record of a user taking a course. The pair
// (UserID, CourseID) is unique at the store level.
// swagger:model Enrollment
type Enrollment struct {
	UUIDBase
	UserID               string                                `gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollment_user_course,priority:1" json:"userId"`
	CourseID             string                                `gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollment_user_course,priority:2;index" json:"courseId"`
	EnrolledAt           time.Time                             `gorm:"not null" json:"enrolledAt"`
	CompletedLessons     datatypes.JSONSlice[LessonCompletion] `json:"completedLessons"`
	CompletionPercentage float64                               `gorm:"not null;default:0" json:"completionPercentage"`
	LastAccessedAt       *time.Time                            `json:"lastAccessedAt,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (e *Enrollment) HasCompleted(lessonID string) bool {
	for _, c := range e.CompletedLessons {
		if c.LessonID == lessonID {
			return true
		}
	}
	return false
}

// RecomputeProgress drops markers for lessons no longer in the course and
// derives the completion percentage from what remains.
func (e *Enrollment) RecomputeProgress(lessons []Lesson) {
	if len(lessons) == 0 {
		e.CompletionPercentage = 0
		return
	}
	present := make(map[string]struct{}, len(lessons))
	for _, l := range lessons {
		present[l.ID] = struct{}{}
	}
	kept := make(datatypes.JSONSlice[LessonCompletion], 0, len(e.CompletedLessons))
	for _, c := range e.CompletedLessons {
		if _, ok := present[c.LessonID]; ok {
			kept = append(kept, c)
		}
	}
	e.CompletedLessons = kept
	e.CompletionPercentage = float64(len(kept)) / float64(len(lessons)) * 100
}

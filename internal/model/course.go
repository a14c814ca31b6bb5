package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
)

const (
	DefaultCategory   = "General"
	DefaultDifficulty = Beginner
)

// Lesson is embedded in exactly one course and has no table of its own.
// swagger:model Lesson
type Lesson struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Materials       []string `json:"materials"`
	Topics          []string `json:"topics"`
	SubjectCategory string   `json:"subjectCategory"`
	Duration        int      `json:"duration"` // minutes
	VideoURL        string   `json:"videoUrl,omitempty"`
}

// swagger:model Course
type Course struct {
	UUIDBase
	Title             string                      `gorm:"size:200;not null;uniqueIndex:idx_course_creator_title,priority:2" json:"title"`
	Description       string                      `gorm:"size:1000;not null" json:"description"`
	ImageURL          string                      `gorm:"size:500;not null" json:"imageUrl"`
	Category          string                      `gorm:"size:100;not null;default:General;index" json:"category"`
	Difficulty        Difficulty                  `gorm:"size:20;not null;default:Beginner;index" json:"difficulty"`
	Tags              datatypes.JSONSlice[string] `json:"tags"`
	Price             float64                     `gorm:"not null;default:0" json:"price"`
	EstimatedDuration float64                     `gorm:"not null;default:0" json:"estimatedDuration"` // hours
	IsPublished       bool                        `gorm:"not null;default:false;index" json:"isPublished"`
	CreatedByID       string                      `gorm:"type:varchar(36);not null;uniqueIndex:idx_course_creator_title,priority:1" json:"createdById"`
	CreatedBy         *User                       `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	Lessons           datatypes.JSONSlice[Lesson] `json:"lessons"`
}

func (Course) TableName() string {
	return "courses"
}

// BeforeSave keeps EstimatedDuration equal to the lesson minutes in hours.
// Every write path saves the whole row, so this is the only place the
// total is computed.
func (c *Course) BeforeSave(tx *gorm.DB) error {
	c.EstimatedDuration = TotalHours(c.Lessons)
	if c.Tags == nil {
		c.Tags = datatypes.JSONSlice[string]{}
	}
	if c.Lessons == nil {
		c.Lessons = datatypes.JSONSlice[Lesson]{}
	}
	return nil
}

func TotalHours(lessons []Lesson) float64 {
	minutes := 0
	for _, l := range lessons {
		minutes += l.Duration
	}
	return float64(minutes) / 60
}

// LessonIndex returns the position of the lesson with the given id, or -1.
func (c *Course) LessonIndex(id string) int {
	for i, l := range c.Lessons {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (c *Course) IsCreatedBy(userID string) bool {
	return c.CreatedByID == userID
}

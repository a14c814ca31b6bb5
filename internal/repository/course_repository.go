package repository

import (
	"context"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/policy"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

// WithTx returns a repository bound to tx.
func (r *CourseRepository) WithTx(tx *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: tx}
}

// CourseFilter holds the explicit listing filters. Empty fields do not filter.
type CourseFilter struct {
	Search     string
	Category   string
	Difficulty string
	Published  *bool
}

func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(course).Error
}

// Save writes every column of the course. The creator association is never written.
func (r *CourseRepository) Save(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(course).Error
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).Preload("CreatedBy").Where("id = ?", id).First(&course).Error
	return &course, err
}

// FindForUpdate loads the course row with an exclusive lock. It must run
// inside a transaction.
func (r *CourseRepository) FindForUpdate(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&course).Error
	return &course, err
}

// ExistsTitleForCreator reports whether creatorID already owns a course with
// this title, ignoring excludeID.
func (r *CourseRepository) ExistsTitleForCreator(ctx context.Context, creatorID, title, excludeID string) (bool, error) {
	query := r.DB.WithContext(ctx).Model(&model.Course{}).
		Where("created_by_id = ? AND title = ?", creatorID, title)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// List returns one page of courses matching both the visibility predicate
// and the filter, plus the total number of matches. The count and the page
// are fetched concurrently.
func (r *CourseRepository) List(ctx context.Context, visible policy.Predicate, filter CourseFilter, page, limit int) ([]model.Course, int64, error) {
	g, gctx := errgroup.WithContext(ctx)

	query := func() *gorm.DB {
		db := r.DB.WithContext(gctx).Model(&model.Course{})
		db = applyVisibility(db, visible)
		return applyCourseFilter(db, filter)
	}

	var total int64
	g.Go(func() error {
		return query().Count(&total).Error
	})

	var courses []model.Course
	g.Go(func() error {
		return query().
			Preload("CreatedBy").
			Order("courses.created_at DESC, courses.id DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&courses).Error
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// applyVisibility renders p as a SQL condition. It must agree with
// policy.Predicate.Allows for every course.
func applyVisibility(db *gorm.DB, p policy.Predicate) *gorm.DB {
	if p.Unrestricted {
		return db
	}
	cond := db.Session(&gorm.Session{NewDB: true}).Where("courses.is_published = ?", true)
	if p.CreatedBy != "" {
		cond = cond.Or("courses.created_by_id = ?", p.CreatedBy)
	}
	if p.EnrolledUser != "" {
		cond = cond.Or("EXISTS (SELECT 1 FROM enrollments e WHERE e.course_id = courses.id AND e.user_id = ?)", p.EnrolledUser)
	}
	return db.Where(cond)
}

func applyCourseFilter(db *gorm.DB, f CourseFilter) *gorm.DB {
	if f.Search != "" {
		db = db.Where(containsFold(db, "courses.title"), likeContains(f.Search))
	}
	if f.Category != "" && f.Category != "all" {
		db = db.Where("courses.category = ?", f.Category)
	}
	if f.Difficulty != "" && f.Difficulty != "all" {
		db = db.Where("courses.difficulty = ?", f.Difficulty)
	}
	if f.Published != nil {
		db = db.Where("courses.is_published = ?", *f.Published)
	}
	return db
}

// Delete removes the course and every enrollment on it in one transaction.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Course{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// PublishAuthored publishes every unpublished course whose creator is an
// admin or a manager and returns how many rows changed.
func (r *CourseRepository) PublishAuthored(ctx context.Context) (int64, error) {
	authors := r.DB.Model(&model.User{}).Select("id").
		Where("role IN ?", []model.UserRole{model.RoleAdmin, model.RoleManager})
	res := r.DB.WithContext(ctx).
		Session(&gorm.Session{SkipHooks: true}).
		Model(&model.Course{}).
		Where("is_published = ? AND created_by_id IN (?)", false, authors).
		Update("is_published", true)
	return res.RowsAffected, res.Error
}

package repository

import (
	"context"

	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) WithTx(tx *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: tx}
}

// Create inserts the enrollment. A second enrollment for the same user and
// course fails with gorm.ErrDuplicatedKey.
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *EnrollmentRepository) Save(ctx context.Context, e *model.Enrollment) error {
	return r.DB.WithContext(ctx).Save(e).Error
}

func (r *EnrollmentRepository) Find(ctx context.Context, userID, courseID string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&e).Error
	return &e, err
}

// Delete removes the enrollment of userID in courseID and reports whether one existed.
func (r *EnrollmentRepository) Delete(ctx context.Context, userID, courseID string) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&model.Enrollment{})
	return res.RowsAffected > 0, res.Error
}

// CourseIDsForUser is the user's enrolled-courses set, oldest enrollment first.
func (r *EnrollmentRepository) CourseIDsForUser(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Where("user_id = ?", userID).
		Order("enrolled_at ASC").
		Pluck("course_id", &ids).Error
	return ids, err
}

// FindForCourses returns userID's enrollments among courseIDs keyed by course id.
func (r *EnrollmentRepository) FindForCourses(ctx context.Context, userID string, courseIDs []string) (map[string]*model.Enrollment, error) {
	out := make(map[string]*model.Enrollment, len(courseIDs))
	if userID == "" || len(courseIDs) == 0 {
		return out, nil
	}
	var rows []model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id IN ?", userID, courseIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].CourseID] = &rows[i]
	}
	return out, nil
}

type courseCount struct {
	CourseID string
	Total    int64
}

// CountByCourses returns the number of enrollments per course id.
func (r *EnrollmentRepository) CountByCourses(ctx context.Context, courseIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}
	var rows []courseCount
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Select("course_id, COUNT(*) AS total").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CourseID] = row.Total
	}
	return out, nil
}

func (r *EnrollmentRepository) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).Where("course_id = ?", courseID).Count(&n).Error
	return n, err
}

package service

import (
	"context"

	"github.com/aanand-mishra/academico-api/internal/storage"
	"github.com/aanand-mishra/academico-api/internal/types"
)

// CourseService manages courses. Enrollment is owned by StudentService.
type CourseService struct {
	store storage.Storage
}

func NewCourseService(store storage.Storage) *CourseService {
	return &CourseService{store: store}
}

func (s *CourseService) FindAll(ctx context.Context) ([]types.Course, error) {
	return s.store.ListCourses(ctx)
}

func (s *CourseService) FindByID(ctx context.Context, id int64) (types.Course, error) {
	return s.store.GetCourseByID(ctx, id)
}

// Save writes name and credit hours only; the course's student set is
// ignored.
func (s *CourseService) Save(ctx context.Context, course *types.Course) error {
	return s.store.SaveCourse(ctx, course)
}

// UpdateDetails overwrites nome and cargaHoraria of course id.
func (s *CourseService) UpdateDetails(ctx context.Context, id int64, details types.Course) (types.Course, error) {
	var course types.Course

	err := s.store.InTx(ctx, func(q storage.Queries) error {
		var err error
		course, err = q.GetCourseByID(ctx, id)
		if err != nil {
			return err
		}

		course.Name = details.Name
		course.CreditHours = details.CreditHours
		return q.SaveCourse(ctx, &course)
	})
	if err != nil {
		return types.Course{}, err
	}

	return course, nil
}

func (s *CourseService) DeleteByID(ctx context.Context, id int64) error {
	return s.store.DeleteCourseByID(ctx, id)
}

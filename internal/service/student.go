// Package service holds the domain operations behind the HTTP controllers.
//
// Services own transaction boundaries: anything that reads and then writes
// related records does so inside one storage.InTx call.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/aanand-mishra/academico-api/internal/logger"
	"github.com/aanand-mishra/academico-api/internal/storage"
	"github.com/aanand-mishra/academico-api/internal/types"
)

// StudentService manages students and their enrollments.
type StudentService struct {
	store storage.Storage
	log   *zap.Logger
}

func NewStudentService(store storage.Storage, log *zap.Logger) *StudentService {
	return &StudentService{
		store: store,
		log:   log.With(logger.Module("student_service")),
	}
}

func (s *StudentService) FindAll(ctx context.Context) ([]types.Student, error) {
	return s.store.ListStudents(ctx)
}

// FindByID returns storage.ErrNotFound when the student does not exist.
func (s *StudentService) FindByID(ctx context.Context, id int64) (types.Student, error) {
	return s.store.GetStudentByID(ctx, id)
}

// Save inserts the student when its ID is zero and replaces it otherwise.
// The stored record, id included, is written back into student.
func (s *StudentService) Save(ctx context.Context, student *types.Student) error {
	return s.store.SaveStudent(ctx, student)
}

// UpdateDetails overwrites nome, email and matricula of student id with
// those in details and returns the stored student. The course set is read
// and written in the same transaction and never modified here.
func (s *StudentService) UpdateDetails(ctx context.Context, id int64, details types.Student) (types.Student, error) {
	var student types.Student

	err := s.store.InTx(ctx, func(q storage.Queries) error {
		var err error
		student, err = q.GetStudentByID(ctx, id)
		if err != nil {
			return err
		}

		student.Name = details.Name
		student.Email = details.Email
		student.Enrollment = details.Enrollment
		return q.UpdateStudent(ctx, &student)
	})
	if err != nil {
		return types.Student{}, err
	}

	return student, nil
}

func (s *StudentService) DeleteByID(ctx context.Context, id int64) error {
	return s.store.DeleteStudentByID(ctx, id)
}

// Enroll links the student to the course on both sides and persists the
// student. Returns storage.ErrNotFound when either record is missing, in
// which case nothing is written.
func (s *StudentService) Enroll(ctx context.Context, studentID, courseID int64) (types.Student, error) {
	return s.changeEnrollment(ctx, studentID, courseID, types.Link)
}

// Unenroll removes the link on both sides. Unenrolling a pair that is not
// linked succeeds and leaves the data unchanged.
func (s *StudentService) Unenroll(ctx context.Context, studentID, courseID int64) (types.Student, error) {
	return s.changeEnrollment(ctx, studentID, courseID, types.Unlink)
}

func (s *StudentService) changeEnrollment(
	ctx context.Context,
	studentID, courseID int64,
	mutate func(*types.Student, *types.Course),
) (types.Student, error) {
	var student types.Student

	err := s.store.InTx(ctx, func(q storage.Queries) error {
		var err error
		student, err = q.GetStudentByID(ctx, studentID)
		if err != nil {
			return err
		}
		course, err := q.GetCourseByID(ctx, courseID)
		if err != nil {
			return err
		}

		mutate(&student, &course)
		return q.SaveStudent(ctx, &student)
	})
	if err != nil {
		s.log.Debug("enrollment change failed",
			logger.StudentID(studentID), logger.CourseID(courseID), zap.Error(err))
		return types.Student{}, err
	}

	s.log.Info("enrollment changed",
		logger.StudentID(studentID), logger.CourseID(courseID),
		zap.Int64s("courses", student.CourseIDs()))
	return student, nil
}

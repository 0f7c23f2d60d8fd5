// Package storage defines the contract any database backend must satisfy
// to work with this application.
//
// Handlers and services only depend on these interfaces, so the concrete
// backend (SQLite today) is chosen in exactly one place: main.go.
package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/aanand-mishra/academico-api/internal/types"
)

// ErrNotFound is returned when a student or course with the requested id
// does not exist. Callers test for it with errors.Is.
var ErrNotFound = errors.New("record not found")

// Queries is the set of operations available inside one unit of work.
//
// Loaded students carry their course set. Loaded courses carry their
// student set.
type Queries interface {
	// ListStudents returns every student ordered by id.
	// Returns an empty slice (not nil) if there are none.
	ListStudents(ctx context.Context) ([]types.Student, error)

	// GetStudentByID returns ErrNotFound if no student has this id.
	GetStudentByID(ctx context.Context, id int64) (types.Student, error)

	// SaveStudent inserts the student when ID is zero (populating ID),
	// otherwise replaces its scalar fields. In both cases the join rows are
	// made to match s.Courses exactly. Returns ErrNotFound when updating an
	// id that does not exist.
	SaveStudent(ctx context.Context, s *types.Student) error

	// UpdateStudent overwrites nome, email and matricula of an existing
	// student. Its join rows are left untouched. Returns ErrNotFound when
	// the id does not exist.
	UpdateStudent(ctx context.Context, s *types.Student) error

	// DeleteStudentByID removes the student and its enrollments.
	DeleteStudentByID(ctx context.Context, id int64) error

	ListCourses(ctx context.Context) ([]types.Course, error)
	GetCourseByID(ctx context.Context, id int64) (types.Course, error)

	// SaveCourse inserts or replaces the scalar fields of a course.
	// Enrollments are never touched from this side.
	SaveCourse(ctx context.Context, c *types.Course) error

	DeleteCourseByID(ctx context.Context, id int64) error
}

// Storage is the database contract used by the service layer.
//
// Every Queries method called directly on a Storage runs in its own
// transaction. InTx groups several calls into one transaction: it commits
// when fn returns nil and rolls back otherwise.
type Storage interface {
	Queries

	InTx(ctx context.Context, fn func(q Queries) error) error

	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	Close() error
}

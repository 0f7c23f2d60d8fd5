package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aanand-mishra/academico-api/internal/config"
	"github.com/aanand-mishra/academico-api/internal/storage"
	"github.com/aanand-mishra/academico-api/internal/storage/sqlite"
	"github.com/aanand-mishra/academico-api/internal/types"
)

type fixture struct {
	store    *sqlite.SQLite
	students *StudentService
	courses  *CourseService
	ana      types.Student
	math     types.Course
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlite.New(&config.Config{StoragePath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("sqlite.New() error = %v", err)
	}
	t.Cleanup(func() { store.Close() }) //nolint:errcheck // test cleanup

	f := &fixture{
		store:    store,
		students: NewStudentService(store, zap.NewNop()),
		courses:  NewCourseService(store),
		ana:      types.Student{Name: "Ana", Email: "ana@x.com", Enrollment: "123"},
		math:     types.Course{Name: "Math", CreditHours: 60},
	}

	ctx := context.Background()
	if err := f.students.Save(ctx, &f.ana); err != nil {
		t.Fatalf("Save(student) error = %v", err)
	}
	if err := f.courses.Save(ctx, &f.math); err != nil {
		t.Fatalf("Save(course) error = %v", err)
	}
	return f
}

func TestEnroll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.students.Enroll(ctx, f.ana.ID, f.math.ID)
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if diff := cmp.Diff([]int64{f.math.ID}, got.CourseIDs()); diff != "" {
		t.Errorf("returned course ids mismatch (-want +got):\n%s", diff)
	}

	course, err := f.courses.FindByID(ctx, f.math.ID)
	if err != nil {
		t.Fatalf("FindByID(course) error = %v", err)
	}
	if !course.HasStudent(f.ana.ID) {
		t.Error("course does not hold the student after Enroll")
	}

	t.Run("enrolling twice keeps one link", func(t *testing.T) {
		got, err := f.students.Enroll(ctx, f.ana.ID, f.math.ID)
		if err != nil {
			t.Fatalf("Enroll() error = %v", err)
		}
		if len(got.Courses) != 1 {
			t.Errorf("len(Courses) = %d, want 1", len(got.Courses))
		}
	})
}

func TestUnenroll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.students.Enroll(ctx, f.ana.ID, f.math.ID); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}

	got, err := f.students.Unenroll(ctx, f.ana.ID, f.math.ID)
	if err != nil {
		t.Fatalf("Unenroll() error = %v", err)
	}
	if len(got.Courses) != 0 {
		t.Errorf("Courses = %v, want empty", got.Courses)
	}

	course, err := f.courses.FindByID(ctx, f.math.ID)
	if err != nil {
		t.Fatalf("FindByID(course) error = %v", err)
	}
	if course.HasStudent(f.ana.ID) {
		t.Error("course still holds the student after Unenroll")
	}

	t.Run("unenrolling an unlinked pair succeeds", func(t *testing.T) {
		if _, err := f.students.Unenroll(ctx, f.ana.ID, f.math.ID); err != nil {
			t.Errorf("Unenroll() error = %v, want nil", err)
		}
	})
}

func TestEnrollmentMissingRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		studentID int64
		courseID  int64
	}{
		{name: "missing student", studentID: 99, courseID: f.math.ID},
		{name: "missing course", studentID: f.ana.ID, courseID: 99},
		{name: "both missing", studentID: 98, courseID: 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.students.Enroll(ctx, tt.studentID, tt.courseID); !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("Enroll() error = %v, want ErrNotFound", err)
			}
			if _, err := f.students.Unenroll(ctx, tt.studentID, tt.courseID); !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("Unenroll() error = %v, want ErrNotFound", err)
			}
		})
	}

	got, err := f.students.FindByID(ctx, f.ana.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if diff := cmp.Diff(f.ana, got); diff != "" {
		t.Errorf("student modified by failed enrollment (-want +got):\n%s", diff)
	}
}

func TestDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.students.Enroll(ctx, f.ana.ID, f.math.ID); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if err := f.students.DeleteByID(ctx, f.ana.ID); err != nil {
		t.Fatalf("DeleteByID() error = %v", err)
	}

	course, err := f.courses.FindByID(ctx, f.math.ID)
	if err != nil {
		t.Fatalf("FindByID(course) error = %v", err)
	}
	if len(course.Students) != 0 {
		t.Errorf("course references deleted student: %v", course.Students)
	}

	if _, err := f.students.FindByID(ctx, f.ana.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("FindByID() error = %v, want ErrNotFound", err)
	}
}

func TestFindAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	students, err := f.students.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll(students) error = %v", err)
	}
	if diff := cmp.Diff([]types.Student{f.ana}, students); diff != "" {
		t.Errorf("students mismatch (-want +got):\n%s", diff)
	}

	courses, err := f.courses.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll(courses) error = %v", err)
	}
	if diff := cmp.Diff([]types.Course{f.math}, courses); diff != "" {
		t.Errorf("courses mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A copy read before the enrollment must not undo it.
	stale, err := f.students.FindByID(ctx, f.ana.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if _, err := f.students.Enroll(ctx, f.ana.ID, f.math.ID); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}

	stale.Name = "Ana Maria"
	got, err := f.students.UpdateDetails(ctx, f.ana.ID, stale)
	if err != nil {
		t.Fatalf("UpdateDetails() error = %v", err)
	}
	if got.Name != "Ana Maria" {
		t.Errorf("Name = %q, want Ana Maria", got.Name)
	}
	if diff := cmp.Diff([]int64{f.math.ID}, got.CourseIDs()); diff != "" {
		t.Errorf("returned course ids mismatch (-want +got):\n%s", diff)
	}

	stored, err := f.students.FindByID(ctx, f.ana.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if diff := cmp.Diff(got, stored); diff != "" {
		t.Errorf("stored student mismatch (-want +got):\n%s", diff)
	}

	t.Run("course deleted after the read", func(t *testing.T) {
		stale, err := f.students.FindByID(ctx, f.ana.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if err := f.courses.DeleteByID(ctx, f.math.ID); err != nil {
			t.Fatalf("DeleteByID(course) error = %v", err)
		}

		got, err := f.students.UpdateDetails(ctx, f.ana.ID, stale)
		if err != nil {
			t.Fatalf("UpdateDetails() error = %v", err)
		}
		if len(got.Courses) != 0 {
			t.Errorf("Courses = %v, want empty", got.Courses)
		}
	})

	t.Run("missing student", func(t *testing.T) {
		if _, err := f.students.UpdateDetails(ctx, 99, stale); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("UpdateDetails() error = %v, want ErrNotFound", err)
		}
	})
}

func TestCourseUpdateDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.students.Enroll(ctx, f.ana.ID, f.math.ID); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}

	got, err := f.courses.UpdateDetails(ctx, f.math.ID, types.Course{Name: "Calculus", CreditHours: 80})
	if err != nil {
		t.Fatalf("UpdateDetails() error = %v", err)
	}
	if got.Name != "Calculus" || got.CreditHours != 80 || !got.HasStudent(f.ana.ID) {
		t.Errorf("course = %+v, want new details and student kept", got)
	}

	if _, err := f.courses.UpdateDetails(ctx, 99, got); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateDetails() error = %v, want ErrNotFound", err)
	}
}

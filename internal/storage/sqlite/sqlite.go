// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface on top of database/sql.
//
// Queries are built with squirrel so the column lists live next to the
// Go fields they scan into, and every method runs inside a transaction:
// either all of its effects become durable together or none do.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/aanand-mishra/academico-api/internal/config"
	"github.com/aanand-mishra/academico-api/internal/storage"
	"github.com/aanand-mishra/academico-api/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

const (
	dirPermissions = 0750

	// busyTimeout is how long a connection waits on a locked database.
	busyTimeout = 5 * time.Second

	connectionTimeout = 5 * time.Second
)

// schema is idempotent and runs on every startup.
//
//	aluno       — students
//	curso       — courses
//	aluno_curso — enrollment join rows, one per (student, course) pair
//
// AUTOINCREMENT guarantees ids are never reused after a delete.
const schema = `
CREATE TABLE IF NOT EXISTS aluno (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	nome      TEXT,
	email     TEXT,
	matricula TEXT
);

CREATE TABLE IF NOT EXISTS curso (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	nome          TEXT,
	carga_horaria INTEGER
);

CREATE TABLE IF NOT EXISTS aluno_curso (
	aluno_id INTEGER NOT NULL REFERENCES aluno(id) ON DELETE CASCADE,
	curso_id INTEGER NOT NULL REFERENCES curso(id) ON DELETE CASCADE,
	PRIMARY KEY (aluno_id, curso_id)
);

CREATE INDEX IF NOT EXISTS idx_aluno_curso_curso ON aluno_curso(curso_id);
`

// SQLite is the concrete implementation of storage.Storage.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
	sb squirrel.StatementBuilderType
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at cfg.StoragePath, creating its directory
// and schema if needed, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.StoragePath), dirPermissions); err != nil {
		return nil, errors.Wrap(err, "sqlite.New: create directory")
	}

	// Foreign keys are off by default in SQLite; the cascade on aluno_curso
	// depends on them.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		cfg.StoragePath, busyTimeout.Milliseconds())

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "sqlite.New: open db")
	}

	// SQLite supports a single writer. One connection serialises the
	// transactions instead of failing them with "database is locked".
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close() //nolint:errcheck // best effort cleanup on error path
		return nil, errors.Wrap(err, "sqlite.New: create tables")
	}

	return &SQLite{
		Db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// InTx runs fn inside one transaction.
//
//	tx, _ := db.BeginTx(ctx, nil)
//	defer tx.Rollback() // no-op once committed
//	... fn(queries bound to tx) ...
//	tx.Commit()
func (s *SQLite) InTx(ctx context.Context, fn func(q storage.Queries) error) error {
	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(&queries{tx: tx, sb: s.sb}); err != nil {
		return err
	}

	return errors.Wrap(tx.Commit(), "commit transaction")
}

// Ping verifies the database is accessible with a trivial query.
func (s *SQLite) Ping(ctx context.Context) error {
	var one int
	if err := s.Db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return errors.Wrap(err, "database health check failed")
	}
	return nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return errors.Wrap(s.Db.Close(), "closing database")
}

// ─────────────────────────────────────────────────────────────────────────────
// The methods below satisfy storage.Queries for callers that do not need to
// group several operations: each one is its own transaction.
// ─────────────────────────────────────────────────────────────────────────────

func (s *SQLite) ListStudents(ctx context.Context) (students []types.Student, err error) {
	err = s.InTx(ctx, func(q storage.Queries) error {
		students, err = q.ListStudents(ctx)
		return err
	})
	return students, err
}

func (s *SQLite) GetStudentByID(ctx context.Context, id int64) (student types.Student, err error) {
	err = s.InTx(ctx, func(q storage.Queries) error {
		student, err = q.GetStudentByID(ctx, id)
		return err
	})
	return student, err
}

func (s *SQLite) SaveStudent(ctx context.Context, student *types.Student) error {
	return s.InTx(ctx, func(q storage.Queries) error {
		return q.SaveStudent(ctx, student)
	})
}

func (s *SQLite) UpdateStudent(ctx context.Context, student *types.Student) error {
	return s.InTx(ctx, func(q storage.Queries) error {
		return q.UpdateStudent(ctx, student)
	})
}

func (s *SQLite) DeleteStudentByID(ctx context.Context, id int64) error {
	return s.InTx(ctx, func(q storage.Queries) error {
		return q.DeleteStudentByID(ctx, id)
	})
}

func (s *SQLite) ListCourses(ctx context.Context) (courses []types.Course, err error) {
	err = s.InTx(ctx, func(q storage.Queries) error {
		courses, err = q.ListCourses(ctx)
		return err
	})
	return courses, err
}

func (s *SQLite) GetCourseByID(ctx context.Context, id int64) (course types.Course, err error) {
	err = s.InTx(ctx, func(q storage.Queries) error {
		course, err = q.GetCourseByID(ctx, id)
		return err
	})
	return course, err
}

func (s *SQLite) SaveCourse(ctx context.Context, course *types.Course) error {
	return s.InTx(ctx, func(q storage.Queries) error {
		return q.SaveCourse(ctx, course)
	})
}

func (s *SQLite) DeleteCourseByID(ctx context.Context, id int64) error {
	return s.InTx(ctx, func(q storage.Queries) error {
		return q.DeleteCourseByID(ctx, id)
	})
}

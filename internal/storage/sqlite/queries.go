package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/aanand-mishra/academico-api/internal/storage"
	"github.com/aanand-mishra/academico-api/internal/types"
)

// queries implements storage.Queries against a single transaction.
type queries struct {
	tx *sql.Tx
	sb squirrel.StatementBuilderType
}

var (
	studentColumns = []string{"id", "nome", "email", "matricula"}
	courseColumns  = []string{"id", "nome", "carga_horaria"}
)

// ─────────────────────────────────────────────────────────────────────────────
// Students
// ─────────────────────────────────────────────────────────────────────────────

func (q *queries) ListStudents(ctx context.Context) ([]types.Student, error) {
	query, args, err := q.sb.Select(studentColumns...).From("aluno").OrderBy("id").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "ListStudents: build query")
	}

	rows, err := q.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "ListStudents: query")
	}
	defer rows.Close()

	// Returning [] instead of null in JSON is better API behaviour.
	students := make([]types.Student, 0)
	for rows.Next() {
		var s types.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Enrollment); err != nil {
			return nil, errors.Wrap(err, "ListStudents: scan row")
		}
		s.Courses = []types.Course{}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "ListStudents: rows iteration")
	}

	// One query for every enrollment instead of one per student.
	byStudent, err := q.coursesByStudent(ctx, nil)
	if err != nil {
		return nil, err
	}
	for i := range students {
		if courses, ok := byStudent[students[i].ID]; ok {
			students[i].Courses = courses
		}
	}

	return students, nil
}

func (q *queries) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	query, args, err := q.sb.Select(studentColumns...).
		From("aluno").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return types.Student{}, errors.Wrap(err, "GetStudentByID: build query")
	}

	var s types.Student
	err = q.tx.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.Name, &s.Email, &s.Enrollment)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Student{}, errors.Wrapf(storage.ErrNotFound, "no student found with id: %d", id)
	}
	if err != nil {
		return types.Student{}, errors.Wrap(err, "GetStudentByID: scan")
	}

	byStudent, err := q.coursesByStudent(ctx, squirrel.Eq{"ac.aluno_id": id})
	if err != nil {
		return types.Student{}, err
	}
	s.Courses = byStudent[id]
	if s.Courses == nil {
		s.Courses = []types.Course{}
	}

	return s, nil
}

func (q *queries) SaveStudent(ctx context.Context, s *types.Student) error {
	if s.ID == 0 {
		query, args, err := q.sb.Insert("aluno").
			Columns("nome", "email", "matricula").
			Values(s.Name, s.Email, s.Enrollment).
			ToSql()
		if err != nil {
			return errors.Wrap(err, "SaveStudent: build insert")
		}

		result, err := q.tx.ExecContext(ctx, query, args...)
		if err != nil {
			return errors.Wrap(err, "SaveStudent: insert")
		}
		if s.ID, err = result.LastInsertId(); err != nil {
			return errors.Wrap(err, "SaveStudent: last insert id")
		}
	} else if err := q.UpdateStudent(ctx, s); err != nil {
		return errors.WithMessage(err, "SaveStudent")
	}

	if s.Courses == nil {
		s.Courses = []types.Course{}
	}

	return q.syncEnrollments(ctx, s.ID, s.CourseIDs())
}

func (q *queries) UpdateStudent(ctx context.Context, s *types.Student) error {
	query, args, err := q.sb.Update("aluno").
		Set("nome", s.Name).
		Set("email", s.Email).
		Set("matricula", s.Enrollment).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "UpdateStudent: build update")
	}

	return errors.WithMessage(q.execAffectingOne(ctx, query, args, "student", s.ID), "UpdateStudent")
}

// syncEnrollments makes the join rows of studentID equal to courseIDs.
func (q *queries) syncEnrollments(ctx context.Context, studentID int64, courseIDs []int64) error {
	// NotEq with an empty slice renders as (1=1), clearing every row.
	query, args, err := q.sb.Delete("aluno_curso").
		Where(squirrel.And{
			squirrel.Eq{"aluno_id": studentID},
			squirrel.NotEq{"curso_id": courseIDs},
		}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "syncEnrollments: build delete")
	}
	if _, err := q.tx.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "syncEnrollments: delete")
	}

	if len(courseIDs) == 0 {
		return nil
	}

	insert := q.sb.Insert("aluno_curso").Options("OR IGNORE").Columns("aluno_id", "curso_id")
	for _, courseID := range courseIDs {
		insert = insert.Values(studentID, courseID)
	}
	query, args, err = insert.ToSql()
	if err != nil {
		return errors.Wrap(err, "syncEnrollments: build insert")
	}
	if _, err := q.tx.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "syncEnrollments: insert")
	}

	return nil
}

func (q *queries) DeleteStudentByID(ctx context.Context, id int64) error {
	// The foreign key cascade would remove these too; deleting them here
	// keeps the behaviour independent of the connection's pragma.
	if err := q.syncEnrollments(ctx, id, nil); err != nil {
		return errors.WithMessage(err, "DeleteStudentByID")
	}

	query, args, err := q.sb.Delete("aluno").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "DeleteStudentByID: build query")
	}

	return errors.WithMessage(q.execAffectingOne(ctx, query, args, "student", id), "DeleteStudentByID")
}

// coursesByStudent loads enrolled courses grouped by student id, ordered by
// course id. A nil filter loads every enrollment.
func (q *queries) coursesByStudent(ctx context.Context, filter squirrel.Sqlizer) (map[int64][]types.Course, error) {
	builder := q.sb.Select("ac.aluno_id", "c.id", "c.nome", "c.carga_horaria").
		From("aluno_curso ac").
		Join("curso c ON c.id = ac.curso_id").
		OrderBy("c.id")
	if filter != nil {
		builder = builder.Where(filter)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "coursesByStudent: build query")
	}

	rows, err := q.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "coursesByStudent: query")
	}
	defer rows.Close()

	result := make(map[int64][]types.Course)
	for rows.Next() {
		var (
			studentID int64
			c         types.Course
		)
		if err := rows.Scan(&studentID, &c.ID, &c.Name, &c.CreditHours); err != nil {
			return nil, errors.Wrap(err, "coursesByStudent: scan row")
		}
		result[studentID] = append(result[studentID], c)
	}

	return result, errors.Wrap(rows.Err(), "coursesByStudent: rows iteration")
}

// ─────────────────────────────────────────────────────────────────────────────
// Courses
// ─────────────────────────────────────────────────────────────────────────────

func (q *queries) ListCourses(ctx context.Context) ([]types.Course, error) {
	query, args, err := q.sb.Select(courseColumns...).From("curso").OrderBy("id").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "ListCourses: build query")
	}

	rows, err := q.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "ListCourses: query")
	}
	defer rows.Close()

	courses := make([]types.Course, 0)
	for rows.Next() {
		var c types.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.CreditHours); err != nil {
			return nil, errors.Wrap(err, "ListCourses: scan row")
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "ListCourses: rows iteration")
	}

	byCourse, err := q.studentsByCourse(ctx, nil)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		courses[i].Students = byCourse[courses[i].ID]
	}

	return courses, nil
}

func (q *queries) GetCourseByID(ctx context.Context, id int64) (types.Course, error) {
	query, args, err := q.sb.Select(courseColumns...).
		From("curso").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return types.Course{}, errors.Wrap(err, "GetCourseByID: build query")
	}

	var c types.Course
	err = q.tx.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Name, &c.CreditHours)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Course{}, errors.Wrapf(storage.ErrNotFound, "no course found with id: %d", id)
	}
	if err != nil {
		return types.Course{}, errors.Wrap(err, "GetCourseByID: scan")
	}

	byCourse, err := q.studentsByCourse(ctx, squirrel.Eq{"ac.curso_id": id})
	if err != nil {
		return types.Course{}, err
	}
	c.Students = byCourse[id]

	return c, nil
}

func (q *queries) SaveCourse(ctx context.Context, c *types.Course) error {
	if c.ID == 0 {
		query, args, err := q.sb.Insert("curso").
			Columns("nome", "carga_horaria").
			Values(c.Name, c.CreditHours).
			ToSql()
		if err != nil {
			return errors.Wrap(err, "SaveCourse: build insert")
		}

		result, err := q.tx.ExecContext(ctx, query, args...)
		if err != nil {
			return errors.Wrap(err, "SaveCourse: insert")
		}
		c.ID, err = result.LastInsertId()
		return errors.Wrap(err, "SaveCourse: last insert id")
	}

	query, args, err := q.sb.Update("curso").
		Set("nome", c.Name).
		Set("carga_horaria", c.CreditHours).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "SaveCourse: build update")
	}

	return errors.WithMessage(q.execAffectingOne(ctx, query, args, "course", c.ID), "SaveCourse")
}

func (q *queries) DeleteCourseByID(ctx context.Context, id int64) error {
	query, args, err := q.sb.Delete("aluno_curso").Where(squirrel.Eq{"curso_id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "DeleteCourseByID: build enrollment delete")
	}
	if _, err := q.tx.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "DeleteCourseByID: delete enrollments")
	}

	query, args, err = q.sb.Delete("curso").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "DeleteCourseByID: build query")
	}

	return errors.WithMessage(q.execAffectingOne(ctx, query, args, "course", id), "DeleteCourseByID")
}

// studentsByCourse loads enrolled students grouped by course id, ordered by
// student id. A nil filter loads every enrollment.
func (q *queries) studentsByCourse(ctx context.Context, filter squirrel.Sqlizer) (map[int64][]types.Student, error) {
	builder := q.sb.Select("ac.curso_id", "a.id", "a.nome", "a.email", "a.matricula").
		From("aluno_curso ac").
		Join("aluno a ON a.id = ac.aluno_id").
		OrderBy("a.id")
	if filter != nil {
		builder = builder.Where(filter)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "studentsByCourse: build query")
	}

	rows, err := q.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "studentsByCourse: query")
	}
	defer rows.Close()

	result := make(map[int64][]types.Student)
	for rows.Next() {
		var (
			courseID int64
			s        types.Student
		)
		if err := rows.Scan(&courseID, &s.ID, &s.Name, &s.Email, &s.Enrollment); err != nil {
			return nil, errors.Wrap(err, "studentsByCourse: scan row")
		}
		s.Courses = []types.Course{}
		result[courseID] = append(result[courseID], s)
	}

	return result, errors.Wrap(rows.Err(), "studentsByCourse: rows iteration")
}

// execAffectingOne runs an UPDATE or DELETE by primary key and reports
// storage.ErrNotFound when no row matched.
func (q *queries) execAffectingOne(ctx context.Context, query string, args []interface{}, entity string, id int64) error {
	result, err := q.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "exec")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return errors.Wrapf(storage.ErrNotFound, "no %s found with id: %d", entity, id)
	}

	return nil
}

// Package student contains the HTTP handlers for the /api/alunos resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Each exported function receives its dependencies once, at route
// registration, and returns the func(http.ResponseWriter, *http.Request)
// the router calls on every request:
//
//	router.HandleFunc("GET /api/alunos/{id}", student.GetByID(svc))
package student

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aanand-mishra/academico-api/internal/logger"
	"github.com/aanand-mishra/academico-api/internal/storage"
	"github.com/aanand-mishra/academico-api/internal/types"
	"github.com/aanand-mishra/academico-api/internal/utils/request"
	"github.com/aanand-mishra/academico-api/internal/utils/response"
)

// Service is what the handlers need from the student domain service.
type Service interface {
	FindAll(ctx context.Context) ([]types.Student, error)
	FindByID(ctx context.Context, id int64) (types.Student, error)
	Save(ctx context.Context, student *types.Student) error
	UpdateDetails(ctx context.Context, id int64, details types.Student) (types.Student, error)
	DeleteByID(ctx context.Context, id int64) error
	Enroll(ctx context.Context, studentID, courseID int64) (types.Student, error)
	Unenroll(ctx context.Context, studentID, courseID int64) (types.Student, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/alunos
//
// Request body:
//
//	{ "nome": "Ana", "email": "ana@x.com", "matricula": "123" }
//
// Success response (201 Created): the stored student, id included.
// Any "id" or "cursos" in the body is ignored; enrollment only changes
// through the matricular/desmatricular endpoints.
// ─────────────────────────────────────────────────────────────────────────────
func New(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var student types.Student
		if err := request.DecodeJSON(r, &student); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		student.ID = 0
		student.Courses = []types.Course{}

		if err := svc.Save(r.Context(), &student); err != nil {
			serverError(w, "error creating student", err)
			return
		}

		zap.L().Info("student created", logger.StudentID(student.ID))
		response.WriteJSON(w, http.StatusCreated, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/alunos
// Returns a JSON array of every student with their courses; [] when empty.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		students, err := svc.FindAll(r.Context())
		if err != nil {
			serverError(w, "error listing students", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/alunos/{id}
//
//	200 OK         — the student
//	400 Bad Request — id is not a positive integer
//	404 Not Found   — empty body
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r, "id")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		student, err := svc.FindByID(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteEmpty(w, http.StatusNotFound)
			return
		}
		if err != nil {
			serverError(w, "error getting student", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/alunos/{id}
// Overwrites nome, email and matricula of an existing student. The course
// set is left exactly as stored.
//
//	200 OK        — the updated student
//	404 Not Found — empty body
// ─────────────────────────────────────────────────────────────────────────────
func Update(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r, "id")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		var details types.Student
		if err := request.DecodeJSON(r, &details); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		student, err := svc.UpdateDetails(r.Context(), id, details)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteEmpty(w, http.StatusNotFound)
			return
		}
		if err != nil {
			serverError(w, "error updating student", err)
			return
		}

		zap.L().Info("student updated", logger.StudentID(id))
		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/alunos/{id}
// Removes the student together with its enrollments.
//
//	204 No Content — deleted
//	404 Not Found  — empty body
// ─────────────────────────────────────────────────────────────────────────────
func Delete(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r, "id")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		_, err = svc.FindByID(r.Context(), id)
		if err == nil {
			err = svc.DeleteByID(r.Context(), id)
		}
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteEmpty(w, http.StatusNotFound)
			return
		}
		if err != nil {
			serverError(w, "error deleting student", err)
			return
		}

		zap.L().Info("student deleted", logger.StudentID(id))
		response.WriteEmpty(w, http.StatusNoContent)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Enroll handles POST /api/alunos/{alunoId}/matricular/{cursoId}
//
//	200 OK          — the student with the course in "cursos"
//	400 Bad Request — empty body when the student or the course is missing
// ─────────────────────────────────────────────────────────────────────────────
func Enroll(svc Service) http.HandlerFunc {
	return enrollment(svc.Enroll)
}

// ─────────────────────────────────────────────────────────────────────────────
// Unenroll handles DELETE /api/alunos/{alunoId}/desmatricular/{cursoId}
// Same status mapping as Enroll. Unenrolling a course the student was not
// taking still answers 200.
// ─────────────────────────────────────────────────────────────────────────────
func Unenroll(svc Service) http.HandlerFunc {
	return enrollment(svc.Unenroll)
}

// enrollment answers a missing student or course with 400, not 404; existing
// clients depend on that status.
func enrollment(change func(ctx context.Context, studentID, courseID int64) (types.Student, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, err := request.PathID(r, "alunoId")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		courseID, err := request.PathID(r, "cursoId")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		student, err := change(r.Context(), studentID, courseID)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteEmpty(w, http.StatusBadRequest)
			return
		}
		if err != nil {
			serverError(w, "error changing enrollment", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

func serverError(w http.ResponseWriter, msg string, err error) {
	zap.L().Error(msg, zap.Error(err))
	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
}
